package hw

import (
	"famicore/ines"
)

// uxrom is mapper 002: 16k switchable PRG bank at 0x8000, last 16k bank
// fixed at 0xC000. Any ROM write selects the switchable bank.
type uxrom struct {
	chrBank
	prg       []byte
	bank      int
	nbanks    int
	mirroring ines.NTMirroring
}

func newUxROM(rom *ines.Rom) (Mapper, error) {
	return &uxrom{
		chrBank:   newChrBank(rom),
		prg:       rom.PRG,
		nbanks:    len(rom.PRG) / 0x4000,
		mirroring: rom.Mirroring(),
	}, nil
}

func (m *uxrom) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0xC000:
		return m.prg[(m.nbanks-1)*0x4000+int(addr-0xC000)]
	case addr >= 0x8000:
		return m.prg[m.bank*0x4000+int(addr-0x8000)]
	}
	return 0
}

func (m *uxrom) WritePRG(addr uint16, v uint8) {
	if addr >= 0x8000 {
		m.bank = int(v) % m.nbanks
	}
}

func (m *uxrom) Mirroring() ines.NTMirroring { return m.mirroring }
