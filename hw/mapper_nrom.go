package hw

import (
	"famicore/ines"
)

// nrom is mapper 000: 16k or 32k of fixed PRG ROM, the 16k variant mirrored
// over the whole bank window, plus 8k of PRG RAM at 0x6000.
type nrom struct {
	chrBank
	prg       []byte
	prgRAM    [0x2000]byte
	mirroring ines.NTMirroring
}

func newNROM(rom *ines.Rom) (Mapper, error) {
	return &nrom{
		chrBank:   newChrBank(rom),
		prg:       rom.PRG,
		mirroring: rom.Mirroring(),
	}, nil
}

func (m *nrom) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x8000:
		return m.prg[int(addr-0x8000)%len(m.prg)]
	case addr >= 0x6000:
		return m.prgRAM[addr-0x6000]
	}
	return 0
}

func (m *nrom) WritePRG(addr uint16, v uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.prgRAM[addr-0x6000] = v
	}
	// ROM writes have no effect, NROM has no bank select.
}

func (m *nrom) Mirroring() ines.NTMirroring { return m.mirroring }
