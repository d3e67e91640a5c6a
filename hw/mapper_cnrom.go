package hw

import (
	"fmt"

	"famicore/ines"
)

// cnrom is mapper 003: fixed PRG like NROM, 8k switchable CHR bank selected
// by ROM writes.
type cnrom struct {
	prg       []byte
	chr       []byte
	bank      int
	nbanks    int
	mirroring ines.NTMirroring
}

func newCNROM(rom *ines.Rom) (Mapper, error) {
	if len(rom.CHR) == 0 {
		return nil, fmt.Errorf("%w: CNROM requires CHR ROM", ErrInvalidCartridge)
	}
	return &cnrom{
		prg:       rom.PRG,
		chr:       rom.CHR,
		nbanks:    len(rom.CHR) / 0x2000,
		mirroring: rom.Mirroring(),
	}, nil
}

func (m *cnrom) ReadPRG(addr uint16) uint8 {
	if addr >= 0x8000 {
		return m.prg[int(addr-0x8000)%len(m.prg)]
	}
	return 0
}

func (m *cnrom) WritePRG(addr uint16, v uint8) {
	if addr >= 0x8000 {
		m.bank = int(v&0x03) % m.nbanks
	}
}

func (m *cnrom) ReadCHR(addr uint16) uint8 {
	return m.chr[m.bank*0x2000+int(addr)]
}

func (m *cnrom) WriteCHR(addr uint16, v uint8) {
	// CHR is ROM on CNROM boards.
}

func (m *cnrom) Mirroring() ines.NTMirroring { return m.mirroring }
