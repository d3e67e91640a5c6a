package hw

import (
	"errors"
	"fmt"

	"famicore/emu/log"
	"famicore/ines"
)

// ErrInvalidCartridge is the load-time error class for roms the emulator
// can't run. Errors wrap it, check with errors.Is.
var ErrInvalidCartridge = errors.New("invalid cartridge")

// Mapper is the cartridge hardware seen from the two console buses: PRG
// (CPU bus, upper address space) and CHR (PPU bus, pattern tables). Writes
// landing in ROM regions act as bank select lines or are ignored, they are
// never an error.
type Mapper interface {
	ReadPRG(addr uint16) uint8
	WritePRG(addr uint16, v uint8)
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, v uint8)

	// Mirroring returns the nametable arrangement currently in effect.
	Mirroring() ines.NTMirroring
}

var mappers = map[uint8]func(*ines.Rom) (Mapper, error){
	0: newNROM,
	2: newUxROM,
	3: newCNROM,
}

// NewMapper creates the mapper circuitry for the given rom. ROM sizes
// inconsistent with the mapper are detected here, never at access time.
func NewMapper(rom *ines.Rom) (Mapper, error) {
	create, ok := mappers[rom.Mapper()]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported mapper %03d", ErrInvalidCartridge, rom.Mapper())
	}
	if len(rom.PRG) == 0 {
		return nil, fmt.Errorf("%w: no PRG ROM", ErrInvalidCartridge)
	}
	m, err := create(rom)
	if err != nil {
		return nil, err
	}
	log.ModMapper.InfoZ("cartridge").
		Int("mapper", int(rom.Mapper())).
		Int("prg", len(rom.PRG)).
		Int("chr", len(rom.CHR)).
		String("mirroring", rom.Mirroring().String()).
		End()
	return m, nil
}

// chrBank is the CHR side shared by mappers without CHR banking: 8k of ROM,
// or 8k of RAM when the cartridge ships none.
type chrBank struct {
	chr    []byte
	chrRAM bool
}

func newChrBank(rom *ines.Rom) chrBank {
	if rom.HasChrRAM() {
		return chrBank{chr: make([]byte, 0x2000), chrRAM: true}
	}
	return chrBank{chr: rom.CHR}
}

func (b *chrBank) ReadCHR(addr uint16) uint8 {
	return b.chr[int(addr)%len(b.chr)]
}

func (b *chrBank) WriteCHR(addr uint16, v uint8) {
	if b.chrRAM {
		b.chr[int(addr)%len(b.chr)] = v
	}
}
