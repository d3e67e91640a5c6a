// Package ines implements a reader for the iNES file format, used for the
// distribution of NES binary programs.
package ines

import (
	"fmt"
	"io"
	"os"
)

// Magic is the 4-byte constant opening every iNES file.
const Magic = "NES\x1a"

// NTMirroring is the nametable mirroring arrangement requested by the
// cartridge. Mappers with mirroring control may override it at runtime.
type NTMirroring uint8

const (
	HorzMirroring NTMirroring = iota
	VertMirroring
	SingleScreenA
	SingleScreenB
	FourScreen
)

func (m NTMirroring) String() string {
	switch m {
	case HorzMirroring:
		return "horizontal"
	case VertMirroring:
		return "vertical"
	case SingleScreenA:
		return "single-screen A"
	case SingleScreenB:
		return "single-screen B"
	case FourScreen:
		return "four-screen"
	}
	return "unknown"
}

type Rom struct {
	header
	Trainer []byte // Trainer, 512 bytes if present, or empty.
	PRG     []byte // PRG ROM data (length is a multiple of 16k).
	CHR     []byte // CHR ROM data (length is a multiple of 8k, empty for CHR RAM).
}

// Open loads a rom from file.
func Open(path string) (*Rom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rom := new(Rom)
	if _, err := rom.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rom, nil
}

// ReadFrom implements the io.ReaderFrom interface.
func (rom *Rom) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	var off int
	if err := rom.decode(buf); err != nil {
		return 0, fmt.Errorf("failed to decode header: %w", err)
	}
	off += 16

	if rom.HasTrainer() {
		if len(buf) < off+512 {
			return 0, fmt.Errorf("incomplete TRAINER section")
		}
		rom.Trainer = buf[off : off+512]
		off += 512
	}

	if len(buf) < off+rom.prgsz {
		return 0, fmt.Errorf("incomplete PRG section")
	}
	rom.PRG = buf[off : off+rom.prgsz]
	off += rom.prgsz

	if len(buf) < off+rom.chrsz {
		return 0, fmt.Errorf("incomplete CHR section")
	}
	rom.CHR = buf[off : off+rom.chrsz]
	off += rom.chrsz

	return int64(len(buf)), nil
}

type header struct {
	raw   [16]byte
	prgsz int
	chrsz int
}

func (hdr *header) decode(p []byte) error {
	if len(p) < 16 {
		return fmt.Errorf("too small, needs 16 bytes")
	}
	if string(p[:4]) != Magic {
		return fmt.Errorf("invalid magic number")
	}
	copy(hdr.raw[:], p[:16])

	hdr.prgsz = int(hdr.raw[4]) * 16384
	hdr.chrsz = int(hdr.raw[5]) * 8192
	return nil
}

// HasTrainer indicates the presence of a trainer section in the rom.
func (hdr *header) HasTrainer() bool {
	return hdr.raw[6]&0x04 != 0
}

// HasPersistent indicates the presence of persistent memory in the rom.
func (hdr *header) HasPersistent() bool {
	return hdr.raw[6]&0x02 != 0
}

// HasChrRAM reports whether the cartridge provides CHR RAM instead of CHR
// ROM. In that case the CHR slice is empty and the mapper backs pattern
// memory with 8k of RAM.
func (hdr *header) HasChrRAM() bool {
	return hdr.chrsz == 0
}

// Mapper returns the mapper number, assembled from the two header nibbles.
func (hdr *header) Mapper() uint8 {
	return hdr.raw[7]&0xf0 | hdr.raw[6]>>4
}

// Mirroring returns the nametable arrangement the cartridge is wired for.
func (hdr *header) Mirroring() NTMirroring {
	if hdr.raw[6]&0x08 != 0 {
		return FourScreen
	}
	if hdr.raw[6]&0x01 != 0 {
		return VertMirroring
	}
	return HorzMirroring
}
