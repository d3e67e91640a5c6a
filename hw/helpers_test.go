package hw

import (
	"bufio"
	"encoding/hex"
	"strconv"
	"strings"
	"testing"

	"famicore/ines"
)

// testMapper is a flat cartridge for tests: 32k of writable PRG and 8k of
// writable CHR, with configurable mirroring.
type testMapper struct {
	prg       [0x8000]byte
	chr       [0x2000]byte
	mirroring ines.NTMirroring
}

func (m *testMapper) ReadPRG(addr uint16) uint8 {
	if addr >= 0x8000 {
		return m.prg[addr-0x8000]
	}
	return 0
}

func (m *testMapper) WritePRG(addr uint16, v uint8) {
	if addr >= 0x8000 {
		m.prg[addr-0x8000] = v
	}
}

func (m *testMapper) ReadCHR(addr uint16) uint8     { return m.chr[addr&0x1FFF] }
func (m *testMapper) WriteCHR(addr uint16, v uint8) { m.chr[addr&0x1FFF] = v }
func (m *testMapper) Mirroring() ines.NTMirroring   { return m.mirroring }

func newTestNES(tb testing.TB) *NES {
	tb.Helper()

	m := &testMapper{mirroring: ines.HorzMirroring}
	ppu := NewPPU(m)
	bus := NewBus(ppu, m)
	cpu := NewCPU(bus)
	return &NES{CPU: cpu, PPU: ppu, Bus: bus}
}

type dumpline struct {
	off   uint16
	bytes []byte
}

func loadDump(tb testing.TB, dump string) []dumpline {
	tb.Helper()

	var lines []dumpline
	scan := bufio.NewScanner(strings.NewReader(dump))
	for scan.Scan() {
		line := scan.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		off, octets, ok := strings.Cut(line, ":")
		if !ok {
			tb.Fatalf("malformed line: %s", line)
		}

		ioff, err := strconv.ParseUint(strings.TrimSpace(off), 16, 16)
		if err != nil {
			tb.Fatalf("malformed offset %s: %s", off, err)
		}
		buf, err := hex.DecodeString(strings.ReplaceAll(octets, " ", ""))
		if err != nil {
			tb.Fatalf("hex decode: %s", err)
		}
		lines = append(lines, dumpline{off: uint16(ioff), bytes: buf})
	}
	if scan.Err() != nil {
		tb.Fatalf("scan error: %s", scan.Err())
	}
	return lines
}

// loadNESWith builds a test console and loads a memory dump into it. PC is
// set to the offset of the first dump line.
func loadNESWith(tb testing.TB, dump string) *NES {
	tb.Helper()

	nes := newTestNES(tb)
	lines := loadDump(tb, dump)
	for _, line := range lines {
		for i, b := range line.bytes {
			nes.Bus.Write8(line.off+uint16(i), b)
		}
	}
	if len(lines) > 0 {
		nes.CPU.PC = lines[0].off
	}
	return nes
}

func loadCPUWith(tb testing.TB, dump string) *CPU {
	tb.Helper()
	return loadNESWith(tb, dump).CPU
}

func b2i(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// wantCPUState checks a list of register name / value pairs against the CPU
// state. Flag checks use the "Pnz" form, one expected bit value for every
// flag letter.
func wantCPUState(t *testing.T, cpu *CPU, states ...any) {
	t.Helper()

	if len(states)%2 != 0 {
		panic("odd number of states")
	}

	checkuint8 := func(name string, got, want uint8) {
		t.Helper()
		if got != want {
			t.Errorf("got %s=$%02X, want $%02X", name, got, want)
		}
	}

	for i := 0; i < len(states); i += 2 {
		s := states[i].(string)
		switch {
		case s == "A":
			checkuint8("A", cpu.A, states[i+1].(uint8))
		case s == "X":
			checkuint8("X", cpu.X, states[i+1].(uint8))
		case s == "Y":
			checkuint8("Y", cpu.Y, states[i+1].(uint8))
		case s == "SP":
			checkuint8("SP", cpu.SP, states[i+1].(uint8))
		case s == "PC":
			if got, want := cpu.PC, states[i+1].(uint16); got != want {
				t.Errorf("got PC=$%04X, want $%04X", got, want)
			}
		case s == "P":
			if got, want := uint8(cpu.P), states[i+1].(uint8); got != want {
				t.Errorf("got P=$%02X(%s), want $%02X(%s)", got, P(got), want, P(want))
			}
		case len(s) > 1 && s[0] == 'P':
			bit := states[i+1].(uint8)
			for j := 1; j < len(s); j++ {
				var got uint8
				switch s[j] {
				case 'n':
					got = b2i(cpu.P.N())
				case 'v':
					got = b2i(cpu.P.V())
				case 'd':
					got = b2i(cpu.P.D())
				case 'i':
					got = b2i(cpu.P.I())
				case 'z':
					got = b2i(cpu.P.Z())
				case 'c':
					got = b2i(cpu.P.C())
				default:
					panic("unknown P bit: " + string(s[j]))
				}
				if got != bit {
					t.Errorf("got P%c=%d, want %d (P=%s)", s[j], got, bit, cpu.P)
				}
			}
		default:
			panic("unknown state: " + s)
		}
	}

	if t.Failed() {
		t.FailNow()
	}
}

// makeRomImage builds a minimal iNES file image in memory.
func makeRomImage(mapper uint8, mirroring uint8, prgBanks, chrBanks int) []byte {
	hdr := make([]byte, 16)
	copy(hdr, ines.Magic)
	hdr[4] = uint8(prgBanks)
	hdr[5] = uint8(chrBanks)
	hdr[6] = mapper<<4 | mirroring
	hdr[7] = mapper & 0xF0

	img := hdr
	img = append(img, make([]byte, prgBanks*16384)...)
	img = append(img, make([]byte, chrBanks*8192)...)
	return img
}

func makeRom(tb testing.TB, mapper uint8, prgBanks, chrBanks int) *ines.Rom {
	tb.Helper()

	rom := new(ines.Rom)
	img := makeRomImage(mapper, 0, prgBanks, chrBanks)
	if _, err := rom.ReadFrom(strings.NewReader(string(img))); err != nil {
		tb.Fatalf("failed to build test rom: %s", err)
	}
	return rom
}
