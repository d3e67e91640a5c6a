package hw

import (
	"testing"
)

func TestLoadFlagLaws(t *testing.T) {
	// LDA #v sets Z exactly for v == 0 and N exactly for bit 7, for every
	// possible value.
	for v := 0; v < 256; v++ {
		cpu := loadCPUWith(t, `0600: a9 00`)
		cpu.Write8(0x0601, uint8(v))
		cpu.Step()

		if got, want := cpu.P.Z(), v == 0; got != want {
			t.Errorf("LDA #$%02X: Z=%t, want %t", v, got, want)
		}
		if got, want := cpu.P.N(), v&0x80 != 0; got != want {
			t.Errorf("LDA #$%02X: N=%t, want %t", v, got, want)
		}
	}
}

func TestStatusPushPullRoundTrip(t *testing.T) {
	// PHP sets the break and unused bits on the pushed copy, PLP drops the
	// break bit and forces the unused one. Everything else round-trips.
	for v := 0; v < 256; v++ {
		cpu := loadCPUWith(t, `0600: 08 28`) // PHP ; PLP
		cpu.P = P(v)
		cpu.Step()

		pushed := cpu.Read8(0x0100 + uint16(cpu.SP) + 1)
		if want := uint8(v) | 1<<pbitB | 1<<pbitU; pushed != want {
			t.Errorf("P=$%02X: pushed $%02X, want $%02X", v, pushed, want)
		}

		cpu.Step()
		if got, want := uint8(cpu.P), uint8(v)&^(1<<pbitB)|1<<pbitU; got != want {
			t.Errorf("P=$%02X: pulled back $%02X, want $%02X", v, got, want)
		}
	}
}

func TestADC(t *testing.T) {
	tests := []struct {
		a, v  uint8
		carry bool
		want  uint8
		wantC uint8
		wantV uint8
	}{
		{0x01, 0x01, false, 0x02, 0, 0},
		{0x01, 0x01, true, 0x03, 0, 0},
		{0xFF, 0x01, false, 0x00, 1, 0},
		{0x7F, 0x01, false, 0x80, 0, 1}, // positive overflow
		{0x80, 0xFF, false, 0x7F, 1, 1}, // negative overflow
		{0x50, 0x50, false, 0xA0, 0, 1},
		{0xD0, 0x90, false, 0x60, 1, 1},
	}
	for _, tt := range tests {
		cpu := loadCPUWith(t, `0600: 69 00`)
		cpu.Write8(0x0601, tt.v)
		cpu.A = tt.a
		cpu.P.writeBit(pbitC, tt.carry)
		cpu.Step()
		wantCPUState(t, cpu, "A", tt.want, "Pc", tt.wantC, "Pv", tt.wantV)
	}
}

func TestSBC(t *testing.T) {
	tests := []struct {
		a, v  uint8
		carry bool
		want  uint8
		wantC uint8
	}{
		{0x10, 0x01, true, 0x0F, 1},
		{0x10, 0x01, false, 0x0E, 1},
		{0x00, 0x01, true, 0xFF, 0},
		{0x80, 0x01, true, 0x7F, 1},
	}
	for _, tt := range tests {
		cpu := loadCPUWith(t, `0600: e9 00`)
		cpu.Write8(0x0601, tt.v)
		cpu.A = tt.a
		cpu.P.writeBit(pbitC, tt.carry)
		cpu.Step()
		wantCPUState(t, cpu, "A", tt.want, "Pc", tt.wantC)
	}
}

func TestDecimalFlagInert(t *testing.T) {
	// SED ; CLC ; LDA #$09 ; ADC #$01. With a working decimal mode the
	// result would be $10, the 2A03 produces binary $0A.
	cpu := loadCPUWith(t, `0600: f8 18 a9 09 69 01`)
	for range 4 {
		cpu.Step()
	}
	wantCPUState(t, cpu, "A", uint8(0x0A), "Pd", uint8(1))
}

func TestDocumentedTraceSequence(t *testing.T) {
	// LDA #$05 ; TAX ; INX ; BRK
	cpu := loadCPUWith(t, `0600: a9 05 aa e8 00`)

	start := cpu.Cycles
	cpu.Step()
	wantCPUState(t, cpu, "A", uint8(0x05), "PC", uint16(0x0602), "Pnz", uint8(0))
	cpu.Step()
	wantCPUState(t, cpu, "X", uint8(0x05), "PC", uint16(0x0603))
	cpu.Step()
	wantCPUState(t, cpu, "X", uint8(0x06), "PC", uint16(0x0604))

	if got := cpu.Cycles - start; got != 6 {
		t.Errorf("three register ops took %d cycles, want 6", got)
	}

	sp := cpu.SP
	cpu.Step() // BRK
	if got := cpu.Cycles - start; got != 13 {
		t.Errorf("sequence with BRK took %d cycles, want 13", got)
	}
	if !cpu.P.I() {
		t.Error("BRK did not set the interrupt disable flag")
	}
	// BRK pushes the address of the byte after its padding byte.
	retHi := cpu.Read8(0x0100 + uint16(sp))
	retLo := cpu.Read8(0x0100 + uint16(sp) - 1)
	pushed := cpu.Read8(0x0100 + uint16(sp) - 2)
	if ret := uint16(retHi)<<8 | uint16(retLo); ret != 0x0606 {
		t.Errorf("BRK pushed return address %04X, want 0606", ret)
	}
	if pushed&(1<<pbitB) == 0 {
		t.Error("BRK pushed status without the break bit")
	}
}

func TestJSRRTS(t *testing.T) {
	// JSR $0620 ; ... subroutine: LDA #$77 ; RTS
	cpu := loadCPUWith(t, `
0600: 20 20 06
0620: a9 77 60
`)
	cpu.Step() // JSR
	wantCPUState(t, cpu, "PC", uint16(0x0620))
	cpu.Step() // LDA
	cpu.Step() // RTS
	wantCPUState(t, cpu, "A", uint8(0x77), "PC", uint16(0x0603))
}

func TestStackPointerWraps(t *testing.T) {
	cpu := loadCPUWith(t, `0600: 48 48`) // PHA ; PHA
	cpu.SP = 0x00
	cpu.Step()
	wantCPUState(t, cpu, "SP", uint8(0xFF))
	cpu.Step()
	wantCPUState(t, cpu, "SP", uint8(0xFE))
}

func TestNMISequence(t *testing.T) {
	nes := loadNESWith(t, `
0600: 4c 00 06
fffa: 50 06
0650: e8 40
`)
	cpu, ppu := nes.CPU, nes.PPU

	ppu.nmiPending = true
	start := cpu.Cycles
	cpu.Step()
	if got := cpu.Cycles - start; got != 7 {
		t.Errorf("NMI entry took %d cycles, want 7", got)
	}
	wantCPUState(t, cpu, "PC", uint16(0x0650), "Pi", uint8(1))

	// The pushed status has the break bit clear.
	pushed := cpu.Read8(0x0100 + uint16(cpu.SP) + 1)
	if pushed&(1<<pbitB) != 0 {
		t.Error("NMI pushed status with the break bit set")
	}

	cpu.Step() // INX
	cpu.Step() // RTI
	wantCPUState(t, cpu, "X", uint8(1), "PC", uint16(0x0600))

	// The line was consumed, no second entry.
	cpu.Step()
	wantCPUState(t, cpu, "PC", uint16(0x0600)) // JMP $0600 loops
}

func TestIRQMasking(t *testing.T) {
	nes := loadNESWith(t, `
0600: ea ea
fffe: 50 06
0650: 40
`)
	cpu := nes.CPU

	cpu.P.setBit(pbitI)
	cpu.SetIRQ(true)
	cpu.Step()
	wantCPUState(t, cpu, "PC", uint16(0x0601)) // masked, NOP ran

	cpu.P.clearBit(pbitI)
	cpu.Step()
	wantCPUState(t, cpu, "PC", uint16(0x0650), "Pi", uint8(1))
}

func TestOAMDMAStall(t *testing.T) {
	// STA $4014 with A=$02 copies page 2 into OAM and stalls the CPU.
	nes := loadNESWith(t, `
0600: a9 02 8d 14 40
0200: de ad be ef
`)
	cpu, ppu := nes.CPU, nes.PPU

	cpu.Step() // LDA
	start := cpu.Cycles
	cpu.Step() // STA, triggers DMA

	got := cpu.Cycles - start
	if got != 4+513 && got != 4+514 {
		t.Errorf("STA $4014 took %d cycles, want 517 or 518", got)
	}
	want := []uint8{0xde, 0xad, 0xbe, 0xef}
	for i, w := range want {
		if ppu.oam[i] != w {
			t.Errorf("oam[%d] = %02X, want %02X", i, ppu.oam[i], w)
		}
	}
}

func TestResetVector(t *testing.T) {
	nes := newTestNES(t)

	m := nes.Bus.mapper.(*testMapper)
	m.prg[0xFFFC-0x8000] = 0x34
	m.prg[0xFFFD-0x8000] = 0x12
	nes.CPU.Reset()
	wantCPUState(t, nes.CPU, "PC", uint16(0x1234), "SP", uint8(0xFD), "Pi", uint8(1))
}
