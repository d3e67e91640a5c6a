package hw

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeAllOpcodes(t *testing.T) {
	// Every slot of the table must decode to something executable.
	for op := 0; op < 256; op++ {
		ins := Decode(uint8(op))
		if ins.Size() < 1 || ins.Size() > 3 {
			t.Errorf("opcode %02X: size %d out of range", op, ins.Size())
		}
		if ins.Cycles < 2 || ins.Cycles > 8 {
			t.Errorf("opcode %02X: %d base cycles out of range", op, ins.Cycles)
		}
		if ins.Page != 0 && ins.Page != 1 {
			t.Errorf("opcode %02X: page penalty %d", op, ins.Page)
		}
	}
}

func TestDecodeSpotChecks(t *testing.T) {
	tests := []struct {
		opcode uint8
		want   Instruction
	}{
		{0x00, Instruction{BRK, Implied, 7, 0, false}},
		{0xa9, Instruction{LDA, Immediate, 2, 0, false}},
		{0xbd, Instruction{LDA, AbsoluteX, 4, 1, false}},
		{0x91, Instruction{STA, IndirectY, 6, 0, false}},
		{0x6c, Instruction{JMP, Indirect, 5, 0, false}},
		{0x1e, Instruction{ASL, AbsoluteX, 7, 0, false}},
		{0xd0, Instruction{BNE, Relative, 2, 1, false}},
		{0xeb, Instruction{SBC, Immediate, 2, 0, true}},
		{0xa3, Instruction{LAX, IndirectX, 6, 0, true}},
		{0x02, Instruction{JAM, Implied, 2, 0, true}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, Decode(tt.opcode)); diff != "" {
			t.Errorf("Decode(%02X) mismatch (-want +got):\n%s", tt.opcode, diff)
		}
	}
}

func TestModeSizes(t *testing.T) {
	tests := []struct {
		mode AddrMode
		want uint8
	}{
		{Implied, 1}, {Accumulator, 1},
		{Immediate, 2}, {ZeroPage, 2}, {ZeroPageX, 2}, {ZeroPageY, 2},
		{IndirectX, 2}, {IndirectY, 2}, {Relative, 2},
		{Absolute, 3}, {AbsoluteX, 3}, {AbsoluteY, 3}, {Indirect, 3},
	}
	for _, tt := range tests {
		if got := modeSize[tt.mode]; got != tt.want {
			t.Errorf("%s: got size %d, want %d", tt.mode, got, tt.want)
		}
	}
}

func TestAbsoluteXPageCross(t *testing.T) {
	// LDX #$01 ; LDA $12FF,X reaches $1300 and pays the page penalty.
	cpu := loadCPUWith(t, `
0600: a2 01 bd ff 12
1300: ab
`)
	cpu.Step() // LDX
	start := cpu.Cycles
	cpu.Step() // LDA
	wantCPUState(t, cpu, "A", uint8(0xab), "X", uint8(0x01))
	if got := cpu.Cycles - start; got != 5 {
		t.Errorf("crossing LDA abs,X took %d cycles, want 5", got)
	}
}

func TestAbsoluteXNoCross(t *testing.T) {
	cpu := loadCPUWith(t, `
0600: a2 01 bd 00 13
1301: cd
`)
	cpu.Step()
	start := cpu.Cycles
	cpu.Step()
	wantCPUState(t, cpu, "A", uint8(0xcd))
	if got := cpu.Cycles - start; got != 4 {
		t.Errorf("non-crossing LDA abs,X took %d cycles, want 4", got)
	}
}

func TestStoreNeverPaysPagePenalty(t *testing.T) {
	// STA $12FF,X always takes 5 cycles, crossing or not.
	cpu := loadCPUWith(t, `0600: a2 01 9d ff 12`)
	cpu.Step()
	start := cpu.Cycles
	cpu.Step()
	if got := cpu.Cycles - start; got != 5 {
		t.Errorf("STA abs,X took %d cycles, want 5", got)
	}
	if got := cpu.Read8(0x1300); got != 0 {
		t.Errorf("$1300 = %02X, want 00", got)
	}
}

func TestRMWAbsoluteXFixedCycles(t *testing.T) {
	// INC $12FF,X is 7 cycles whether or not the access crosses a page.
	for _, x := range []uint8{0, 1} {
		cpu := loadCPUWith(t, `0600: fe ff 12`)
		cpu.X = x
		start := cpu.Cycles
		cpu.Step()
		if got := cpu.Cycles - start; got != 7 {
			t.Errorf("X=%d: INC abs,X took %d cycles, want 7", x, got)
		}
	}
}

func TestBranchCycles(t *testing.T) {
	tests := []struct {
		name string
		dump string
		prep func(*CPU)
		want int64
	}{
		{
			name: "not taken",
			dump: `0600: d0 10`, // BNE +16
			prep: func(c *CPU) { c.P.setBit(pbitZ) },
			want: 2,
		},
		{
			name: "taken same page",
			dump: `0600: d0 10`,
			prep: func(c *CPU) { c.P.clearBit(pbitZ) },
			want: 3,
		},
		{
			name: "taken page cross",
			dump: `06f0: d0 7f`, // target 0x0771, next instruction at 0x06f2
			prep: func(c *CPU) { c.P.clearBit(pbitZ) },
			want: 4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cpu := loadCPUWith(t, tt.dump)
			tt.prep(cpu)
			start := cpu.Cycles
			cpu.Step()
			if got := cpu.Cycles - start; got != tt.want {
				t.Errorf("branch took %d cycles, want %d", got, tt.want)
			}
		})
	}
}

func TestIndirectJMPBug(t *testing.T) {
	// JMP ($02FF) fetches the pointer high byte from $0200, not $0300.
	cpu := loadCPUWith(t, `
0600: 6c ff 02
0200: 12
02ff: 34
0300: 56
`)
	cpu.Step()
	wantCPUState(t, cpu, "PC", uint16(0x1234))
}

func TestZeroPageIndexWrap(t *testing.T) {
	// LDA $FF,X with X=2 wraps to $0001.
	cpu := loadCPUWith(t, `
0600: a2 02 b5 ff
0001: 77
`)
	cpu.Step()
	cpu.Step()
	wantCPUState(t, cpu, "A", uint8(0x77))
}

func TestIndirectYPointerWrap(t *testing.T) {
	// The ($FF),Y pointer reads its high byte from $00.
	cpu := loadCPUWith(t, `
0600: a0 01 b1 ff
00ff: 00
0000: 04
0401: 99
`)
	cpu.Step()
	cpu.Step()
	wantCPUState(t, cpu, "A", uint8(0x99))
}

func TestJAMHaltsCPU(t *testing.T) {
	cpu := loadCPUWith(t, `0600: 02`)
	cpu.Step()
	if !cpu.IsHalted() {
		t.Fatal("CPU not halted after JAM")
	}
	pc := cpu.PC
	if got := cpu.Step(); got != 1 {
		t.Errorf("halted Step returned %d cycles, want 1", got)
	}
	if cpu.PC != pc {
		t.Errorf("halted CPU moved PC from %04X to %04X", pc, cpu.PC)
	}
}

func TestUndocumentedLAX(t *testing.T) {
	cpu := loadCPUWith(t, `
0600: a7 10
0010: c3
`)
	cpu.Step()
	wantCPUState(t, cpu, "A", uint8(0xc3), "X", uint8(0xc3), "Pn", uint8(1), "Pz", uint8(0))
}

func TestUndocumentedSAX(t *testing.T) {
	cpu := loadCPUWith(t, `0600: 87 10`)
	cpu.A, cpu.X = 0xF0, 0x3C
	cpu.Step()
	if got := cpu.Read8(0x0010); got != 0x30 {
		t.Errorf("$0010 = %02X, want 30", got)
	}
}

func TestUndocumentedDCP(t *testing.T) {
	cpu := loadCPUWith(t, `
0600: c7 10
0010: 41
`)
	cpu.A = 0x40
	cpu.Step()
	if got := cpu.Read8(0x0010); got != 0x40 {
		t.Errorf("$0010 = %02X, want 40", got)
	}
	wantCPUState(t, cpu, "Pzc", uint8(1))
}

func TestDisasm(t *testing.T) {
	nes := loadNESWith(t, `
0600: a9 05
0602: bd 00 13
0605: d0 f9
0607: a7 10
`)
	tests := []struct {
		pc       uint16
		want     string
		wantSize uint8
	}{
		{0x0600, "LDA #$05", 2},
		{0x0602, "LDA $1300,X", 3},
		{0x0605, "BNE $0600", 2},
		{0x0607, "*LAX $10", 2},
	}
	for _, tt := range tests {
		got, size := Disasm(nes.Bus, tt.pc)
		if got != tt.want {
			t.Errorf("Disasm(%04X) = %q, want %q", tt.pc, got, tt.want)
		}
		if size != tt.wantSize {
			t.Errorf("Disasm(%04X) size = %d, want %d", tt.pc, size, tt.wantSize)
		}
	}
}
