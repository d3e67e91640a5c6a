package hw

// AddrMode is one of the 6502 addressing modes.
type AddrMode uint8

const (
	Implied AddrMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX
	IndirectY
	Relative
)

var modeNames = [...]string{
	Implied:     "implied",
	Accumulator: "accumulator",
	Immediate:   "immediate",
	ZeroPage:    "zeropage",
	ZeroPageX:   "zeropage,x",
	ZeroPageY:   "zeropage,y",
	Absolute:    "absolute",
	AbsoluteX:   "absolute,x",
	AbsoluteY:   "absolute,y",
	Indirect:    "indirect",
	IndirectX:   "(indirect,x)",
	IndirectY:   "(indirect),y",
	Relative:    "relative",
}

func (m AddrMode) String() string { return modeNames[m] }

// modeSize is the total instruction length, opcode byte included, for each
// addressing mode.
var modeSize = [...]uint8{
	Implied:     1,
	Accumulator: 1,
	Immediate:   2,
	ZeroPage:    2,
	ZeroPageX:   2,
	ZeroPageY:   2,
	Absolute:    3,
	AbsoluteX:   3,
	AbsoluteY:   3,
	Indirect:    3,
	IndirectX:   2,
	IndirectY:   2,
	Relative:    2,
}

// OpKind identifies the operation an opcode performs, independently of its
// addressing mode.
type OpKind uint8

//go:generate go tool stringer -type=OpKind

const (
	ADC OpKind = iota
	AND
	ASL
	BCC
	BCS
	BEQ
	BIT
	BMI
	BNE
	BPL
	BRK
	BVC
	BVS
	CLC
	CLD
	CLI
	CLV
	CMP
	CPX
	CPY
	DEC
	DEX
	DEY
	EOR
	INC
	INX
	INY
	JMP
	JSR
	LDA
	LDX
	LDY
	LSR
	NOP
	ORA
	PHA
	PHP
	PLA
	PLP
	ROL
	ROR
	RTI
	RTS
	SBC
	SEC
	SED
	SEI
	STA
	STX
	STY
	TAX
	TAY
	TSX
	TXA
	TXS
	TYA

	// Undocumented operations start here.
	AHX
	ALR
	ANC
	ARR
	DCP
	ISB
	JAM
	LAS
	LAX
	RLA
	RRA
	SAX
	SBX
	SHX
	SHY
	SLO
	SRE
	TAS
	XAA
)

// Instruction describes one slot of the opcode table.
type Instruction struct {
	Kind   OpKind
	Mode   AddrMode
	Cycles uint8 // base cycle count
	Page   uint8 // extra cycles when addressing crosses a page
	Undoc  bool  // undocumented opcode
}

// Size returns the instruction length in bytes, opcode included.
func (ins Instruction) Size() uint8 { return modeSize[ins.Mode] }

// Decode returns the descriptor for the given opcode byte. Every one of the
// 256 slots decodes to a valid descriptor.
func Decode(opcode uint8) Instruction { return opdefs[opcode] }

var opdefs = [256]Instruction{
	0x00: {BRK, Implied, 7, 0, false},
	0x01: {ORA, IndirectX, 6, 0, false},
	0x02: {JAM, Implied, 2, 0, true},
	0x03: {SLO, IndirectX, 8, 0, true},
	0x04: {NOP, ZeroPage, 3, 0, true},
	0x05: {ORA, ZeroPage, 3, 0, false},
	0x06: {ASL, ZeroPage, 5, 0, false},
	0x07: {SLO, ZeroPage, 5, 0, true},
	0x08: {PHP, Implied, 3, 0, false},
	0x09: {ORA, Immediate, 2, 0, false},
	0x0a: {ASL, Accumulator, 2, 0, false},
	0x0b: {ANC, Immediate, 2, 0, true},
	0x0c: {NOP, Absolute, 4, 0, true},
	0x0d: {ORA, Absolute, 4, 0, false},
	0x0e: {ASL, Absolute, 6, 0, false},
	0x0f: {SLO, Absolute, 6, 0, true},

	0x10: {BPL, Relative, 2, 1, false},
	0x11: {ORA, IndirectY, 5, 1, false},
	0x12: {JAM, Implied, 2, 0, true},
	0x13: {SLO, IndirectY, 8, 0, true},
	0x14: {NOP, ZeroPageX, 4, 0, true},
	0x15: {ORA, ZeroPageX, 4, 0, false},
	0x16: {ASL, ZeroPageX, 6, 0, false},
	0x17: {SLO, ZeroPageX, 6, 0, true},
	0x18: {CLC, Implied, 2, 0, false},
	0x19: {ORA, AbsoluteY, 4, 1, false},
	0x1a: {NOP, Implied, 2, 0, true},
	0x1b: {SLO, AbsoluteY, 7, 0, true},
	0x1c: {NOP, AbsoluteX, 4, 1, true},
	0x1d: {ORA, AbsoluteX, 4, 1, false},
	0x1e: {ASL, AbsoluteX, 7, 0, false},
	0x1f: {SLO, AbsoluteX, 7, 0, true},

	0x20: {JSR, Absolute, 6, 0, false},
	0x21: {AND, IndirectX, 6, 0, false},
	0x22: {JAM, Implied, 2, 0, true},
	0x23: {RLA, IndirectX, 8, 0, true},
	0x24: {BIT, ZeroPage, 3, 0, false},
	0x25: {AND, ZeroPage, 3, 0, false},
	0x26: {ROL, ZeroPage, 5, 0, false},
	0x27: {RLA, ZeroPage, 5, 0, true},
	0x28: {PLP, Implied, 4, 0, false},
	0x29: {AND, Immediate, 2, 0, false},
	0x2a: {ROL, Accumulator, 2, 0, false},
	0x2b: {ANC, Immediate, 2, 0, true},
	0x2c: {BIT, Absolute, 4, 0, false},
	0x2d: {AND, Absolute, 4, 0, false},
	0x2e: {ROL, Absolute, 6, 0, false},
	0x2f: {RLA, Absolute, 6, 0, true},

	0x30: {BMI, Relative, 2, 1, false},
	0x31: {AND, IndirectY, 5, 1, false},
	0x32: {JAM, Implied, 2, 0, true},
	0x33: {RLA, IndirectY, 8, 0, true},
	0x34: {NOP, ZeroPageX, 4, 0, true},
	0x35: {AND, ZeroPageX, 4, 0, false},
	0x36: {ROL, ZeroPageX, 6, 0, false},
	0x37: {RLA, ZeroPageX, 6, 0, true},
	0x38: {SEC, Implied, 2, 0, false},
	0x39: {AND, AbsoluteY, 4, 1, false},
	0x3a: {NOP, Implied, 2, 0, true},
	0x3b: {RLA, AbsoluteY, 7, 0, true},
	0x3c: {NOP, AbsoluteX, 4, 1, true},
	0x3d: {AND, AbsoluteX, 4, 1, false},
	0x3e: {ROL, AbsoluteX, 7, 0, false},
	0x3f: {RLA, AbsoluteX, 7, 0, true},

	0x40: {RTI, Implied, 6, 0, false},
	0x41: {EOR, IndirectX, 6, 0, false},
	0x42: {JAM, Implied, 2, 0, true},
	0x43: {SRE, IndirectX, 8, 0, true},
	0x44: {NOP, ZeroPage, 3, 0, true},
	0x45: {EOR, ZeroPage, 3, 0, false},
	0x46: {LSR, ZeroPage, 5, 0, false},
	0x47: {SRE, ZeroPage, 5, 0, true},
	0x48: {PHA, Implied, 3, 0, false},
	0x49: {EOR, Immediate, 2, 0, false},
	0x4a: {LSR, Accumulator, 2, 0, false},
	0x4b: {ALR, Immediate, 2, 0, true},
	0x4c: {JMP, Absolute, 3, 0, false},
	0x4d: {EOR, Absolute, 4, 0, false},
	0x4e: {LSR, Absolute, 6, 0, false},
	0x4f: {SRE, Absolute, 6, 0, true},

	0x50: {BVC, Relative, 2, 1, false},
	0x51: {EOR, IndirectY, 5, 1, false},
	0x52: {JAM, Implied, 2, 0, true},
	0x53: {SRE, IndirectY, 8, 0, true},
	0x54: {NOP, ZeroPageX, 4, 0, true},
	0x55: {EOR, ZeroPageX, 4, 0, false},
	0x56: {LSR, ZeroPageX, 6, 0, false},
	0x57: {SRE, ZeroPageX, 6, 0, true},
	0x58: {CLI, Implied, 2, 0, false},
	0x59: {EOR, AbsoluteY, 4, 1, false},
	0x5a: {NOP, Implied, 2, 0, true},
	0x5b: {SRE, AbsoluteY, 7, 0, true},
	0x5c: {NOP, AbsoluteX, 4, 1, true},
	0x5d: {EOR, AbsoluteX, 4, 1, false},
	0x5e: {LSR, AbsoluteX, 7, 0, false},
	0x5f: {SRE, AbsoluteX, 7, 0, true},

	0x60: {RTS, Implied, 6, 0, false},
	0x61: {ADC, IndirectX, 6, 0, false},
	0x62: {JAM, Implied, 2, 0, true},
	0x63: {RRA, IndirectX, 8, 0, true},
	0x64: {NOP, ZeroPage, 3, 0, true},
	0x65: {ADC, ZeroPage, 3, 0, false},
	0x66: {ROR, ZeroPage, 5, 0, false},
	0x67: {RRA, ZeroPage, 5, 0, true},
	0x68: {PLA, Implied, 4, 0, false},
	0x69: {ADC, Immediate, 2, 0, false},
	0x6a: {ROR, Accumulator, 2, 0, false},
	0x6b: {ARR, Immediate, 2, 0, true},
	0x6c: {JMP, Indirect, 5, 0, false},
	0x6d: {ADC, Absolute, 4, 0, false},
	0x6e: {ROR, Absolute, 6, 0, false},
	0x6f: {RRA, Absolute, 6, 0, true},

	0x70: {BVS, Relative, 2, 1, false},
	0x71: {ADC, IndirectY, 5, 1, false},
	0x72: {JAM, Implied, 2, 0, true},
	0x73: {RRA, IndirectY, 8, 0, true},
	0x74: {NOP, ZeroPageX, 4, 0, true},
	0x75: {ADC, ZeroPageX, 4, 0, false},
	0x76: {ROR, ZeroPageX, 6, 0, false},
	0x77: {RRA, ZeroPageX, 6, 0, true},
	0x78: {SEI, Implied, 2, 0, false},
	0x79: {ADC, AbsoluteY, 4, 1, false},
	0x7a: {NOP, Implied, 2, 0, true},
	0x7b: {RRA, AbsoluteY, 7, 0, true},
	0x7c: {NOP, AbsoluteX, 4, 1, true},
	0x7d: {ADC, AbsoluteX, 4, 1, false},
	0x7e: {ROR, AbsoluteX, 7, 0, false},
	0x7f: {RRA, AbsoluteX, 7, 0, true},

	0x80: {NOP, Immediate, 2, 0, true},
	0x81: {STA, IndirectX, 6, 0, false},
	0x82: {NOP, Immediate, 2, 0, true},
	0x83: {SAX, IndirectX, 6, 0, true},
	0x84: {STY, ZeroPage, 3, 0, false},
	0x85: {STA, ZeroPage, 3, 0, false},
	0x86: {STX, ZeroPage, 3, 0, false},
	0x87: {SAX, ZeroPage, 3, 0, true},
	0x88: {DEY, Implied, 2, 0, false},
	0x89: {NOP, Immediate, 2, 0, true},
	0x8a: {TXA, Implied, 2, 0, false},
	0x8b: {XAA, Immediate, 2, 0, true},
	0x8c: {STY, Absolute, 4, 0, false},
	0x8d: {STA, Absolute, 4, 0, false},
	0x8e: {STX, Absolute, 4, 0, false},
	0x8f: {SAX, Absolute, 4, 0, true},

	0x90: {BCC, Relative, 2, 1, false},
	0x91: {STA, IndirectY, 6, 0, false},
	0x92: {JAM, Implied, 2, 0, true},
	0x93: {AHX, IndirectY, 6, 0, true},
	0x94: {STY, ZeroPageX, 4, 0, false},
	0x95: {STA, ZeroPageX, 4, 0, false},
	0x96: {STX, ZeroPageY, 4, 0, false},
	0x97: {SAX, ZeroPageY, 4, 0, true},
	0x98: {TYA, Implied, 2, 0, false},
	0x99: {STA, AbsoluteY, 5, 0, false},
	0x9a: {TXS, Implied, 2, 0, false},
	0x9b: {TAS, AbsoluteY, 5, 0, true},
	0x9c: {SHY, AbsoluteX, 5, 0, true},
	0x9d: {STA, AbsoluteX, 5, 0, false},
	0x9e: {SHX, AbsoluteY, 5, 0, true},
	0x9f: {AHX, AbsoluteY, 5, 0, true},

	0xa0: {LDY, Immediate, 2, 0, false},
	0xa1: {LDA, IndirectX, 6, 0, false},
	0xa2: {LDX, Immediate, 2, 0, false},
	0xa3: {LAX, IndirectX, 6, 0, true},
	0xa4: {LDY, ZeroPage, 3, 0, false},
	0xa5: {LDA, ZeroPage, 3, 0, false},
	0xa6: {LDX, ZeroPage, 3, 0, false},
	0xa7: {LAX, ZeroPage, 3, 0, true},
	0xa8: {TAY, Implied, 2, 0, false},
	0xa9: {LDA, Immediate, 2, 0, false},
	0xaa: {TAX, Implied, 2, 0, false},
	0xab: {LAX, Immediate, 2, 0, true},
	0xac: {LDY, Absolute, 4, 0, false},
	0xad: {LDA, Absolute, 4, 0, false},
	0xae: {LDX, Absolute, 4, 0, false},
	0xaf: {LAX, Absolute, 4, 0, true},

	0xb0: {BCS, Relative, 2, 1, false},
	0xb1: {LDA, IndirectY, 5, 1, false},
	0xb2: {JAM, Implied, 2, 0, true},
	0xb3: {LAX, IndirectY, 5, 1, true},
	0xb4: {LDY, ZeroPageX, 4, 0, false},
	0xb5: {LDA, ZeroPageX, 4, 0, false},
	0xb6: {LDX, ZeroPageY, 4, 0, false},
	0xb7: {LAX, ZeroPageY, 4, 0, true},
	0xb8: {CLV, Implied, 2, 0, false},
	0xb9: {LDA, AbsoluteY, 4, 1, false},
	0xba: {TSX, Implied, 2, 0, false},
	0xbb: {LAS, AbsoluteY, 4, 1, true},
	0xbc: {LDY, AbsoluteX, 4, 1, false},
	0xbd: {LDA, AbsoluteX, 4, 1, false},
	0xbe: {LDX, AbsoluteY, 4, 1, false},
	0xbf: {LAX, AbsoluteY, 4, 1, true},

	0xc0: {CPY, Immediate, 2, 0, false},
	0xc1: {CMP, IndirectX, 6, 0, false},
	0xc2: {NOP, Immediate, 2, 0, true},
	0xc3: {DCP, IndirectX, 8, 0, true},
	0xc4: {CPY, ZeroPage, 3, 0, false},
	0xc5: {CMP, ZeroPage, 3, 0, false},
	0xc6: {DEC, ZeroPage, 5, 0, false},
	0xc7: {DCP, ZeroPage, 5, 0, true},
	0xc8: {INY, Implied, 2, 0, false},
	0xc9: {CMP, Immediate, 2, 0, false},
	0xca: {DEX, Implied, 2, 0, false},
	0xcb: {SBX, Immediate, 2, 0, true},
	0xcc: {CPY, Absolute, 4, 0, false},
	0xcd: {CMP, Absolute, 4, 0, false},
	0xce: {DEC, Absolute, 6, 0, false},
	0xcf: {DCP, Absolute, 6, 0, true},

	0xd0: {BNE, Relative, 2, 1, false},
	0xd1: {CMP, IndirectY, 5, 1, false},
	0xd2: {JAM, Implied, 2, 0, true},
	0xd3: {DCP, IndirectY, 8, 0, true},
	0xd4: {NOP, ZeroPageX, 4, 0, true},
	0xd5: {CMP, ZeroPageX, 4, 0, false},
	0xd6: {DEC, ZeroPageX, 6, 0, false},
	0xd7: {DCP, ZeroPageX, 6, 0, true},
	0xd8: {CLD, Implied, 2, 0, false},
	0xd9: {CMP, AbsoluteY, 4, 1, false},
	0xda: {NOP, Implied, 2, 0, true},
	0xdb: {DCP, AbsoluteY, 7, 0, true},
	0xdc: {NOP, AbsoluteX, 4, 1, true},
	0xdd: {CMP, AbsoluteX, 4, 1, false},
	0xde: {DEC, AbsoluteX, 7, 0, false},
	0xdf: {DCP, AbsoluteX, 7, 0, true},

	0xe0: {CPX, Immediate, 2, 0, false},
	0xe1: {SBC, IndirectX, 6, 0, false},
	0xe2: {NOP, Immediate, 2, 0, true},
	0xe3: {ISB, IndirectX, 8, 0, true},
	0xe4: {CPX, ZeroPage, 3, 0, false},
	0xe5: {SBC, ZeroPage, 3, 0, false},
	0xe6: {INC, ZeroPage, 5, 0, false},
	0xe7: {ISB, ZeroPage, 5, 0, true},
	0xe8: {INX, Implied, 2, 0, false},
	0xe9: {SBC, Immediate, 2, 0, false},
	0xea: {NOP, Implied, 2, 0, false},
	0xeb: {SBC, Immediate, 2, 0, true},
	0xec: {CPX, Absolute, 4, 0, false},
	0xed: {SBC, Absolute, 4, 0, false},
	0xee: {INC, Absolute, 6, 0, false},
	0xef: {ISB, Absolute, 6, 0, true},

	0xf0: {BEQ, Relative, 2, 1, false},
	0xf1: {SBC, IndirectY, 5, 1, false},
	0xf2: {JAM, Implied, 2, 0, true},
	0xf3: {ISB, IndirectY, 8, 0, true},
	0xf4: {NOP, ZeroPageX, 4, 0, true},
	0xf5: {SBC, ZeroPageX, 4, 0, false},
	0xf6: {INC, ZeroPageX, 6, 0, false},
	0xf7: {ISB, ZeroPageX, 6, 0, true},
	0xf8: {SED, Implied, 2, 0, false},
	0xf9: {SBC, AbsoluteY, 4, 1, false},
	0xfa: {NOP, Implied, 2, 0, true},
	0xfb: {ISB, AbsoluteY, 7, 0, true},
	0xfc: {NOP, AbsoluteX, 4, 1, true},
	0xfd: {SBC, AbsoluteX, 4, 1, false},
	0xfe: {INC, AbsoluteX, 7, 0, false},
	0xff: {ISB, AbsoluteX, 7, 0, true},
}

func pagecrossed(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}

// operand resolves the effective address of the instruction at PC according
// to mode, and reports whether an indexed access crossed a page boundary.
// PC still points at the opcode byte.
func (c *CPU) operand(mode AddrMode) (addr uint16, crossed bool) {
	switch mode {
	case Implied, Accumulator:
		return 0, false
	case Immediate:
		return c.PC + 1, false
	case ZeroPage:
		return uint16(c.Read8(c.PC + 1)), false
	case ZeroPageX:
		return uint16(c.Read8(c.PC+1) + c.X), false
	case ZeroPageY:
		return uint16(c.Read8(c.PC+1) + c.Y), false
	case Absolute:
		return c.Read16(c.PC + 1), false
	case AbsoluteX:
		base := c.Read16(c.PC + 1)
		addr = base + uint16(c.X)
		return addr, pagecrossed(base, addr)
	case AbsoluteY:
		base := c.Read16(c.PC + 1)
		addr = base + uint16(c.Y)
		return addr, pagecrossed(base, addr)
	case Indirect:
		return c.read16bug(c.Read16(c.PC + 1)), false
	case IndirectX:
		zp := c.Read8(c.PC+1) + c.X
		return c.zpRead16(zp), false
	case IndirectY:
		base := c.zpRead16(c.Read8(c.PC + 1))
		addr = base + uint16(c.Y)
		return addr, pagecrossed(base, addr)
	case Relative:
		off := int8(c.Read8(c.PC + 1))
		return c.PC + 2 + uint16(int16(off)), false
	}
	return 0, false
}

// zpRead16 reads a 16-bit pointer from the zero page, wrapping within it.
func (c *CPU) zpRead16(zp uint8) uint16 {
	lo := uint16(c.Read8(uint16(zp)))
	hi := uint16(c.Read8(uint16(zp + 1)))
	return hi<<8 | lo
}

// read16bug emulates the 6502 indirect jump bug: fetching the pointer high
// byte never carries into the next page.
func (c *CPU) read16bug(addr uint16) uint16 {
	lo := uint16(c.Read8(addr))
	hi := uint16(c.Read8(addr&0xFF00 | (addr+1)&0x00FF))
	return hi<<8 | lo
}

// load fetches the instruction operand value, from A in accumulator mode.
func (c *CPU) load(mode AddrMode, addr uint16) uint8 {
	if mode == Accumulator {
		return c.A
	}
	return c.Read8(addr)
}

// store writes back the instruction result, to A in accumulator mode.
func (c *CPU) store(mode AddrMode, addr uint16, v uint8) {
	if mode == Accumulator {
		c.A = v
		return
	}
	c.Write8(addr, v)
}

// exec performs the operation. PC has already been advanced past the
// instruction. The return value is the number of extra cycles consumed on
// top of the descriptor base count (taken branches only).
func (c *CPU) exec(ins Instruction, addr uint16) int {
	switch ins.Kind {
	case LDA:
		c.A = c.Read8(addr)
		c.P.checkNZ(c.A)
	case LDX:
		c.X = c.Read8(addr)
		c.P.checkNZ(c.X)
	case LDY:
		c.Y = c.Read8(addr)
		c.P.checkNZ(c.Y)
	case STA:
		c.Write8(addr, c.A)
	case STX:
		c.Write8(addr, c.X)
	case STY:
		c.Write8(addr, c.Y)

	case TAX:
		c.X = c.A
		c.P.checkNZ(c.X)
	case TAY:
		c.Y = c.A
		c.P.checkNZ(c.Y)
	case TXA:
		c.A = c.X
		c.P.checkNZ(c.A)
	case TYA:
		c.A = c.Y
		c.P.checkNZ(c.A)
	case TSX:
		c.X = c.SP
		c.P.checkNZ(c.X)
	case TXS:
		c.SP = c.X

	case ADC:
		c.adc(c.Read8(addr))
	case SBC:
		c.adc(c.Read8(addr) ^ 0xFF)
	case AND:
		c.A &= c.Read8(addr)
		c.P.checkNZ(c.A)
	case ORA:
		c.A |= c.Read8(addr)
		c.P.checkNZ(c.A)
	case EOR:
		c.A ^= c.Read8(addr)
		c.P.checkNZ(c.A)
	case BIT:
		v := c.Read8(addr)
		c.P.checkZ(c.A & v)
		c.P.writeBit(pbitN, v&(1<<7) != 0)
		c.P.writeBit(pbitV, v&(1<<6) != 0)
	case CMP:
		c.compare(c.A, c.Read8(addr))
	case CPX:
		c.compare(c.X, c.Read8(addr))
	case CPY:
		c.compare(c.Y, c.Read8(addr))

	case ASL:
		v := c.load(ins.Mode, addr)
		c.P.writeBit(pbitC, v&0x80 != 0)
		v <<= 1
		c.P.checkNZ(v)
		c.store(ins.Mode, addr, v)
	case LSR:
		v := c.load(ins.Mode, addr)
		c.P.writeBit(pbitC, v&0x01 != 0)
		v >>= 1
		c.P.checkNZ(v)
		c.store(ins.Mode, addr, v)
	case ROL:
		v := c.load(ins.Mode, addr)
		carry := c.P.ibit(pbitC)
		c.P.writeBit(pbitC, v&0x80 != 0)
		v = v<<1 | carry
		c.P.checkNZ(v)
		c.store(ins.Mode, addr, v)
	case ROR:
		v := c.load(ins.Mode, addr)
		carry := c.P.ibit(pbitC)
		c.P.writeBit(pbitC, v&0x01 != 0)
		v = v>>1 | carry<<7
		c.P.checkNZ(v)
		c.store(ins.Mode, addr, v)

	case INC:
		v := c.Read8(addr) + 1
		c.P.checkNZ(v)
		c.Write8(addr, v)
	case DEC:
		v := c.Read8(addr) - 1
		c.P.checkNZ(v)
		c.Write8(addr, v)
	case INX:
		c.X++
		c.P.checkNZ(c.X)
	case INY:
		c.Y++
		c.P.checkNZ(c.Y)
	case DEX:
		c.X--
		c.P.checkNZ(c.X)
	case DEY:
		c.Y--
		c.P.checkNZ(c.Y)

	case JMP:
		c.PC = addr
	case JSR:
		c.push16(c.PC - 1)
		c.PC = addr
	case RTS:
		c.PC = c.pull16() + 1
	case BRK:
		// The byte after the opcode is padding, the pushed return
		// address skips it.
		c.push16(c.PC + 1)
		c.push8(uint8(c.P) | 1<<pbitB | 1<<pbitU)
		c.P.setBit(pbitI)
		c.PC = c.Read16(IRQVector)
	case RTI:
		c.pullP()
		c.PC = c.pull16()

	case BCC:
		return c.branch(!c.P.C(), addr)
	case BCS:
		return c.branch(c.P.C(), addr)
	case BEQ:
		return c.branch(c.P.Z(), addr)
	case BNE:
		return c.branch(!c.P.Z(), addr)
	case BMI:
		return c.branch(c.P.N(), addr)
	case BPL:
		return c.branch(!c.P.N(), addr)
	case BVC:
		return c.branch(!c.P.V(), addr)
	case BVS:
		return c.branch(c.P.V(), addr)

	case PHA:
		c.push8(c.A)
	case PLA:
		c.A = c.pull8()
		c.P.checkNZ(c.A)
	case PHP:
		c.push8(uint8(c.P) | 1<<pbitB | 1<<pbitU)
	case PLP:
		c.pullP()

	case CLC:
		c.P.clearBit(pbitC)
	case SEC:
		c.P.setBit(pbitC)
	case CLI:
		c.P.clearBit(pbitI)
	case SEI:
		c.P.setBit(pbitI)
	case CLD:
		c.P.clearBit(pbitD)
	case SED:
		c.P.setBit(pbitD)
	case CLV:
		c.P.clearBit(pbitV)

	case NOP:
		// Undocumented variants still perform the operand fetch.

	// Undocumented operations.
	case LAX:
		c.A = c.Read8(addr)
		c.X = c.A
		c.P.checkNZ(c.A)
	case SAX:
		c.Write8(addr, c.A&c.X)
	case SLO:
		v := c.Read8(addr)
		c.P.writeBit(pbitC, v&0x80 != 0)
		v <<= 1
		c.Write8(addr, v)
		c.A |= v
		c.P.checkNZ(c.A)
	case RLA:
		v := c.Read8(addr)
		carry := c.P.ibit(pbitC)
		c.P.writeBit(pbitC, v&0x80 != 0)
		v = v<<1 | carry
		c.Write8(addr, v)
		c.A &= v
		c.P.checkNZ(c.A)
	case SRE:
		v := c.Read8(addr)
		c.P.writeBit(pbitC, v&0x01 != 0)
		v >>= 1
		c.Write8(addr, v)
		c.A ^= v
		c.P.checkNZ(c.A)
	case RRA:
		v := c.Read8(addr)
		carry := c.P.ibit(pbitC)
		c.P.writeBit(pbitC, v&0x01 != 0)
		v = v>>1 | carry<<7
		c.Write8(addr, v)
		c.adc(v)
	case DCP:
		v := c.Read8(addr) - 1
		c.Write8(addr, v)
		c.compare(c.A, v)
	case ISB:
		v := c.Read8(addr) + 1
		c.Write8(addr, v)
		c.adc(v ^ 0xFF)
	case ANC:
		c.A &= c.Read8(addr)
		c.P.checkNZ(c.A)
		c.P.writeBit(pbitC, c.P.N())
	case ALR:
		c.A &= c.Read8(addr)
		c.P.writeBit(pbitC, c.A&0x01 != 0)
		c.A >>= 1
		c.P.checkNZ(c.A)
	case ARR:
		c.A &= c.Read8(addr)
		c.A = c.A>>1 | c.P.ibit(pbitC)<<7
		c.P.checkNZ(c.A)
		c.P.writeBit(pbitC, c.A&(1<<6) != 0)
		c.P.writeBit(pbitV, (c.A>>6^c.A>>5)&1 != 0)
	case SBX:
		v := c.Read8(addr)
		ax := c.A & c.X
		c.P.writeBit(pbitC, ax >= v)
		c.X = ax - v
		c.P.checkNZ(c.X)
	case LAS:
		v := c.Read8(addr) & c.SP
		c.A, c.X, c.SP = v, v, v
		c.P.checkNZ(v)
	case SHX:
		c.Write8(addr, c.X&(uint8(addr>>8)+1))
	case SHY:
		c.Write8(addr, c.Y&(uint8(addr>>8)+1))
	case AHX, TAS, XAA:
		// Unstable on real silicon, treated as no-ops of the right
		// size and cycle count.
	case JAM:
		c.halt()
	}
	return 0
}

func (c *CPU) adc(v uint8) {
	sum := uint16(c.A) + uint16(v) + uint16(c.P.ibit(pbitC))
	c.P.checkCV(c.A, v, sum)
	c.A = uint8(sum)
	c.P.checkNZ(c.A)
}

func (c *CPU) compare(reg, v uint8) {
	c.P.writeBit(pbitC, reg >= v)
	c.P.checkNZ(reg - v)
}

// branch redirects PC when taken. A taken branch costs one extra cycle, one
// more if the destination sits on a different page than the next instruction.
func (c *CPU) branch(taken bool, addr uint16) int {
	if !taken {
		return 0
	}
	extra := 1
	if pagecrossed(c.PC, addr) {
		extra++
	}
	c.PC = addr
	return extra
}

// pullP pulls the status register from the stack. The break bit only exists
// on the stack copy, the unused bit always reads back as set.
func (c *CPU) pullP() {
	c.P = P(c.pull8())
	c.P.clearBit(pbitB)
	c.P.setBit(pbitU)
}
