package hw

import (
	"fmt"
	"strings"
)

// Peeker reads memory without triggering side effects.
type Peeker interface {
	Peek8(addr uint16) uint8
}

func peek16(mem Peeker, addr uint16) uint16 {
	lo := uint16(mem.Peek8(addr))
	hi := uint16(mem.Peek8(addr + 1))
	return hi<<8 | lo
}

// Disasm decodes the instruction at pc and returns its assembly form and
// length in bytes. Undocumented instructions are prefixed with a star.
func Disasm(mem Peeker, pc uint16) (string, uint8) {
	ins := opdefs[mem.Peek8(pc)]

	var sb strings.Builder
	if ins.Undoc {
		sb.WriteByte('*')
	}
	sb.WriteString(ins.Kind.String())

	switch ins.Mode {
	case Implied:
	case Accumulator:
		sb.WriteString(" A")
	case Immediate:
		fmt.Fprintf(&sb, " #$%02X", mem.Peek8(pc+1))
	case ZeroPage:
		fmt.Fprintf(&sb, " $%02X", mem.Peek8(pc+1))
	case ZeroPageX:
		fmt.Fprintf(&sb, " $%02X,X", mem.Peek8(pc+1))
	case ZeroPageY:
		fmt.Fprintf(&sb, " $%02X,Y", mem.Peek8(pc+1))
	case Absolute:
		fmt.Fprintf(&sb, " $%04X", peek16(mem, pc+1))
	case AbsoluteX:
		fmt.Fprintf(&sb, " $%04X,X", peek16(mem, pc+1))
	case AbsoluteY:
		fmt.Fprintf(&sb, " $%04X,Y", peek16(mem, pc+1))
	case Indirect:
		fmt.Fprintf(&sb, " ($%04X)", peek16(mem, pc+1))
	case IndirectX:
		fmt.Fprintf(&sb, " ($%02X,X)", mem.Peek8(pc+1))
	case IndirectY:
		fmt.Fprintf(&sb, " ($%02X),Y", mem.Peek8(pc+1))
	case Relative:
		target := pc + 2 + uint16(int16(int8(mem.Peek8(pc+1))))
		fmt.Fprintf(&sb, " $%04X", target)
	}
	return sb.String(), ins.Size()
}
