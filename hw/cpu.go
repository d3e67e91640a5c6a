package hw

import (
	"famicore/emu/log"
)

// Locations reserved for the interrupt vector pointers.
const (
	NMIVector   = uint16(0xFFFA)
	ResetVector = uint16(0xFFFC)
	IRQVector   = uint16(0xFFFE)
)

// CPU emulates the Ricoh 2A03, a 6502 without decimal mode.
type CPU struct {
	bus *Bus

	A  uint8
	X  uint8
	Y  uint8
	SP uint8
	PC uint16
	P  P

	// Cycles counts elapsed CPU cycles since power up.
	Cycles int64

	irqLine bool
	halted  bool

	tracer Tracer
}

func NewCPU(bus *Bus) *CPU {
	c := &CPU{bus: bus}
	c.Reset()
	return c
}

// Reset puts the CPU back into its documented power-on state and loads PC
// from the reset vector.
func (c *CPU) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.P = P(1<<pbitI | 1<<pbitB | 1<<pbitU)
	c.PC = c.Read16(ResetVector)
	c.halted = false
	c.Cycles += 7
}

// SetTracer installs t, called once per instruction with the pre-execution
// CPU state. A nil t disables tracing.
func (c *CPU) SetTracer(t Tracer) { c.tracer = t }

// SetIRQ drives the level-triggered IRQ line.
func (c *CPU) SetIRQ(level bool) { c.irqLine = level }

// IsHalted reports whether a JAM opcode stopped the CPU.
func (c *CPU) IsHalted() bool { return c.halted }

func (c *CPU) halt() {
	c.halted = true
	log.ModCPU.WarnZ("CPU jammed").Hex16("pc", c.PC).End()
}

func (c *CPU) Read8(addr uint16) uint8     { return c.bus.Read8(addr) }
func (c *CPU) Write8(addr uint16, v uint8) { c.bus.Write8(addr, v) }

// Read16 reads a 16-bit little-endian word.
func (c *CPU) Read16(addr uint16) uint16 {
	lo := uint16(c.Read8(addr))
	hi := uint16(c.Read8(addr + 1))
	return hi<<8 | lo
}

// Step executes a single instruction, or services a pending interrupt, and
// returns the number of CPU cycles it consumed. A halted CPU idles one cycle
// at a time.
func (c *CPU) Step() int {
	if c.halted {
		c.Cycles++
		return 1
	}

	if c.bus.PollNMI() {
		return c.interrupt(NMIVector)
	}
	if c.irqLine && !c.P.I() {
		return c.interrupt(IRQVector)
	}

	if c.tracer != nil {
		c.tracer.Trace(c)
	}

	ins := opdefs[c.Read8(c.PC)]
	addr, crossed := c.operand(ins.Mode)
	c.PC += uint16(ins.Size())

	cycles := int(ins.Cycles)
	if crossed {
		cycles += int(ins.Page)
	}
	cycles += c.exec(ins, addr)

	// An OAM DMA triggered by this instruction suspends the CPU while
	// the copy takes place.
	if c.bus.takeDMA() {
		stall := 513
		if (c.Cycles+int64(cycles))&1 == 1 {
			stall++
		}
		cycles += stall
	}

	c.Cycles += int64(cycles)
	return cycles
}

// interrupt pushes PC and P then jumps through the given vector. The break
// bit is clear on the pushed status copy, hardware interrupts never set it.
func (c *CPU) interrupt(vector uint16) int {
	c.push16(c.PC)
	c.push8(uint8(c.P)&^(1<<pbitB) | 1<<pbitU)
	c.P.setBit(pbitI)
	c.PC = c.Read16(vector)

	const cycles = 7
	c.Cycles += cycles
	return cycles
}

// The stack lives in page one, growing downwards.

func (c *CPU) push8(v uint8) {
	c.Write8(0x0100+uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pull8() uint8 {
	c.SP++
	return c.Read8(0x0100 + uint16(c.SP))
}

func (c *CPU) push16(v uint16) {
	c.push8(uint8(v >> 8))
	c.push8(uint8(v))
}

func (c *CPU) pull16() uint16 {
	lo := uint16(c.pull8())
	hi := uint16(c.pull8())
	return hi<<8 | lo
}

// AddLogContext implements log.LogContext.
func (c *CPU) AddLogContext(z *log.EntryZ) {
	z.Hex16("pc", c.PC).Int64("cycles", c.Cycles)
}
