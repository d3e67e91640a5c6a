package hw

import (
	"fmt"
	"io"

	"github.com/go-faster/jx"
)

// A Tracer receives the CPU state right before each instruction executes.
type Tracer interface {
	Trace(c *CPU)
}

// TextTracer writes one line per instruction in the format conformance logs
// use, suitable for diffing against known-good runs.
type TextTracer struct {
	w io.Writer
}

func NewTextTracer(w io.Writer) *TextTracer {
	return &TextTracer{w: w}
}

func (t *TextTracer) Trace(c *CPU) {
	ins := opdefs[c.bus.Peek8(c.PC)]

	var raw string
	for i := uint8(0); i < ins.Size(); i++ {
		raw += fmt.Sprintf("%02X ", c.bus.Peek8(c.PC+uint16(i)))
	}
	asm, _ := Disasm(c.bus, c.PC)

	fmt.Fprintf(t.w, "%04X  %-9s %-14s A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d\n",
		c.PC, raw, asm, c.A, c.X, c.Y, uint8(c.P), c.SP, c.Cycles)
}

// JSONTracer writes one JSON object per instruction, one per line, for
// machine consumption.
type JSONTracer struct {
	w   io.Writer
	enc jx.Encoder
}

func NewJSONTracer(w io.Writer) *JSONTracer {
	return &JSONTracer{w: w}
}

func (t *JSONTracer) Trace(c *CPU) {
	asm, _ := Disasm(c.bus, c.PC)

	e := &t.enc
	e.Reset()
	e.Obj(func(e *jx.Encoder) {
		e.Field("pc", func(e *jx.Encoder) { e.Str(fmt.Sprintf("%04X", c.PC)) })
		e.Field("asm", func(e *jx.Encoder) { e.Str(asm) })
		e.Field("a", func(e *jx.Encoder) { e.UInt8(c.A) })
		e.Field("x", func(e *jx.Encoder) { e.UInt8(c.X) })
		e.Field("y", func(e *jx.Encoder) { e.UInt8(c.Y) })
		e.Field("p", func(e *jx.Encoder) { e.UInt8(uint8(c.P)) })
		e.Field("sp", func(e *jx.Encoder) { e.UInt8(c.SP) })
		e.Field("cyc", func(e *jx.Encoder) { e.Int64(c.Cycles) })
	})
	t.w.Write(e.Bytes())
	io.WriteString(t.w, "\n")
}
