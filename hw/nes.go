package hw

import (
	"image"

	"famicore/ines"
)

// NES wires the console together: the CPU drives the bus, the bus owns the
// PPU and the cartridge mapper. The whole machine advances single-threaded,
// the PPU catching up three dots per CPU cycle.
type NES struct {
	CPU *CPU
	PPU *PPU
	Bus *Bus
}

// PowerUp builds a console around the given rom and brings it into its
// power-on state, PC loaded from the reset vector.
func PowerUp(rom *ines.Rom) (*NES, error) {
	mapper, err := NewMapper(rom)
	if err != nil {
		return nil, err
	}
	ppu := NewPPU(mapper)
	bus := NewBus(ppu, mapper)
	cpu := NewCPU(bus)
	return &NES{CPU: cpu, PPU: ppu, Bus: bus}, nil
}

// Reset performs a console reset.
func (n *NES) Reset() {
	n.PPU.Reset()
	n.CPU.Reset()
}

// StepInstruction executes one CPU instruction and runs the PPU for the
// dots it covers. It returns the CPU cycles consumed.
func (n *NES) StepInstruction() int {
	cycles := n.CPU.Step()
	for i := 0; i < cycles*3; i++ {
		n.PPU.Tick()
	}
	return cycles
}

// RunOneFrame steps the console until the PPU completes the current frame
// and returns the framebuffer. The step budget bounds the loop when the CPU
// is jammed.
func (n *NES) RunOneFrame() *image.RGBA {
	const maxSteps = 100000

	frame := n.PPU.FrameCount()
	for steps := 0; n.PPU.FrameCount() == frame && steps < maxSteps; steps++ {
		n.StepInstruction()
	}
	return n.PPU.Framebuffer()
}
