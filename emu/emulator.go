package emu

import (
	"fmt"
	"sync/atomic"
	"time"

	"famicore/emu/log"
	"famicore/hw"
	"famicore/ines"
)

// Emulator owns the console and its presentation window and runs the
// emulation loop, one console frame per displayed frame.
type Emulator struct {
	NES *hw.NES
	win *Window

	// These are flipped concurrently by the loop controls.
	quit   atomic.Bool
	paused atomic.Bool
	reset  atomic.Bool
}

// Launch powers up the console for the given rom, shows the window and
// installs tracing. It doesn't start the emulation loop, call Run for that.
func Launch(rom *ines.Rom, cfg Config) (*Emulator, error) {
	nes, err := hw.PowerUp(rom)
	if err != nil {
		return nil, fmt.Errorf("power up failed: %w", err)
	}

	if cfg.TraceOut != nil {
		if cfg.TraceJSON {
			nes.CPU.SetTracer(hw.NewJSONTracer(cfg.TraceOut))
		} else {
			nes.CPU.SetTracer(hw.NewTextTracer(cfg.TraceOut))
		}
	}

	win, err := NewWindow(cfg.Video, cfg.Input)
	if err != nil {
		return nil, err
	}

	log.AddContext(nes.CPU)
	return &Emulator{NES: nes, win: win}, nil
}

func (e *Emulator) loop() {
	for e.win.Poll() {
		if e.quit.Load() {
			break
		}
		if e.paused.Load() {
			// Don't burn cpu while paused.
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if e.reset.CompareAndSwap(true, false) {
			log.ModEmu.InfoZ("Performing reset").End()
			e.NES.Reset()
		}

		e.NES.Bus.Pad1.SetButtons(e.win.Buttons())
		frame := e.NES.RunOneFrame()
		if err := e.win.Blit(frame); err != nil {
			log.ModEmu.ErrorZ("Failed to present frame").Error("err", err).End()
			break
		}

		if e.NES.CPU.IsHalted() {
			log.ModEmu.WarnZ("CPU halted, stopping").End()
			break
		}
	}
	e.win.Close()
}

// Run drives the emulation loop until the window closes, Stop is called or
// the CPU jams.
func (e *Emulator) Run() error {
	e.loop()
	log.ModEmu.InfoZ("Emulation loop exited").End()
	return nil
}

// SetPause, Stop and Reset control the emulator loop in a concurrent-safe
// way.

func (e *Emulator) SetPause(pause bool) { e.paused.Store(pause) }
func (e *Emulator) Reset()              { e.reset.Store(true) }
func (e *Emulator) Stop()               { e.quit.Store(true) }
