package emu

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"famicore/emu/log"
	"famicore/hw"
)

// Window is the SDL2 presentation surface. It pulls completed frames from
// the console and feeds keyboard state back into the first controller.
type Window struct {
	win *sdl.Window
	ren *sdl.Renderer
	tex *sdl.Texture

	keymap  map[sdl.Scancode]hw.PadButton
	buttons uint8
}

func NewWindow(vcfg VideoConfig, icfg InputConfig) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("sdl init: %w", err)
	}

	scale := int32(vcfg.Scale)
	win, err := sdl.CreateWindow("famicore",
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		hw.ScreenWidth*scale, hw.ScreenHeight*scale,
		sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	flags := uint32(sdl.RENDERER_ACCELERATED)
	if !vcfg.DisableVSync {
		flags |= sdl.RENDERER_PRESENTVSYNC
	}
	ren, err := sdl.CreateRenderer(win, -1, flags)
	if err != nil {
		win.Destroy()
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	// ABGR byte order matches image.RGBA pixel layout on little endian.
	tex, err := ren.CreateTexture(sdl.PIXELFORMAT_ABGR8888,
		sdl.TEXTUREACCESS_STREAMING, hw.ScreenWidth, hw.ScreenHeight)
	if err != nil {
		ren.Destroy()
		win.Destroy()
		return nil, fmt.Errorf("create texture: %w", err)
	}

	return &Window{
		win:    win,
		ren:    ren,
		tex:    tex,
		keymap: buildKeymap(icfg.Pad1),
	}, nil
}

func buildKeymap(pad PadConfig) map[sdl.Scancode]hw.PadButton {
	keymap := make(map[sdl.Scancode]hw.PadButton)
	bind := func(name string, btn hw.PadButton) {
		sc := sdl.GetScancodeFromName(name)
		if sc == sdl.SCANCODE_UNKNOWN {
			log.ModInput.Warnf("unknown key name %q", name)
			return
		}
		keymap[sc] = btn
	}
	bind(pad.A, hw.PadA)
	bind(pad.B, hw.PadB)
	bind(pad.Select, hw.PadSelect)
	bind(pad.Start, hw.PadStart)
	bind(pad.Up, hw.PadUp)
	bind(pad.Down, hw.PadDown)
	bind(pad.Left, hw.PadLeft)
	bind(pad.Right, hw.PadRight)
	return keymap
}

// Poll drains pending events. It returns false once the window got closed.
func (w *Window) Poll() bool {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch e := ev.(type) {
		case *sdl.QuitEvent:
			return false
		case *sdl.KeyboardEvent:
			btn, ok := w.keymap[e.Keysym.Scancode]
			if !ok {
				continue
			}
			if e.Type == sdl.KEYDOWN {
				w.buttons |= 1 << btn
			} else {
				w.buttons &^= 1 << btn
			}
		}
	}
	return true
}

// Buttons returns the current pressed-key state in controller bit order.
func (w *Window) Buttons() uint8 { return w.buttons }

// Blit presents a completed frame.
func (w *Window) Blit(frame *image.RGBA) error {
	if err := w.tex.Update(nil, unsafe.Pointer(&frame.Pix[0]), frame.Stride); err != nil {
		return err
	}
	if err := w.ren.Clear(); err != nil {
		return err
	}
	if err := w.ren.Copy(w.tex, nil, nil); err != nil {
		return err
	}
	w.ren.Present()
	return nil
}

func (w *Window) Close() {
	w.tex.Destroy()
	w.ren.Destroy()
	w.win.Destroy()
	sdl.Quit()
}
