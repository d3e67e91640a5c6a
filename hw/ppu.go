package hw

import (
	"image"

	"famicore/emu/log"
	"famicore/ines"
)

const (
	NumScanlines = 262
	NumDots      = 341

	ScreenWidth  = 256
	ScreenHeight = 240
)

// PPU emulates the 2C02 picture processor as a dot state machine: one Tick
// is one dot, 341 dots per scanline, 262 scanlines per frame, with the last
// dot of the pre-render line skipped on odd frames when rendering is on.
type PPU struct {
	mapper Mapper

	// Current position of the dot clock. The pre-render line is 261.
	Scanline int
	Dot      int

	frame uint64
	odd   bool

	nametables [0x800]byte
	palette    [32]byte
	oam        [256]byte

	ctrl    uint8
	mask    uint8
	status  uint8
	oamAddr uint8

	// Internal scroll state: current and temporary VRAM address, fine x
	// scroll and the shared write latch.
	v uint16
	t uint16
	x uint8
	w bool

	readBuf uint8
	openbus uint8

	nmiPending bool

	// Background pipeline. tileData holds two tiles worth of 4-bit
	// pixels, the upper half being shifted out while the lower fills.
	ntByte   uint8
	atByte   uint8
	tileLo   uint8
	tileHi   uint8
	tileData uint64

	// Sprites selected for the line being drawn.
	spriteCount      int
	spritePatterns   [8]uint32
	spritePositions  [8]uint8
	spritePriorities [8]uint8
	spriteIndexes    [8]uint8

	fb *image.RGBA
}

func NewPPU(mapper Mapper) *PPU {
	p := &PPU{
		mapper: mapper,
		fb:     image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight)),
	}
	p.Reset()
	return p
}

func (p *PPU) Reset() {
	p.Scanline, p.Dot = 0, 0
	p.ctrl, p.mask, p.status = 0, 0, 0
	p.oamAddr = 0
	p.v, p.t, p.x, p.w = 0, 0, 0, false
	p.readBuf = 0
	p.nmiPending = false
	p.odd = false
}

// Framebuffer returns the output image. It is complete for the current
// frame once the dot clock has entered vertical blank.
func (p *PPU) Framebuffer() *image.RGBA { return p.fb }

// FrameCount returns the number of completed frames since power up.
func (p *PPU) FrameCount() uint64 { return p.frame }

func (p *PPU) renderingEnabled() bool {
	return p.mask&(maskShowBg|maskShowSprites) != 0
}

func (p *PPU) takeNMI() bool {
	pending := p.nmiPending
	p.nmiPending = false
	return pending
}

// Tick advances the dot clock by one dot and performs the work scheduled at
// the new position.
func (p *PPU) Tick() {
	p.advanceDot()

	rendering := p.renderingEnabled()
	visible := p.Scanline < ScreenHeight
	preline := p.Scanline == NumScanlines-1
	fetchLine := visible || preline
	prefetch := p.Dot >= 321 && p.Dot <= 336
	fetchDot := (p.Dot >= 1 && p.Dot <= 256) || prefetch

	if rendering {
		if visible && p.Dot >= 1 && p.Dot <= 256 {
			p.renderPixel()
		}
		if fetchLine && fetchDot {
			p.tileData <<= 4
			switch p.Dot % 8 {
			case 1:
				p.fetchNametableByte()
			case 3:
				p.fetchAttributeByte()
			case 5:
				p.fetchTileLow()
			case 7:
				p.fetchTileHigh()
			case 0:
				p.storeTileData()
				p.incrementX()
			}
		}
		if fetchLine {
			if p.Dot == 256 {
				p.incrementY()
			}
			if p.Dot == 257 {
				p.copyX()
			}
		}
		if preline && p.Dot >= 280 && p.Dot <= 304 {
			p.copyY()
		}
		if p.Dot == 257 {
			if visible {
				p.evaluateSprites()
			} else {
				p.spriteCount = 0
			}
		}
	}

	if p.Scanline == 241 && p.Dot == 1 {
		p.status |= statusVBlank
		if p.ctrl&ctrlNMIEnable != 0 {
			p.nmiPending = true
		}
		log.ModPPU.DebugZ("vblank start").Uint("frame", uint(p.frame)).End()
	}
	if preline && p.Dot == 1 {
		p.status &^= statusVBlank | statusSprite0Hit | statusOverflow
	}
}

func (p *PPU) advanceDot() {
	// Odd frames drop the last dot of the pre-render line when rendering
	// is enabled.
	if p.renderingEnabled() && p.odd && p.Scanline == NumScanlines-1 && p.Dot == NumDots-2 {
		p.Dot = 0
		p.Scanline = 0
		p.frame++
		p.odd = !p.odd
		return
	}
	p.Dot++
	if p.Dot > NumDots-1 {
		p.Dot = 0
		p.Scanline++
		if p.Scanline > NumScanlines-1 {
			p.Scanline = 0
			p.frame++
			p.odd = !p.odd
		}
	}
}

// PPU bus access. Pattern tables belong to the cartridge, nametables to
// console VRAM through the mapper's mirroring, the palette to the PPU.

func (p *PPU) read(addr uint16) uint8 {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		return p.mapper.ReadCHR(addr)
	case addr < 0x3F00:
		return p.nametables[p.ntIndex(addr)]
	default:
		return p.readPalette(addr)
	}
}

func (p *PPU) write(addr uint16, v uint8) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		p.mapper.WriteCHR(addr, v)
	case addr < 0x3F00:
		p.nametables[p.ntIndex(addr)] = v
	default:
		p.writePalette(addr, v)
	}
}

var mirrorLookup = map[ines.NTMirroring][4]uint16{
	ines.HorzMirroring: {0, 0, 1, 1},
	ines.VertMirroring: {0, 1, 0, 1},
	ines.SingleScreenA: {0, 0, 0, 0},
	ines.SingleScreenB: {1, 1, 1, 1},
	ines.FourScreen:    {0, 1, 2, 3},
}

// ntIndex folds a nametable address into console VRAM according to the
// cartridge mirroring. Four-screen boards carry their own extra RAM, here
// their upper tables fold back into the two console ones.
func (p *PPU) ntIndex(addr uint16) uint16 {
	addr = (addr - 0x2000) & 0x0FFF
	table := mirrorLookup[p.mapper.Mirroring()][addr/0x400]
	return (table*0x400 + addr&0x03FF) & 0x07FF
}

// The background color slot of each sprite palette mirrors the background
// palette one.
func paletteIndex(addr uint16) uint16 {
	addr &= 0x1F
	if addr >= 0x10 && addr%4 == 0 {
		addr -= 0x10
	}
	return addr
}

func (p *PPU) readPalette(addr uint16) uint8 {
	return p.palette[paletteIndex(addr)]
}

func (p *PPU) writePalette(addr uint16, v uint8) {
	p.palette[paletteIndex(addr)] = v
}

// Background fetch pipeline, driven by the loopy v register.

func (p *PPU) fetchNametableByte() {
	p.ntByte = p.read(0x2000 | p.v&0x0FFF)
}

func (p *PPU) fetchAttributeByte() {
	v := p.v
	addr := 0x23C0 | v&0x0C00 | v>>4&0x38 | v>>2&0x07
	shift := (v>>4)&4 | v&2
	p.atByte = p.read(addr) >> shift & 3 << 2
}

func (p *PPU) tileAddr() uint16 {
	fineY := p.v >> 12 & 7
	table := uint16(0)
	if p.ctrl&ctrlBgTable != 0 {
		table = 0x1000
	}
	return table + uint16(p.ntByte)*16 + fineY
}

func (p *PPU) fetchTileLow() {
	p.tileLo = p.read(p.tileAddr())
}

func (p *PPU) fetchTileHigh() {
	p.tileHi = p.read(p.tileAddr() + 8)
}

func (p *PPU) storeTileData() {
	var data uint32
	for i := 0; i < 8; i++ {
		p1 := p.tileLo & 0x80 >> 7
		p2 := p.tileHi & 0x80 >> 6
		p.tileLo <<= 1
		p.tileHi <<= 1
		data = data<<4 | uint32(p.atByte|p2|p1)
	}
	p.tileData |= uint64(data)
}

// Loopy scroll updates.

func (p *PPU) incrementX() {
	if p.v&0x001F == 31 {
		p.v &^= 0x001F
		p.v ^= 0x0400 // switch horizontal nametable
	} else {
		p.v++
	}
}

func (p *PPU) incrementY() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000 // fine y
		return
	}
	p.v &^= 0x7000
	y := p.v >> 5 & 0x1F
	switch y {
	case 29:
		y = 0
		p.v ^= 0x0800 // switch vertical nametable
	case 31:
		// Row 29 is the last row of tiles, rows 30 and 31 hold
		// attributes and wrap without switching nametable.
		y = 0
	default:
		y++
	}
	p.v = p.v&^0x03E0 | y<<5
}

func (p *PPU) copyX() {
	p.v = p.v&^0x041F | p.t&0x041F
}

func (p *PPU) copyY() {
	p.v = p.v&^0x7BE0 | p.t&0x7BE0
}

// Pixel composition.

func (p *PPU) backgroundPixel() uint8 {
	if p.mask&maskShowBg == 0 {
		return 0
	}
	data := uint32(p.tileData>>32) >> ((7 - p.x) * 4)
	return uint8(data & 0x0F)
}

func (p *PPU) spritePixel() (int, uint8) {
	if p.mask&maskShowSprites == 0 {
		return 0, 0
	}
	for i := 0; i < p.spriteCount; i++ {
		offset := p.Dot - 1 - int(p.spritePositions[i])
		if offset < 0 || offset > 7 {
			continue
		}
		color := uint8(p.spritePatterns[i] >> uint((7-offset)*4) & 0x0F)
		if color%4 == 0 {
			continue
		}
		return i, color
	}
	return 0, 0
}

func (p *PPU) renderPixel() {
	x := p.Dot - 1
	y := p.Scanline

	bg := p.backgroundPixel()
	i, sp := p.spritePixel()
	if x < 8 {
		if p.mask&maskShowLeftBg == 0 {
			bg = 0
		}
		if p.mask&maskShowLeftSprites == 0 {
			sp = 0
		}
	}

	b := bg%4 != 0
	s := sp%4 != 0
	var color uint8
	switch {
	case !b && !s:
		color = 0
	case !b && s:
		color = sp | 0x10
	case b && !s:
		color = bg
	default:
		if p.spriteIndexes[i] == 0 && x < 255 {
			p.status |= statusSprite0Hit
		}
		if p.spritePriorities[i] == 0 {
			color = sp | 0x10
		} else {
			color = bg
		}
	}

	idx := p.readPalette(uint16(color))
	if p.mask&maskGreyscale != 0 {
		idx &= 0x30
	}
	p.fb.SetRGBA(x, y, systemPalette[idx%64])
}

// Sprite evaluation: pick the first 8 sprites hitting the line, flag
// overflow past the eighth.

func (p *PPU) spriteHeight() int {
	if p.ctrl&ctrlSpriteSize != 0 {
		return 16
	}
	return 8
}

func (p *PPU) evaluateSprites() {
	h := p.spriteHeight()
	count := 0
	for i := 0; i < 64; i++ {
		y := p.oam[i*4+0]
		a := p.oam[i*4+2]
		x := p.oam[i*4+3]
		row := p.Scanline - int(y)
		if row < 0 || row >= h {
			continue
		}
		if count < 8 {
			p.spritePatterns[count] = p.fetchSpritePattern(i, row)
			p.spritePositions[count] = x
			p.spritePriorities[count] = a >> 5 & 1
			p.spriteIndexes[count] = uint8(i)
		}
		count++
	}
	if count > 8 {
		count = 8
		p.status |= statusOverflow
	}
	p.spriteCount = count
}

func (p *PPU) fetchSpritePattern(i, row int) uint32 {
	tile := p.oam[i*4+1]
	attr := p.oam[i*4+2]

	var addr uint16
	if p.spriteHeight() == 8 {
		if attr&0x80 != 0 {
			row = 7 - row
		}
		table := uint16(0)
		if p.ctrl&ctrlSpriteTable != 0 {
			table = 0x1000
		}
		addr = table + uint16(tile)*16 + uint16(row)
	} else {
		if attr&0x80 != 0 {
			row = 15 - row
		}
		table := uint16(tile&1) * 0x1000
		tile &= 0xFE
		if row > 7 {
			tile++
			row -= 8
		}
		addr = table + uint16(tile)*16 + uint16(row)
	}

	lo := p.read(addr)
	hi := p.read(addr + 8)
	palette := attr & 3 << 2

	var data uint32
	for j := 0; j < 8; j++ {
		var p1, p2 uint8
		if attr&0x40 != 0 { // horizontal flip
			p1 = lo & 1
			p2 = hi & 1 << 1
			lo >>= 1
			hi >>= 1
		} else {
			p1 = lo & 0x80 >> 7
			p2 = hi & 0x80 >> 6
			lo <<= 1
			hi <<= 1
		}
		data = data<<4 | uint32(palette|p2|p1)
	}
	return data
}
