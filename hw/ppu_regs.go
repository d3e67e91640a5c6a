package hw

// PPUCTRL flags.
const (
	ctrlNTSelect    = 0x03   // base nametable, copied into t
	ctrlVRAMIncr    = 1 << 2 // 0: add 1, 1: add 32
	ctrlSpriteTable = 1 << 3
	ctrlBgTable     = 1 << 4
	ctrlSpriteSize  = 1 << 5 // 0: 8x8, 1: 8x16
	ctrlNMIEnable   = 1 << 7
)

// PPUMASK flags.
const (
	maskGreyscale       = 1 << 0
	maskShowLeftBg      = 1 << 1
	maskShowLeftSprites = 1 << 2
	maskShowBg          = 1 << 3
	maskShowSprites     = 1 << 4
)

// PPUSTATUS flags. The low 5 bits read back from the decaying data bus.
const (
	statusOverflow   = 1 << 5
	statusSprite0Hit = 1 << 6
	statusVBlank     = 1 << 7
)

// ReadReg reads one of the eight CPU-visible registers. addr has already
// been folded into 0x2000-0x2007 by the bus. Write-only registers read back
// the last value driven on the PPU data bus.
func (p *PPU) ReadReg(addr uint16) uint8 {
	var v uint8
	switch addr {
	case 0x2002:
		v = p.status&0xE0 | p.openbus&0x1F
		// Reading the status register clears the vblank flag, the
		// shared write latch, and the NMI line.
		p.status &^= statusVBlank
		p.w = false
		p.nmiPending = false
	case 0x2004:
		v = p.oam[p.oamAddr]
	case 0x2007:
		v = p.readData()
	default:
		v = p.openbus
	}
	p.openbus = v
	return v
}

// WriteReg writes one of the eight CPU-visible registers.
func (p *PPU) WriteReg(addr uint16, v uint8) {
	p.openbus = v
	switch addr {
	case 0x2000:
		p.writeCtrl(v)
	case 0x2001:
		p.mask = v
	case 0x2003:
		p.oamAddr = v
	case 0x2004:
		p.WriteOAM(v)
	case 0x2005:
		p.writeScroll(v)
	case 0x2006:
		p.writeAddr(v)
	case 0x2007:
		p.write(p.v, v)
		p.incrVRAM()
	}
}

func (p *PPU) writeCtrl(v uint8) {
	// Enabling NMI while the vblank flag is up raises the line at once.
	if p.ctrl&ctrlNMIEnable == 0 && v&ctrlNMIEnable != 0 && p.status&statusVBlank != 0 {
		p.nmiPending = true
	}
	p.ctrl = v
	p.t = p.t&^0x0C00 | uint16(v&ctrlNTSelect)<<10
}

func (p *PPU) writeScroll(v uint8) {
	if !p.w {
		p.t = p.t&^0x001F | uint16(v)>>3
		p.x = v & 0x07
	} else {
		p.t = p.t &^ 0x73E0
		p.t |= uint16(v&0x07) << 12 // fine y
		p.t |= uint16(v&0xF8) << 2  // coarse y
	}
	p.w = !p.w
}

func (p *PPU) writeAddr(v uint8) {
	if !p.w {
		// Bit 14 is cleared by the high write.
		p.t = p.t&0x00FF | uint16(v&0x3F)<<8
	} else {
		p.t = p.t&0x7F00 | uint16(v)
		p.v = p.t
	}
	p.w = !p.w
}

// readData implements the buffered 0x2007 read: non-palette reads return
// the previous buffer content, palette reads are immediate with the buffer
// refilled from the nametable underneath.
func (p *PPU) readData() uint8 {
	addr := p.v & 0x3FFF
	v := p.read(addr)
	if addr < 0x3F00 {
		v, p.readBuf = p.readBuf, v
	} else {
		p.readBuf = p.read(addr - 0x1000)
	}
	p.incrVRAM()
	return v
}

func (p *PPU) incrVRAM() {
	if p.ctrl&ctrlVRAMIncr != 0 {
		p.v += 32
	} else {
		p.v++
	}
}

// WriteOAM stores one byte at the current OAM address and advances it. Both
// the 0x2004 register and OAM DMA feed through here.
func (p *PPU) WriteOAM(v uint8) {
	p.oam[p.oamAddr] = v
	p.oamAddr++
}
