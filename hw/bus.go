package hw

// Bus is the CPU address space. It owns the console RAM and dispatches every
// access to the component decoding that address range: internal RAM with its
// mirrors, the PPU register window, the IO ports, and the cartridge.
type Bus struct {
	ram    [0x800]byte
	ppu    *PPU
	mapper Mapper

	Pad1 Controller
	Pad2 Controller

	// last value driven on the data bus, returned by open-bus reads.
	openbus uint8

	dmaPending bool
}

func NewBus(ppu *PPU, mapper Mapper) *Bus {
	return &Bus{ppu: ppu, mapper: mapper}
}

func (b *Bus) Read8(addr uint16) uint8 {
	var v uint8
	switch {
	case addr < 0x2000:
		// 2k of RAM mirrored over the first 8k.
		v = b.ram[addr&0x07FF]
	case addr < 0x4000:
		// 8 PPU registers mirrored over the whole window.
		v = b.ppu.ReadReg(0x2000 + addr&0x0007)
	case addr == 0x4016:
		v = b.openbus&0xE0 | b.Pad1.read()
	case addr == 0x4017:
		v = b.openbus&0xE0 | b.Pad2.read()
	case addr < 0x4020:
		// APU and write-only IO ports.
		v = b.openbus
	default:
		v = b.mapper.ReadPRG(addr)
	}
	b.openbus = v
	return v
}

func (b *Bus) Write8(addr uint16, v uint8) {
	b.openbus = v
	switch {
	case addr < 0x2000:
		b.ram[addr&0x07FF] = v
	case addr < 0x4000:
		b.ppu.WriteReg(0x2000+addr&0x0007, v)
	case addr == 0x4014:
		b.oamDMA(v)
	case addr == 0x4016:
		b.Pad1.write(v)
		b.Pad2.write(v)
	case addr < 0x4020:
		// APU and unpopulated IO ports.
	default:
		b.mapper.WritePRG(addr, v)
	}
}

// Peek8 reads without side effects, for disassembly and tracing. The PPU
// register window reads back as open bus since observing those registers
// changes their state.
func (b *Bus) Peek8(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.ram[addr&0x07FF]
	case addr < 0x4020:
		return b.openbus
	default:
		return b.mapper.ReadPRG(addr)
	}
}

// oamDMA copies one 256-byte page into PPU OAM. The CPU cycle cost is
// accounted for by the CPU when it picks up the pending DMA.
func (b *Bus) oamDMA(page uint8) {
	base := uint16(page) << 8
	for i := uint16(0); i < 256; i++ {
		b.ppu.WriteOAM(b.Read8(base + i))
	}
	b.dmaPending = true
}

// takeDMA consumes the pending DMA marker.
func (b *Bus) takeDMA() bool {
	pending := b.dmaPending
	b.dmaPending = false
	return pending
}

// PollNMI consumes the PPU NMI line, edge-triggered from the CPU's point
// of view.
func (b *Bus) PollNMI() bool {
	return b.ppu.takeNMI()
}
