package bus

import (
	"github.com/FabianRolfMatthiasNoll/GameBoyPPU/internal/log"
	"github.com/FabianRolfMatthiasNoll/GameBoyPPU/internal/ppu"
)

// Interrupt flag register and enable register.
const (
	AddrIF = 0xFF0F
	AddrIE = 0xFFFF
)

// Bus is the minimal system bus the PPU runs against: ROM, work RAM with
// its echo, HRAM, the interrupt registers and the PPU's own address ranges.
type Bus struct {
	rom  []byte
	wram [0x2000]byte // C000–DFFF, echoed at E000–FDFF
	hram [0x7F]byte   // FF80–FFFE

	ifReg byte // FF0F, lower 5 bits
	ieReg byte // FFFF
	dma   byte // last value written to FF46

	ppu *ppu.PPU
}

func New(rom []byte) *Bus {
	b := &Bus{rom: rom}
	b.ppu = ppu.New(b.RequestInterrupt, b)
	return b
}

// PPU returns the PPU owned by the bus.
func (b *Bus) PPU() *ppu.PPU { return b.ppu }

func (b *Bus) Read(addr uint16) byte {
	switch {
	case addr < 0x8000: // ROM area
		if int(addr) < len(b.rom) {
			return b.rom[addr]
		}
		return 0xFF // out-of-bounds read
	case addr >= 0x8000 && addr <= 0x9FFF: // VRAM
		return b.ppu.CPURead(addr)
	case addr >= 0xC000 && addr <= 0xDFFF: // Internal RAM
		return b.wram[addr-0xC000]
	case addr >= 0xE000 && addr <= 0xFDFF: // Echo RAM
		return b.wram[addr-0xE000]
	case addr >= 0xFE00 && addr <= 0xFE9F: // OAM
		return b.ppu.CPURead(addr)
	case addr == AddrIF:
		return 0xE0 | b.ifReg
	case addr == ppu.AddrDMA:
		return b.dma
	case addr >= ppu.AddrLCDC && addr <= ppu.AddrWX:
		return b.ppu.CPURead(addr)
	case addr >= 0xFF80 && addr <= 0xFFFE: // HRAM
		return b.hram[addr-0xFF80]
	case addr == AddrIE:
		return b.ieReg
	default:
		return 0xFF // unmapped
	}
}

func (b *Bus) Write(addr uint16, value byte) {
	switch {
	case addr < 0x8000:
		// ROM is read-only, no mapper
	case addr >= 0x8000 && addr <= 0x9FFF:
		b.ppu.CPUWrite(addr, value)
	case addr >= 0xC000 && addr <= 0xDFFF:
		b.wram[addr-0xC000] = value
	case addr >= 0xE000 && addr <= 0xFDFF:
		b.wram[addr-0xE000] = value
	case addr >= 0xFE00 && addr <= 0xFE9F:
		b.ppu.CPUWrite(addr, value)
	case addr == AddrIF:
		b.ifReg = value & 0x1F
	case addr == ppu.AddrDMA:
		b.dma = value
		log.ModBus.Debugf("oam dma from %02x00", value)
		b.ppu.DMA(value)
	case addr >= ppu.AddrLCDC && addr <= ppu.AddrWX:
		b.ppu.CPUWrite(addr, value)
	case addr >= 0xFF80 && addr <= 0xFFFE:
		b.hram[addr-0xFF80] = value
	case addr == AddrIE:
		b.ieReg = value
	}
}

// RequestInterrupt sets bit in IF. It is the PPU's interrupt requester.
func (b *Bus) RequestInterrupt(bit int) {
	b.ifReg |= 1 << uint(bit)
}

// Pending returns the interrupts that are both requested and enabled.
func (b *Bus) Pending() byte { return b.ifReg & b.ieReg & 0x1F }

// Acknowledge clears bit in IF.
func (b *Bus) Acknowledge(bit int) {
	b.ifReg &^= 1 << uint(bit)
}

// Tick advances the devices on the bus.
func (b *Bus) Tick(cycles int) {
	b.ppu.Tick(cycles)
}
