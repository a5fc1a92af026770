package ppu

import "image"

const (
	Width  = 160
	Height = 144

	// BytesPerPixel is the framebuffer color depth (RGBA).
	BytesPerPixel   = 4
	FramebufferSize = Width * Height * BytesPerPixel

	VRAMSize = 0x2000
	OAMSize  = 0xA0
)

// InterruptRequester is a callback signature to request IF bits (0:VBlank, 1:STAT).
type InterruptRequester func(bit int)

// Memory is the system memory the OAM DMA transfer reads from.
type Memory interface {
	Read(addr uint16) byte
}

// PPU models VRAM/OAM, LCDC/STAT regs, LY/LYC, scanline rendering and
// mode timing at scanline granularity.
type PPU struct {
	// memory
	vram [VRAMSize]byte // 0x8000–0x9FFF
	oam  [OAMSize]byte  // 0xFE00–0xFE9F

	// regs
	lcdc byte // FF40
	stat byte // FF41 (mode bits 0-1, coincidence flag bit2, enables bits3-6)
	scy  byte // FF42
	scx  byte // FF43
	ly   byte // FF44
	lyc  byte // FF45
	bgp  byte // FF47
	obp0 byte // FF48
	obp1 byte // FF49
	wy   byte // FF4A
	wx   byte // FF4B

	mode        Mode
	cycles      int  // cycles accumulated in the current mode
	winLatched  bool // WY matched LY at some point this frame
	winLine     byte // internal window line counter
	wasDisabled bool // LCD was off on the previous Tick

	// objects selected by the last OAM scan, sorted by X
	lineObjs    [maxLineObjects]Object
	numLineObjs int

	fb       [FramebufferSize]byte // frame being drawn
	fbDone   [FramebufferSize]byte // last complete frame
	bgShadow [Width * Height]byte  // BG/window color index per pixel, for OBJ priority

	layers Layers
	shades Shades
	frames uint64

	req InterruptRequester
	mem Memory
}

// New returns a hard-reset PPU. req receives interrupt requests and mem
// serves DMA reads; either may be nil.
func New(req InterruptRequester, mem Memory) *PPU {
	p := &PPU{
		req:    req,
		mem:    mem,
		layers: LayersAll,
		shades: DefaultShades,
	}
	p.Reset(true)
	return p
}

// Reset clears the transient line/window/cycle state. A hard reset also
// zeroes registers and memories and puts the PPU in HBlank.
func (p *PPU) Reset(hard bool) {
	if hard {
		p.lcdc, p.stat = 0, 0
		p.scy, p.scx = 0, 0
		p.lyc = 0
		p.bgp, p.obp0, p.obp1 = 0, 0, 0
		p.wy, p.wx = 0, 0
		p.vram = [VRAMSize]byte{}
		p.oam = [OAMSize]byte{}
		p.fb = [FramebufferSize]byte{}
		p.fbDone = [FramebufferSize]byte{}
		p.bgShadow = [Width * Height]byte{}
		p.lineObjs = [maxLineObjects]Object{}
		p.mode = ModeHBlank
	}
	p.winLatched = false
	p.numLineObjs = 0
	p.cycles = 0
	p.ly = 0
	p.winLine = 0
}

// SetPostBootState puts registers where the DMG boot ROM leaves them, for
// starting without a boot ROM.
func (p *PPU) SetPostBootState() {
	p.winLatched = true
	p.wasDisabled = false
	p.cycles = 420
	p.stat = 0x01
	p.lcdc = 0x91 // LCD on, BG on, tile data 8000, BG map 9800, sprites 8x8
	p.bgp = 0xFC
	p.obp0 = 0xFF
	p.obp1 = 0xFF
}

func (p *PPU) ReadVRAM(addr uint16) byte         { return p.vram[addr] }
func (p *PPU) WriteVRAM(addr uint16, value byte) { p.vram[addr] = value }
func (p *PPU) ReadOAM(addr uint16) byte          { return p.oam[addr] }
func (p *PPU) WriteOAM(addr uint16, value byte)  { p.oam[addr] = value }

// DMA copies 160 bytes from page<<8 in system memory into OAM.
func (p *PPU) DMA(page byte) {
	if p.mem == nil {
		return
	}
	base := uint16(page) << 8
	for i := range p.oam {
		p.oam[i] = p.mem.Read(base + uint16(i))
	}
}

// CPURead returns bytes for VRAM, OAM, and PPU IO registers. Returns 0xFF for others.
func (p *PPU) CPURead(addr uint16) byte {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		return p.vram[addr-0x8000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		return p.oam[addr-0xFE00]
	case addr == AddrLCDC:
		return p.lcdc
	case addr == AddrSTAT:
		// bit7 reads as 1
		return 0x80 | p.stat
	case addr == AddrSCY:
		return p.scy
	case addr == AddrSCX:
		return p.scx
	case addr == AddrLY:
		return p.ly
	case addr == AddrLYC:
		return p.lyc
	case addr == AddrBGP:
		return p.bgp
	case addr == AddrOBP0:
		return p.obp0
	case addr == AddrOBP1:
		return p.obp1
	case addr == AddrWY:
		return p.wy
	case addr == AddrWX:
		return p.wx
	default:
		return 0xFF
	}
}

// CPUWrite handles writes to VRAM, OAM, and PPU IO regs. Others are ignored here.
func (p *PPU) CPUWrite(addr uint16, value byte) {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		p.vram[addr-0x8000] = value
	case addr >= 0xFE00 && addr <= 0xFE9F:
		p.oam[addr-0xFE00] = value
	case addr == AddrLCDC:
		p.lcdc = value
	case addr == AddrSTAT:
		// mode and coincidence bits are read-only
		p.stat = (p.stat &^ statWritableMask) | (value & statWritableMask)
	case addr == AddrSCY:
		p.scy = value
	case addr == AddrSCX:
		p.scx = value
	case addr == AddrLY:
		p.ly = 0
	case addr == AddrLYC:
		p.lyc = value
	case addr == AddrBGP:
		p.bgp = value
	case addr == AddrOBP0:
		p.obp0 = value
	case addr == AddrOBP1:
		p.obp1 = value
	case addr == AddrWY:
		p.wy = value
	case addr == AddrWX:
		p.wx = value
	}
}

func (p *PPU) LCDC() byte { return p.lcdc }
func (p *PPU) STAT() byte { return p.stat }
func (p *PPU) SCY() byte  { return p.scy }
func (p *PPU) SCX() byte  { return p.scx }
func (p *PPU) LY() byte   { return p.ly }
func (p *PPU) LYC() byte  { return p.lyc }
func (p *PPU) BGP() byte  { return p.bgp }
func (p *PPU) OBP0() byte { return p.obp0 }
func (p *PPU) OBP1() byte { return p.obp1 }
func (p *PPU) WY() byte   { return p.wy }
func (p *PPU) WX() byte   { return p.wx }

// Control returns LCDC decoded.
func (p *PPU) Control() Control { return Control(p.lcdc) }

func (p *PPU) Mode() Mode { return p.mode }

// WindowLine returns the internal window line counter.
func (p *PPU) WindowLine() byte { return p.winLine }

// FrameCount returns how many frames have been committed since creation.
func (p *PPU) FrameCount() uint64 { return p.frames }

func (p *PPU) SetLCDC(v byte) { p.lcdc = v }
func (p *PPU) SetSTAT(v byte) { p.stat = v }
func (p *PPU) SetSCY(v byte)  { p.scy = v }
func (p *PPU) SetSCX(v byte)  { p.scx = v }
func (p *PPU) SetLY(v byte)   { p.ly = v }
func (p *PPU) SetLYC(v byte)  { p.lyc = v }
func (p *PPU) SetBGP(v byte)  { p.bgp = v }
func (p *PPU) SetOBP0(v byte) { p.obp0 = v }
func (p *PPU) SetOBP1(v byte) { p.obp1 = v }
func (p *PPU) SetWY(v byte)   { p.wy = v }
func (p *PPU) SetWX(v byte)   { p.wx = v }

// RenderLayers returns the debug layer mask.
func (p *PPU) RenderLayers() Layers     { return p.layers }
func (p *PPU) SetRenderLayers(l Layers) { p.layers = l }

// SetShades changes the output colors used by subsequent scanlines.
func (p *PPU) SetShades(s Shades) { p.shades = s }

// Framebuffer returns the last completed frame as RGBA 160x144*4. The
// slice aliases PPU memory and is replaced in full at the next frame commit.
func (p *PPU) Framebuffer() []byte { return p.fbDone[:] }

// Image returns a copy of the last completed frame.
func (p *PPU) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	copy(img.Pix, p.fbDone[:])
	return img
}

// BGShadow returns a copy of the per-pixel BG/window color indices.
func (p *PPU) BGShadow() []byte {
	return append([]byte(nil), p.bgShadow[:]...)
}
