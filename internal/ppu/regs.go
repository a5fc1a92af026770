package ppu

// Register addresses on the system bus.
const (
	AddrLCDC = 0xFF40
	AddrSTAT = 0xFF41
	AddrSCY  = 0xFF42
	AddrSCX  = 0xFF43
	AddrLY   = 0xFF44
	AddrLYC  = 0xFF45
	AddrDMA  = 0xFF46 // owned by the bus, see DMA
	AddrBGP  = 0xFF47
	AddrOBP0 = 0xFF48
	AddrOBP1 = 0xFF49
	AddrWY   = 0xFF4A
	AddrWX   = 0xFF4B
)

// Interrupt bits passed to the InterruptRequester.
const (
	IntVBlank = 0
	IntSTAT   = 1
)

// LCDC bits.
const (
	lcdcBGEnable      = 1 << 0
	lcdcSpriteEnable  = 1 << 1
	lcdcSpriteSize    = 1 << 2
	lcdcBGTileMap     = 1 << 3
	lcdcTileData      = 1 << 4
	lcdcWindowEnable  = 1 << 5
	lcdcWindowTileMap = 1 << 6
	lcdcDisplayEnable = 1 << 7
)

// STAT bits.
const (
	statModeMask      = 0x03
	statCoincidence   = 1 << 2
	statHBlankInt     = 1 << 3
	statVBlankInt     = 1 << 4
	statOAMInt        = 1 << 5
	statCoincidenceIn = 1 << 6
	statWritableMask  = statHBlankInt | statVBlankInt | statOAMInt | statCoincidenceIn
)

// Control is a decoded view of the LCDC register.
type Control byte

func (c Control) DisplayEnabled() bool    { return c&lcdcDisplayEnable != 0 }
func (c Control) WindowTileMapHigh() bool { return c&lcdcWindowTileMap != 0 }
func (c Control) WindowEnabled() bool     { return c&lcdcWindowEnable != 0 }
func (c Control) TileData8000() bool      { return c&lcdcTileData != 0 }
func (c Control) BGTileMapHigh() bool     { return c&lcdcBGTileMap != 0 }
func (c Control) TallSprites() bool       { return c&lcdcSpriteSize != 0 }
func (c Control) SpritesEnabled() bool    { return c&lcdcSpriteEnable != 0 }
func (c Control) BGEnabled() bool         { return c&lcdcBGEnable != 0 }

// SpriteHeight is 16 with tall sprites, 8 otherwise.
func (c Control) SpriteHeight() int {
	if c.TallSprites() {
		return 16
	}
	return 8
}

// bgMapBase returns the VRAM offset of the background tile map.
func (c Control) bgMapBase() uint16 {
	if c.BGTileMapHigh() {
		return 0x1C00
	}
	return 0x1800
}

// windowMapBase returns the VRAM offset of the window tile map.
func (c Control) windowMapBase() uint16 {
	if c.WindowTileMapHigh() {
		return 0x1C00
	}
	return 0x1800
}

// Layers is the debug render-layer mask. It has no hardware counterpart.
type Layers byte

const (
	LayerBackground Layers = 1 << iota
	LayerWindow
	LayerObjects

	LayersAll = LayerBackground | LayerWindow | LayerObjects
)

func (l Layers) Has(layer Layers) bool { return l&layer != 0 }

func (l Layers) String() string {
	buf := []byte("---")
	if l.Has(LayerBackground) {
		buf[0] = 'B'
	}
	if l.Has(LayerWindow) {
		buf[1] = 'W'
	}
	if l.Has(LayerObjects) {
		buf[2] = 'O'
	}
	return string(buf)
}
