package ppu

import "image/color"

// renderScanline draws background, window then objects for the current line
// into the working framebuffer.
func (p *PPU) renderScanline() {
	if int(p.ly) >= Height {
		return
	}
	p.renderBackground()
	if p.layers.Has(LayerWindow) {
		p.renderWindow()
	}
	if p.layers.Has(LayerObjects) {
		p.renderObjects()
	}
}

func (p *PPU) setPixel(x int, c color.RGBA) {
	i := (int(p.ly)*Width + x) * BytesPerPixel
	p.fb[i+0] = c.R
	p.fb[i+1] = c.G
	p.fb[i+2] = c.B
	p.fb[i+3] = c.A
}

// renderBackground paints the full line. With the BG disabled (LCDC bit 0 or
// layer mask) the line is filled with BGP color 0 and the shadow is cleared.
func (p *PPU) renderBackground() {
	ctl := Control(p.lcdc)
	enabled := ctl.BGEnabled() && p.layers.Has(LayerBackground)
	mapBase := ctl.bgMapBase()
	tileData8000 := ctl.TileData8000()

	row := int(p.ly) * Width
	y := p.scy + p.ly
	for i := 0; i < Width; i++ {
		if !enabled {
			p.setPixel(i, p.shades.lookup(p.bgp, 0))
			p.bgShadow[row+i] = 0
			continue
		}
		x := p.scx + byte(i)
		ci := p.fetchMapPixel(mapBase, tileData8000, x, y)
		p.setPixel(i, p.shades.lookup(p.bgp, ci))
		p.bgShadow[row+i] = ci
	}
}

// renderWindow overlays the window from WX-7 to the right edge, using the
// internal window line counter as its Y. The counter only advances on lines
// where at least one window pixel was drawn.
func (p *PPU) renderWindow() {
	ctl := Control(p.lcdc)
	if !ctl.WindowEnabled() || !p.winLatched || !p.layers.Has(LayerWindow) {
		return
	}
	if p.ly < p.wy {
		return
	}

	mapBase := ctl.windowMapBase()
	tileData8000 := ctl.TileData8000()
	start := int(p.wx) - 7
	row := int(p.ly) * Width

	drawn := false
	for i := max(start, 0); i < Width; i++ {
		x := byte(i - start)
		ci := p.fetchMapPixel(mapBase, tileData8000, x, p.winLine)
		p.bgShadow[row+i] = ci
		p.setPixel(i, p.shades.lookup(p.bgp, ci))
		drawn = true
	}
	if drawn {
		p.winLine++
	}
}

// renderObjects draws the scanned objects in reverse X order so the lowest
// X (then lowest OAM index) ends up on top. Color 0 is transparent; objects
// with the priority attribute only cover BG/window color 0.
func (p *PPU) renderObjects() {
	ctl := Control(p.lcdc)
	if !ctl.SpritesEnabled() || !p.layers.Has(LayerObjects) {
		return
	}
	height := ctl.SpriteHeight()
	ly := int(p.ly)
	row := ly * Width

	for n := p.numLineObjs - 1; n >= 0; n-- {
		obj := p.lineObjs[n]

		palette := p.obp0
		if obj.UsesOBP1() {
			palette = p.obp1
		}

		tile := obj.Tile
		if height == 16 {
			tile &^= 1
		}
		line := (ly - obj.screenY()) % height
		if obj.FlipY() {
			line = height - 1 - line
		}
		addr := uint16(tile)*16 + uint16(line)*2
		lo := p.vram[addr]
		hi := p.vram[addr+1]

		x0 := obj.screenX()
		for x := 0; x < 8; x++ {
			sx := x0 + x
			if sx < 0 || sx >= Width {
				continue
			}
			bit := byte(7 - x)
			if obj.FlipX() {
				bit = byte(x)
			}
			ci := colorIndex(lo, hi, bit)
			if ci == 0 {
				continue
			}
			if obj.BehindBG() && p.bgShadow[row+sx] != 0 {
				continue
			}
			p.setPixel(sx, p.shades.lookup(palette, ci))
		}
	}
}
