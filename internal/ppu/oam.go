package ppu

import "sort"

const (
	oamEntries      = 40
	maxLineObjects  = 10
	objectEntrySize = 4
	objectYOffset   = 16
	objectXOffset   = 8
	attrPriority    = 1 << 7
	attrFlipY       = 1 << 6
	attrFlipX       = 1 << 5
	attrPaletteOBP1 = 1 << 4
)

// Object is one sprite entry as stored in OAM.
type Object struct {
	Y, X  byte // screen position + 16 / + 8
	Tile  byte
	Attr  byte
	Index int // OAM slot, 0..39
}

func (o Object) BehindBG() bool { return o.Attr&attrPriority != 0 }
func (o Object) FlipY() bool    { return o.Attr&attrFlipY != 0 }
func (o Object) FlipX() bool    { return o.Attr&attrFlipX != 0 }
func (o Object) UsesOBP1() bool { return o.Attr&attrPaletteOBP1 != 0 }
func (o Object) screenY() int   { return int(o.Y) - objectYOffset }
func (o Object) screenX() int   { return int(o.X) - objectXOffset }

// object decodes OAM slot i.
func (p *PPU) object(i int) Object {
	b := p.oam[i*objectEntrySize : i*objectEntrySize+objectEntrySize]
	return Object{Y: b[0], X: b[1], Tile: b[2], Attr: b[3], Index: i}
}

// scanOAM selects up to 10 objects intersecting the current line, in OAM
// order, then stable-sorts them by X so equal X keeps OAM order.
func (p *PPU) scanOAM() {
	height := Control(p.lcdc).SpriteHeight()
	ly := int(p.ly)

	p.numLineObjs = 0
	for i := 0; i < oamEntries && p.numLineObjs < maxLineObjects; i++ {
		obj := p.object(i)
		y := obj.screenY()
		if y <= ly && ly < y+height {
			p.lineObjs[p.numLineObjs] = obj
			p.numLineObjs++
		}
	}

	objs := p.lineObjs[:p.numLineObjs]
	sort.SliceStable(objs, func(i, j int) bool { return objs[i].X < objs[j].X })
}

// LineObjects returns a copy of the objects selected for the current line.
func (p *PPU) LineObjects() []Object {
	return append([]Object(nil), p.lineObjs[:p.numLineObjs]...)
}
