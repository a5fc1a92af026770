// Package scene loads display test scenes: a TOML description of tile data,
// tile maps, objects and register values that is programmed into a machine
// through its bus.
package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/FabianRolfMatthiasNoll/GameBoyPPU/internal/log"
	"github.com/FabianRolfMatthiasNoll/GameBoyPPU/internal/ppu"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid scene")

const (
	maxTiles     = 384 // 0x8000-0x97FF
	mapSize      = 32
	oamStageAddr = 0xC000
	tileDataAddr = 0x8000
)

type Scene struct {
	Name      string    `toml:"name"`
	Registers Registers `toml:"registers"`
	Tiles     []Tile    `toml:"tiles"`
	Maps      []TileMap `toml:"maps"`
	Objects   []Object  `toml:"objects"`
	Pokes     []Poke    `toml:"pokes"`
}

// Registers holds optional PPU register values. Unset registers keep the
// value the machine already has.
type Registers struct {
	LCDC *uint8 `toml:"lcdc"`
	STAT *uint8 `toml:"stat"`
	SCY  *uint8 `toml:"scy"`
	SCX  *uint8 `toml:"scx"`
	WY   *uint8 `toml:"wy"`
	WX   *uint8 `toml:"wx"`
	BGP  *uint8 `toml:"bgp"`
	OBP0 *uint8 `toml:"obp0"`
	OBP1 *uint8 `toml:"obp1"`
	LYC  *uint8 `toml:"lyc"`
}

// Tile is one 8x8 tile, rows top to bottom, each 8 characters '0'..'3'.
type Tile struct {
	Index int      `toml:"index"` // tile block index from 0x8000
	Rows  []string `toml:"rows"`
}

// TileMap fills a 32x32 tile map. Fill applies to the whole map before
// Cells are copied in at (X, Y).
type TileMap struct {
	Base  uint16  `toml:"base"` // 0x9800 or 0x9C00
	Fill  *uint8  `toml:"fill"`
	Cells [][]int `toml:"cells"`
	X     int     `toml:"x"`
	Y     int     `toml:"y"`
}

type Object struct {
	Slot int   `toml:"slot"`
	Y    uint8 `toml:"y"`
	X    uint8 `toml:"x"`
	Tile uint8 `toml:"tile"`
	Attr uint8 `toml:"attr"`
}

// Poke is a raw bus write applied after everything else.
type Poke struct {
	Addr  uint16 `toml:"addr"`
	Value uint8  `toml:"value"`
}

// Bus is where a scene is written to.
type Bus interface {
	Write(addr uint16, value byte)
}

// Load reads and validates a scene file. A scene without a name is named
// after the file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse decodes and validates a scene document.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	md, err := toml.Decode(string(data), &s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return nil, fmt.Errorf("%w: unknown keys %v", ErrInvalid, keys)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func (s *Scene) validate() error {
	for i, t := range s.Tiles {
		if t.Index < 0 || t.Index >= maxTiles {
			return invalidf("tiles[%d]: index %d out of range [0,%d)", i, t.Index, maxTiles)
		}
		if _, err := Encode(t.Rows); err != nil {
			return fmt.Errorf("tiles[%d]: %w", i, err)
		}
	}
	for i, m := range s.Maps {
		if m.Base != 0x9800 && m.Base != 0x9C00 {
			return invalidf("maps[%d]: base %04X is not 9800 or 9C00", i, m.Base)
		}
		if m.X < 0 || m.Y < 0 || m.Y+len(m.Cells) > mapSize {
			return invalidf("maps[%d]: cells do not fit at (%d,%d)", i, m.X, m.Y)
		}
		for r, row := range m.Cells {
			if m.X+len(row) > mapSize {
				return invalidf("maps[%d]: row %d does not fit at x=%d", i, r, m.X)
			}
			for c, id := range row {
				if id < 0 || id > 0xFF {
					return invalidf("maps[%d]: cell (%d,%d) tile id %d out of range", i, c, r, id)
				}
			}
		}
	}
	for i, o := range s.Objects {
		if o.Slot < 0 || o.Slot >= 40 {
			return invalidf("objects[%d]: slot %d out of range [0,40)", i, o.Slot)
		}
	}
	return nil
}

// Encode converts 8 rows of color indices into the 16 bytes of 2bpp tile
// data: for each row the low bit plane then the high bit plane.
func Encode(rows []string) ([16]byte, error) {
	var out [16]byte
	if len(rows) != 8 {
		return out, invalidf("want 8 rows, got %d", len(rows))
	}
	for r, row := range rows {
		if len(row) != 8 {
			return out, invalidf("row %d: want 8 pixels, got %d", r, len(row))
		}
		var lo, hi byte
		for x := 0; x < 8; x++ {
			c := row[x]
			if c < '0' || c > '3' {
				return out, invalidf("row %d: bad pixel %q", r, c)
			}
			ci := c - '0'
			bit := byte(7 - x)
			lo |= (ci & 1) << bit
			hi |= (ci >> 1) << bit
		}
		out[r*2] = lo
		out[r*2+1] = hi
	}
	return out, nil
}

// Apply programs the scene: tile data, tile maps, objects through an OAM DMA
// from work RAM, registers (LCDC last) then pokes.
func (s *Scene) Apply(b Bus) {
	for _, t := range s.Tiles {
		data, _ := Encode(t.Rows)
		base := uint16(tileDataAddr + t.Index*16)
		for i, v := range data {
			b.Write(base+uint16(i), v)
		}
	}

	for _, m := range s.Maps {
		if m.Fill != nil {
			for i := uint16(0); i < mapSize*mapSize; i++ {
				b.Write(m.Base+i, *m.Fill)
			}
		}
		for r, row := range m.Cells {
			for c, id := range row {
				b.Write(m.Base+uint16((m.Y+r)*mapSize+m.X+c), byte(id))
			}
		}
	}

	if len(s.Objects) > 0 {
		for i := uint16(0); i < ppu.OAMSize; i++ {
			b.Write(oamStageAddr+i, 0)
		}
		for _, o := range s.Objects {
			addr := uint16(oamStageAddr + o.Slot*4)
			b.Write(addr+0, o.Y)
			b.Write(addr+1, o.X)
			b.Write(addr+2, o.Tile)
			b.Write(addr+3, o.Attr)
		}
		b.Write(ppu.AddrDMA, oamStageAddr>>8)
	}

	r := s.Registers
	regs := []struct {
		addr uint16
		v    *uint8
	}{
		{ppu.AddrSTAT, r.STAT},
		{ppu.AddrSCY, r.SCY},
		{ppu.AddrSCX, r.SCX},
		{ppu.AddrWY, r.WY},
		{ppu.AddrWX, r.WX},
		{ppu.AddrBGP, r.BGP},
		{ppu.AddrOBP0, r.OBP0},
		{ppu.AddrOBP1, r.OBP1},
		{ppu.AddrLYC, r.LYC},
		{ppu.AddrLCDC, r.LCDC},
	}
	for _, reg := range regs {
		if reg.v != nil {
			b.Write(reg.addr, *reg.v)
		}
	}

	for _, p := range s.Pokes {
		b.Write(p.Addr, p.Value)
	}
	log.ModScene.Debugf("applied %q: %d tiles, %d maps, %d objects, %d pokes",
		s.Name, len(s.Tiles), len(s.Maps), len(s.Objects), len(s.Pokes))
}
