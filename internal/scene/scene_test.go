package scene

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/FabianRolfMatthiasNoll/GameBoyPPU/internal/emu"
	"github.com/FabianRolfMatthiasNoll/GameBoyPPU/internal/ppu"
)

func TestEncode(t *testing.T) {
	rows := []string{
		"01230123",
		"00000000",
		"33333333",
		"11111111",
		"22222222",
		"10000001",
		"00000000",
		"30000000",
	}
	got, err := Encode(rows)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := [16]byte{
		0x55, 0x33,
		0x00, 0x00,
		0xFF, 0xFF,
		0xFF, 0x00,
		0x00, 0xFF,
		0x81, 0x00,
		0x00, 0x00,
		0x80, 0x80,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("encode mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRejectsInvalidScenes(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"short tile", `
[[tiles]]
index = 0
rows = ["00000000"]
`},
		{"bad glyph", `
[[tiles]]
index = 0
rows = ["0000000x", "0", "0", "0", "0", "0", "0", "0"]
`},
		{"tile index", `
[[tiles]]
index = 384
rows = ["00000000", "00000000", "00000000", "00000000", "00000000", "00000000", "00000000", "00000000"]
`},
		{"map base", `
[[maps]]
base = 0x9000
`},
		{"map overflow", `
[[maps]]
base = 0x9800
x = 30
cells = [[1, 2, 3]]
`},
		{"object slot", `
[[objects]]
slot = 40
`},
		{"unknown key", `
[registers]
lcdc = 0x91
ly = 3
`},
		{"register range", `
[registers]
bgp = 256
`},
		{"syntax", `name = `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("got %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadNamesSceneAfterFile(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "solid.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "solid" {
		t.Fatalf("name got %q want solid", s.Name)
	}
	if s.Registers.LCDC == nil || *s.Registers.LCDC != 0x93 {
		t.Fatalf("lcdc not decoded: %v", s.Registers.LCDC)
	}
	if s.Registers.SCX != nil {
		t.Fatalf("unset register decoded as %d", *s.Registers.SCX)
	}
}

func TestApplySolidScene(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "solid.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m := emu.New(emu.DefaultConfig())
	s.Apply(m.Bus())

	p := m.PPU()
	if p.LCDC() != 0x93 || p.BGP() != 0xFF {
		t.Fatalf("registers not applied: LCDC=%02X BGP=%02X", p.LCDC(), p.BGP())
	}
	// object staged in WRAM and copied by DMA
	if got := p.ReadOAM(7 * 4); got != 16 {
		t.Fatalf("OAM slot 7 Y got %d want 16", got)
	}
	if got := m.Bus().Read(0xC000 + 7*4 + 2); got != 1 {
		t.Fatalf("staged tile got %d want 1", got)
	}
	if got := m.Bus().Read(0xC123); got != 0x5A {
		t.Fatalf("poke got %02X want 5A", got)
	}

	m.RunFrames(2)
	img := m.Image()
	shades := ppu.DefaultShades
	for y := 0; y < ppu.Height; y++ {
		for x := 0; x < ppu.Width; x++ {
			want := shades[3]
			if x < 4 && y < 4 {
				want = shades[0] // OBP0 maps color 1 to the lightest shade
			}
			if got := img.RGBAAt(x, y); got != want {
				t.Fatalf("px (%d,%d) got %v want %v", x, y, got, want)
			}
		}
	}
}

func TestSampleScenesRender(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "scenes", "*.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatalf("no sample scenes found")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			s, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			m := emu.New(emu.DefaultConfig())
			s.Apply(m.Bus())
			m.RunFrames(2)
			if st := m.Stats(); st.Frames != 2 {
				t.Fatalf("frames got %d want 2", st.Frames)
			}
			// every sample draws something other than color 0
			blank := true
			for _, ci := range m.PPU().BGShadow() {
				if ci != 0 {
					blank = false
					break
				}
			}
			if blank {
				t.Fatalf("scene rendered an empty background")
			}
		})
	}
}

func TestApplyMapFillThenCells(t *testing.T) {
	s, err := Parse([]byte(`
[[maps]]
base = 0x9C00
fill = 7
x = 2
y = 1
cells = [[1, 2], [3]]
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m := emu.New(emu.DefaultConfig())
	s.Apply(m.Bus())
	b := m.Bus()
	checks := map[uint16]byte{
		0x9C00:          7,
		0x9C00 + 32 + 2: 1,
		0x9C00 + 32 + 3: 2,
		0x9C00 + 64 + 2: 3,
		0x9C00 + 64 + 3: 7,
		0x9FFF:          7,
		0x9800:          0,
	}
	for addr, want := range checks {
		if got := b.Read(addr); got != want {
			t.Fatalf("map[%04X] got %d want %d", addr, got, want)
		}
	}
}
