package ppu

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestShadeLookup(t *testing.T) {
	s := DefaultShades
	// 0xE4 = 11 10 01 00: identity
	for ci := byte(0); ci < 4; ci++ {
		if got := s.lookup(0xE4, ci); got != s[ci] {
			t.Fatalf("identity ci=%d got %v want %v", ci, got, s[ci])
		}
	}
	// 0x1B = 00 01 10 11: inverted
	for ci := byte(0); ci < 4; ci++ {
		if got := s.lookup(0x1B, ci); got != s[3-ci] {
			t.Fatalf("inverted ci=%d got %v want %v", ci, got, s[3-ci])
		}
	}
}

func TestShadeSets(t *testing.T) {
	want := []string{"blue", "gray", "green", "pastel", "red", "sepia"}
	if diff := cmp.Diff(want, ShadeNames()); diff != "" {
		t.Fatalf("shade names mismatch (-want +got):\n%s", diff)
	}
	for _, name := range want {
		s, ok := ShadesByName(name)
		if !ok {
			t.Fatalf("shade set %q missing", name)
		}
		for i, c := range s {
			if c.A != 0xFF {
				t.Fatalf("%s[%d] not opaque", name, i)
			}
		}
	}
	if _, ok := ShadesByName("purple"); ok {
		t.Fatalf("unknown shade set found")
	}
}

func TestSetShadesAffectsOutput(t *testing.T) {
	p := New(nil, nil)
	green, _ := ShadesByName("green")
	p.SetShades(green)
	p.SetBGP(0xE4)
	p.SetLCDC(0x91)
	renderLine(p, 0)
	if got := workingPixel(p, 0, 0); got != green[0] {
		t.Fatalf("got %v want %v", got, green[0])
	}
}

func TestLayersString(t *testing.T) {
	tests := map[Layers]string{
		LayersAll:                      "BWO",
		0:                              "---",
		LayerBackground:                "B--",
		LayerWindow | LayerObjects:     "-WO",
		LayerBackground | LayerObjects: "B-O",
	}
	for l, want := range tests {
		if got := l.String(); got != want {
			t.Fatalf("Layers(%d) got %q want %q", byte(l), got, want)
		}
	}
}
