package emu

import (
	"testing"

	"github.com/FabianRolfMatthiasNoll/GameBoyPPU/internal/ppu"
)

func TestNewAppliesPostBootState(t *testing.T) {
	m := New(DefaultConfig())
	p := m.PPU()
	if p.LCDC() != 0x91 || p.BGP() != 0xFC || p.OBP0() != 0xFF || p.OBP1() != 0xFF {
		t.Fatalf("post-boot LCDC=%02X BGP=%02X OBP0=%02X OBP1=%02X", p.LCDC(), p.BGP(), p.OBP0(), p.OBP1())
	}
	if got := m.Bus().Read(0xFFFF); got != 0 {
		t.Fatalf("IE got %02X want 00", got)
	}

	cfg := DefaultConfig()
	cfg.Emulation.SkipBoot = false
	m = New(cfg)
	if m.PPU().LCDC() != 0 {
		t.Fatalf("hard reset LCDC got %02X want 00", m.PPU().LCDC())
	}
}

func TestStepFrameCycles(t *testing.T) {
	m := New(DefaultConfig())
	// the post-boot state starts 420 cycles into line 0
	if n := m.StepFrame(); n != ppu.FrameCycles-420-252 {
		t.Fatalf("first frame took %d cycles, want %d", n, ppu.FrameCycles-420-252)
	}
	for i := 0; i < 3; i++ {
		if n := m.StepFrame(); n != ppu.FrameCycles {
			t.Fatalf("frame %d took %d cycles, want %d", i+2, n, ppu.FrameCycles)
		}
	}
	st := m.Stats()
	if st.Frames != 4 {
		t.Fatalf("frames got %d want 4", st.Frames)
	}
	if st.VBlankIRQs != 4 {
		t.Fatalf("vblank irqs got %d want 4", st.VBlankIRQs)
	}
	if st.STATIRQs != 0 {
		t.Fatalf("stat irqs got %d want 0", st.STATIRQs)
	}
	if got := m.Bus().Read(0xFF0F) & 0x03; got != 0 {
		t.Fatalf("IF not acknowledged: %02X", got)
	}
}

func TestStepFrameDisplayOff(t *testing.T) {
	m := New(DefaultConfig())
	m.Bus().Write(0xFF40, 0x00)
	if n := m.StepFrame(); n != ppu.FrameCycles {
		t.Fatalf("display-off frame took %d cycles, want %d", n, ppu.FrameCycles)
	}
	if st := m.Stats(); st.Frames != 0 || st.VBlankIRQs != 0 {
		t.Fatalf("display off produced frames: %+v", st)
	}
}

func TestStepCountsSTATInterrupts(t *testing.T) {
	m := New(DefaultConfig())
	b := m.Bus()
	b.Write(0xFF45, 200)  // never matches
	b.Write(0xFF41, 1<<3) // HBlank source
	m.RunFrames(2)
	// one HBlank per visible line, the first frame starts on line 1
	want := uint64(143 + 144)
	if st := m.Stats(); st.STATIRQs != want {
		t.Fatalf("stat irqs got %d want %d", st.STATIRQs, want)
	}
}

func TestBatchSizeDoesNotChangeOutput(t *testing.T) {
	render := func(batch int) ([]byte, Stats) {
		cfg := DefaultConfig()
		cfg.Emulation.BatchCycles = batch
		m := New(cfg)
		for i := 0; i < 16; i++ {
			m.Bus().Write(0x8000+uint16(i), byte(0x3C*i))
		}
		m.Bus().Write(0xFF43, 3)
		m.RunFrames(2)
		return append([]byte(nil), m.Framebuffer()...), m.Stats()
	}
	fbSmall, stSmall := render(4)
	fbLine, stLine := render(456)
	if string(fbSmall) != string(fbLine) {
		t.Fatalf("framebuffer depends on batch size")
	}
	if stSmall.Frames != stLine.Frames || stSmall.VBlankIRQs != stLine.VBlankIRQs {
		t.Fatalf("stats depend on batch size: %+v vs %+v", stSmall, stLine)
	}
}

func TestSetRenderLayersAndShades(t *testing.T) {
	m := New(DefaultConfig())
	m.SetRenderLayers(ppu.LayerBackground)
	if m.Layers() != ppu.LayerBackground {
		t.Fatalf("layers got %s want B--", m.Layers())
	}
	if r := m.Config().Render; !r.Background || r.Window || r.Objects {
		t.Fatalf("config render not updated: %+v", r)
	}
	if err := m.SetShades("green"); err != nil {
		t.Fatalf("SetShades: %v", err)
	}
	if err := m.SetShades("nope"); err == nil {
		t.Fatalf("expected error for unknown shade set")
	}
	if m.Config().Video.Shades != "green" {
		t.Fatalf("shade name got %q want green", m.Config().Video.Shades)
	}
}
