package emu

import (
	"fmt"
	"image"

	"github.com/FabianRolfMatthiasNoll/GameBoyPPU/internal/bus"
	"github.com/FabianRolfMatthiasNoll/GameBoyPPU/internal/log"
	"github.com/FabianRolfMatthiasNoll/GameBoyPPU/internal/ppu"
)

// Stats counts what the machine observed since creation.
type Stats struct {
	Cycles     uint64 // cycles handed to the bus
	Frames     uint64 // frames committed by the PPU
	VBlankIRQs uint64 // acknowledged VBlank requests
	STATIRQs   uint64 // acknowledged STAT requests
}

// Machine drives the bus and PPU in place of a CPU: it advances time in
// fixed batches and services the interrupts the PPU raises.
type Machine struct {
	cfg   Config
	bus   *bus.Bus
	ppu   *ppu.PPU
	stats Stats
}

func New(cfg Config) *Machine {
	cfg.Defaults()
	b := bus.New(nil)
	m := &Machine{cfg: cfg, bus: b, ppu: b.PPU()}
	if shades, ok := ppu.ShadesByName(cfg.Video.Shades); ok {
		m.ppu.SetShades(shades)
	} else {
		log.ModEmu.Warnf("unknown shade set %q, keeping default", cfg.Video.Shades)
	}
	m.ppu.SetRenderLayers(cfg.Render.Layers())
	if cfg.Emulation.SkipBoot {
		m.applyDMGPostBootIO()
	}
	return m
}

// applyDMGPostBootIO sets the IO registers to DMG post-boot defaults so that
// the display is running without a boot ROM.
func (m *Machine) applyDMGPostBootIO() {
	b := m.bus
	b.Write(0xFF42, 0x00) // SCY
	b.Write(0xFF43, 0x00) // SCX
	b.Write(0xFF45, 0x00) // LYC
	b.Write(0xFF4A, 0x00) // WY
	b.Write(0xFF4B, 0x00) // WX
	// IE: none enabled by default
	b.Write(0xFFFF, 0x00)
	// LCDC, STAT, palettes and the PPU's internal counters
	m.ppu.SetPostBootState()
}

// Step advances the machine by cycles, in batches of at most batch_cycles.
func (m *Machine) Step(cycles int) {
	batch := m.cfg.Emulation.BatchCycles
	for cycles > 0 {
		n := min(cycles, batch)
		m.bus.Tick(n)
		m.serviceInterrupts()
		m.stats.Cycles += uint64(n)
		cycles -= n
	}
	m.stats.Frames = m.ppu.FrameCount()
}

// serviceInterrupts plays the CPU's part: every requested PPU interrupt is
// acknowledged and counted.
func (m *Machine) serviceInterrupts() {
	flags := m.bus.Read(bus.AddrIF)
	if flags&(1<<ppu.IntVBlank) != 0 {
		m.bus.Acknowledge(ppu.IntVBlank)
		m.stats.VBlankIRQs++
	}
	if flags&(1<<ppu.IntSTAT) != 0 {
		m.bus.Acknowledge(ppu.IntSTAT)
		m.stats.STATIRQs++
	}
}

// StepFrame runs until the PPU commits a new frame and returns the number of
// cycles it took. With the display off it returns after one frame's worth of
// cycles.
func (m *Machine) StepFrame() int {
	start := m.ppu.FrameCount()
	batch := m.cfg.Emulation.BatchCycles
	n := 0
	for m.ppu.FrameCount() == start {
		if !m.ppu.Control().DisplayEnabled() && n >= ppu.FrameCycles {
			break
		}
		m.Step(batch)
		n += batch
	}
	return n
}

// RunFrames runs count frames.
func (m *Machine) RunFrames(count int) {
	for i := 0; i < count; i++ {
		m.StepFrame()
	}
	log.ModEmu.Debugf("ran %d frames, stats %+v", count, m.stats)
}

// Framebuffer returns the last completed frame as RGBA 160x144*4.
func (m *Machine) Framebuffer() []byte { return m.ppu.Framebuffer() }

// Image returns a copy of the last completed frame.
func (m *Machine) Image() *image.RGBA { return m.ppu.Image() }

func (m *Machine) Stats() Stats       { return m.stats }
func (m *Machine) Config() Config     { return m.cfg }
func (m *Machine) Bus() *bus.Bus      { return m.bus }
func (m *Machine) PPU() *ppu.PPU      { return m.ppu }
func (m *Machine) Layers() ppu.Layers { return m.ppu.RenderLayers() }

// SetRenderLayers changes the layers drawn from the next scanline on.
func (m *Machine) SetRenderLayers(l ppu.Layers) {
	m.cfg.Render = renderConfigFrom(l)
	m.ppu.SetRenderLayers(l)
}

// SetShades switches the output colors to a named shade set.
func (m *Machine) SetShades(name string) error {
	shades, ok := ppu.ShadesByName(name)
	if !ok {
		return fmt.Errorf("unknown shade set %q", name)
	}
	m.cfg.Video.Shades = name
	m.ppu.SetShades(shades)
	return nil
}
