package ui

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/FabianRolfMatthiasNoll/GameBoyPPU/internal/emu"
	"github.com/FabianRolfMatthiasNoll/GameBoyPPU/internal/log"
	"github.com/FabianRolfMatthiasNoll/GameBoyPPU/internal/ppu"
)

// App shows a machine's completed frames in a window and lets the user
// poke at the scroll registers and render layers while it runs.
type App struct {
	cfg    Config
	m      *emu.Machine
	name   string
	tex    *ebiten.Image
	paused bool
}

func NewApp(cfg Config, m *emu.Machine, name string) *App {
	cfg.Defaults()
	ebiten.SetWindowTitle(fmt.Sprintf("%s - %s", cfg.Title, name))
	ebiten.SetWindowSize(ppu.Width*cfg.Scale, ppu.Height*cfg.Scale)
	return &App{cfg: cfg, m: m, name: name}
}

func (a *App) Run() error { return ebiten.RunGame(a) }

var layerKeys = []struct {
	key   ebiten.Key
	layer ppu.Layers
}{
	{ebiten.Key1, ppu.LayerBackground},
	{ebiten.Key2, ppu.LayerWindow},
	{ebiten.Key3, ppu.LayerObjects},
}

func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	// Layer toggles (1/2/3)
	for _, lk := range layerKeys {
		if inpututil.IsKeyJustPressed(lk.key) {
			a.m.SetRenderLayers(a.m.Layers() ^ lk.layer)
			log.ModUI.Infof("layers %s", a.m.Layers())
		}
	}

	// Scroll while held
	p := a.m.PPU()
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		p.SetSCX(p.SCX() + 1)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		p.SetSCX(p.SCX() - 1)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		p.SetSCY(p.SCY() + 1)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		p.SetSCY(p.SCY() - 1)
	}

	// Status line (H)
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		a.cfg.ShowStatus = !a.cfg.ShowStatus
	}

	// Pause toggle (P)
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}

	// Frame-step when paused (N)
	if a.paused && inpututil.IsKeyJustPressed(ebiten.KeyN) {
		a.m.StepFrame()
	}

	// Screenshot (F12)
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		if path, err := a.saveScreenshot(); err != nil {
			log.ModUI.Warnf("screenshot: %v", err)
		} else {
			log.ModUI.Infof("screenshot saved to %s", path)
		}
	}

	if !a.paused {
		a.m.StepFrame()
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(ppu.Width, ppu.Height)
	}
	a.tex.WritePixels(a.m.Framebuffer())
	screen.DrawImage(a.tex, nil)

	if a.cfg.ShowStatus {
		ebitenutil.DebugPrintAt(screen, a.status(), 2, 2)
	}
}

func (a *App) status() string {
	p := a.m.PPU()
	s := fmt.Sprintf("%s LY:%3d F:%d", a.m.Layers(), p.LY(), p.FrameCount())
	if a.paused {
		s += " P"
	}
	return s
}

func (a *App) Layout(outW, outH int) (int, int) { return ppu.Width, ppu.Height }

func (a *App) saveScreenshot() (string, error) {
	ts := time.Now().Format("20060102_150405")
	name := filepath.Join(a.cfg.ScreenshotDir, fmt.Sprintf("%s_%s.png", a.name, ts))
	f, err := os.Create(name)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return name, png.Encode(f, a.m.Image())
}
