package emu

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/FabianRolfMatthiasNoll/GameBoyPPU/internal/log"
	"github.com/FabianRolfMatthiasNoll/GameBoyPPU/internal/ppu"
)

// Config contains settings that affect emulation and presentation.
type Config struct {
	Video     VideoConfig     `toml:"video"`
	Emulation EmulationConfig `toml:"emulation"`
	Render    RenderConfig    `toml:"render"`
}

type VideoConfig struct {
	Title  string `toml:"title"`  // window title
	Scale  int    `toml:"scale"`  // integer upscaling factor
	Shades string `toml:"shades"` // named shade set, see ppu.ShadeNames
}

type EmulationConfig struct {
	BatchCycles int  `toml:"batch_cycles"` // cycles handed to the PPU per Tick
	SkipBoot    bool `toml:"skip_boot"`    // start from the post-boot register state
}

// RenderConfig selects the layers drawn by the PPU. All on matches hardware.
type RenderConfig struct {
	Background bool `toml:"background"`
	Window     bool `toml:"window"`
	Objects    bool `toml:"objects"`
}

func (r RenderConfig) Layers() ppu.Layers {
	var l ppu.Layers
	if r.Background {
		l |= ppu.LayerBackground
	}
	if r.Window {
		l |= ppu.LayerWindow
	}
	if r.Objects {
		l |= ppu.LayerObjects
	}
	return l
}

func renderConfigFrom(l ppu.Layers) RenderConfig {
	return RenderConfig{
		Background: l.Has(ppu.LayerBackground),
		Window:     l.Has(ppu.LayerWindow),
		Objects:    l.Has(ppu.LayerObjects),
	}
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	cfg := Config{
		Emulation: EmulationConfig{SkipBoot: true},
		Render:    renderConfigFrom(ppu.LayersAll),
	}
	cfg.Defaults()
	return cfg
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Video.Title == "" {
		c.Video.Title = "gbppu"
	}
	if c.Video.Scale <= 0 {
		c.Video.Scale = 3
	}
	if c.Video.Shades == "" {
		c.Video.Shades = "gray"
	}
	if c.Emulation.BatchCycles <= 0 {
		c.Emulation.BatchCycles = 4 // one machine cycle
	}
}

// Check reports settings that cannot be applied.
func (c *Config) Check() error {
	if _, ok := ppu.ShadesByName(c.Video.Shades); !ok {
		return fmt.Errorf("unknown shade set %q (available: %v)", c.Video.Shades, ppu.ShadeNames())
	}
	return nil
}

// LoadConfig reads a TOML configuration. Keys missing from the file keep
// their default value, a missing file yields the default configuration.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		log.ModEmu.Infof("config %s not found, using defaults", path)
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		log.ModEmu.Warnf("config %s: unknown key %s", path, key)
	}
	cfg.Defaults()
	if err := cfg.Check(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path as TOML.
func SaveConfig(path string, cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}
