package ui

import "github.com/FabianRolfMatthiasNoll/GameBoyPPU/internal/emu"

// Config contains window related settings.
type Config struct {
	Title         string // window title
	Scale         int    // integer upscaling factor
	ScreenshotDir string // where F12 screenshots are written
	ShowStatus    bool   // draw the status line over the frame
}

// ConfigFrom takes the window settings from the emulator configuration.
func ConfigFrom(cfg emu.Config) Config {
	c := Config{
		Title:      cfg.Video.Title,
		Scale:      cfg.Video.Scale,
		ShowStatus: true,
	}
	c.Defaults()
	return c
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "gbppu"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "."
	}
}
