package emu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[video]
scale = 5
shades = "sepia"

[render]
window = false
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	want := DefaultConfig()
	want.Video.Scale = 5
	want.Video.Shades = "sepia"
	want.Render.Window = false
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name, data string
	}{
		{"syntax", "[video\nscale = 1"},
		{"type", "[video]\nscale = \"big\""},
		{"shades", "[video]\nshades = \"infrared\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".toml")
			if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestSaveConfigLoadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Video.Title = "viewer"
	cfg.Emulation.BatchCycles = 456
	cfg.Emulation.SkipBoot = false
	cfg.Render.Objects = false
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaults(t *testing.T) {
	var cfg Config
	cfg.Defaults()
	if cfg.Video.Title != "gbppu" || cfg.Video.Scale != 3 || cfg.Video.Shades != "gray" || cfg.Emulation.BatchCycles != 4 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if err := cfg.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
}
