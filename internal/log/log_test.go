package log

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestModuleByName(t *testing.T) {
	want := []string{"emu", "ppu", "bus", "scene", "ui"}
	if diff := cmp.Diff(want, ModuleNames()); diff != "" {
		t.Fatalf("module names mismatch (-want +got):\n%s", diff)
	}
	for _, name := range want {
		mod, ok := ModuleByName(name)
		if !ok {
			t.Fatalf("module %q not found", name)
		}
		if mod.String() != name {
			t.Fatalf("module %q String() = %q", name, mod.String())
		}
	}
	if _, ok := ModuleByName("<error>"); ok {
		t.Fatalf("placeholder name resolved to a module")
	}
	if _, ok := ModuleByName("cpu"); ok {
		t.Fatalf("unknown module resolved")
	}
}

func TestModuleDebugMask(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(DebugLevel)
	defer func() {
		DisableDebugModules(ModuleMaskAll)
		SetLevel(InfoLevel)
		SetOutput(os.Stderr)
	}()

	ModPPU.Debugf("hidden %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("debug output without module enabled: %q", buf.String())
	}
	ModPPU.Warnf("shown %d", 2)
	if !strings.Contains(buf.String(), "shown 2") || !strings.Contains(buf.String(), "_mod=ppu") {
		t.Fatalf("warning missing or untagged: %q", buf.String())
	}

	buf.Reset()
	EnableDebugModules(ModPPU.Mask())
	if !ModPPU.Enabled(DebugLevel) || ModBus.Enabled(DebugLevel) {
		t.Fatalf("mask not applied per module")
	}
	ModPPU.WithField("ly", 42).Debugf("line")
	ModBus.Debugf("other module")
	out := buf.String()
	if !strings.Contains(out, "ly=42") || strings.Contains(out, "other module") {
		t.Fatalf("unexpected output: %q", out)
	}
}
