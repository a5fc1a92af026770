package log

type ModuleMask uint64
type Module uint

const ModuleMaskAll ModuleMask = 0xFFFFFFFFFFFFFFFF

// Standard modules. Packages log through one of these so that debug output can
// be enabled per subsystem from the command line.
const (
	ModEmu Module = iota + 1
	ModPPU
	ModBus
	ModScene
	ModUI

	endStandardMods
)

var modNames = []string{
	"<error>", "emu", "ppu", "bus", "scene", "ui",
}

var modDebugMask ModuleMask = 0

func ModuleByName(name string) (Module, bool) {
	for idx, s := range modNames {
		if idx != 0 && s == name {
			return Module(idx), true
		}
	}
	return Module(0xFFFFFFFF), false
}

// ModuleNames returns the names accepted by ModuleByName.
func ModuleNames() []string {
	return append([]string(nil), modNames[1:endStandardMods]...)
}

func EnableDebugModules(mask ModuleMask) {
	modDebugMask |= mask
}

func DisableDebugModules(mask ModuleMask) {
	modDebugMask &^= mask
}

func (mod Module) Mask() ModuleMask {
	return 1 << ModuleMask(mod)
}

func (mod Module) String() string {
	if int(mod) < len(modNames) {
		return modNames[mod]
	}
	return modNames[0]
}

// Enabled reports whether a message at level would be emitted for mod.
// Warnings and above are always on, lower levels need the module debug bit.
func (mod Module) Enabled(level Level) bool {
	if disabled {
		return false
	}
	return level <= WarnLevel || modDebugMask&mod.Mask() != 0
}

func (mod Module) WithField(key string, value any) Entry {
	return Entry{mod: mod}.WithField(key, value)
}

func (mod Module) WithFields(fields Fields) Entry {
	return Entry{mod: mod}.WithFields(fields)
}

func (mod Module) Debugf(format string, args ...any) { Entry{mod: mod}.Debugf(format, args...) }
func (mod Module) Infof(format string, args ...any)  { Entry{mod: mod}.Infof(format, args...) }
func (mod Module) Warnf(format string, args ...any)  { Entry{mod: mod}.Warnf(format, args...) }
func (mod Module) Errorf(format string, args ...any) { Entry{mod: mod}.Errorf(format, args...) }
func (mod Module) Fatalf(format string, args ...any) { Entry{mod: mod}.Fatalf(format, args...) }
