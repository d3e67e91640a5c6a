package log

import (
	"gopkg.in/Sirupsen/logrus.v0"
)

type ModuleMask uint64
type Module uint

const (
	ModuleMaskAll ModuleMask = 0xFFFFFFFFFFFFFFFF
)

// Predefine the "common" module constants. The idea is to have a few standard
// modules for easy logging, but it's always possible to define additional
// modules through NewModule().
const (
	ModEmu Module = iota + 1
	ModCPU
	ModBus
	ModPPU
	ModMapper
	ModInput
	ModVideo

	endStandardMods
)

var modCount = endStandardMods

var modDebugMask ModuleMask = 0

var modNames = []string{
	"<error>", "emu", "cpu", "bus", "ppu", "mapper", "input", "video",
}

func NewModule(name string) Module {
	mod := modCount
	modCount++
	modNames = append(modNames, name)
	return mod
}

func ModuleByName(name string) (Module, bool) {
	for idx, s := range modNames {
		if s == name {
			return Module(idx), true
		}
	}
	return Module(0xFFFFFFFF), false
}

func ModuleNames() []string {
	return modNames[1:]
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

func (mod Module) Enabled(level Level) bool {
	return level <= WarnLevel || modDebugMask&mod.Mask() != 0
}

// printf-like family

func (mod Module) logf(lvl Level, format string, args ...any) {
	if !mod.Enabled(lvl) {
		return
	}
	ent := logrus.StandardLogger().WithField("_mod", modNames[mod])
	switch lvl {
	case DebugLevel:
		ent.Debugf(format, args...)
	case InfoLevel:
		ent.Infof(format, args...)
	case WarnLevel:
		ent.Warnf(format, args...)
	case ErrorLevel:
		ent.Errorf(format, args...)
	case FatalLevel:
		ent.Fatalf(format, args...)
	case PanicLevel:
		ent.Panicf(format, args...)
	}
}

func (mod Module) Debugf(format string, args ...any) { mod.logf(DebugLevel, format, args...) }
func (mod Module) Infof(format string, args ...any)  { mod.logf(InfoLevel, format, args...) }
func (mod Module) Warnf(format string, args ...any)  { mod.logf(WarnLevel, format, args...) }
func (mod Module) Errorf(format string, args ...any) { mod.logf(ErrorLevel, format, args...) }
func (mod Module) Fatalf(format string, args ...any) { mod.logf(FatalLevel, format, args...) }
func (mod Module) Panicf(format string, args ...any) { mod.logf(PanicLevel, format, args...) }

// New-style fast functions

func (mod Module) logz(lvl Level, msg string) *EntryZ {
	if mod.Enabled(lvl) {
		e := NewEntryZ()
		e.lvl = lvl
		e.msg = msg
		e.mod = mod
		return e
	}
	return nil
}

func (mod Module) DebugZ(msg string) *EntryZ { return mod.logz(DebugLevel, msg) }
func (mod Module) InfoZ(msg string) *EntryZ  { return mod.logz(InfoLevel, msg) }
func (mod Module) WarnZ(msg string) *EntryZ  { return mod.logz(WarnLevel, msg) }
func (mod Module) ErrorZ(msg string) *EntryZ { return mod.logz(ErrorLevel, msg) }
func (mod Module) FatalZ(msg string) *EntryZ { return mod.logz(FatalLevel, msg) }
func (mod Module) PanicZ(msg string) *EntryZ { return mod.logz(PanicLevel, msg) }
