package emu

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"

	"famicore/emu/log"
)

type Config struct {
	Input InputConfig `toml:"input"`
	Video VideoConfig `toml:"video"`

	// CPU execution trace destination, set from the command line.
	TraceOut  io.WriteCloser `toml:"-"`
	TraceJSON bool           `toml:"-"`
}

type VideoConfig struct {
	Scale        int  `toml:"scale"`
	DisableVSync bool `toml:"disable_vsync"`
}

// InputConfig maps keyboard keys, by SDL key name, to the first controller.
type InputConfig struct {
	Pad1 PadConfig `toml:"pad1"`
}

type PadConfig struct {
	A      string `toml:"a"`
	B      string `toml:"b"`
	Select string `toml:"select"`
	Start  string `toml:"start"`
	Up     string `toml:"up"`
	Down   string `toml:"down"`
	Left   string `toml:"left"`
	Right  string `toml:"right"`
}

var defaultPad = PadConfig{
	A:      "X",
	B:      "Z",
	Select: "Backspace",
	Start:  "Return",
	Up:     "Up",
	Down:   "Down",
	Left:   "Left",
	Right:  "Right",
}

var ConfigDir string = sync.OnceValue(func() string {
	dir := configdir.LocalConfig("famicore")
	if err := configdir.MakePath(dir); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})()

const cfgFilename = "config.toml"

// LoadConfigOrDefault loads the configuration from the famicore config
// directory, or provides a default one.
func LoadConfigOrDefault() Config {
	cfg := Config{
		Video: VideoConfig{Scale: 2},
		Input: InputConfig{Pad1: defaultPad},
	}
	if _, err := toml.DecodeFile(filepath.Join(ConfigDir, cfgFilename), &cfg); err != nil {
		return cfg
	}
	if cfg.Video.Scale <= 0 {
		cfg.Video.Scale = 2
	}
	return cfg
}

// SaveConfig into the famicore config directory.
func SaveConfig(cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(ConfigDir, cfgFilename), buf, 0644)
}
