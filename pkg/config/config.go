package config

import (
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the fully resolved alps configuration. It is read once at
// startup and never mutated afterwards.
type Config struct {
	// Root is the directory holding one subdirectory per group
	Root string `koanf:"root" toml:"root"`
	// Home is the directory replaced by Placeholder in stored config paths
	Home string `koanf:"home" toml:"home"`
	// Editor is the command line used by `alps edit`
	Editor          string `koanf:"editor" toml:"editor"`
	Placeholder     string `koanf:"placeholder" toml:"placeholder"`
	RecordExtension string `koanf:"record_extension" toml:"record_extension"`

	Packages Packages `koanf:"packages" toml:"packages"`
	Elevate  Elevate  `koanf:"elevate" toml:"elevate"`
	Exec     Exec     `koanf:"exec" toml:"exec"`

	// Sources lists the config files that contributed, in load order
	Sources []string `koanf:"-" toml:"-"`
}

// Packages holds the package manager argument templates
type Packages struct {
	Search  []string `koanf:"search" toml:"search"`
	Query   []string `koanf:"query" toml:"query"`
	Install []string `koanf:"install" toml:"install"`
}

// Elevate holds the privilege escalation prefix
type Elevate struct {
	Command []string `koanf:"command" toml:"command"`
}

// Exec holds child process settings
type Exec struct {
	Timeout time.Duration `koanf:"timeout" toml:"timeout"`
}

type tomlExec struct {
	Timeout string `toml:"timeout"`
}

type tomlView struct {
	Root            string   `toml:"root"`
	Home            string   `toml:"home"`
	Editor          string   `toml:"editor"`
	Placeholder     string   `toml:"placeholder"`
	RecordExtension string   `toml:"record_extension"`
	Packages        Packages `toml:"packages"`
	Elevate         Elevate  `toml:"elevate"`
	Exec            tomlExec `toml:"exec"`
}

// TOML renders the effective configuration in the same shape as
// config.toml, so the output can be pasted back into a user file.
func (c *Config) TOML() ([]byte, error) {
	return toml.Marshal(tomlView{
		Root:            c.Root,
		Home:            c.Home,
		Editor:          c.Editor,
		Placeholder:     c.Placeholder,
		RecordExtension: c.RecordExtension,
		Packages:        c.Packages,
		Elevate:         c.Elevate,
		Exec:            tomlExec{Timeout: c.Exec.Timeout.String()},
	})
}
