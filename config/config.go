// Package config handles intcode.toml configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/nf/intcode/amp"
	"github.com/nf/intcode/intcode"
)

// FileName is the name of the configuration file searched for by Find.
const FileName = "intcode.toml"

// Config represents an intcode.toml file.
type Config struct {
	Machine    Machine    `toml:"machine"`
	Amplifiers Amplifiers `toml:"amplifiers"`
	Log        Log        `toml:"log"`

	// Path is the file the configuration was loaded from, if any.
	Path string `toml:"-"`
}

// Machine configures every Intcode machine that is started.
type Machine struct {
	Revision  intcode.Revision     `toml:"revision"`
	Memory    intcode.MemoryPolicy `toml:"memory"`
	MaxMemory int                  `toml:"max-memory"`
	MaxSteps  int                  `toml:"max-steps"`
}

// Amplifiers configures the phase setting search.
type Amplifiers struct {
	Phases   []int64 `toml:"phases"`
	Feedback bool    `toml:"feedback"`
	Seed     int64   `toml:"seed"`
	Workers  int     `toml:"workers"`
}

// Log configures library logging.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Machine: Machine{Revision: intcode.Relative, Memory: intcode.Grow},
		Log:     Log{Verbosity: 1},
	}
}

// Load parses the configuration file at path. Unset values keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	c := Default()
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, fmt.Errorf("unknown key %q in %s", undec[0].String(), path)
	}
	c.Path = path
	return c, nil
}

// Find walks up from startDir looking for an intcode.toml file and loads
// it. It returns Default() if there is none.
func Find(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// Intcode returns the machine configuration.
func (m Machine) Intcode() intcode.Config {
	return intcode.Config{
		Revision:  m.Revision,
		Memory:    m.Memory,
		MaxMemory: m.MaxMemory,
		MaxSteps:  m.MaxSteps,
	}
}

// PhaseSet returns the configured phase settings, or the puzzle defaults:
// 5 through 9 for feedback networks and 0 through 4 for chains.
func (a Amplifiers) PhaseSet() []int64 {
	if len(a.Phases) > 0 {
		return a.Phases
	}
	if a.Feedback {
		return amp.PhaseRange(5, 9)
	}
	return amp.PhaseRange(0, 4)
}

// Search returns a phase search over prog as configured by c.
func (c *Config) Search(prog intcode.Program) *amp.Search {
	return &amp.Search{
		Program:  prog,
		Phases:   c.Amplifiers.PhaseSet(),
		Seed:     c.Amplifiers.Seed,
		Feedback: c.Amplifiers.Feedback,
		Config:   c.Machine.Intcode(),
		Workers:  c.Amplifiers.Workers,
	}
}
