package intcode

import "fmt"

// Revision selects the instruction set understood by a Machine.
// Each revision is a superset of the previous one.
type Revision int

const (
	// Basic supports ADD, MUL, IN, OUT and HALT with position and
	// immediate parameters.
	Basic Revision = iota + 1
	// Jumps adds the conditional jumps and comparisons.
	Jumps
	// Relative adds relative-mode parameters and ARB.
	Relative
)

var revisionNames = map[Revision]string{
	Basic:    "basic",
	Jumps:    "jumps",
	Relative: "relative",
}

func (r Revision) String() string {
	if s, ok := revisionNames[r]; ok {
		return s
	}
	return fmt.Sprintf("revision(%d)", int(r))
}

func (r Revision) MarshalText() ([]byte, error) {
	s, ok := revisionNames[r]
	if !ok {
		return nil, fmt.Errorf("unknown revision %d", int(r))
	}
	return []byte(s), nil
}

func (r *Revision) UnmarshalText(b []byte) error {
	for v, s := range revisionNames {
		if s == string(b) {
			*r = v
			return nil
		}
	}
	return fmt.Errorf("unknown revision %q", b)
}

// MemoryPolicy controls what happens when a program accesses memory beyond
// its current length.
type MemoryPolicy int

const (
	// Grow zero-fills memory up to the accessed address.
	Grow MemoryPolicy = iota
	// Fixed treats any out of range access as an AddressFault.
	Fixed
)

func (p MemoryPolicy) String() string {
	switch p {
	case Grow:
		return "grow"
	case Fixed:
		return "fixed"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

func (p MemoryPolicy) MarshalText() ([]byte, error) {
	switch p {
	case Grow, Fixed:
		return []byte(p.String()), nil
	}
	return nil, fmt.Errorf("unknown memory policy %d", int(p))
}

func (p *MemoryPolicy) UnmarshalText(b []byte) error {
	switch string(b) {
	case "grow":
		*p = Grow
	case "fixed":
		*p = Fixed
	default:
		return fmt.Errorf("unknown memory policy %q", b)
	}
	return nil
}

const (
	// DefaultMaxMemory is the memory bound, in cells, used when
	// Config.MaxMemory is zero.
	DefaultMaxMemory = 1 << 20
	// DefaultMaxSteps is the instruction bound used when Config.MaxSteps
	// is zero.
	DefaultMaxSteps = 100_000_000
)

// Config configures a Machine. The zero value selects the Relative
// revision with growing memory and the default bounds.
type Config struct {
	Revision  Revision
	Memory    MemoryPolicy
	MaxMemory int // cells; negative means unbounded
	MaxSteps  int // instructions; negative means unbounded
}

func (c Config) revision() Revision {
	if c.Revision == 0 {
		return Relative
	}
	return c.Revision
}

func (c Config) maxMemory() int {
	if c.MaxMemory == 0 {
		return DefaultMaxMemory
	}
	return c.MaxMemory
}

func (c Config) maxSteps() int {
	if c.MaxSteps == 0 {
		return DefaultMaxSteps
	}
	return c.MaxSteps
}
