// Package amp connects Intcode machines into amplifier chains and feedback
// networks, and searches for the phase settings that maximise the signal
// they produce.
package amp

import (
	"errors"
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/nf/intcode/intcode"
)

var log = commonlog.GetLogger("intcode.amp")

var (
	// ErrNoOutput is reported when an amplifier in a chain halts without
	// producing a signal.
	ErrNoOutput = errors.New("halted without output")
	// ErrTooManyTurns is returned by Network.Run when the turn bound is
	// exceeded.
	ErrTooManyTurns = errors.New("turn limit exceeded")
	// ErrDone is returned by Network.Step once every amplifier has halted.
	ErrDone = errors.New("network halted")
)

// DefaultMaxTurns bounds Network.Run when Network.MaxTurns is zero.
const DefaultMaxTurns = 1 << 20

// AmpError reports the failure of one amplifier.
type AmpError struct {
	Amp   int
	Phase int64
	Err   error
}

func (e *AmpError) Error() string {
	return fmt.Sprintf("amp %d (phase %d): %v", e.Amp, e.Phase, e.Err)
}

func (e *AmpError) Unwrap() error { return e.Err }

// State is the scheduling state of an amplifier.
type State byte

const (
	Ready     State = iota // not yet run
	Running                // executing its turn
	Suspended              // emitted a signal, waiting for its next turn
	Halted                 // terminal
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Suspended:
		return "suspended"
	case Halted:
		return "halted"
	}
	return fmt.Sprintf("state(%d)", byte(s))
}

// Amp is one amplifier of a Network.
type Amp struct {
	Phase   int64
	Machine *intcode.Machine
	State   State
	Outputs int   // number of signals emitted
	Last    int64 // most recent signal, valid if Outputs > 0
}

// Turn describes one scheduling turn of a Network.
type Turn struct {
	Amp   int // index of the amplifier that ran
	Event intcode.Event
}

// Network is a ring of amplifiers, each feeding its output to the next and
// the last feeding the first. Amplifiers take turns in ring order; halted
// amplifiers drop out of the ring.
type Network struct {
	// Observer, if non-nil, is called after every successful turn.
	Observer func(Turn)
	// MaxTurns bounds the number of turns taken by Run.
	// Zero means DefaultMaxTurns and a negative value removes the bound.
	MaxTurns int

	amps   []*Amp
	live   []int // indices into amps, in ring order
	next   int   // index into live
	signal int64
	turns  int
	err    error
}

// NewNetwork returns a Network with one amplifier per phase setting, each
// running a fresh copy of prog. Every amplifier starts with its phase
// setting queued; the first one also receives seed.
func NewNetwork(prog intcode.Program, phases []int64, seed int64, cfg intcode.Config) *Network {
	n := &Network{signal: seed}
	for i, p := range phases {
		m := intcode.NewMachine(prog, cfg)
		m.Feed(p)
		if i == 0 {
			m.Feed(seed)
		}
		n.amps = append(n.amps, &Amp{Phase: p, Machine: m})
		n.live = append(n.live, i)
	}
	return n
}

// Amps returns the amplifiers in ring order, including halted ones.
func (n *Network) Amps() []*Amp { return n.amps }

// Signal returns the carried signal: the most recent output of any
// amplifier, or the seed if none has produced output.
func (n *Network) Signal() int64 { return n.signal }

// Done reports whether every amplifier has halted.
func (n *Network) Done() bool { return len(n.live) == 0 }

// Turns returns the number of turns taken so far.
func (n *Network) Turns() int { return n.turns }

// Next returns the index of the amplifier that runs on the next turn,
// or -1 if the network is done.
func (n *Network) Next() int {
	if n.Done() {
		return -1
	}
	return n.live[n.next]
}

// Err returns the error that aborted the network, if any.
func (n *Network) Err() error { return n.err }

// Step gives the next amplifier in the ring one turn: the carried signal
// is queued as its input and it runs until it emits a signal or halts.
// After an amplifier fails, Step keeps returning that failure.
func (n *Network) Step() (Turn, error) {
	if n.err != nil {
		return Turn{}, n.err
	}
	if n.Done() {
		return Turn{}, ErrDone
	}

	i := n.live[n.next]
	a := n.amps[i]
	// The first amplifier was seeded when the network was built.
	if i != 0 || a.State != Ready {
		a.Machine.Feed(n.signal)
	}
	a.State = Running
	ev, err := a.Machine.Step()
	n.turns++
	if err != nil {
		n.err = &AmpError{Amp: i, Phase: a.Phase, Err: err}
		return Turn{Amp: i}, n.err
	}

	switch ev.Kind {
	case intcode.Output:
		a.State = Suspended
		a.Outputs++
		a.Last = ev.Value
		n.signal = ev.Value
		n.next = (n.next + 1) % len(n.live)
	case intcode.Halted:
		a.State = Halted
		n.live = append(n.live[:n.next], n.live[n.next+1:]...)
		if n.next >= len(n.live) {
			n.next = 0
		}
		log.Debugf("amp %d (phase %d) halted after %d outputs, %d live", i, a.Phase, a.Outputs, len(n.live))
	}

	t := Turn{Amp: i, Event: ev}
	if n.Observer != nil {
		n.Observer(t)
	}
	return t, nil
}

// Run drives the network until every amplifier has halted and returns the
// final carried signal.
func (n *Network) Run() (int64, error) {
	limit := n.MaxTurns
	if limit == 0 {
		limit = DefaultMaxTurns
	}
	for !n.Done() {
		if limit >= 0 && n.turns >= limit {
			return n.signal, ErrTooManyTurns
		}
		if _, err := n.Step(); err != nil {
			return n.signal, err
		}
	}
	return n.signal, nil
}

// RunChain runs one fresh machine per phase setting in sequence. Each
// machine receives its phase setting and the previous machine's first
// output (seed for the first machine); the last machine's first output is
// returned.
func RunChain(prog intcode.Program, phases []int64, seed int64, cfg intcode.Config) (int64, error) {
	return runChain(prog, phases, seed, cfg, nil)
}

func runChain(prog intcode.Program, phases []int64, seed int64, cfg intcode.Config, observe func(Turn)) (int64, error) {
	signal := seed
	for i, p := range phases {
		m := intcode.NewMachine(prog, cfg)
		m.Feed(p, signal)
		ev, err := m.Step()
		if err != nil {
			return 0, &AmpError{Amp: i, Phase: p, Err: err}
		}
		if observe != nil {
			observe(Turn{Amp: i, Event: ev})
		}
		if ev.Kind != intcode.Output {
			return 0, &AmpError{Amp: i, Phase: p, Err: ErrNoOutput}
		}
		signal = ev.Value
	}
	return signal, nil
}
