// Package intcode provides an implementation of an Intcode computer,
// called Machine, that can be used to execute Intcode programs.
package intcode

import (
	"fmt"
)

// Machine is an Intcode computer. It owns its memory and input queue;
// machines never share state except through values passed between them
// by the caller.
type Machine struct {
	mem     *Memory
	ip      int64
	relBase int64
	input   Queue
	steps   int
	halted  bool
	cfg     Config
}

// NewMachine returns a Machine loaded with a copy of prog.
func NewMachine(prog Program, cfg Config) *Machine {
	return &Machine{
		mem: NewMemory(prog, cfg.Memory, cfg.maxMemory()),
		cfg: cfg,
	}
}

func (m *Machine) IP() int64 { return m.ip }
func (m *Machine) RelBase() int64 { return m.relBase }
func (m *Machine) Halted() bool { return m.halted }
func (m *Machine) Steps() int { return m.steps }
func (m *Machine) Mem() *Memory { return m.mem }
func (m *Machine) Input() *Queue { return &m.input }
func (m *Machine) Revision() Revision { return m.cfg.revision() }

// Feed appends vs to the input queue.
// Feeding a halted machine has no effect on its execution.
func (m *Machine) Feed(vs ...int64) { m.input.Push(vs...) }

// EventKind identifies an observable event of a Machine.
type EventKind byte

const (
	None   EventKind = iota // the instruction produced nothing observable
	Output                  // a value was emitted
	Halted                  // the machine reached HALT
)

func (k EventKind) String() string {
	switch k {
	case None:
		return "none"
	case Output:
		return "output"
	case Halted:
		return "halted"
	}
	return fmt.Sprintf("event(%d)", byte(k))
}

// Event is the result of executing an instruction.
// Value is set only for Output events.
type Event struct {
	Kind  EventKind
	Value int64
}

func (e Event) String() string {
	if e.Kind == Output {
		return fmt.Sprintf("output %d", e.Value)
	}
	return e.Kind.String()
}

// Step executes instructions until the machine emits an output or halts.
// Once halted, Step keeps returning a Halted event.
func (m *Machine) Step() (Event, error) {
	for {
		ev, err := m.Exec()
		if err != nil || ev.Kind != None {
			return ev, err
		}
	}
}

// Run executes the program to completion and returns every value it
// emitted. On error the outputs produced so far are returned as well.
func (m *Machine) Run() ([]int64, error) {
	var out []int64
	for {
		ev, err := m.Step()
		if err != nil {
			return out, err
		}
		if ev.Kind == Halted {
			return out, nil
		}
		out = append(out, ev.Value)
	}
}

// Exec executes the instruction at the instruction pointer.
// It returns an *ExecError if the instruction cannot be executed; the
// instruction pointer is then left at the failing instruction.
// Running off the end of memory halts the machine.
func (m *Machine) Exec() (ev Event, err error) {
	if m.halted {
		return Event{Kind: Halted}, nil
	}
	if m.ip >= int64(m.mem.Len()) {
		m.halted = true
		return Event{Kind: Halted}, nil
	}

	var word Instruction
	defer func() {
		if e := recover(); e != nil {
			f, ok := e.(fault)
			if !ok {
				panic(e)
			}
			err = &ExecError{Fault: f.Fault, Op: word, IP: m.ip, Addr: f.addr}
		}
	}()

	if limit := m.cfg.maxSteps(); limit >= 0 && m.steps >= limit {
		panic(fault{Fault: Timeout, addr: -1})
	}
	m.steps++

	word = Instruction(m.load(m.ip))
	op := word.Op()
	if op.Params() < 0 || op.Since() > m.cfg.revision() {
		panic(fault{Fault: OpcodeFault, addr: -1})
	}

	switch op {
	case Add, Mul, LessThan, Equals:
		a, b := m.param(word, 0), m.param(word, 1)
		dst := m.target(word, 2)
		var v int64
		switch op {
		case Add:
			v = a + b
		case Mul:
			v = a * b
		case LessThan:
			v = boolInt(a < b)
		case Equals:
			v = boolInt(a == b)
		}
		m.store(dst, v)
	case In:
		dst := m.target(word, 0)
		v, ok := m.input.Pop()
		if !ok {
			panic(fault{Fault: InputUnderflow, addr: -1})
		}
		m.store(dst, v)
	case Out:
		ev = Event{Kind: Output, Value: m.param(word, 0)}
	case JumpIfTrue, JumpIfFalse:
		a, b := m.param(word, 0), m.param(word, 1)
		if (a != 0) == (op == JumpIfTrue) {
			m.ip = b
			return ev, nil
		}
	case AdjustBase:
		m.relBase = offset(m.relBase, m.param(word, 0))
	case Halt:
		m.halted = true
		return Event{Kind: Halted}, nil
	}

	m.ip += 1 + int64(op.Params())
	return ev, nil
}

// param returns the value of the i'th parameter of the current instruction.
func (m *Machine) param(w Instruction, i int) int64 {
	raw := m.load(m.ip + 1 + int64(i))
	if m.mode(w, i) == ImmediateMode {
		return raw
	}
	return m.load(m.resolve(w, i, raw))
}

// target returns the address written by the i'th parameter of the current
// instruction.
func (m *Machine) target(w Instruction, i int) int64 {
	raw := m.load(m.ip + 1 + int64(i))
	if m.mode(w, i) == ImmediateMode {
		panic(fault{Fault: ModeFault, addr: -1})
	}
	return m.resolve(w, i, raw)
}

func (m *Machine) resolve(w Instruction, i int, raw int64) int64 {
	if m.mode(w, i) == RelativeMode {
		return offset(m.relBase, raw)
	}
	return raw
}

func (m *Machine) mode(w Instruction, i int) Mode {
	mode, err := w.Mode(i)
	if err != nil || (mode == RelativeMode && m.cfg.revision() < Relative) {
		panic(fault{Fault: ModeFault, addr: -1})
	}
	return mode
}

func (m *Machine) load(addr int64) int64 {
	v, err := m.mem.Read(addr)
	if err != nil {
		panic(fault{Fault: err.(Fault), addr: addr})
	}
	return v
}

func (m *Machine) store(addr, v int64) {
	if err := m.mem.Write(addr, v); err != nil {
		panic(fault{Fault: err.(Fault), addr: addr})
	}
}

// offset returns base+off, faulting instead of wrapping around.
func offset(base, off int64) int64 {
	v := base + off
	if (off > 0 && v < base) || (off < 0 && v > base) {
		panic(fault{Fault: AddressFault, addr: -1})
	}
	return v
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// fault is the panic value used to unwind a failing instruction.
type fault struct {
	Fault
	addr int64
}

// ExecError is returned by Exec, Step and Run when the machine cannot
// continue. The machine should be discarded afterwards.
type ExecError struct {
	Fault
	Op   Instruction
	IP   int64
	Addr int64 // offending address for AddressFault, otherwise -1
}

func (e *ExecError) Error() string {
	if e.Fault == AddressFault {
		return fmt.Sprintf("%s %d executing %s at %d", e.Fault, e.Addr, e.Op, e.IP)
	}
	return fmt.Sprintf("%s executing %s at %d", e.Fault, e.Op, e.IP)
}

func (e *ExecError) Unwrap() error { return e.Fault }

// Fault signifies the condition that stopped execution.
type Fault byte

const (
	AddressFault   Fault = iota + 1 // negative or out of range address
	ModeFault                       // unknown mode, or a write through immediate mode
	OpcodeFault                     // opcode not supported by the revision
	InputUnderflow                  // IN with an empty input queue
	Timeout                         // instruction bound exceeded
)

func (f Fault) Error() string {
	if s, ok := map[Fault]string{
		AddressFault:   "bad address",
		ModeFault:      "bad parameter mode",
		OpcodeFault:    "bad opcode",
		InputUnderflow: "input underflow",
		Timeout:        "step limit exceeded",
	}[f]; ok {
		return s
	}
	return fmt.Sprintf("unknown fault (%d)", byte(f))
}
