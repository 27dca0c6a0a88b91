package intcode

import "fmt"

// Op represents an Intcode opcode, the low two decimal digits of an
// instruction word.
type Op int64

const (
	Add         Op = 1
	Mul         Op = 2
	In          Op = 3
	Out         Op = 4
	JumpIfTrue  Op = 5
	JumpIfFalse Op = 6
	LessThan    Op = 7
	Equals      Op = 8
	AdjustBase  Op = 9
	Halt        Op = 99
)

var opNames = map[Op]string{
	Add:         "ADD",
	Mul:         "MUL",
	In:          "IN",
	Out:         "OUT",
	JumpIfTrue:  "JNZ",
	JumpIfFalse: "JZ",
	LessThan:    "LT",
	Equals:      "EQ",
	AdjustBase:  "ARB",
	Halt:        "HALT",
}

func (op Op) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return fmt.Sprintf("op(%d)", int64(op))
}

// Params reports the number of parameters taken by op,
// or -1 if op is not a known opcode.
func (op Op) Params() int {
	switch op {
	case Add, Mul, LessThan, Equals:
		return 3
	case JumpIfTrue, JumpIfFalse:
		return 2
	case In, Out, AdjustBase:
		return 1
	case Halt:
		return 0
	}
	return -1
}

// Since reports the first revision that supports op.
func (op Op) Since() Revision {
	switch op {
	case Add, Mul, In, Out, Halt:
		return Basic
	case JumpIfTrue, JumpIfFalse, LessThan, Equals:
		return Jumps
	case AdjustBase:
		return Relative
	}
	return 0
}

// Mode is a parameter addressing mode.
type Mode int64

const (
	PositionMode  Mode = 0 // parameter is an address
	ImmediateMode Mode = 1 // parameter is a literal value
	RelativeMode  Mode = 2 // parameter is an offset from the relative base
)

func (m Mode) String() string {
	switch m {
	case PositionMode:
		return "position"
	case ImmediateMode:
		return "immediate"
	case RelativeMode:
		return "relative"
	}
	return fmt.Sprintf("mode(%d)", int64(m))
}

// Instruction is an undecoded instruction word.
type Instruction int64

// Op returns the opcode of the instruction.
func (w Instruction) Op() Op { return Op(w % 100) }

// Mode returns the addressing mode of the i'th (0-based) parameter.
// It returns ModeFault if the mode digit is not a known mode.
func (w Instruction) Mode(i int) (Mode, error) {
	modes := int64(w) / 100
	for ; i > 0; i-- {
		modes /= 10
	}
	switch m := Mode(modes % 10); m {
	case PositionMode, ImmediateMode, RelativeMode:
		return m, nil
	}
	return 0, ModeFault
}

func (w Instruction) String() string {
	return fmt.Sprintf("%s(%d)", w.Op(), int64(w))
}
