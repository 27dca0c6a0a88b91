package intcode

import (
	"errors"
	"testing"
)

func TestInstructionMode(t *testing.T) {
	for _, c := range []struct {
		word  Instruction
		op    Op
		modes [3]Mode
	}{
		{1, Add, [3]Mode{PositionMode, PositionMode, PositionMode}},
		{1002, Mul, [3]Mode{PositionMode, ImmediateMode, PositionMode}},
		{1101, Add, [3]Mode{ImmediateMode, ImmediateMode, PositionMode}},
		{204, Out, [3]Mode{RelativeMode, PositionMode, PositionMode}},
		{21107, LessThan, [3]Mode{ImmediateMode, ImmediateMode, RelativeMode}},
		{99, Halt, [3]Mode{}},
	} {
		if g := c.word.Op(); g != c.op {
			t.Errorf("%d.Op() = %v, want %v", int64(c.word), g, c.op)
		}
		for i, w := range c.modes {
			g, err := c.word.Mode(i)
			if err != nil {
				t.Errorf("%d.Mode(%d): %v", int64(c.word), i, err)
				continue
			}
			if g != w {
				t.Errorf("%d.Mode(%d) = %v, want %v", int64(c.word), i, g, w)
			}
		}
	}
}

func TestInstructionBadMode(t *testing.T) {
	for _, c := range []struct {
		word Instruction
		i    int
	}{
		{301, 0},
		{9001, 1},
		{50001, 2},
	} {
		if _, err := c.word.Mode(c.i); !errors.Is(err, ModeFault) {
			t.Errorf("%d.Mode(%d) error = %v, want ModeFault", int64(c.word), c.i, err)
		}
	}
}

// Check that every known opcode has a name, a parameter count and a revision,
// and that nothing else does.
func TestOpTable(t *testing.T) {
	known := map[Op]bool{}
	for op := range opNames {
		known[op] = true
	}
	for op := Op(0); op < 100; op++ {
		if known[op] {
			if op.Params() < 0 || op.Since() == 0 {
				t.Errorf("%v: Params() = %d, Since() = %v", op, op.Params(), op.Since())
			}
			continue
		}
		if op.Params() >= 0 || op.Since() != 0 {
			t.Errorf("op %d: Params() = %d, Since() = %v, want unknown", int64(op), op.Params(), op.Since())
		}
	}
	if g, w := len(known), 10; g != w {
		t.Errorf("%d named opcodes, want %d", g, w)
	}
}
