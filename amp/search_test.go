package amp

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nf/intcode/intcode"
)

func TestSearch(t *testing.T) {
	for _, c := range []struct {
		prog     string
		phases   []int64
		feedback bool
		want     Best
	}{
		{chain43210, PhaseRange(0, 4), false, Best{[]int64{4, 3, 2, 1, 0}, 43210}},
		{chain54321, PhaseRange(0, 4), false, Best{[]int64{0, 1, 2, 3, 4}, 54321}},
		{chain65210, PhaseRange(0, 4), false, Best{[]int64{1, 0, 4, 3, 2}, 65210}},
		{feedback139629729, PhaseRange(5, 9), true, Best{[]int64{9, 8, 7, 6, 5}, 139629729}},
		{feedback18216, PhaseRange(5, 9), true, Best{[]int64{9, 7, 8, 5, 6}, 18216}},
	} {
		for _, workers := range []int{0, 1, 4} {
			t.Run(fmt.Sprintf("%d_workers%d", c.want.Signal, workers), func(t *testing.T) {
				s := &Search{
					Program:  mustParse(c.prog),
					Phases:   c.phases,
					Feedback: c.feedback,
					Workers:  workers,
				}
				got, err := s.Run(context.Background())
				if err != nil {
					t.Fatal(err)
				}
				if got.Signal != c.want.Signal {
					t.Errorf("got signal %d, want %d", got.Signal, c.want.Signal)
				}
				if fmt.Sprint(got.Phases) != fmt.Sprint(c.want.Phases) {
					t.Errorf("got phases %v, want %v", got.Phases, c.want.Phases)
				}
			})
		}
	}
}

func TestSearchTiesGoToFirst(t *testing.T) {
	// Every ordering outputs the same signal.
	s := &Search{
		Program: mustParse("3,0,3,0,104,7,99"),
		Phases:  PhaseRange(0, 3),
		Workers: 3,
	}
	got, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if w := Permutations(s.Phases)[0]; fmt.Sprint(got.Phases) != fmt.Sprint(w) {
		t.Errorf("got phases %v, want first permutation %v", got.Phases, w)
	}
	if got.Signal != 7 {
		t.Errorf("got signal %d, want 7", got.Signal)
	}
}

func TestSearchFailure(t *testing.T) {
	s := &Search{
		Program:  mustParse("3,0,3,0,3,0,99"),
		Phases:   PhaseRange(5, 9),
		Feedback: true,
		Workers:  2,
	}
	_, err := s.Run(context.Background())
	if !errors.Is(err, intcode.InputUnderflow) {
		t.Fatalf("got error %v, want InputUnderflow", err)
	}
}

func TestSearchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &Search{Program: mustParse(chain43210), Phases: PhaseRange(0, 4)}
	if _, err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("got error %v, want context.Canceled", err)
	}
}

func TestSearchTimeout(t *testing.T) {
	s := &Search{
		Program:  mustParse("1105,1,0"),
		Phases:   PhaseRange(0, 1),
		Feedback: true,
		Config:   intcode.Config{MaxSteps: 1000},
	}
	if _, err := s.Run(context.Background()); !errors.Is(err, intcode.Timeout) {
		t.Fatalf("got error %v, want Timeout", err)
	}
}
