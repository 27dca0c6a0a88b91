package amp

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/nf/intcode/intcode"
)

// Search finds the ordering of phase settings that produces the highest
// signal from a chain or feedback network of amplifiers.
type Search struct {
	Program  intcode.Program
	Phases   []int64 // the set of phase settings to permute
	Seed     int64   // input signal of the first amplifier
	Feedback bool    // use a feedback Network rather than a chain
	Config   intcode.Config

	// Workers is the number of trials evaluated concurrently.
	// Values below 1 mean 1. Each trial is itself sequential, so the
	// result does not depend on Workers.
	Workers int

	// Trace, if non-nil, records every trial.
	Trace *TraceWriter
}

// Best is the outcome of a Search.
type Best struct {
	Phases []int64
	Signal int64
}

// Run evaluates every permutation of s.Phases with fresh machines and
// returns the one producing the highest signal. Ties go to the permutation
// enumerated first. The first failing trial aborts the search.
func (s *Search) Run(ctx context.Context) (Best, error) {
	perms := Permutations(s.Phases)
	signals := make([]int64, len(perms))

	workers := s.Workers
	if workers < 1 {
		workers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range perms {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := s.trial(p)
			if err != nil {
				return fmt.Errorf("phases %v: %w", p, err)
			}
			signals[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Best{}, err
	}

	best := Best{Phases: perms[0], Signal: signals[0]}
	for i, v := range signals[1:] {
		if v > best.Signal {
			best = Best{Phases: perms[i+1], Signal: v}
		}
	}
	log.Infof("best signal %d from phases %v over %d trials", best.Signal, best.Phases, len(perms))
	return best, nil
}

func (s *Search) trial(phases []int64) (signal int64, err error) {
	var (
		tr      *Trial
		observe func(Turn)
	)
	if s.Trace != nil {
		tr = s.Trace.Begin(phases, s.Feedback)
		observe = tr.Turn
		defer func() {
			if terr := tr.End(signal, err); err == nil {
				err = terr
			}
		}()
	}

	if !s.Feedback {
		return runChain(s.Program, phases, s.Seed, s.Config, observe)
	}
	n := NewNetwork(s.Program, phases, s.Seed, s.Config)
	n.Observer = observe
	signal, err = n.Run()
	log.Debugf("phases %v: signal %d after %d turns", phases, signal, n.Turns())
	return signal, err
}
