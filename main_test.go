package main

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nf/intcode/amp"
	"github.com/nf/intcode/config"
	"github.com/nf/intcode/intcode"
)

func writeProgram(t *testing.T, src string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "prog.ic")
	if err := os.WriteFile(name, []byte(src+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestRunMachine(t *testing.T) {
	prog := writeProgram(t, "3,9,8,9,10,9,4,9,99,-1,8")
	for _, c := range []struct {
		input int64
		want  string
	}{
		{8, "1\n"},
		{7, "0\n"},
	} {
		var out bytes.Buffer
		opts := options{input: []int64{c.input}}
		if err := run(context.Background(), &out, config.Default(), opts, prog); err != nil {
			t.Fatalf("input %d: %v", c.input, err)
		}
		if got := out.String(); got != c.want {
			t.Errorf("input %d: got output %q, want %q", c.input, got, c.want)
		}
	}
}

func TestRunUnderflow(t *testing.T) {
	prog := writeProgram(t, "3,0,99")
	var out bytes.Buffer
	if err := run(context.Background(), &out, config.Default(), options{}, prog); err == nil {
		t.Fatal("got nil error, want input underflow")
	}
}

func TestRunCanceled(t *testing.T) {
	prog := writeProgram(t, "104,1,1105,1,0")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := run(ctx, &out, config.Default(), options{}, prog)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got error %v, want context.Canceled", err)
	}
}

func TestRunMachineStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := intcode.NewMachine(intcode.Program{104, 1, 1105, 1, 0}, intcode.Config{MaxSteps: -1})
	n := 0
	for {
		ev, err := m.Exec()
		if err != nil {
			t.Fatal(err)
		}
		if ev.Kind == intcode.Output {
			n++
		}
		if n == 3 {
			break
		}
	}
	cancel()
	out, err := runMachine(ctx, m)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got error %v, want context.Canceled", err)
	}
	if len(out) != 0 {
		t.Errorf("got outputs %v after cancel, want none", out)
	}
}

func TestRunSearch(t *testing.T) {
	prog := writeProgram(t, "3,15,3,16,1002,16,10,16,1,16,15,15,4,15,99,0,0")
	trace := filepath.Join(t.TempDir(), "trace.cbor")

	var out bytes.Buffer
	opts := options{amp: true, tracePath: trace}
	if err := run(context.Background(), &out, config.Default(), opts, prog); err != nil {
		t.Fatal(err)
	}
	if got, want := out.String(), "phases [4 3 2 1 0]: signal 43210\n"; got != want {
		t.Errorf("got output %q, want %q", got, want)
	}

	f, err := os.Open(trace)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	recs, err := amp.ReadTrace(f)
	if err != nil {
		t.Fatal(err)
	}
	ends := 0
	for _, r := range recs {
		if r.Kind == amp.TrialEnd {
			ends++
		}
	}
	if ends != 120 {
		t.Errorf("got %d trial records, want 120", ends)
	}
}

func TestParseWatch(t *testing.T) {
	for _, c := range []struct {
		arg  string
		want watch
		ok   bool
	}{
		{"0 10", watch{0, 10}, true},
		{" 4  7 ", watch{4, 7}, true},
		{"5 1", watch{}, false},
		{"0 -1", watch{}, false},
		{"0", watch{}, false},
		{"x 1", watch{}, false},
	} {
		got, ok := parseWatch(c.arg, 5)
		if ok != c.ok || got != c.want {
			t.Errorf("parseWatch(%q) = %v, %v; want %v, %v", c.arg, got, ok, c.want, c.ok)
		}
	}
}

func TestDebugPanesDoNotGrowMemory(t *testing.T) {
	prog := intcode.Program{3, 9, 4, 9, 1105, 1, 0, 99, 0, 0}
	n := amp.NewNetwork(prog, []int64{5, 6}, 0, intcode.Config{MaxMemory: 64})
	watches := []watch{{0, 9}, {0, 63}, {1, 5000}, {1, math.MaxInt64}}

	got := watchContent(n, watches)
	for _, want := range []string{"0[9] = 0", "0[63] = 0", "1[5000] = 0"} {
		if !strings.Contains(got, want) {
			t.Errorf("watch pane %q does not contain %q", got, want)
		}
	}
	for i, a := range n.Amps() {
		ampContent(a)
		if g, w := a.Machine.Mem().Len(), len(prog); g != w {
			t.Errorf("amp %d memory grew to %d cells, want %d", i, g, w)
		}
	}
}
