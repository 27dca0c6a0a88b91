package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/nf/intcode/amp"
	"github.com/nf/intcode/config"
	"github.com/nf/intcode/intcode"
)

// debugMode steps a feedback network built from the configured phase
// settings, in their configured order, under a terminal debugger.
func debugMode(cfg *config.Config, progFile string) error {
	prog, err := loadProgram(progFile)
	if err != nil {
		return err
	}
	d := newDebugger(prog, cfg)
	log.SetPrefix("")
	log.SetOutput(d.log)
	defer func() {
		log.SetOutput(os.Stderr)
		log.SetPrefix("intcode: ")
	}()
	d.reset()
	return d.app.Run()
}

type debugger struct {
	prog    intcode.Program
	cfg     *config.Config
	phases  []int64
	net     *amp.Network
	watches []watch

	ring   []*tview.TextView // one pane per amplifier, in ring order
	log    *tview.TextView
	watch  *tview.TextView
	status *tview.TextView
	input  *tview.InputField
	app    *tview.Application
}

// watch is a memory cell of one amplifier shown in the watch pane.
type watch struct {
	amp  int
	addr int64
}

var debugCommands = []string{"step", "continue", "reset", "watch", "unwatch", "exit"}

func newDebugger(prog intcode.Program, cfg *config.Config) *debugger {
	phases := cfg.Amplifiers.PhaseSet()
	if len(cfg.Amplifiers.Phases) == 0 {
		phases = amp.PhaseRange(5, 9)
	}
	d := &debugger{
		prog:   prog,
		cfg:    cfg,
		phases: phases,
		log:    tview.NewTextView().SetMaxLines(1000).ScrollToEnd(),
		watch:  tview.NewTextView().SetWrap(false),
		status: tview.NewTextView().SetWrap(false),
		input:  tview.NewInputField().SetLabel("> "),
		app:    tview.NewApplication(),
	}

	ring := tview.NewFlex()
	for i, p := range phases {
		v := tview.NewTextView().SetWrap(false)
		v.SetBorder(true).SetTitle(fmt.Sprintf(" amp %d: phase %d ", i, p))
		d.ring = append(d.ring, v)
		ring.AddItem(v, 0, 1, false)
	}
	d.watch.SetBorder(true).SetTitle(" watches ")
	d.log.SetBorder(true).SetTitle(" turns ")

	lower := tview.NewFlex().
		AddItem(d.watch, 0, 1, false).
		AddItem(d.log, 0, 3, false)
	d.app.SetRoot(tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(ring, 7, 0, false).
		AddItem(lower, 0, 1, false).
		AddItem(d.status, 1, 0, false).
		AddItem(d.input, 1, 0, true), true)

	d.input.SetAutocompleteFunc(func(t string) (entries []string) {
		if t == "" || strings.Contains(t, " ") {
			return nil
		}
		for _, c := range debugCommands {
			if strings.HasPrefix(c, t) {
				entries = append(entries, c)
			}
		}
		return
	})
	d.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		cmd := strings.TrimSpace(d.input.GetText())
		if cmd == "" {
			// Enter on an empty line steps.
			cmd = "step"
		}
		d.input.SetText("")
		d.command(cmd)
		d.update()
	})
	return d
}

func (d *debugger) command(line string) {
	cmd, arg, _ := strings.Cut(line, " ")
	switch cmd {
	case "exit", "q":
		d.app.Stop()
	case "s", "step":
		n := 1
		if arg != "" {
			v, err := strconv.Atoi(arg)
			if err != nil || v < 1 {
				log.Printf("invalid count %q", arg)
				return
			}
			n = v
		}
		for ; n > 0 && !d.net.Done(); n-- {
			if !d.step() {
				return
			}
		}
	case "c", "continue":
		for !d.net.Done() {
			if !d.step() {
				return
			}
		}
		log.Printf("all amplifiers halted: signal %d", d.net.Signal())
	case "r", "reset":
		d.reset()
	case "w", "watch", "u", "unwatch":
		w, ok := parseWatch(arg, len(d.net.Amps()))
		if !ok {
			log.Printf("usage: %s <amp> <addr>", cmd)
			return
		}
		if cmd[0] == 'w' {
			d.watches = append(d.watches, w)
			log.Printf("watching amp %d [%d]", w.amp, w.addr)
			return
		}
		for i := range d.watches {
			if d.watches[i] == w {
				d.watches = append(d.watches[:i], d.watches[i+1:]...)
				log.Printf("cleared watch amp %d [%d]", w.amp, w.addr)
				return
			}
		}
	default:
		log.Printf("unknown command %q (try %s)", cmd, strings.Join(debugCommands, ", "))
	}
}

// step takes one network turn and reports whether the network can
// continue.
func (d *debugger) step() bool {
	t, err := d.net.Step()
	if err != nil {
		if !errors.Is(err, amp.ErrDone) {
			log.Printf("fault: %v", err)
		}
		return false
	}
	log.Printf("amp %d: %v", t.Amp, t.Event)
	return true
}

func (d *debugger) reset() {
	d.net = amp.NewNetwork(d.prog, d.phases, d.cfg.Amplifiers.Seed, d.cfg.Machine.Intcode())
	d.net.MaxTurns = -1
	log.Printf("network of %d amplifiers, phases %v", len(d.phases), d.phases)
	d.update()
}

func (d *debugger) update() {
	next := d.net.Next()
	for i, a := range d.net.Amps() {
		v := d.ring[i]
		v.SetText(ampContent(a))
		switch {
		case i == next:
			v.SetBorderColor(tcell.ColorYellow)
		case a.State == amp.Halted:
			v.SetBorderColor(tcell.ColorDarkGrey)
		default:
			v.SetBorderColor(tcell.ColorWhite)
		}
	}
	d.watch.SetText(watchContent(d.net, d.watches))
	d.status.SetText(statusLine(d.net))
	switch {
	case d.net.Err() != nil:
		d.status.SetTextColor(tcell.ColorWhite)
		d.status.SetBackgroundColor(tcell.ColorDarkRed)
	case d.net.Done():
		d.status.SetTextColor(tcell.ColorYellow)
		d.status.SetBackgroundColor(tcell.ColorDarkBlue)
	default:
		d.status.SetTextColor(tcell.ColorBlack)
		d.status.SetBackgroundColor(tcell.ColorDarkGrey)
	}
}

func parseWatch(arg string, amps int) (watch, bool) {
	a, addr, ok := strings.Cut(strings.TrimSpace(arg), " ")
	if !ok {
		return watch{}, false
	}
	i, err := strconv.Atoi(a)
	if err != nil || i < 0 || i >= amps {
		return watch{}, false
	}
	v, err := strconv.ParseInt(strings.TrimSpace(addr), 10, 64)
	if err != nil || v < 0 {
		return watch{}, false
	}
	return watch{amp: i, addr: v}, true
}

// ampContent describes one amplifier. Memory is read with Peek so that
// displaying a machine never grows it.
func ampContent(a *amp.Amp) string {
	var b strings.Builder
	m := a.Machine
	op, _ := m.Mem().Peek(m.IP())
	fmt.Fprintf(&b, "%s\n", a.State)
	fmt.Fprintf(&b, "ip %d %v\n", m.IP(), intcode.Instruction(op))
	fmt.Fprintf(&b, "rb %d  steps %d\n", m.RelBase(), m.Steps())
	fmt.Fprintf(&b, "in %v\n", m.Input())
	fmt.Fprintf(&b, "out %d", a.Outputs)
	if a.Outputs > 0 {
		fmt.Fprintf(&b, " last %d", a.Last)
	}
	return b.String()
}

func watchContent(n *amp.Network, watches []watch) string {
	var b strings.Builder
	amps := n.Amps()
	for i, w := range watches {
		if i > 0 {
			b.WriteByte('\n')
		}
		v, err := amps[w.amp].Machine.Mem().Peek(w.addr)
		if err != nil {
			fmt.Fprintf(&b, "%d[%d] %v", w.amp, w.addr, err)
			continue
		}
		fmt.Fprintf(&b, "%d[%d] = %d", w.amp, w.addr, v)
	}
	return b.String()
}

func statusLine(n *amp.Network) string {
	kind := "       "
	switch {
	case n.Err() != nil:
		kind = "[FAULT]"
	case n.Done():
		kind = "[done!]"
	}
	return fmt.Sprintf("%s signal %d  turns %d  next amp %d", kind, n.Signal(), n.Turns(), n.Next())
}
