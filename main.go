// Command intcode executes Intcode programs and searches the phase
// settings of Intcode amplifier networks.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"

	"github.com/tliron/commonlog"

	"github.com/nf/intcode/amp"
	"github.com/nf/intcode/config"
	"github.com/nf/intcode/intcode"

	_ "github.com/tliron/commonlog/simple"
)

type options struct {
	input     []int64
	amp       bool
	tracePath string
}

func main() {
	log.SetPrefix("intcode: ")
	log.SetFlags(0)

	var (
		inputFlag    = flag.String("input", "", "comma-separated `values` queued before running")
		ampFlag      = flag.Bool("amp", false, "search amplifier phase settings instead of running once")
		feedbackFlag = flag.Bool("feedback", false, "connect amplifiers in a feedback loop (implies -amp)")
		phasesFlag   = flag.String("phases", "", "comma-separated phase `settings` (default 0..4, or 5..9 with -feedback)")
		configFlag   = flag.String("config", "", "read configuration from `file` (default: "+config.FileName+" above the program)")
		traceFlag    = flag.String("trace", "", "write a CBOR trace of amplifier turns to `file`")
		verboseFlag  = flag.Int("v", -1, "log `verbosity` (overrides the configuration file)")
		devFlag      = flag.Bool("dev", false, "enable developer mode (re-run whenever the program changes)")
		debugFlag    = flag.Bool("debug", false, "step a feedback network with -phases in a terminal debugger")

		cpuProfileFlag = flag.String("cpu_profile", "", "write CPU profile to `file`")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-input values] <program>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s -amp [-feedback] [-phases settings] <program>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s -debug [-phases settings] <program>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
	}
	progFile := flag.Arg(0)

	var (
		cfg *config.Config
		err error
	)
	if *configFlag != "" {
		cfg, err = config.Load(*configFlag)
	} else {
		cfg, err = config.Find(filepath.Dir(progFile))
	}
	if err != nil {
		log.Fatal(err)
	}
	if *feedbackFlag {
		cfg.Amplifiers.Feedback = true
	}
	if *phasesFlag != "" {
		phases, err := intcode.ParseString(*phasesFlag)
		if err != nil {
			log.Fatalf("-phases: %v", err)
		}
		cfg.Amplifiers.Phases = phases
	}
	if *verboseFlag >= 0 {
		cfg.Log.Verbosity = *verboseFlag
	}
	var logFile *string
	if cfg.Log.File != "" {
		logFile = &cfg.Log.File
	}
	commonlog.Configure(cfg.Log.Verbosity, logFile)

	input, err := intcode.ParseString(*inputFlag)
	if err != nil {
		log.Fatalf("-input: %v", err)
	}
	opts := options{
		input:     input,
		amp:       *ampFlag || *feedbackFlag,
		tracePath: *traceFlag,
	}

	if *debugFlag {
		if err := debugMode(cfg, progFile); err != nil {
			log.Fatal(err)
		}
		return
	}
	if *devFlag {
		if err := devMode(cfg, opts, progFile); err != nil {
			log.Fatal(err)
		}
		return
	}

	var cpuProfile io.Closer
	if prof := *cpuProfileFlag; prof != "" {
		f, err := os.Create(prof)
		if err != nil {
			log.Fatalf("creating CPU profile file: %v", err)
		}
		pprof.StartCPUProfile(f)
		cpuProfile = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = run(ctx, os.Stdout, cfg, opts, progFile)
	stop()

	if f := cpuProfile; f != nil {
		pprof.StopCPUProfile()
		f.Close()
	}

	if err != nil {
		log.Fatal(err)
	}
}

func loadProgram(progFile string) (intcode.Program, error) {
	f, err := os.Open(progFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	prog, err := intcode.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", progFile, err)
	}
	return prog, nil
}

func run(ctx context.Context, out io.Writer, cfg *config.Config, opts options, progFile string) error {
	prog, err := loadProgram(progFile)
	if err != nil {
		return err
	}

	if !opts.amp {
		m := intcode.NewMachine(prog, cfg.Machine.Intcode())
		m.Feed(opts.input...)
		vals, err := runMachine(ctx, m)
		if len(vals) > 0 {
			fmt.Fprintln(out, intcode.Program(vals))
		}
		return err
	}

	s := cfg.Search(prog)
	if opts.tracePath != "" {
		f, err := os.Create(opts.tracePath)
		if err != nil {
			return err
		}
		defer f.Close()
		s.Trace = amp.NewTraceWriter(f)
	}
	best, err := s.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "phases %v: signal %d\n", best.Phases, best.Signal)
	return nil
}

// runMachine runs m until it halts, returning its outputs. It gives up
// early if ctx is canceled.
func runMachine(ctx context.Context, m *intcode.Machine) ([]int64, error) {
	var out []int64
	for i := 0; ; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return out, err
			}
		}
		ev, err := m.Exec()
		if err != nil {
			return out, err
		}
		switch ev.Kind {
		case intcode.Output:
			out = append(out, ev.Value)
		case intcode.Halted:
			return out, nil
		}
	}
}
