// Command pagesim replays an address trace through page replacement policies
// and reports page faults, optionally sweeping the frame count to expose
// Belady's anomaly.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"go.uber.org/zap"

	"github.com/sibexico/pagesim/logger"
	"github.com/sibexico/pagesim/paging"
	"github.com/sibexico/pagesim/tracefile"
)

type options struct {
	configPath  string
	interactive bool
	sweep       bool
	convertTo   string

	trace       string
	pageSize    uint64
	frames      int
	policies    string
	sweepPolicy string
	sweepMin    int
	sweepMax    int
	showTrace   bool
	metricsOut  string
	logLevel    string
	logFormat   string
}

func parseFlags(args []string) (*options, map[string]bool, error) {
	opts := &options{}
	fs := flag.NewFlagSet("pagesim", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "YAML or JSON config file")
	fs.BoolVar(&opts.interactive, "interactive", false, "prompt for frame counts")
	fs.BoolVar(&opts.sweep, "sweep", false, "run the capacity sweep after the report")
	fs.StringVar(&opts.convertTo, "convert", "", "re-encode the trace to this path (.txt, .sz, .lz4) and exit")

	fs.StringVar(&opts.trace, "trace", "", "address trace file")
	fs.Uint64Var(&opts.pageSize, "page-size", 0, "page size")
	fs.IntVar(&opts.frames, "frames", 0, "frame count")
	fs.StringVar(&opts.policies, "policies", "", "comma separated policies (fifo,lru,optimal,lfu,clock)")
	fs.StringVar(&opts.sweepPolicy, "sweep-policy", "", "policy used by the sweep")
	fs.IntVar(&opts.sweepMin, "sweep-min", 0, "smallest frame count in the sweep")
	fs.IntVar(&opts.sweepMax, "sweep-max", 0, "largest frame count in the sweep")
	fs.BoolVar(&opts.showTrace, "show-trace", true, "print the frame table after every reference")
	fs.StringVar(&opts.metricsOut, "metrics-out", "", "write Prometheus metrics to this file")
	fs.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&opts.logFormat, "log-format", "", "json or console")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return opts, set, nil
}

// loadConfig layers defaults or the config file, then PAGESIM_* variables,
// then explicitly set flags.
func loadConfig(opts *options, set map[string]bool) (*paging.Config, error) {
	cfg := paging.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = paging.LoadConfigFromFile(opts.configPath); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if set["trace"] {
		cfg.TraceFile = opts.trace
	}
	if set["page-size"] {
		cfg.PageSize = opts.pageSize
	}
	if set["frames"] {
		cfg.Frames = opts.frames
	}
	if set["policies"] {
		cfg.Policies = paging.SplitList(opts.policies)
	}
	if set["sweep-policy"] {
		cfg.SweepPolicy = opts.sweepPolicy
	}
	if set["sweep-min"] {
		cfg.SweepMinFrames = opts.sweepMin
	}
	if set["sweep-max"] {
		cfg.SweepMaxFrames = opts.sweepMax
	}
	if set["show-trace"] {
		cfg.ShowTrace = opts.showTrace
	}
	if set["metrics-out"] {
		cfg.MetricsFile = opts.metricsOut
	}
	if set["log-level"] {
		cfg.LogLevel = opts.logLevel
	}
	if set["log-format"] {
		cfg.LogFormat = opts.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "pagesim: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts, set, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts, set)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	defer log.Sync()

	addrs, err := tracefile.Open(cfg.TraceFile)
	if err != nil {
		return err
	}
	log.Info("trace loaded", zap.String("path", cfg.TraceFile), zap.Int("addresses", len(addrs)))

	if opts.convertTo != "" {
		if err := tracefile.Write(opts.convertTo, addrs); err != nil {
			return err
		}
		log.Info("trace converted",
			zap.String("path", opts.convertTo),
			zap.Stringer("format", tracefile.FormatFromPath(opts.convertTo)),
		)
		return nil
	}

	stream, err := paging.NewReferenceStream(addrs, cfg.PageSize)
	if err != nil {
		return err
	}
	policies, err := paging.ParsePolicies(cfg.Policies)
	if err != nil {
		return err
	}

	metrics := paging.NewMetrics()
	simOpts := []paging.Option{
		paging.WithLogger(log),
		paging.WithMetrics(metrics),
		paging.WithParallelism(cfg.Parallelism),
	}
	if cfg.ResultCacheSize > 0 {
		cache, err := paging.NewResultCache(cfg.ResultCacheSize)
		if err != nil {
			return err
		}
		defer cache.Close()
		simOpts = append(simOpts, paging.WithResultCache(cache))
	}
	sim := paging.NewSimulator(simOpts...)

	printAddressStream(out, stream)

	if opts.interactive {
		err = interactive(ctx, sim, stream, policies, cfg.ShowTrace, out)
	} else {
		err = report(ctx, sim, stream, policies, cfg.Frames, cfg.ShowTrace, out)
	}
	if err != nil {
		return err
	}

	if opts.sweep {
		kind, err := paging.ParsePolicy(cfg.SweepPolicy)
		if err != nil {
			return err
		}
		points, err := sim.Sweep(ctx, stream, paging.SweepConfig{
			Policy:    kind,
			MinFrames: cfg.SweepMinFrames,
			MaxFrames: cfg.SweepMaxFrames,
		})
		if err != nil {
			return err
		}
		printSweep(out, kind, points)
		for _, a := range paging.FindAnomalies(points) {
			log.Info("belady anomaly detected",
				zap.Stringer("policy", kind),
				zap.Int("frames", a.After.Frames),
				zap.Int("faults", a.After.Faults),
				zap.Int("fewer_frames_faults", a.Before.Faults),
			)
		}
	}

	metrics.LogMetrics(log)
	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			return err
		}
	}
	return nil
}

// report prints one section per policy at the given capacity. With the trace
// shown the runs go one after another so their tables do not interleave.
func report(ctx context.Context, sim *paging.Simulator, stream *paging.ReferenceStream, policies []paging.PolicyKind, frames int, showTrace bool, out io.Writer) error {
	if !showTrace {
		results, err := sim.Compare(ctx, stream, frames, policies)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		printComparison(out, results)
		return nil
	}

	for _, kind := range policies {
		printPolicyHeader(out, kind)
		result, err := sim.Run(ctx, stream, paging.RunConfig{
			Policy: kind,
			Frames: frames,
			OnStep: func(step paging.Step) { printStep(out, step) },
		})
		if err != nil {
			return err
		}
		printFaults(out, result)
	}
	return nil
}

// interactive prompts for frame counts until EOF or "quit". A non-numeric
// answer aborts the session instead of falling back to a default.
func interactive(ctx context.Context, sim *paging.Simulator, stream *paging.ReferenceStream, policies []paging.PolicyKind, showTrace bool, out io.Writer) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "frames> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		Stdout:          out,
	})
	if err != nil {
		return fmt.Errorf("failed to start prompt: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "q", "quit", "exit":
			return nil
		}

		frames, err := parseFrameCount(line)
		if err != nil {
			return err
		}
		if err := report(ctx, sim, stream, policies, frames, showTrace, out); err != nil {
			return err
		}
	}
}

func parseFrameCount(s string) (int, error) {
	frames, err := strconv.Atoi(s)
	if err != nil {
		return 0, paging.NewSimError(paging.ErrCodeInvalidConfiguration, "parseFrameCount",
			fmt.Sprintf("frame count %q is not a number", s), err)
	}
	if frames < 1 {
		return 0, paging.ErrInvalidFrames("parseFrameCount", frames)
	}
	return frames, nil
}
