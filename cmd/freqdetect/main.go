// Command freqdetect estimates the dominant frequency of every burst in a CSV
// capture with a zero-crossing and an FFT estimator and prints their average
// and spread.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/RyanBlaney/freqdetect/algorithms/spectral"
	"github.com/RyanBlaney/freqdetect/analysis"
	"github.com/RyanBlaney/freqdetect/burst"
	"github.com/RyanBlaney/freqdetect/config"
	"github.com/RyanBlaney/freqdetect/logging"
)

// options holds the command line; zero values mean "not set"
type options struct {
	configFile string
	input      string
	sampleRate int
	length     int
	transform  string
	workers    int
	debug      bool
	noColor    bool
	set        map[string]bool
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("freqdetect", flag.ContinueOnError)
	fs.StringVar(&opts.configFile, "config", "", "Path to YAML configuration file")
	fs.StringVar(&opts.input, "input", "TxBurst.csv", "CSV file with one burst per line")
	fs.IntVar(&opts.sampleRate, "sample-rate", 0, "Sampling rate in Hz (overrides config)")
	fs.IntVar(&opts.length, "length", 0, "Samples per burst (overrides config)")
	fs.StringVar(&opts.transform, "transform", "", "FFT backend: gonum or godsp (overrides config)")
	fs.IntVar(&opts.workers, "workers", 0, "Goroutines per estimator (overrides config)")
	fs.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&opts.noColor, "no-color", false, "Disable colored log output")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		err := fmt.Errorf("unexpected arguments: %v", fs.Args())
		fmt.Fprintln(fs.Output(), err)
		fs.Usage()
		return nil, err
	}

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		opts.set[f.Name] = true
	})

	return opts, nil
}

// loadConfig builds the configuration from the optional file and the flags.
// Flags given on the command line win over the file.
func loadConfig(opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configFile != "" {
		loaded, err := config.Load(opts.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if opts.set["input"] || opts.configFile == "" {
		cfg.Input = opts.input
	}
	if opts.set["sample-rate"] {
		cfg.SampleRate = opts.sampleRate
	}
	if opts.set["length"] {
		cfg.BurstLength = opts.length
	}
	if opts.set["transform"] {
		cfg.Transform = opts.transform
	}
	if opts.set["workers"] {
		cfg.Workers = opts.workers
	}
	if opts.debug {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	ctx = logging.ContextWithFields(ctx, logging.Fields{"input": cfg.Input})
	logger := logging.WithContext(ctx).WithFields(logging.Fields{
		"component": "freqdetect",
	})

	fmt.Fprintf(stdout, "Reading file %q\n", cfg.Input)

	if cfg.Transform == spectral.BackendGoDSP {
		logger.Warn("The godsp transform allocates on every burst; use it to cross-check results only")
	}

	reader := burst.NewReader(cfg.ReaderConfig())
	bursts, err := reader.ReadFile(cfg.Input)
	if err != nil {
		return err
	}
	if s := reader.Stats(); s.InvalidFields > 0 || s.ShortRows > 0 || s.LongRows > 0 {
		logger.Warn("Burst file needed repairs", logging.Fields{
			"invalid_fields": s.InvalidFields,
			"short_rows":     s.ShortRows,
			"long_rows":      s.LongRows,
		})
	}

	var metrics *analysis.Metrics
	if cfg.MetricsTextfile != "" || cfg.MetricsPushURL != "" {
		metrics = analysis.NewMetrics()
	}

	runner := analysis.NewRunner(cfg, analysis.WithMetrics(metrics))
	report, err := runner.Run(ctx, bursts)
	if err != nil {
		return err
	}

	if err := report.WriteText(stdout); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			return err
		}
		logger.Debug("Metrics written", logging.Fields{"path": cfg.MetricsTextfile})
	}
	if cfg.MetricsPushURL != "" {
		// Push failures are logged, not fatal
		if err := metrics.Push(cfg.MetricsPushURL, report.RunID); err != nil {
			logger.Error(err, "Failed to push metrics", logging.Fields{"url": cfg.MetricsPushURL})
		}
	}

	return nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if opts.noColor {
		logging.DisableColors()
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		logging.Fatal(err, "Failed to load configuration")
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logging.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		stop()
		logging.Fatal(err, "Analysis failed", logging.Fields{"input": cfg.Input})
	}
}
