// Package config loads the YAML configuration of a burst analysis run.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/RyanBlaney/freqdetect/algorithms/spectral"
	"github.com/RyanBlaney/freqdetect/burst"
	"github.com/RyanBlaney/freqdetect/logging"
	"gopkg.in/yaml.v3"
)

// Method names an estimator
type Method string

const (
	MethodZeroCrossing Method = "zero_crossing"
	MethodFFT          Method = "fft"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the analysis configuration
type Config struct {
	Input           string   `yaml:"input"`            // CSV burst file
	SampleRate      int      `yaml:"sample_rate"`      // Hz
	BurstLength     int      `yaml:"burst_length"`     // Samples per burst
	SkipColumns     int      `yaml:"skip_columns"`     // Leading metadata columns per CSV row
	Methods         []Method `yaml:"methods"`          // Estimators, run and reported in this order
	Transform       string   `yaml:"transform"`        // FFT backend: "gonum", or "godsp" for cross-checking (allocates per burst)
	Workers         int      `yaml:"workers"`          // Goroutines per method, one estimator each
	LogLevel        string   `yaml:"log_level"`        // debug, info, warn, error
	MetricsTextfile string   `yaml:"metrics_textfile"` // Prometheus textfile output, empty disables
	MetricsPushURL  string   `yaml:"metrics_push_url"` // Pushgateway URL, empty disables
}

// Default returns the configuration of the reference acquisition setup:
// 100 MHz sampling, 511-sample bursts behind 6 metadata columns
func Default() *Config {
	return &Config{
		Input:       "TxBurst.csv",
		SampleRate:  100 * 1000 * 1000,
		BurstLength: burst.DefaultLength,
		SkipColumns: burst.DefaultSkipColumns,
		Methods:     []Method{MethodZeroCrossing, MethodFFT},
		Transform:   spectral.BackendGonum,
		Workers:     1,
		LogLevel:    "info",
	}
}

// Load reads the YAML file at path over the defaults. Fields missing from
// the file keep their default values. The result is not validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML over the defaults
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the analysis cannot run with
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample_rate must be positive, got %d", ErrInvalidConfig, c.SampleRate)
	}
	if c.BurstLength < 2 {
		return fmt.Errorf("%w: burst_length must be at least 2, got %d", ErrInvalidConfig, c.BurstLength)
	}
	if c.SkipColumns < 0 {
		return fmt.Errorf("%w: skip_columns must not be negative, got %d", ErrInvalidConfig, c.SkipColumns)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	}
	if len(c.Methods) == 0 {
		return fmt.Errorf("%w: at least one method is required", ErrInvalidConfig)
	}
	for i, m := range c.Methods {
		if !m.Valid() {
			return fmt.Errorf("%w: unknown method %q", ErrInvalidConfig, m)
		}
		if slices.Contains(c.Methods[:i], m) {
			return fmt.Errorf("%w: method %q listed twice", ErrInvalidConfig, m)
		}
	}
	if !spectral.ValidBackend(c.Transform) {
		return fmt.Errorf("%w: unknown transform %q", ErrInvalidConfig, c.Transform)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ReaderConfig returns the CSV layout for the burst reader
func (c *Config) ReaderConfig() burst.ReaderConfig {
	return burst.ReaderConfig{
		Length:      c.BurstLength,
		SkipColumns: c.SkipColumns,
	}
}

// Valid reports whether m names a known estimator
func (m Method) Valid() bool {
	return m == MethodZeroCrossing || m == MethodFFT
}

// Title is the method name as printed in reports
func (m Method) Title() string {
	switch m {
	case MethodZeroCrossing:
		return "zero crossing"
	case MethodFFT:
		return "FFT"
	default:
		return string(m)
	}
}
