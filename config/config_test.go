package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.SampleRate != 100_000_000 || cfg.BurstLength != 511 || cfg.SkipColumns != 6 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.Methods) != 2 || cfg.Methods[0] != MethodZeroCrossing || cfg.Methods[1] != MethodFFT {
		t.Fatalf("default methods = %v", cfg.Methods)
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
input: bursts/run42.csv
burst_length: 512
methods: [fft]
workers: 4
transform: godsp
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Input != "bursts/run42.csv" || cfg.BurstLength != 512 || cfg.Workers != 4 || cfg.Transform != "godsp" {
		t.Fatalf("parsed config = %+v", cfg)
	}
	if len(cfg.Methods) != 1 || cfg.Methods[0] != MethodFFT {
		t.Fatalf("methods = %v, want [fft]", cfg.Methods)
	}
	// Untouched keys keep their defaults
	if cfg.SampleRate != 100_000_000 || cfg.SkipColumns != 6 || cfg.LogLevel != "info" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("sample_rate: [1, 2")); err == nil {
		t.Fatal("Parse accepted malformed YAML")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "freqdetect.yaml")
	if err := os.WriteFile(path, []byte("sample_rate: 250000000\nlog_level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SampleRate != 250_000_000 || cfg.LogLevel != "debug" {
		t.Fatalf("loaded config = %+v", cfg)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Load succeeded on a missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "zero_sample_rate", mutate: func(c *Config) { c.SampleRate = 0 }},
		{name: "short_burst", mutate: func(c *Config) { c.BurstLength = 1 }},
		{name: "negative_skip", mutate: func(c *Config) { c.SkipColumns = -1 }},
		{name: "no_workers", mutate: func(c *Config) { c.Workers = 0 }},
		{name: "no_methods", mutate: func(c *Config) { c.Methods = nil }},
		{name: "unknown_method", mutate: func(c *Config) { c.Methods = []Method{"wavelet"} }},
		{name: "duplicate_method", mutate: func(c *Config) { c.Methods = []Method{MethodFFT, MethodFFT} }},
		{name: "unknown_transform", mutate: func(c *Config) { c.Transform = "fftw" }},
		{name: "bad_log_level", mutate: func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestMethodTitle(t *testing.T) {
	if MethodZeroCrossing.Title() != "zero crossing" || MethodFFT.Title() != "FFT" {
		t.Fatalf("titles = %q, %q", MethodZeroCrossing.Title(), MethodFFT.Title())
	}
}

func TestReaderConfig(t *testing.T) {
	cfg := Default()
	cfg.BurstLength = 1024
	cfg.SkipColumns = 2

	rc := cfg.ReaderConfig()
	if rc.Length != 1024 || rc.SkipColumns != 2 {
		t.Fatalf("reader config = %+v", rc)
	}
}
