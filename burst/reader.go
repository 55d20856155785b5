// Package burst reads captured sample bursts from CSV acquisition files.
//
// Each non-blank line is one burst: a number of leading metadata columns
// (timestamp, channel, trigger settings, ...) followed by the integer
// samples. Parsing is lenient: a field that is not an integer counts as 0,
// a short row is zero-padded and extra fields are dropped, so every returned
// burst has exactly Length samples.
package burst

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/RyanBlaney/freqdetect/logging"
)

// Acquisition file defaults
const (
	DefaultLength      = 511
	DefaultSkipColumns = 6
)

// maxLineBytes bounds a single CSV row
const maxLineBytes = 4 << 20

// ReaderConfig holds the CSV layout
type ReaderConfig struct {
	Length      int `json:"length"`       // Samples per burst
	SkipColumns int `json:"skip_columns"` // Leading non-sample fields per row
}

// DefaultReaderConfig returns the layout of the acquisition files
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		Length:      DefaultLength,
		SkipColumns: DefaultSkipColumns,
	}
}

// Stats describes what a Read call had to repair
type Stats struct {
	Rows          int `json:"rows"`           // Bursts returned
	BlankLines    int `json:"blank_lines"`    // Lines skipped as empty
	InvalidFields int `json:"invalid_fields"` // Sample fields that failed to parse (stored as 0)
	ShortRows     int `json:"short_rows"`     // Rows zero-padded to Length
	LongRows      int `json:"long_rows"`      // Rows with samples beyond Length
}

// Reader parses burst files
type Reader struct {
	config ReaderConfig
	stats  Stats
	logger logging.Logger
}

// NewReader creates a reader for the given layout. It panics on a
// non-positive length or a negative column skip.
func NewReader(config ReaderConfig) *Reader {
	if config.Length < 1 || config.SkipColumns < 0 {
		panic(fmt.Sprintf("burst: invalid reader config %+v", config))
	}
	return &Reader{
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component": "burst_reader",
		}),
	}
}

// Stats returns the repair counters of the last Read
func (r *Reader) Stats() Stats {
	return r.stats
}

// ReadFile reads every burst in the file at path
func (r *Reader) ReadFile(path string) ([][]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open burst file: %w", err)
	}
	defer f.Close()

	bursts, err := r.Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return bursts, nil
}

// Read reads every burst from src
func (r *Reader) Read(src io.Reader) ([][]int, error) {
	r.stats = Stats{}

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var bursts [][]int
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			r.stats.BlankLines++
			continue
		}
		bursts = append(bursts, r.parseRow(line, text))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", line+1, err)
	}

	r.stats.Rows = len(bursts)

	r.logger.Debug("Bursts read", logging.Fields{
		"rows":           r.stats.Rows,
		"blank_lines":    r.stats.BlankLines,
		"invalid_fields": r.stats.InvalidFields,
		"short_rows":     r.stats.ShortRows,
		"long_rows":      r.stats.LongRows,
	})

	return bursts, nil
}

func (r *Reader) parseRow(line int, text string) []int {
	samples := make([]int, r.config.Length)

	fields := strings.Split(text, ",")
	if len(fields) <= r.config.SkipColumns {
		fields = nil
	} else {
		fields = fields[r.config.SkipColumns:]
	}

	switch {
	case len(fields) < r.config.Length:
		r.stats.ShortRows++
	case len(fields) > r.config.Length:
		r.stats.LongRows++
		fields = fields[:r.config.Length]
	}

	for i, field := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			r.stats.InvalidFields++
			r.logger.Debug("Invalid sample field", logging.Fields{
				"line":   line,
				"column": i + r.config.SkipColumns,
				"value":  field,
			})
			continue
		}
		samples[i] = v
	}

	return samples
}
