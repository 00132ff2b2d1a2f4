package timestream

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Load reads a timestream from a whitespace-separated text file.
func Load(path string) (*Timestream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("timestream: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses a timestream from whitespace-separated columns: the
// generator frequency followed by one power reading per detector
// channel. Blank lines and lines starting with '#' are skipped. Every
// data line must carry the same number of columns.
func Read(r io.Reader) (*Timestream, error) {
	ts := &Timestream{}
	columns := 0
	lineNo := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if columns == 0 {
			if len(fields) < 2 {
				return nil, fmt.Errorf("timestream: line %d: need a frequency and at least one power column, got %d", lineNo, len(fields))
			}
			columns = len(fields)
		}

		if len(fields) != columns {
			return nil, fmt.Errorf("timestream: line %d: got %d columns, want %d", lineNo, len(fields), columns)
		}

		freq, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("timestream: line %d: bad frequency %q: %w", lineNo, fields[0], err)
		}

		row := make([]float64, columns-1)
		for i, field := range fields[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("timestream: line %d: bad power value %q: %w", lineNo, field, err)
			}
			row[i] = v
		}

		ts.Freq = append(ts.Freq, freq)
		ts.Power = append(ts.Power, row)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("timestream: %w", err)
	}

	if ts.Samples() == 0 {
		return nil, ErrNoSamples
	}

	return ts, nil
}
