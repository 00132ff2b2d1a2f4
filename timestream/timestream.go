// Package timestream loads and reduces raw swept-frequency band test
// acquisitions.
//
// During a band test an RF generator steps through the frequency range
// while the detector outputs are sampled continuously. Each raw sample
// carries the generator frequency active at acquisition time, or a
// negative value while the generator is off. Reduction turns this raw
// stream into one averaged power reading per frequency step, after a
// linear electronic-offset baseline has been removed.
package timestream

import "errors"

var (
	ErrNoSamples         = errors.New("timestream: no samples")
	ErrNoSweepSamples    = errors.New("timestream: no samples with a generator frequency")
	ErrNoBaselineSamples = errors.New("timestream: no generator-off samples for baseline estimation")
)

// Timestream is a raw band test acquisition.
type Timestream struct {
	// Freq is the generator frequency per sample. Samples taken while
	// the generator is off carry a negative value.
	Freq []float64
	// Power holds one row per sample with one detector reading per
	// channel. All rows have the same length.
	Power [][]float64
}

// Samples returns the number of raw samples.
func (ts *Timestream) Samples() int {
	return len(ts.Freq)
}

// Channels returns the number of detector channels.
func (ts *Timestream) Channels() int {
	if len(ts.Power) == 0 {
		return 0
	}

	return len(ts.Power[0])
}
