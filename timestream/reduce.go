package timestream

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-bandtest/internal/quantile"
)

// ReduceOptions holds reduction parameters.
type ReduceOptions struct {
	// Reject is the number of samples dropped at each edge of a
	// frequency step before averaging, to skip generator settling.
	// Zero selects the default of 1; a negative value keeps all
	// samples.
	Reject int
}

// SweepData is a reduced sweep: one averaged reading per generator
// frequency step.
type SweepData struct {
	Freq   []float64   // strictly increasing frequency steps
	Power  [][]float64 // per step, per channel: median of the step's samples
	StdErr [][]float64 // standard error of the step's samples
}

// Channels returns the number of detector channels.
func (sd *SweepData) Channels() int {
	if len(sd.Power) == 0 {
		return 0
	}

	return len(sd.Power[0])
}

// Channel returns the power readings of one channel across all
// frequency steps.
func (sd *SweepData) Channel(ch int) []float64 {
	out := make([]float64, len(sd.Power))
	for i, row := range sd.Power {
		out[i] = row[ch]
	}

	return out
}

// Reduce groups the raw samples by generator frequency and averages
// each group. Samples taken with the generator off (negative
// frequency) are discarded. Within each frequency step the first and
// last Reject samples are dropped and the median of the rest is taken;
// the standard error is the standard deviation over the square root of
// the full step sample count.
func Reduce(ts *Timestream, opts ReduceOptions) (*SweepData, error) {
	reject := opts.Reject
	if reject == 0 {
		reject = 1
	}
	if reject < 0 {
		reject = 0
	}

	groups := make(map[float64][]int)
	for i, f := range ts.Freq {
		if f <= 0 {
			continue
		}
		groups[f] = append(groups[f], i)
	}

	if len(groups) == 0 {
		return nil, ErrNoSweepSamples
	}

	freqs := make([]float64, 0, len(groups))
	for f := range groups {
		freqs = append(freqs, f)
	}
	sort.Float64s(freqs)

	channels := ts.Channels()
	sd := &SweepData{
		Freq:   freqs,
		Power:  make([][]float64, len(freqs)),
		StdErr: make([][]float64, len(freqs)),
	}

	for i, f := range freqs {
		rows := groups[f]

		trimmed := rows
		if len(rows) > 2*reject {
			trimmed = rows[reject : len(rows)-reject]
		}

		sd.Power[i] = make([]float64, channels)
		sd.StdErr[i] = make([]float64, channels)

		values := make([]float64, len(trimmed))
		for ch := range channels {
			for k, row := range trimmed {
				values[k] = ts.Power[row][ch]
			}

			sd.Power[i][ch] = quantile.Median(values)
			if len(values) > 1 {
				sd.StdErr[i][ch] = stat.PopStdDev(values, nil) / math.Sqrt(float64(len(rows)))
			}
		}
	}

	return sd, nil
}
