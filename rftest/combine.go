package rftest

import (
	"github.com/cwbudde/algo-bandtest/band"
	"github.com/cwbudde/algo-bandtest/internal/quantile"
)

// Summary is the combination of one or more analyzed runs into a final
// instrument band.
type Summary struct {
	// Freq is the shared frequency axis of the combined runs.
	Freq []float64
	// FinalBand is the per-frequency median over all normalized
	// detector bands.
	FinalBand []float64
	// FinalBandErr is half the configured percentile spread of the
	// normalized bands at each frequency.
	FinalBandErr []float64
	// Stats characterizes the final band.
	Stats band.Stats
	// CentralFreqErr and BandwidthErr are half the percentile spread
	// of the per-band central frequencies and bandwidths.
	CentralFreqErr float64
	BandwidthErr   float64
	// Bands is the number of normalized detector bands stacked.
	Bands int
}

// Combine stacks the normalized detector bands of all runs and derives
// the final band of the instrument: the median response per frequency
// with a percentile error band, plus final central frequency and
// bandwidth with their spread-based errors.
func Combine(results []*Result, cfg Config) (*Summary, error) {
	cfg = normalizeConfig(cfg)

	if len(results) == 0 {
		return nil, ErrNoRuns
	}

	freq := results[0].Freq
	var bands [][]float64

	for _, res := range results {
		if len(res.Freq) != len(freq) {
			return nil, ErrFreqAxisMismatch
		}
		for i := range freq {
			if res.Freq[i] != freq[i] {
				return nil, ErrFreqAxisMismatch
			}
		}

		bands = append(bands, res.Norm...)
	}

	if len(bands) == 0 {
		return nil, ErrNoBands
	}

	sum := &Summary{
		Freq:         freq,
		FinalBand:    make([]float64, len(freq)),
		FinalBandErr: make([]float64, len(freq)),
		Bands:        len(bands),
	}

	column := make([]float64, len(bands))
	for i := range freq {
		for k, b := range bands {
			column[k] = b[i]
		}

		sum.FinalBand[i] = quantile.Median(column)
		sum.FinalBandErr[i] = halfSpread(column, cfg)
	}

	stats, err := band.Calculate(freq, sum.FinalBand)
	if err != nil {
		return nil, err
	}
	sum.Stats = stats

	// Spread of the per-band statistics across all stacked bands.
	centrals := make([]float64, 0, len(bands))
	widths := make([]float64, 0, len(bands))

	for _, b := range bands {
		s, err := band.Calculate(freq, b)
		if err != nil {
			return nil, err
		}

		centrals = append(centrals, s.CentralFreq)
		widths = append(widths, s.Bandwidth)
	}

	sum.CentralFreqErr = halfSpread(centrals, cfg)
	sum.BandwidthErr = halfSpread(widths, cfg)

	return sum, nil
}

func halfSpread(x []float64, cfg Config) float64 {
	return (quantile.Percentile(x, cfg.ErrHigh) - quantile.Percentile(x, cfg.ErrLow)) / 2
}
