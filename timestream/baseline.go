package timestream

import (
	"github.com/cwbudde/algo-bandtest/internal/quantile"
)

// RemoveBaseline subtracts a linear electronic-offset baseline from
// every channel, in place.
//
// The offset is estimated from the generator-off samples: the medians
// of the first and second half of the acquisition anchor a straight
// line over the swept frequency range, which absorbs slow drifts of
// the electronics during the test. Fails when either half contains no
// generator-off samples.
func RemoveBaseline(ts *Timestream) error {
	n := ts.Samples()
	half := n / 2

	firstOff, ok := medianOff(ts, 0, half)
	if !ok {
		return ErrNoBaselineSamples
	}

	secondOff, ok := medianOff(ts, half, n)
	if !ok {
		return ErrNoBaselineSamples
	}

	// Anchor the line at the sweep endpoints.
	lo, hi, ok := sweepRange(ts)
	if !ok {
		return ErrNoSweepSamples
	}

	channels := ts.Channels()
	for ch := range channels {
		slope := 0.0
		if hi > lo {
			slope = (secondOff[ch] - firstOff[ch]) / (hi - lo)
		}
		intercept := firstOff[ch] - slope*lo

		for i := range ts.Power {
			ts.Power[i][ch] -= slope*ts.Freq[i] + intercept
		}
	}

	return nil
}

// medianOff returns the per-channel median of the generator-off
// samples in rows [from, to).
func medianOff(ts *Timestream, from, to int) ([]float64, bool) {
	var rows []int
	for i := from; i < to; i++ {
		if ts.Freq[i] < 0 {
			rows = append(rows, i)
		}
	}

	if len(rows) == 0 {
		return nil, false
	}

	channels := ts.Channels()
	med := make([]float64, channels)
	values := make([]float64, len(rows))

	for ch := range channels {
		for k, row := range rows {
			values[k] = ts.Power[row][ch]
		}
		med[ch] = quantile.Median(values)
	}

	return med, true
}

// sweepRange returns the lowest and highest generator frequency seen.
func sweepRange(ts *Timestream) (lo, hi float64, ok bool) {
	for _, f := range ts.Freq {
		if f <= 0 {
			continue
		}

		if !ok || f < lo {
			lo = f
		}
		if !ok || f > hi {
			hi = f
		}
		ok = true
	}

	return lo, hi, ok
}
