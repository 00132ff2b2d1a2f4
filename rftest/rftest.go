// Package rftest analyzes polarimeter RF band tests.
//
// A band test sweeps an RF generator across the frequency range of the
// instrument while the four detector outputs are sampled. The analysis
// reduces the raw acquisition to a band response per detector, finds
// the detector left blind by the phase-switch state, and characterizes
// every band with its central frequency and equivalent rectangular
// bandwidth. Several test runs can then be combined into a final band
// with percentile error estimates.
package rftest

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-bandtest/band"
	"github.com/cwbudde/algo-bandtest/internal/quantile"
	"github.com/cwbudde/algo-bandtest/timestream"
)

var (
	ErrNoChannels       = errors.New("rftest: sweep has no detector channels")
	ErrNoRuns           = errors.New("rftest: no runs to combine")
	ErrNoBands          = errors.New("rftest: no normalized bands to combine")
	ErrFreqAxisMismatch = errors.New("rftest: runs have different frequency axes")
)

// Default polarimeter channel naming convention.
var defaultChannelNames = []string{"PW0/Q1", "PW1/U1", "PW2/U2", "PW3/Q2"}

// Config holds analysis parameters.
type Config struct {
	// ChannelNames labels the detector channels. Defaults to the
	// polarimeter convention PW0/Q1 .. PW3/Q2.
	ChannelNames []string
	// SamplingFrequency of the acquisition in Hz, used for the test
	// duration. Defaults to 25.
	SamplingFrequency float64
	// Reject is the per-step edge rejection handed to
	// [timestream.Reduce].
	Reject int
	// BlindLow and BlindHigh are the percentiles of the per-channel
	// power range used for blind-detector detection. Default 5 and 95.
	BlindLow, BlindHigh float64
	// ErrLow and ErrHigh are the percentiles spanning the error band
	// of combined results. Default 2.7 and 97.7 (two sigma).
	ErrLow, ErrHigh float64
}

func normalizeConfig(cfg Config) Config {
	if cfg.SamplingFrequency <= 0 {
		cfg.SamplingFrequency = 25.0
	}

	if cfg.BlindLow <= 0 {
		cfg.BlindLow = 5.0
	}
	if cfg.BlindHigh <= 0 {
		cfg.BlindHigh = 95.0
	}

	if cfg.ErrLow <= 0 {
		cfg.ErrLow = 2.7
	}
	if cfg.ErrHigh <= 0 {
		cfg.ErrHigh = 97.7
	}

	return cfg
}

func (cfg Config) channelName(ch int) string {
	if ch < len(cfg.ChannelNames) {
		return cfg.ChannelNames[ch]
	}
	if ch < len(defaultChannelNames) && len(cfg.ChannelNames) == 0 {
		return defaultChannelNames[ch]
	}

	return fmt.Sprintf("CH%d", ch)
}

// ChannelStats holds the band statistics of one detector channel.
type ChannelStats struct {
	Name  string
	Blind bool
	band.Stats
}

// Result is the analysis of a single test run.
type Result struct {
	// Freq is the reduced sweep frequency axis.
	Freq []float64
	// Response holds the non-negative band response per channel.
	Response [][]float64
	// Norm holds the unit-peak normalized bands of the non-blind
	// channels.
	Norm [][]float64
	// Channels holds per-channel band statistics in channel order.
	Channels []ChannelStats
	// BlindIndex is the channel left blind by the phase-switch state.
	BlindIndex int
	// PhaseSwitch is the phase-switch state inferred from the blind
	// channel ("0101" or "0110"), empty when inconclusive.
	PhaseSwitch string
	// Duration of the raw acquisition in seconds.
	Duration float64
}

// AnalyzeFile loads a raw acquisition from path and analyzes it.
func AnalyzeFile(path string, cfg Config) (*Result, error) {
	ts, err := timestream.Load(path)
	if err != nil {
		return nil, err
	}
	return Analyze(ts, cfg)
}

// Analyze reduces a raw acquisition and characterizes the band of
// every detector channel. The timestream is modified in place by the
// baseline removal.
func Analyze(ts *timestream.Timestream, cfg Config) (*Result, error) {
	cfg = normalizeConfig(cfg)

	if ts.Channels() == 0 {
		return nil, ErrNoChannels
	}

	duration := float64(ts.Samples()) / cfg.SamplingFrequency

	if err := timestream.RemoveBaseline(ts); err != nil {
		return nil, err
	}

	sd, err := timestream.Reduce(ts, timestream.ReduceOptions{Reject: cfg.Reject})
	if err != nil {
		return nil, err
	}

	channels := sd.Channels()
	res := &Result{
		Freq:       sd.Freq,
		Response:   make([][]float64, channels),
		Channels:   make([]ChannelStats, channels),
		BlindIndex: -1,
		Duration:   duration,
	}

	for ch := range channels {
		res.Response[ch] = response(sd, ch)

		cs := ChannelStats{Name: cfg.channelName(ch)}

		stats, err := band.Calculate(sd.Freq, res.Response[ch])
		switch {
		case errors.Is(err, band.ErrDegenerateInput):
			// A fully blind channel has no band; keep zero stats.
		case err != nil:
			return nil, fmt.Errorf("rftest: channel %s: %w", cs.Name, err)
		default:
			cs.Stats = stats
		}

		res.Channels[ch] = cs
	}

	res.BlindIndex = blindChannel(res.Response, cfg)
	res.Channels[res.BlindIndex].Blind = true
	res.PhaseSwitch = phaseSwitchState(res.BlindIndex)

	for ch := range channels {
		if ch == res.BlindIndex {
			continue
		}

		peak := res.Channels[ch].Peak
		if peak == 0 {
			continue
		}

		norm := make([]float64, len(res.Response[ch]))
		for i, v := range res.Response[ch] {
			norm[i] = v / peak
		}
		res.Norm = append(res.Norm, norm)
	}

	return res, nil
}

// response converts a reduced detector channel into a non-negative
// band response. The detector output swings negative with increasing
// input power, so positive excursions are measurement noise and are
// clamped to zero before the sign flip.
func response(sd *timestream.SweepData, ch int) []float64 {
	out := sd.Channel(ch)
	for i, v := range out {
		if v > 0 {
			out[i] = 0
		} else {
			out[i] = -v
		}
	}

	return out
}

// blindChannel returns the channel with the smallest spread between
// the configured low and high percentiles of its response. The phase
// switch leaves one detector without signal, so the flattest channel
// is the blind one.
func blindChannel(response [][]float64, cfg Config) int {
	blind := 0
	minRange := 0.0

	for ch, resp := range response {
		r := quantile.Percentile(resp, cfg.BlindHigh) - quantile.Percentile(resp, cfg.BlindLow)
		if ch == 0 || r < minRange {
			minRange = r
			blind = ch
		}
	}

	return blind
}

// phaseSwitchState maps the blind detector index to the phase-switch
// state that silences it: state 0101 blinds PW3, state 0110 blinds
// PW0.
func phaseSwitchState(blind int) string {
	switch blind {
	case 0:
		return "0110"
	case 3:
		return "0101"
	default:
		return ""
	}
}
