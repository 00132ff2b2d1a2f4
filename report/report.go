// Package report renders band test results as JSON and as a
// Markdown/HTML report.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime/debug"

	"github.com/cwbudde/algo-bandtest/rftest"
)

// Channel holds the reported values of one detector channel.
type Channel struct {
	Name        string  `json:"name"`
	CentralFreq float64 `json:"central_nu"`
	Bandwidth   float64 `json:"bandwidth"`
	Blind       bool    `json:"blind"`
}

// Run holds the per-detector results of one test run.
type Run struct {
	PhaseSwitch string    `json:"phase_switch_state"`
	Channels    []Channel `json:"channels"`
}

// Results is the document written to bandwidth_results.json.
type Results struct {
	PolarimeterName   string  `json:"polarimeter_name"`
	Title             string  `json:"title"`
	SamplingFrequency float64 `json:"sampling_frequency"`
	TestDurationHours float64 `json:"test_duration"`
	CentralFreq       float64 `json:"final_central_nu"`
	CentralFreqErr    float64 `json:"final_central_nu_err"`
	Bandwidth         float64 `json:"final_bandwidth"`
	BandwidthErr      float64 `json:"final_bandwidth_err"`
	CodeVersion       string  `json:"code_version"`
	Runs              []Run   `json:"runs"`
}

// codeVersion reports the analysis code version recorded for report
// provenance.
func codeVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}

	return "(unknown)"
}

// Build assembles the results document from the analyzed runs and
// their combination. Blind channels are reported with zeroed band
// values, as they carry no signal.
func Build(name string, samplingFreq float64, runs []*rftest.Result, sum *rftest.Summary) *Results {
	r := &Results{
		PolarimeterName:   name,
		Title:             fmt.Sprintf("Bandwidth test for polarimeter %s", name),
		SamplingFrequency: samplingFreq,
		CentralFreq:       sum.Stats.CentralFreq,
		CentralFreqErr:    sum.CentralFreqErr,
		Bandwidth:         sum.Stats.Bandwidth,
		BandwidthErr:      sum.BandwidthErr,
		CodeVersion:       codeVersion(),
	}

	for _, run := range runs {
		r.TestDurationHours += run.Duration / 3600

		rr := Run{PhaseSwitch: run.PhaseSwitch}
		for _, cs := range run.Channels {
			ch := Channel{Name: cs.Name, Blind: cs.Blind}
			if !cs.Blind {
				ch.CentralFreq = cs.CentralFreq
				ch.Bandwidth = cs.Bandwidth
			}
			rr.Channels = append(rr.Channels, ch)
		}

		r.Runs = append(r.Runs, rr)
	}

	return r
}

// WriteJSON writes the results document as indented JSON.
func WriteJSON(w io.Writer, r *Results) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	return nil
}
