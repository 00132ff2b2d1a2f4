// Command bandtest analyzes polarimeter RF band test acquisitions.
//
// Usage:
//
//	bandtest -name STRIP01 -out report/ file1.txt [file2.txt ...]
//
// Each input file is a raw swept-frequency timestream (generator
// frequency plus one power column per detector). The command reduces
// every acquisition, combines the runs into the final instrument band,
// and writes bandwidth_results.json, bandwidth_report.md and
// bandwidth_report.html into the output directory.
//
// Analysis parameters can be overridden with a YAML file:
//
//	bandtest -name STRIP01 -out report/ -config analysis.yaml file1.txt
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-bandtest/report"
	"github.com/cwbudde/algo-bandtest/rftest"
	"github.com/cwbudde/algo-bandtest/timestream"
)

const defaultSamplingFrequency = 25.0 // Hz

type fileConfig struct {
	ChannelNames        []string `yaml:"channel_names"`
	SamplingFrequency   float64  `yaml:"sampling_frequency"`
	Reject              int      `yaml:"reject"`
	ErrorPercentileLow  float64  `yaml:"error_percentile_low"`
	ErrorPercentileHigh float64  `yaml:"error_percentile_high"`
}

func loadConfig(path string) (rftest.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return rftest.Config{}, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return rftest.Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	return rftest.Config{
		ChannelNames:      fc.ChannelNames,
		SamplingFrequency: fc.SamplingFrequency,
		Reject:            fc.Reject,
		ErrLow:            fc.ErrorPercentileLow,
		ErrHigh:           fc.ErrorPercentileHigh,
	}, nil
}

func main() {
	name := flag.String("name", "", "polarimeter name (required)")
	outDir := flag.String("out", "", "output directory for the report (required)")
	configPath := flag.String("config", "", "YAML file with analysis parameters")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bandtest -name NAME -out DIR [flags] file...\n\n")
		fmt.Fprintf(os.Stderr, "Analyzes polarimeter RF band test acquisitions.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *name == "" || *outDir == "" || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	var cfg rftest.Config
	if *configPath != "" {
		var err error
		cfg, err = loadConfig(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("creating output directory: %v", err)
	}

	log.Printf("analyzing band test for polarimeter %q", *name)

	var runs []*rftest.Result
	for _, path := range flag.Args() {
		log.Printf("loading %q", path)

		ts, err := timestream.Load(path)
		if err != nil {
			log.Fatalf("loading %q: %v", path, err)
		}
		log.Printf("file loaded, %d samples found", ts.Samples())

		res, err := rftest.Analyze(ts, cfg)
		if err != nil {
			log.Fatalf("analyzing %q: %v", path, err)
		}
		log.Printf("phase switch state %q, blind detector %s",
			res.PhaseSwitch, res.Channels[res.BlindIndex].Name)

		runs = append(runs, res)
	}

	sum, err := rftest.Combine(runs, cfg)
	if err != nil {
		log.Fatalf("combining runs: %v", err)
	}
	log.Printf("final band: central frequency %.3f +/- %.3f GHz, bandwidth %.3f +/- %.3f GHz",
		sum.Stats.CentralFreq, sum.CentralFreqErr, sum.Stats.Bandwidth, sum.BandwidthErr)

	sampling := cfg.SamplingFrequency
	if sampling <= 0 {
		sampling = defaultSamplingFrequency
	}
	results := report.Build(*name, sampling, runs, sum)

	write := func(fileName string, render func(io.Writer, *report.Results) error) {
		path := filepath.Join(*outDir, fileName)

		f, err := os.Create(path)
		if err != nil {
			log.Fatalf("creating %q: %v", path, err)
		}
		defer f.Close()

		if err := render(f, results); err != nil {
			log.Fatalf("writing %q: %v", path, err)
		}
		log.Printf("wrote %q", path)
	}

	write("bandwidth_results.json", report.WriteJSON)
	write("bandwidth_report.md", report.WriteMarkdown)
	write("bandwidth_report.html", report.WriteHTML)

	for i, run := range runs {
		path, err := report.PlotRun(*outDir, *name, run, i)
		if err != nil {
			log.Fatalf("plotting run %d: %v", i, err)
		}
		log.Printf("wrote %q", path)
	}

	paths, err := report.PlotFinalBand(*outDir, *name, runs, sum)
	if err != nil {
		log.Fatalf("plotting final band: %v", err)
	}
	for _, path := range paths {
		log.Printf("wrote %q", path)
	}
}
