package report

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/cwbudde/algo-bandtest/rftest"
)

// Figures keep the 16:9 aspect of the report plots.
const (
	plotWidth  = 16 * vg.Inch
	plotHeight = 9 * vg.Inch
)

func newPlot(title, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Frequency [GHz]"
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	return p
}

func bandXYs(freq, values []float64) plotter.XYs {
	xys := make(plotter.XYs, len(freq))
	for i := range freq {
		xys[i].X = freq[i]
		xys[i].Y = values[i]
	}

	return xys
}

// PlotRun writes the reduced detector bands of one run as an SVG
// figure named <name>_RFtest_<state>_<n>.svg in dir. It returns the
// path of the written file.
func PlotRun(dir, name string, run *rftest.Result, fileNumber int) (string, error) {
	p := newPlot(
		fmt.Sprintf("%s RFtest - %s_%d", name, run.PhaseSwitch, fileNumber),
		"Detector output [ADU]")

	args := make([]interface{}, 0, 2*len(run.Channels))
	for ch, cs := range run.Channels {
		args = append(args, cs.Name, bandXYs(run.Freq, run.Response[ch]))
	}
	if err := plotutil.AddLines(p, args...); err != nil {
		return "", fmt.Errorf("report: %w", err)
	}

	path := filepath.Join(dir,
		fmt.Sprintf("%s_RFtest_%s_%d.svg", name, run.PhaseSwitch, fileNumber))
	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return "", fmt.Errorf("report: %w", err)
	}

	return path, nil
}

// PlotFinalBand writes two SVG figures to dir: every normalized
// detector band overlaid with the final band
// (<name>_RFtest_AllDetNorm.svg), and the final band alone with its
// error envelope (<name>_RFtest_FinalBand.svg). It returns the paths
// of the written files.
func PlotFinalBand(dir, name string, runs []*rftest.Result, sum *rftest.Summary) ([]string, error) {
	all := newPlot(name+" RFtest - All detector outputs (normalized)",
		"Detector output (normalized)")

	var args []interface{}
	for _, run := range runs {
		norm := 0
		for _, cs := range run.Channels {
			if cs.Blind || cs.Peak == 0 {
				continue
			}

			args = append(args, cs.Name+" "+run.PhaseSwitch, bandXYs(run.Freq, run.Norm[norm]))
			norm++
		}
	}
	if err := plotutil.AddLines(all, args...); err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}

	finalLine, err := plotter.NewLine(bandXYs(sum.Freq, sum.FinalBand))
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	finalLine.Color = color.Black
	all.Add(finalLine)
	all.Legend.Add("Final band", finalLine)

	allPath := filepath.Join(dir, name+"_RFtest_AllDetNorm.svg")
	if err := all.Save(plotWidth, plotHeight, allPath); err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}

	final := newPlot(name+" RFtest - Final Band", "Detector output (normalized)")

	envelope, err := errorEnvelope(sum)
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	final.Add(envelope)

	finalOnly, err := plotter.NewLine(bandXYs(sum.Freq, sum.FinalBand))
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	finalOnly.Color = color.Black
	final.Add(finalOnly)
	final.Legend.Add("Final band", finalOnly)

	finalPath := filepath.Join(dir, name+"_RFtest_FinalBand.svg")
	if err := final.Save(plotWidth, plotHeight, finalPath); err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}

	return []string{allPath, finalPath}, nil
}

// errorEnvelope builds the shaded band between FinalBand-FinalBandErr
// and FinalBand+FinalBandErr as a closed polygon: the upper curve
// followed by the lower curve walked backwards.
func errorEnvelope(sum *rftest.Summary) (*plotter.Polygon, error) {
	n := len(sum.Freq)
	xys := make(plotter.XYs, 0, 2*n)

	for i := range n {
		xys = append(xys, plotter.XY{X: sum.Freq[i], Y: sum.FinalBand[i] + sum.FinalBandErr[i]})
	}
	for i := n - 1; i >= 0; i-- {
		xys = append(xys, plotter.XY{X: sum.Freq[i], Y: sum.FinalBand[i] - sum.FinalBandErr[i]})
	}

	poly, err := plotter.NewPolygon(xys)
	if err != nil {
		return nil, err
	}

	poly.Color = color.RGBA{R: 0x08, G: 0x9f, B: 0xff, A: 0x33}
	poly.LineStyle.Color = color.RGBA{R: 0x1b, G: 0x2a, B: 0xcc, A: 0xff}

	return poly, nil
}
