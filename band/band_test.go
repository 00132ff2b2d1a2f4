package band

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

const tolerance = 1e-9

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// makeAxis creates a uniformly spaced frequency axis from lo to hi
// (inclusive) with n points.
func makeAxis(lo, hi float64, n int) []float64 {
	return floats.Span(make([]float64, n), lo, hi)
}

// makeSquareBand creates a flat-top response of the given amplitude
// covering |f - center| <= halfWidth, zero elsewhere.
func makeSquareBand(freqs []float64, center, halfWidth, amplitude float64) []float64 {
	resp := make([]float64, len(freqs))
	for i, f := range freqs {
		if math.Abs(f-center) <= halfWidth {
			resp[i] = amplitude
		}
	}

	return resp
}

func TestCalculateSquareBand(t *testing.T) {
	// 38..50 GHz in 0.1 GHz steps, flat band of width 7 centered at 43.
	freqs := makeAxis(38.0, 50.0, 121)
	resp := makeSquareBand(freqs, 43.0, 3.5, 1.0)

	const step = 12.0 / 120.0

	s, err := Calculate(freqs, resp)
	if err != nil {
		t.Fatalf("Calculate: unexpected error %v", err)
	}

	if !almostEqual(s.CentralFreq, 43.0, 2*step) {
		t.Fatalf("CentralFreq: got %f, want ~43.0", s.CentralFreq)
	}

	if !almostEqual(s.Bandwidth, 7.0, 2*step) {
		t.Fatalf("Bandwidth: got %f, want ~7.0", s.Bandwidth)
	}

	// For a flat-top band the noise bandwidth matches the ERB.
	if !almostEqual(s.NoiseBandwidth, s.Bandwidth, 2*step) {
		t.Fatalf("NoiseBandwidth: got %f, want ~%f", s.NoiseBandwidth, s.Bandwidth)
	}

	if s.Peak != 1.0 {
		t.Fatalf("Peak: got %f, want 1.0", s.Peak)
	}
}

func TestCalculateLinearRamp(t *testing.T) {
	// Response rising linearly from 0 at 38 GHz to 1 at 50 GHz. The
	// ERB of a ramp is half the span.
	freqs := makeAxis(38.0, 50.0, 121)
	resp := make([]float64, len(freqs))
	for i, f := range freqs {
		resp[i] = (f - 38.0) / 12.0
	}

	const step = 12.0 / 120.0

	s, err := Calculate(freqs, resp)
	if err != nil {
		t.Fatalf("Calculate: unexpected error %v", err)
	}

	if !almostEqual(s.Bandwidth, 6.0, 2*step) {
		t.Fatalf("Bandwidth: got %f, want ~6.0", s.Bandwidth)
	}

	// Noise bandwidth of a 0..peak ramp over span S is 3S/4.
	if !almostEqual(s.NoiseBandwidth, 9.0, 2*step) {
		t.Fatalf("NoiseBandwidth: got %f, want ~9.0", s.NoiseBandwidth)
	}
}

func TestCalculateSymmetricBand(t *testing.T) {
	// A Gaussian band symmetric about 44 GHz: the weighted mean must
	// hit the symmetry center up to floating-point error.
	freqs := makeAxis(38.0, 50.0, 241)
	resp := make([]float64, len(freqs))
	for i, f := range freqs {
		resp[i] = math.Exp(-(f - 44.0) * (f - 44.0) / 2.0)
	}

	s, err := Calculate(freqs, resp)
	if err != nil {
		t.Fatalf("Calculate: unexpected error %v", err)
	}

	if !almostEqual(s.CentralFreq, 44.0, 1e-6) {
		t.Fatalf("CentralFreq: got %.9f, want 44.0", s.CentralFreq)
	}
}

func TestCalculateScaleInvariance(t *testing.T) {
	freqs := makeAxis(38.0, 50.0, 121)
	resp := makeSquareBand(freqs, 43.0, 3.5, 1.0)

	scaled := make([]float64, len(resp))
	copy(scaled, resp)
	floats.Scale(1234.5, scaled)

	s1, err := Calculate(freqs, resp)
	if err != nil {
		t.Fatalf("Calculate: unexpected error %v", err)
	}

	s2, err := Calculate(freqs, scaled)
	if err != nil {
		t.Fatalf("Calculate scaled: unexpected error %v", err)
	}

	if !almostEqual(s1.CentralFreq, s2.CentralFreq, tolerance) {
		t.Fatalf("CentralFreq changed under scaling: %f vs %f", s1.CentralFreq, s2.CentralFreq)
	}

	if !almostEqual(s1.Bandwidth, s2.Bandwidth, 1e-6) {
		t.Fatalf("Bandwidth changed under scaling: %f vs %f", s1.Bandwidth, s2.Bandwidth)
	}

	if !almostEqual(s1.NoiseBandwidth, s2.NoiseBandwidth, 1e-6) {
		t.Fatalf("NoiseBandwidth changed under scaling: %f vs %f", s1.NoiseBandwidth, s2.NoiseBandwidth)
	}
}

func TestCalculateDeterministic(t *testing.T) {
	freqs := makeAxis(38.0, 50.0, 121)
	resp := makeSquareBand(freqs, 43.0, 3.5, 2.5)

	freqsBefore := make([]float64, len(freqs))
	copy(freqsBefore, freqs)
	respBefore := make([]float64, len(resp))
	copy(respBefore, resp)

	s1, err := Calculate(freqs, resp)
	if err != nil {
		t.Fatalf("Calculate: unexpected error %v", err)
	}

	s2, err := Calculate(freqs, resp)
	if err != nil {
		t.Fatalf("Calculate: unexpected error %v", err)
	}

	if s1 != s2 {
		t.Fatalf("repeated call differs: %+v vs %+v", s1, s2)
	}

	// Inputs must not be mutated.
	for i := range freqs {
		if freqs[i] != freqsBefore[i] || resp[i] != respBefore[i] {
			t.Fatalf("input slices mutated at index %d", i)
		}
	}
}

func TestCalculateNonUniformSpacing(t *testing.T) {
	// Ramp sampled with 0.05 spacing inside 41..46 and 0.1 elsewhere.
	// The trapezoidal integral of a piecewise-linear curve is exact, so
	// the ERB stays at half the span regardless of the spacing.
	var freqs []float64
	for f := 38.0; f < 41.0; f += 0.1 {
		freqs = append(freqs, f)
	}
	for f := 41.0; f < 46.0; f += 0.05 {
		freqs = append(freqs, f)
	}
	for f := 46.0; f <= 50.0+1e-12; f += 0.1 {
		freqs = append(freqs, f)
	}

	resp := make([]float64, len(freqs))
	for i, f := range freqs {
		resp[i] = (f - 38.0) / 12.0
	}

	s, err := Calculate(freqs, resp)
	if err != nil {
		t.Fatalf("Calculate: unexpected error %v", err)
	}

	span := freqs[len(freqs)-1] - freqs[0]
	if !almostEqual(s.Bandwidth, span/2, 1e-6) {
		t.Fatalf("Bandwidth: got %f, want %f", s.Bandwidth, span/2)
	}
}

func TestCalculateTwoSamples(t *testing.T) {
	s, err := Calculate([]float64{1, 2}, []float64{1, 1})
	if err != nil {
		t.Fatalf("Calculate: unexpected error %v", err)
	}

	if !almostEqual(s.CentralFreq, 1.5, tolerance) {
		t.Fatalf("CentralFreq: got %f, want 1.5", s.CentralFreq)
	}

	if !almostEqual(s.Bandwidth, 1.0, tolerance) {
		t.Fatalf("Bandwidth: got %f, want 1.0", s.Bandwidth)
	}
}

func TestCalculateSpreadSymmetricPair(t *testing.T) {
	// Two equal weights equidistant from the center: spread is the
	// distance to the center.
	s, err := Calculate([]float64{1, 2, 3}, []float64{1, 0, 1})
	if err != nil {
		t.Fatalf("Calculate: unexpected error %v", err)
	}

	if !almostEqual(s.CentralFreq, 2.0, tolerance) {
		t.Fatalf("CentralFreq: got %f, want 2.0", s.CentralFreq)
	}

	if !almostEqual(s.Spread, 1.0, tolerance) {
		t.Fatalf("Spread: got %f, want 1.0", s.Spread)
	}
}

func TestCalculateErrors(t *testing.T) {
	tests := []struct {
		name     string
		freqs    []float64
		response []float64
		wantErr  error
	}{
		{"length_mismatch", []float64{1, 2, 3}, []float64{1, 2}, ErrShapeMismatch},
		{"nil_inputs", nil, nil, ErrInsufficientSamples},
		{"single_sample", []float64{1}, []float64{1}, ErrInsufficientSamples},
		{"all_zero_response", []float64{1, 2, 3}, []float64{0, 0, 0}, ErrDegenerateInput},
		{"decreasing_frequency", []float64{3, 2, 1}, []float64{1, 1, 1}, ErrUnorderedFrequencies},
		{"duplicate_frequency", []float64{1, 2, 2, 3}, []float64{1, 1, 1, 1}, ErrUnorderedFrequencies},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.freqs, tt.response)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Calculate: got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCentralFrequencyAndBandwidthMatchCalculate(t *testing.T) {
	freqs := makeAxis(38.0, 50.0, 121)
	resp := makeSquareBand(freqs, 43.0, 3.5, 1.0)

	s, err := Calculate(freqs, resp)
	if err != nil {
		t.Fatalf("Calculate: unexpected error %v", err)
	}

	cf, err := CentralFrequency(freqs, resp)
	if err != nil {
		t.Fatalf("CentralFrequency: unexpected error %v", err)
	}

	if !almostEqual(cf, s.CentralFreq, tolerance) {
		t.Fatalf("CentralFrequency: individual=%f, Calculate=%f", cf, s.CentralFreq)
	}

	bw, err := Bandwidth(freqs, resp)
	if err != nil {
		t.Fatalf("Bandwidth: unexpected error %v", err)
	}

	if !almostEqual(bw, s.Bandwidth, tolerance) {
		t.Fatalf("Bandwidth: individual=%f, Calculate=%f", bw, s.Bandwidth)
	}
}

func TestCalculateExcluding(t *testing.T) {
	freqs := makeAxis(38.0, 50.0, 121)
	resp := makeSquareBand(freqs, 43.0, 3.5, 1.0)

	// Poison one out-of-band point with a spike and exclude it.
	spiked := make([]float64, len(resp))
	copy(spiked, resp)
	spiked[5] = 100.0

	exclude := make([]bool, len(resp))
	exclude[5] = true

	want, err := Calculate(freqs, resp)
	if err != nil {
		t.Fatalf("Calculate: unexpected error %v", err)
	}

	got, err := CalculateExcluding(freqs, spiked, exclude)
	if err != nil {
		t.Fatalf("CalculateExcluding: unexpected error %v", err)
	}

	if !almostEqual(got.CentralFreq, want.CentralFreq, 1e-6) {
		t.Fatalf("CentralFreq: got %f, want %f", got.CentralFreq, want.CentralFreq)
	}

	if math.Abs(got.Bandwidth-want.Bandwidth) > 0.2 {
		t.Fatalf("Bandwidth: got %f, want ~%f", got.Bandwidth, want.Bandwidth)
	}
}

func TestCalculateExcludingNil(t *testing.T) {
	freqs := []float64{1, 2, 3}
	resp := []float64{1, 2, 1}

	want, err := Calculate(freqs, resp)
	if err != nil {
		t.Fatalf("Calculate: unexpected error %v", err)
	}

	got, err := CalculateExcluding(freqs, resp, nil)
	if err != nil {
		t.Fatalf("CalculateExcluding: unexpected error %v", err)
	}

	if got != want {
		t.Fatalf("nil exclusion differs from Calculate: %+v vs %+v", got, want)
	}
}

func TestCalculateExcludingErrors(t *testing.T) {
	freqs := []float64{1, 2, 3}
	resp := []float64{1, 1, 1}

	_, err := CalculateExcluding(freqs, resp, []bool{true, false})
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("short exclude: got error %v, want %v", err, ErrShapeMismatch)
	}

	_, err = CalculateExcluding(freqs, resp, []bool{true, true, false})
	if !errors.Is(err, ErrInsufficientSamples) {
		t.Fatalf("over-exclusion: got error %v, want %v", err, ErrInsufficientSamples)
	}
}
