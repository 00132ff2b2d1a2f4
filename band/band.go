package band

import (
	"errors"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/integrate"
)

var (
	ErrShapeMismatch        = errors.New("band: frequency and response lengths differ")
	ErrInsufficientSamples  = errors.New("band: need at least two samples")
	ErrDegenerateInput      = errors.New("band: response has zero total weight")
	ErrUnorderedFrequencies = errors.New("band: frequencies must be strictly increasing")
)

// Stats holds summary statistics of a sampled band response.
type Stats struct {
	SampleCount int
	Sum         float64 // total weight (plain sum of response values)
	Peak        float64
	PeakIndex   int
	Min         float64
	MinIndex    int
	Area        float64 // trapezoidal integral of response over frequency
	// Band shape descriptors
	CentralFreq    float64 // response-weighted mean frequency
	Bandwidth      float64 // equivalent rectangular bandwidth: Area / Peak
	NoiseBandwidth float64 // equivalent noise bandwidth: Area² / ∫r²
	Spread         float64 // weighted std deviation around CentralFreq
}

func validate(freqs, response []float64) error {
	if len(freqs) != len(response) {
		return ErrShapeMismatch
	}

	if len(freqs) < 2 {
		return ErrInsufficientSamples
	}

	for i := 1; i < len(freqs); i++ {
		if freqs[i] <= freqs[i-1] {
			return ErrUnorderedFrequencies
		}
	}

	return nil
}

// Calculate computes all band statistics from a response curve sampled
// at the given frequency points.
//
// The frequency axis must be strictly increasing (uniform spacing is
// not required) and response values must be non-negative weights. Both
// slices are read-only during the call.
func Calculate(freqs, response []float64) (Stats, error) {
	if err := validate(freqs, response); err != nil {
		return Stats{}, err
	}

	var s Stats
	s.SampleCount = len(response)

	s.Sum = vecmath.Sum(response)
	if s.Sum == 0 {
		return Stats{}, ErrDegenerateInput
	}

	s.Peak = response[0]
	s.Min = response[0]
	for i, v := range response {
		if v > s.Peak {
			s.Peak = v
			s.PeakIndex = i
		}
		if v < s.Min {
			s.Min = v
			s.MinIndex = i
		}
	}

	s.CentralFreq = vecmath.DotProduct(freqs, response) / s.Sum
	s.Area = integrate.Trapezoidal(freqs, response)
	s.Bandwidth = s.Area / s.Peak

	sq := make([]float64, len(response))
	for i, v := range response {
		sq[i] = v * v
	}
	s.NoiseBandwidth = s.Area * s.Area / integrate.Trapezoidal(freqs, sq)

	weightedSqSum := 0.0
	for i, v := range response {
		diff := freqs[i] - s.CentralFreq
		weightedSqSum += diff * diff * v
	}
	s.Spread = math.Sqrt(weightedSqSum / s.Sum)

	return s, nil
}

// CentralFrequency returns the response-weighted mean frequency.
//
//	central = sum(f_i * r_i) / sum(r_i)
func CentralFrequency(freqs, response []float64) (float64, error) {
	s, err := Calculate(freqs, response)
	if err != nil {
		return 0, err
	}

	return s.CentralFreq, nil
}

// Bandwidth returns the equivalent rectangular bandwidth: the width of
// an idealized flat-top band with the same peak amplitude and the same
// integrated area as the response curve.
func Bandwidth(freqs, response []float64) (float64, error) {
	s, err := Calculate(freqs, response)
	if err != nil {
		return 0, err
	}

	return s.Bandwidth, nil
}

// CalculateExcluding filters out the frequency points marked true in
// exclude and computes the statistics of the remaining samples. A nil
// exclude is equivalent to [Calculate].
func CalculateExcluding(freqs, response []float64, exclude []bool) (Stats, error) {
	if exclude == nil {
		return Calculate(freqs, response)
	}

	if len(freqs) != len(response) || len(exclude) != len(freqs) {
		return Stats{}, ErrShapeMismatch
	}

	keptFreqs := make([]float64, 0, len(freqs))
	keptResp := make([]float64, 0, len(response))

	for i := range freqs {
		if exclude[i] {
			continue
		}

		keptFreqs = append(keptFreqs, freqs[i])
		keptResp = append(keptResp, response[i])
	}

	return Calculate(keptFreqs, keptResp)
}
