package band

import (
	"fmt"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-dsp/dsp/window"
)

// SignalConfig holds parameters for [AnalyzeSignal].
type SignalConfig struct {
	SampleRate float64
	FFTSize    int         // values below the signal length select the next power of two >= signal length
	WindowType window.Type // 0 selects Hann
}

// CalculateFromComplex computes band statistics from a complex FFT
// spectrum. Only the non-negative-frequency bins [0..Nyquist] are
// considered; the frequency of bin i is i*sampleRate/len(spectrum).
func CalculateFromComplex(spectrum []complex128, sampleRate float64) (Stats, error) {
	binCount := len(spectrum)/2 + 1
	if binCount < 2 {
		return Stats{}, ErrInsufficientSamples
	}

	freqs := make([]float64, binCount)
	mag := make([]float64, binCount)
	for i := range binCount {
		freqs[i] = float64(i) * sampleRate / float64(len(spectrum))
		mag[i] = cmplx.Abs(spectrum[i])
	}

	return Calculate(freqs, mag)
}

// AnalyzeSignal computes band statistics of the magnitude spectrum of
// a real-valued time-domain signal. The signal is windowed, zero
// padded to the FFT size, and transformed before the statistics are
// evaluated.
func AnalyzeSignal(signal []float64, cfg SignalConfig) (Stats, error) {
	if len(signal) < 2 {
		return Stats{}, ErrInsufficientSamples
	}

	fftSize := cfg.FFTSize
	if fftSize < len(signal) {
		fftSize = nextPowerOf2(len(signal))
	}

	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = float64(fftSize)
	}

	winType := cfg.WindowType
	if winType == 0 {
		winType = window.TypeHann
	}

	coeffs := window.Generate(winType, len(signal))

	inData := make([]complex128, fftSize)
	for i := range signal {
		w := 1.0
		if len(coeffs) == len(signal) {
			w = coeffs[i]
		}

		inData[i] = complex(signal[i]*w, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Stats{}, fmt.Errorf("band: failed to create FFT plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, inData); err != nil {
		return Stats{}, fmt.Errorf("band: forward FFT failed: %w", err)
	}

	return CalculateFromComplex(out, sampleRate)
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}

	return size
}
