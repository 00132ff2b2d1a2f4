// Package band computes summary statistics of a sampled spectral
// response curve: the response-weighted central frequency and the
// equivalent rectangular bandwidth, following the definitions used for
// radiometer band characterization (Bischoff and Newburgh).
//
// A band is given as two aligned slices: a strictly increasing
// frequency axis and a non-negative response value for every frequency
// point. The response does not need to be normalized; all statistics
// are invariant under scaling of the response.
//
// # Definitions
//
//	central frequency = Σ fᵢ·rᵢ / Σ rᵢ
//	bandwidth (ERB)   = ∫ r(f) df / max r(f)
//	noise bandwidth   = (∫ r(f) df)² / ∫ r(f)² df
//
// The central frequency is the discrete weighted mean of the sample
// points. The integrals are evaluated with the trapezoidal rule, so
// the bandwidths remain meaningful on non-uniformly spaced frequency
// axes as well.
//
// # Usage
//
// Characterize a measured band:
//
//	s, err := band.Calculate(freqs, response)
//	if err != nil {
//	    // ...
//	}
//	fmt.Println(s.CentralFreq, s.Bandwidth)
//
// Or characterize the spectrum of a time-domain signal:
//
//	s, err := band.AnalyzeSignal(signal, band.SignalConfig{SampleRate: 48000})
package band
