// Package pitch estimates the fundamental frequency of inter-onset segments
// via the autocorrelation of the signal, computed in the frequency domain.
package pitch

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"tabscribe/model"
	"tabscribe/util"
)

type Config struct {
	// MinFrequency and MaxFrequency bound the lag search. The defaults
	// cover a guitar from drop tunings up past the 20th fret.
	MinFrequency float64
	MaxFrequency float64
	// MinConfidence is the normalized autocorrelation a peak must reach;
	// below it the segment is reported unvoiced.
	MinConfidence float64
	// WindowSec caps how much of a segment is analyzed.
	WindowSec float64
}

func DefaultConfig() Config {
	return Config{
		MinFrequency:  70,
		MaxFrequency:  1200,
		MinConfidence: 0.5,
		WindowSec:     0.5,
	}
}

// Estimate analyzes the segment between each onset and the next (the last
// segment runs to the end of the signal). Every onset produces exactly one
// observation; segments without a stable period come back unvoiced.
func Estimate(samples []float64, sampleRate int, onsets []int) ([]model.PitchObservation, error) {
	return EstimateWithConfig(samples, sampleRate, onsets, DefaultConfig())
}

func EstimateWithConfig(samples []float64, sampleRate int, onsets []int, cfg Config) ([]model.PitchObservation, error) {
	if len(samples) == 0 {
		return nil, model.ErrEmptyInput
	}
	if sampleRate <= 0 {
		return nil, model.ErrBadSampleRate
	}

	obs := make([]model.PitchObservation, 0, len(onsets))
	for i, start := range onsets {
		end := len(samples)
		if i+1 < len(onsets) {
			end = onsets[i+1]
		}
		window := end
		if limit := start + int(cfg.WindowSec*float64(sampleRate)); limit < window {
			window = limit
		}

		freq, voiced := estimateSegment(samples[start:window], sampleRate, cfg)
		obs = append(obs, model.PitchObservation{
			Start:     start,
			End:       end,
			Frequency: freq,
			Voiced:    voiced,
		})
	}
	return obs, nil
}

// estimateSegment finds the dominant period of one segment. The
// autocorrelation comes from the Wiener-Khinchin theorem: forward FFT,
// multiply by the conjugate, inverse FFT. Zero-padding to twice the segment
// length keeps the circular correlation from wrapping into the lag range.
func estimateSegment(seg []float64, sampleRate int, cfg Config) (float64, bool) {
	n := len(seg)
	if n < 2 {
		return 0, false
	}

	padded := make([]float64, util.NextPow2(2*n))
	copy(padded, seg)

	spectrum := fft.FFTReal(padded)
	for i, c := range spectrum {
		spectrum[i] = c * cmplx.Conj(c)
	}
	corr := fft.IFFT(spectrum)

	r0 := real(corr[0])
	if r0 <= 1e-12 {
		return 0, false
	}

	lagMin := util.Max(1, int(float64(sampleRate)/cfg.MaxFrequency+0.5))
	// past half the segment too few samples overlap for the peak to mean much
	lagMax := util.Min(int(float64(sampleRate)/cfg.MinFrequency+0.5), n/2)
	if lagMin >= lagMax {
		return 0, false
	}

	best, bestVal := lagMin, real(corr[lagMin])
	for k := lagMin + 1; k <= lagMax; k++ {
		if v := real(corr[k]); v > bestVal {
			best, bestVal = k, v
		}
	}

	// the zero-padded correlation decays linearly with lag; undo that bias
	// before judging the peak
	confidence := bestVal / r0 * float64(n) / float64(n-best)
	if confidence < cfg.MinConfidence {
		return 0, false
	}

	left := real(corr[best-1])
	right := real(corr[best+1])
	shift := 0.0
	if denom := 2*bestVal - left - right; denom != 0 {
		shift = util.Clamp(0.5*(right-left)/denom, -0.5, 0.5)
	}

	return float64(sampleRate) / (float64(best) + shift), true
}
