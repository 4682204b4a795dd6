// Package onset finds the sample offsets where new note energy appears,
// using spectral flux with an adaptive threshold.
package onset

import (
	"math"
	"math/cmplx"
	"runtime"
	"sync"

	"github.com/mjibson/go-dsp/fft"

	"tabscribe/constants"
	"tabscribe/model"
	"tabscribe/util"
)

type Config struct {
	FrameSize int
	HopSize   int
	// ThresholdK scales the flux standard deviation added to the trailing
	// mean. Higher values keep only the sharpest attacks.
	ThresholdK float64
	// HistoryLen is the number of trailing frames the threshold adapts over.
	HistoryLen int
	// DebounceMs merges onsets closer than this, keeping the earliest.
	DebounceMs float64
	// FloorRatio rejects flux below this fraction of the strongest flux in
	// the signal, so window leakage on a sustained note never reads as a
	// fresh attack.
	FloorRatio float64
}

func DefaultConfig() Config {
	return Config{
		FrameSize:  constants.FrameSize,
		HopSize:    constants.HopSize,
		ThresholdK: 1.5,
		HistoryLen: 16,
		DebounceMs: 60,
		FloorRatio: 0.1,
	}
}

// Detect returns the onset positions as sample offsets, in increasing order.
// A signal that is already sounding at sample zero registers an onset there;
// silence yields no onsets at all.
func Detect(samples []float64, sampleRate int) ([]int, error) {
	return DetectWithConfig(samples, sampleRate, DefaultConfig())
}

func DetectWithConfig(samples []float64, sampleRate int, cfg Config) ([]int, error) {
	if len(samples) == 0 {
		return nil, model.ErrEmptyInput
	}
	if sampleRate <= 0 {
		return nil, model.ErrBadSampleRate
	}
	if len(samples) < cfg.FrameSize {
		return nil, nil
	}

	mags := magnitudeSpectra(samples, cfg)
	flux := spectralFlux(mags)

	var peak float64
	for _, f := range flux {
		peak = util.Max(peak, f)
	}
	floor := cfg.FloorRatio * peak

	debounce := int(cfg.DebounceMs / 1000 * float64(sampleRate))
	var onsets []int
	last := -debounce - 1
	for i := range flux {
		lo := util.Max(0, i-cfg.HistoryLen)
		mean, std := util.MeanStd(flux[lo:i])
		if flux[i] <= floor || flux[i] <= mean+cfg.ThresholdK*std {
			continue
		}
		at := i * cfg.HopSize
		if at-last < debounce {
			continue
		}
		onsets = append(onsets, at)
		last = at
	}
	return onsets, nil
}

// magnitudeSpectra computes the windowed magnitude spectrum of every frame.
// Frames are independent, so they run on all cores; results land in a
// pre-sized slice so the output order never depends on scheduling.
func magnitudeSpectra(samples []float64, cfg Config) [][]float64 {
	numFrames := 1 + (len(samples)-cfg.FrameSize)/cfg.HopSize
	window := hannWindow(cfg.FrameSize)

	mags := make([][]float64, numFrames)
	sem := make(chan struct{}, runtime.NumCPU())
	var wg sync.WaitGroup
	for i := 0; i < numFrames; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			frame := make([]float64, cfg.FrameSize)
			start := i * cfg.HopSize
			for j := range frame {
				frame[j] = samples[start+j] * window[j]
			}
			spectrum := fft.FFTReal(frame)

			// real input, so bins above Nyquist mirror the lower half
			m := make([]float64, cfg.FrameSize/2)
			for k := range m {
				m[k] = cmplx.Abs(spectrum[k])
			}
			mags[i] = m
		}(i)
	}
	wg.Wait()
	return mags
}

// spectralFlux sums the positive per-bin magnitude increases between
// consecutive frames. The first frame is measured against silence, so energy
// present from the very first sample still counts as an attack.
func spectralFlux(mags [][]float64) []float64 {
	flux := make([]float64, len(mags))
	for i := range mags {
		var f float64
		for k, m := range mags[i] {
			prev := 0.0
			if i > 0 {
				prev = mags[i-1][k]
			}
			if d := m - prev; d > 0 {
				f += d
			}
		}
		flux[i] = f
	}
	return flux
}

func hannWindow(size int) []float64 {
	w := make([]float64, size)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
	}
	return w
}
