// Package rhythm derives tempo and strumming features from the onset
// pattern and the signal's energy envelope.
package rhythm

import (
	"math"
	"sort"

	"github.com/goccmack/godsp"
	"github.com/goccmack/godsp/dwt"
	"github.com/goccmack/godsp/peaks"

	"tabscribe/model"
	"tabscribe/util"
)

const (
	// dwtLevel is the number of wavelet scales for the energy envelope;
	// the envelope sample rate is the signal rate divided by 1<<dwtLevel.
	dwtLevel = 4
	scale    = 1 << dwtLevel

	// minEnvelopeLen is the shortest signal worth running the wavelet
	// analysis on.
	minEnvelopeLen = 4096

	// peakSepMs is the minimum distance between envelope beats.
	peakSepMs = 250

	// tempo estimates are folded by octaves into this band
	minTempo = 70
	maxTempo = 180

	DefaultTempo = 120
)

// onsets within 15% of a beat interval count as on the beat, beyond 35% as
// off the beat; the band between contributes to neither
const (
	onBeatRatio  = 0.15
	offBeatRatio = 0.35
)

// Features summarizes the rhythmic feel of a performance.
type Features struct {
	TempoBPM float64
	// MeanIOI is the average inter-onset interval in seconds; zero when
	// fewer than two onsets exist.
	MeanIOI float64
	// Consistency is the coefficient of variation of the inter-onset
	// intervals, clamped to [0, 1]. Low values mean a steady hand. With
	// fewer than two intervals it defaults to 1.
	Consistency float64
	// Emphasis ranges -1 (everything lands off the beat) to +1
	// (everything on the beat).
	Emphasis   float64
	OnsetCount int
}

// Analyze is best-effort: it always returns usable features, falling back to
// DefaultTempo and neutral values when the signal gives nothing to measure.
func Analyze(samples []float64, sampleRate int, onsets []int) Features {
	f := Features{
		TempoBPM:    DefaultTempo,
		Consistency: 1.0,
		OnsetCount:  len(onsets),
	}
	if sampleRate <= 0 {
		return f
	}

	onsetTimes := make([]float64, len(onsets))
	for i, o := range onsets {
		onsetTimes[i] = float64(o) / float64(sampleRate)
	}

	iois := make([]float64, 0, len(onsetTimes))
	for i := 1; i < len(onsetTimes); i++ {
		iois = append(iois, onsetTimes[i]-onsetTimes[i-1])
	}
	if len(iois) > 0 {
		f.MeanIOI = util.Mean(iois)
	}
	if len(iois) >= 2 {
		if mean, std := util.MeanStd(iois); mean > 0 {
			f.Consistency = util.Clamp(std/mean, 0, 1)
		}
	}

	beats := beatTimes(samples, sampleRate)
	f.TempoBPM = tempoEstimate(beats, iois)

	if len(beats) == 0 && len(onsetTimes) > 0 {
		end := float64(len(samples)) / float64(sampleRate)
		beats = synthesizeBeats(onsetTimes[0], f.TempoBPM, end)
	}
	f.Emphasis = BeatEmphasis(onsetTimes, beats)
	return f
}

// beatTimes locates beats as peaks of the wavelet energy envelope: the
// absolute detail coefficients of each scale, downsampled to a common rate,
// summed and normalized by their average.
func beatTimes(samples []float64, sampleRate int) []float64 {
	if len(samples) < minEnvelopeLen {
		return nil
	}
	trimmed := samples[:len(samples)-len(samples)%scale]

	db4 := dwt.Daubechies4(trimmed, dwtLevel)
	coefs := db4.GetCoefficients()
	absX := godsp.AbsAll(coefs)
	dsX := godsp.DownSampleAll(absX)
	sumX := godsp.SumVectors(dsX)
	avg := godsp.Average(sumX)
	if avg <= 0 {
		// silent signal, nothing to normalize against
		return nil
	}
	sumX = godsp.DivS(sumX, avg)

	sep := peakSepMs * sampleRate / (scale * 1000)
	if sep < 1 {
		sep = 1
	}
	envelopePeaks := peaks.Get(sumX, sep)

	times := make([]float64, len(envelopePeaks))
	for i, p := range envelopePeaks {
		times[i] = float64(p*scale) / float64(sampleRate)
	}
	sort.Float64s(times)
	return times
}

// tempoEstimate folds the median beat interval into the playable band;
// without enough beats it falls back to the onset intervals, and without
// those to DefaultTempo.
func tempoEstimate(beats []float64, iois []float64) float64 {
	intervals := make([]float64, 0, len(beats))
	for i := 1; i < len(beats); i++ {
		intervals = append(intervals, beats[i]-beats[i-1])
	}

	interval := util.Median(intervals)
	if interval <= 0 {
		interval = util.Median(iois)
	}
	if interval <= 0 {
		return DefaultTempo
	}
	return foldTempo(60 / interval)
}

func foldTempo(bpm float64) float64 {
	for bpm < minTempo {
		bpm *= 2
	}
	for bpm > maxTempo {
		bpm /= 2
	}
	return bpm
}

// synthesizeBeats lays a steady click at the detected tempo, anchored on the
// first onset, for use when the envelope gave no usable peaks.
func synthesizeBeats(anchor, tempoBPM, end float64) []float64 {
	interval := 60 / tempoBPM
	var beats []float64
	for t := anchor; t <= end; t += interval {
		beats = append(beats, t)
	}
	return beats
}

// BeatEmphasis scores how much the onsets favor the beat grid. Each onset is
// matched to its nearest beat; the score is (on - off) / total.
func BeatEmphasis(onsetTimes, beatTimes []float64) float64 {
	if len(onsetTimes) == 0 || len(beatTimes) < 2 {
		return 0
	}

	interval := (beatTimes[len(beatTimes)-1] - beatTimes[0]) / float64(len(beatTimes)-1)
	if interval <= 0 {
		return 0
	}

	var on, off int
	for _, t := range onsetTimes {
		dist := math.Inf(1)
		for _, b := range beatTimes {
			dist = math.Min(dist, math.Abs(t-b))
		}
		switch {
		case dist <= onBeatRatio*interval:
			on++
		case dist > offBeatRatio*interval:
			off++
		}
	}
	return float64(on-off) / float64(len(onsetTimes))
}

// Named strumming patterns, one line of down/up strokes per sixteenth pair.
var Patterns = map[string]string{
	"basic":  "D DU UDU",
	"ballad": "D DD DU",
	"waltz":  "D DU DU",
	"reggae": "- U - U",
}

const FingerstylePattern = "N/A (Fingerstyle)"

// DetectPattern picks a strumming pattern label from the rhythm features.
// Fingerstyle performances get a fixed marker since stroke direction means
// nothing there.
func DetectPattern(f Features, style model.Style) string {
	if style == model.StyleFingerstyle {
		return FingerstylePattern
	}
	switch {
	case f.Emphasis < -0.2:
		return Patterns["reggae"]
	case f.Consistency > 0.5:
		return Patterns["ballad"]
	case f.Emphasis > 0.6 && f.TempoBPM < 110:
		return Patterns["waltz"]
	default:
		return Patterns["basic"]
	}
}
