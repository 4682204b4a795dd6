// Package sample renders an audible preview of a transcription, so a tab
// can be judged by ear before anyone picks up the instrument.
package sample

import (
	"math"

	"tabscribe/audio"
	"tabscribe/model"
	"tabscribe/quantize"
)

// partials are the harmonic weights of the plucked tone. The falloff keeps
// the spectrum mellow enough to pass for a fingered string.
var partials = []float64{1, 0.5, 0.25}

const (
	attackSec = 0.005
	// amplitude e-folding per second of sustain
	decayRate = 3.0
	peak      = 0.8
)

// Render synthesizes the notes onto a mono buffer at the given tempo.
// Overlapping sustains mix additively; the result is peak normalized. An
// empty note list renders an empty buffer.
func Render(notes []model.Note, tempoBPM float64, sampleRate int) (*audio.Buffer, error) {
	if sampleRate <= 0 {
		return nil, model.ErrBadSampleRate
	}
	if tempoBPM <= 0 {
		return nil, model.ErrBadTempo
	}

	stepSec := 60 / (tempoBPM * quantize.StepsPerBeat)
	total := 0
	for _, n := range notes {
		if end := int(float64(n.EndStep()) * stepSec * float64(sampleRate)); end > total {
			total = end
		}
	}
	samples := make([]float64, total)

	for _, n := range notes {
		freq := n.Frequency()
		start := int(float64(n.Step) * stepSec * float64(sampleRate))
		length := int(float64(n.Steps) * stepSec * float64(sampleRate))
		for i := 0; i < length && start+i < len(samples); i++ {
			t := float64(i) / float64(sampleRate)
			env := math.Exp(-decayRate * t)
			if t < attackSec {
				env *= t / attackSec
			}
			var v float64
			for h, w := range partials {
				v += w * math.Sin(2*math.Pi*freq*float64(h+1)*t)
			}
			samples[start+i] += env * v
		}
	}

	normalize(samples)
	return &audio.Buffer{Samples: samples, SampleRate: sampleRate}, nil
}

// FromDocument renders the notes a document actually voices.
func FromDocument(doc *model.TabDocument, sampleRate int) (*audio.Buffer, error) {
	return Render(doc.Notes, doc.TempoBPM, sampleRate)
}

func normalize(samples []float64) {
	var max float64
	for _, s := range samples {
		if a := math.Abs(s); a > max {
			max = a
		}
	}
	if max == 0 {
		return
	}
	gain := peak / max
	for i := range samples {
		samples[i] *= gain
	}
}
