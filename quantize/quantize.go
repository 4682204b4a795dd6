// Package quantize snaps pitch observations onto a sixteenth-note grid.
package quantize

import (
	"math"

	"tabscribe/model"
	"tabscribe/util"
)

// StepsPerBeat is the grid resolution: four sixteenths per beat.
const StepsPerBeat = 4

// stepSamples is the length of one grid step in samples.
func stepSamples(sampleRate int, tempoBPM float64) float64 {
	return float64(sampleRate) * 60 / (tempoBPM * StepsPerBeat)
}

// GridLength returns how many grid steps cover a signal of the given length.
func GridLength(numSamples, sampleRate int, tempoBPM float64) int {
	if numSamples <= 0 || sampleRate <= 0 || tempoBPM <= 0 {
		return 0
	}
	return int(math.Ceil(float64(numSamples) / stepSamples(sampleRate, tempoBPM)))
}

// MidiFromFrequency rounds a frequency to the nearest equal-tempered
// semitone.
func MidiFromFrequency(freq float64) int {
	return int(math.Round(float64(model.A4Midi) + 12*math.Log2(freq/model.A4Frequency)))
}

// Notes converts voiced observations into grid-aligned notes. Unvoiced
// observations are skipped. A note always sustains at least one step, and
// when two observations round onto the same start step only the earlier one
// survives.
func Notes(obs []model.PitchObservation, sampleRate int, tempoBPM float64) ([]model.Note, error) {
	if sampleRate <= 0 {
		return nil, model.ErrBadSampleRate
	}
	if tempoBPM <= 0 {
		return nil, model.ErrBadTempo
	}

	step := stepSamples(sampleRate, tempoBPM)
	var notes []model.Note
	taken := make(map[int]bool)
	for _, o := range obs {
		if !o.Voiced || o.Frequency <= 0 {
			continue
		}
		start := int(math.Round(float64(o.Start) / step))
		if taken[start] {
			continue
		}
		taken[start] = true

		end := int(math.Round(float64(o.End) / step))
		steps := util.Max(1, end-start)

		notes = append(notes, model.NewNote(MidiFromFrequency(o.Frequency), start, steps))
	}
	return notes, nil
}
