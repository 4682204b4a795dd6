// Package pipeline runs the transcription stages end to end: onset
// detection, pitch estimation, rhythm analysis, quantization, fret
// assignment and document assembly. The pipeline does no I/O; callers hand
// it a complete mono signal and keep any cancellation or time budget on
// their side of the call.
package pipeline

import (
	"tabscribe/chord"
	"tabscribe/fretmap"
	"tabscribe/model"
	"tabscribe/onset"
	"tabscribe/pitch"
	"tabscribe/quantize"
	"tabscribe/rhythm"
)

// Options select how a transcription is interpreted. The zero value
// transcribes for a standard-tuned strummed guitar with no capo and the
// tempo taken from the rhythm analysis.
type Options struct {
	// Tuning holds the six open-string pitches low to high; the zero value
	// selects standard tuning.
	Tuning model.Tuning
	// CapoFret raises every open string by that many semitones.
	CapoFret int
	// UseCapo asks for a suggested capo fret when CapoFret is zero.
	UseCapo bool
	Style   model.Style
	// TempoBPM overrides the detected tempo when positive.
	TempoBPM float64
}

func (o Options) normalized() (Options, error) {
	if o.Tuning == (model.Tuning{}) {
		o.Tuning = model.StandardTuning
	}
	for _, open := range o.Tuning {
		if open <= 0 {
			return o, model.ErrBadTuning
		}
	}
	if o.CapoFret < 0 || o.CapoFret > model.MaxFret {
		return o, model.ErrBadCapo
	}
	if o.TempoBPM < 0 {
		return o, model.ErrBadTempo
	}
	return o, nil
}

// Analysis is everything the signal stages extract from a recording. It is
// independent of tuning, capo and style, so one analysis can be rebuilt
// into documents under different options, or cached between runs.
type Analysis struct {
	SampleRate   int
	NumSamples   int
	Onsets       []int
	Observations []model.PitchObservation
	Rhythm       rhythm.Features
}

// Transcribe runs the whole pipeline over a mono signal. An empty signal
// yields an empty all-rest document, never an error. Malformed options or
// sample rate fail before any stage runs.
func Transcribe(samples []float64, sampleRate int, opts Options) (*model.TabDocument, error) {
	if _, err := opts.normalized(); err != nil {
		return nil, err
	}
	a, err := Analyze(samples, sampleRate)
	if err != nil {
		return nil, err
	}
	return FromAnalysis(a, opts)
}

// Analyze runs the signal stages over the samples: onsets, one pitch
// observation per inter-onset segment, and the rhythm features.
func Analyze(samples []float64, sampleRate int) (*Analysis, error) {
	if sampleRate <= 0 {
		return nil, model.ErrBadSampleRate
	}
	a := &Analysis{
		SampleRate: sampleRate,
		NumSamples: len(samples),
		Rhythm:     rhythm.Features{TempoBPM: rhythm.DefaultTempo, Consistency: 1},
	}
	if len(samples) == 0 {
		return a, nil
	}

	onsets, err := onset.Detect(samples, sampleRate)
	if err != nil {
		return nil, err
	}
	a.Onsets = onsets

	a.Observations, err = pitch.Estimate(samples, sampleRate, onsets)
	if err != nil {
		return nil, err
	}

	a.Rhythm = rhythm.Analyze(samples, sampleRate, onsets)
	return a, nil
}

// FromAnalysis quantizes an analysis onto the rhythm grid and builds the
// tab document for the given options.
func FromAnalysis(a *Analysis, opts Options) (*model.TabDocument, error) {
	opts, err := opts.normalized()
	if err != nil {
		return nil, err
	}
	if a.SampleRate <= 0 {
		return nil, model.ErrBadSampleRate
	}

	feats := a.Rhythm
	if feats.TempoBPM <= 0 {
		feats.TempoBPM = rhythm.DefaultTempo
	}
	if opts.TempoBPM > 0 {
		feats.TempoBPM = opts.TempoBPM
	}

	notes, err := quantize.Notes(a.Observations, a.SampleRate, feats.TempoBPM)
	if err != nil {
		return nil, err
	}

	doc, err := FromNotes(notes, feats, opts)
	if err != nil {
		return nil, err
	}
	for _, o := range a.Observations {
		if !o.Voiced {
			doc.UnvoicedEvents++
		}
	}
	return doc, nil
}

// FromNotes maps already-quantized notes onto the fretboard and assembles
// the document. MIDI input enters the pipeline here, skipping the signal
// stages entirely.
func FromNotes(notes []model.Note, feats rhythm.Features, opts Options) (*model.TabDocument, error) {
	opts, err := opts.normalized()
	if err != nil {
		return nil, err
	}
	if feats.TempoBPM <= 0 {
		feats.TempoBPM = rhythm.DefaultTempo
	}
	if opts.TempoBPM > 0 {
		feats.TempoBPM = opts.TempoBPM
	}

	capo := opts.CapoFret
	if opts.UseCapo && capo == 0 {
		capo = fretmap.SuggestCapo(notes, opts.Tuning)
	}

	assignments, err := fretmap.Assign(notes, opts.Tuning, capo)
	if err != nil {
		return nil, err
	}

	doc := &model.TabDocument{
		Tuning:   opts.Tuning,
		CapoFret: capo,
		Style:    opts.Style,
		TempoBPM: feats.TempoBPM,
	}
	strummed := opts.Style == model.StyleStrummed
	for _, a := range assignments {
		if a.Unplayable {
			doc.NumUnplayable++
			continue
		}
		if a.Conflict {
			doc.NumConflicts++
		}
		doc.Lanes[a.String] = append(doc.Lanes[a.String], model.LaneEvent{
			Step:     a.Note.Step,
			Fret:     a.Fret,
			Strummed: strummed,
		})
		doc.Notes = append(doc.Notes, a.Note)
		if end := a.Note.EndStep(); end > doc.Steps {
			doc.Steps = end
		}
	}
	doc.Chords = chord.Annotate(assignments)
	doc.Pattern = rhythm.DetectPattern(feats, opts.Style)
	return doc, nil
}
