// Package midi moves transcriptions across standard MIDI files: exporting a
// finished document's notes and importing performances sequenced elsewhere
// straight onto the note grid, skipping the audio stages.
package midi

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"tabscribe/model"
	"tabscribe/quantize"
	"tabscribe/rhythm"
)

const (
	// TicksPerQuarter is the export resolution; a sixteenth step is a
	// quarter of it.
	TicksPerQuarter = 960
	ticksPerStep    = TicksPerQuarter / quantize.StepsPerBeat

	// GM program 26, steel string acoustic, zero-based on the wire
	steelGuitar = 25

	velocity = 100
)

// change is one key transition at an absolute position, used on both the
// export (ticks) and import (microseconds) side.
type change struct {
	at  int64
	key uint8
	on  bool
}

// sortChanges orders changes by position with note-offs ahead of note-ons,
// so a re-struck pitch never cancels its own fresh attack.
func sortChanges(changes []change) {
	sort.Slice(changes, func(i, j int) bool {
		if changes[i].at != changes[j].at {
			return changes[i].at < changes[j].at
		}
		if changes[i].on != changes[j].on {
			return !changes[i].on
		}
		return changes[i].key < changes[j].key
	})
}

// WriteFile exports notes as a single-track MIDI file at the given tempo.
func WriteFile(path string, notes []model.Note, tempoBPM float64) error {
	s, err := build(notes, tempoBPM)
	if err != nil {
		return err
	}
	return s.WriteFile(path)
}

// Write exports notes as a single-track MIDI stream.
func Write(w io.Writer, notes []model.Note, tempoBPM float64) error {
	s, err := build(notes, tempoBPM)
	if err != nil {
		return err
	}
	_, err = s.WriteTo(w)
	return err
}

func build(notes []model.Note, tempoBPM float64) (*smf.SMF, error) {
	if tempoBPM <= 0 {
		return nil, model.ErrBadTempo
	}

	var changes []change
	for _, n := range notes {
		pitch := n.MidiPitch()
		if pitch < 0 || pitch > 127 {
			continue
		}
		changes = append(changes,
			change{at: int64(n.Step) * ticksPerStep, key: uint8(pitch), on: true},
			change{at: int64(n.EndStep()) * ticksPerStep, key: uint8(pitch), on: false})
	}
	sortChanges(changes)

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName("tabscribe"))
	tr.Add(0, smf.MetaTempo(tempoBPM))
	tr.Add(0, gomidi.ProgramChange(0, steelGuitar))

	var prev int64
	for _, c := range changes {
		delta := uint32(c.at - prev)
		prev = c.at
		if c.on {
			tr.Add(delta, gomidi.NoteOn(0, c.key, velocity))
		} else {
			tr.Add(delta, gomidi.NoteOff(0, c.key))
		}
	}
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)
	s.Add(tr)
	return s, nil
}

// ReadFile imports a MIDI performance as grid-aligned notes plus the file's
// opening tempo. All tracks are merged; notes left hanging at the end of the
// file are closed at the final event.
func ReadFile(path string) ([]model.Note, float64, error) {
	s, err := readSMF(path)
	if err != nil {
		return nil, 0, err
	}

	bpm := tempoOf(s)
	stepUs := 60e6 / (bpm * quantize.StepsPerBeat)
	toStep := func(us int64) int {
		return int(math.Round(float64(us) / stepUs))
	}

	var changes []change
	for _, track := range s.Tracks {
		var absTicks int64
		for _, event := range track {
			absTicks += int64(event.Delta)
			var channel, key, vel uint8
			switch {
			case event.Message.GetNoteStart(&channel, &key, &vel):
				changes = append(changes, change{at: s.TimeAt(absTicks), key: key, on: true})
			case event.Message.GetNoteEnd(&channel, &key):
				changes = append(changes, change{at: s.TimeAt(absTicks), key: key, on: false})
			}
		}
	}
	sortChanges(changes)

	var (
		notes   []model.Note
		pressed = make(map[uint8]int64)
		lastUs  int64
	)
	for _, c := range changes {
		lastUs = c.at
		if c.on {
			pressed[c.key] = c.at
			continue
		}
		startUs, ok := pressed[c.key]
		if !ok {
			continue
		}
		delete(pressed, c.key)
		notes = append(notes, spanNote(c.key, toStep(startUs), toStep(c.at)))
	}
	for key, startUs := range pressed {
		notes = append(notes, spanNote(key, toStep(startUs), toStep(lastUs)))
	}

	sort.Slice(notes, func(i, j int) bool {
		if notes[i].Step != notes[j].Step {
			return notes[i].Step < notes[j].Step
		}
		return notes[i].MidiPitch() < notes[j].MidiPitch()
	})
	return notes, bpm, nil
}

func spanNote(key uint8, start, end int) model.Note {
	steps := end - start
	if steps < 1 {
		steps = 1
	}
	return model.NewNote(int(key), start, steps)
}

// smf.ReadFrom panics on some malformed files, so the recover stays.
func readSMF(path string) (s *smf.SMF, e error) {
	defer func() {
		if r := recover(); r != nil {
			e = fmt.Errorf("parsing midi file: %v", r)
		}
	}()

	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading midi file: %w", err)
	}
	s, err = smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, fmt.Errorf("parsing midi file: %w", err)
	}
	return s, nil
}

// tempoOf derives the opening tempo from the tick clock: the wall time of
// one quarter note starting at tick zero. Files without a metric clock get
// the default.
func tempoOf(s *smf.SMF) float64 {
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return rhythm.DefaultTempo
	}
	us := s.TimeAt(int64(ticks.Ticks4th()))
	if us <= 0 {
		return rhythm.DefaultTempo
	}
	return 60e6 / float64(us)
}
