package model

import (
	"fmt"
	"math"
)

// NoteNames are the twelve pitch classes in chromatic order starting at C.
var NoteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

const (
	// A4Frequency is the reference tuning pitch in Hz.
	A4Frequency = 440.0
	// A4Midi is the MIDI note number of A4.
	A4Midi = 69

	NumStrings = 6
	MaxFret    = 24
)

// Tuning holds the six open-string pitches as MIDI note numbers,
// ordered low string to high string.
type Tuning = [NumStrings]int

// StandardTuning is E2 A2 D3 G3 B3 E4.
var StandardTuning = Tuning{40, 45, 50, 55, 59, 64}

// PitchObservation is one analyzed inter-onset segment. Start and End are
// sample offsets into the source buffer. An unvoiced segment (no reliable
// periodicity, e.g. a muted strum) has Voiced == false and Frequency == 0.
type PitchObservation struct {
	Start     int
	End       int
	Frequency float64
	Voiced    bool
}

// Note is a quantized musical event. Step and Steps are integer multiples
// of the rhythmic grid (sixteenth notes); Steps is always >= 1.
type Note struct {
	PitchClass int // 0..11, C == 0
	Octave     int
	Step       int
	Steps      int
}

// NewNote builds a Note from a MIDI pitch and grid position.
func NewNote(midi, step, steps int) Note {
	return Note{
		PitchClass: ((midi % 12) + 12) % 12,
		Octave:     midi/12 - 1,
		Step:       step,
		Steps:      steps,
	}
}

// MidiPitch returns the absolute semitone value (MIDI note number).
func (n Note) MidiPitch() int {
	return (n.Octave+1)*12 + n.PitchClass
}

// Frequency returns the note's equal-tempered frequency in Hz.
func (n Note) Frequency() float64 {
	return A4Frequency * math.Pow(2, float64(n.MidiPitch()-A4Midi)/12)
}

// Name returns the note spelled like "A4" or "C#3".
func (n Note) Name() string {
	return fmt.Sprintf("%v%v", NoteNames[n.PitchClass], n.Octave)
}

// EndStep is the first grid step after the note's sustain.
func (n Note) EndStep() int {
	return n.Step + n.Steps
}
