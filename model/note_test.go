package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMidiPitchRoundTrips(t *testing.T) {
	for _, midi := range []int{40, 45, 50, 55, 59, 64, 69, 81} {
		name := fmt.Sprintf("test midi round trip for %v", midi)
		t.Run(name, func(t *testing.T) {
			n := NewNote(midi, 0, 1)
			if n.MidiPitch() != midi {
				t.Error()
			}
		})
	}
}

func TestNoteNamesMatchGuitarStrings(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(NewNote(40, 0, 1).Name(), "E2")
	assert.Equal(NewNote(45, 0, 1).Name(), "A2")
	assert.Equal(NewNote(50, 0, 1).Name(), "D3")
	assert.Equal(NewNote(55, 0, 1).Name(), "G3")
	assert.Equal(NewNote(59, 0, 1).Name(), "B3")
	assert.Equal(NewNote(64, 0, 1).Name(), "E4")
	assert.Equal(NewNote(69, 0, 1).Name(), "A4")
	assert.Equal(NewNote(61, 0, 1).Name(), "C#4")
}

func TestEndStepCoversSustain(t *testing.T) {
	n := NewNote(69, 4, 3)

	assert := assert.New(t)
	assert.Equal(n.Step, 4)
	assert.Equal(n.Steps, 3)
	assert.Equal(n.EndStep(), 7)
}

func TestStandardTuningIsLowToHigh(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(StandardTuning[0], 40)
	assert.Equal(StandardTuning[5], 64)
	for i := 1; i < NumStrings; i++ {
		assert.Greater(StandardTuning[i], StandardTuning[i-1])
	}
}
