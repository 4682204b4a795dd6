package quantize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tabscribe/model"
)

const testRate = 44100

func TestMidiFromFrequency(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(MidiFromFrequency(440), 69)
	assert.Equal(MidiFromFrequency(82.41), 40)
	assert.Equal(MidiFromFrequency(329.63), 64)
	// 30 cents sharp still rounds to the same semitone
	assert.Equal(MidiFromFrequency(447.7), 69)
	assert.Equal(MidiFromFrequency(880), 81)
}

func TestNotesSnapToSixteenthGrid(t *testing.T) {
	// at 120 BPM a sixteenth is 5512.5 samples
	obs := []model.PitchObservation{
		{Start: 0, End: 22050, Frequency: 440, Voiced: true},
		{Start: 22050, End: 44100, Frequency: 330, Voiced: true},
	}

	notes, err := Notes(obs, testRate, 120)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(len(notes), 2)

	assert.Equal(notes[0].MidiPitch(), 69)
	assert.Equal(notes[0].Step, 0)
	assert.Equal(notes[0].Steps, 4)

	assert.Equal(notes[1].MidiPitch(), 64)
	assert.Equal(notes[1].Step, 4)
	assert.Equal(notes[1].Steps, 4)
}

func TestShortNoteStillSustainsOneStep(t *testing.T) {
	obs := []model.PitchObservation{
		{Start: 0, End: 500, Frequency: 440, Voiced: true},
	}

	notes, err := Notes(obs, testRate, 120)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(notes[0].Steps, 1)
}

func TestCollidingStartStepsKeepTheEarlierNote(t *testing.T) {
	// both observations round to step 0
	obs := []model.PitchObservation{
		{Start: 0, End: 11025, Frequency: 440, Voiced: true},
		{Start: 1000, End: 22050, Frequency: 330, Voiced: true},
	}

	notes, err := Notes(obs, testRate, 120)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(len(notes), 1)
	assert.Equal(notes[0].MidiPitch(), 69)
}

func TestUnvoicedObservationsProduceNoNotes(t *testing.T) {
	obs := []model.PitchObservation{
		{Start: 0, End: 11025, Voiced: false},
		{Start: 11025, End: 22050, Frequency: 440, Voiced: true},
	}

	notes, err := Notes(obs, testRate, 120)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(len(notes), 1)
	assert.Equal(notes[0].MidiPitch(), 69)
}

func TestGridLength(t *testing.T) {
	assert := assert.New(t)
	// one second at 120 BPM is eight sixteenths
	assert.Equal(GridLength(testRate, testRate, 120), 8)
	assert.Equal(GridLength(0, testRate, 120), 0)
	// partial steps round up
	assert.Equal(GridLength(testRate+1, testRate, 120), 9)
}

func TestNotesRejectsBadGrid(t *testing.T) {
	assert := assert.New(t)

	_, err := Notes(nil, 0, 120)
	assert.ErrorIs(err, model.ErrBadSampleRate)

	_, err = Notes(nil, testRate, 0)
	assert.ErrorIs(err, model.ErrBadTempo)
}
