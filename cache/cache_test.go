package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tabscribe/model"
	"tabscribe/pipeline"
	"tabscribe/rhythm"
)

func fakeRecording(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "take.wav")
	assert.NoError(t, os.WriteFile(path, []byte("not really audio"), 0644))
	return path
}

func sampleAnalysis() *pipeline.Analysis {
	return &pipeline.Analysis{
		SampleRate: 44100,
		NumSamples: 88200,
		Onsets:     []int{0, 22050, 44100},
		Observations: []model.PitchObservation{
			{Start: 0, End: 22050, Frequency: 440, Voiced: true},
			{Start: 22050, End: 44100, Frequency: 0, Voiced: false},
			{Start: 44100, End: 88200, Frequency: 196.2, Voiced: true},
		},
		Rhythm: rhythm.Features{
			TempoBPM:    96,
			MeanIOI:     0.5,
			Consistency: 0.12,
			Emphasis:    0.8,
			OnsetCount:  3,
		},
	}
}

func TestStoreThenLoadRoundTrips(t *testing.T) {
	assert := assert.New(t)

	wav := fakeRecording(t)
	want := sampleAnalysis()
	assert.NoError(Store(wav, want))

	got, ok := Load(wav)
	if assert.True(ok) {
		assert.Equal(want, got)
	}
}

func TestEmptyAnalysisRoundTrips(t *testing.T) {
	assert := assert.New(t)

	wav := fakeRecording(t)
	want := &pipeline.Analysis{
		SampleRate: 44100,
		Rhythm:     rhythm.Features{TempoBPM: rhythm.DefaultTempo, Consistency: 1},
	}
	assert.NoError(Store(wav, want))

	got, ok := Load(wav)
	if assert.True(ok) {
		assert.Equal(want, got)
	}
}

func TestLoadMissesWithoutACache(t *testing.T) {
	_, ok := Load(fakeRecording(t))
	assert.False(t, ok)
}

func TestLoadMissesWhenRecordingIsNewer(t *testing.T) {
	assert := assert.New(t)

	wav := fakeRecording(t)
	assert.NoError(Store(wav, sampleAnalysis()))

	// re-recorded after the analysis was cached
	future := time.Now().Add(time.Hour)
	assert.NoError(os.Chtimes(wav, future, future))

	_, ok := Load(wav)
	assert.False(ok)
}

func TestLoadMissesOnCorruptCache(t *testing.T) {
	assert := assert.New(t)

	wav := fakeRecording(t)
	assert.NoError(os.WriteFile(PathFor(wav), []byte("garbage"), 0644))

	_, ok := Load(wav)
	assert.False(ok)
}

func TestLoadMissesOnForeignMagic(t *testing.T) {
	assert := assert.New(t)

	wav := fakeRecording(t)
	assert.NoError(Store(wav, sampleAnalysis()))

	raw, err := os.ReadFile(PathFor(wav))
	assert.NoError(err)
	raw[0] ^= 0xff
	assert.NoError(os.WriteFile(PathFor(wav), raw, 0644))

	_, ok := Load(wav)
	assert.False(ok)
}

func TestStoreLeavesNoScratchFilesBehind(t *testing.T) {
	assert := assert.New(t)

	wav := fakeRecording(t)
	assert.NoError(Store(wav, sampleAnalysis()))

	entries, err := os.ReadDir(filepath.Dir(wav))
	assert.NoError(err)
	assert.Len(entries, 2) // the recording and its cache, nothing else
}
