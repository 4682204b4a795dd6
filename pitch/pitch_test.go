package pitch

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"tabscribe/model"
)

const testRate = 44100

func tone(freq, amp float64, n int) []float64 {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/testRate)
	}
	return samples
}

func TestRecoversPureToneFrequencies(t *testing.T) {
	// open-string fundamentals plus a few fretted pitches
	for _, freq := range []float64{82.41, 110.0, 146.83, 196.0, 246.94, 329.63, 440.0, 880.0} {
		name := fmt.Sprintf("test pitch estimate for %vHz", freq)
		t.Run(name, func(t *testing.T) {
			obs, err := Estimate(tone(freq, 0.5, testRate/2), testRate, []int{0})

			assert := assert.New(t)
			assert.NoError(err)
			assert.Equal(len(obs), 1)
			assert.True(obs[0].Voiced)
			// within a quarter semitone
			cents := 1200 * math.Abs(math.Log2(obs[0].Frequency/freq))
			assert.Less(cents, 25.0)
		})
	}
}

func TestNoiseIsUnvoiced(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	samples := make([]float64, testRate/2)
	for i := range samples {
		samples[i] = rng.Float64()*2 - 1
	}

	obs, err := Estimate(samples, testRate, []int{0})

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(len(obs), 1)
	assert.False(obs[0].Voiced)
	assert.Equal(obs[0].Frequency, 0.0)
}

func TestSilentSegmentIsUnvoiced(t *testing.T) {
	obs, err := Estimate(make([]float64, 8192), testRate, []int{0})

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(len(obs), 1)
	assert.False(obs[0].Voiced)
}

func TestEachOnsetGetsOneObservation(t *testing.T) {
	samples := tone(220, 0.5, testRate)
	copy(samples[testRate/2:], tone(330, 0.5, testRate/2))

	obs, err := Estimate(samples, testRate, []int{0, testRate / 2})

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(len(obs), 2)

	assert.Equal(obs[0].Start, 0)
	assert.Equal(obs[0].End, testRate/2)
	assert.True(obs[0].Voiced)
	assert.InDelta(obs[0].Frequency, 220, 2)

	assert.Equal(obs[1].Start, testRate/2)
	assert.Equal(obs[1].End, testRate)
	assert.True(obs[1].Voiced)
	assert.InDelta(obs[1].Frequency, 330, 2)
}

func TestSegmentTooShortForPeriodIsUnvoiced(t *testing.T) {
	// 60 samples cannot hold two periods of anything above 70Hz
	obs, err := Estimate(tone(440, 0.5, 60), testRate, []int{0})

	assert := assert.New(t)
	assert.NoError(err)
	assert.False(obs[0].Voiced)
}

func TestRejectsDegenerateInput(t *testing.T) {
	assert := assert.New(t)

	_, err := Estimate(nil, testRate, nil)
	assert.ErrorIs(err, model.ErrEmptyInput)

	_, err = Estimate(tone(440, 0.5, 1024), -1, []int{0})
	assert.ErrorIs(err, model.ErrBadSampleRate)

	obs, err := Estimate(tone(440, 0.5, 1024), testRate, nil)
	assert.NoError(err)
	assert.Empty(obs)
}
