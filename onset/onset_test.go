package onset

import (
	"math"
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

func TestSilenceHasNoOnsets(t *testing.T) {
	onsets, err := Detect(make([]float64, testRate), testRate)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Empty(onsets)
}

func TestToneFromSampleZeroRegistersOneOnset(t *testing.T) {
	onsets, err := Detect(tone(440, 0.5, testRate), testRate)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(len(onsets), 1)
	assert.Equal(onsets[0], 0)
}

func TestAttackAfterSilenceLandsNearTheAttack(t *testing.T) {
	samples := make([]float64, testRate)
	copy(samples[testRate/2:], tone(440, 0.5, testRate/2))

	onsets, err := Detect(samples, testRate)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(len(onsets), 1)
	// onset resolution is one analysis frame
	assert.InDelta(onsets[0], testRate/2, 1024)
}

func TestTwoNotesGiveTwoOnsets(t *testing.T) {
	samples := tone(220, 0.4, testRate)
	second := tone(330, 0.4, testRate/2)
	for i, s := range second {
		samples[testRate/2+i] = s
	}

	onsets, err := Detect(samples, testRate)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(len(onsets), 2)
	assert.Equal(onsets[0], 0)
	assert.InDelta(onsets[1], testRate/2, 1024)
}

func TestRetriggerInsideDebounceWindowKeepsEarliest(t *testing.T) {
	// second attack 30ms in, well inside the 60ms debounce
	at := int(0.030 * testRate)
	samples := tone(220, 0.3, testRate/2)
	for i := at; i < len(samples); i++ {
		samples[i] += 0.4 * math.Sin(2*math.Pi*330*float64(i-at)/testRate)
	}

	onsets, err := Detect(samples, testRate)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(len(onsets), 1)
	assert.Equal(onsets[0], 0)
}

func TestOnsetsAreSortedAndDeterministic(t *testing.T) {
	samples := make([]float64, 2*testRate)
	for i, start := range []int{0, testRate / 2, testRate, 3 * testRate / 2} {
		burst := tone(110*math.Pow(2, float64(i)), 0.4, testRate/4)
		copy(samples[start:], burst)
	}

	first, err := Detect(samples, testRate)
	assert := assert.New(t)
	assert.NoError(err)

	for i := 1; i < len(first); i++ {
		assert.Greater(first[i], first[i-1])
	}

	// frame spectra are computed concurrently; reruns must agree exactly
	for run := 0; run < 3; run++ {
		again, err := Detect(samples, testRate)
		assert.NoError(err)
		assert.Equal(again, first)
	}
}

func TestRejectsDegenerateInput(t *testing.T) {
	assert := assert.New(t)

	_, err := Detect(nil, testRate)
	assert.ErrorIs(err, model.ErrEmptyInput)

	_, err = Detect(tone(440, 0.5, 2048), 0)
	assert.ErrorIs(err, model.ErrBadSampleRate)

	// shorter than a single analysis frame
	onsets, err := Detect(tone(440, 0.5, 100), testRate)
	assert.NoError(err)
	assert.Empty(onsets)
}
