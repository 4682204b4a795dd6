package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampStaysInsideBounds(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(Clamp(5, 0, 10), 5)
	assert.Equal(Clamp(-3, 0, 10), 0)
	assert.Equal(Clamp(42, 0, 10), 10)
	assert.Equal(Clamp(0.75, -0.5, 0.5), 0.5)
}

func TestMeanStdOfConstantSignalIsZeroSpread(t *testing.T) {
	mean, std := MeanStd([]float64{3, 3, 3, 3})

	assert := assert.New(t)
	assert.Equal(mean, 3.0)
	assert.Equal(std, 0.0)
}

func TestMeanStdOfEmptySlice(t *testing.T) {
	mean, std := MeanStd(nil)

	assert := assert.New(t)
	assert.Equal(mean, 0.0)
	assert.Equal(std, 0.0)
}

func TestMedianPicksMiddleValue(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(Median([]float64{9, 1, 5}), 5.0)
	assert.Equal(Median([]float64{4, 1, 3, 2}), 2.5)
	assert.Equal(Median(nil), 0.0)
}

func TestMedianDoesNotReorderInput(t *testing.T) {
	nums := []float64{9, 1, 5}
	Median(nums)

	assert := assert.New(t)
	assert.Equal(nums, []float64{9, 1, 5})
}

func TestNextPow2(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(NextPow2(1), 1)
	assert.Equal(NextPow2(1000), 1024)
	assert.Equal(NextPow2(1024), 1024)
	assert.Equal(NextPow2(1025), 2048)
}

func TestMinMax(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(Min(2, 7), 2)
	assert.Equal(Max(2, 7), 7)
	assert.Equal(Min(3.5, 1.25), 1.25)
}
