package audio

import (
	"fmt"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"tabscribe/model"
	"tabscribe/util"
)

// Buffer is a mono audio signal with samples in [-1, 1].
type Buffer struct {
	Samples    []float64
	SampleRate int
}

func (b *Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate)
}

// Trim returns the slice of the buffer between startSec and endSec. Bounds
// beyond the signal are clamped; endSec <= 0 means the end of the signal.
func (b *Buffer) Trim(startSec, endSec float64) *Buffer {
	start := int(startSec * float64(b.SampleRate))
	end := len(b.Samples)
	if endSec > 0 {
		end = int(endSec * float64(b.SampleRate))
	}
	start = util.Clamp(start, 0, len(b.Samples))
	end = util.Clamp(end, start, len(b.Samples))
	return &Buffer{Samples: b.Samples[start:end], SampleRate: b.SampleRate}
}

// DefaultTrimThreshold is the amplitude below which leading and trailing
// material counts as silence.
const DefaultTrimThreshold = 0.01

// TrimSilence cuts silence off both ends of the buffer so dead air before
// the first note never stretches the rhythm grid. An all-silent buffer comes
// back empty.
func TrimSilence(b *Buffer, threshold float64) *Buffer {
	start := 0
	for start < len(b.Samples) && math.Abs(b.Samples[start]) < threshold {
		start++
	}
	end := len(b.Samples)
	for end > start && math.Abs(b.Samples[end-1]) < threshold {
		end--
	}
	return &Buffer{Samples: b.Samples[start:end], SampleRate: b.SampleRate}
}

// ReadWAV decodes a PCM wav file into a mono Buffer. Multi-channel files are
// mixed down by averaging the interleaved channels.
func ReadWAV(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%v is not a valid wav file", path)
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("could not decode %v: %v", path, err)
	}
	if pcm.Format == nil || pcm.Format.SampleRate <= 0 {
		return nil, model.ErrBadSampleRate
	}

	bitDepth := pcm.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := 1.0 / float64(int(1)<<(bitDepth-1))

	channels := pcm.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	frames := len(pcm.Data) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(pcm.Data[i*channels+c])
		}
		samples[i] = sum / float64(channels) * scale
	}

	return &Buffer{Samples: samples, SampleRate: pcm.Format.SampleRate}, nil
}

// WriteWAV encodes the buffer as 16-bit mono PCM.
func WriteWAV(path string, buf *Buffer) error {
	if len(buf.Samples) == 0 {
		return model.ErrEmptyInput
	}
	if buf.SampleRate <= 0 {
		return model.ErrBadSampleRate
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	data := make([]int, len(buf.Samples))
	for i, s := range buf.Samples {
		data[i] = int(util.Clamp(s, -1, 1) * 32767)
	}

	enc := wav.NewEncoder(f, buf.SampleRate, 16, 1, 1)
	err = enc.Write(&goaudio.IntBuffer{
		Data:           data,
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: buf.SampleRate},
		SourceBitDepth: 16,
	})
	if err != nil {
		return fmt.Errorf("could not encode %v: %v", path, err)
	}
	return enc.Close()
}
