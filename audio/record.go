package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"tabscribe/model"
)

const recordBufferSize = 4096

// Recorder captures mono audio from the default input device.
type Recorder struct {
	stream     *portaudio.Stream
	buffer     []float32
	sampleRate int
}

func NewRecorder(sampleRate int) (*Recorder, error) {
	if sampleRate <= 0 {
		return nil, model.ErrBadSampleRate
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %v", err)
	}

	r := &Recorder{
		buffer:     make([]float32, recordBufferSize),
		sampleRate: sampleRate,
	}

	stream, err := portaudio.OpenDefaultStream(
		1, // input channels
		0, // output channels
		float64(sampleRate),
		recordBufferSize,
		r.buffer,
	)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open audio stream: %v", err)
	}

	r.stream = stream
	return r, nil
}

// Record captures the given number of seconds and returns the complete
// signal as a mono Buffer. The capture is finite; transcription starts only
// after the whole take is in memory.
func (r *Recorder) Record(seconds float64) (*Buffer, error) {
	if err := r.stream.Start(); err != nil {
		return nil, err
	}
	defer r.stream.Stop()

	total := int(float64(r.sampleRate) * seconds)
	samples := make([]float64, 0, total)

	for len(samples) < total {
		if err := r.stream.Read(); err != nil {
			return nil, err
		}
		toAdd := len(r.buffer)
		if remaining := total - len(samples); toAdd > remaining {
			toAdd = remaining
		}
		for i := 0; i < toAdd; i++ {
			samples = append(samples, float64(r.buffer[i]))
		}
	}

	return &Buffer{Samples: samples, SampleRate: r.sampleRate}, nil
}

func (r *Recorder) Close() error {
	if r.stream != nil {
		r.stream.Close()
	}
	return portaudio.Terminate()
}
