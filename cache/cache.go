// Package cache persists a finished signal analysis next to its recording,
// so rebuilding a tab under different options never repeats the expensive
// stages. The format is a fixed little-endian header followed by one gob
// payload; anything that fails to validate is treated as a miss, never an
// error.
package cache

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"tabscribe/file"
	"tabscribe/model"
	"tabscribe/pipeline"
	"tabscribe/rhythm"
)

const (
	// "TABS" read as a little-endian uint32
	magic   = 0x53424154
	version = 1
)

// header is the fixed-size section, readable without touching the gob
// payload. SampleRate and NumSamples double as a cheap identity check
// against the recording the cache claims to describe.
type header struct {
	Magic      uint32
	Version    uint32
	SampleRate uint32
	NumSamples uint64
}

type payload struct {
	Onsets       []int
	Observations []model.PitchObservation
	Rhythm       rhythm.Features
}

// PathFor is where a recording's analysis cache lives.
func PathFor(wavPath string) string {
	return file.WithExt(wavPath, ".analysis.dat")
}

// Store writes the analysis for wavPath. The file lands under a scratch
// name first and is renamed into place, so a crashed run never leaves a
// half-written cache behind.
func Store(wavPath string, a *pipeline.Analysis) error {
	buf := new(bytes.Buffer)
	h := header{
		Magic:      magic,
		Version:    version,
		SampleRate: uint32(a.SampleRate),
		NumSamples: uint64(a.NumSamples),
	}
	if err := binary.Write(buf, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("encoding analysis header: %w", err)
	}
	p := payload{Onsets: a.Onsets, Observations: a.Observations, Rhythm: a.Rhythm}
	if err := gob.NewEncoder(buf).Encode(p); err != nil {
		return fmt.Errorf("encoding analysis: %w", err)
	}

	dest := PathFor(wavPath)
	tmp := file.TempName(filepath.Dir(dest), ".dat")
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing analysis cache: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("publishing analysis cache: %w", err)
	}
	return nil
}

// Load reads the analysis cached for wavPath. It reports a miss for a
// missing or unreadable cache, a header that does not validate, or a cache
// older than the recording itself.
func Load(wavPath string) (*pipeline.Analysis, bool) {
	wavInfo, err := os.Stat(wavPath)
	if err != nil {
		return nil, false
	}
	dest := PathFor(wavPath)
	cacheInfo, err := os.Stat(dest)
	if err != nil || cacheInfo.ModTime().Before(wavInfo.ModTime()) {
		return nil, false
	}

	raw, err := os.ReadFile(dest)
	if err != nil {
		return nil, false
	}
	r := bytes.NewReader(raw)

	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, false
	}
	if h.Magic != magic || h.Version != version {
		return nil, false
	}

	var p payload
	if err := gob.NewDecoder(r).Decode(&p); err != nil {
		return nil, false
	}
	return &pipeline.Analysis{
		SampleRate:   int(h.SampleRate),
		NumSamples:   int(h.NumSamples),
		Onsets:       p.Onsets,
		Observations: p.Observations,
		Rhythm:       p.Rhythm,
	}, true
}
