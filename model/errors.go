package model

import "errors"

var (
	ErrEmptyInput    = errors.New("audio buffer is empty")
	ErrBadSampleRate = errors.New("sample rate must be positive")
	ErrBadTuning     = errors.New("tuning must hold six positive open-string pitches")
	ErrBadCapo       = errors.New("capo fret out of range")
	ErrBadTempo      = errors.New("tempo must be positive")
	ErrNotFound      = errors.New("not found")
)
