package model

// ChordMark labels the harmony ringing at one grid step: the step where the
// latest note of the cluster starts and the name that cluster spells.
type ChordMark struct {
	Step int
	Name string
}
