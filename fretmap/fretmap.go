// Package fretmap places quantized notes onto the fretboard, minimizing hand
// movement while keeping every string monophonic.
package fretmap

import (
	"tabscribe/model"
	"tabscribe/util"
)

type Config struct {
	MaxFret int
	// StretchPenalty is added when a string change spans more than
	// StretchSpan frets within StretchWindow steps of the previous note.
	StretchPenalty int
	StretchSpan    int
	StretchWindow  int
	// ViolationWeight scales how many steps of leftover sustain a stolen
	// string had. Keeps free strings strictly preferred over busy ones.
	ViolationWeight int
}

func DefaultConfig() Config {
	return Config{
		MaxFret:         model.MaxFret,
		StretchPenalty:  2,
		StretchSpan:     4,
		StretchWindow:   4,
		ViolationWeight: 10,
	}
}

type candidate struct {
	str  int
	fret int
}

// state is the per-run fold state: where the hand was, and until which step
// each string keeps sounding. A fresh one is built per Assign call, so
// concurrent transcriptions never share it.
type state struct {
	prevFret  int
	prevStr   int
	prevStep  int
	busyUntil [model.NumStrings]int
}

// Assign maps each note, in time order, to a string and fret. Notes outside
// the instrument's range come back flagged Unplayable with String and Fret
// set to -1; notes that had to cut off a still ringing string come back
// flagged Conflict. No note is ever dropped.
func Assign(notes []model.Note, tuning model.Tuning, capoFret int) ([]model.FretAssignment, error) {
	return AssignWithConfig(notes, tuning, capoFret, DefaultConfig())
}

func AssignWithConfig(notes []model.Note, tuning model.Tuning, capoFret int, cfg Config) ([]model.FretAssignment, error) {
	if capoFret < 0 || capoFret > cfg.MaxFret {
		return nil, model.ErrBadCapo
	}

	st := state{prevStr: -1}
	assignments := make([]model.FretAssignment, 0, len(notes))
	for _, note := range notes {
		cands := enumerate(note.MidiPitch(), tuning, capoFret, cfg.MaxFret)
		if len(cands) == 0 {
			assignments = append(assignments, model.FretAssignment{
				Note:       note,
				String:     -1,
				Fret:       -1,
				Unplayable: true,
			})
			continue
		}

		best, conflict := pick(cands, note, &st, cfg)
		assignments = append(assignments, model.FretAssignment{
			Note:     note,
			String:   best.str,
			Fret:     best.fret,
			Conflict: conflict,
		})

		st.busyUntil[best.str] = note.EndStep()
		st.prevFret = best.fret
		st.prevStr = best.str
		st.prevStep = note.Step
	}
	return assignments, nil
}

// enumerate lists every (string, fret) sounding the pitch, relative to the
// capo. Strings come out in ascending order, which pick relies on for its
// tie-break.
func enumerate(midi int, tuning model.Tuning, capoFret, maxFret int) []candidate {
	var cands []candidate
	for s := 0; s < model.NumStrings; s++ {
		fret := midi - (tuning[s] + capoFret)
		if fret >= 0 && fret <= maxFret {
			cands = append(cands, candidate{str: s, fret: fret})
		}
	}
	return cands
}

// pick chooses the cheapest free candidate; when every candidate's string is
// still sounding it falls back to the least-violating steal and reports a
// conflict. Candidates are scanned in ascending string order and replaced on
// cost <= best, so equal costs land on the higher string.
func pick(cands []candidate, note model.Note, st *state, cfg Config) (candidate, bool) {
	bestIdx := -1
	bestCost := 0
	for i, c := range cands {
		if st.busyUntil[c.str] > note.Step {
			continue
		}
		cost := movementCost(c, note, st, cfg)
		if bestIdx == -1 || cost <= bestCost {
			bestIdx, bestCost = i, cost
		}
	}
	if bestIdx >= 0 {
		return cands[bestIdx], false
	}

	// every playable string is busy: steal the one whose remaining sustain
	// is cheapest to cut short
	for i, c := range cands {
		cost := movementCost(c, note, st, cfg) +
			cfg.ViolationWeight*(st.busyUntil[c.str]-note.Step)
		if bestIdx == -1 || cost <= bestCost {
			bestIdx, bestCost = i, cost
		}
	}
	return cands[bestIdx], true
}

func movementCost(c candidate, note model.Note, st *state, cfg Config) int {
	cost := util.Abs(c.fret - st.prevFret)
	if c.str != st.prevStr && st.prevStr >= 0 &&
		c.fret > 0 && st.prevFret > 0 &&
		cost > cfg.StretchSpan &&
		note.Step-st.prevStep <= cfg.StretchWindow {
		cost += cfg.StretchPenalty
	}
	return cost
}
