package fretmap

import "tabscribe/model"

// SuggestCapo proposes the capo fret that would turn the most common fretted
// position into an open position. Positions are sampled with a
// highest-string-first fit, independent of the movement-cost search. A capo
// only makes sense low on the neck, so anything outside frets 1-5 suggests 0.
func SuggestCapo(notes []model.Note, tuning model.Tuning) int {
	counts := make(map[int]int)
	for _, n := range notes {
		for s := model.NumStrings - 1; s >= 0; s-- {
			fret := n.MidiPitch() - tuning[s]
			if fret < 0 || fret > model.MaxFret {
				continue
			}
			if fret > 0 {
				counts[fret]++
			}
			break
		}
	}

	best, bestCount := 0, 0
	for fret, count := range counts {
		if count > bestCount || (count == bestCount && fret < best) {
			best, bestCount = fret, count
		}
	}
	if best < 1 || best > 5 {
		return 0
	}
	return best
}
