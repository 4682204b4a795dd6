// Package chord names the harmony spelled by simultaneously ringing notes.
package chord

import (
	"fmt"
	"sort"

	"tabscribe/model"
	"tabscribe/util"
)

// shapes maps a canonical interval key (semitone offsets from the root,
// sorted and joined) to the chord-name suffix for that shape.
var shapes = map[string]string{
	"0-7":      "5",
	"0-4-7":    "",
	"0-3-7":    "m",
	"0-3-6":    "dim",
	"0-4-8":    "aug",
	"0-2-7":    "sus2",
	"0-5-7":    "sus4",
	"0-4-7-10": "7",
	"0-4-7-11": "maj7",
	"0-3-7-10": "m7",
	"0-3-6-10": "m7b5",
}

// CreateIntervalKey canonicalizes a set of semitone intervals so lookups are
// independent of input order.
func CreateIntervalKey(intervals []int) string {
	sort.Ints(intervals)
	var res string
	for i, interval := range intervals {
		res += fmt.Sprintf("%v", interval)
		if i < len(intervals)-1 {
			res += "-"
		}
	}
	return res
}

// Identify names the chord spelled by the given MIDI pitches. The bass note
// is tried as the root first, then the remaining pitch classes in ascending
// order, so inversions still resolve to a root name and re-runs always agree.
func Identify(midiNotes []int) (string, bool) {
	if len(midiNotes) == 0 {
		return "", false
	}

	bass := midiNotes[0]
	classes := make(map[int]bool)
	for _, m := range midiNotes {
		classes[((m%12)+12)%12] = true
		if m < bass {
			bass = m
		}
	}
	if len(classes) < 2 {
		return "", false
	}

	pcs := util.GetKeys(classes)
	sort.Ints(pcs)

	bassClass := ((bass % 12) + 12) % 12
	roots := []int{bassClass}
	for _, pc := range pcs {
		if pc != bassClass {
			roots = append(roots, pc)
		}
	}

	for _, root := range roots {
		intervals := make([]int, 0, len(pcs))
		for _, pc := range pcs {
			intervals = append(intervals, ((pc-root)%12+12)%12)
		}
		if suffix, ok := shapes[CreateIntervalKey(intervals)]; ok {
			return model.NoteNames[root] + suffix, true
		}
	}
	return "", false
}

// Annotate walks the assignments in time order and marks each step where the
// ringing notes stack into a nameable chord of at least three pitch classes.
// Consecutive repeats of the same name collapse into the first mark.
func Annotate(assignments []model.FretAssignment) []model.ChordMark {
	var marks []model.ChordMark
	last := ""
	for i, a := range assignments {
		if a.Unplayable {
			continue
		}

		var ringing []int
		classes := make(map[int]bool)
		for j := 0; j <= i; j++ {
			b := assignments[j]
			if b.Unplayable {
				continue
			}
			if b.Note.Step <= a.Note.Step && a.Note.Step < b.Note.EndStep() {
				ringing = append(ringing, b.Note.MidiPitch())
				classes[b.Note.PitchClass] = true
			}
		}
		if len(classes) < 3 {
			continue
		}

		name, ok := Identify(ringing)
		if !ok || name == last {
			continue
		}
		marks = append(marks, model.ChordMark{Step: a.Note.Step, Name: name})
		last = name
	}
	return marks
}
