// Package tab formats finished transcriptions as guitar tablature, either
// plain text or paginated PDF. Rendering never alters the document.
package tab

import (
	"fmt"
	"strconv"
	"strings"

	"tabscribe/model"
	"tabscribe/util"
)

// layout is the lane text shared by the text and PDF renderers: one body per
// string with no labels or bars attached, plus a full-width chord-name line.
// Bodies all have equal length, so they can be sliced into aligned systems.
type layout struct {
	labels [model.NumStrings]string
	bodies [model.NumStrings]string
	chords string // empty when the document has no chord marks
}

// Render formats the document as six text lanes, high string on top,
// followed by the annotation block.
func Render(doc *model.TabDocument) string {
	lay := buildLayout(doc)

	var lines []string
	if lay.chords != "" {
		indent := strings.Repeat(" ", len(lay.labels[0])+1)
		lines = append(lines, strings.TrimRight(indent+lay.chords, " "))
	}
	for s := model.NumStrings - 1; s >= 0; s-- {
		lines = append(lines, lay.labels[s]+"|"+lay.bodies[s]+"|")
	}
	lines = append(lines, annotations(doc)...)
	return strings.Join(lines, "\n")
}

func annotations(doc *model.TabDocument) []string {
	lines := []string{""}
	if doc.CapoFret > 0 {
		lines = append(lines, fmt.Sprintf("Capo on fret %v", doc.CapoFret))
	}
	switch {
	case doc.Style == model.StyleFingerstyle:
		lines = append(lines, "Fingerstyle pattern")
	case doc.Pattern != "":
		lines = append(lines, "Strumming pattern: "+doc.Pattern)
	default:
		lines = append(lines, "Strumming pattern")
	}
	if doc.NumUnplayable > 0 {
		lines = append(lines, fmt.Sprintf("%v notes outside the instrument's range were skipped", doc.NumUnplayable))
	}
	if doc.NumConflicts > 0 {
		lines = append(lines, fmt.Sprintf("%v notes cut a still ringing string short", doc.NumConflicts))
	}
	return lines
}

func buildLayout(doc *model.TabDocument) layout {
	// trust the lane events over Steps so hand-built documents still render
	columns := doc.Steps
	for s := range doc.Lanes {
		for _, e := range doc.Lanes[s] {
			if e.Step+1 > columns {
				columns = e.Step + 1
			}
		}
	}
	if columns == 0 {
		columns = 1
	}

	// each column is wide enough for the widest fret sounded at that step
	// plus one rest dash, so every lane stays aligned
	widths := make([]int, columns)
	for i := range widths {
		widths[i] = 2
	}
	var events [model.NumStrings]map[int]model.LaneEvent
	strum := make(map[int][2]bool) // step -> strummed event in [low, high] neck half
	for s := range doc.Lanes {
		events[s] = make(map[int]model.LaneEvent, len(doc.Lanes[s]))
		for _, e := range doc.Lanes[s] {
			events[s][e.Step] = e
			if w := len(strconv.Itoa(e.Fret)) + 1; w > widths[e.Step] {
				widths[e.Step] = w
			}
			if e.Strummed {
				h := strum[e.Step]
				h[s/3] = true
				strum[e.Step] = h
			}
		}
	}

	offsets := make([]int, columns)
	total := 0
	for i, w := range widths {
		offsets[i] = total
		total += w
	}

	var lay layout

	labelWidth := 0
	var names [model.NumStrings]string
	for s, open := range doc.Tuning {
		names[s] = model.NoteNames[((open%12)+12)%12]
		labelWidth = util.Max(labelWidth, len(names[s]))
	}
	for s := range names {
		lay.labels[s] = names[s] + strings.Repeat(" ", labelWidth-len(names[s]))
	}

	for s := 0; s < model.NumStrings; s++ {
		var b strings.Builder
		b.Grow(total)
		for step := 0; step < columns; step++ {
			w := widths[step]
			if e, ok := events[s][step]; ok {
				digits := strconv.Itoa(e.Fret)
				b.WriteString(digits)
				b.WriteString(strings.Repeat("-", w-len(digits)))
			} else if strum[step][s/3] {
				// a strummed note drags the other strings of its
				// neck half along
				b.WriteString("x")
				b.WriteString(strings.Repeat("-", w-1))
			} else {
				b.WriteString(strings.Repeat("-", w))
			}
		}
		lay.bodies[s] = b.String()
	}

	if len(doc.Chords) > 0 {
		line := []byte(strings.Repeat(" ", total))
		for _, c := range doc.Chords {
			if c.Step < 0 || c.Step >= columns {
				continue
			}
			at := offsets[c.Step]
			for j := 0; j < len(c.Name) && at+j < total; j++ {
				line[at+j] = c.Name[j]
			}
		}
		lay.chords = string(line)
	}

	return lay
}
