package tab

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"

	"tabscribe/model"
)

func singleNoteDoc() *model.TabDocument {
	doc := &model.TabDocument{Tuning: model.StandardTuning, Steps: 8}
	doc.Lanes[5] = []model.LaneEvent{{Step: 0, Fret: 5}}
	doc.Notes = []model.Note{model.NewNote(69, 0, 8)}
	return doc
}

// laneLines returns just the six string lanes of a rendered tab.
func laneLines(text string) []string {
	var lanes []string
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "|") {
			lanes = append(lanes, line)
		}
	}
	return lanes
}

func countDigits(lines []string) int {
	n := 0
	for _, line := range lines {
		for _, r := range line {
			if unicode.IsDigit(r) {
				n++
			}
		}
	}
	return n
}

func TestSingleNoteRendersOneColumn(t *testing.T) {
	text := Render(singleNoteDoc())
	lanes := laneLines(text)

	assert := assert.New(t)
	assert.Equal(len(lanes), 6)
	assert.True(strings.HasPrefix(lanes[0], "E|5-"))
	assert.Equal(countDigits(lanes), 1)
}

func TestLanesComeOutHighStringFirst(t *testing.T) {
	lanes := laneLines(Render(singleNoteDoc()))

	assert := assert.New(t)
	for i, want := range []string{"E|", "B|", "G|", "D|", "A|", "E|"} {
		assert.True(strings.HasPrefix(lanes[i], want))
	}
}

func TestMultiDigitFretsKeepLanesAligned(t *testing.T) {
	doc := &model.TabDocument{Tuning: model.StandardTuning, Steps: 4}
	doc.Lanes[5] = []model.LaneEvent{{Step: 0, Fret: 5}}
	doc.Lanes[3] = []model.LaneEvent{{Step: 1, Fret: 12}}

	lanes := laneLines(Render(doc))

	assert := assert.New(t)
	assert.Contains(lanes[2], "12-")
	for _, lane := range lanes {
		assert.Equal(len(lane), len(lanes[0]))
	}
}

func TestStrumMarksStayInsideTheNeckHalf(t *testing.T) {
	doc := &model.TabDocument{Tuning: model.StandardTuning, Steps: 2}
	doc.Lanes[4] = []model.LaneEvent{{Step: 0, Fret: 1, Strummed: true}}

	lanes := laneLines(Render(doc))

	assert := assert.New(t)
	// strings 5 and 3 share the high half with the played string 4
	assert.True(strings.HasPrefix(lanes[0], "E|x-"))
	assert.True(strings.HasPrefix(lanes[1], "B|1-"))
	assert.True(strings.HasPrefix(lanes[2], "G|x-"))
	for _, lane := range lanes[3:] {
		assert.NotContains(lane, "x")
	}
}

func TestFingerstyleNeverDrawsStrumMarks(t *testing.T) {
	doc := &model.TabDocument{Tuning: model.StandardTuning, Steps: 2, Style: model.StyleFingerstyle}
	doc.Lanes[4] = []model.LaneEvent{{Step: 0, Fret: 1}}

	text := Render(doc)

	assert := assert.New(t)
	assert.NotContains(text, "x")
	assert.Contains(text, "Fingerstyle pattern")
}

func TestAnnotationBlock(t *testing.T) {
	doc := singleNoteDoc()
	doc.CapoFret = 2
	doc.Pattern = "D DU UDU"
	doc.NumUnplayable = 2
	doc.NumConflicts = 1

	text := Render(doc)

	assert := assert.New(t)
	assert.Contains(text, "Capo on fret 2")
	assert.Contains(text, "Strumming pattern: D DU UDU")
	assert.Contains(text, "2 notes outside the instrument's range were skipped")
	assert.Contains(text, "1 notes cut a still ringing string short")
}

func TestNoCapoLineWithoutCapo(t *testing.T) {
	assert.NotContains(t, Render(singleNoteDoc()), "Capo on fret")
}

func TestEmptyDocumentRendersAllRestLanes(t *testing.T) {
	doc := &model.TabDocument{Tuning: model.StandardTuning}

	text := Render(doc)
	lanes := laneLines(text)

	assert := assert.New(t)
	assert.Equal(len(lanes), 6)
	assert.Equal(countDigits(lanes), 0)
	assert.NotContains(text, "x")
	for _, lane := range lanes {
		assert.Contains(lane, "--")
	}
}

func TestChordNamesSitAboveTheirColumns(t *testing.T) {
	doc := &model.TabDocument{Tuning: model.StandardTuning, Steps: 8}
	doc.Lanes[0] = []model.LaneEvent{{Step: 0, Fret: 0}}
	doc.Lanes[2] = []model.LaneEvent{{Step: 0, Fret: 2}}
	doc.Lanes[4] = []model.LaneEvent{{Step: 0, Fret: 1}}
	doc.Chords = []model.ChordMark{{Step: 0, Name: "Am"}}

	text := Render(doc)
	lines := strings.Split(text, "\n")

	assert := assert.New(t)
	assert.Contains(lines[0], "Am")
	// the chord line is indented past the lane labels
	assert.True(strings.HasPrefix(lines[0], "  "))
}

func TestRenderIsDeterministic(t *testing.T) {
	doc := singleNoteDoc()
	doc.Chords = []model.ChordMark{{Step: 0, Name: "A"}}

	first := Render(doc)
	for i := 0; i < 3; i++ {
		assert.Equal(t, Render(doc), first)
	}
}
