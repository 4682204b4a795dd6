package model

// Style selects how a transcription is interpreted and annotated.
type Style int

const (
	StyleStrummed Style = iota
	StyleFingerstyle
)

func (s Style) String() string {
	if s == StyleFingerstyle {
		return "fingerstyle"
	}
	return "strummed"
}

// StyleFor maps the wire-level fingerstyle flag to a Style.
func StyleFor(fingerstyle bool) Style {
	if fingerstyle {
		return StyleFingerstyle
	}
	return StyleStrummed
}

// FretAssignment places one Note on the neck. String is 0 (low E) through 5
// (high E). Fret is the sounded fret relative to the capo. Unplayable marks a
// note outside the instrument's range; its String and Fret are -1 and the
// note never reaches a lane. Conflict marks a note that displaced a still
// ringing one on the same string.
type FretAssignment struct {
	Note       Note
	String     int
	Fret       int
	Conflict   bool
	Unplayable bool
}

// LaneEvent is a fret number sounded at a grid step on one string.
// Strummed is set when the event is part of a strum cluster, which the
// renderer marks with 'x' on the neighboring strings of the same neck half.
type LaneEvent struct {
	Step     int
	Fret     int
	Strummed bool
}

// TabDocument is a finished transcription ready to render.
type TabDocument struct {
	Lanes    [NumStrings][]LaneEvent // index 0 = low E string
	Steps    int                     // total grid length; 0 means an all-rest tab
	Tuning   Tuning
	CapoFret int
	Style    Style
	Pattern  string // strumming pattern label, never embedded in the lane text
	TempoBPM float64

	// Notes are the quantized notes that reached the lanes, in time order.
	// Unplayable notes are excluded; conflicts are kept. MIDI export reads
	// these so it never has to undo the fret mapping.
	Notes []Note

	// Chords are the ringing-harmony labels, in step order.
	Chords []ChordMark

	NumConflicts   int
	NumUnplayable  int
	UnvoicedEvents int
}

// TabRecord is a stored transcription row. UseCapo records what the caller
// asked for; CapoFret records what the transcription actually used, which
// differs when the fret was suggested rather than given.
type TabRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	VideoID     string `json:"video_id"`
	Content     string `json:"content"`
	Pattern     string `json:"strumming_pattern"`
	CapoFret    int    `json:"capo_fret"`
	UseCapo     bool   `json:"use_capo"`
	Fingerstyle bool   `json:"is_fingerstyle"`
	CreatedAt   string `json:"created_at"`
}

// SongMetadata is the enrichment record keyed by video ID.
type SongMetadata struct {
	VideoID string `json:"videoId"`
	Title   string `json:"title"`
	Artist  string `json:"artist"`
	Year    uint   `json:"year,omitempty"`
}
