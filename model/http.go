package model

type GenerateTabsRequestBody struct {
	URL         string  `json:"url"`
	UseCapo     bool    `json:"use_capo"`
	Fingerstyle bool    `json:"is_fingerstyle"`
	CapoFret    int     `json:"capo_fret,omitempty"`
	TempoBPM    float64 `json:"tempo_bpm,omitempty"`
}

type TabPayload struct {
	Title            string `json:"title"`
	Artist           string `json:"artist"`
	VideoID          string `json:"video_id"`
	TabContent       string `json:"tab_content"`
	UseCapo          bool   `json:"use_capo"`
	CapoFret         int    `json:"capo_fret"`
	Fingerstyle      bool   `json:"is_fingerstyle"`
	StrummingPattern string `json:"strumming_pattern"`
}

type SongDetails struct {
	Title   string `json:"title"`
	Artist  string `json:"artist"`
	VideoID string `json:"videoId"`
}

type GenerateTabsResponse struct {
	Tabs        TabPayload  `json:"tabs"`
	SongDetails SongDetails `json:"song_details"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
