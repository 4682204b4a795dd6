package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"tabscribe/audio"
	"tabscribe/constants"
	"tabscribe/db"
	"tabscribe/model"
	"tabscribe/pipeline"
	"tabscribe/tab"
)

// FetchFunc downloads the audio for a URL and returns the wav path and the
// video ID.
type FetchFunc func(ctx context.Context, url string) (string, string, error)

// InfoFunc looks up display metadata for a video ID.
type InfoFunc func(ctx context.Context, videoID string) model.SongDetails

var (
	library    *db.Library
	fetchAudio FetchFunc = audio.Fetch
	fetchInfo  InfoFunc  = audio.FetchInfo
)

var (
	serveAddr string
	serveDB   string
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "address to listen on")
	serveCmd.Flags().StringVar(&serveDB, "db", constants.GetLibraryPath(), "path to the tab library")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the transcription HTTP API",
	Long: `Serves the transcription HTTP API. POST a YouTube URL to
/api/generate-tabs and get the rendered tab back as JSON. Finished tabs are
kept in the library so a video is only transcribed once per option set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := db.Open(serveDB)
		if err != nil {
			return err
		}
		defer lib.Close()
		LoadServeDeps(lib, audio.Fetch, audio.FetchInfo)

		logger.Info("listening", "addr", serveAddr, "db", serveDB)
		return http.ListenAndServe(serveAddr, NewRouter())
	},
}

// LoadServeDeps injects the library and the fetchers the handlers use. Tests
// swap in stubs so no network or yt-dlp binary is needed.
func LoadServeDeps(lib *db.Library, fetch FetchFunc, info InfoFunc) {
	library = lib
	fetchAudio = fetch
	fetchInfo = info
}

// NewRouter builds the API router with CORS for the local frontend dev
// servers.
func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/api/health", HandleHealth).Methods("GET")
	router.HandleFunc("/api/generate-tabs", HandleGenerateTabs).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(router)
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func HandleGenerateTabs(w http.ResponseWriter, r *http.Request) {
	log := logger.With("request_id", uuid.NewString())

	var input model.GenerateTabsRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if input.URL == "" {
		writeError(w, http.StatusBadRequest, "Missing YouTube URL")
		return
	}
	videoID, err := audio.ExtractVideoID(input.URL)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid YouTube URL")
		return
	}
	log = log.With("video_id", videoID)

	if rec, err := library.GetTabByVideoID(videoID, input.Fingerstyle, input.UseCapo); err == nil {
		log.Info("serving tab from the library")
		writeJSON(w, http.StatusOK, responseFor(rec))
		return
	} else if !errors.Is(err, model.ErrNotFound) {
		log.Warn("library lookup failed", "err", err)
	}

	log.Info("transcribing", "url", input.URL)
	wavPath, _, err := fetchAudio(r.Context(), input.URL)
	if err != nil {
		log.Error("could not fetch audio", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	opts := pipeline.Options{
		CapoFret: input.CapoFret,
		UseCapo:  input.UseCapo,
		Style:    model.StyleFor(input.Fingerstyle),
		TempoBPM: input.TempoBPM,
	}
	doc, err := transcribeWAV(wavPath, opts, true)
	if err != nil {
		log.Error("transcription failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	details := fetchInfo(r.Context(), videoID)
	if meta, ok := db.GetSongMetadatas([]string{videoID})[videoID]; ok {
		details.Title = meta.Title
		details.Artist = meta.Artist
	}

	rec := model.TabRecord{
		Title:       details.Title,
		Artist:      details.Artist,
		VideoID:     videoID,
		Content:     tab.Render(doc),
		Pattern:     doc.Pattern,
		CapoFret:    doc.CapoFret,
		UseCapo:     input.UseCapo,
		Fingerstyle: input.Fingerstyle,
	}
	saved, err := library.SaveTab(rec)
	if err != nil {
		log.Warn("could not save tab", "err", err)
		saved = rec
	}
	log.Info("transcribed", "steps", doc.Steps, "notes", len(doc.Notes), "tempo", doc.TempoBPM)
	writeJSON(w, http.StatusOK, responseFor(saved))
}

func responseFor(rec model.TabRecord) model.GenerateTabsResponse {
	return model.GenerateTabsResponse{
		Tabs: model.TabPayload{
			Title:            rec.Title,
			Artist:           rec.Artist,
			VideoID:          rec.VideoID,
			TabContent:       rec.Content,
			UseCapo:          rec.UseCapo,
			CapoFret:         rec.CapoFret,
			Fingerstyle:      rec.Fingerstyle,
			StrummingPattern: rec.Pattern,
		},
		SongDetails: model.SongDetails{
			Title:   rec.Title,
			Artist:  rec.Artist,
			VideoID: rec.VideoID,
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("could not encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}
