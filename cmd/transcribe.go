package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tabscribe/audio"
	"tabscribe/cache"
	"tabscribe/constants"
	"tabscribe/midi"
	"tabscribe/model"
	"tabscribe/pipeline"
	"tabscribe/rhythm"
	"tabscribe/sample"
	"tabscribe/tab"
)

var (
	cyan  = color.New(color.FgCyan, color.Bold)
	green = color.New(color.FgGreen)
)

var (
	transcribeCapoFret    int
	transcribeSuggestCapo bool
	transcribeFingerstyle bool
	transcribeTempo       float64
	transcribeMidiOut     string
	transcribePDFOut      string
	transcribePreviewOut  string
	transcribeNoCache     bool
	transcribeNoColor     bool
)

func init() {
	transcribeCmd.Flags().IntVar(&transcribeCapoFret, "capo", 0, "transpose the open strings up this many frets")
	transcribeCmd.Flags().BoolVar(&transcribeSuggestCapo, "suggest-capo", false, "pick a capo fret that keeps the fretting hand low")
	transcribeCmd.Flags().BoolVar(&transcribeFingerstyle, "fingerstyle", false, "annotate for fingerstyle instead of strumming")
	transcribeCmd.Flags().Float64Var(&transcribeTempo, "tempo", 0, "force the tempo in BPM instead of detecting it")
	transcribeCmd.Flags().StringVar(&transcribeMidiOut, "midi", "", "also export the notes to this MIDI file")
	transcribeCmd.Flags().StringVar(&transcribePDFOut, "pdf", "", "also export the tab to this PDF file")
	transcribeCmd.Flags().StringVar(&transcribePreviewOut, "preview", "", "also render an audio preview to this wav file")
	transcribeCmd.Flags().BoolVar(&transcribeNoCache, "no-cache", false, "skip the analysis cache")
	transcribeCmd.Flags().BoolVar(&transcribeNoColor, "no-color", false, "plain output")
	rootCmd.AddCommand(transcribeCmd)
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <recording.wav|performance.mid|youtube-url>",
	Short: "Transcribes a recording into tablature",
	Long: `Transcribes a wav recording, a MIDI performance, or the audio track of a
YouTube video into tablature, printed to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if transcribeNoColor {
			color.NoColor = true
		}
		return transcribe(cmd.Context(), args[0])
	},
}

func transcribe(ctx context.Context, source string) error {
	opts := pipeline.Options{
		CapoFret: transcribeCapoFret,
		UseCapo:  transcribeSuggestCapo,
		Style:    model.StyleFor(transcribeFingerstyle),
		TempoBPM: transcribeTempo,
	}

	title := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	var doc *model.TabDocument
	var err error
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		doc, title, err = transcribeURL(ctx, source, opts)
	case isMidiPath(source):
		doc, err = transcribeMIDI(source, opts)
	default:
		doc, err = transcribeWAV(source, opts, !transcribeNoCache)
	}
	if err != nil {
		return err
	}

	cyan.Println(title)
	fmt.Println()
	fmt.Println(tab.Render(doc))

	return writeExports(doc, title)
}

func transcribeURL(ctx context.Context, url string, opts pipeline.Options) (*model.TabDocument, string, error) {
	wavPath, videoID, err := audio.Fetch(ctx, url)
	if err != nil {
		return nil, "", err
	}
	doc, err := transcribeWAV(wavPath, opts, !transcribeNoCache)
	if err != nil {
		return nil, "", err
	}
	details := audio.FetchInfo(ctx, videoID)
	return doc, fmt.Sprintf("%v - %v", details.Artist, details.Title), nil
}

func transcribeMIDI(path string, opts pipeline.Options) (*model.TabDocument, error) {
	notes, bpm, err := midi.ReadFile(path)
	if err != nil {
		return nil, err
	}
	// a sequenced performance carries its own grid, nothing to measure
	feats := rhythm.Features{TempoBPM: bpm, OnsetCount: len(notes)}
	return pipeline.FromNotes(notes, feats, opts)
}

// transcribeWAV runs the pipeline over a wav file, reusing a cached analysis
// when one is still fresh.
func transcribeWAV(path string, opts pipeline.Options, useCache bool) (*model.TabDocument, error) {
	if useCache {
		if a, ok := cache.Load(path); ok {
			logger.Debug("analysis cache hit", "path", path)
			return pipeline.FromAnalysis(a, opts)
		}
	}

	buf, err := audio.ReadWAV(path)
	if err != nil {
		return nil, err
	}
	trimmed := audio.TrimSilence(buf, audio.DefaultTrimThreshold)

	a, err := pipeline.Analyze(trimmed.Samples, trimmed.SampleRate)
	if err != nil {
		return nil, err
	}
	if useCache {
		if err := cache.Store(path, a); err != nil {
			logger.Warn("could not cache analysis", "path", path, "err", err)
		}
	}
	return pipeline.FromAnalysis(a, opts)
}

func isMidiPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mid", ".midi", ".smf":
		return true
	}
	return false
}

func writeExports(doc *model.TabDocument, title string) error {
	if transcribeMidiOut != "" {
		if err := midi.WriteFile(transcribeMidiOut, doc.Notes, doc.TempoBPM); err != nil {
			return err
		}
		green.Printf("Wrote MIDI to %v\n", transcribeMidiOut)
	}
	if transcribePDFOut != "" {
		if err := tab.WritePDF(transcribePDFOut, title, doc); err != nil {
			return err
		}
		green.Printf("Wrote PDF to %v\n", transcribePDFOut)
	}
	if transcribePreviewOut != "" {
		buf, err := sample.FromDocument(doc, constants.DefaultSampleRate)
		if err != nil {
			return err
		}
		if len(buf.Samples) == 0 {
			logger.Warn("skipping preview, the transcription has no notes")
			return nil
		}
		if err := audio.WriteWAV(transcribePreviewOut, buf); err != nil {
			return err
		}
		green.Printf("Wrote preview to %v\n", transcribePreviewOut)
	}
	return nil
}
