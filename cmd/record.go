package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tabscribe/audio"
	"tabscribe/constants"
	"tabscribe/model"
	"tabscribe/pipeline"
	"tabscribe/tab"
)

var (
	recordSeconds     float64
	recordRate        int
	recordOut         string
	recordCapoFret    int
	recordSuggestCapo bool
	recordFingerstyle bool
	recordTempo       float64
)

func init() {
	recordCmd.Flags().Float64Var(&recordSeconds, "seconds", 10, "how long to record")
	recordCmd.Flags().IntVar(&recordRate, "rate", constants.DefaultSampleRate, "capture sample rate")
	recordCmd.Flags().StringVarP(&recordOut, "out", "o", "", "also save the take to this wav file")
	recordCmd.Flags().IntVar(&recordCapoFret, "capo", 0, "transpose the open strings up this many frets")
	recordCmd.Flags().BoolVar(&recordSuggestCapo, "suggest-capo", false, "pick a capo fret that keeps the fretting hand low")
	recordCmd.Flags().BoolVar(&recordFingerstyle, "fingerstyle", false, "annotate for fingerstyle instead of strumming")
	recordCmd.Flags().Float64Var(&recordTempo, "tempo", 0, "force the tempo in BPM instead of detecting it")
	rootCmd.AddCommand(recordCmd)
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Records from the default input and transcribes the take",
	Long: `Records from the default input device for a fixed number of seconds,
then transcribes the take and prints the tablature.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if recordSeconds <= 0 {
			return fmt.Errorf("seconds must be positive, got %v", recordSeconds)
		}

		rec, err := audio.NewRecorder(recordRate)
		if err != nil {
			return err
		}
		defer rec.Close()

		fmt.Printf("Recording %v seconds from the default input...\n", recordSeconds)
		buf, err := rec.Record(recordSeconds)
		if err != nil {
			return err
		}

		if recordOut != "" {
			if err := audio.WriteWAV(recordOut, buf); err != nil {
				return err
			}
			green.Printf("Wrote take to %v\n", recordOut)
		}

		trimmed := audio.TrimSilence(buf, audio.DefaultTrimThreshold)
		opts := pipeline.Options{
			CapoFret: recordCapoFret,
			UseCapo:  recordSuggestCapo,
			Style:    model.StyleFor(recordFingerstyle),
			TempoBPM: recordTempo,
		}
		doc, err := pipeline.Transcribe(trimmed.Samples, trimmed.SampleRate, opts)
		if err != nil {
			return err
		}

		fmt.Println(tab.Render(doc))
		return nil
	},
}
