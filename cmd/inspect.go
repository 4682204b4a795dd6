package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tabscribe/audio"
	"tabscribe/model"
	"tabscribe/pipeline"
	"tabscribe/quantize"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <recording.wav>",
	Short: "Prints the raw analysis of a recording",
	Long: `Prints the raw analysis of a recording: onsets, detected tempo and the
pitch observation for every inter-onset segment. Useful for checking what the
pipeline heard before blaming the fret mapper.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(args[0])
	},
}

func inspect(path string) error {
	buf, err := audio.ReadWAV(path)
	if err != nil {
		return err
	}
	trimmed := audio.TrimSilence(buf, audio.DefaultTrimThreshold)

	a, err := pipeline.Analyze(trimmed.Samples, trimmed.SampleRate)
	if err != nil {
		return err
	}

	fmt.Printf("file: %v\n", path)
	fmt.Printf("sample rate: %v\n", a.SampleRate)
	fmt.Printf("duration: %.2fs\n", float64(a.NumSamples)/float64(a.SampleRate))
	fmt.Printf("onsets: %v\n", len(a.Onsets))
	fmt.Printf("tempo: %.1f BPM\n", a.Rhythm.TempoBPM)
	fmt.Printf("consistency: %.2f\n", a.Rhythm.Consistency)
	fmt.Printf("beat emphasis: %.2f\n", a.Rhythm.Emphasis)

	for i, obs := range a.Observations {
		at := float64(obs.Start) / float64(a.SampleRate)
		if !obs.Voiced {
			fmt.Printf("segment %v at %.2fs: unvoiced\n", i, at)
			continue
		}
		note := model.NewNote(quantize.MidiFromFrequency(obs.Frequency), 0, 1)
		fmt.Printf("segment %v at %.2fs: %.1f Hz (%v)\n", i, at, obs.Frequency, note.Name())
	}
	return nil
}
