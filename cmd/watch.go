package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bep/debounce"
	"github.com/spf13/cobra"
)

var watchInterval time.Duration

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", time.Second, "how often to poll for changes")
	watchCmd.Flags().IntVar(&transcribeCapoFret, "capo", 0, "transpose the open strings up this many frets")
	watchCmd.Flags().BoolVar(&transcribeSuggestCapo, "suggest-capo", false, "pick a capo fret that keeps the fretting hand low")
	watchCmd.Flags().BoolVar(&transcribeFingerstyle, "fingerstyle", false, "annotate for fingerstyle instead of strumming")
	watchCmd.Flags().Float64Var(&transcribeTempo, "tempo", 0, "force the tempo in BPM instead of detecting it")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch <recording.wav>",
	Short: "Re-transcribes a recording whenever it changes",
	Long: `Watches a wav file and re-transcribes it whenever the file changes,
printing the fresh tablature each time. Useful while punching in takes from a
DAW that renders to the same file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return watch(cmd.Context(), args[0])
	},
}

func watch(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	lastMod := info.ModTime()

	run := func() {
		if err := transcribe(ctx, path); err != nil {
			logger.Error("transcription failed", "path", path, "err", err)
		}
	}
	run()

	// renders land as bursts of partial writes, let the file settle first
	debounced := debounce.New(500 * time.Millisecond)

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()
	fmt.Printf("Watching %v for changes...\n", path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			if info.ModTime().After(lastMod) {
				lastMod = info.ModTime()
				debounced(run)
			}
		}
	}
}
