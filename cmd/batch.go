package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tabscribe/file"
	"tabscribe/model"
	"tabscribe/pipeline"
	"tabscribe/tab"
	"tabscribe/util"
)

var (
	batchMax         int
	batchFingerstyle bool
	batchSuggestCapo bool
	batchNoCache     bool
)

func init() {
	batchCmd.Flags().IntVar(&batchMax, "max", 0, "stop after this many files, 0 for all")
	batchCmd.Flags().BoolVar(&batchFingerstyle, "fingerstyle", false, "annotate for fingerstyle instead of strumming")
	batchCmd.Flags().BoolVar(&batchSuggestCapo, "suggest-capo", false, "pick a capo fret per file")
	batchCmd.Flags().BoolVar(&batchNoCache, "no-cache", false, "skip the analysis cache")
	rootCmd.AddCommand(batchCmd)
}

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Transcribes every wav file under a directory",
	Long: `Transcribes every wav file under a directory, writing each tab next to
its recording with a .tab.txt extension.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return batch(args[0])
	},
}

func batch(dir string) error {
	paths := util.GatherAllAudioPaths(dir, batchMax)
	if len(paths) == 0 {
		fmt.Println("No wav files found.")
		return nil
	}

	opts := pipeline.Options{
		UseCapo: batchSuggestCapo,
		Style:   model.StyleFor(batchFingerstyle),
	}

	var written int
	for i, path := range paths {
		fmt.Printf("Processing %v of %v wav files\n", i+1, len(paths))
		doc, err := transcribeWAV(path, opts, !batchNoCache)
		if err != nil {
			fmt.Printf("Skipping %v because: %v\n", path, err)
			continue
		}
		outPath := file.WithExt(path, ".tab.txt")
		if err := os.WriteFile(outPath, []byte(tab.Render(doc)), 0644); err != nil {
			return err
		}
		written++
	}
	green.Printf("Wrote %v tabs\n", written)
	return nil
}
