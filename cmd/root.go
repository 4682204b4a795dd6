package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// logger is the package-wide structured logger. Safe to use before
// initLogger runs; defaults to slog.Default().
var logger = slog.Default()

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "tabscribe",
	Short: "Turns guitar audio into tablature",
	Long: `Tabscribe finds the notes in a guitar recording and lays them out on a
six string fretboard as playable tablature.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger(debugFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
}

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	logger = slog.New(h)
	slog.SetDefault(logger)
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
