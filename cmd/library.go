package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tabscribe/constants"
	"tabscribe/db"
	"tabscribe/model"
)

var (
	libraryDB   string
	libraryShow string
)

func init() {
	libraryCmd.Flags().StringVar(&libraryDB, "db", constants.GetLibraryPath(), "path to the tab library")
	libraryCmd.Flags().StringVar(&libraryShow, "show", "", "print the stored tab for this video ID")
	rootCmd.AddCommand(libraryCmd)
}

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Lists the tabs saved in the library",
	Long:  `Lists the tabs saved in the library, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := db.Open(libraryDB)
		if err != nil {
			return err
		}
		defer lib.Close()

		if libraryShow != "" {
			return showTab(lib, libraryShow)
		}
		return listTabs(lib)
	},
}

func listTabs(lib *db.Library) error {
	tabs, err := lib.ListTabs()
	if err != nil {
		return err
	}
	if len(tabs) == 0 {
		fmt.Println("The library is empty.")
		return nil
	}

	for _, rec := range tabs {
		cyan.Printf("%v - %v\n", rec.Artist, rec.Title)
		fmt.Printf("  video: %v  style: %v  capo: %v  saved: %v\n",
			rec.VideoID, model.StyleFor(rec.Fingerstyle), rec.CapoFret, rec.CreatedAt)
	}
	fmt.Printf("%v tabs\n", len(tabs))
	return nil
}

func showTab(lib *db.Library, videoID string) error {
	for _, fingerstyle := range []bool{false, true} {
		for _, useCapo := range []bool{false, true} {
			rec, err := lib.GetTabByVideoID(videoID, fingerstyle, useCapo)
			if err != nil {
				continue
			}
			cyan.Printf("%v - %v\n\n", rec.Artist, rec.Title)
			fmt.Println(rec.Content)
			return nil
		}
	}
	return fmt.Errorf("no tab stored for video %v", videoID)
}
