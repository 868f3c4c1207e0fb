package main

import (
	rks "github.com/Dehou23333-awa/RKS"
	"github.com/spf13/cobra"
)

var (
	songsCharts string
	songsSearch string
	songsPage   int
	songsLimit  int
)

func init() {
	cmd := newSongsCmd()
	cmd.Flags().StringVar(&songsCharts, "charts", "", "Directory holding difficulty.tsv and info.tsv")
	cmd.Flags().StringVarP(&songsSearch, "search", "s", "", "Only list songs whose title or composer contains this term")
	cmd.Flags().IntVar(&songsPage, "page", 1, "Page number")
	cmd.Flags().IntVar(&songsLimit, "limit", 20, "Songs per page")
	rootCmd.AddCommand(cmd)
}

func newSongsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "songs",
		Short: "List and search the chart catalogue",
		Long: `The songs command lists the songs of the chart catalogue with their
chart constants. Searching ignores case.

Example:
  rksctl songs --charts ./charts
  rksctl songs --charts ./charts --search rrhar --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSongs(cmd)
		},
	}
	return cmd
}

func runSongs(cmd *cobra.Command) error {
	charts, err := loadCharts(cmd.Context(), songsCharts)
	if err != nil {
		return err
	}

	songs, total := charts.Search(songsSearch, songsPage, songsLimit)
	if jsonOut {
		return printJSON(map[string]interface{}{
			"total": total,
			"page":  songsPage,
			"songs": songs,
		})
	}

	printVerbose("%d matching songs\n", total)
	for _, s := range songs {
		printInfo("%-40s %-32s", s.ID, s.Title)
		for lv := rks.EZ; lv < rks.NumLevels; lv++ {
			if d, ok := s.Difficulty(lv); ok {
				printInfo("  %s %4.1f", lv, d)
			}
		}
		printInfo("\n")
	}
	return nil
}
