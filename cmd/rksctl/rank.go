package main

import (
	"fmt"
	"sort"

	rks "github.com/Dehou23333-awa/RKS"
	"github.com/spf13/cobra"
)

var (
	rankCharts string
	rankAll    bool
)

func init() {
	cmd := newRankCmd()
	cmd.Flags().StringVar(&rankCharts, "charts", "", "Directory holding difficulty.tsv and info.tsv")
	cmd.Flags().BoolVar(&rankAll, "all", false, "List every rated result instead of the best list")
	rootCmd.AddCommand(cmd)
}

func newRankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank <archive>",
		Short: "Compute the player rating of a save",
		Long: `The rank command rates every result of the score history and prints
the best list: up to 3 perfect results, then up to 33 others.

Example:
  rksctl rank save.zip --charts ./charts
  rksctl rank save.zip --charts ./charts --all --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRank(cmd, args)
		},
	}
	return cmd
}

type rankedEntry struct {
	rks.ScoreEntry
	Grade   string `json:"grade"`
	Suggest string `json:"suggest,omitempty"`
}

func runRank(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	save, err := openSave(ctx, args[0])
	if err != nil {
		return err
	}
	rec, ok := save.GameRecord()
	if !ok {
		return fmt.Errorf("archive has no decoded %s entry", rks.NameGameRecord)
	}

	charts, err := loadCharts(ctx, rankCharts)
	if err != nil {
		return err
	}

	engine := rks.NewRankingEngine(charts, nil)
	entries := engine.Flatten(rec)
	best := rks.BestN(entries)

	list := best.List()
	if rankAll {
		list = entries
		sort.SliceStable(list, func(i, j int) bool { return list[i].Rating > list[j].Rating })
	}

	rating := best.RKS()
	phi := best.PhiRatings()
	out := make([]rankedEntry, len(list))
	for i, e := range list {
		out[i] = rankedEntry{ScoreEntry: e, Grade: e.Grade()}
		if acc, ok := rks.Suggest(e, rating, phi); ok {
			out[i].Suggest = fmt.Sprintf("%.2f%%", acc)
		}
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"rks":       rating,
			"deviation": best.Deviation(),
			"entries":   out,
		})
	}

	printInfo("RKS %.4f  (deviation %.4f)\n", rating, best.Deviation())
	for i, e := range out {
		label := fmt.Sprintf("#%d", i+1)
		if !rankAll {
			if i < len(best.Phi) {
				label = fmt.Sprintf("P%d", i+1)
			} else {
				label = fmt.Sprintf("#%d", i+1-len(best.Phi))
			}
		}
		printInfo("%-4s %-32s %-2s %4.1f  %7d  %6.2f%%  %-3s %7.4f  %s\n",
			label, e.Title, e.Level, e.Difficulty, e.Score, e.Accuracy, e.Grade, e.Rating, e.Suggest)
	}
	return nil
}
