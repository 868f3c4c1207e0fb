package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	rks "github.com/Dehou23333-awa/RKS"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Decode or encode save summaries",
	}
	cmd.AddCommand(newSummaryDecodeCmd(), newSummaryEncodeCmd())
	rootCmd.AddCommand(cmd)
}

func newSummaryDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <base64>",
		Short: "Decode a base64 summary",
		Long: `The summary decode command parses the base64 summary stored next to a
save archive. A truncated counter tail is reported but not fatal.

Example:
  rksctl summary decode "$SUMMARY" --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummaryDecode(args)
		},
	}
}

func runSummaryDecode(args []string) error {
	s, err := rks.DecodeSummaryBase64(args[0])
	if errors.Is(err, rks.ErrIncompleteSummary) {
		printVerbose("Warning: %v\n", err)
	} else if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(s)
	}

	printInfo("Save version: %d\n", s.SaveVersion)
	printInfo("Game version: %d\n", s.GameVersion)
	printInfo("Challenge:    %d\n", s.Challenge)
	printInfo("RKS:          %.4f\n", s.RKS)
	printInfo("Avatar:       %s\n", s.Avatar)
	for lv := rks.EZ; lv < rks.NumLevels; lv++ {
		p := s.Progress(lv)
		printInfo("%-2s  cleared %4d  fc %4d  phi %4d\n", lv, p.Cleared, p.FullCombo, p.Phi)
	}
	return nil
}

func newSummaryEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <summary.json>",
		Short: "Encode a summary as base64",
		Long: `The summary encode command reads the JSON produced by
"rksctl summary decode --json" and prints the base64 encoding.

Example:
  rksctl summary encode summary.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummaryEncode(args)
		},
	}
}

func runSummaryEncode(args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read summary: %w", err)
	}

	var s rks.Summary
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("failed to parse summary: %w", err)
	}

	enc, err := s.EncodeBase64()
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(map[string]string{"summary": enc})
	}
	fmt.Fprintln(os.Stdout, enc)
	return nil
}
