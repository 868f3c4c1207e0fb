package main

import (
	"fmt"
	"os"

	rks "github.com/Dehou23333-awa/RKS"
	"github.com/spf13/cobra"
)

var (
	decodeSnapshot     string
	decodeFromSnapshot bool
)

func init() {
	cmd := newDecodeCmd()
	cmd.Flags().StringVar(&decodeSnapshot, "snapshot", "", "Also write the decrypted entries to this snapshot file")
	cmd.Flags().BoolVar(&decodeFromSnapshot, "from-snapshot", false, "Read a snapshot file instead of an archive")
	rootCmd.AddCommand(cmd)
}

func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <archive>",
		Short: "Decrypt and decode a save archive",
		Long: `The decode command decrypts every archive member and decodes it with
the layout selected by its format byte. Members without a known layout are
kept as plaintext, members that fail to decrypt keep their ciphertext.

Example:
  rksctl decode save.zip
  rksctl decode save.zip --json > save.json
  rksctl decode s3://saves/player/save.zip --snapshot save.snap
  rksctl decode save.snap --from-snapshot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd, args)
		},
	}
	return cmd
}

func runDecode(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var (
		save *rks.Save
		err  error
	)
	if decodeFromSnapshot {
		save, err = readSnapshotFile(args[0])
	} else {
		save, err = openSave(ctx, args[0])
	}
	if err != nil {
		return err
	}

	if decodeSnapshot != "" {
		if err := writeSnapshotFile(decodeSnapshot, save); err != nil {
			return err
		}
		printVerbose("Snapshot written to %s\n", decodeSnapshot)
	}

	if jsonOut {
		return printJSON(save)
	}

	for _, e := range save.Entries {
		printInfo("%-14s 0x%02x  %s\n", e.Name, e.FormatByte, e.Outcome())
		if e.Err != nil {
			printInfo("    error: %v\n", e.Err)
		}
		for _, msg := range e.Diagnostics {
			printInfo("    warning: %s\n", msg)
		}
		printVerbose("    %+v\n", e.Record)
	}
	return nil
}

func readSnapshotFile(name string) (*rks.Save, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	codec, err := rks.NewCodec(nil)
	if err != nil {
		return nil, err
	}
	return codec.DecodeSnapshot(f)
}

func writeSnapshotFile(name string, save *rks.Save) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	if err := rks.WriteSnapshot(f, save); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
