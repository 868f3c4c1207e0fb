package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	rks "github.com/Dehou23333-awa/RKS"
	"github.com/Dehou23333-awa/RKS/internal/storage"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newEncodeCmd())
}

func newEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <save.json> <archive>",
		Short: "Build a save archive from decoded JSON",
		Long: `The encode command reads the JSON produced by "rksctl decode --json",
encrypts every entry and writes a new archive.

Example:
  rksctl decode save.zip --json > save.json
  rksctl encode save.json rebuilt.zip
  rksctl encode save.json s3://saves/player/save.zip`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(cmd, args)
		},
	}
	return cmd
}

func runEncode(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read save: %w", err)
	}

	save := new(rks.Save)
	if err := json.Unmarshal(raw, save); err != nil {
		return fmt.Errorf("failed to parse save: %w", err)
	}

	codec, err := rks.NewCodec(nil)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := codec.WriteArchive(&buf, save); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}
	if err := storeArchive(cmd.Context(), args[1], buf.Bytes()); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"entries": len(save.Entries),
			"size":    buf.Len(),
			"md5":     storage.Checksum(buf.Bytes()),
		})
	}
	printInfo("Wrote %d entries (%d bytes, md5 %s)\n", len(save.Entries), buf.Len(), storage.Checksum(buf.Bytes()))
	return nil
}
