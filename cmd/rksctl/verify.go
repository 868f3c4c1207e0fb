package main

import (
	"github.com/Dehou23333-awa/RKS/internal/storage"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newVerifyCmd())
}

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <archive> <md5>",
		Short: "Check the size and MD5 checksum of an archive",
		Long: `The verify command compares the MD5 digest of an archive with the
checksum published by the storage provider.

Example:
  rksctl verify save.zip 9e107d9d372bb6826bd81d3542a419d6`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, args)
		},
	}
	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	data, err := fetchArchive(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if err := storage.Verify(data, args[1]); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{"valid": true, "size": len(data)})
	}
	printInfo("OK (%d bytes)\n", len(data))
	return nil
}
