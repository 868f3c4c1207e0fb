package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	rks "github.com/Dehou23333-awa/RKS"
	"github.com/Dehou23333-awa/RKS/internal/metrics"
	"github.com/Dehou23333-awa/RKS/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose     bool
	quiet       bool
	jsonOut     bool
	metricsPath string

	s3Endpoint string
	s3Region   string
)

var rootCmd = &cobra.Command{
	Use:   "rksctl",
	Short: "Decode, encode and rate rhythm game cloud saves",
	Long: `rksctl decrypts and decodes cloud save archives, writes them back,
and computes the player rating from the decoded score history.

Archives may be local paths or s3://bucket/key locations. S3 credentials
are read from RKS_S3_ACCESS_KEY and RKS_S3_SECRET_KEY, falling back to the
default AWS credential chain.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
		metrics.Register()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if metricsPath == "" {
			return nil
		}
		printVerbose("Writing metrics to %s\n", metricsPath)
		return metrics.Export(metricsPath)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		StringVar(&metricsPath, "metrics", "", "Write prometheus metrics to this textfile on exit")
	rootCmd.PersistentFlags().
		StringVar(&s3Endpoint, "s3-endpoint", "", "S3 endpoint, defaults to s3.amazonaws.com")
	rootCmd.PersistentFlags().StringVar(&s3Region, "s3-region", "us-east-1", "S3 region")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

func setupLogging() {
	logrus.SetOutput(os.Stderr)
	switch {
	case quiet:
		logrus.SetLevel(logrus.ErrorLevel)
	case verbose:
		logrus.SetLevel(logrus.DebugLevel)
	default:
		logrus.SetLevel(logrus.WarnLevel)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// --------------------------------------------------------------------

func s3Config() *storage.S3Config {
	return &storage.S3Config{
		AccessKeyID:     os.Getenv("RKS_S3_ACCESS_KEY"),
		AccessKeySecret: os.Getenv("RKS_S3_SECRET_KEY"),
		Endpoint:        s3Endpoint,
		Region:          s3Region,
	}
}

// fetchArchive reads an archive from a local path or an S3 location.
func fetchArchive(ctx context.Context, location string) ([]byte, error) {
	backend, key, err := storage.Open(location, s3Config())
	if err != nil {
		return nil, err
	}
	printVerbose("Fetching %s from %s backend\n", key, backend.Type())

	data, err := backend.Fetch(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch archive: %w", err)
	}
	return data, nil
}

// storeArchive writes an archive to a local path or an S3 location.
func storeArchive(ctx context.Context, location string, data []byte) error {
	backend, key, err := storage.Open(location, s3Config())
	if err != nil {
		return err
	}
	printVerbose("Storing %d bytes as %s on %s backend\n", len(data), key, backend.Type())

	if err := backend.Upload(ctx, key, data); err != nil {
		return fmt.Errorf("failed to store archive: %w", err)
	}
	return nil
}

// openSave fetches and decodes an archive.
func openSave(ctx context.Context, location string) (*rks.Save, error) {
	data, err := fetchArchive(ctx, location)
	if err != nil {
		return nil, err
	}

	codec, err := rks.NewCodec(nil)
	if err != nil {
		return nil, err
	}
	save, err := codec.ReadArchive(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	return save, nil
}

func loadCharts(ctx context.Context, dir string) (*rks.ChartIndex, error) {
	if dir == "" {
		return nil, fmt.Errorf("--charts is required")
	}
	printVerbose("Loading charts from %s\n", dir)

	charts := rks.NewChartIndex(rks.TSVLoader(os.DirFS(dir)), nil)
	if err := charts.Load(ctx); err != nil {
		return nil, err
	}
	return charts, nil
}
