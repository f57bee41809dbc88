package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rpattn/fdirkit/internal/config"
	"github.com/rpattn/fdirkit/internal/pipeline"
)

var (
	configPath string
	outputDir  string
	verbose    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fdir",
	Short: "Combine, flatten, and compare FDIR rule spreadsheets",
	Long: `fdir reads the fault-detection rule workbook (definitions, monitors,
conditions) and the response text table, joins them by rule key, and emits
combined views as JSON, text, CSV, and formatted spreadsheets. It also
provides a generic cell-level comparison of any two spreadsheet files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var combineCmd = &cobra.Command{
	Use:   "combine",
	Short: "Join the rules workbook into a nested per-entity view",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return err
		}
		_, err = runner.Combine()
		return err
	},
}

var flattenCmd = &cobra.Command{
	Use:   "flatten",
	Short: "Build the flat combined view merged with response lookup data",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return err
		}
		_, err = runner.Flatten()
		return err
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare <file1> <file2>",
	Short: "Compare two spreadsheet files cell by cell",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return err
		}
		_, err = runner.Compare(args[0], args[1])
		return err
	},
}

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Regenerate the response lookup table",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return err
		}
		_, err = runner.Lookup()
		return err
	},
}

func newRunner() (*pipeline.Runner, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	return pipeline.New(cfg, logger), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing config.yaml")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output", "", "override the output directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(combineCmd, flattenCmd, compareCmd, lookupCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("run failed", zap.Error(err))
			_ = logger.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
