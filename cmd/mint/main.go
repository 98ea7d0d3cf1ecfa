package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "0.1.0"

var (
	// Global flags
	verbose   bool
	configURL string
	traceFile string
	timeout   time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mint",
	Short: "mint issues serial numbered notes from SVG templates",
	Long: `mint allocates sequential, checksum protected identifiers per batch,
stamps them into SVG templates, optionally rasterizes the result and records
every issued note in a JSON ledger.

Identifiers look like SLS-AA100012: prefix, batch code, a five digit
sequence and a checksum digit.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty ledger",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a batch of notes",
	Long: `Issues notes for a batch. Missing batch code or quantity are asked for
interactively.

Example:
  mint issue --batch AA --quantity 50
  mint issue --batch AA --quantity 5 --dry-run`,
	Args: cobra.NoArgs,
	RunE: runIssue,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List issued notes",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var verifyCmd = &cobra.Command{
	Use:   "verify [id...]",
	Short: "Verify identifiers against the checksum and the ledger",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runVerify,
}

var voidCmd = &cobra.Command{
	Use:   "void [id...]",
	Short: "Withdraw notes from circulation",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runVoid,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configURL, "config", "c", "", "Config file (default: built-in layout relative to the working directory)")
	rootCmd.PersistentFlags().StringVar(&traceFile, "trace-file", "", "Write OpenTelemetry spans to file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Minute, "Operation timeout")

	issueCmd.Flags().StringVarP(&issueBatch, "batch", "b", "", "Batch code, e.g. AA")
	issueCmd.Flags().IntVarP(&issueQuantity, "quantity", "n", 0, "Number of notes to issue")
	issueCmd.Flags().BoolVar(&issueDryRun, "dry-run", false, "Show notes and ledger diff without writing")
	issueCmd.Flags().BoolVar(&issueOverwrite, "overwrite", false, "Replace existing output files")
	issueCmd.Flags().BoolVar(&issueRasterize, "rasterize", false, "Rasterize stamped files")

	listCmd.Flags().StringSliceVar(&listBatches, "batch", nil, "Batch codes to include")
	listCmd.Flags().StringSliceVar(&listStatuses, "status", nil, "Statuses to include (Active, Void)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print notes as JSON")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(issueCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(voidCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
