// Package main provides the CLI entry point for the Ruleflow runtime.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ruleflow/runtime/internal/config"
	"github.com/ruleflow/runtime/internal/control"
	"github.com/ruleflow/runtime/internal/errhandling"
	"github.com/ruleflow/runtime/internal/logger"
	"github.com/ruleflow/runtime/internal/runtime"
)

// Exit codes
const (
	ExitSuccess         = 0
	ExitValidationError = 1
	ExitParseError      = 2
	ExitRuntimeError    = 3
)

var (
	// Global flags
	verbose bool
	quiet   bool

	// Run command flags
	passedOut   string
	rejectedOut string

	// Build information (set via ldflags during build)
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitRuntimeError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ruleflow",
	Short: "Ruleflow - Batch record classification runtime",
	Long: `Ruleflow partitions batches of records by classifying one field per record
against an ordered prefix rule table.

Each batch configuration names an input field, an output field, and a list of
"Label=prefix1,prefix2,..." rules. Records whose input field matches a rule are
annotated with the label and passed through; records with a missing field or no
matching rule are routed to the rejected partition with a reason.

Examples:
  # Validate a configuration file
  ruleflow validate config.json

  # Process a batch of records
  ruleflow run config.yaml batch.json

  # Validate with verbose output
  ruleflow validate --verbose config.json`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// Configure logger level based on flags
		if verbose {
			logger.SetLevel(slog.LevelDebug)
		} else if quiet {
			logger.SetLevel(slog.LevelError)
		}
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <config-file>",
	Short: "Validate a batch configuration file",
	Long: `Validate a batch configuration file against the schema.

Supports both JSON and YAML formats. The format is auto-detected
based on file extension (.json, .yaml, .yml).

Exit codes:
  0 - Configuration is valid
  1 - Validation errors (schema violations)
  2 - Parse errors (invalid JSON/YAML syntax)

Examples:
  ruleflow validate config.json
  ruleflow validate batch.yaml
  ruleflow validate --verbose config.json`,
	Args: cobra.ExactArgs(1),
	Run:  runValidate,
}

var runCmd = &cobra.Command{
	Use:   "run <config-file> <batch-file>...",
	Short: "Process record batches from files",
	Long: `Process one or more batch files through the configured rule table.

The configuration file is first validated against the schema. Each batch file
must contain an array of records (JSON or YAML). Every batch is processed
independently; if a reload control source is configured, rule updates apply
to batches started after the swap.

Exit codes:
  0 - All batches processed (rejected records do not fail the run)
  1 - Validation errors
  2 - Parse errors
  3 - Runtime errors

Examples:
  ruleflow run config.json batch.json
  ruleflow run --verbose config.yaml morning.json evening.json
  ruleflow run --rejected-out rejects.json config.json batch.json`,
	Args: cobra.MinimumNArgs(2),
	Run:  runBatches,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print version, commit hash, and build date information.",
	Run:   runVersion,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")

	// Run command flags
	runCmd.Flags().StringVar(&passedOut, "passed-out", "", "Write passed records to this file (JSON)")
	runCmd.Flags().StringVar(&rejectedOut, "rejected-out", "", "Write rejected records and reasons to this file (JSON)")

	// Add commands
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

func runValidate(_ *cobra.Command, args []string) {
	configPath := args[0]

	if !quiet {
		fmt.Printf("Validating configuration: %s\n", configPath)
	}

	result := config.ParseConfig(configPath)

	if len(result.ParseErrors) > 0 {
		printParseErrors(result.ParseErrors)
		os.Exit(ExitParseError)
	}
	if len(result.ValidationErrors) > 0 {
		printValidationErrors(result.ValidationErrors)
		os.Exit(ExitValidationError)
	}

	if !quiet {
		fmt.Printf("✓ Configuration is valid (format: %s)\n", result.Format)

		if verbose {
			if batch, ok := result.Data["batch"].(map[string]interface{}); ok {
				if name, okName := batch["name"].(string); okName {
					fmt.Printf("  Batch: %s\n", name)
				}
				if rulesRaw, okRules := batch["rules"].([]interface{}); okRules {
					fmt.Printf("  Rules: %d\n", len(rulesRaw))
				}
			}
		}
	}

	os.Exit(ExitSuccess)
}

func runBatches(cmd *cobra.Command, args []string) {
	configPath := args[0]
	batchPaths := args[1:]

	if !quiet {
		fmt.Printf("Loading batch configuration: %s\n", configPath)
	}

	result := config.ParseConfig(configPath)

	if len(result.ParseErrors) > 0 {
		printParseErrors(result.ParseErrors)
		os.Exit(ExitParseError)
	}
	if len(result.ValidationErrors) > 0 {
		printValidationErrors(result.ValidationErrors)
		os.Exit(ExitValidationError)
	}

	batchConfig, err := config.ConvertToBatchConfig(result.Data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Failed to convert configuration: %v\n", err)
		os.Exit(ExitRuntimeError)
	}

	executor, err := runtime.NewExecutor(batchConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Failed to build executor: %v\n", err)
		if errhandling.CategoryOf(err) == errhandling.CategoryConfiguration {
			os.Exit(ExitValidationError)
		}
		os.Exit(ExitRuntimeError)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if batchConfig.Control != nil {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		watcher := control.NewWatcher(batchConfig.Control, executor.Provider())
		watcher.Start(watchCtx)
		defer watcher.Close()
	}

	for _, batchPath := range batchPaths {
		batch, loadErr := loadBatchFile(batchPath)
		if loadErr != nil {
			fmt.Fprintf(os.Stderr, "✗ Failed to load batch %s: %v\n", batchPath, loadErr)
			os.Exit(ExitRuntimeError)
		}

		execResult, execErr := executor.Execute(ctx, batch)
		printExecutionResult(batchPath, execResult, execErr)
		if execErr != nil {
			os.Exit(ExitRuntimeError)
		}

		if passedOut != "" {
			if writeErr := writeJSONFile(passedOut, execResult.Passed); writeErr != nil {
				fmt.Fprintf(os.Stderr, "✗ Failed to write passed records: %v\n", writeErr)
				os.Exit(ExitRuntimeError)
			}
		}
		if rejectedOut != "" {
			if writeErr := writeJSONFile(rejectedOut, execResult.Rejected); writeErr != nil {
				fmt.Fprintf(os.Stderr, "✗ Failed to write rejected records: %v\n", writeErr)
				os.Exit(ExitRuntimeError)
			}
		}
	}

	os.Exit(ExitSuccess)
}

func runVersion(_ *cobra.Command, _ []string) {
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Commit: %s\n", commit)
	fmt.Printf("Build date: %s\n", buildDate)
}
