package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose    bool
	configPath string
	asJSON     bool
	at         string

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "scriptdiff",
	Short: "Compare script versions and their contents",
	Long: `scriptdiff works on script JSON documents: an array of character
entries, optionally with a "_meta" entry holding the script name and author.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}

		var err error
		logger, err = config.Build()
		if err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff [old.json] [new.json]",
	Short: "Show characters added and removed between two scripts",
	Args:  cobra.ExactArgs(2),
	RunE:  runDiff,
}

var compareCmd = &cobra.Command{
	Use:   "compare [version] [version]",
	Short: "Compare two version strings",
	Args:  cobra.ExactArgs(2),
	RunE:  runCompare,
}

var historyCmd = &cobra.Command{
	Use:   "history [dir]",
	Short: "Build the change history of a directory of script versions",
	Long: `Every file named <version>.json in the directory is uploaded in
ascending version order, then the history is printed newest first.
Uploads whose content matches the previous file only update metadata.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print JSON instead of text")

	historyCmd.Flags().StringVar(&configPath, "config", "", "YAML config file")
	historyCmd.Flags().StringVar(&at, "at", "", "show history as seen from this version")

	rootCmd.AddCommand(diffCmd, compareCmd, historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
