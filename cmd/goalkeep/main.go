// Package main provides the goalkeep CLI entry point.
// Running without arguments starts the interactive chat interface.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"goalkeep/internal/config"
	"goalkeep/internal/logging"
	"goalkeep/internal/store"
)

var (
	// Global flags
	verbose    bool
	configPath string
	dataDir    string

	// Logger
	logger *zap.Logger

	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "goalkeep",
	Short: "goalkeep - a goal-keeping chat client",
	Long: `goalkeep is a terminal chat client that keeps a conversation anchored
to a stated goal. It watches the transcript for drift, extracts action
items and insights, and learns your working style over time.

Run without arguments to start the interactive chat interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		if err := logging.Init(dataDir, logging.Config{
			DebugMode:  cfg.Logging.DebugMode || verbose,
			Categories: cfg.Logging.Categories,
			Level:      cfg.Logging.Level,
			JSONFormat: cfg.Logging.JSONFormat,
		}); err != nil {
			return err
		}

		// Interactive mode owns the terminal; no zap there.
		if cmd.Name() == "goalkeep" || cmd.Name() == "chat" {
			return nil
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.Close()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

func openStore() (*store.Store, error) {
	return store.Open(cfg.Storage.DatabasePath)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "config file path")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", config.DefaultDataDir(), "data directory")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(goalCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
