package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"agridash/config"
	"agridash/logging"
)

var (
	cfgFile string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "agridash",
	Short: "Karnataka environmental and agricultural dashboard backend",
	Long: `agridash serves crop yield, rainfall and air quality datasets over a JSON API,
runs read-only queries against the analytics warehouse, and relays questions
about the data to a hosted language model.

Run without a subcommand it behaves like "agridash serve".`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env if present)")
}

// setup loads and validates configuration and builds the logger.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(envFile, cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	log, err := logging.New(&cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
