package cmd

import (
	"fmt"
	"os"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/joho/godotenv"
	"github.com/kozaktomas/facereg/internal/config"
	"github.com/kozaktomas/facereg/internal/logging"
	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "facereg",
	Short: "Face registration and recognition service",
	Long: `facereg stores face descriptors produced by a browser-side recognition
network together with a photo, and answers whether a face is already
registered and who a face belongs to.

Matching is a linear nearest-neighbour scan using Euclidean distance
under a configurable threshold (MATCH_THRESHOLD, default 0.6).`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: console or json (overrides LOG_FORMAT)")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

// loadConfig loads configuration and applies the global flag overrides.
func loadConfig() *config.Config {
	cfg := config.Load()
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	return cfg
}

// newLogger writes to stderr so that command output on stdout stays parseable.
func newLogger(cfg *config.Config) *bolt.Logger {
	return logging.New(os.Stderr, cfg.Log.Format, cfg.Log.Level)
}
