package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sitehealth/imagecheck/internal/config"
)

// NewRootCmd creates the root command. The root itself runs a scan so
// the common invocation stays short: imagecheck example.com
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "imagecheck <domain>",
		Short: "Audit a WordPress site for broken images",
		Long: `imagecheck discovers a site's published pages from its sitemap,
checks every image in each page's main content area and writes the
broken or ambiguous ones to a timestamped CSV report.

Only images that need attention appear in the report; healthy images
are dropped to keep it actionable.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runScan,
	}

	cmd.Flags().String("scheme", "https", "Protocol used to reach the site (http or https)")
	cmd.Flags().String("output-dir", ".", "Directory the CSV report is written to")
	cmd.Flags().String("log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")
	cmd.Flags().Bool("no-history", false, "Skip recording this run in the local scan history")

	cmd.AddCommand(NewHistoryCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	// .env.local takes priority for development
	godotenv.Load(".env.local", ".env")

	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig builds the run configuration from environment and flags.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.FromEnv()
	if v, _ := cmd.Flags().GetString("scheme"); v != "" {
		cfg.Scheme = v
	}
	if v, _ := cmd.Flags().GetString("output-dir"); v != "" {
		cfg.OutputDir = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if noHistory, _ := cmd.Flags().GetBool("no-history"); noHistory {
		cfg.HistoryEnabled = false
	}
	return cfg
}

// setupLogging configures zerolog from the run configuration.
func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Console writer for interactive use, JSON in automation
	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		log.Logger = zerolog.New(os.Stderr).
			With().
			Timestamp().
			Str("service", "imagecheck").
			Logger()
	}
}
