package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sitehealth/imagecheck/internal/audit"
	"github.com/sitehealth/imagecheck/internal/config"
	"github.com/sitehealth/imagecheck/internal/notifications"
	"github.com/sitehealth/imagecheck/internal/storage"
	"github.com/sitehealth/imagecheck/internal/util"
)

// runScan is the root command's RunE: it audits one domain end to end.
func runScan(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	cfg.Domain = util.NormaliseDomain(args[0])

	setupLogging(cfg)

	if err := util.ValidateDomain(cfg.Domain); err != nil {
		return fmt.Errorf("invalid domain %q: %w", args[0], err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	initSentry(cfg)
	defer sentry.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	run, err := audit.New(cfg).Run(ctx)
	if err != nil {
		if errors.Is(err, audit.ErrNoPages) {
			return fmt.Errorf("no URLs found at %s, check the sitemap URL", cfg.SitemapURL())
		}
		sentry.CaptureException(err)
		return err
	}

	recordHistory(ctx, cfg, run)
	notifications.NewSlackNotifier(cfg.SlackWebhookURL).NotifyRunComplete(ctx, run)

	if run.Broken == 0 {
		log.Info().Msg("No broken images found")
	} else {
		log.Warn().Int("broken", run.Broken).Msg("Broken images found")
	}

	return nil
}

// recordHistory stores the run summary; a history failure is reported
// but never fails a scan that already produced its report.
func recordHistory(ctx context.Context, cfg *config.Config, run *storage.Run) {
	if !cfg.HistoryEnabled {
		return
	}

	history, err := storage.Open(cfg.HistoryDir)
	if err != nil {
		log.Warn().Err(err).Msg("Could not open scan history")
		return
	}
	defer history.Close()

	if err := history.RecordRun(ctx, run); err != nil {
		log.Warn().Err(err).Msg("Could not record run in scan history")
		return
	}

	log.Debug().Str("run_id", run.ID).Str("db", history.Path()).Msg("Run recorded in scan history")
}

// initSentry enables error tracking when a DSN is configured.
func initSentry(cfg *config.Config) {
	if cfg.SentryDSN == "" {
		log.Debug().Msg("Sentry DSN not configured, error tracking disabled")
		return
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Env,
		AttachStacktrace: true,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialise Sentry")
		return
	}
	log.Debug().Str("environment", cfg.Env).Msg("Sentry initialised")
}
