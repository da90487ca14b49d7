// Package audit ties the pipeline together: resolve the sitemap once,
// then scan pages strictly one at a time, flushing each page's records
// to the report before the next page starts.
package audit

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sitehealth/imagecheck/internal/config"
	"github.com/sitehealth/imagecheck/internal/report"
	"github.com/sitehealth/imagecheck/internal/scanner"
	"github.com/sitehealth/imagecheck/internal/sitemap"
	"github.com/sitehealth/imagecheck/internal/storage"
)

// ErrNoPages means the sitemap root was unreachable or resolved to
// zero page URLs; no report file is created in that case.
var ErrNoPages = errors.New("no page URLs resolved from sitemap")

// Auditor runs a complete site audit.
type Auditor struct {
	cfg      *config.Config
	resolver *sitemap.Resolver
	scanner  *scanner.Scanner
}

// New creates an Auditor from the run configuration.
func New(cfg *config.Config) *Auditor {
	return &Auditor{
		cfg:      cfg,
		resolver: sitemap.New(cfg),
		scanner:  scanner.New(cfg),
	}
}

// Run performs the audit and returns its summary. The page list is
// resolved once up front; ErrNoPages is returned before any report
// file exists when it comes back empty.
func (a *Auditor) Run(ctx context.Context) (*storage.Run, error) {
	run := storage.NewRun(a.cfg.Domain, a.cfg.Scheme)

	sitemapURL := a.cfg.SitemapURL()
	log.Info().Str("sitemap_url", sitemapURL).Msg("Resolving sitemap")
	pages := a.resolver.Resolve(ctx, sitemapURL)
	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	log.Info().Int("page_count", len(pages)).Msg("Found URLs to scan")

	sink, err := report.NewSink(filepath.Join(a.cfg.OutputDir, report.Filename(a.cfg.Domain, run.StartedAt)))
	if err != nil {
		return nil, err
	}
	run.ReportPath = sink.Path()

	for i, page := range pages {
		if ctx.Err() != nil {
			log.Warn().Int("pages_remaining", len(pages)-i).Msg("Scan cancelled, report keeps completed pages")
			break
		}

		log.Info().
			Int("page", i+1).
			Int("total", len(pages)).
			Str("url", page).
			Msg("Scanning page")

		records := a.scanner.ScanPage(ctx, page)
		if err := sink.Append(records); err != nil {
			return run, fmt.Errorf("append to report: %w", err)
		}

		run.PagesScanned++
		for _, rec := range records {
			switch rec.Status {
			case scanner.StatusBroken:
				run.Broken++
			case scanner.StatusProbablyOK:
				run.ProbablyOK++
			case scanner.StatusPageError:
				run.PageErrors++
			}
		}
	}

	run.ImagesFlagged = run.Broken + run.ProbablyOK
	run.FinishedAt = time.Now().UTC()

	log.Info().
		Int("pages_scanned", run.PagesScanned).
		Int("broken", run.Broken).
		Int("needs_review", run.ProbablyOK).
		Int("page_errors", run.PageErrors).
		Str("report", run.ReportPath).
		Msg("Scan completed")

	return run, nil
}
