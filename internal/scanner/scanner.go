package scanner

import (
	"context"
	"crypto/tls"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/rs/zerolog/log"

	"github.com/sitehealth/imagecheck/internal/config"
)

// Scanner fetches one page at a time, locates its content area and
// emits records for images that are broken or need review. Pages are
// processed strictly sequentially so the target site never sees a
// burst of concurrent requests.
type Scanner struct {
	collector  *colly.Collector
	classifier *Classifier
}

// New creates a Scanner from the run configuration.
func New(cfg *config.Config) *Scanner {
	c := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
		// Error pages are still HTML: a page serving 404 with a body
		// gets its images scanned like any other. Only transport
		// failures count as page errors.
		colly.ParseHTTPErrorResponse(),
	)
	c.SetRequestTimeout(cfg.PageTimeout)
	c.WithTransport(&http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	})

	return &Scanner{
		collector:  c,
		classifier: NewClassifier(cfg.ProbeTimeout, cfg.UserAgent),
	}
}

// ScanPage fetches pageURL, probes every image in its content area and
// returns the records to report. A page that cannot be fetched yields
// exactly one PAGE_ERROR record; images that probe OK are dropped so
// the report stays focused on actionable issues.
func (s *Scanner) ScanPage(ctx context.Context, pageURL string) []ImageRecord {
	content, selector, err := s.fetchContent(ctx, pageURL)
	if err != nil {
		log.Warn().Err(err).Str("url", pageURL).Msg("Could not scan page")
		return []ImageRecord{{
			PageURL:         pageURL,
			ImageURL:        NotApplicable,
			ImageAlt:        NotApplicable,
			Status:          StatusPageError,
			HTTPCode:        NotApplicable,
			ContentSelector: NotApplicable,
			ScanDate:        timestamp(),
		}}
	}
	if content == nil {
		// Non-HTML response; nothing to scan.
		log.Debug().Str("url", pageURL).Msg("Page produced no HTML document")
		return nil
	}

	images := CollectImages(content, pageURL)
	log.Info().
		Str("url", pageURL).
		Str("content_selector", selector).
		Int("image_count", len(images)).
		Msg("Found images on page")

	var records []ImageRecord
	for _, img := range images {
		status, code := s.classifier.Classify(ctx, img.URL)
		switch status {
		case StatusBroken:
			log.Warn().
				Str("image_url", img.URL).
				Str("http_code", code).
				Msg("Broken image")
		case StatusProbablyOK:
			log.Info().
				Str("image_url", img.URL).
				Str("http_code", code).
				Msg("Image redirects, manual check required")
		default:
			continue
		}

		records = append(records, ImageRecord{
			PageURL:         pageURL,
			ImageURL:        img.URL,
			ImageAlt:        img.Alt,
			Status:          status,
			HTTPCode:        code,
			ContentSelector: selector,
			ScanDate:        timestamp(),
		})
	}

	return records
}

// fetchContent retrieves the page and returns its located content
// subtree plus the selector that matched. The collector is cloned per
// page so handlers never leak state between pages.
func (s *Scanner) fetchContent(ctx context.Context, pageURL string) (*goquery.Selection, string, error) {
	var (
		content  *goquery.Selection
		selector string
	)

	clone := s.collector.Clone()
	clone.OnHTML("html", func(e *colly.HTMLElement) {
		content, selector = LocateContent(e.DOM)
	})

	done := make(chan error, 1)
	go func() {
		done <- clone.Visit(pageURL)
	}()

	select {
	case err := <-done:
		if err != nil {
			return nil, "", err
		}
	case <-ctx.Done():
		return nil, "", ctx.Err()
	}

	return content, selector, nil
}
