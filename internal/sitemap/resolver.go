package sitemap

import (
	"context"
	"crypto/tls"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sitehealth/imagecheck/internal/config"
)

// DefaultIncludePatterns matches nested sitemap URLs that list
// published content (WordPress post/page/article sitemap conventions).
var DefaultIncludePatterns = []string{
	"posts-post",
	"posts-page",
	"post-sitemap",
	"page-sitemap",
	"article",
}

// DefaultExcludePatterns matches nested sitemap URLs for taxonomy and
// archive listings, which duplicate content already reachable through
// the post/page sitemaps.
var DefaultExcludePatterns = []string{
	"taxonomies",
	"post_tag",
	"tag-sitemap",
	"category",
	"author",
	"users",
}

// Resolver flattens a sitemap tree into an ordered list of page URLs.
type Resolver struct {
	client          *http.Client
	userAgent       string
	includePatterns []string
	excludePatterns []string
}

// New creates a Resolver from the run configuration.
func New(cfg *config.Config) *Resolver {
	return &Resolver{
		client: &http.Client{
			Timeout: cfg.PageTimeout,
			Transport: &http.Transport{
				// The audit must still run against sites with self-signed
				// or misconfigured certificates.
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		userAgent:       cfg.UserAgent,
		includePatterns: DefaultIncludePatterns,
		excludePatterns: DefaultExcludePatterns,
	}
}

// Resolve fetches the sitemap at rootURL and returns every page URL it
// reaches, depth-first in document order. A branch that fails to fetch
// or parse contributes nothing; sibling branches still resolve. A
// visited set guards against cyclic sitemap references.
func (r *Resolver) Resolve(ctx context.Context, rootURL string) []string {
	var pages []string
	visited := make(map[string]bool)
	stack := []string{rootURL}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[current] {
			log.Warn().Str("url", current).Msg("Sitemap already visited, skipping to avoid cycle")
			continue
		}
		visited[current] = true

		body, err := r.fetch(ctx, current)
		if err != nil {
			log.Warn().Err(err).Str("url", current).Msg("Failed to fetch sitemap, abandoning branch")
			continue
		}

		children, ok := parseIndex(body)
		if ok {
			followed := 0
			// Children are pushed in reverse so the stack pops them in
			// document order, keeping resolution depth-first.
			kept := make([]string, 0, len(children))
			for _, child := range children {
				if r.shouldFollow(child) {
					kept = append(kept, child)
					followed++
				}
			}
			for i := len(kept) - 1; i >= 0; i-- {
				stack = append(stack, kept[i])
			}
			log.Debug().
				Str("url", current).
				Int("children", len(children)).
				Int("followed", followed).
				Msg("Resolved sitemap index")
			continue
		}

		urls, err := parseLeaf(body)
		if err != nil {
			log.Warn().Err(err).Str("url", current).Msg("Failed to parse sitemap, abandoning branch")
			continue
		}
		log.Debug().
			Str("url", current).
			Int("url_count", len(urls)).
			Msg("Collected page URLs from leaf sitemap")
		pages = append(pages, urls...)
	}

	return pages
}

// shouldFollow classifies a nested sitemap URL against the include and
// exclude pattern sets. An include match always wins; an exclude match
// without one skips the branch before it is fetched. URLs matching
// neither set are followed best-effort with a warning.
func (r *Resolver) shouldFollow(childURL string) bool {
	for _, pattern := range r.includePatterns {
		if strings.Contains(childURL, pattern) {
			return true
		}
	}
	for _, pattern := range r.excludePatterns {
		if strings.Contains(childURL, pattern) {
			log.Debug().Str("url", childURL).Str("pattern", pattern).Msg("Skipping excluded sitemap")
			return false
		}
	}
	log.Warn().Str("url", childURL).Msg("Sitemap matches no known pattern, following anyway")
	return true
}

func (r *Resolver) fetch(ctx context.Context, sitemapURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch sitemap: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// parseIndex reports whether the document is a sitemap index, and if
// so returns the nested sitemap URLs in document order.
func parseIndex(body []byte) ([]string, bool) {
	var idx sitemapIndex
	if err := xml.Unmarshal(body, &idx); err != nil {
		return nil, false
	}
	urls := make([]string, 0, len(idx.Sitemaps))
	for _, entry := range idx.Sitemaps {
		if loc := strings.TrimSpace(entry.Loc); loc != "" {
			urls = append(urls, loc)
		}
	}
	return urls, true
}

// parseLeaf extracts page URLs from a leaf sitemap in document order.
func parseLeaf(body []byte) ([]string, error) {
	var set urlSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("parse urlset: %w", err)
	}
	urls := make([]string, 0, len(set.URLs))
	for _, entry := range set.URLs {
		if loc := strings.TrimSpace(entry.Loc); loc != "" {
			urls = append(urls, loc)
		}
	}
	return urls, nil
}
