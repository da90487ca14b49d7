package scanner

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// CollectImages returns the images inside the content subtree in
// document order. Images without a src attribute are skipped without
// emitting anything; relative sources are resolved against the page
// URL. Alt text defaults to an empty string when absent.
func CollectImages(content *goquery.Selection, pageURL string) []ImageRef {
	base, err := url.Parse(pageURL)
	if err != nil {
		log.Warn().Err(err).Str("page_url", pageURL).Msg("Invalid page URL, cannot resolve image sources")
		base = nil
	}

	var images []ImageRef
	content.Find("img").Each(func(_ int, s *goquery.Selection) {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if src == "" {
			return
		}

		absolute := src
		if base != nil {
			if ref, err := url.Parse(src); err == nil {
				absolute = base.ResolveReference(ref).String()
			}
		}

		images = append(images, ImageRef{
			URL: absolute,
			Alt: s.AttrOr("alt", ""),
		})
	})

	return images
}
