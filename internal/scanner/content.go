package scanner

import (
	"github.com/PuerkitoBio/goquery"
)

// contentSelectors is the priority-ordered list of selectors tried when
// locating a page's main content area, covering common theme
// conventions. Order matters: the first selector that matches decides
// which images are in scope for the audit.
var contentSelectors = []string{
	"#content",
	"#main-content",
	"#primary",
	".entry-content",
	".post-content",
	".page-content",
	".site-content",
	"article",
	"main",
}

// LocateContent returns the subtree judged to contain the page's main
// content, plus the identifier of the selector that matched. When no
// selector matches it falls back to the body element, or the whole
// document if there is no body.
func LocateContent(root *goquery.Selection) (*goquery.Selection, string) {
	for _, sel := range contentSelectors {
		if match := root.Find(sel).First(); match.Length() > 0 {
			return match, sel
		}
	}
	if body := root.Find("body").First(); body.Length() > 0 {
		return body, "body"
	}
	return root, "document"
}
