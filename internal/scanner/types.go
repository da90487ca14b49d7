package scanner

import "time"

// Status classifies the health of a probed image link, or of the page
// itself when it could not be fetched.
type Status string

const (
	// StatusOK means the image responded 200. OK images never appear
	// in the report.
	StatusOK Status = "OK"
	// StatusProbablyOK means the image responded 301. A redirect may be
	// a harmless canonicalisation or a broken link hidden behind a
	// rewrite, so it is flagged for manual review rather than resolved.
	StatusProbablyOK Status = "PROBABLY_OK"
	// StatusBroken means any other response code, or a transport
	// failure reaching the image.
	StatusBroken Status = "BROKEN"
	// StatusPageError means the page itself could not be fetched; no
	// images were scanned for it.
	StatusPageError Status = "PAGE_ERROR"
)

// Sentinel values for record fields with no meaningful value.
const (
	CodeConnectionFailed = "Connection failed"
	NotApplicable        = "N/A"
)

// recordTimeFormat is the scan_date format used in report rows.
const recordTimeFormat = "2006-01-02 15:04:05"

// ImageRecord is one row of the audit report. Records are created only
// for images that need attention and are immutable once created.
type ImageRecord struct {
	PageURL         string
	ImageURL        string
	ImageAlt        string
	Status          Status
	HTTPCode        string
	ContentSelector string
	ScanDate        string
}

// ImageRef is an image found in a page's content area: its absolute
// URL and alt text, in document order.
type ImageRef struct {
	URL string
	Alt string
}

func timestamp() string {
	return time.Now().Format(recordTimeFormat)
}
