// Package report persists flagged image records as a CSV report with a
// fixed schema, appending incrementally so a crash mid-run loses no
// completed pages.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sitehealth/imagecheck/internal/scanner"
)

// Columns is the fixed report schema, in column order.
var Columns = []string{
	"page_url",
	"image_url",
	"image_alt",
	"status",
	"http_code",
	"content_selector",
	"scan_date",
}

// Sink appends records to a CSV report. Each append opens, writes and
// closes the file; nothing is buffered until the end of the run.
type Sink struct {
	path string
}

// Filename returns the report filename for a domain at a given time.
func Filename(domain string, t time.Time) string {
	return fmt.Sprintf("%s_image_report_%s.csv", domain, t.Format("20060102_150405"))
}

// NewSink creates the report file at path and writes the header row.
// Callers must not create a sink before at least one page URL is known;
// an empty run produces no file at all.
func NewSink(path string) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		return nil, fmt.Errorf("write report header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write report header: %w", err)
	}

	log.Info().Str("path", path).Msg("Report created")
	return &Sink{path: path}, nil
}

// Path returns the location of the report file.
func (s *Sink) Path() string {
	return s.path
}

// Append writes records to the end of the report in the order given.
func (s *Sink) Append(records []scanner.ImageRecord) error {
	if len(records) == 0 {
		return nil
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open report file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, r := range records {
		row := []string{
			r.PageURL,
			r.ImageURL,
			r.ImageAlt,
			string(r.Status),
			r.HTTPCode,
			r.ContentSelector,
			r.ScanDate,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write report row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush report rows: %w", err)
	}

	return nil
}
