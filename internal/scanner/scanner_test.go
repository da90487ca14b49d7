package scanner

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitehealth/imagecheck/internal/config"
)

func testScanner() *Scanner {
	cfg := config.Default()
	cfg.PageTimeout = 5 * time.Second
	cfg.ProbeTimeout = 2 * time.Second
	return New(cfg)
}

func TestScanPageFlagsBrokenAndDropsHealthy(t *testing.T) {
	// One healthy relative image, one broken CDN image.
	var ts *httptest.Server
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/post/":
			fmt.Fprintf(w, `<html><body><div id="content">
				<img src="/a.jpg" alt="fine">
				<img src="%s/missing/b.jpg" alt="gone">
			</div></body></html>`, ts.URL)
		case "/a.jpg":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	records := testScanner().ScanPage(context.Background(), ts.URL+"/post/")

	require.Len(t, records, 1)
	assert.Equal(t, ts.URL+"/missing/b.jpg", records[0].ImageURL)
	assert.Equal(t, "gone", records[0].ImageAlt)
	assert.Equal(t, StatusBroken, records[0].Status)
	assert.Equal(t, "404", records[0].HTTPCode)
	assert.Equal(t, "#content", records[0].ContentSelector)
	assert.Equal(t, ts.URL+"/post/", records[0].PageURL)
	assert.NotEmpty(t, records[0].ScanDate)
}

func TestScanPageFlagsRedirectForReview(t *testing.T) {
	var ts *httptest.Server
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/post/":
			fmt.Fprint(w, `<html><body><main><img src="/moved.jpg"></main></body></html>`)
		case "/moved.jpg":
			w.Header().Set("Location", "/new-home.jpg")
			w.WriteHeader(http.StatusMovedPermanently)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	records := testScanner().ScanPage(context.Background(), ts.URL+"/post/")

	require.Len(t, records, 1)
	assert.Equal(t, StatusProbablyOK, records[0].Status)
	assert.Equal(t, "301", records[0].HTTPCode)
	assert.Equal(t, "main", records[0].ContentSelector)
}

func TestScanPageFetchFailureEmitsSinglePageError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // connection refused

	records := testScanner().ScanPage(context.Background(), ts.URL+"/post/")

	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, StatusPageError, rec.Status)
	assert.Equal(t, ts.URL+"/post/", rec.PageURL)
	assert.Equal(t, NotApplicable, rec.ImageURL)
	assert.Equal(t, NotApplicable, rec.ImageAlt)
	assert.Equal(t, NotApplicable, rec.HTTPCode)
	assert.Equal(t, NotApplicable, rec.ContentSelector)
}

func TestScanPageImagesWithoutSrcIgnored(t *testing.T) {
	var probes int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/post/" {
			fmt.Fprint(w, `<html><body><main><img alt="no src here"></main></body></html>`)
			return
		}
		probes++
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	records := testScanner().ScanPage(context.Background(), ts.URL+"/post/")

	assert.Empty(t, records)
	assert.Zero(t, probes, "an image without src must never be probed")
}

func TestScanPageErrorStatusBodyStillScanned(t *testing.T) {
	// A page served with a 404 status but an HTML body is still
	// audited; only transport failures count as page errors.
	var ts *httptest.Server
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ghost/":
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `<html><body><main><img src="/broken.jpg"></main></body></html>`)
		default:
			w.WriteHeader(http.StatusGone)
		}
	}))
	defer ts.Close()

	records := testScanner().ScanPage(context.Background(), ts.URL+"/ghost/")

	require.Len(t, records, 1)
	assert.Equal(t, StatusBroken, records[0].Status)
	assert.Equal(t, "410", records[0].HTTPCode)
}

func TestScanPageRecordsKeepDocumentOrder(t *testing.T) {
	var ts *httptest.Server
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/post/" {
			fmt.Fprint(w, `<html><body><main>
				<img src="/one.jpg">
				<img src="/two.jpg">
				<img src="/three.jpg">
			</main></body></html>`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	records := testScanner().ScanPage(context.Background(), ts.URL+"/post/")

	require.Len(t, records, 3)
	assert.Equal(t, ts.URL+"/one.jpg", records[0].ImageURL)
	assert.Equal(t, ts.URL+"/two.jpg", records[1].ImageURL)
	assert.Equal(t, ts.URL+"/three.jpg", records[2].ImageURL)
}
