package scanner

import (
	"context"
	"crypto/tls"
	"net/http"
	"strconv"
	"time"
)

// Classifier probes image URLs with header-only requests and maps the
// raw server response to a status. Redirects are never followed and
// certificate validation is disabled: the operator should see the
// server's actual answer, and a misconfigured certificate is not a
// broken link.
type Classifier struct {
	client    *http.Client
	userAgent string
}

// NewClassifier creates a Classifier with the given probe timeout.
func NewClassifier(timeout time.Duration, userAgent string) *Classifier {
	return &Classifier{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		userAgent: userAgent,
	}
}

// Classify issues a single HEAD request against imageURL and returns
// the status with the response code as a string. 200 is OK, 301 is
// PROBABLY_OK, anything else is BROKEN; a transport failure is BROKEN
// with a sentinel code. Exactly one attempt, no retries.
func (c *Classifier) Classify(ctx context.Context, imageURL string) (Status, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, imageURL, nil)
	if err != nil {
		return StatusBroken, CodeConnectionFailed
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return StatusBroken, CodeConnectionFailed
	}
	defer resp.Body.Close()

	code := strconv.Itoa(resp.StatusCode)
	switch resp.StatusCode {
	case http.StatusOK:
		return StatusOK, code
	case http.StatusMovedPermanently:
		return StatusProbablyOK, code
	default:
		return StatusBroken, code
	}
}
