package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"DrawSentinel/internal/model"
)

// ErrNoPriceData means the source answered but had no usable price: the
// field was absent, not a number, zero or negative.
var ErrNoPriceData = errors.New("no price data")

// APIError is a non-200 answer from a price source.
type APIError struct {
	Source     string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status %d, body: %s", e.Source, e.StatusCode, e.Body)
}

// Fetcher defines the interface for fetching Bitcoin EUR prices.
type Fetcher interface {
	FetchCurrentPrice(ctx context.Context) (*model.PricePoint, error)
	// FetchHistoricalPrice returns the price recorded on date's calendar day.
	FetchHistoricalPrice(ctx context.Context, date time.Time) (*model.PricePoint, error)
	Name() string
}

func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
