package collector

import (
	"context"
	"errors"
	"log"
	"time"

	"DrawSentinel/internal/format"
	"DrawSentinel/internal/metrics"
	"DrawSentinel/internal/model"
	"DrawSentinel/internal/recorder"
)

// CachedFetcher serves historical prices from a Recorder before asking the
// wrapped Fetcher. Current prices always go upstream. Cache failures are
// logged and bypassed.
type CachedFetcher struct {
	Fetcher
	Recorder recorder.Recorder
}

// NewCachedFetcher wraps f with rec.
func NewCachedFetcher(f Fetcher, rec recorder.Recorder) *CachedFetcher {
	return &CachedFetcher{Fetcher: f, Recorder: rec}
}

func (c *CachedFetcher) FetchHistoricalPrice(ctx context.Context, date time.Time) (*model.PricePoint, error) {
	key := format.APIDate(date)

	p, err := c.Recorder.LookupHistorical(ctx, key)
	switch {
	case err == nil && p.Amount.IsPositive():
		metrics.ObserveCache(metrics.ResultHit)
		p.At = date
		return p, nil
	case err == nil:
		metrics.ObserveCache(metrics.ResultMiss)
		log.Printf("[WARN] price cache %s holds unusable amount %s, refetching", key, p.Amount)
	case errors.Is(err, recorder.ErrNotFound):
		metrics.ObserveCache(metrics.ResultMiss)
	default:
		metrics.ObserveCache(metrics.ResultError)
		log.Printf("[WARN] price cache lookup %s: %v", key, err)
	}

	p, err = c.Fetcher.FetchHistoricalPrice(ctx, date)
	if err != nil {
		return nil, err
	}
	if err := c.Recorder.RecordHistorical(ctx, key, p); err != nil {
		log.Printf("[WARN] price cache record %s: %v", key, err)
	}
	return p, nil
}
