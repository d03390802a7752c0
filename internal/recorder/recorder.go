package recorder

import (
	"context"
	"errors"

	"DrawSentinel/internal/model"
)

// ErrNotFound is returned on a cache miss.
var ErrNotFound = errors.New("not found")

// Recorder keeps historical prices that were already fetched, keyed by the
// dd-mm-yyyy date they were requested for. A past day's price never changes,
// so entries never expire. User rows are never stored here.
type Recorder interface {
	LookupHistorical(ctx context.Context, date string) (*model.PricePoint, error)
	RecordHistorical(ctx context.Context, date string, p *model.PricePoint) error
	Close() error
}
