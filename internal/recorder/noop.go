package recorder

import (
	"context"

	"DrawSentinel/internal/model"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) LookupHistorical(_ context.Context, _ string) (*model.PricePoint, error) {
	return nil, ErrNotFound
}

func (n *NoopRecorder) RecordHistorical(_ context.Context, _ string, _ *model.PricePoint) error {
	return nil
}

func (n *NoopRecorder) Close() error { return nil }
