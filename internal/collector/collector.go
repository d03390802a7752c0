package collector

import (
	"context"
	"sync"
	"time"

	"DrawSentinel/internal/format"
	"DrawSentinel/internal/model"

	"github.com/shopspring/decimal"
)

// MockFetcher returns controllable fixed prices for development and testing.
// A zero price is reported as ErrNoPriceData, like an empty upstream answer.
type MockFetcher struct {
	mu sync.Mutex

	Current decimal.Decimal
	// Historical is keyed by dd-mm-yyyy; dates not listed get DefaultHistorical.
	Historical        map[string]decimal.Decimal
	DefaultHistorical decimal.Decimal
	Err               error

	CurrentCalls    int
	HistoricalCalls int
}

// NewDevMockFetcher returns a mock with plausible prices for running the
// server without network access.
func NewDevMockFetcher() *MockFetcher {
	return &MockFetcher{
		Current:           decimal.NewFromInt(22794),
		DefaultHistorical: decimal.RequireFromString("19876.54"),
		Historical: map[string]decimal.Decimal{
			"06-08-2022": decimal.RequireFromString("22905.17"),
			"10-08-2022": decimal.RequireFromString("23362.98"),
			"07-08-2013": decimal.RequireFromString("72.8867"),
		},
	}
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchCurrentPrice(_ context.Context) (*model.PricePoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CurrentCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.point(m.Current, time.Now(), model.PriceCurrent)
}

func (m *MockFetcher) FetchHistoricalPrice(_ context.Context, date time.Time) (*model.PricePoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.HistoricalCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	amount, ok := m.Historical[format.APIDate(date)]
	if !ok {
		amount = m.DefaultHistorical
	}
	return m.point(amount, date, model.PriceHistorical)
}

func (m *MockFetcher) point(amount decimal.Decimal, at time.Time, kind model.PriceKind) (*model.PricePoint, error) {
	if !amount.IsPositive() {
		return nil, ErrNoPriceData
	}
	return &model.PricePoint{
		Amount:   amount,
		Currency: model.Currency,
		At:       at,
		Kind:     kind,
		Source:   m.Name(),
	}, nil
}
