package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Row is one line of the projection table.
type Row struct {
	ID              uuid.UUID       `json:"id"`
	InputAt         time.Time       `json:"input_at"`
	Draw            time.Time       `json:"draw"`
	ReferencePrice  PricePoint      `json:"reference_price"`
	HistoricalPrice PricePoint      `json:"historical_price"`
	Stake           decimal.Decimal `json:"stake"`
	Projected       decimal.Decimal `json:"projected"`
	CreatedAt       time.Time       `json:"created_at"`
}

