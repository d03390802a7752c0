package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is the quote currency of every price and amount in the system.
const Currency = "EUR"

// Asset is the coin whose price is tracked.
const Asset = "bitcoin"

// Stake is the fixed amount hypothetically invested at each draw.
var Stake = decimal.NewFromInt(100)

// PriceKind tells a live quote apart from a historical one.
type PriceKind string

const (
	PriceCurrent    PriceKind = "current"
	PriceHistorical PriceKind = "historical"
)

// PricePoint is a Bitcoin price observed at a given instant.
type PricePoint struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	At       time.Time       `json:"at"`
	Kind     PriceKind       `json:"kind"`
	Source   string          `json:"source"`
}
