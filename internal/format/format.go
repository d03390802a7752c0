// Package format renders dates, times and EUR amounts the way the
// projection table and the bot messages display them.
package format

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const (
	dateLayout          = "02-01-2006"
	timeLayout          = "15:04"
	datetimeLocalLayout = "2006-01-02T15:04"
)

// Date formats t as dd-MM-yyyy.
func Date(t time.Time) string { return t.Format(dateLayout) }

// Time formats t as 24-hour HH:mm.
func Time(t time.Time) string { return t.Format(timeLayout) }

// Datetime formats t as dd-MM-yyyy HH:mm.
func Datetime(t time.Time) string { return Date(t) + " " + Time(t) }

// APIDate is the dd-mm-yyyy date the price history endpoint expects.
func APIDate(t time.Time) string { return t.Format(dateLayout) }

// DatetimeLocal is the value format of an HTML datetime-local input.
func DatetimeLocal(t time.Time) string { return t.Format(datetimeLocalLayout) }

// Currency formats amount as en-GB euros: €10,000.01, -€5.00.
// Rounds half away from zero to two places.
func Currency(amount decimal.Decimal) string {
	r := amount.Round(2)
	sign := ""
	if r.IsNegative() {
		sign = "-"
		r = r.Neg()
	}
	fixed := r.StringFixed(2)
	frac := fixed[strings.IndexByte(fixed, '.')+1:]
	return sign + "€" + humanize.BigComma(r.BigInt()) + "." + frac
}

// Percent formats a percentage with sign and two decimals, e.g. +12.50%.
func Percent(p decimal.Decimal) string {
	s := p.StringFixed(2)
	if !p.Round(2).IsNegative() {
		s = "+" + s
	}
	return s + "%"
}
