package tracker

import (
	"errors"
	"time"

	"DrawSentinel/internal/format"
)

// ErrBusy is returned while a previous submit is in flight or cooling down.
var ErrBusy = errors.New("a projection is already in progress, try again in a moment")

// UnavailablePriceError reports a draw for which no usable price exists,
// either at the draw date or for the current reference price.
type UnavailablePriceError struct {
	Draw time.Time
	Err  error
}

func (e *UnavailablePriceError) Error() string {
	return "no bitcoin price found for the next draw date: " + format.Datetime(e.Draw)
}

func (e *UnavailablePriceError) Unwrap() error { return e.Err }
