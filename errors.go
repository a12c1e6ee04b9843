package wealth

import (
	"errors"
	"fmt"

	"github.com/etnz/wealth/date"
)

var (
	// ErrDataUnavailable is returned when a required price is missing.
	// It is never replaced by a default price.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrSourceRead is returned when a collaborator (spreadsheet, store,
	// price provider) cannot be read or returns malformed data.
	ErrSourceRead = errors.New("source read failure")

	// ErrEmptyDenominator is returned when a percentage is computed against a zero base.
	ErrEmptyDenominator = errors.New("empty denominator")
)

// PriceError reports a missing price for a security on a given day.
type PriceError struct {
	Symbol string
	On     date.Date
}

func (e *PriceError) Error() string {
	return fmt.Sprintf("no %s price on or before %s", e.Symbol, e.On)
}

// Unwrap makes PriceError match ErrDataUnavailable.
func (e *PriceError) Unwrap() error { return ErrDataUnavailable }

// SourceError wraps err as a read failure of 'what'.
func SourceError(what string, err error) error {
	if errors.Is(err, ErrSourceRead) {
		return fmt.Errorf("%s: %w", what, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrSourceRead, what, err)
}
