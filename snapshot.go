package wealth

import "context"

// SnapshotSource gives access to the real portfolio.
type SnapshotSource interface {
	// Aggregate returns the current cost and market value of all holdings.
	Aggregate(ctx context.Context) (Aggregate, error)
	// Transactions returns the chronological buy log, already restricted to
	// buy-side events with a non zero amount and a valid date.
	Transactions(ctx context.Context) ([]Transaction, error)
	// Holdings returns the current holdings, one per line of the portfolio.
	Holdings(ctx context.Context) ([]Holding, error)
}
