package driven

import "context"

// Transactor runs a unit of work atomically.
// Stores called with the ctx passed to fn take part in the same transaction.
// When fn returns an error every write made through that ctx is rolled back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
