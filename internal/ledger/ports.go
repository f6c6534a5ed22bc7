package ledger

import (
	"context"

	"gestor/internal/core"
)

// Ports consumed by the tracker. Store satisfies all of them.
type (
	TransactionWriter interface {
		Prepend(ctx context.Context, tx core.Transaction) error
	}

	TransactionReader interface {
		// Snapshot returns the history newest first. The slice is shared and
		// read-only: the store never mutates it after handing it out, and
		// callers must not mutate it either.
		Snapshot(ctx context.Context) ([]core.Transaction, error)
		Len() int
	}

	Ledger interface {
		TransactionWriter
		TransactionReader
	}
)
