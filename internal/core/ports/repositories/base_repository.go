package repositories

import (
	"context"
)

// Tx is the unit of work handed to RunInTx callbacks. A posting, its seal and
// its audit record are written through the same Tx so that either all of them
// become visible or none does.
type Tx interface {
	LedgerTxWriter
	IntegrityTxWriter
	AuditTxWriter
}

// TransactionManager defines methods for transaction management
type TransactionManager interface {
	// RunInTx runs fn inside one storage transaction. The transaction is
	// committed when fn returns nil and rolled back otherwise.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
