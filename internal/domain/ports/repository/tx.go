package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

var NoTX interface{}

// TransactionManager provides a thin abstraction to execute a function within a
// database transaction, passing the underlying transaction handle via `tx`.
//
// Use-case interfaces stay clean (no transaction types leaking out), while
// repository methods that accept `qx any` can detect a tx handle and run
// their statements on it. The check-then-act operations (user registration,
// opening a sober period) run under pgx.Serializable via this interface.
//
// The concrete type of the handle is infra-defined (pgx.Tx for Postgres).
// Repositories MUST gracefully accept `nil` (non-transactional path).
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
