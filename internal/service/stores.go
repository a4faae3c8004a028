// Package service orchestrates the seating policy against persistence: the
// time ledger, the seat service and the session service. Services are built
// against small store interfaces so the transition and accounting logic can
// be exercised without a database.
package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cardroom/table-time/internal/model"
)

// ErrTimeout marks a persistence call that exceeded its deadline. No partial
// write happened, so callers may safely retry.
var ErrTimeout = errors.New("storage deadline exceeded")

// SeatStore is the seat-registry surface the services need.
type SeatStore interface {
	GetByID(ctx context.Context, id uint64) (*model.TableSeat, error)
	ListBySession(ctx context.Context, sessionID uint64) ([]model.TableSeat, error)
	UpdateStateTx(ctx context.Context, tx *sql.Tx, s *model.TableSeat) error
	TouchSessionTx(ctx context.Context, tx *sql.Tx, seatID uint64, sessionID *uint64) error
}

// PlayerStore is the player surface the services need.
type PlayerStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Player, error)
	CreateTx(ctx context.Context, tx *sql.Tx, p *model.Player) error
	AddPlayTimeTx(ctx context.Context, tx *sql.Tx, playerID uint64, seconds int64, playedAt time.Time) error
}

// TimeRecordStore is the timing-interval surface the ledger needs.
type TimeRecordStore interface {
	Open(ctx context.Context, playerID, seatID uint64) (*model.PlayerTimeRecord, error)
	OpenByPlayer(ctx context.Context, playerID uint64) (*model.PlayerTimeRecord, error)
	ListOpenBySession(ctx context.Context, sessionID uint64) ([]model.PlayerTimeRecord, error)
	CreateTx(ctx context.Context, tx *sql.Tx, rec *model.PlayerTimeRecord) error
	CloseTx(ctx context.Context, tx *sql.Tx, id uint64, end time.Time, durationSec int64) error
	SumClosed(ctx context.Context, playerID uint64, sessionID *uint64) (int64, error)
}

// SessionStore is the table-session surface the services need.
type SessionStore interface {
	ActiveByTable(ctx context.Context, tableID uint64) (*model.TableSession, error)
	CreateTx(ctx context.Context, tx *sql.Tx, s *model.TableSession) error
	CloseTx(ctx context.Context, tx *sql.Tx, id uint64, end time.Time, totalSec int64) error
}

// TxRunner runs a function inside one database transaction. The ledger
// writes and the seat write of a transition share a transaction so a failed
// seat write rolls the ledger back with it.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// SQLTxRunner is the production TxRunner over a *sql.DB.
type SQLTxRunner struct{ DB *sql.DB }

// WithinTx begins a transaction, runs fn, and commits, rolling back when fn
// or the commit fails.
func (r SQLTxRunner) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// translateErr maps context deadline failures onto ErrTimeout so handlers
// can answer 503 uniformly. Other errors pass through untouched.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}
