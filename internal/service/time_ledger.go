package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cardroom/table-time/internal/model"
	"github.com/cardroom/table-time/internal/repository"
)

// TimeLedger tracks player timing intervals and accumulated totals. It is an
// explicit instance owned by whoever constructs it; there is no package-level
// state. Durations are whole seconds, truncated, never rounded.
type TimeLedger struct {
	records TimeRecordStore
	players PlayerStore
	now     func() time.Time
}

// NewTimeLedger builds a ledger over the given stores. A nil clock defaults
// to time.Now; tests inject a fake.
func NewTimeLedger(records TimeRecordStore, players PlayerStore, now func() time.Time) *TimeLedger {
	if now == nil {
		now = time.Now
	}
	return &TimeLedger{records: records, players: players, now: now}
}

// StartTimingTx opens a timing interval for a player in a seat. If an open
// record already exists for this player+seat the call is a no-op, so
// resubmitted transitions never double-open an interval.
func (l *TimeLedger) StartTimingTx(ctx context.Context, tx *sql.Tx, playerID, seatID uint64, sessionID *uint64) error {
	_, err := l.records.Open(ctx, playerID, seatID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrTimeRecordNotFound) {
		return err
	}
	rec := &model.PlayerTimeRecord{
		PlayerID:  playerID,
		SeatID:    seatID,
		SessionID: sessionID,
		StartTime: l.now().UTC(),
	}
	return l.records.CreateTx(ctx, tx, rec)
}

// StopTimingTx closes the open interval for a player+seat and folds its
// duration into the player's persisted total. A stop without a matching
// start is a no-op returning zero; it must never fail the transition.
func (l *TimeLedger) StopTimingTx(ctx context.Context, tx *sql.Tx, playerID, seatID uint64) (int64, error) {
	rec, err := l.records.Open(ctx, playerID, seatID)
	if err != nil {
		if errors.Is(err, repository.ErrTimeRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	now := l.now()
	dur := int64(now.Sub(rec.StartTime) / time.Second)
	if dur < 0 {
		dur = 0
	}
	if err := l.records.CloseTx(ctx, tx, rec.ID, now, dur); err != nil {
		return 0, err
	}
	if err := l.players.AddPlayTimeTx(ctx, tx, playerID, dur, now); err != nil {
		return 0, err
	}
	return dur, nil
}

// CloseSessionTx closes every interval still open under a session, updating
// each player's total. Used when a table session ends while seats are still
// occupied.
func (l *TimeLedger) CloseSessionTx(ctx context.Context, tx *sql.Tx, sessionID uint64) error {
	recs, err := l.records.ListOpenBySession(ctx, sessionID)
	if err != nil {
		return err
	}
	now := l.now()
	for _, rec := range recs {
		dur := int64(now.Sub(rec.StartTime) / time.Second)
		if dur < 0 {
			dur = 0
		}
		if err := l.records.CloseTx(ctx, tx, rec.ID, now, dur); err != nil {
			return err
		}
		if err := l.players.AddPlayTimeTx(ctx, tx, rec.PlayerID, dur, now); err != nil {
			return err
		}
	}
	return nil
}

// ElapsedSeconds returns a player's accumulated seconds: closed intervals
// (scoped to a session when one is given) plus the live open interval, if
// any. It is a pure read, cheap enough for once-a-second UI polling.
func (l *TimeLedger) ElapsedSeconds(ctx context.Context, playerID uint64, sessionID *uint64) (int64, error) {
	total, err := l.records.SumClosed(ctx, playerID, sessionID)
	if err != nil {
		return 0, err
	}
	rec, err := l.records.OpenByPlayer(ctx, playerID)
	if err != nil {
		if errors.Is(err, repository.ErrTimeRecordNotFound) {
			return total, nil
		}
		return 0, err
	}
	live := int64(l.now().Sub(rec.StartTime) / time.Second)
	if live > 0 {
		total += live
	}
	return total, nil
}
