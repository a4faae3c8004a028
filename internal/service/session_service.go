package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/cardroom/table-time/internal/model"
	"github.com/cardroom/table-time/internal/queue"
	"github.com/cardroom/table-time/internal/repository"
	"github.com/cardroom/table-time/internal/seating"
)

// SessionPublishFunc delivers a session event to the message broker. Like
// seat events, failures are logged and ignored.
type SessionPublishFunc func(ctx context.Context, ev queue.SessionEndedEvent) error

// SessionService starts and ends table sessions. A table has at most one
// active session; starting a new one closes the previous session, its open
// timing intervals, and the seats bound to it, all in one transaction.
type SessionService struct {
	sessions SessionStore
	seats    SeatStore
	ledger   *TimeLedger
	runner   TxRunner
	timeout  time.Duration
	now      func() time.Time
	publish  SessionPublishFunc
}

// NewSessionService wires a session service. A nil clock defaults to
// time.Now, a zero timeout to five seconds, and a nil publish function
// disables event publishing.
func NewSessionService(sessions SessionStore, seats SeatStore, ledger *TimeLedger, runner TxRunner, timeout time.Duration, now func() time.Time, publish SessionPublishFunc) *SessionService {
	if now == nil {
		now = time.Now
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SessionService{sessions: sessions, seats: seats, ledger: ledger, runner: runner, timeout: timeout, now: now, publish: publish}
}

// Start opens a new session for a table, implicitly ending any prior active
// one.
func (s *SessionService) Start(ctx context.Context, tableID uint64, dealerID *uint64, name string) (*model.TableSession, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	now := s.now()
	sess := &model.TableSession{
		TableID:   tableID,
		DealerID:  dealerID,
		Name:      name,
		StartTime: now.UTC(),
	}
	err := s.runner.WithinTx(ctx, func(tx *sql.Tx) error {
		prior, err := s.sessions.ActiveByTable(ctx, tableID)
		switch {
		case err == nil:
			if err := s.closeTx(ctx, tx, prior, now); err != nil {
				return err
			}
		case errors.Is(err, repository.ErrSessionNotFound):
			// first session for this table
		default:
			return err
		}
		return s.sessions.CreateTx(ctx, tx, sess)
	})
	if err != nil {
		return nil, translateErr(err)
	}
	return sess, nil
}

// End closes a table's active session. Seats still occupied are opened and
// their timing intervals closed so no clock keeps running against a dead
// session. Returns repository.ErrSessionNotFound when nothing is active.
func (s *SessionService) End(ctx context.Context, tableID uint64) (*model.TableSession, error) {
	reqCtx := ctx
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sess, err := s.sessions.ActiveByTable(ctx, tableID)
	if err != nil {
		return nil, translateErr(err)
	}
	now := s.now()
	err = s.runner.WithinTx(ctx, func(tx *sql.Tx) error {
		return s.closeTx(ctx, tx, sess, now)
	})
	if err != nil {
		return nil, translateErr(err)
	}
	t := now.UTC()
	sess.IsActive = false
	sess.EndTime = &t
	sess.TotalTime = int64(now.Sub(sess.StartTime) / time.Second)

	if s.publish != nil {
		ev := queue.SessionEndedEvent{
			SessionID: sess.ID,
			TableID:   sess.TableID,
			TotalTime: sess.TotalTime,
			EndedAt:   t.Format(time.RFC3339),
		}
		if err := s.publish(reqCtx, ev); err != nil {
			log.Printf("session-service: publish session.ended failed: %v", err)
		}
	}
	return sess, nil
}

// Current returns a table's active session.
func (s *SessionService) Current(ctx context.Context, tableID uint64) (*model.TableSession, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	sess, err := s.sessions.ActiveByTable(ctx, tableID)
	return sess, translateErr(err)
}

func (s *SessionService) closeTx(ctx context.Context, tx *sql.Tx, sess *model.TableSession, now time.Time) error {
	if err := s.ledger.CloseSessionTx(ctx, tx, sess.ID); err != nil {
		return err
	}
	seats, err := s.seats.ListBySession(ctx, sess.ID)
	if err != nil {
		return err
	}
	for i := range seats {
		seat := &seats[i]
		if seat.PlayerID != nil {
			seat.Status = string(seating.StatusOpen)
			seat.PlayerID = nil
			seat.TimeStarted = nil
			seat.TimeElapsed = 0
			seat.SessionID = nil
			if err := s.seats.UpdateStateTx(ctx, tx, seat); err != nil {
				return err
			}
			continue
		}
		if err := s.seats.TouchSessionTx(ctx, tx, seat.ID, nil); err != nil {
			return err
		}
	}
	total := int64(now.Sub(sess.StartTime) / time.Second)
	if total < 0 {
		total = 0
	}
	return s.sessions.CloseTx(ctx, tx, sess.ID, now, total)
}
