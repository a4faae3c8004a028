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

// SeatChange carries the dealer's inputs for a status change.
type SeatChange struct {
	SelectedPlayerID *uint64
	NewPlayerName    string
	ClubID           uint64
}

// PublishFunc delivers a seat event to the message broker. Publish failures
// are logged and ignored; events are advisory, the database is the truth.
type PublishFunc func(ctx context.Context, ev queue.SeatStatusChangedEvent) error

// SeatService is the single entry point for seat status changes. It loads
// the seat, asks the transition policy, and applies the accepted decision
// (player creation, ledger actions and the guarded seat write) in one
// database transaction.
type SeatService struct {
	seats    SeatStore
	players  PlayerStore
	sessions SessionStore
	ledger   *TimeLedger
	runner   TxRunner
	timeout  time.Duration
	now      func() time.Time
	publish  PublishFunc
}

// NewSeatService wires a seat service. A nil clock defaults to time.Now,
// a zero timeout to five seconds, and a nil publish function disables
// event publishing.
func NewSeatService(seats SeatStore, players PlayerStore, sessions SessionStore, ledger *TimeLedger, runner TxRunner, timeout time.Duration, now func() time.Time, publish PublishFunc) *SeatService {
	if now == nil {
		now = time.Now
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SeatService{
		seats:    seats,
		players:  players,
		sessions: sessions,
		ledger:   ledger,
		runner:   runner,
		timeout:  timeout,
		now:      now,
		publish:  publish,
	}
}

// ChangeSeatStatus moves a seat to the target status. Policy rejections
// (seating.ErrInvalidTransition, seating.ErrPlayerRequired) and lookup
// failures (repository.ErrSeatNotFound, repository.ErrPlayerNotFound) come
// back unwrapped for the handler to map; a rejected or failed change never
// partially mutates the seat.
func (s *SeatService) ChangeSeatStatus(ctx context.Context, seatID uint64, targetStatus string, chg SeatChange) (*model.TableSeat, error) {
	target, err := seating.ParseStatus(targetStatus)
	if err != nil {
		return nil, err
	}

	reqCtx := ctx
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	seat, err := s.seats.GetByID(ctx, seatID)
	if err != nil {
		return nil, translateErr(err)
	}
	current, err := seating.ParseStatus(seat.Status)
	if err != nil {
		return nil, err
	}

	dec, err := seating.Decide(current, seat.PlayerID, target, seating.ChangeContext{
		SelectedPlayerID: chg.SelectedPlayerID,
		NewPlayerName:    chg.NewPlayerName,
		ClubID:           chg.ClubID,
	})
	if err != nil {
		return nil, err
	}

	// A newly selected occupant must exist before we commit anything.
	if dec.PlayerID != nil && (seat.PlayerID == nil || *dec.PlayerID != *seat.PlayerID) {
		if _, err := s.players.GetByID(ctx, *dec.PlayerID); err != nil {
			return nil, translateErr(err)
		}
	}

	prevStatus := seat.Status
	now := s.now()
	err = s.runner.WithinTx(ctx, func(tx *sql.Tx) error {
		occupant := dec.PlayerID
		if dec.NeedsNewPlayer {
			p := &model.Player{ClubID: chg.ClubID, Name: chg.NewPlayerName}
			if err := s.players.CreateTx(ctx, tx, p); err != nil {
				return err
			}
			occupant = &p.ID
		}

		if dec.StopTiming != nil {
			dur, err := s.ledger.StopTimingTx(ctx, tx, *dec.StopTiming, seat.ID)
			if err != nil {
				return err
			}
			seat.TimeElapsed += dur
		}
		// The per-seat counter follows one occupancy; it restarts when the
		// occupant changes or the seat is vacated.
		if !samePlayer(seat.PlayerID, occupant) {
			seat.TimeElapsed = 0
			seat.TimeStarted = nil
		}

		if dec.StartTiming && occupant != nil {
			if seat.SessionID == nil {
				sess, err := s.sessions.ActiveByTable(ctx, seat.TableID)
				switch {
				case err == nil:
					seat.SessionID = &sess.ID
				case errors.Is(err, repository.ErrSessionNotFound):
					// timing runs unscoped until a session starts
				default:
					return err
				}
			}
			if err := s.ledger.StartTimingTx(ctx, tx, *occupant, seat.ID, seat.SessionID); err != nil {
				return err
			}
			t := now
			seat.TimeStarted = &t
		}

		seat.Status = string(target)
		seat.PlayerID = occupant
		return s.seats.UpdateStateTx(ctx, tx, seat)
	})
	if err != nil {
		return nil, translateErr(err)
	}

	if s.publish != nil {
		ev := queue.SeatStatusChangedEvent{
			SeatID:     seat.ID,
			TableID:    seat.TableID,
			Position:   seat.Position,
			FromStatus: prevStatus,
			ToStatus:   seat.Status,
			PlayerID:   seat.PlayerID,
			ChangedAt:  now.UTC().Format(time.RFC3339),
		}
		if err := s.publish(reqCtx, ev); err != nil {
			log.Printf("seat-service: publish seat.status_changed failed: %v", err)
		}
	}
	return seat, nil
}

// ElapsedSeconds exposes the ledger's live read for the polling endpoint.
func (s *SeatService) ElapsedSeconds(ctx context.Context, playerID uint64, sessionID *uint64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	n, err := s.ledger.ElapsedSeconds(ctx, playerID, sessionID)
	return n, translateErr(err)
}

func samePlayer(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
