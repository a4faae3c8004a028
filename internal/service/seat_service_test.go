package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cardroom/table-time/internal/model"
	"github.com/cardroom/table-time/internal/queue"
	"github.com/cardroom/table-time/internal/repository"
	"github.com/cardroom/table-time/internal/seating"
)

type seatFixture struct {
	svc      *SeatService
	seats    *fakeSeats
	players  *fakePlayers
	records  *fakeRecords
	sessions *fakeSessions
	clock    *fakeClock
	events   []queue.SeatStatusChangedEvent
}

func newSeatFixture(seat model.TableSeat, players ...model.Player) *seatFixture {
	f := &seatFixture{
		seats:    newFakeSeats(seat),
		players:  newFakePlayers(players...),
		records:  newFakeRecords(),
		sessions: newFakeSessions(),
		clock:    newFakeClock(),
	}
	ledger := NewTimeLedger(f.records, f.players, f.clock.Now)
	f.svc = NewSeatService(f.seats, f.players, f.sessions, ledger, fakeRunner{}, 0, f.clock.Now,
		func(ctx context.Context, ev queue.SeatStatusChangedEvent) error {
			f.events = append(f.events, ev)
			return nil
		})
	return f
}

func openSeat() model.TableSeat {
	return model.TableSeat{ID: 7, TableID: 3, Position: 2, Status: string(seating.StatusOpen)}
}

func (f *seatFixture) change(t *testing.T, target string, chg SeatChange) *model.TableSeat {
	t.Helper()
	seat, err := f.svc.ChangeSeatStatus(context.Background(), 7, target, chg)
	if err != nil {
		t.Fatalf("change to %s: %v", target, err)
	}
	return seat
}

// The canonical shift: seat a walk-in, play, pause, resume, vacate.
func TestSeatLifecycle(t *testing.T) {
	f := newSeatFixture(openSeat())
	ctx := context.Background()

	seat := f.change(t, "Playing", SeatChange{NewPlayerName: "Ana", ClubID: 1})
	if seat.PlayerID == nil {
		t.Fatal("seat has no occupant after seating")
	}
	ana := *seat.PlayerID
	if p, err := f.players.GetByID(ctx, ana); err != nil || p.Name != "Ana" {
		t.Fatalf("walk-in not registered: %v", err)
	}
	if seat.TimeStarted == nil {
		t.Fatal("time_started not set on entering Playing")
	}
	if n := f.records.openCount(); n != 1 {
		t.Fatalf("open records = %d, want 1", n)
	}

	f.clock.Advance(10 * time.Second)
	seat = f.change(t, "Break", SeatChange{})
	if seat.PlayerID == nil || *seat.PlayerID != ana {
		t.Fatal("pause must keep the occupant")
	}
	if seat.TimeElapsed != 10 {
		t.Fatalf("time_elapsed = %d, want 10", seat.TimeElapsed)
	}
	if n := f.records.openCount(); n != 0 {
		t.Fatalf("open records = %d after pause, want 0", n)
	}
	p, _ := f.players.GetByID(ctx, ana)
	if p.TotalPlayTime != 10 {
		t.Fatalf("total play time = %d, want 10", p.TotalPlayTime)
	}

	f.clock.Advance(2 * time.Minute) // break time does not accrue
	seat = f.change(t, "Playing", SeatChange{})
	if n := f.records.openCount(); n != 1 {
		t.Fatalf("open records = %d after resume, want 1", n)
	}

	f.clock.Advance(5 * time.Second)
	seat = f.change(t, "Open", SeatChange{})
	if seat.PlayerID != nil {
		t.Fatal("vacated seat still has an occupant")
	}
	if seat.TimeElapsed != 0 {
		t.Fatalf("time_elapsed = %d after vacate, want 0", seat.TimeElapsed)
	}
	p, _ = f.players.GetByID(ctx, ana)
	if p.TotalPlayTime != 15 {
		t.Fatalf("total play time = %d, want 15", p.TotalPlayTime)
	}
	if n := f.records.openCount(); n != 0 {
		t.Fatalf("open records = %d after vacate, want 0", n)
	}
}

func TestSeatExistingPlayer(t *testing.T) {
	f := newSeatFixture(openSeat(), model.Player{ID: 42, ClubID: 1, Name: "Béla"})

	seat := f.change(t, "Playing", SeatChange{SelectedPlayerID: uptr(42)})
	if seat.PlayerID == nil || *seat.PlayerID != 42 {
		t.Fatalf("occupant = %v, want 42", seat.PlayerID)
	}
	if seat.Status != string(seating.StatusPlaying) {
		t.Fatalf("status = %s, want Playing", seat.Status)
	}
}

func TestSeatUnknownPlayerRejected(t *testing.T) {
	f := newSeatFixture(openSeat())

	_, err := f.svc.ChangeSeatStatus(context.Background(), 7, "Playing", SeatChange{SelectedPlayerID: uptr(99)})
	if !errors.Is(err, repository.ErrPlayerNotFound) {
		t.Fatalf("err = %v, want ErrPlayerNotFound", err)
	}
	// A rejected change never mutates the seat.
	stored, _ := f.seats.GetByID(context.Background(), 7)
	if stored.Status != string(seating.StatusOpen) || stored.PlayerID != nil {
		t.Fatalf("seat mutated on rejection: %+v", stored)
	}
}

func TestSeatPlayerRequired(t *testing.T) {
	f := newSeatFixture(openSeat())

	_, err := f.svc.ChangeSeatStatus(context.Background(), 7, "Playing", SeatChange{})
	if !errors.Is(err, seating.ErrPlayerRequired) {
		t.Fatalf("err = %v, want ErrPlayerRequired", err)
	}
}

func TestSeatInvalidTransition(t *testing.T) {
	closed := openSeat()
	closed.Status = string(seating.StatusClosed)
	f := newSeatFixture(closed, model.Player{ID: 42, ClubID: 1, Name: "Béla"})

	_, err := f.svc.ChangeSeatStatus(context.Background(), 7, "Playing", SeatChange{SelectedPlayerID: uptr(42)})
	if !errors.Is(err, seating.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestSeatUnknownStatusRejected(t *testing.T) {
	f := newSeatFixture(openSeat())

	if _, err := f.svc.ChangeSeatStatus(context.Background(), 7, "Lurking", SeatChange{}); err == nil {
		t.Fatal("unknown status accepted")
	}
}

func TestSeatResubmitPlayingIsIdempotent(t *testing.T) {
	f := newSeatFixture(openSeat(), model.Player{ID: 42, ClubID: 1, Name: "Béla"})

	f.change(t, "Playing", SeatChange{SelectedPlayerID: uptr(42)})
	f.clock.Advance(3 * time.Second)
	seat := f.change(t, "Playing", SeatChange{SelectedPlayerID: uptr(42)})

	if seat.PlayerID == nil || *seat.PlayerID != 42 {
		t.Fatalf("occupant = %v, want 42", seat.PlayerID)
	}
	if n := f.records.openCount(); n != 1 {
		t.Fatalf("open records = %d, want 1 (no double-open)", n)
	}
}

func TestSeatSwitchOccupantWhilePlaying(t *testing.T) {
	f := newSeatFixture(openSeat(),
		model.Player{ID: 42, ClubID: 1, Name: "Béla"},
		model.Player{ID: 43, ClubID: 1, Name: "Cili"},
	)
	ctx := context.Background()

	f.change(t, "Playing", SeatChange{SelectedPlayerID: uptr(42)})
	f.clock.Advance(10 * time.Second)
	seat := f.change(t, "Playing", SeatChange{SelectedPlayerID: uptr(43)})

	if seat.PlayerID == nil || *seat.PlayerID != 43 {
		t.Fatalf("occupant = %v, want 43", seat.PlayerID)
	}
	if seat.TimeElapsed != 0 {
		t.Fatalf("time_elapsed = %d for new occupant, want 0", seat.TimeElapsed)
	}
	prev, _ := f.players.GetByID(ctx, 42)
	if prev.TotalPlayTime != 10 {
		t.Fatalf("previous occupant total = %d, want 10", prev.TotalPlayTime)
	}
	rec, err := f.records.OpenByPlayer(ctx, 43)
	if err != nil {
		t.Fatalf("no open record for new occupant: %v", err)
	}
	if rec.SeatID != 7 {
		t.Fatalf("open record seat = %d, want 7", rec.SeatID)
	}
}

func TestSeatVersionConflictSurfaces(t *testing.T) {
	f := newSeatFixture(openSeat(), model.Player{ID: 42, ClubID: 1, Name: "Béla"})
	f.seats.updateErr = repository.ErrVersionConflict

	_, err := f.svc.ChangeSeatStatus(context.Background(), 7, "Playing", SeatChange{SelectedPlayerID: uptr(42)})
	if !errors.Is(err, repository.ErrVersionConflict) {
		t.Fatalf("err = %v, want ErrVersionConflict", err)
	}
}

func TestSeatChangePublishesEvent(t *testing.T) {
	f := newSeatFixture(openSeat(), model.Player{ID: 42, ClubID: 1, Name: "Béla"})

	f.change(t, "Playing", SeatChange{SelectedPlayerID: uptr(42)})
	if len(f.events) != 1 {
		t.Fatalf("events = %d, want 1", len(f.events))
	}
	ev := f.events[0]
	if ev.SeatID != 7 || ev.TableID != 3 || ev.Position != 2 {
		t.Fatalf("event identity wrong: %+v", ev)
	}
	if ev.FromStatus != "Open" || ev.ToStatus != "Playing" {
		t.Fatalf("event statuses = %s -> %s, want Open -> Playing", ev.FromStatus, ev.ToStatus)
	}
	if ev.PlayerID == nil || *ev.PlayerID != 42 {
		t.Fatalf("event player = %v, want 42", ev.PlayerID)
	}
}

func TestSeatTimingBindsToActiveSession(t *testing.T) {
	f := newSeatFixture(openSeat(), model.Player{ID: 42, ClubID: 1, Name: "Béla"})
	sess := model.TableSession{ID: 501, TableID: 3, IsActive: true, StartTime: f.clock.Now()}
	f.sessions.byID[sess.ID] = sess

	f.change(t, "Playing", SeatChange{SelectedPlayerID: uptr(42)})
	rec, err := f.records.OpenByPlayer(context.Background(), 42)
	if err != nil {
		t.Fatalf("no open record: %v", err)
	}
	if rec.SessionID == nil || *rec.SessionID != 501 {
		t.Fatalf("record session = %v, want 501", rec.SessionID)
	}
	stored, _ := f.seats.GetByID(context.Background(), 7)
	if stored.SessionID == nil || *stored.SessionID != 501 {
		t.Fatalf("seat session = %v, want 501", stored.SessionID)
	}
}

func TestSeatBlockOpenSeatNoTiming(t *testing.T) {
	f := newSeatFixture(openSeat(), model.Player{ID: 42, ClubID: 1, Name: "Béla"})

	seat := f.change(t, "Blocked", SeatChange{SelectedPlayerID: uptr(42)})
	if seat.PlayerID == nil || *seat.PlayerID != 42 {
		t.Fatalf("occupant = %v, want 42", seat.PlayerID)
	}
	if n := f.records.openCount(); n != 0 {
		t.Fatalf("open records = %d, want 0 (blocked seats do not accrue)", n)
	}
	if seat.TimeStarted != nil {
		t.Fatal("time_started set on a blocked seat")
	}
}
