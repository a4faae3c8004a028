package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cardroom/table-time/internal/model"
	"github.com/cardroom/table-time/internal/repository"
	"github.com/cardroom/table-time/internal/seating"
)

type sessionFixture struct {
	svc      *SessionService
	seats    *fakeSeats
	players  *fakePlayers
	records  *fakeRecords
	sessions *fakeSessions
	clock    *fakeClock
}

func newSessionFixture(seats ...model.TableSeat) *sessionFixture {
	f := &sessionFixture{
		seats:    newFakeSeats(seats...),
		players:  newFakePlayers(model.Player{ID: 1, ClubID: 1, Name: "Ana"}),
		records:  newFakeRecords(),
		sessions: newFakeSessions(),
		clock:    newFakeClock(),
	}
	ledger := NewTimeLedger(f.records, f.players, f.clock.Now)
	f.svc = NewSessionService(f.sessions, f.seats, ledger, fakeRunner{}, 0, f.clock.Now, nil)
	return f
}

func TestSessionStart(t *testing.T) {
	f := newSessionFixture()

	dealer := uptr(9)
	sess, err := f.svc.Start(context.Background(), 3, dealer, "friday night")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if sess.ID == 0 || !sess.IsActive {
		t.Fatalf("session not active: %+v", sess)
	}
	if sess.DealerID == nil || *sess.DealerID != 9 {
		t.Fatalf("dealer = %v, want 9", sess.DealerID)
	}
	got, err := f.svc.Current(context.Background(), 3)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if got.ID != sess.ID {
		t.Fatalf("current = %d, want %d", got.ID, sess.ID)
	}
}

func TestSessionStartClosesPrior(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	first, err := f.svc.Start(ctx, 3, nil, "")
	if err != nil {
		t.Fatalf("first start: %v", err)
	}
	f.clock.Advance(time.Hour)

	second, err := f.svc.Start(ctx, 3, nil, "")
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("second start reused the prior session")
	}
	stored := f.sessions.byID[first.ID]
	if stored.IsActive {
		t.Fatal("prior session still active")
	}
	if stored.TotalTime != 3600 {
		t.Fatalf("prior session total = %d, want 3600", stored.TotalTime)
	}
}

func TestSessionEndWithoutActive(t *testing.T) {
	f := newSessionFixture()

	_, err := f.svc.End(context.Background(), 3)
	if !errors.Is(err, repository.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionEndReleasesSeatsAndRecords(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	sess, err := f.svc.Start(ctx, 3, nil, "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	// One occupied seat timing against the session, one vacant seat merely
	// bound to it.
	occupied := model.TableSeat{
		ID: 7, TableID: 3, Position: 1,
		Status: string(seating.StatusPlaying), PlayerID: uptr(1), SessionID: &sess.ID,
	}
	vacant := model.TableSeat{
		ID: 8, TableID: 3, Position: 2,
		Status: string(seating.StatusOpen), SessionID: &sess.ID,
	}
	f.seats.byID[occupied.ID] = occupied
	f.seats.byID[vacant.ID] = vacant
	ledger := NewTimeLedger(f.records, f.players, f.clock.Now)
	if err := ledger.StartTimingTx(ctx, nil, 1, 7, &sess.ID); err != nil {
		t.Fatalf("start timing: %v", err)
	}

	f.clock.Advance(90 * time.Second)
	ended, err := f.svc.End(ctx, 3)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if ended.IsActive || ended.EndTime == nil {
		t.Fatalf("session not closed: %+v", ended)
	}
	if ended.TotalTime != 90 {
		t.Fatalf("session total = %d, want 90", ended.TotalTime)
	}

	if n := f.records.openCount(); n != 0 {
		t.Fatalf("open records = %d after end, want 0", n)
	}
	p, _ := f.players.GetByID(ctx, 1)
	if p.TotalPlayTime != 90 {
		t.Fatalf("player total = %d, want 90", p.TotalPlayTime)
	}

	seat, _ := f.seats.GetByID(ctx, 7)
	if seat.Status != string(seating.StatusOpen) || seat.PlayerID != nil || seat.SessionID != nil {
		t.Fatalf("occupied seat not released: %+v", seat)
	}
	if seat.TimeElapsed != 0 || seat.TimeStarted != nil {
		t.Fatalf("seat counters not reset: %+v", seat)
	}
	other, _ := f.seats.GetByID(ctx, 8)
	if other.SessionID != nil {
		t.Fatalf("vacant seat still bound to session: %+v", other)
	}
}
