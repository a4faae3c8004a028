package service

import (
	"context"
	"testing"
	"time"

	"github.com/cardroom/table-time/internal/model"
)

func newLedgerFixture() (*TimeLedger, *fakeRecords, *fakePlayers, *fakeClock) {
	clock := newFakeClock()
	records := newFakeRecords()
	players := newFakePlayers(model.Player{ID: 1, ClubID: 1, Name: "Ana"})
	return NewTimeLedger(records, players, clock.Now), records, players, clock
}

func TestLedgerStartStopAccumulates(t *testing.T) {
	ledger, records, players, clock := newLedgerFixture()
	ctx := context.Background()

	if err := ledger.StartTimingTx(ctx, nil, 1, 7, nil); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Advance(10 * time.Second)

	dur, err := ledger.StopTimingTx(ctx, nil, 1, 7)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if dur != 10 {
		t.Fatalf("duration = %d, want 10", dur)
	}
	if n := records.openCount(); n != 0 {
		t.Fatalf("open records = %d, want 0", n)
	}
	p, _ := players.GetByID(ctx, 1)
	if p.TotalPlayTime != 10 {
		t.Fatalf("total play time = %d, want 10", p.TotalPlayTime)
	}
	if p.LastPlayed == nil || !p.LastPlayed.Equal(clock.Now()) {
		t.Fatalf("last played = %v, want %v", p.LastPlayed, clock.Now())
	}
}

func TestLedgerStartIsIdempotent(t *testing.T) {
	ledger, records, _, _ := newLedgerFixture()
	ctx := context.Background()

	if err := ledger.StartTimingTx(ctx, nil, 1, 7, nil); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if err := ledger.StartTimingTx(ctx, nil, 1, 7, nil); err != nil {
		t.Fatalf("second start: %v", err)
	}
	if n := records.openCount(); n != 1 {
		t.Fatalf("open records = %d, want 1", n)
	}
}

func TestLedgerStopWithoutStartIsNoop(t *testing.T) {
	ledger, _, players, _ := newLedgerFixture()
	ctx := context.Background()

	dur, err := ledger.StopTimingTx(ctx, nil, 1, 7)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if dur != 0 {
		t.Fatalf("duration = %d, want 0", dur)
	}
	p, _ := players.GetByID(ctx, 1)
	if p.TotalPlayTime != 0 {
		t.Fatalf("total play time = %d, want 0", p.TotalPlayTime)
	}
}

func TestLedgerTruncatesSubSecond(t *testing.T) {
	ledger, _, _, clock := newLedgerFixture()
	ctx := context.Background()

	if err := ledger.StartTimingTx(ctx, nil, 1, 7, nil); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Advance(9*time.Second + 900*time.Millisecond)

	dur, err := ledger.StopTimingTx(ctx, nil, 1, 7)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if dur != 9 {
		t.Fatalf("duration = %d, want 9 (truncated)", dur)
	}
}

func TestLedgerElapsedIncludesLiveInterval(t *testing.T) {
	ledger, _, _, clock := newLedgerFixture()
	ctx := context.Background()

	if err := ledger.StartTimingTx(ctx, nil, 1, 7, nil); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Advance(10 * time.Second)
	if _, err := ledger.StopTimingTx(ctx, nil, 1, 7); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := ledger.StartTimingTx(ctx, nil, 1, 7, nil); err != nil {
		t.Fatalf("restart: %v", err)
	}
	clock.Advance(5 * time.Second)

	total, err := ledger.ElapsedSeconds(ctx, 1, nil)
	if err != nil {
		t.Fatalf("elapsed: %v", err)
	}
	if total != 15 {
		t.Fatalf("elapsed = %d, want 15", total)
	}
}

func TestLedgerElapsedScopedToSession(t *testing.T) {
	ledger, records, _, clock := newLedgerFixture()
	ctx := context.Background()

	s1, s2 := uptr(10), uptr(20)
	if err := ledger.StartTimingTx(ctx, nil, 1, 7, s1); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Advance(30 * time.Second)
	if _, err := ledger.StopTimingTx(ctx, nil, 1, 7); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := ledger.StartTimingTx(ctx, nil, 1, 7, s2); err != nil {
		t.Fatalf("start second session: %v", err)
	}
	clock.Advance(20 * time.Second)
	if _, err := ledger.StopTimingTx(ctx, nil, 1, 7); err != nil {
		t.Fatalf("stop second session: %v", err)
	}
	if n := records.openCount(); n != 0 {
		t.Fatalf("open records = %d, want 0", n)
	}

	got, err := ledger.ElapsedSeconds(ctx, 1, s1)
	if err != nil {
		t.Fatalf("elapsed: %v", err)
	}
	if got != 30 {
		t.Fatalf("session-scoped elapsed = %d, want 30", got)
	}
	all, err := ledger.ElapsedSeconds(ctx, 1, nil)
	if err != nil {
		t.Fatalf("elapsed all: %v", err)
	}
	if all != 50 {
		t.Fatalf("total elapsed = %d, want 50", all)
	}
}

func TestLedgerCloseSessionClosesAllOpen(t *testing.T) {
	clock := newFakeClock()
	records := newFakeRecords()
	players := newFakePlayers(
		model.Player{ID: 1, ClubID: 1, Name: "Ana"},
		model.Player{ID: 2, ClubID: 1, Name: "Béla"},
	)
	ledger := NewTimeLedger(records, players, clock.Now)
	ctx := context.Background()

	sid := uptr(10)
	if err := ledger.StartTimingTx(ctx, nil, 1, 7, sid); err != nil {
		t.Fatalf("start ana: %v", err)
	}
	if err := ledger.StartTimingTx(ctx, nil, 2, 8, sid); err != nil {
		t.Fatalf("start bela: %v", err)
	}
	clock.Advance(45 * time.Second)

	if err := ledger.CloseSessionTx(ctx, nil, 10); err != nil {
		t.Fatalf("close session: %v", err)
	}
	if n := records.openCount(); n != 0 {
		t.Fatalf("open records = %d, want 0", n)
	}
	for _, id := range []uint64{1, 2} {
		p, _ := players.GetByID(ctx, id)
		if p.TotalPlayTime != 45 {
			t.Fatalf("player %d total = %d, want 45", id, p.TotalPlayTime)
		}
	}
}
