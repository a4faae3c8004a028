package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/cardroom/table-time/internal/model"
	"github.com/cardroom/table-time/internal/repository"
)

// The fakes below keep everything in memory and ignore the *sql.Tx they are
// handed; the fake runner passes nil. Behavior mirrors the real repos where
// the services depend on it: version-guarded seat writes, not-found
// sentinels, and id assignment on insert.

type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)}
}
func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeRunner struct{}

func (fakeRunner) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error { return fn(nil) }

type fakeSeats struct {
	byID      map[uint64]model.TableSeat
	updateErr error // forced failure for conflict tests
	updateCnt int
}

func newFakeSeats(seats ...model.TableSeat) *fakeSeats {
	f := &fakeSeats{byID: make(map[uint64]model.TableSeat)}
	for _, s := range seats {
		f.byID[s.ID] = s
	}
	return f
}

func (f *fakeSeats) GetByID(ctx context.Context, id uint64) (*model.TableSeat, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrSeatNotFound
	}
	cp := s
	return &cp, nil
}

func (f *fakeSeats) ListBySession(ctx context.Context, sessionID uint64) ([]model.TableSeat, error) {
	var out []model.TableSeat
	for _, s := range f.byID {
		if s.SessionID != nil && *s.SessionID == sessionID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSeats) UpdateStateTx(ctx context.Context, tx *sql.Tx, s *model.TableSeat) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	stored, ok := f.byID[s.ID]
	if !ok {
		return repository.ErrSeatNotFound
	}
	if stored.Version != s.Version {
		return repository.ErrVersionConflict
	}
	s.Version++
	f.byID[s.ID] = *s
	f.updateCnt++
	return nil
}

func (f *fakeSeats) TouchSessionTx(ctx context.Context, tx *sql.Tx, seatID uint64, sessionID *uint64) error {
	s, ok := f.byID[seatID]
	if !ok {
		return repository.ErrSeatNotFound
	}
	s.SessionID = sessionID
	s.Version++
	f.byID[seatID] = s
	return nil
}

type fakePlayers struct {
	byID   map[uint64]model.Player
	nextID uint64
}

func newFakePlayers(players ...model.Player) *fakePlayers {
	f := &fakePlayers{byID: make(map[uint64]model.Player), nextID: 100}
	for _, p := range players {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakePlayers) GetByID(ctx context.Context, id uint64) (*model.Player, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrPlayerNotFound
	}
	cp := p
	return &cp, nil
}

func (f *fakePlayers) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Player) error {
	f.nextID++
	p.ID = f.nextID
	f.byID[p.ID] = *p
	return nil
}

func (f *fakePlayers) AddPlayTimeTx(ctx context.Context, tx *sql.Tx, playerID uint64, seconds int64, playedAt time.Time) error {
	p, ok := f.byID[playerID]
	if !ok {
		return repository.ErrPlayerNotFound
	}
	p.TotalPlayTime += seconds
	t := playedAt
	p.LastPlayed = &t
	f.byID[playerID] = p
	return nil
}

type fakeRecords struct {
	recs   []model.PlayerTimeRecord
	nextID uint64
}

func newFakeRecords() *fakeRecords { return &fakeRecords{nextID: 1000} }

func (f *fakeRecords) Open(ctx context.Context, playerID, seatID uint64) (*model.PlayerTimeRecord, error) {
	for i := range f.recs {
		r := f.recs[i]
		if r.PlayerID == playerID && r.SeatID == seatID && r.EndTime == nil {
			cp := r
			return &cp, nil
		}
	}
	return nil, repository.ErrTimeRecordNotFound
}

func (f *fakeRecords) OpenByPlayer(ctx context.Context, playerID uint64) (*model.PlayerTimeRecord, error) {
	for i := range f.recs {
		r := f.recs[i]
		if r.PlayerID == playerID && r.EndTime == nil {
			cp := r
			return &cp, nil
		}
	}
	return nil, repository.ErrTimeRecordNotFound
}

func (f *fakeRecords) ListOpenBySession(ctx context.Context, sessionID uint64) ([]model.PlayerTimeRecord, error) {
	var out []model.PlayerTimeRecord
	for _, r := range f.recs {
		if r.EndTime == nil && r.SessionID != nil && *r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecords) CreateTx(ctx context.Context, tx *sql.Tx, rec *model.PlayerTimeRecord) error {
	f.nextID++
	rec.ID = f.nextID
	f.recs = append(f.recs, *rec)
	return nil
}

func (f *fakeRecords) CloseTx(ctx context.Context, tx *sql.Tx, id uint64, end time.Time, durationSec int64) error {
	for i := range f.recs {
		if f.recs[i].ID == id && f.recs[i].EndTime == nil {
			t := end
			f.recs[i].EndTime = &t
			f.recs[i].Duration = durationSec
			return nil
		}
	}
	return repository.ErrTimeRecordNotFound
}

func (f *fakeRecords) SumClosed(ctx context.Context, playerID uint64, sessionID *uint64) (int64, error) {
	var total int64
	for _, r := range f.recs {
		if r.PlayerID != playerID || r.EndTime == nil {
			continue
		}
		if sessionID != nil && (r.SessionID == nil || *r.SessionID != *sessionID) {
			continue
		}
		total += r.Duration
	}
	return total, nil
}

func (f *fakeRecords) openCount() int {
	n := 0
	for _, r := range f.recs {
		if r.EndTime == nil {
			n++
		}
	}
	return n
}

type fakeSessions struct {
	byID   map[uint64]model.TableSession
	nextID uint64
}

func newFakeSessions(sessions ...model.TableSession) *fakeSessions {
	f := &fakeSessions{byID: make(map[uint64]model.TableSession), nextID: 500}
	for _, s := range sessions {
		f.byID[s.ID] = s
	}
	return f
}

func (f *fakeSessions) ActiveByTable(ctx context.Context, tableID uint64) (*model.TableSession, error) {
	for _, s := range f.byID {
		if s.TableID == tableID && s.IsActive {
			cp := s
			return &cp, nil
		}
	}
	return nil, repository.ErrSessionNotFound
}

func (f *fakeSessions) CreateTx(ctx context.Context, tx *sql.Tx, s *model.TableSession) error {
	f.nextID++
	s.ID = f.nextID
	s.IsActive = true
	f.byID[s.ID] = *s
	return nil
}

func (f *fakeSessions) CloseTx(ctx context.Context, tx *sql.Tx, id uint64, end time.Time, totalSec int64) error {
	s, ok := f.byID[id]
	if !ok || !s.IsActive {
		return repository.ErrSessionNotFound
	}
	t := end
	s.IsActive = false
	s.EndTime = &t
	s.TotalTime = totalSec
	f.byID[id] = s
	return nil
}

func uptr(v uint64) *uint64 { return &v }
