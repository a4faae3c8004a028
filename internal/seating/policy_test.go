package seating

import (
	"errors"
	"testing"
)

func uid(v uint64) *uint64 { return &v }

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"Open", "Playing", "Break", "Blocked", "Closed"} {
		if _, err := ParseStatus(raw); err != nil {
			t.Fatalf("ParseStatus(%q) err: %v", raw, err)
		}
	}
	for _, raw := range []string{"", "open", "PLAYING", "Paused", "broken"} {
		if _, err := ParseStatus(raw); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("ParseStatus(%q) expected ErrInvalidTransition, got %v", raw, err)
		}
	}
}

func TestDecideStatusGraph(t *testing.T) {
	// Edges not listed in the graph must be rejected before any player
	// resolution happens.
	rejected := []struct {
		from, to Status
	}{
		{StatusClosed, StatusPlaying},
		{StatusClosed, StatusBreak},
		{StatusClosed, StatusBlocked},
		{StatusOpen, StatusBreak},
		{StatusBreak, StatusBlocked},
		{StatusBlocked, StatusBreak},
	}
	for _, e := range rejected {
		_, err := Decide(e.from, uid(7), e.to, ChangeContext{SelectedPlayerID: uid(7)})
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("%s -> %s expected ErrInvalidTransition, got %v", e.from, e.to, err)
		}
	}
}

func TestDecideOpenToPlaying(t *testing.T) {
	// No player supplied: rejected, nothing to apply.
	if _, err := Decide(StatusOpen, nil, StatusPlaying, ChangeContext{}); !errors.Is(err, ErrPlayerRequired) {
		t.Fatalf("expected ErrPlayerRequired, got %v", err)
	}

	// Selected existing player.
	d, err := Decide(StatusOpen, nil, StatusPlaying, ChangeContext{SelectedPlayerID: uid(42)})
	if err != nil {
		t.Fatalf("Decide err: %v", err)
	}
	if d.PlayerID == nil || *d.PlayerID != 42 || !d.StartTiming || d.StopTiming != nil {
		t.Fatalf("unexpected decision: %+v", d)
	}

	// New walk-in player: the id is substituted later by the service.
	d, err = Decide(StatusOpen, nil, StatusPlaying, ChangeContext{NewPlayerName: "Ana", ClubID: 1})
	if err != nil {
		t.Fatalf("Decide err: %v", err)
	}
	if !d.NeedsNewPlayer || !d.StartTiming || d.PlayerID != nil {
		t.Fatalf("unexpected decision: %+v", d)
	}
}

func TestDecidePauseKeepsPlayerAndStopsTiming(t *testing.T) {
	for _, target := range []Status{StatusBreak, StatusClosed, StatusOpen} {
		d, err := Decide(StatusPlaying, uid(9), target, ChangeContext{})
		if err != nil {
			t.Fatalf("Playing -> %s err: %v", target, err)
		}
		if d.StopTiming == nil || *d.StopTiming != 9 {
			t.Fatalf("Playing -> %s should stop timing for 9, got %+v", target, d)
		}
		if target == StatusBreak {
			if d.PlayerID == nil || *d.PlayerID != 9 {
				t.Fatalf("Break must keep the occupant, got %+v", d)
			}
		} else if d.PlayerID != nil {
			t.Fatalf("%s must detach the occupant, got %+v", target, d)
		}
	}
}

func TestDecideResumeFromPause(t *testing.T) {
	for _, from := range []Status{StatusBreak, StatusBlocked} {
		// No re-selection needed: the occupant is kept and timing resumes.
		d, err := Decide(from, uid(5), StatusPlaying, ChangeContext{})
		if err != nil {
			t.Fatalf("%s -> Playing err: %v", from, err)
		}
		if d.PlayerID == nil || *d.PlayerID != 5 || !d.StartTiming || d.StopTiming != nil {
			t.Fatalf("%s -> Playing unexpected decision: %+v", from, d)
		}
	}
}

func TestDecideIdempotentPlaying(t *testing.T) {
	// Same occupant re-selected: legal no-op, no ledger action.
	d, err := Decide(StatusPlaying, uid(3), StatusPlaying, ChangeContext{SelectedPlayerID: uid(3)})
	if err != nil {
		t.Fatalf("Decide err: %v", err)
	}
	if d.StopTiming != nil || d.StartTiming || d.PlayerID == nil || *d.PlayerID != 3 {
		t.Fatalf("expected no-op decision, got %+v", d)
	}

	// No selection at all behaves the same.
	d, err = Decide(StatusPlaying, uid(3), StatusPlaying, ChangeContext{})
	if err != nil {
		t.Fatalf("Decide err: %v", err)
	}
	if d.StopTiming != nil || d.StartTiming {
		t.Fatalf("expected no-op decision, got %+v", d)
	}
}

func TestDecideSwitchOccupantWhilePlaying(t *testing.T) {
	d, err := Decide(StatusPlaying, uid(3), StatusPlaying, ChangeContext{SelectedPlayerID: uid(8)})
	if err != nil {
		t.Fatalf("Decide err: %v", err)
	}
	if d.StopTiming == nil || *d.StopTiming != 3 {
		t.Fatalf("old occupant's timing must stop, got %+v", d)
	}
	if d.PlayerID == nil || *d.PlayerID != 8 || !d.StartTiming {
		t.Fatalf("new occupant's timing must start, got %+v", d)
	}
}

func TestDecideSwitchWhilePausedRejected(t *testing.T) {
	for _, st := range []Status{StatusBreak, StatusBlocked} {
		if _, err := Decide(st, uid(3), st, ChangeContext{SelectedPlayerID: uid(8)}); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("occupant switch while %s should be rejected, got %v", st, err)
		}
		// Re-selecting the current occupant stays a legal no-op.
		d, err := Decide(st, uid(3), st, ChangeContext{SelectedPlayerID: uid(3)})
		if err != nil {
			t.Fatalf("%s re-selection err: %v", st, err)
		}
		if d.StopTiming != nil || d.StartTiming || d.PlayerID == nil || *d.PlayerID != 3 {
			t.Fatalf("%s re-selection should be a no-op, got %+v", st, d)
		}
	}
}

func TestDecideBlockOpenSeatRequiresPlayer(t *testing.T) {
	if _, err := Decide(StatusOpen, nil, StatusBlocked, ChangeContext{}); !errors.Is(err, ErrPlayerRequired) {
		t.Fatalf("expected ErrPlayerRequired, got %v", err)
	}
	d, err := Decide(StatusOpen, nil, StatusBlocked, ChangeContext{SelectedPlayerID: uid(6)})
	if err != nil {
		t.Fatalf("Decide err: %v", err)
	}
	// Blocking reserves the seat but never runs the clock.
	if d.StartTiming || d.StopTiming != nil || d.PlayerID == nil || *d.PlayerID != 6 {
		t.Fatalf("unexpected decision: %+v", d)
	}
}

func TestDecideClosedToOpen(t *testing.T) {
	d, err := Decide(StatusClosed, nil, StatusOpen, ChangeContext{})
	if err != nil {
		t.Fatalf("Decide err: %v", err)
	}
	if d.PlayerID != nil || d.StartTiming || d.StopTiming != nil {
		t.Fatalf("Closed -> Open must yield a vacant seat, got %+v", d)
	}
}

func TestDecisionPreservesOccupancyInvariant(t *testing.T) {
	// Across every legal edge, the decision's occupant must be non-nil
	// exactly when the target status requires one (once NeedsNewPlayer is
	// resolved by the service).
	occupant := uid(11)
	for from, targets := range allowedTargets {
		var cur *uint64
		if from.Occupied() {
			cur = occupant
		}
		for to := range targets {
			d, err := Decide(from, cur, to, ChangeContext{SelectedPlayerID: uid(11), ClubID: 1})
			if err != nil {
				t.Fatalf("%s -> %s err: %v", from, to, err)
			}
			hasPlayer := d.PlayerID != nil || d.NeedsNewPlayer
			if hasPlayer != to.Occupied() {
				t.Fatalf("%s -> %s breaks occupancy invariant: %+v", from, to, d)
			}
		}
	}
}
