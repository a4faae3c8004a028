package seating

// ChangeContext carries the optional inputs a dealer supplies alongside a
// status change: an existing player picked from the club roster, or the name
// of a walk-in to register on the spot.
type ChangeContext struct {
	SelectedPlayerID *uint64 // existing player chosen in the dealer UI
	NewPlayerName    string  // register a new club player and seat them
	ClubID           uint64  // club the new player belongs to
}

// Decision describes an accepted transition. The service applies it as one
// unit: create the new player if needed, run the ledger actions, then write
// the seat.
type Decision struct {
	// PlayerID is the resulting occupant. Nil when the seat ends up vacant
	// (Open/Closed) or when NeedsNewPlayer is set and the id does not exist
	// yet.
	PlayerID *uint64
	// NeedsNewPlayer means a player must be created from NewPlayerName and
	// becomes the occupant.
	NeedsNewPlayer bool
	// StopTiming names a player whose open timing interval must be closed.
	StopTiming *uint64
	// StartTiming means a timing interval opens for the resulting occupant.
	// A stop and a start together express an occupant switch while Playing.
	StartTiming bool
}

// allowedTargets is the legal status graph, keyed by current status.
var allowedTargets = map[Status]map[Status]bool{
	StatusOpen:    {StatusOpen: true, StatusPlaying: true, StatusBlocked: true, StatusClosed: true},
	StatusPlaying: {StatusPlaying: true, StatusBreak: true, StatusOpen: true, StatusClosed: true},
	StatusBreak:   {StatusBreak: true, StatusPlaying: true, StatusOpen: true, StatusClosed: true},
	StatusBlocked: {StatusBlocked: true, StatusPlaying: true, StatusOpen: true, StatusClosed: true},
	StatusClosed:  {StatusClosed: true, StatusOpen: true},
}

// Decide evaluates a requested status change against the current seat state.
// It returns ErrInvalidTransition for edges outside the status graph and
// ErrPlayerRequired when the target needs an occupant that cannot be
// resolved. Rejections never carry a partial Decision; callers must not
// mutate the seat on error.
func Decide(current Status, currentPlayer *uint64, target Status, ctx ChangeContext) (Decision, error) {
	if !allowedTargets[current][target] {
		return Decision{}, ErrInvalidTransition
	}

	switch target {
	case StatusOpen, StatusClosed:
		// Vacating always detaches the occupant. Timing only ran while
		// Playing, so only that edge closes an interval.
		d := Decision{}
		if current == StatusPlaying && currentPlayer != nil {
			d.StopTiming = currentPlayer
		}
		return d, nil

	case StatusPlaying:
		switch current {
		case StatusPlaying:
			// Re-selecting the same occupant is a no-op; a different
			// selection switches the occupant without vacating the seat.
			if ctx.SelectedPlayerID != nil && (currentPlayer == nil || *ctx.SelectedPlayerID != *currentPlayer) {
				d := Decision{PlayerID: ctx.SelectedPlayerID, StartTiming: true}
				if currentPlayer != nil {
					d.StopTiming = currentPlayer
				}
				return d, nil
			}
			return Decision{PlayerID: currentPlayer}, nil
		case StatusBreak, StatusBlocked:
			// The occupant never un-selected themselves; resume their clock
			// without forcing the dealer to re-pick.
			if currentPlayer != nil {
				return Decision{PlayerID: currentPlayer, StartTiming: true}, nil
			}
			return resolveOccupant(ctx, true)
		default: // StatusOpen
			return resolveOccupant(ctx, true)
		}

	case StatusBreak, StatusBlocked:
		switch current {
		case StatusPlaying:
			if currentPlayer == nil {
				return Decision{}, ErrPlayerRequired
			}
			// Pause: the occupant keeps the seat, the clock stops.
			return Decision{PlayerID: currentPlayer, StopTiming: currentPlayer}, nil
		case StatusBreak, StatusBlocked:
			if currentPlayer == nil {
				return Decision{}, ErrPlayerRequired
			}
			// Swapping occupants while paused is not a thing; the seat must
			// pass through Open (or Playing) first.
			if ctx.SelectedPlayerID != nil && *ctx.SelectedPlayerID != *currentPlayer {
				return Decision{}, ErrInvalidTransition
			}
			return Decision{PlayerID: currentPlayer}, nil
		default: // StatusOpen -> Blocked
			// Blocking an open seat reserves it for someone, so a player is
			// required just as for Playing. No timing runs while blocked.
			return resolveOccupant(ctx, false)
		}
	}
	return Decision{}, ErrInvalidTransition
}

// resolveOccupant derives the occupant for a target that needs one from an
// unoccupied seat. A new-player name wins over a selected id.
func resolveOccupant(ctx ChangeContext, startTiming bool) (Decision, error) {
	if ctx.NewPlayerName != "" {
		return Decision{NeedsNewPlayer: true, StartTiming: startTiming}, nil
	}
	if ctx.SelectedPlayerID != nil {
		return Decision{PlayerID: ctx.SelectedPlayerID, StartTiming: startTiming}, nil
	}
	return Decision{}, ErrPlayerRequired
}
