// game/turns.go
package game

import (
	"errors"
	"time"

	"github.com/wfunc/pursuit/graph"
)

var (
	ErrNotYourTurn       = errors.New("not your turn")
	ErrNotActive         = errors.New("game is not active")
	ErrNotFugitive       = errors.New("only the fugitive may do that")
	ErrNoDoubleTicket    = errors.New("no double-move ticket left")
	ErrDoubleMovePending = errors.New("a double-move is already in progress")
)

// ApplyMove records an already-validated move: deducts the ticket, appends
// the travel-log entry, moves the participant and advances the turn. During
// a double-move the first move is held and the turn does not advance until
// the second move lands.
func (s *State) ApplyMove(mover *Participant, dest int, routeType graph.RouteType, now time.Time) MoveRecord {
	mover.Tickets.Spend(routeType)

	record := MoveRecord{
		Identity:  mover.Identity,
		From:      mover.Position,
		To:        dest,
		RouteType: routeType,
		Round:     s.Round,
		At:        now,
	}
	s.Moves = append(s.Moves, record)
	mover.Position = dest

	if mover.Role == RoleFugitive && s.DoubleMove == DoubleMoveArmed {
		held := record
		s.PendingFirst = &held
		s.DoubleMove = DoubleMoveSecond
		return record
	}

	if mover.Role == RoleFugitive && s.DoubleMove == DoubleMoveSecond {
		s.DoubleMove = DoubleMoveInactive
		s.PendingFirst = nil
	}
	s.advanceTurn()
	return record
}

// StartDoubleMove arms the fugitive's turn extension. The ticket is consumed
// immediately; nobody moves until the two follow-up moves.
func (s *State) StartDoubleMove(mover *Participant) error {
	if s.Phase != PhaseActive {
		return ErrNotActive
	}
	if mover.Role != RoleFugitive {
		return ErrNotFugitive
	}
	if current := s.CurrentSeat(); current == nil || current.Identity != mover.Identity {
		return ErrNotYourTurn
	}
	if s.DoubleMove != DoubleMoveInactive {
		return ErrDoubleMovePending
	}
	if mover.Tickets.DoubleMove < 1 {
		return ErrNoDoubleTicket
	}

	mover.Tickets.DoubleMove--
	s.DoubleMove = DoubleMoveArmed
	return nil
}

// SkipTurn advances past the current seat without a move. Used when a stuck
// pursuer has no legal move left.
func (s *State) SkipTurn() {
	s.advanceTurn()
}

func (s *State) advanceTurn() {
	if len(s.Seats) == 0 {
		return
	}
	s.TurnIndex++
	if s.TurnIndex >= len(s.Seats) {
		s.TurnIndex = 0
		s.Round++
		s.snapshotIfRevealRound()
	}
}

// snapshotIfRevealRound caches the fugitive's position when a reveal round
// begins. Pursuers see this snapshot for the whole round, so a fugitive who
// moves inside the reveal round does not leak a second position.
func (s *State) snapshotIfRevealRound() {
	if !s.Settings.IsRevealRound(s.Round) {
		return
	}
	if fugitive := s.Fugitive(); fugitive != nil {
		s.LastRevealed = fugitive.Position
	}
}

// Finish records a terminal outcome.
func (s *State) Finish(outcome Outcome) {
	s.Phase = PhaseFinished
	s.Outcome = &outcome
	s.DoubleMove = DoubleMoveInactive
	s.PendingFirst = nil
}
