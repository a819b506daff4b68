// game/lobby.go
package game

import (
	"errors"
)

var (
	ErrRoomFull       = errors.New("room is full")
	ErrAlreadyPlaying = errors.New("game already in progress")
	ErrNotSeated      = errors.New("identity has no seat in this room")
	ErrNotHost        = errors.New("only the host may do that")
	ErrNotEnoughReady = errors.New("not enough ready players")
)

// Join adds a seat for the identity, or rebinds an existing one. A returning
// identity is a reconnection: the seat keeps its role, position and tickets
// and the seat count does not change.
func (s *State) Join(identity, name string) (*Participant, error) {
	if seat, ok := s.Seat(identity); ok {
		return seat, nil
	}

	if s.Phase != PhaseLobby {
		return nil, ErrAlreadyPlaying
	}
	if len(s.Seats) >= s.Settings.Capacity {
		return nil, ErrRoomFull
	}

	seat := &Participant{
		Identity: identity,
		Name:     name,
		Position: HiddenPosition,
	}
	// First joiner hosts; the host is always considered ready.
	if len(s.Seats) == 0 {
		seat.Host = true
		seat.Ready = true
	}
	s.Seats = append(s.Seats, seat)
	return seat, nil
}

// Leave removes the identity's seat. When the host leaves, the
// longest-seated remaining participant inherits the host flag and is marked
// ready. Returns true when no seats remain and the room should be destroyed.
func (s *State) Leave(identity string) (empty bool, err error) {
	idx := -1
	for i, p := range s.Seats {
		if p.Identity == identity {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, ErrNotSeated
	}

	wasHost := s.Seats[idx].Host
	s.Seats = append(s.Seats[:idx], s.Seats[idx+1:]...)
	if len(s.Seats) == 0 {
		return true, nil
	}

	if wasHost {
		s.Seats[0].Host = true
		s.Seats[0].Ready = true
	}
	if s.Phase == PhaseActive {
		if idx < s.TurnIndex {
			s.TurnIndex--
		}
		if s.TurnIndex >= len(s.Seats) {
			s.TurnIndex = 0
			s.Round++
			s.snapshotIfRevealRound()
		}
	}
	return false, nil
}

// SetReady flags a seat ready or not. The host's ready flag is pinned.
func (s *State) SetReady(identity string, ready bool) error {
	seat, ok := s.Seat(identity)
	if !ok {
		return ErrNotSeated
	}
	if seat.Host {
		return nil
	}
	seat.Ready = ready
	return nil
}

// CanStart reports whether the lobby gate is open: at least two seats and
// every non-host seat ready.
func (s *State) CanStart() bool {
	if len(s.Seats) < 2 {
		return false
	}
	for _, p := range s.Seats {
		if !p.Host && !p.Ready {
			return false
		}
	}
	return true
}

// SetRematchReady flags a seat for a rematch after a terminal outcome.
// Returns true once every current seat is flagged.
func (s *State) SetRematchReady(identity string, ready bool) (all bool, err error) {
	seat, ok := s.Seat(identity)
	if !ok {
		return false, ErrNotSeated
	}
	seat.RematchReady = ready

	if len(s.Seats) < 2 {
		return false, nil
	}
	for _, p := range s.Seats {
		if !p.RematchReady {
			return false, nil
		}
	}
	return true, nil
}
