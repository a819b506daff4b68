// game/setup.go
package game

import (
	"errors"
	"fmt"
	"math/rand"
)

var ErrTooFewSeats = errors.New("need at least two seats to start")

// FugitiveTickets is the starting template for the hidden role: effectively
// unlimited ordinary travel plus the small wildcard and double-move
// allotments.
func FugitiveTickets() Tickets {
	return Tickets{
		GroundShort: 99,
		GroundLong:  99,
		Rail:        99,
		Water:       99,
		Wildcard:    5,
		DoubleMove:  2,
	}
}

// PursuerTickets is the finite template for the open roles. Pursuers cannot
// ride water routes at all; only a wildcard can, and they hold none.
func PursuerTickets() Tickets {
	return Tickets{
		GroundShort: 10,
		GroundLong:  8,
		Rail:        4,
	}
}

// Start rolls roles, starting positions and ticket balances and flips the
// room to the active phase. The random source is explicit so tests can pin a
// seed and assert exact assignments. The two starting pools must be disjoint.
func (s *State) Start(rng *rand.Rand, fugitiveStarts, pursuerStarts []int) error {
	if len(s.Seats) < 2 {
		return ErrTooFewSeats
	}
	if len(fugitiveStarts) < 1 || len(pursuerStarts) < len(s.Seats)-1 {
		return fmt.Errorf("start pools too small for %d seats", len(s.Seats))
	}

	fugitiveIdx := rng.Intn(len(s.Seats))

	fugitivePool := append([]int(nil), fugitiveStarts...)
	pursuerPool := append([]int(nil), pursuerStarts...)
	rng.Shuffle(len(fugitivePool), func(i, j int) {
		fugitivePool[i], fugitivePool[j] = fugitivePool[j], fugitivePool[i]
	})
	rng.Shuffle(len(pursuerPool), func(i, j int) {
		pursuerPool[i], pursuerPool[j] = pursuerPool[j], pursuerPool[i]
	})

	pursuerSeat := 0
	for i, p := range s.Seats {
		if i == fugitiveIdx {
			p.Role = RoleFugitive
			p.Position = fugitivePool[0]
			p.Tickets = FugitiveTickets()
		} else {
			p.Role = RolePursuer
			p.Position = pursuerPool[pursuerSeat]
			p.Tickets = PursuerTickets()
			pursuerSeat++
		}
		p.Ready = p.Host
		p.RematchReady = false
		p.Stuck = false
	}

	s.Phase = PhaseActive
	s.TurnIndex = 0
	s.Round = 1
	s.Outcome = nil
	s.LastRevealed = HiddenPosition
	s.DoubleMove = DoubleMoveInactive
	s.PendingFirst = nil
	s.Moves = nil
	return nil
}

// Rematch reuses the roster for a fresh game: history cleared, roles,
// positions and tickets re-rolled exactly as at start.
func (s *State) Rematch(rng *rand.Rand, fugitiveStarts, pursuerStarts []int) error {
	return s.Start(rng, fugitiveStarts, pursuerStarts)
}
