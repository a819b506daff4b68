package game

import (
	"math/rand"
	"testing"
)

func lobbyWithSeats(n int) *State {
	s := NewState("TEST01", DefaultSettings())
	names := []string{"ann", "ben", "cat", "dee", "eli", "fay"}
	for i := 0; i < n; i++ {
		if _, err := s.Join(names[i], names[i]); err != nil {
			panic(err)
		}
	}
	return s
}

var (
	testFugitiveStarts = []int{5, 17, 23, 31}
	testPursuerStarts  = []int{2, 9, 12, 14, 20, 27}
)

func TestStart_RolesAndTemplates(t *testing.T) {
	s := lobbyWithSeats(2)
	if err := s.Start(rand.New(rand.NewSource(1)), testFugitiveStarts, testPursuerStarts); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	var fugitives, pursuers int
	for _, p := range s.Seats {
		switch p.Role {
		case RoleFugitive:
			fugitives++
			if p.Tickets.GroundShort < 50 || p.Tickets.Wildcard == 0 || p.Tickets.DoubleMove == 0 {
				t.Errorf("fugitive template wrong: %+v", p.Tickets)
			}
		case RolePursuer:
			pursuers++
			if p.Tickets.Wildcard != 0 || p.Tickets.DoubleMove != 0 {
				t.Errorf("pursuer must hold no fugitive-only tickets: %+v", p.Tickets)
			}
			if p.Tickets.GroundShort != 10 || p.Tickets.GroundLong != 8 || p.Tickets.Rail != 4 {
				t.Errorf("pursuer template wrong: %+v", p.Tickets)
			}
		default:
			t.Errorf("seat %s has no role", p.Identity)
		}
	}
	if fugitives != 1 || pursuers != 1 {
		t.Errorf("expected exactly 1 fugitive and 1 pursuer, got %d/%d", fugitives, pursuers)
	}

	if s.Phase != PhaseActive || s.TurnIndex != 0 || s.Round != 1 {
		t.Errorf("active phase bookkeeping wrong: %s %d %d", s.Phase, s.TurnIndex, s.Round)
	}
	if s.LastRevealed != HiddenPosition {
		t.Errorf("no reveal snapshot at start, got %d", s.LastRevealed)
	}
}

func TestStart_DeterministicWithSeed(t *testing.T) {
	a := lobbyWithSeats(4)
	b := lobbyWithSeats(4)

	if err := a.Start(rand.New(rand.NewSource(42)), testFugitiveStarts, testPursuerStarts); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := b.Start(rand.New(rand.NewSource(42)), testFugitiveStarts, testPursuerStarts); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	for i := range a.Seats {
		if a.Seats[i].Role != b.Seats[i].Role || a.Seats[i].Position != b.Seats[i].Position {
			t.Errorf("seat %d differs across identical seeds: %+v vs %+v", i, a.Seats[i], b.Seats[i])
		}
	}
}

func TestStart_PositionsUniqueAndFromPools(t *testing.T) {
	s := lobbyWithSeats(6)
	if err := s.Start(rand.New(rand.NewSource(7)), testFugitiveStarts, testPursuerStarts); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	inPool := func(pool []int, pos int) bool {
		for _, p := range pool {
			if p == pos {
				return true
			}
		}
		return false
	}

	used := make(map[int]bool)
	for _, p := range s.Seats {
		if used[p.Position] {
			t.Errorf("position %d assigned twice", p.Position)
		}
		used[p.Position] = true

		if p.Role == RoleFugitive && !inPool(testFugitiveStarts, p.Position) {
			t.Errorf("fugitive start %d not from its pool", p.Position)
		}
		if p.Role == RolePursuer && !inPool(testPursuerStarts, p.Position) {
			t.Errorf("pursuer start %d not from its pool", p.Position)
		}
	}
}

func TestStart_TooFewSeats(t *testing.T) {
	s := lobbyWithSeats(1)
	if err := s.Start(rand.New(rand.NewSource(1)), testFugitiveStarts, testPursuerStarts); err != ErrTooFewSeats {
		t.Errorf("expected ErrTooFewSeats, got %v", err)
	}
}

func TestRematch_ClearsHistoryAndRerolls(t *testing.T) {
	s := lobbyWithSeats(3)
	rng := rand.New(rand.NewSource(3))
	if err := s.Start(rng, testFugitiveStarts, testPursuerStarts); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	s.Moves = append(s.Moves, MoveRecord{Identity: "ann", From: 1, To: 2, Round: 1})
	s.Finish(Outcome{Winner: RolePursuer, Reason: ReasonCaptured})
	for _, p := range s.Seats {
		p.RematchReady = true
	}

	if err := s.Rematch(rng, testFugitiveStarts, testPursuerStarts); err != nil {
		t.Fatalf("Rematch failed: %v", err)
	}

	if len(s.Moves) != 0 {
		t.Error("rematch must clear the travel log")
	}
	if s.Phase != PhaseActive || s.Outcome != nil || s.Round != 1 {
		t.Errorf("rematch bookkeeping wrong: %s %v %d", s.Phase, s.Outcome, s.Round)
	}
	for _, p := range s.Seats {
		if p.RematchReady {
			t.Error("rematch flags must reset for the next game")
		}
	}

	var fugitives int
	for _, p := range s.Seats {
		if p.Role == RoleFugitive {
			fugitives++
		}
	}
	if fugitives != 1 {
		t.Errorf("expected exactly one fugitive after rematch, got %d", fugitives)
	}
}
