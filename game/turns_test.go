package game

import (
	"testing"
	"time"

	"github.com/wfunc/pursuit/graph"
)

// activeState builds a two-seat active game without going through random
// assignment: seat 0 is the fugitive at stop 1, seat 1 a pursuer at stop 10.
func activeState() *State {
	s := NewState("TEST01", DefaultSettings())
	s.Seats = []*Participant{
		{Identity: "x", Name: "X", Role: RoleFugitive, Position: 1, Tickets: FugitiveTickets(), Host: true, Ready: true},
		{Identity: "a", Name: "A", Role: RolePursuer, Position: 10, Tickets: PursuerTickets(), Ready: true},
	}
	s.Phase = PhaseActive
	s.TurnIndex = 0
	s.Round = 1
	return s
}

func TestApplyMove_DeductsTicketAndAdvances(t *testing.T) {
	s := activeState()
	fugitive := s.Seats[0]
	before := fugitive.Tickets.GroundShort

	s.ApplyMove(fugitive, 2, graph.GroundShort, time.Now())

	if fugitive.Tickets.GroundShort != before-1 {
		t.Errorf("expected ticket balance %d, got %d", before-1, fugitive.Tickets.GroundShort)
	}
	if fugitive.Position != 2 {
		t.Errorf("expected position 2, got %d", fugitive.Position)
	}
	if s.TurnIndex != 1 {
		t.Errorf("expected turn to pass to seat 1, got %d", s.TurnIndex)
	}
	if s.Round != 1 {
		t.Errorf("round must not change mid-round, got %d", s.Round)
	}
	if len(s.Moves) != 1 || s.Moves[0].Round != 1 || s.Moves[0].From != 1 {
		t.Errorf("move record wrong: %+v", s.Moves)
	}
}

func TestApplyMove_WrapIncrementsRound(t *testing.T) {
	s := activeState()
	s.ApplyMove(s.Seats[0], 2, graph.GroundShort, time.Now())
	s.ApplyMove(s.Seats[1], 11, graph.GroundShort, time.Now())

	if s.TurnIndex != 0 {
		t.Errorf("expected wrap to seat 0, got %d", s.TurnIndex)
	}
	if s.Round != 2 {
		t.Errorf("expected round 2 after wrap, got %d", s.Round)
	}
}

func TestRevealSnapshot_TakenAtRoundStartNotLive(t *testing.T) {
	s := activeState()
	s.Settings.RevealRounds = []int{2}
	fugitive := s.Seats[0]

	s.ApplyMove(fugitive, 2, graph.GroundShort, time.Now())
	s.ApplyMove(s.Seats[1], 11, graph.GroundShort, time.Now())

	// Round 2 just began; the snapshot is the fugitive's position before it
	// moves again this round.
	if s.LastRevealed != 2 {
		t.Fatalf("expected snapshot 2, got %d", s.LastRevealed)
	}

	s.ApplyMove(fugitive, 3, graph.GroundShort, time.Now())
	if s.LastRevealed != 2 {
		t.Errorf("snapshot must not follow the live position, got %d", s.LastRevealed)
	}
	if fugitive.Position != 3 {
		t.Errorf("live position should be 3, got %d", fugitive.Position)
	}
}

func TestNoSnapshotOutsideRevealRounds(t *testing.T) {
	s := activeState()
	s.Settings.RevealRounds = []int{5}

	s.ApplyMove(s.Seats[0], 2, graph.GroundShort, time.Now())
	s.ApplyMove(s.Seats[1], 11, graph.GroundShort, time.Now())

	if s.LastRevealed != HiddenPosition {
		t.Errorf("no snapshot expected before round 5, got %d", s.LastRevealed)
	}
}

func TestStartDoubleMove_Gates(t *testing.T) {
	s := activeState()
	fugitive, pursuer := s.Seats[0], s.Seats[1]

	if err := s.StartDoubleMove(pursuer); err != ErrNotFugitive {
		t.Errorf("expected ErrNotFugitive, got %v", err)
	}

	before := fugitive.Tickets.DoubleMove
	if err := s.StartDoubleMove(fugitive); err != nil {
		t.Fatalf("fugitive should be able to start a double-move: %v", err)
	}
	if fugitive.Tickets.DoubleMove != before-1 {
		t.Error("double-move ticket must be consumed immediately")
	}

	// Starting a second one while pending is rejected.
	if err := s.StartDoubleMove(fugitive); err != ErrDoubleMovePending {
		t.Errorf("expected ErrDoubleMovePending, got %v", err)
	}
}

func TestStartDoubleMove_NotOnPursuerTurn(t *testing.T) {
	s := activeState()
	s.TurnIndex = 1

	if err := s.StartDoubleMove(s.Seats[0]); err != ErrNotYourTurn {
		t.Errorf("expected ErrNotYourTurn, got %v", err)
	}
}

func TestStartDoubleMove_NoTicket(t *testing.T) {
	s := activeState()
	s.Seats[0].Tickets.DoubleMove = 0

	if err := s.StartDoubleMove(s.Seats[0]); err != ErrNoDoubleTicket {
		t.Errorf("expected ErrNoDoubleTicket, got %v", err)
	}
}

func TestDoubleMove_TwoStepsOneTurn(t *testing.T) {
	s := activeState()
	fugitive := s.Seats[0]

	if err := s.StartDoubleMove(fugitive); err != nil {
		t.Fatalf("StartDoubleMove failed: %v", err)
	}

	// First move: turn and round frozen, move held.
	s.ApplyMove(fugitive, 2, graph.GroundShort, time.Now())
	if s.TurnIndex != 0 {
		t.Errorf("first double move must not advance the turn, index %d", s.TurnIndex)
	}
	if s.DoubleMove != DoubleMoveSecond {
		t.Errorf("expected DoubleMoveSecond, got %d", s.DoubleMove)
	}
	if s.PendingFirst == nil || s.PendingFirst.To != 2 {
		t.Errorf("first move should be held, got %+v", s.PendingFirst)
	}

	// Second move completes the turn normally.
	s.ApplyMove(fugitive, 3, graph.GroundShort, time.Now())
	if s.TurnIndex != 1 {
		t.Errorf("second double move should advance the turn, index %d", s.TurnIndex)
	}
	if s.DoubleMove != DoubleMoveInactive || s.PendingFirst != nil {
		t.Error("double-move sub-state should be cleared")
	}
	if len(s.Moves) != 2 {
		t.Errorf("both moves belong in the log, got %d", len(s.Moves))
	}
}

func TestSkipTurn_WrapsLikeAMove(t *testing.T) {
	s := activeState()
	s.Settings.RevealRounds = []int{2}
	s.TurnIndex = 1

	s.SkipTurn()
	if s.TurnIndex != 0 || s.Round != 2 {
		t.Errorf("expected wrap to round 2, got index %d round %d", s.TurnIndex, s.Round)
	}
	if s.LastRevealed != s.Seats[0].Position {
		t.Error("reveal snapshot must also fire on a skipped wrap")
	}
}

func TestFinish(t *testing.T) {
	s := activeState()
	s.DoubleMove = DoubleMoveArmed

	s.Finish(Outcome{Winner: RolePursuer, Reason: ReasonCaptured})

	if s.Phase != PhaseFinished {
		t.Errorf("expected finished phase, got %s", s.Phase)
	}
	if s.Outcome == nil || s.Outcome.Reason != ReasonCaptured {
		t.Errorf("outcome not recorded: %+v", s.Outcome)
	}
	if s.DoubleMove != DoubleMoveInactive {
		t.Error("finishing must clear the double-move sub-state")
	}
}
