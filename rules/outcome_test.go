package rules

import (
	"testing"

	"github.com/wfunc/pursuit/game"
)

func TestEvaluate_Continue(t *testing.T) {
	g := testBoard(t)
	all := []*game.Participant{fugitiveAt("x", 1), pursuerAt("a", 3)}

	if outcome := Evaluate(g, all, 5, 24); outcome != nil {
		t.Errorf("expected game to continue, got %+v", outcome)
	}
}

func TestEvaluate_Captured(t *testing.T) {
	g := testBoard(t)
	all := []*game.Participant{fugitiveAt("x", 2), pursuerAt("a", 2)}

	outcome := Evaluate(g, all, 5, 24)
	if outcome == nil || outcome.Winner != game.RolePursuer || outcome.Reason != game.ReasonCaptured {
		t.Errorf("expected pursuer capture win, got %+v", outcome)
	}
}

func TestEvaluate_CapturePrecedesImmobilization(t *testing.T) {
	g := testBoard(t)
	// Fugitive shares a stop with one pursuer and has zero tickets left, so
	// it is simultaneously captured and stuck. Capture must win.
	fugitive := fugitiveAt("x", 2)
	fugitive.Tickets = game.Tickets{}
	all := []*game.Participant{fugitive, pursuerAt("a", 2)}

	outcome := Evaluate(g, all, 5, 24)
	if outcome == nil || outcome.Reason != game.ReasonCaptured {
		t.Errorf("expected captured, got %+v", outcome)
	}
}

func TestEvaluate_PursuersImmobilized(t *testing.T) {
	g := testBoard(t)
	stuck := pursuerAt("a", 1)
	stuck.Tickets = game.Tickets{}
	all := []*game.Participant{fugitiveAt("x", 3), stuck}

	outcome := Evaluate(g, all, 5, 24)
	if outcome == nil || outcome.Winner != game.RoleFugitive || outcome.Reason != game.ReasonPursuersImmobilized {
		t.Errorf("expected pursuers immobilized, got %+v", outcome)
	}
}

func TestEvaluate_FugitiveImmobilized(t *testing.T) {
	g := testBoard(t)
	fugitive := fugitiveAt("x", 1)
	fugitive.Tickets = game.Tickets{}
	all := []*game.Participant{fugitive, pursuerAt("a", 3)}

	outcome := Evaluate(g, all, 5, 24)
	if outcome == nil || outcome.Winner != game.RolePursuer || outcome.Reason != game.ReasonFugitiveImmobilized {
		t.Errorf("expected fugitive immobilized, got %+v", outcome)
	}
}

func TestEvaluate_RoundLimitEvaded(t *testing.T) {
	g := testBoard(t)
	all := []*game.Participant{fugitiveAt("x", 1), pursuerAt("a", 3)}

	outcome := Evaluate(g, all, 24, 24)
	if outcome == nil || outcome.Winner != game.RoleFugitive || outcome.Reason != game.ReasonEvaded {
		t.Errorf("expected evaded at the round limit, got %+v", outcome)
	}
}
