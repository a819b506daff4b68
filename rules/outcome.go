// rules/outcome.go
package rules

import (
	"github.com/wfunc/pursuit/game"
	"github.com/wfunc/pursuit/graph"
)

// Evaluate inspects positions and the round counter after a completed move
// and yields a terminal outcome, or nil to continue. Order matters: capture
// is checked before immobilization so a simultaneous capture-and-stuck state
// resolves as a capture.
func Evaluate(g *graph.Graph, all []*game.Participant, round, maxRounds int) *game.Outcome {
	var fugitive *game.Participant
	for _, p := range all {
		if p.Role == game.RoleFugitive {
			fugitive = p
			break
		}
	}
	if fugitive == nil {
		return nil
	}

	for _, p := range all {
		if p.Role == game.RolePursuer && p.Position == fugitive.Position {
			return &game.Outcome{Winner: game.RolePursuer, Reason: game.ReasonCaptured}
		}
	}

	pursuersStuck := true
	for _, p := range all {
		if p.Role != game.RolePursuer {
			continue
		}
		if len(EnumerateMoves(g, p, all)) > 0 {
			pursuersStuck = false
			break
		}
	}
	if pursuersStuck {
		return &game.Outcome{Winner: game.RoleFugitive, Reason: game.ReasonPursuersImmobilized}
	}

	if len(EnumerateMoves(g, fugitive, all)) == 0 {
		return &game.Outcome{Winner: game.RolePursuer, Reason: game.ReasonFugitiveImmobilized}
	}

	if round >= maxRounds {
		return &game.Outcome{Winner: game.RoleFugitive, Reason: game.ReasonEvaded}
	}
	return nil
}
