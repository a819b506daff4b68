// rules/moves.go
package rules

import (
	"fmt"

	"github.com/wfunc/pursuit/game"
	"github.com/wfunc/pursuit/graph"
)

// Reason identifies why a proposed move was rejected.
type Reason string

const (
	UnknownStop         Reason = "unknown_stop"
	RoleNotAllowed      Reason = "role_not_allowed"
	InsufficientTickets Reason = "insufficient_tickets"
	NoRoute             Reason = "no_route"
	OccupiedByAlly      Reason = "occupied_by_ally"
	OccupiedByPursuer   Reason = "occupied_by_pursuer"
)

// Rejection is a non-fatal validation failure, reported only to the mover.
type Rejection struct {
	Reason Reason
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("move rejected: %s", r.Reason)
}

func reject(reason Reason) error {
	return &Rejection{Reason: reason}
}

// Validate decides whether the proposed move is legal. Pure: ticket deduction
// and the position update happen only after the orchestrator accepts the
// result. Checks run in fixed precedence so callers get stable reasons.
func Validate(g *graph.Graph, mover *game.Participant, dest int, routeType graph.RouteType, all []*game.Participant) error {
	if !g.HasStop(dest) {
		return reject(UnknownStop)
	}

	if routeType == graph.Wildcard {
		if mover.Role != game.RoleFugitive {
			return reject(RoleNotAllowed)
		}
		if mover.Tickets.Wildcard < 1 {
			return reject(InsufficientTickets)
		}
		// The wildcard rides any physical route but consumes its own ticket.
		if !g.Connected(mover.Position, dest, graph.Wildcard) {
			return reject(NoRoute)
		}
	} else {
		if mover.Tickets.For(routeType) < 1 {
			return reject(InsufficientTickets)
		}
		if !g.Connected(mover.Position, dest, routeType) {
			return reject(NoRoute)
		}
	}

	for _, other := range all {
		if other.Identity == mover.Identity || other.Position != dest {
			continue
		}
		if mover.Role == game.RolePursuer && other.Role == game.RolePursuer {
			return reject(OccupiedByAlly)
		}
		if mover.Role == game.RoleFugitive && other.Role == game.RolePursuer {
			return reject(OccupiedByPursuer)
		}
	}
	return nil
}

// MoveOption is one reachable destination with every route type that can
// take the mover there. Wildcard marks destinations additionally reachable
// by spending a wildcard ticket.
type MoveOption struct {
	Destination int               `json:"destination"`
	RouteTypes  []graph.RouteType `json:"route_types"`
	Wildcard    bool              `json:"wildcard"`
}

// EnumerateMoves lists every legal move for the participant. A route type
// with zero tickets is never offered.
func EnumerateMoves(g *graph.Graph, mover *game.Participant, all []*game.Participant) []MoveOption {
	options := make(map[int]*MoveOption)

	consider := func(dest int, rt graph.RouteType) {
		if Validate(g, mover, dest, rt, all) != nil {
			return
		}
		opt, exists := options[dest]
		if !exists {
			opt = &MoveOption{Destination: dest}
			options[dest] = opt
		}
		if rt == graph.Wildcard {
			opt.Wildcard = true
			return
		}
		opt.RouteTypes = append(opt.RouteTypes, rt)
	}

	for _, rt := range graph.OrdinaryRouteTypes {
		if mover.Tickets.For(rt) < 1 {
			continue
		}
		for _, dest := range g.Neighbors(mover.Position, rt) {
			consider(dest, rt)
		}
	}
	if mover.Role == game.RoleFugitive && mover.Tickets.Wildcard > 0 {
		for _, dest := range g.Neighbors(mover.Position, graph.Wildcard) {
			consider(dest, graph.Wildcard)
		}
	}

	result := make([]MoveOption, 0, len(options))
	for _, opt := range options {
		result = append(result, *opt)
	}
	return result
}
