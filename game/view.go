// game/view.go
package game

// SeatView is one participant as seen by a particular viewer.
type SeatView struct {
	Identity     string  `json:"identity"`
	Name         string  `json:"name"`
	Role         Role    `json:"role"`
	Position     int     `json:"position"`
	Tickets      Tickets `json:"tickets"`
	Host         bool    `json:"host"`
	Ready        bool    `json:"ready"`
	RematchReady bool    `json:"rematch_ready"`
	Stuck        bool    `json:"stuck"`
	You          bool    `json:"you"`
}

// MoveView is one travel-log entry as seen by a particular viewer.
type MoveView struct {
	Identity  string `json:"identity"`
	From      int    `json:"from"`
	To        int    `json:"to"`
	RouteType string `json:"route_type"`
	Round     int    `json:"round"`
}

// View is the per-participant projection of a room. The fugitive's position
// is replaced by the hidden sentinel, or by the reveal-round snapshot, for
// everyone but the fugitive until the game finishes.
type View struct {
	Code              string     `json:"code"`
	Phase             Phase      `json:"phase"`
	Round             int        `json:"round"`
	TurnIndex         int        `json:"turn_index"`
	CurrentTurn       string     `json:"current_turn,omitempty"`
	Revealed          bool       `json:"revealed"`
	DoubleMovePending bool       `json:"double_move_pending"`
	Outcome           *Outcome   `json:"outcome,omitempty"`
	Seats             []SeatView `json:"seats"`
	Moves             []MoveView `json:"moves"`
}

// Project computes the view of a room for one viewer identity. It is pure:
// the reveal-window contract lives entirely here.
func Project(s *State, viewer string) View {
	view := View{
		Code:              s.Code,
		Phase:             s.Phase,
		Round:             s.Round,
		TurnIndex:         s.TurnIndex,
		Revealed:          s.Phase == PhaseActive && s.IsRevealed(s.Round),
		DoubleMovePending: s.DoubleMove != DoubleMoveInactive,
		Outcome:           s.Outcome,
	}
	if current := s.CurrentSeat(); current != nil && s.Phase == PhaseActive {
		view.CurrentTurn = current.Identity
	}

	viewerSeat, _ := s.Seat(viewer)
	fugitiveVisible := s.Phase == PhaseFinished ||
		(viewerSeat != nil && viewerSeat.Role == RoleFugitive)

	for _, p := range s.Seats {
		sv := SeatView{
			Identity:     p.Identity,
			Name:         p.Name,
			Role:         p.Role,
			Position:     p.Position,
			Tickets:      p.Tickets,
			Host:         p.Host,
			Ready:        p.Ready,
			RematchReady: p.RematchReady,
			Stuck:        p.Stuck,
			You:          p.Identity == viewer,
		}
		if p.Role == RoleFugitive && !fugitiveVisible {
			if view.Revealed {
				// The snapshot taken at the start of the reveal round, never
				// the live position.
				sv.Position = s.LastRevealed
			} else {
				sv.Position = HiddenPosition
			}
		}
		view.Seats = append(view.Seats, sv)
	}

	fugitive := s.Fugitive()
	for _, m := range s.Moves {
		mv := MoveView{
			Identity:  m.Identity,
			From:      m.From,
			To:        m.To,
			RouteType: m.RouteType.String(),
			Round:     m.Round,
		}
		if !fugitiveVisible && fugitive != nil && m.Identity == fugitive.Identity {
			mv.From = HiddenPosition
			mv.To = HiddenPosition
		}
		view.Moves = append(view.Moves, mv)
	}
	return view
}
