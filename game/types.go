// game/types.go
package game

import (
	"encoding/json"
	"time"

	"github.com/wfunc/pursuit/graph"
)

// HiddenPosition is the sentinel shown in place of the fugitive's stop when
// the viewer is not entitled to it.
const HiddenPosition = -1

type Role string

const (
	RoleNone     Role = ""
	RoleFugitive Role = "fugitive"
	RolePursuer  Role = "pursuer"
)

type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseActive   Phase = "active"
	PhaseFinished Phase = "finished"
)

// Tickets is a per-route-type balance. Wildcard and DoubleMove exist only on
// the fugitive's template.
type Tickets struct {
	GroundShort int `json:"ground_short"`
	GroundLong  int `json:"ground_long"`
	Rail        int `json:"rail"`
	Water       int `json:"water"`
	Wildcard    int `json:"wildcard"`
	DoubleMove  int `json:"double_move"`
}

// For returns the balance for a route type.
func (t Tickets) For(rt graph.RouteType) int {
	switch rt {
	case graph.GroundShort:
		return t.GroundShort
	case graph.GroundLong:
		return t.GroundLong
	case graph.Rail:
		return t.Rail
	case graph.Water:
		return t.Water
	case graph.Wildcard:
		return t.Wildcard
	default:
		return 0
	}
}

// Spend deducts one ticket of the given route type.
func (t *Tickets) Spend(rt graph.RouteType) {
	switch rt {
	case graph.GroundShort:
		t.GroundShort--
	case graph.GroundLong:
		t.GroundLong--
	case graph.Rail:
		t.Rail--
	case graph.Water:
		t.Water--
	case graph.Wildcard:
		t.Wildcard--
	}
}

// Participant is one seat in a room. Identity is the durable token that
// survives reconnection; the live connection is bound outside the engine.
type Participant struct {
	Identity     string  `json:"identity"`
	Name         string  `json:"name"`
	Role         Role    `json:"role"`
	Position     int     `json:"position"`
	Tickets      Tickets `json:"tickets"`
	Host         bool    `json:"host"`
	Ready        bool    `json:"ready"`
	RematchReady bool    `json:"rematch_ready"`
	Stuck        bool    `json:"stuck"`
}

// MoveRecord is one entry of the append-only travel log.
type MoveRecord struct {
	Identity  string          `json:"identity"`
	From      int             `json:"from"`
	To        int             `json:"to"`
	RouteType graph.RouteType `json:"route_type"`
	Round     int             `json:"round"`
	At        time.Time       `json:"at"`
}

// DoubleMovePhase is the nested sub-state of a fugitive turn extension.
type DoubleMovePhase int

const (
	// DoubleMoveInactive: no extension in progress.
	DoubleMoveInactive DoubleMovePhase = iota
	// DoubleMoveArmed: ticket spent, first move not yet made.
	DoubleMoveArmed
	// DoubleMoveSecond: first move held, awaiting the second.
	DoubleMoveSecond
)

// Outcome is a terminal game result.
type Outcome struct {
	Winner Role   `json:"winner"`
	Reason string `json:"reason"`
}

const (
	ReasonCaptured            = "captured"
	ReasonPursuersImmobilized = "pursuers immobilized"
	ReasonFugitiveImmobilized = "fugitive immobilized"
	ReasonEvaded              = "evaded"
	ReasonForfeited           = "fugitive forfeited"
)

// Settings are the rule constants a room runs under.
type Settings struct {
	Capacity     int   `json:"capacity"`
	MaxRounds    int   `json:"max_rounds"`
	RevealRounds []int `json:"reveal_rounds"`
}

// DefaultSettings matches the classic 6-seat, 24-round schedule.
func DefaultSettings() Settings {
	return Settings{
		Capacity:     6,
		MaxRounds:    24,
		RevealRounds: []int{3, 8, 13, 18, 24},
	}
}

// IsRevealRound reports whether the fugitive's snapshot is public for the
// given round.
func (s Settings) IsRevealRound(round int) bool {
	for _, r := range s.RevealRounds {
		if r == round {
			return true
		}
	}
	return false
}

// State is the authoritative room state. Seat order is join order and defines
// both turn order and host succession.
type State struct {
	Code         string          `json:"code"`
	Phase        Phase           `json:"phase"`
	Seats        []*Participant  `json:"seats"`
	TurnIndex    int             `json:"turn_index"`
	Round        int             `json:"round"`
	Outcome      *Outcome        `json:"outcome,omitempty"`
	LastRevealed int             `json:"last_revealed"`
	DoubleMove   DoubleMovePhase `json:"double_move"`
	PendingFirst *MoveRecord     `json:"pending_first,omitempty"`
	Moves        []MoveRecord    `json:"moves"`
	Settings     Settings        `json:"settings"`
}

// NewState creates an empty lobby-phase room.
func NewState(code string, settings Settings) *State {
	return &State{
		Code:         code,
		Phase:        PhaseLobby,
		Round:        0,
		LastRevealed: HiddenPosition,
		Settings:     settings,
	}
}

// Seat returns the participant bound to the identity, if seated.
func (s *State) Seat(identity string) (*Participant, bool) {
	for _, p := range s.Seats {
		if p.Identity == identity {
			return p, true
		}
	}
	return nil, false
}

// Fugitive returns the fugitive seat, nil before roles are assigned.
func (s *State) Fugitive() *Participant {
	for _, p := range s.Seats {
		if p.Role == RoleFugitive {
			return p
		}
	}
	return nil
}

// CurrentSeat returns the participant whose turn it is.
func (s *State) CurrentSeat() *Participant {
	if len(s.Seats) == 0 || s.TurnIndex >= len(s.Seats) {
		return nil
	}
	return s.Seats[s.TurnIndex]
}

// IsRevealed reports whether the given round is inside a reveal window.
func (s *State) IsRevealed(round int) bool {
	return s.Settings.IsRevealRound(round)
}

// Clone deep-copies the state. The orchestrator snapshots before mutating so
// a persistence failure leaves the action unapplied.
func (s *State) Clone() *State {
	data, err := json.Marshal(s)
	if err != nil {
		panic("game state not serializable: " + err.Error())
	}
	var copy State
	if err := json.Unmarshal(data, &copy); err != nil {
		panic("game state not round-trippable: " + err.Error())
	}
	return &copy
}
