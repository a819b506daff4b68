// room/room.go
package room

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/wfunc/pursuit/game"
	"github.com/wfunc/pursuit/graph"
	"github.com/wfunc/pursuit/logger"
	"github.com/wfunc/pursuit/network"
	"github.com/wfunc/pursuit/persistence"
	"github.com/wfunc/pursuit/rules"
)

// ErrPersistence marks an action that was rolled back because the store
// failed; the actor should retry.
var ErrPersistence = errors.New("persistence failure, action not applied")

// Room serializes every mutating action against one game state. The mutex is
// held across apply, persist and broadcast, so a suspended persistence call
// still blocks the next action for this room while rooms stay independent.
type Room struct {
	mu          sync.Mutex
	state       *game.State
	board       *graph.Graph
	store       persistence.Store
	broadcaster Broadcaster
	rng         *rand.Rand
	updatedAt   time.Time
}

func NewRoom(state *game.State, board *graph.Graph, store persistence.Store, broadcaster Broadcaster, rng *rand.Rand) *Room {
	return &Room{
		state:       state,
		board:       board,
		store:       store,
		broadcaster: broadcaster,
		rng:         rng,
		updatedAt:   time.Now(),
	}
}

func (r *Room) Code() string {
	return r.state.Code
}

// State returns a deep copy for inspection; the live state never leaves the
// room's lock.
func (r *Room) State() *game.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone()
}

func (r *Room) UpdatedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updatedAt
}

// Join seats the identity, or rebinds a returning one, and broadcasts the
// new lobby view.
func (r *Room) Join(identity, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := r.state.Clone()
	if _, err := r.state.Join(identity, name); err != nil {
		return err
	}
	if err := r.persist(snapshot); err != nil {
		return err
	}
	r.broadcastState()
	return nil
}

// Leave removes the seat, running host succession. If the fugitive abandons
// an active game the pursuers win by forfeit. Returns true when the room is
// now empty and should be destroyed.
func (r *Room) Leave(identity string) (empty bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := r.state.Clone()
	empty, err = r.state.Leave(identity)
	if err != nil {
		return false, err
	}
	if empty {
		if err := r.store.DeleteRoom(r.state.Code); err != nil {
			r.state = snapshot
			return false, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		return true, nil
	}

	if r.state.Phase == game.PhaseActive && r.state.Fugitive() == nil {
		r.state.Finish(game.Outcome{Winner: game.RolePursuer, Reason: game.ReasonForfeited})
	}
	// The departure may have landed the turn on a pursuer with no legal move.
	if r.state.Phase == game.PhaseActive {
		r.skipStuckPursuers()
	}
	if err := r.persist(snapshot); err != nil {
		return false, err
	}
	r.broadcastState()
	if snapshot.Phase == game.PhaseActive && r.state.Phase == game.PhaseFinished {
		r.broadcastGameEnd()
		r.saveMatchRecord()
	}
	return false, nil
}

func (r *Room) SetReady(identity string, ready bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := r.state.Clone()
	if err := r.state.SetReady(identity, ready); err != nil {
		return err
	}
	if err := r.persist(snapshot); err != nil {
		return err
	}
	r.broadcastState()
	return nil
}

// StartGame rolls roles, positions and tickets. Host only, ready gate
// enforced.
func (r *Room) StartGame(identity string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seat, ok := r.state.Seat(identity)
	if !ok {
		return game.ErrNotSeated
	}
	if !seat.Host {
		return game.ErrNotHost
	}
	if r.state.Phase != game.PhaseLobby {
		return game.ErrAlreadyPlaying
	}
	if !r.state.CanStart() {
		return game.ErrNotEnoughReady
	}

	snapshot := r.state.Clone()
	if err := r.state.Start(r.rng, graph.FugitiveStarts, graph.PursuerStarts); err != nil {
		return err
	}
	if err := r.persist(snapshot); err != nil {
		return err
	}
	logger.Log.Infow("game started", "room", r.state.Code, "seats", len(r.state.Seats))
	r.broadcastState()
	return nil
}

// Move validates and applies one move, evaluates the outcome and advances
// past stuck pursuers.
func (r *Room) Move(identity string, dest int, routeType graph.RouteType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.Phase != game.PhaseActive {
		return game.ErrNotActive
	}
	mover, ok := r.state.Seat(identity)
	if !ok {
		return game.ErrNotSeated
	}
	current := r.state.CurrentSeat()
	if current == nil || current.Identity != identity {
		return game.ErrNotYourTurn
	}

	if err := rules.Validate(r.board, mover, dest, routeType, r.state.Seats); err != nil {
		return err
	}

	snapshot := r.state.Clone()
	record := r.state.ApplyMove(mover, dest, routeType, time.Now())

	r.resolveOutcome()
	if r.state.Phase == game.PhaseActive {
		r.skipStuckPursuers()
	}

	if err := r.persistWithMove(snapshot, record); err != nil {
		return err
	}
	r.broadcastState()
	if r.state.Phase == game.PhaseFinished {
		r.broadcastGameEnd()
		r.saveMatchRecord()
	}
	return nil
}

// StartDoubleMove arms the fugitive's turn extension.
func (r *Room) StartDoubleMove(identity string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seat, ok := r.state.Seat(identity)
	if !ok {
		return game.ErrNotSeated
	}

	snapshot := r.state.Clone()
	if err := r.state.StartDoubleMove(seat); err != nil {
		return err
	}
	if err := r.persist(snapshot); err != nil {
		return err
	}
	r.broadcastState()
	return nil
}

// SetRematchReady flags a seat for a rematch; once every current seat agrees
// a fresh game is rolled on the same roster.
func (r *Room) SetRematchReady(identity string, ready bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.Phase != game.PhaseFinished {
		return game.ErrNotActive
	}

	snapshot := r.state.Clone()
	all, err := r.state.SetRematchReady(identity, ready)
	if err != nil {
		return err
	}
	if all {
		if err := r.state.Rematch(r.rng, graph.FugitiveStarts, graph.PursuerStarts); err != nil {
			r.state = snapshot
			return err
		}
		logger.Log.Infow("rematch started", "room", r.state.Code)
	}
	if err := r.persist(snapshot); err != nil {
		return err
	}
	r.broadcastState()
	return nil
}

// ProjectFor returns the viewer's current projection, used to refresh a
// reconnecting participant.
func (r *Room) ProjectFor(identity string) game.View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return game.Project(r.state, identity)
}

// resolveOutcome runs the win evaluator and finishes the game on a terminal
// result.
func (r *Room) resolveOutcome() {
	outcome := rules.Evaluate(r.board, r.state.Seats, r.state.Round, r.state.Settings.MaxRounds)
	if outcome != nil {
		r.state.Finish(*outcome)
	}
}

// skipStuckPursuers advances past pursuers with no legal move, flagging them
// stuck. Bounded by the seat count; full immobilization is already a
// terminal outcome.
func (r *Room) skipStuckPursuers() {
	for i := 0; i < len(r.state.Seats); i++ {
		current := r.state.CurrentSeat()
		if current == nil || current.Role != game.RolePursuer {
			return
		}
		if len(rules.EnumerateMoves(r.board, current, r.state.Seats)) > 0 {
			current.Stuck = false
			return
		}
		current.Stuck = true
		r.state.SkipTurn()
		r.resolveOutcome()
		if r.state.Phase != game.PhaseActive {
			return
		}
	}
}

func (r *Room) persist(snapshot *game.State) error {
	if err := r.store.SaveRoom(r.state); err != nil {
		r.state = snapshot
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	r.updatedAt = time.Now()
	return nil
}

func (r *Room) persistWithMove(snapshot *game.State, record game.MoveRecord) error {
	if err := r.store.SaveRoom(r.state); err != nil {
		r.state = snapshot
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := r.store.AppendMove(r.state.Code, record); err != nil {
		r.state = snapshot
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	r.updatedAt = time.Now()
	return nil
}

// broadcastState sends each seat its own projection, and the current player
// their enumerated options. Runs under the room lock so no later action can
// overtake the delivery.
func (r *Room) broadcastState() {
	for _, seat := range r.state.Seats {
		view := game.Project(r.state, seat.Identity)
		data, err := json.Marshal(view)
		if err != nil {
			logger.Log.Errorw("projection marshal failed", "room", r.state.Code, "error", err)
			continue
		}
		if err := r.broadcaster.SendToIdentity(seat.Identity, network.MsgTypeRoomState, data); err != nil {
			// Disconnected seats catch up on reconnect.
			continue
		}
	}

	if r.state.Phase != game.PhaseActive {
		return
	}
	current := r.state.CurrentSeat()
	if current == nil {
		return
	}
	options := rules.EnumerateMoves(r.board, current, r.state.Seats)
	data, err := json.Marshal(options)
	if err != nil {
		return
	}
	r.broadcaster.SendToIdentity(current.Identity, network.MsgTypeMoveOptions, data)
}

func (r *Room) broadcastGameEnd() {
	data, err := json.Marshal(r.state.Outcome)
	if err != nil {
		return
	}
	for _, seat := range r.state.Seats {
		r.broadcaster.SendToIdentity(seat.Identity, network.MsgTypeGameEnd, data)
	}
}

func (r *Room) saveMatchRecord() {
	players := make(map[string]string, len(r.state.Seats))
	for _, seat := range r.state.Seats {
		players[seat.Identity] = string(seat.Role)
	}
	rec := persistence.MatchRecord{
		Code:    r.state.Code,
		Winner:  string(r.state.Outcome.Winner),
		Reason:  r.state.Outcome.Reason,
		Rounds:  r.state.Round,
		Players: players,
	}
	if err := r.store.SaveMatchRecord(rec); err != nil {
		logger.Log.Errorw("match record save failed", "room", r.state.Code, "error", err)
	}
}
