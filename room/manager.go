// room/manager.go
package room

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/wfunc/pursuit/game"
	"github.com/wfunc/pursuit/graph"
	"github.com/wfunc/pursuit/persistence"
)

var ErrRoomNotFound = errors.New("room not found")

// Code alphabet avoids ambiguous characters.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const codeLength = 6

// Manager is the injectable registry of live rooms. Rooms enter on
// create/load and leave on destroy; nothing here is ambient package state.
type Manager struct {
	mutex    sync.RWMutex
	rooms    map[string]*Room
	store    persistence.Store
	board    *graph.Graph
	settings game.Settings
	seedRng  *rand.Rand
	seedMu   sync.Mutex
}

func NewManager(store persistence.Store, board *graph.Graph, settings game.Settings) *Manager {
	return &Manager{
		rooms:    make(map[string]*Room),
		store:    store,
		board:    board,
		settings: settings,
		seedRng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (m *Manager) newCode() string {
	m.seedMu.Lock()
	defer m.seedMu.Unlock()

	code := make([]byte, codeLength)
	for i := range code {
		code[i] = codeAlphabet[m.seedRng.Intn(len(codeAlphabet))]
	}
	return string(code)
}

func (m *Manager) newRoomRand() *rand.Rand {
	m.seedMu.Lock()
	defer m.seedMu.Unlock()
	return rand.New(rand.NewSource(m.seedRng.Int63()))
}

// CreateRoom registers a fresh lobby under a new public code.
func (m *Manager) CreateRoom(broadcaster Broadcaster) (*Room, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	code := m.newCode()
	for {
		if _, taken := m.rooms[code]; !taken {
			break
		}
		code = m.newCode()
	}

	state := game.NewState(code, m.settings)
	if err := m.store.SaveRoom(state); err != nil {
		return nil, err
	}

	room := NewRoom(state, m.board, m.store, broadcaster, m.newRoomRand())
	m.rooms[code] = room
	return room, nil
}

// GetRoom returns a live room, falling back to the store so a room survives
// a process restart: the first action after the restart reloads it.
func (m *Manager) GetRoom(code string, broadcaster Broadcaster) (*Room, error) {
	m.mutex.RLock()
	room, exists := m.rooms[code]
	m.mutex.RUnlock()
	if exists {
		return room, nil
	}

	state, err := m.store.LoadRoom(code)
	if err != nil {
		if err == persistence.ErrRecordNotFound {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	if room, exists := m.rooms[code]; exists {
		return room, nil
	}
	room = NewRoom(state, m.board, m.store, broadcaster, m.newRoomRand())
	m.rooms[code] = room
	return room, nil
}

// RemoveRoom drops a room from the registry.
func (m *Manager) RemoveRoom(code string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.rooms, code)
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}

func (m *Manager) Codes() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	codes := make([]string, 0, len(m.rooms))
	for code := range m.rooms {
		codes = append(codes, code)
	}
	return codes
}

// EvictIdle drops rooms from the registry whose last action is older than
// the retention window. The durable records are purged separately by
// housekeeping; an evicted room that was not purged reloads on demand.
func (m *Manager) EvictIdle(retention time.Duration) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	cutoff := time.Now().Add(-retention)
	evicted := 0
	for code, room := range m.rooms {
		if room.UpdatedAt().Before(cutoff) {
			delete(m.rooms, code)
			evicted++
		}
	}
	return evicted
}
