// persistence/memory.go
package persistence

import (
	"sync"
	"time"

	"github.com/wfunc/pursuit/game"
)

// Memory is an in-memory Store for tests and no-database runs.
type Memory struct {
	mutex   sync.RWMutex
	rooms   map[string]*game.State
	touched map[string]time.Time
	matches []MatchRecord
}

func NewMemory() *Memory {
	return &Memory{
		rooms:   make(map[string]*game.State),
		touched: make(map[string]time.Time),
	}
}

func (m *Memory) SaveRoom(state *game.State) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.rooms[state.Code] = state.Clone()
	m.touched[state.Code] = time.Now()
	return nil
}

func (m *Memory) LoadRoom(code string) (*game.State, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	state, exists := m.rooms[code]
	if !exists {
		return nil, ErrRecordNotFound
	}
	return state.Clone(), nil
}

func (m *Memory) DeleteRoom(code string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.rooms, code)
	delete(m.touched, code)
	return nil
}

// AppendMove is a no-op beyond touching the room: SaveRoom already stores
// the full travel log inside the state.
func (m *Memory) AppendMove(code string, mv game.MoveRecord) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if _, exists := m.rooms[code]; !exists {
		return ErrRecordNotFound
	}
	m.touched[code] = time.Now()
	return nil
}

func (m *Memory) SaveMatchRecord(rec MatchRecord) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.matches = append(m.matches, rec)
	return nil
}

func (m *Memory) PurgeStale(olderThan time.Duration) (int, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	cutoff := time.Now().Add(-olderThan)
	purged := 0
	for code, at := range m.touched {
		if at.Before(cutoff) {
			delete(m.rooms, code)
			delete(m.touched, code)
			purged++
		}
	}
	return purged, nil
}

func (m *Memory) MatchStats() (map[string]int, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	stats := make(map[string]int)
	for _, rec := range m.matches {
		stats[rec.Winner]++
	}
	return stats, nil
}

func (m *Memory) Close() error {
	return nil
}
