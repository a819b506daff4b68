// persistence/interface.go
package persistence

import (
	"fmt"
	"time"

	"github.com/wfunc/pursuit/game"
)

// Store is the persistence collaborator the orchestrator issues logical
// reads and writes against. Any durable backing is valid; this package ships
// a gorm/postgres store, a raw database/sql store and an in-memory store.
type Store interface {
	// SaveRoom upserts the room record and its seat records.
	SaveRoom(state *game.State) error
	// LoadRoom rebuilds a full room state, including the travel log.
	LoadRoom(code string) (*game.State, error)
	DeleteRoom(code string) error
	// AppendMove writes one travel-log row.
	AppendMove(code string, mv game.MoveRecord) error
	SaveMatchRecord(rec MatchRecord) error
	// PurgeStale deletes room records untouched for longer than the
	// retention window and returns how many were removed.
	PurgeStale(olderThan time.Duration) (int, error)
	// MatchStats aggregates finished games by winner.
	MatchStats() (map[string]int, error)
	Close() error
}

// MatchRecord is the durable result of one finished game.
type MatchRecord struct {
	Code    string            `json:"code"`
	Winner  string            `json:"winner"`
	Reason  string            `json:"reason"`
	Rounds  int               `json:"rounds"`
	Players map[string]string `json:"players"` // identity -> role
}

var ErrRecordNotFound = fmt.Errorf("record not found")
