// services/stats_service.go
package services

import (
	"github.com/wfunc/pursuit/persistence"
	"github.com/wfunc/pursuit/room"
)

// StatsService answers operator queries over live rooms and match history.
// Exposed through the admin RPC endpoint.
type StatsService struct {
	store persistence.Store
	rooms *room.Manager
}

func NewStatsService(store persistence.Store, rooms *room.Manager) *StatsService {
	return &StatsService{store: store, rooms: rooms}
}

// ServerStats is the aggregate operator view.
type ServerStats struct {
	LiveRooms    int
	RoomCodes    []string
	WinsByWinner map[string]int
}

func (s *StatsService) ServerStats() (*ServerStats, error) {
	wins, err := s.store.MatchStats()
	if err != nil {
		return nil, err
	}
	return &ServerStats{
		LiveRooms:    s.rooms.Count(),
		RoomCodes:    s.rooms.Codes(),
		WinsByWinner: wins,
	}, nil
}

// RoomSummary is the operator view of one room: no hidden-information
// filtering here, this side-channel is not player-facing.
type RoomSummary struct {
	Code    string
	Phase   string
	Round   int
	Seats   int
	Outcome string
}

func (s *StatsService) RoomSummary(code string) (*RoomSummary, error) {
	state, err := s.store.LoadRoom(code)
	if err != nil {
		return nil, err
	}

	summary := &RoomSummary{
		Code:  state.Code,
		Phase: string(state.Phase),
		Round: state.Round,
		Seats: len(state.Seats),
	}
	if state.Outcome != nil {
		summary.Outcome = state.Outcome.Reason
	}
	return summary, nil
}
