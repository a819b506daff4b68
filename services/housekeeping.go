// services/housekeeping.go
package services

import (
	"time"

	"github.com/wfunc/pursuit/logger"
	"github.com/wfunc/pursuit/persistence"
	"github.com/wfunc/pursuit/room"
	"github.com/wfunc/pursuit/timer"
)

// Housekeeper periodically purges abandoned room records. This is routine
// GC, not game logic: a disconnected seat keeps its state until the
// retention window lapses, so a purge only removes rooms nobody touched at
// all for that long.
type Housekeeper struct {
	store     persistence.Store
	rooms     *room.Manager
	timers    *timer.TimerManager
	retention time.Duration
	timerID   int64
}

func NewHousekeeper(store persistence.Store, rooms *room.Manager, timers *timer.TimerManager, retention time.Duration) *Housekeeper {
	return &Housekeeper{
		store:     store,
		rooms:     rooms,
		timers:    timers,
		retention: retention,
	}
}

// Start schedules the sweep at a quarter of the retention window.
func (h *Housekeeper) Start() {
	interval := h.retention / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	h.timerID = h.timers.AddTimer(interval, interval, h.sweep)
}

func (h *Housekeeper) Stop() {
	h.timers.RemoveTimer(h.timerID)
}

func (h *Housekeeper) sweep() {
	evicted := h.rooms.EvictIdle(h.retention)
	purged, err := h.store.PurgeStale(h.retention)
	if err != nil {
		logger.Log.Errorw("stale room purge failed", "error", err)
		return
	}
	if evicted > 0 || purged > 0 {
		logger.Log.Infow("housekeeping sweep", "evicted", evicted, "purged", purged)
	}
}
