// persistence/gorm_postgresql.go
package persistence

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wfunc/pursuit/game"
	"github.com/wfunc/pursuit/graph"
)

// GormPostgreSQL is the primary store implementation.
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL opens the connection, configures pooling and migrates
// the schema.
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := autoMigrate(db); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// RoomModel is one room record.
type RoomModel struct {
	ID           uint   `gorm:"primaryKey"`
	Code         string `gorm:"uniqueIndex;not null"`
	Phase        string `gorm:"not null"`
	TurnIndex    int
	Round        int
	LastRevealed int
	DoubleMove   int
	PendingFirst *game.MoveRecord `gorm:"type:jsonb;serializer:json"`
	Outcome      *game.Outcome    `gorm:"type:jsonb;serializer:json"`
	Settings     game.Settings    `gorm:"type:jsonb;serializer:json"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SeatModel is one participant record per seat.
type SeatModel struct {
	ID           uint   `gorm:"primaryKey"`
	RoomCode     string `gorm:"index;not null"`
	SeatIndex    int    `gorm:"not null"`
	Identity     string `gorm:"not null"`
	Name         string
	Role         string
	Position     int
	Tickets      game.Tickets `gorm:"type:jsonb;serializer:json"`
	Host         bool
	Ready        bool
	RematchReady bool
	Stuck        bool
}

// MoveModel is one append-only travel-log row.
type MoveModel struct {
	ID        uint   `gorm:"primaryKey"`
	RoomCode  string `gorm:"index;not null"`
	Identity  string `gorm:"not null"`
	FromStop  int
	ToStop    int
	RouteType int
	Round     int
	At        time.Time
	CreatedAt time.Time
}

// MatchModel is the durable result of one finished game.
type MatchModel struct {
	ID        uint   `gorm:"primaryKey"`
	Code      string `gorm:"index;not null"`
	Winner    string `gorm:"not null"`
	Reason    string `gorm:"not null"`
	Rounds    int
	Players   map[string]string `gorm:"type:jsonb;serializer:json"`
	CreatedAt time.Time
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&RoomModel{},
		&SeatModel{},
		&MoveModel{},
		&MatchModel{},
	)
}

// SaveRoom upserts the room row and rewrites its seat rows in one
// transaction.
func (p *GormPostgreSQL) SaveRoom(state *game.State) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		var room RoomModel
		result := tx.Where("code = ?", state.Code).First(&room)
		if result.Error != nil && result.Error != gorm.ErrRecordNotFound {
			return result.Error
		}

		room.Code = state.Code
		room.Phase = string(state.Phase)
		room.TurnIndex = state.TurnIndex
		room.Round = state.Round
		room.LastRevealed = state.LastRevealed
		room.DoubleMove = int(state.DoubleMove)
		room.PendingFirst = state.PendingFirst
		room.Outcome = state.Outcome
		room.Settings = state.Settings
		room.UpdatedAt = time.Now()

		if result.Error == gorm.ErrRecordNotFound {
			if err := tx.Create(&room).Error; err != nil {
				return err
			}
		} else if err := tx.Save(&room).Error; err != nil {
			return err
		}

		if err := tx.Where("room_code = ?", state.Code).Delete(&SeatModel{}).Error; err != nil {
			return err
		}
		for i, seat := range state.Seats {
			row := SeatModel{
				RoomCode:     state.Code,
				SeatIndex:    i,
				Identity:     seat.Identity,
				Name:         seat.Name,
				Role:         string(seat.Role),
				Position:     seat.Position,
				Tickets:      seat.Tickets,
				Host:         seat.Host,
				Ready:        seat.Ready,
				RematchReady: seat.RematchReady,
				Stuck:        seat.Stuck,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadRoom rebuilds a full room state from its room, seat and move rows.
func (p *GormPostgreSQL) LoadRoom(code string) (*game.State, error) {
	var room RoomModel
	if err := p.db.Where("code = ?", code).First(&room).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	var seats []SeatModel
	if err := p.db.Where("room_code = ?", code).Order("seat_index").Find(&seats).Error; err != nil {
		return nil, err
	}
	var moves []MoveModel
	if err := p.db.Where("room_code = ?", code).Order("id").Find(&moves).Error; err != nil {
		return nil, err
	}

	state := &game.State{
		Code:         room.Code,
		Phase:        game.Phase(room.Phase),
		TurnIndex:    room.TurnIndex,
		Round:        room.Round,
		LastRevealed: room.LastRevealed,
		DoubleMove:   game.DoubleMovePhase(room.DoubleMove),
		PendingFirst: room.PendingFirst,
		Outcome:      room.Outcome,
		Settings:     room.Settings,
	}
	for _, seat := range seats {
		state.Seats = append(state.Seats, &game.Participant{
			Identity:     seat.Identity,
			Name:         seat.Name,
			Role:         game.Role(seat.Role),
			Position:     seat.Position,
			Tickets:      seat.Tickets,
			Host:         seat.Host,
			Ready:        seat.Ready,
			RematchReady: seat.RematchReady,
			Stuck:        seat.Stuck,
		})
	}
	for _, mv := range moves {
		state.Moves = append(state.Moves, game.MoveRecord{
			Identity:  mv.Identity,
			From:      mv.FromStop,
			To:        mv.ToStop,
			RouteType: graph.RouteType(mv.RouteType),
			Round:     mv.Round,
			At:        mv.At,
		})
	}
	return state, nil
}

// DeleteRoom removes the room with its seats and travel log.
func (p *GormPostgreSQL) DeleteRoom(code string) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_code = ?", code).Delete(&SeatModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_code = ?", code).Delete(&MoveModel{}).Error; err != nil {
			return err
		}
		return tx.Where("code = ?", code).Delete(&RoomModel{}).Error
	})
}

// AppendMove writes one travel-log row and touches the room timestamp so
// housekeeping sees the room as live.
func (p *GormPostgreSQL) AppendMove(code string, mv game.MoveRecord) error {
	row := MoveModel{
		RoomCode:  code,
		Identity:  mv.Identity,
		FromStop:  mv.From,
		ToStop:    mv.To,
		RouteType: int(mv.RouteType),
		Round:     mv.Round,
		At:        mv.At,
	}
	return p.db.Create(&row).Error
}

// SaveMatchRecord stores a finished game's result.
func (p *GormPostgreSQL) SaveMatchRecord(rec MatchRecord) error {
	row := MatchModel{
		Code:    rec.Code,
		Winner:  rec.Winner,
		Reason:  rec.Reason,
		Rounds:  rec.Rounds,
		Players: rec.Players,
	}
	return p.db.Create(&row).Error
}

// PurgeStale deletes rooms whose updated timestamp fell outside the
// retention window, along with their seats and moves.
func (p *GormPostgreSQL) PurgeStale(olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)

	var stale []RoomModel
	if err := p.db.Where("updated_at < ?", cutoff).Find(&stale).Error; err != nil {
		return 0, err
	}
	for _, room := range stale {
		if err := p.DeleteRoom(room.Code); err != nil {
			return 0, err
		}
	}
	return len(stale), nil
}

// MatchStats aggregates finished games by winner.
func (p *GormPostgreSQL) MatchStats() (map[string]int, error) {
	type row struct {
		Winner string
		Total  int
	}
	var rows []row
	err := p.db.Model(&MatchModel{}).
		Select("winner, count(*) as total").
		Group("winner").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make(map[string]int, len(rows))
	for _, r := range rows {
		stats[r.Winner] = r.Total
	}
	return stats, nil
}

func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
