// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// PostgreSQL driver
	_ "github.com/lib/pq"

	"github.com/wfunc/pursuit/game"
	"github.com/wfunc/pursuit/graph"
)

// PostgreSQL is the raw database/sql store, an alternative to the gorm one
// for deployments that prefer hand-written SQL.
type PostgreSQL struct {
	db *sql.DB
}

func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}
	return &PostgreSQL{db: db}, nil
}

func initTables(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS rooms (
            id SERIAL PRIMARY KEY,
            code VARCHAR(16) UNIQUE NOT NULL,
            phase VARCHAR(16) NOT NULL,
            turn_index INT NOT NULL DEFAULT 0,
            round INT NOT NULL DEFAULT 0,
            last_revealed INT NOT NULL DEFAULT -1,
            double_move INT NOT NULL DEFAULT 0,
            pending_first JSONB,
            outcome JSONB,
            settings JSONB NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS seats (
            id SERIAL PRIMARY KEY,
            room_code VARCHAR(16) NOT NULL,
            seat_index INT NOT NULL,
            identity VARCHAR(64) NOT NULL,
            name VARCHAR(64) NOT NULL,
            role VARCHAR(16) NOT NULL,
            position INT NOT NULL,
            tickets JSONB NOT NULL,
            host BOOLEAN NOT NULL DEFAULT FALSE,
            ready BOOLEAN NOT NULL DEFAULT FALSE,
            rematch_ready BOOLEAN NOT NULL DEFAULT FALSE,
            stuck BOOLEAN NOT NULL DEFAULT FALSE
        )`,
		`CREATE INDEX IF NOT EXISTS idx_seats_room ON seats (room_code)`,
		`CREATE TABLE IF NOT EXISTS moves (
            id SERIAL PRIMARY KEY,
            room_code VARCHAR(16) NOT NULL,
            identity VARCHAR(64) NOT NULL,
            from_stop INT NOT NULL,
            to_stop INT NOT NULL,
            route_type INT NOT NULL,
            round INT NOT NULL,
            at TIMESTAMP NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE INDEX IF NOT EXISTS idx_moves_room ON moves (room_code)`,
		`CREATE TABLE IF NOT EXISTS matches (
            id SERIAL PRIMARY KEY,
            code VARCHAR(16) NOT NULL,
            winner VARCHAR(16) NOT NULL,
            reason VARCHAR(64) NOT NULL,
            rounds INT NOT NULL,
            players JSONB NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (p *PostgreSQL) SaveRoom(state *game.State) error {
	tx, err := p.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	pendingFirst, err := json.Marshal(state.PendingFirst)
	if err != nil {
		return err
	}
	outcome, err := json.Marshal(state.Outcome)
	if err != nil {
		return err
	}
	settings, err := json.Marshal(state.Settings)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        INSERT INTO rooms (code, phase, turn_index, round, last_revealed, double_move, pending_first, outcome, settings, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP)
        ON CONFLICT (code) DO UPDATE SET
            phase = EXCLUDED.phase,
            turn_index = EXCLUDED.turn_index,
            round = EXCLUDED.round,
            last_revealed = EXCLUDED.last_revealed,
            double_move = EXCLUDED.double_move,
            pending_first = EXCLUDED.pending_first,
            outcome = EXCLUDED.outcome,
            settings = EXCLUDED.settings,
            updated_at = CURRENT_TIMESTAMP`,
		state.Code, string(state.Phase), state.TurnIndex, state.Round,
		state.LastRevealed, int(state.DoubleMove), pendingFirst, outcome, settings)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM seats WHERE room_code = $1`, state.Code); err != nil {
		return err
	}
	for i, seat := range state.Seats {
		tickets, err := json.Marshal(seat.Tickets)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`
            INSERT INTO seats (room_code, seat_index, identity, name, role, position, tickets, host, ready, rematch_ready, stuck)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			state.Code, i, seat.Identity, seat.Name, string(seat.Role),
			seat.Position, tickets, seat.Host, seat.Ready, seat.RematchReady, seat.Stuck)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (p *PostgreSQL) LoadRoom(code string) (*game.State, error) {
	state := &game.State{Code: code}
	var phase string
	var doubleMove int
	var pendingFirst, outcome, settings []byte

	err := p.db.QueryRow(`
        SELECT phase, turn_index, round, last_revealed, double_move, pending_first, outcome, settings
        FROM rooms WHERE code = $1`, code).
		Scan(&phase, &state.TurnIndex, &state.Round, &state.LastRevealed,
			&doubleMove, &pendingFirst, &outcome, &settings)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}

	state.Phase = game.Phase(phase)
	state.DoubleMove = game.DoubleMovePhase(doubleMove)
	if len(pendingFirst) > 0 {
		if err := json.Unmarshal(pendingFirst, &state.PendingFirst); err != nil {
			return nil, err
		}
	}
	if len(outcome) > 0 {
		if err := json.Unmarshal(outcome, &state.Outcome); err != nil {
			return nil, err
		}
	}
	if err := json.Unmarshal(settings, &state.Settings); err != nil {
		return nil, err
	}

	rows, err := p.db.Query(`
        SELECT identity, name, role, position, tickets, host, ready, rematch_ready, stuck
        FROM seats WHERE room_code = $1 ORDER BY seat_index`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var seat game.Participant
		var role string
		var tickets []byte
		if err := rows.Scan(&seat.Identity, &seat.Name, &role, &seat.Position,
			&tickets, &seat.Host, &seat.Ready, &seat.RematchReady, &seat.Stuck); err != nil {
			return nil, err
		}
		seat.Role = game.Role(role)
		if err := json.Unmarshal(tickets, &seat.Tickets); err != nil {
			return nil, err
		}
		state.Seats = append(state.Seats, &seat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	moveRows, err := p.db.Query(`
        SELECT identity, from_stop, to_stop, route_type, round, at
        FROM moves WHERE room_code = $1 ORDER BY id`, code)
	if err != nil {
		return nil, err
	}
	defer moveRows.Close()
	for moveRows.Next() {
		var mv game.MoveRecord
		var routeType int
		if err := moveRows.Scan(&mv.Identity, &mv.From, &mv.To, &routeType, &mv.Round, &mv.At); err != nil {
			return nil, err
		}
		mv.RouteType = graph.RouteType(routeType)
		state.Moves = append(state.Moves, mv)
	}
	return state, moveRows.Err()
}

func (p *PostgreSQL) DeleteRoom(code string) error {
	tx, err := p.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM seats WHERE room_code = $1`,
		`DELETE FROM moves WHERE room_code = $1`,
		`DELETE FROM rooms WHERE code = $1`,
	} {
		if _, err := tx.Exec(stmt, code); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (p *PostgreSQL) AppendMove(code string, mv game.MoveRecord) error {
	_, err := p.db.Exec(`
        INSERT INTO moves (room_code, identity, from_stop, to_stop, route_type, round, at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		code, mv.Identity, mv.From, mv.To, int(mv.RouteType), mv.Round, mv.At)
	return err
}

func (p *PostgreSQL) SaveMatchRecord(rec MatchRecord) error {
	players, err := json.Marshal(rec.Players)
	if err != nil {
		return err
	}
	_, err = p.db.Exec(`
        INSERT INTO matches (code, winner, reason, rounds, players)
        VALUES ($1, $2, $3, $4, $5)`,
		rec.Code, rec.Winner, rec.Reason, rec.Rounds, players)
	return err
}

func (p *PostgreSQL) PurgeStale(olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)

	rows, err := p.db.Query(`SELECT code FROM rooms WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return 0, err
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, code := range codes {
		if err := p.DeleteRoom(code); err != nil {
			return 0, err
		}
	}
	return len(codes), nil
}

func (p *PostgreSQL) MatchStats() (map[string]int, error) {
	rows, err := p.db.Query(`SELECT winner, count(*) FROM matches GROUP BY winner`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var winner string
		var total int
		if err := rows.Scan(&winner, &total); err != nil {
			return nil, err
		}
		stats[winner] = total
	}
	return stats, rows.Err()
}

func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
