package main

import (
	"github.com/wfunc/pursuit/config"
	"github.com/wfunc/pursuit/graph"
	"github.com/wfunc/pursuit/logger"
	"github.com/wfunc/pursuit/persistence"
	"github.com/wfunc/pursuit/server"
	"github.com/wfunc/pursuit/services"
	"github.com/wfunc/pursuit/timer"
)

func main() {
	// Initialize logger
	logger.Init()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// The board is compiled in; a malformed board is a build defect, not a
	// runtime condition.
	board, err := graph.DefaultBoard()
	if err != nil {
		logger.Log.Fatalf("Board definition is invalid: %v", err)
	}

	// Initialize Database
	db, err := persistence.NewGormPostgreSQL(
		cfg.Database.Postgres.Host,
		cfg.Database.Postgres.Port,
		cfg.Database.Postgres.User,
		cfg.Database.Postgres.Password,
		cfg.Database.Postgres.DBName,
	)
	if err != nil {
		logger.Log.Fatalf("Failed to connect to database: %v", err)
	}
	logger.Log.Info("Database connection successful.")

	// Initialize Game Server
	gameServer := server.NewGameServer(cfg, board, db)

	// Housekeeping: purge rooms idle past the retention window.
	timers := timer.NewTimerManager()
	housekeeper := services.NewHousekeeper(db, gameServer.RoomManager(), timers, cfg.Game.RoomRetention)
	housekeeper.Start()

	// Start Server
	logger.Log.Infof("Starting game server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
