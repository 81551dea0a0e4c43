package main

import (
	"github.com/joho/godotenv"

	"github.com/wfunc/geoserver/config"
	"github.com/wfunc/geoserver/logger"
	"github.com/wfunc/geoserver/persistence"
	"github.com/wfunc/geoserver/server"
	"github.com/wfunc/geoserver/services"
)

func main() {
	// Optional .env for local development; real deployments use the
	// environment directly.
	godotenv.Load()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	logger.Init(cfg.Log.Development)

	var records *services.RecordService
	switch cfg.Database.Driver {
	case "":
		logger.Log.Info("No database configured, finished games will not be archived.")
	case "pq":
		db, err := persistence.NewPostgreSQL(
			cfg.Database.Postgres.Host,
			cfg.Database.Postgres.Port,
			cfg.Database.Postgres.User,
			cfg.Database.Postgres.Password,
			cfg.Database.Postgres.DBName,
		)
		if err != nil {
			logger.Log.Fatalf("Failed to connect to database: %v", err)
		}
		records = services.NewRecordService(db)
		logger.Log.Info("Database connection successful (pq).")
	case "gorm":
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
		records = services.NewRecordService(db)
		logger.Log.Info("Database connection successful (gorm).")
	default:
		logger.Log.Fatalf("Unknown database driver: %q", cfg.Database.Driver)
	}

	gameServer := server.NewGameServer(cfg, records)

	logger.Log.Infof("Starting geo game server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
