// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/wfunc/geoserver/models"
)

const queryTimeout = 5 * time.Second

// PostgreSQL is the plain database/sql backend.
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

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
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
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS game_records (
            id SERIAL PRIMARY KEY,
            room_code VARCHAR(16) NOT NULL,
            region VARCHAR(32) NOT NULL,
            country VARCHAR(32),
            rounds_played INT NOT NULL,
            players JSONB NOT NULL,
            finished_at TIMESTAMP NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS player_careers (
            id SERIAL PRIMARY KEY,
            user_id VARCHAR(255) UNIQUE NOT NULL,
            games INT NOT NULL DEFAULT 0,
            wins INT NOT NULL DEFAULT 0,
            total_score BIGINT NOT NULL DEFAULT 0,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_game_records_room_code ON game_records(room_code);
        CREATE INDEX IF NOT EXISTS idx_game_records_finished_at ON game_records(finished_at);
    `)

	return err
}

func (p *PostgreSQL) SaveGameRecord(record *models.GameRecord) error {
	playersJSON, err := json.Marshal(record.Players)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	query := `
        INSERT INTO game_records (room_code, region, country, rounds_played, players, finished_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `

	_, err = p.db.ExecContext(ctx, query,
		record.RoomCode, record.Region, record.Country,
		record.RoundsPlayed, playersJSON, record.FinishedAt)
	return err
}

func (p *PostgreSQL) UpsertPlayerCareer(userID string, games, wins int, score int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	query := `
        INSERT INTO player_careers (user_id, games, wins, total_score)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id)
        DO UPDATE SET
            games = player_careers.games + $2,
            wins = player_careers.wins + $3,
            total_score = player_careers.total_score + $4,
            updated_at = CURRENT_TIMESTAMP
    `

	_, err := p.db.ExecContext(ctx, query, userID, games, wins, score)
	return err
}

func (p *PostgreSQL) GetPlayerCareer(userID string) (*models.PlayerCareer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	career := &models.PlayerCareer{UserID: userID}
	query := `SELECT games, wins, total_score, updated_at FROM player_careers WHERE user_id = $1`
	err := p.db.QueryRowContext(ctx, query, userID).Scan(
		&career.Games, &career.Wins, &career.TotalScore, &career.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return career, nil
}

func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
