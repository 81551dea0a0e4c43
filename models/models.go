// models/models.go
package models

import (
	"time"
)

// PlayerResult is one player's final line in a finished game.
type PlayerResult struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	TotalScore int    `json:"total_score"`
	Winner     bool   `json:"winner"`
}

// GameRecord is the archived summary of one finished game. Only completed
// games are ever written; live room state stays in memory.
type GameRecord struct {
	RoomCode     string         `json:"room_code"`
	Region       string         `json:"region"`
	Country      string         `json:"country"`
	RoundsPlayed int            `json:"rounds_played"`
	Players      []PlayerResult `json:"players"`
	FinishedAt   time.Time      `json:"finished_at"`
}

// PlayerCareer accumulates a player's totals across archived games.
type PlayerCareer struct {
	UserID     string    `json:"user_id"`
	Games      int       `json:"games"`
	Wins       int       `json:"wins"`
	TotalScore int64     `json:"total_score"`
	UpdatedAt  time.Time `json:"updated_at"`
}
