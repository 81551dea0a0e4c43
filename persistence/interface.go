// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/wfunc/geoserver/models"
)

// Database archives finished games and player career totals.
type Database interface {
	SaveGameRecord(record *models.GameRecord) error
	UpsertPlayerCareer(userID string, games, wins int, score int64) error
	GetPlayerCareer(userID string) (*models.PlayerCareer, error)
	Close() error
}

var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
