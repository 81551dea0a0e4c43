// services/record_service.go
package services

import (
	"time"

	"github.com/wfunc/geoserver/models"
	"github.com/wfunc/geoserver/persistence"
	"github.com/wfunc/geoserver/room"
)

// RecordService archives finished games and keeps per-player career totals.
type RecordService struct {
	db persistence.Database
}

func NewRecordService(db persistence.Database) *RecordService {
	return &RecordService{db: db}
}

// BuildGameRecord snapshots a finished room into an archivable record.
// Caller must hold r.Mu. Winners are the players holding the top total
// score; ties all count as wins.
func BuildGameRecord(r *room.Room) *models.GameRecord {
	best := 0
	for _, p := range r.Players {
		if p.TotalScore > best {
			best = p.TotalScore
		}
	}

	results := make([]models.PlayerResult, 0, len(r.Players))
	for _, p := range r.Players {
		results = append(results, models.PlayerResult{
			UserID:     p.UserID,
			Name:       p.Name,
			TotalScore: p.TotalScore,
			Winner:     p.TotalScore == best && best > 0,
		})
	}

	return &models.GameRecord{
		RoomCode:     r.Code,
		Region:       r.Region,
		Country:      r.Country,
		RoundsPlayed: r.RoundNumber,
		Players:      results,
		FinishedAt:   time.Now(),
	}
}

// SaveFinishedGame writes the record and folds each player's result into
// their career totals.
func (s *RecordService) SaveFinishedGame(record *models.GameRecord) error {
	if err := s.db.SaveGameRecord(record); err != nil {
		return err
	}

	for _, p := range record.Players {
		wins := 0
		if p.Winner {
			wins = 1
		}
		if err := s.db.UpsertPlayerCareer(p.UserID, 1, wins, int64(p.TotalScore)); err != nil {
			return err
		}
	}
	return nil
}

func (s *RecordService) GetPlayerCareer(userID string) (*models.PlayerCareer, error) {
	return s.db.GetPlayerCareer(userID)
}
