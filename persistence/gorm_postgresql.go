// persistence/gorm_postgresql.go
package persistence

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/wfunc/geoserver/models"
)

// GormPostgreSQL is the gorm backend.
type GormPostgreSQL struct {
	db *gorm.DB
}

func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&models.GormGameRecord{}, &models.GormPlayerCareer{}); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

func (g *GormPostgreSQL) SaveGameRecord(record *models.GameRecord) error {
	playersJSON, err := json.Marshal(record.Players)
	if err != nil {
		return err
	}

	row := models.GormGameRecord{
		RoomCode:     record.RoomCode,
		Region:       record.Region,
		Country:      record.Country,
		RoundsPlayed: record.RoundsPlayed,
		Players:      playersJSON,
	}
	return g.db.Create(&row).Error
}

func (g *GormPostgreSQL) UpsertPlayerCareer(userID string, games, wins int, score int64) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		var career models.GormPlayerCareer
		err := tx.Where("user_id = ?", userID).First(&career).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			career = models.GormPlayerCareer{
				UserID:     userID,
				Games:      games,
				Wins:       wins,
				TotalScore: score,
			}
			return tx.Create(&career).Error
		}
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"games":       gorm.Expr("games + ?", games),
			"wins":        gorm.Expr("wins + ?", wins),
			"total_score": gorm.Expr("total_score + ?", score),
		}
		return tx.Model(&career).Updates(updates).Error
	})
}

func (g *GormPostgreSQL) GetPlayerCareer(userID string) (*models.PlayerCareer, error) {
	var career models.GormPlayerCareer
	err := g.db.Where("user_id = ?", userID).First(&career).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}

	return &models.PlayerCareer{
		UserID:     career.UserID,
		Games:      career.Games,
		Wins:       career.Wins,
		TotalScore: career.TotalScore,
		UpdatedAt:  career.UpdatedAt,
	}, nil
}

func (g *GormPostgreSQL) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
