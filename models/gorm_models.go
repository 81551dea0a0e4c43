// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormGameRecord mirrors GameRecord for the gorm backend. Player results
// are stored as a jsonb document.
type GormGameRecord struct {
	gorm.Model
	RoomCode     string `gorm:"index;not null"`
	Region       string `gorm:"not null"`
	Country      string
	RoundsPlayed int    `gorm:"default:0"`
	Players      []byte `gorm:"type:jsonb;not null"`
}

// GormPlayerCareer mirrors PlayerCareer for the gorm backend.
type GormPlayerCareer struct {
	gorm.Model
	UserID     string `gorm:"uniqueIndex;not null"`
	Games      int    `gorm:"default:0"`
	Wins       int    `gorm:"default:0"`
	TotalScore int64  `gorm:"default:0"`
}
