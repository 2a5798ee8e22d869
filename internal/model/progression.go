package model

import (
	"time"
)

// PlayerProgression is the cumulative reward record for one player across
// all arcade sessions. Level derives from TotalXP with a fixed divisor.
// swagger:model PlayerProgression
type PlayerProgression struct {
	BaseModel
	PlayerID      uint       `gorm:"type:bigint unsigned;uniqueIndex;not null" json:"playerId"`
	TotalXP       int        `gorm:"default:0" json:"totalXp"`
	Level         int        `gorm:"default:1" json:"level"`
	GamesPlayed   int        `gorm:"default:0" json:"gamesPlayed"`
	GamesWon      int        `gorm:"default:0" json:"gamesWon"`
	WinStreak     int        `gorm:"default:0" json:"winStreak"`
	BestWinStreak int        `gorm:"default:0" json:"bestWinStreak"`
	WinRate       float64    `gorm:"default:0" json:"winRate"`
	LastPlayedAt  *time.Time `json:"lastPlayedAt,omitempty"`
}

func (PlayerProgression) TableName() string {
	return "arcade_player_progressions"
}
