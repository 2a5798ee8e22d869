package model

import (
	"time"
)

type RoomStatus string

const (
	RoomActive       RoomStatus = "active"
	RoomIntermission RoomStatus = "intermission"
	RoomPaused       RoomStatus = "paused"
)

// Room is a perpetual venue that cycles between a running game and an
// intermission countdown. Rooms are seeded once and never deleted.
// swagger:model Room
type Room struct {
	UUIDBase
	Code                string     `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name                string     `gorm:"size:100;not null" json:"name"`
	Status              RoomStatus `gorm:"type:enum('active','intermission','paused');default:'intermission'" json:"status"`
	Featured            bool       `gorm:"default:true;index" json:"featured"`
	GradeLevel          string     `gorm:"size:20;default:'elementary'" json:"gradeLevel"`
	CurrentSessionID    *string    `gorm:"type:varchar(36)" json:"currentSessionId,omitempty"`
	NextGameStartsAt    *time.Time `json:"nextGameStartsAt,omitempty"`
	MaxPlayers          int        `gorm:"default:6" json:"maxPlayers"`
	MinPlayers          int        `gorm:"default:2" json:"minPlayers"`
	RoundsPerGame       int        `gorm:"default:5" json:"roundsPerGame"`
	RoundSeconds        int        `gorm:"default:60" json:"roundSeconds"`
	IntermissionSeconds int        `gorm:"default:90" json:"intermissionSeconds"`

	// lifetime counters
	GamesPlayed    int `gorm:"default:0" json:"gamesPlayed"`
	UniquePlayers  int `gorm:"default:0" json:"uniquePlayers"`
	PeakConcurrent int `gorm:"default:0" json:"peakConcurrent"`
}

func (Room) TableName() string {
	return "arcade_rooms"
}

// RoomSpectator is an identity waiting to join the room's next game.
// Re-joining upserts in place rather than duplicating.
type RoomSpectator struct {
	UUIDBase
	RoomID      string `gorm:"type:varchar(36);index:idx_room_player,unique" json:"roomId"`
	PlayerID    uint   `gorm:"type:bigint unsigned;index:idx_room_player,unique" json:"playerId"`
	DisplayName string `gorm:"size:100;not null" json:"displayName"`
	WantsToJoin bool   `gorm:"default:true" json:"wantsToJoin"`
}

func (RoomSpectator) TableName() string {
	return "arcade_room_spectators"
}
