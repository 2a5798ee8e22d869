package model

import (
	"encoding/json"
	"time"
)

type SessionPhase string

const (
	PhaseWaiting      SessionPhase = "waiting"
	PhaseActive       SessionPhase = "active"
	PhaseRoundPlaying SessionPhase = "round_playing"
	PhaseRoundVoting  SessionPhase = "round_voting"
	PhaseRoundResults SessionPhase = "round_results"
	PhaseGameOver     SessionPhase = "game_over"
)

// GameSession is one complete play-through within a room. Participants are
// owned by the session and do not outlive it.
// swagger:model GameSession
type GameSession struct {
	UUIDBase
	RoomID             string          `gorm:"type:varchar(36);index;not null" json:"roomId"`
	GameNumber         int             `gorm:"not null" json:"gameNumber"`
	Phase              SessionPhase    `gorm:"size:20;default:'waiting'" json:"phase"`
	CurrentRound       int             `gorm:"default:0" json:"currentRound"`
	TotalRounds        int             `gorm:"not null" json:"totalRounds"`
	CurrentChallengeID *string         `gorm:"type:varchar(36)" json:"currentChallengeId,omitempty"`
	RoundStartedAt     *time.Time      `json:"roundStartedAt,omitempty"`
	StartedAt          time.Time       `json:"startedAt"`
	CompletedAt        *time.Time      `json:"completedAt,omitempty"`
	DurationSeconds    int             `gorm:"default:0" json:"durationSeconds"`
	WinnerID           *string         `gorm:"type:varchar(36)" json:"winnerId,omitempty"`
	Rankings           json.RawMessage `gorm:"type:json" json:"rankings,omitempty"`
	XPAwarded          bool            `gorm:"default:false" json:"xpAwarded"`
}

func (GameSession) TableName() string {
	return "arcade_game_sessions"
}

// GameEvent is an append-only log row for audit and broadcast replay.
type GameEvent struct {
	BaseModel
	SessionID     string          `gorm:"type:varchar(36);index;not null" json:"sessionId"`
	RoomID        string          `gorm:"type:varchar(36);index" json:"roomId"`
	Type          string          `gorm:"size:50;not null" json:"type"`
	ParticipantID string          `gorm:"type:varchar(36)" json:"participantId,omitempty"`
	Data          json.RawMessage `gorm:"type:json" json:"data,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}

func (GameEvent) TableName() string {
	return "arcade_game_events"
}
