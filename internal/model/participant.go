package model

import (
	"time"
)

type ParticipantType string

const (
	ParticipantHuman ParticipantType = "human"
	ParticipantAI    ParticipantType = "ai_agent"
)

// SpecialCard marks the optional special played with a round submission.
// At most one of golden/bonus may be used per submission.
type SpecialCard string

const (
	SpecialNone   SpecialCard = "none"
	SpecialGolden SpecialCard = "golden"
	SpecialBonus  SpecialCard = "bonus"
)

// Participant is a human or AI seat in a session. Hands are dealt once at
// join time and never reshuffled; JoinOrder fixes the ranking tie-break.
// swagger:model Participant
type Participant struct {
	UUIDBase
	SessionID      string          `gorm:"type:varchar(36);index;not null" json:"sessionId"`
	Type           ParticipantType `gorm:"size:20;default:'human'" json:"type"`
	PlayerID       *uint           `gorm:"type:bigint unsigned" json:"playerId,omitempty"`
	DisplayName    string          `gorm:"size:100;not null" json:"displayName"`
	JoinOrder      int             `gorm:"not null" json:"joinOrder"`
	RoleCardIDs    string          `gorm:"type:json" json:"roleCardIds"`    // JSON string array
	SynergyCardIDs string          `gorm:"type:json" json:"synergyCardIds"` // JSON string array
	LensID         string          `gorm:"size:30" json:"lensId"`
	GoldenCard     bool            `gorm:"default:true" json:"goldenCard"`
	TotalScore     int             `gorm:"default:0" json:"totalScore"`
	RoundScores    string          `gorm:"type:json" json:"roundScores"` // JSON int array
	BingoGrid      string          `gorm:"type:json" json:"bingoGrid"`   // JSON: 25 cell ids
}

func (Participant) TableName() string {
	return "arcade_participants"
}

// RoundPlay is the persisted, immutable record of one participant's
// submission and score for one round.
type RoundPlay struct {
	UUIDBase
	SessionID     string      `gorm:"type:varchar(36);index;not null" json:"sessionId"`
	ParticipantID string      `gorm:"type:varchar(36);index;not null" json:"participantId"`
	Round         int         `gorm:"not null" json:"round"`
	RoleCardID    string      `gorm:"type:varchar(36)" json:"roleCardId"`
	SynergyCardID string      `gorm:"type:varchar(36)" json:"synergyCardId"`
	Special       SpecialCard `gorm:"size:10;default:'none'" json:"special"`
	AutoSubmitted bool        `gorm:"default:false" json:"autoSubmitted"`
	BaseScore     int         `json:"baseScore"`
	FinalScore    int         `json:"finalScore"`
	SubmittedAt   time.Time   `json:"submittedAt"`
}

func (RoundPlay) TableName() string {
	return "arcade_round_plays"
}
