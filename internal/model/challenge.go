package model

// CardQuality rates how well a role card answers a challenge category.
type CardQuality string

const (
	QualityPerfect CardQuality = "perfect"
	QualityGood    CardQuality = "good"
	QualityNotIn   CardQuality = "not_in"
)

// Challenge is a read-only content unit drawn once per round. Its primary
// category drives the quality-tier lookup for scoring.
// swagger:model Challenge
type Challenge struct {
	UUIDBase
	Title           string `gorm:"size:255;not null" json:"title"`
	Description     string `gorm:"type:text" json:"description"`
	PrimaryCategory string `gorm:"size:30;index;not null" json:"primaryCategory"`
	GradeLevel      string `gorm:"size:20;default:'elementary';index" json:"gradeLevel"`
	Enabled         bool   `gorm:"default:true" json:"enabled"`
}

func (Challenge) TableName() string {
	return "arcade_challenges"
}

// RoleCard is a career card a participant can play against a challenge.
// Qualities is a JSON map of category -> CardQuality.
type RoleCard struct {
	UUIDBase
	Title      string `gorm:"size:100;not null" json:"title"`
	GradeLevel string `gorm:"size:20;default:'elementary';index" json:"gradeLevel"`
	Qualities  string `gorm:"type:json" json:"qualities"`
	Enabled    bool   `gorm:"default:true" json:"enabled"`
}

func (RoleCard) TableName() string {
	return "arcade_role_cards"
}

// SynergyCard boosts a role-card play by a fixed multiplier.
type SynergyCard struct {
	UUIDBase
	Title      string `gorm:"size:100;not null" json:"title"`
	GradeLevel string `gorm:"size:20;default:'elementary';index" json:"gradeLevel"`
	Enabled    bool   `gorm:"default:true" json:"enabled"`
}

func (SynergyCard) TableName() string {
	return "arcade_synergy_cards"
}
