package service

import (
	"math"

	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/model"
	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/util"
)

// Scoring constants. The multiplier ceiling (60 × 1.2 × 1.5 × 1.2 = 129.6,
// rounded to 130) intentionally equals the golden-card flat value, so no
// scoring path exceeds the nominal maximum.
const (
	GoldenCardScore = 130
	BonusCardFlat   = 10

	BaseScorePerfect = 60
	BaseScoreGood    = 40
	BaseScoreNotIn   = 25

	SynergyMultiplier = 1.20
	SpeedMultiplier   = 1.20

	LensAligned  = 1.5
	LensAdequate = 1.2
	LensNeutral  = 1.0
)

// lensAlignment maps each lens to the single category it is perfectly
// aligned with. Any other listed category is adequately aligned; unknown
// lenses fall back to neutral.
var lensAlignment = map[string]string{
	"ceo": "leadership",
	"cfo": "finance",
	"cmo": "marketing",
	"cto": "technology",
	"coo": "operations",
}

var categories = []string{"leadership", "finance", "marketing", "technology", "operations"}

// LensMultiplier returns the lens factor for a lens/category pair.
func LensMultiplier(lensID, category string) float64 {
	aligned, ok := lensAlignment[lensID]
	if !ok {
		return LensNeutral
	}
	if aligned == category {
		return LensAligned
	}
	for _, c := range categories {
		if c == category {
			return LensAdequate
		}
	}
	return LensNeutral
}

// ScoreInput is one participant's round submission as seen by the scorer.
type ScoreInput struct {
	RoleCardID    string
	SynergyCardID string
	Special       model.SpecialCard
	LensID        string
	FastSubmit    bool
}

// ScoreBreakdown reports the full multiplier pipeline for one submission.
type ScoreBreakdown struct {
	BaseScore         int     `json:"baseScore"`
	SynergyMultiplier float64 `json:"synergyMultiplier"`
	LensMultiplier    float64 `json:"lensMultiplier"`
	SpeedMultiplier   float64 `json:"speedMultiplier"`
	FlatBonus         int     `json:"flatBonus"`
	FinalScore        int     `json:"finalScore"`
}

// CalculateRoundScore maps a submission to its deterministic score. tiers is
// the challenge category's roleCardID -> quality table; a missing entry for
// the played role card is a hard error, never a silent default.
func CalculateRoundScore(in ScoreInput, tiers map[string]model.CardQuality, category string) (*ScoreBreakdown, error) {
	if in.Special == model.SpecialGolden {
		return &ScoreBreakdown{
			SynergyMultiplier: 1.0,
			LensMultiplier:    1.0,
			SpeedMultiplier:   1.0,
			FinalScore:        GoldenCardScore,
		}, nil
	}

	if in.RoleCardID == "" {
		return nil, util.ErrRoleCardRequired
	}

	quality, ok := tiers[in.RoleCardID]
	if !ok {
		return nil, util.ErrQualityDataMissing
	}

	var base int
	switch quality {
	case model.QualityPerfect:
		base = BaseScorePerfect
	case model.QualityGood:
		base = BaseScoreGood
	case model.QualityNotIn:
		base = BaseScoreNotIn
	default:
		return nil, util.ErrQualityDataMissing
	}

	synergy := 1.0
	if in.SynergyCardID != "" {
		synergy = SynergyMultiplier
	}

	lens := LensMultiplier(in.LensID, category)

	speed := 1.0
	if in.FastSubmit {
		speed = SpeedMultiplier
	}

	score := float64(base) * synergy * lens * speed
	flat := 0
	if in.Special == model.SpecialBonus {
		flat = BonusCardFlat
	}

	return &ScoreBreakdown{
		BaseScore:         base,
		SynergyMultiplier: synergy,
		LensMultiplier:    lens,
		SpeedMultiplier:   speed,
		FlatBonus:         flat,
		FinalScore:        int(math.Round(score)) + flat,
	}, nil
}
