package service

import (
	"testing"

	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/model"
	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scoringTiers = map[string]model.CardQuality{
	"role-perfect": model.QualityPerfect,
	"role-good":    model.QualityGood,
	"role-notin":   model.QualityNotIn,
}

func TestCalculateRoundScore_GoldenCardIsFlat(t *testing.T) {
	// A golden play scores 130 no matter what else was (or wasn't) submitted.
	breakdown, err := CalculateRoundScore(ScoreInput{
		Special: model.SpecialGolden,
	}, nil, "finance")
	require.NoError(t, err)
	assert.Equal(t, GoldenCardScore, breakdown.FinalScore)
	assert.Equal(t, 0, breakdown.BaseScore)
}

func TestCalculateRoundScore_FullMultiplierStack(t *testing.T) {
	// 60 x 1.2 x 1.5 x 1.2 = 129.6 -> rounds to 130, the scoring ceiling.
	breakdown, err := CalculateRoundScore(ScoreInput{
		RoleCardID:    "role-perfect",
		SynergyCardID: "syn-1",
		LensID:        "cfo",
		FastSubmit:    true,
	}, scoringTiers, "finance")
	require.NoError(t, err)
	assert.Equal(t, BaseScorePerfect, breakdown.BaseScore)
	assert.Equal(t, SynergyMultiplier, breakdown.SynergyMultiplier)
	assert.Equal(t, LensAligned, breakdown.LensMultiplier)
	assert.Equal(t, SpeedMultiplier, breakdown.SpeedMultiplier)
	assert.Equal(t, GoldenCardScore, breakdown.FinalScore)
}

func TestCalculateRoundScore_RoleOnly(t *testing.T) {
	breakdown, err := CalculateRoundScore(ScoreInput{
		RoleCardID: "role-good",
		LensID:     "cfo",
	}, scoringTiers, "marketing")
	require.NoError(t, err)
	// 40 base, no synergy or speed, adequate lens (cfo vs marketing): 40 x 1.2 = 48
	assert.Equal(t, 48, breakdown.FinalScore)
}

func TestCalculateRoundScore_BonusCardAddsAfterMultipliers(t *testing.T) {
	breakdown, err := CalculateRoundScore(ScoreInput{
		RoleCardID: "role-notin",
		LensID:     "ceo",
		Special:    model.SpecialBonus,
	}, scoringTiers, "leadership")
	require.NoError(t, err)
	// 25 x 1.5 = 37.5 -> 38, then +10 flat
	assert.Equal(t, BonusCardFlat, breakdown.FlatBonus)
	assert.Equal(t, 48, breakdown.FinalScore)
}

func TestCalculateRoundScore_MissingTierIsHardError(t *testing.T) {
	_, err := CalculateRoundScore(ScoreInput{
		RoleCardID: "role-unknown",
		LensID:     "ceo",
	}, scoringTiers, "leadership")
	assert.ErrorIs(t, err, util.ErrQualityDataMissing)
}

func TestCalculateRoundScore_MissingRoleCard(t *testing.T) {
	_, err := CalculateRoundScore(ScoreInput{LensID: "ceo"}, scoringTiers, "leadership")
	assert.ErrorIs(t, err, util.ErrRoleCardRequired)
}

func TestLensMultiplier(t *testing.T) {
	assert.Equal(t, LensAligned, LensMultiplier("cto", "technology"))
	assert.Equal(t, LensAdequate, LensMultiplier("cto", "finance"))
	assert.Equal(t, LensNeutral, LensMultiplier("intern", "finance"))
	assert.Equal(t, LensNeutral, LensMultiplier("cto", "astrology"))
}
