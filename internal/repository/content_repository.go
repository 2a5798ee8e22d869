package repository

import (
	"encoding/json"

	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/model"

	"gorm.io/gorm"
)

// ContentRepository serves the read-only reference pool: challenges, role
// cards, synergy cards and their per-category quality tiers.
type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

func (r *ContentRepository) RandomChallenge(gradeLevel string) (*model.Challenge, error) {
	var challenge model.Challenge
	err := r.DB.Where("grade_level = ? AND enabled = ?", gradeLevel, true).
		Order("RAND()").First(&challenge).Error
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *ContentRepository) FindChallenge(id string) (*model.Challenge, error) {
	var challenge model.Challenge
	err := r.DB.Where("id = ?", id).First(&challenge).Error
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *ContentRepository) FindRoleCards(gradeLevel string) ([]model.RoleCard, error) {
	var cards []model.RoleCard
	err := r.DB.Where("grade_level = ? AND enabled = ?", gradeLevel, true).Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *ContentRepository) FindSynergyCards(gradeLevel string) ([]model.SynergyCard, error) {
	var cards []model.SynergyCard
	err := r.DB.Where("grade_level = ? AND enabled = ?", gradeLevel, true).Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// QualityTiers returns roleCardID -> quality for one category, covering
// every enabled role card that declares a rating for that category.
func (r *ContentRepository) QualityTiers(category string) (map[string]model.CardQuality, error) {
	var cards []model.RoleCard
	err := r.DB.Where("enabled = ?", true).Find(&cards).Error
	if err != nil {
		return nil, err
	}

	tiers := make(map[string]model.CardQuality, len(cards))
	for _, card := range cards {
		var qualities map[string]model.CardQuality
		if err := json.Unmarshal([]byte(card.Qualities), &qualities); err != nil {
			continue
		}
		if q, ok := qualities[category]; ok {
			tiers[card.ID] = q
		}
	}
	return tiers, nil
}
