package repository

import (
	"errors"

	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/model"

	"gorm.io/gorm"
)

type ProgressionRepository struct {
	DB *gorm.DB
}

func NewProgressionRepository(db *gorm.DB) *ProgressionRepository {
	return &ProgressionRepository{DB: db}
}

// FindOrCreate returns the player's progression record, creating a fresh one
// on first play.
func (r *ProgressionRepository) FindOrCreate(playerID uint) (*model.PlayerProgression, error) {
	var prog model.PlayerProgression
	err := r.DB.Where("player_id = ?", playerID).First(&prog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		prog = model.PlayerProgression{PlayerID: playerID, Level: 1}
		if err := r.DB.Create(&prog).Error; err != nil {
			return nil, err
		}
		return &prog, nil
	}
	if err != nil {
		return nil, err
	}
	return &prog, nil
}

func (r *ProgressionRepository) Save(prog *model.PlayerProgression) error {
	return r.DB.Save(prog).Error
}

func (r *ProgressionRepository) TopByXP(limit int) ([]model.PlayerProgression, error) {
	var progs []model.PlayerProgression
	err := r.DB.Order("total_xp desc").Limit(limit).Find(&progs).Error
	if err != nil {
		return nil, err
	}
	return progs, nil
}

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
