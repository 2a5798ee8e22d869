package repository

import (
	"errors"

	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoomRepository struct {
	DB *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{DB: db}
}

func (r *RoomRepository) FindByID(id string) (*model.Room, error) {
	var room model.Room
	err := r.DB.Where("id = ?", id).First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepository) FindByCode(code string) (*model.Room, error) {
	var room model.Room
	err := r.DB.Where("code = ?", code).First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepository) FindFeatured() ([]model.Room, error) {
	var rooms []model.Room
	err := r.DB.Where("featured = ?", true).Order("code").Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *RoomRepository) Save(room *model.Room) error {
	return r.DB.Save(room).Error
}

// UpdateStatusIf flips a room's status only when its current status still
// matches the expected one. Returns false when another writer got there
// first; this is the scheduler's check-then-act guard.
func (r *RoomRepository) UpdateStatusIf(roomID string, expected, next model.RoomStatus) (bool, error) {
	res := r.DB.Model(&model.Room{}).
		Where("id = ? AND status = ?", roomID, expected).
		Update("status", next)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type SpectatorRepository struct {
	DB *gorm.DB
}

func NewSpectatorRepository(db *gorm.DB) *SpectatorRepository {
	return &SpectatorRepository{DB: db}
}

// Upsert inserts or refreshes a spectator record keyed on (room, player).
func (r *SpectatorRepository) Upsert(spec *model.RoomSpectator) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "room_id"}, {Name: "player_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "wants_to_join", "updated_at"}),
	}).Create(spec).Error
}

func (r *SpectatorRepository) FindReady(roomID string) ([]model.RoomSpectator, error) {
	var specs []model.RoomSpectator
	err := r.DB.Where("room_id = ? AND wants_to_join = ?", roomID, true).
		Order("created_at").Find(&specs).Error
	if err != nil {
		return nil, err
	}
	return specs, nil
}

func (r *SpectatorRepository) Remove(roomID string, playerID uint) error {
	res := r.DB.Where("room_id = ? AND player_id = ?", roomID, playerID).
		Delete(&model.RoomSpectator{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("spectator not found")
	}
	return nil
}

// RemovePlayers dequeues the given players in one statement. Missing rows
// are fine; the seat assembly may race a voluntary leave.
func (r *SpectatorRepository) RemovePlayers(roomID string, playerIDs []uint) error {
	if len(playerIDs) == 0 {
		return nil
	}
	return r.DB.Where("room_id = ? AND player_id IN ?", roomID, playerIDs).
		Delete(&model.RoomSpectator{}).Error
}
