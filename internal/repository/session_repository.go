package repository

import (
	"encoding/json"
	"time"

	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/model"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(session *model.GameSession) error {
	return r.DB.Create(session).Error
}

func (r *SessionRepository) FindByID(id string) (*model.GameSession, error) {
	var session model.GameSession
	err := r.DB.Where("id = ?", id).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Save(session *model.GameSession) error {
	return r.DB.Save(session).Error
}

func (r *SessionRepository) UpdatePhase(sessionID string, phase model.SessionPhase, round int) error {
	return r.DB.Model(&model.GameSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]interface{}{"phase": phase, "current_round": round}).Error
}

func (r *SessionRepository) CreateParticipants(participants []model.Participant) error {
	if len(participants) == 0 {
		return nil
	}
	return r.DB.Create(&participants).Error
}

func (r *SessionRepository) FindParticipants(sessionID string) ([]model.Participant, error) {
	var participants []model.Participant
	err := r.DB.Where("session_id = ?", sessionID).
		Order("join_order").Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// CountDistinctPlayers counts the distinct human players ever seated in a
// room, across all of its sessions.
func (r *SessionRepository) CountDistinctPlayers(roomID string) (int64, error) {
	var n int64
	err := r.DB.Model(&model.Participant{}).
		Joins("JOIN arcade_game_sessions ON arcade_game_sessions.id = arcade_participants.session_id").
		Where("arcade_game_sessions.room_id = ? AND arcade_participants.player_id IS NOT NULL", roomID).
		Distinct("arcade_participants.player_id").
		Count(&n).Error
	return n, err
}

func (r *SessionRepository) SaveParticipant(p *model.Participant) error {
	return r.DB.Save(p).Error
}

func (r *SessionRepository) CreateRoundPlay(play *model.RoundPlay) error {
	return r.DB.Create(play).Error
}

func (r *SessionRepository) FindRoundPlays(sessionID string) ([]model.RoundPlay, error) {
	var plays []model.RoundPlay
	err := r.DB.Where("session_id = ?", sessionID).
		Order("round, submitted_at").Find(&plays).Error
	if err != nil {
		return nil, err
	}
	return plays, nil
}

// AppendEvent writes one row to the append-only event log.
func (r *SessionRepository) AppendEvent(sessionID, roomID, eventType, participantID string, data interface{}) error {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return err
		}
		raw = b
	}
	return r.DB.Create(&model.GameEvent{
		SessionID:     sessionID,
		RoomID:        roomID,
		Type:          eventType,
		ParticipantID: participantID,
		Data:          raw,
		Timestamp:     time.Now(),
	}).Error
}

func (r *SessionRepository) FindEvents(sessionID string, limit int) ([]model.GameEvent, error) {
	var events []model.GameEvent
	q := r.DB.Where("session_id = ?", sessionID).Order("timestamp")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
