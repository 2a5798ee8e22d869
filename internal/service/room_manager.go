package service

import (
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/config"
	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/model"
	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/util"
	"github.com/rosejohnson3923/pathfinity-app-sub012/pkg/logger"

	"go.uber.org/zap"
)

// RoomStore is the room persistence surface the lifecycle manager uses.
type RoomStore interface {
	FindByID(id string) (*model.Room, error)
	FindFeatured() ([]model.Room, error)
	Save(room *model.Room) error
	UpdateStatusIf(roomID string, expected, next model.RoomStatus) (bool, error)
}

// SpectatorStore holds the queue of identities waiting on a room.
type SpectatorStore interface {
	Upsert(spec *model.RoomSpectator) error
	FindReady(roomID string) ([]model.RoomSpectator, error)
	Remove(roomID string, playerID uint) error
	RemovePlayers(roomID string, playerIDs []uint) error
}

// SessionWriter persists sessions and their seats at assembly time.
type SessionWriter interface {
	Create(session *model.GameSession) error
	FindByID(id string) (*model.GameSession, error)
	Save(session *model.GameSession) error
	CreateParticipants(participants []model.Participant) error
	CountDistinctPlayers(roomID string) (int64, error)
	AppendEvent(sessionID, roomID, eventType, participantID string, data interface{}) error
}

// CardSource provides the grade-filtered content pool hands are dealt from.
type CardSource interface {
	FindRoleCards(gradeLevel string) ([]model.RoleCard, error)
	FindSynergyCards(gradeLevel string) ([]model.SynergyCard, error)
}

// JoinResult answers a player's request to join a room.
type JoinResult struct {
	Accepted         bool   `json:"accepted"`
	JoinsImmediately bool   `json:"joinsImmediately"`
	Message          string `json:"message"`
}

// RoomManager owns each room's oscillation between intermission and active,
// and assembles the human/AI seats for every new session.
type RoomManager struct {
	cfg        config.ArcadeConfig
	rooms      RoomStore
	spectators SpectatorStore
	sessions   SessionWriter
	content    CardSource
	engine     *GameEngine
	broadcast  Broadcaster
	xp         *XPService

	rng *rand.Rand
}

func NewRoomManager(cfg config.ArcadeConfig, rooms RoomStore, spectators SpectatorStore, sessions SessionWriter, content CardSource, engine *GameEngine, broadcast Broadcaster, xp *XPService) *RoomManager {
	m := &RoomManager{
		cfg:        cfg,
		rooms:      rooms,
		spectators: spectators,
		sessions:   sessions,
		content:    content,
		engine:     engine,
		broadcast:  broadcast,
		xp:         xp,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if engine != nil {
		engine.OnGameOver(m.HandleGameOver)
	}
	return m
}

// StartNewGame flips an intermission room to active and launches a session.
// The status flip is a conditional update so two overlapping triggers for
// the same room cannot both proceed.
func (m *RoomManager) StartNewGame(roomID string) (*model.GameSession, error) {
	room, err := m.rooms.FindByID(roomID)
	if err != nil {
		return nil, util.ErrRoomNotFound
	}
	if room.Status == model.RoomPaused {
		return nil, util.ErrRoomPaused
	}
	if room.Status != model.RoomIntermission {
		return nil, util.ErrRoomNotIntermission
	}

	flipped, err := m.rooms.UpdateStatusIf(roomID, model.RoomIntermission, model.RoomActive)
	if err != nil {
		return nil, err
	}
	if !flipped {
		return nil, util.ErrRoomNotIntermission
	}
	room.Status = model.RoomActive

	specs, err := m.spectators.FindReady(roomID)
	if err != nil {
		logger.Log.Error("spectator load failed", zap.String("room", roomID), zap.Error(err))
		specs = nil
	}
	if len(specs) > room.MaxPlayers {
		specs = specs[:room.MaxPlayers]
	}

	aiSeats := room.MinPlayers - len(specs)
	if aiSeats < 0 {
		aiSeats = 0
	}

	session := &model.GameSession{
		RoomID:      roomID,
		GameNumber:  room.GamesPlayed + 1,
		Phase:       model.PhaseWaiting,
		TotalRounds: room.RoundsPerGame,
		StartedAt:   time.Now(),
	}
	session.ID = model.GenerateUUID()
	if err := m.sessions.Create(session); err != nil {
		m.revertToIntermission(room)
		return nil, err
	}

	participants := m.assembleParticipants(room, session.ID, specs, aiSeats)
	if err := m.sessions.CreateParticipants(participants); err != nil {
		logger.Log.Error("participant persist failed", zap.String("session", session.ID), zap.Error(err))
	}

	// Only the seated players leave the queue; anyone beyond MaxPlayers
	// stays waiting for the next game.
	seated := make([]uint, len(specs))
	for i, spec := range specs {
		seated[i] = spec.PlayerID
	}
	if err := m.spectators.RemovePlayers(roomID, seated); err != nil {
		logger.Log.Error("spectator dequeue failed", zap.String("room", roomID), zap.Error(err))
	}

	room.CurrentSessionID = &session.ID
	room.NextGameStartsAt = nil
	room.GamesPlayed++
	if len(participants) > room.PeakConcurrent {
		room.PeakConcurrent = len(participants)
	}
	if n, err := m.sessions.CountDistinctPlayers(roomID); err == nil {
		room.UniquePlayers = int(n)
	} else {
		logger.Log.Error("unique player count failed", zap.String("room", roomID), zap.Error(err))
	}
	if err := m.rooms.Save(room); err != nil {
		logger.Log.Error("room save failed", zap.String("room", roomID), zap.Error(err))
	}

	if m.broadcast != nil {
		m.broadcast.PublishRoom(roomID, GameBroadcast{
			Type: "game_started",
			Data: map[string]interface{}{"sessionId": session.ID, "gameNumber": session.GameNumber},
		})
	}

	if err := m.engine.StartSession(session, room, participants); err != nil {
		m.revertToIntermission(room)
		return nil, err
	}

	return session, nil
}

func (m *RoomManager) revertToIntermission(room *model.Room) {
	next := time.Now().Add(time.Duration(m.cfg.IntermissionSeconds) * time.Second)
	room.Status = model.RoomIntermission
	room.CurrentSessionID = nil
	room.NextGameStartsAt = &next
	if err := m.rooms.Save(room); err != nil {
		logger.Log.Error("room revert failed", zap.String("room", room.ID), zap.Error(err))
	}
}

// assembleParticipants seats the opted-in humans first, then fills AI seats
// from the shared identity pool. Hands and bingo grids are dealt once here.
func (m *RoomManager) assembleParticipants(room *model.Room, sessionID string, specs []model.RoomSpectator, aiSeats int) []model.Participant {
	rolePool := m.roleCardIDs(room.GradeLevel)
	synergyPool := m.synergyCardIDs(room.GradeLevel)

	participants := make([]model.Participant, 0, len(specs)+aiSeats)
	order := 0

	for _, spec := range specs {
		playerID := spec.PlayerID
		participants = append(participants, model.Participant{
			UUIDBase:       model.UUIDBase{ID: model.GenerateUUID()},
			SessionID:      sessionID,
			Type:           model.ParticipantHuman,
			PlayerID:       &playerID,
			DisplayName:    spec.DisplayName,
			JoinOrder:      order,
			RoleCardIDs:    encodeStrings(dealHand(rolePool, handRoleCards, m.rng)),
			SynergyCardIDs: encodeStrings(dealHand(synergyPool, handSynergyCards, m.rng)),
			LensID:         randomLens(m.rng),
			GoldenCard:     true,
			RoundScores:    "[]",
			BingoGrid:      encodeStrings(dealBingoGrid(rolePool, m.rng)),
		})
		order++
	}

	for seat := 0; seat < aiSeats; seat++ {
		participants = append(participants, model.Participant{
			UUIDBase:       model.UUIDBase{ID: model.GenerateUUID()},
			SessionID:      sessionID,
			Type:           model.ParticipantAI,
			DisplayName:    aiDisplayName(room.ID, seat),
			JoinOrder:      order,
			RoleCardIDs:    encodeStrings(dealHand(rolePool, handRoleCards, m.rng)),
			SynergyCardIDs: encodeStrings(dealHand(synergyPool, handSynergyCards, m.rng)),
			LensID:         randomLens(m.rng),
			GoldenCard:     true,
			RoundScores:    "[]",
		})
		order++
	}

	return participants
}

func (m *RoomManager) roleCardIDs(gradeLevel string) []string {
	cards, err := m.content.FindRoleCards(gradeLevel)
	if err != nil {
		logger.Log.Error("role card load failed", zap.Error(err))
		return nil
	}
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}

func (m *RoomManager) synergyCardIDs(gradeLevel string) []string {
	cards, err := m.content.FindSynergyCards(gradeLevel)
	if err != nil {
		logger.Log.Error("synergy card load failed", zap.Error(err))
		return nil
	}
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}

// HandlePlayerJoin queues a player on the room. Re-joining refreshes the
// existing spectator record rather than duplicating it.
func (m *RoomManager) HandlePlayerJoin(roomID string, playerID uint, displayName string) (*JoinResult, error) {
	room, err := m.rooms.FindByID(roomID)
	if err != nil {
		return nil, util.ErrRoomNotFound
	}
	if room.Status == model.RoomPaused {
		return &JoinResult{Accepted: false, Message: "Room is paused"}, nil
	}

	if err := m.spectators.Upsert(&model.RoomSpectator{
		UUIDBase:    model.UUIDBase{ID: model.GenerateUUID()},
		RoomID:      roomID,
		PlayerID:    playerID,
		DisplayName: displayName,
		WantsToJoin: true,
	}); err != nil {
		return nil, err
	}

	if room.Status == model.RoomIntermission {
		return &JoinResult{
			Accepted:         true,
			JoinsImmediately: true,
			Message:          "You'll be seated when the next game starts",
		}, nil
	}
	return &JoinResult{
		Accepted:         true,
		JoinsImmediately: false,
		Message:          "Game in progress, you'll join the next one",
	}, nil
}

func (m *RoomManager) HandlePlayerLeave(roomID string, playerID uint) error {
	return m.spectators.Remove(roomID, playerID)
}

// HandleGameOver is the engine's completion hand-off: close out the session,
// open intermission and convert scores into rewards.
func (m *RoomManager) HandleGameOver(result *SessionResult) {
	if err := m.completeSession(result.SessionID, result.Rankings); err != nil {
		logger.Log.Error("game completion failed",
			zap.String("session", result.SessionID), zap.Error(err))
	}

	// The award reads back the persisted rankings so the once-per-session
	// guard covers this path and the admin replay alike.
	if m.xp != nil {
		if _, err := m.xp.AwardSessionXP(result.SessionID); err != nil && !errors.Is(err, util.ErrXPAlreadyAwarded) {
			logger.Log.Error("xp award failed",
				zap.String("session", result.SessionID), zap.Error(err))
		}
	}
}

// CompleteGame closes a session from the API path. Calling it on an already
// completed session is a no-op.
func (m *RoomManager) CompleteGame(sessionID string) error {
	if m.engine.lookup(sessionID) != nil {
		if err := m.engine.ForceStop(sessionID); err != nil && !errors.Is(err, util.ErrSessionNotFound) {
			return err
		}
	}
	return m.completeSession(sessionID, nil)
}

func (m *RoomManager) completeSession(sessionID string, rankings []FinalRanking) error {
	session, err := m.sessions.FindByID(sessionID)
	if err != nil {
		return util.ErrSessionNotFound
	}
	if session.CompletedAt != nil {
		return nil
	}

	now := time.Now()
	session.CompletedAt = &now
	session.Phase = model.PhaseGameOver
	session.DurationSeconds = int(now.Sub(session.StartedAt).Seconds())
	if len(rankings) > 0 {
		session.WinnerID = &rankings[0].ParticipantID
		if raw, err := json.Marshal(rankings); err == nil {
			session.Rankings = raw
		}
	}
	if err := m.sessions.Save(session); err != nil {
		return err
	}

	room, err := m.rooms.FindByID(session.RoomID)
	if err != nil {
		return util.ErrRoomNotFound
	}
	next := now.Add(time.Duration(m.cfg.IntermissionSeconds) * time.Second)
	if room.IntermissionSeconds > 0 {
		next = now.Add(time.Duration(room.IntermissionSeconds) * time.Second)
	}
	room.Status = model.RoomIntermission
	room.CurrentSessionID = nil
	room.NextGameStartsAt = &next
	if err := m.rooms.Save(room); err != nil {
		return err
	}

	if err := m.sessions.AppendEvent(sessionID, room.ID, "game_completed", "", map[string]interface{}{
		"durationSeconds":  session.DurationSeconds,
		"nextGameStartsAt": next,
	}); err != nil {
		logger.Log.Error("completion event append failed",
			zap.String("session", sessionID), zap.Error(err))
	}

	if m.broadcast != nil {
		m.broadcast.PublishRoom(room.ID, GameBroadcast{
			Type: "intermission_started",
			Data: map[string]interface{}{"sessionId": sessionID, "nextGameStartsAt": next},
		})
	}

	return nil
}
