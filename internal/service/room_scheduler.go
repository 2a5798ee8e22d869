package service

import (
	"errors"
	"sync"
	"time"

	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/config"
	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/model"
	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/util"
	"github.com/rosejohnson3923/pathfinity-app-sub012/pkg/logger"
	"github.com/rosejohnson3923/pathfinity-app-sub012/pkg/monitoring"

	"go.uber.org/zap"
)

// RoomHealth reports one room in the scheduler's health check.
type RoomHealth struct {
	RoomID           string           `json:"roomId"`
	Code             string           `json:"code"`
	Status           model.RoomStatus `json:"status"`
	Degraded         bool             `json:"degraded"`
	StuckMinutes     int              `json:"stuckMinutes,omitempty"`
	NextGameStartsAt *time.Time       `json:"nextGameStartsAt,omitempty"`
}

// RoomScheduler polls every featured room and starts the next game when its
// intermission countdown expires. One scheduler runs per process.
type RoomScheduler struct {
	cfg     config.ArcadeConfig
	rooms   RoomStore
	manager *RoomManager

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

func NewRoomScheduler(cfg config.ArcadeConfig, rooms RoomStore, manager *RoomManager) *RoomScheduler {
	return &RoomScheduler{
		cfg:     cfg,
		rooms:   rooms,
		manager: manager,
	}
}

// Run starts the polling loop. It returns when Stop is called.
func (s *RoomScheduler) Run() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.mu.Unlock()

	ticker := time.NewTicker(time.Duration(s.cfg.SchedulerTickMs) * time.Millisecond)
	defer ticker.Stop()
	defer close(s.done)

	logger.Log.Info("room scheduler started",
		zap.Int("tickMs", s.cfg.SchedulerTickMs))

	for {
		select {
		case <-s.stop:
			logger.Log.Info("room scheduler stopped")
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

func (s *RoomScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.stop)
	<-s.done
}

// Tick inspects all featured rooms once. Exported so tests and the manual
// start path can drive the loop directly.
func (s *RoomScheduler) Tick() {
	rooms, err := s.rooms.FindFeatured()
	if err != nil {
		logger.Log.Error("scheduler room scan failed", zap.Error(err))
		return
	}

	active := 0
	for i := range rooms {
		room := &rooms[i]
		switch room.Status {
		case model.RoomPaused:
			continue
		case model.RoomActive:
			active++
			continue
		case model.RoomIntermission:
			if room.NextGameStartsAt == nil {
				// An intermission with no scheduled start is stuck;
				// start immediately rather than leaving it dark.
				logger.Log.Warn("room stuck in intermission with no countdown, self-healing",
					zap.String("room", room.ID), zap.String("code", room.Code))
				s.triggerStart(room.ID)
				continue
			}
			if time.Now().After(*room.NextGameStartsAt) {
				s.triggerStart(room.ID)
			}
		}
	}
	monitoring.ActiveRoomsGauge.Set(float64(active))
}

// triggerStart re-reads the room before acting so a concurrent trigger that
// already started it turns into a no-op.
func (s *RoomScheduler) triggerStart(roomID string) {
	room, err := s.rooms.FindByID(roomID)
	if err != nil {
		logger.Log.Error("scheduler room re-read failed", zap.String("room", roomID), zap.Error(err))
		return
	}
	if room.Status != model.RoomIntermission {
		return
	}

	if _, err := s.manager.StartNewGame(roomID); err != nil {
		if errors.Is(err, util.ErrRoomNotIntermission) {
			// lost the race to another trigger
			return
		}
		logger.Log.Error("scheduled game start failed", zap.String("room", roomID), zap.Error(err))
	}
}

// StartRoom is the manual trigger, bypassing the countdown.
func (s *RoomScheduler) StartRoom(roomID string) (*model.GameSession, error) {
	return s.manager.StartNewGame(roomID)
}

func (s *RoomScheduler) PauseRoom(roomID string) error {
	room, err := s.rooms.FindByID(roomID)
	if err != nil {
		return util.ErrRoomNotFound
	}
	if room.Status == model.RoomPaused {
		return nil
	}
	room.Status = model.RoomPaused
	room.NextGameStartsAt = nil
	return s.rooms.Save(room)
}

func (s *RoomScheduler) ResumeRoom(roomID string) error {
	room, err := s.rooms.FindByID(roomID)
	if err != nil {
		return util.ErrRoomNotFound
	}
	if room.Status != model.RoomPaused {
		return nil
	}
	next := time.Now().Add(time.Duration(s.cfg.IntermissionSeconds) * time.Second)
	room.Status = model.RoomIntermission
	room.NextGameStartsAt = &next
	return s.rooms.Save(room)
}

// ForceStopRoom abandons the room's running session and opens intermission.
func (s *RoomScheduler) ForceStopRoom(roomID string) error {
	room, err := s.rooms.FindByID(roomID)
	if err != nil {
		return util.ErrRoomNotFound
	}
	if room.CurrentSessionID == nil {
		return nil
	}
	return s.manager.CompleteGame(*room.CurrentSessionID)
}

// HealthCheck flags rooms stuck in intermission beyond the threshold.
func (s *RoomScheduler) HealthCheck() ([]RoomHealth, error) {
	rooms, err := s.rooms.FindFeatured()
	if err != nil {
		return nil, err
	}

	threshold := time.Duration(s.cfg.StuckThresholdMin) * time.Minute
	report := make([]RoomHealth, 0, len(rooms))
	stuck := 0

	for _, room := range rooms {
		h := RoomHealth{
			RoomID:           room.ID,
			Code:             room.Code,
			Status:           room.Status,
			NextGameStartsAt: room.NextGameStartsAt,
		}
		if room.Status == model.RoomIntermission && room.NextGameStartsAt != nil {
			overdue := time.Since(*room.NextGameStartsAt)
			if overdue > threshold {
				h.Degraded = true
				h.StuckMinutes = int(overdue.Minutes())
				stuck++
			}
		}
		report = append(report, h)
	}

	monitoring.StuckRoomsGauge.Set(float64(stuck))
	return report, nil
}
