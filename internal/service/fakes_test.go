package service

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/model"
	"github.com/rosejohnson3923/pathfinity-app-sub012/pkg/logger"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// fakeSessionStore records every write the engine makes.
type fakeSessionStore struct {
	mu sync.Mutex

	sessions     map[string]*model.GameSession
	phases       []model.SessionPhase
	roundPlays   []model.RoundPlay
	participants []model.Participant
	events       []string

	failWrites bool
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*model.GameSession)}
}

func (f *fakeSessionStore) Create(session *model.GameSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errors.New("store down")
	}
	cp := *session
	f.sessions[session.ID] = &cp
	return nil
}

func (f *fakeSessionStore) FindByID(id string) (*model.GameSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionStore) Save(session *model.GameSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errors.New("store down")
	}
	cp := *session
	f.sessions[session.ID] = &cp
	return nil
}

func (f *fakeSessionStore) UpdatePhase(sessionID string, phase model.SessionPhase, round int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errors.New("store down")
	}
	f.phases = append(f.phases, phase)
	if s, ok := f.sessions[sessionID]; ok {
		s.Phase = phase
		s.CurrentRound = round
	}
	return nil
}

func (f *fakeSessionStore) CreateParticipants(participants []model.Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.participants = append(f.participants, participants...)
	return nil
}

func (f *fakeSessionStore) CountDistinctPlayers(roomID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[uint]bool)
	for _, p := range f.participants {
		if p.PlayerID == nil {
			continue
		}
		if s, ok := f.sessions[p.SessionID]; ok && s.RoomID == roomID {
			seen[*p.PlayerID] = true
		}
	}
	return int64(len(seen)), nil
}

func (f *fakeSessionStore) SaveParticipant(p *model.Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.participants = append(f.participants, *p)
	return nil
}

func (f *fakeSessionStore) CreateRoundPlay(play *model.RoundPlay) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errors.New("store down")
	}
	f.roundPlays = append(f.roundPlays, *play)
	return nil
}

func (f *fakeSessionStore) AppendEvent(sessionID, roomID, eventType, participantID string, data interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, eventType)
	return nil
}

func (f *fakeSessionStore) eventTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	copy(out, f.events)
	return out
}

func (f *fakeSessionStore) countEvents(eventType string) int {
	n := 0
	for _, e := range f.eventTypes() {
		if e == eventType {
			n++
		}
	}
	return n
}

// fakeContent serves a single fixed challenge and tier table.
type fakeContent struct {
	challenge *model.Challenge
	tiers     map[string]model.CardQuality
	err       error
}

func (f *fakeContent) RandomChallenge(gradeLevel string) (*model.Challenge, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.challenge, nil
}

func (f *fakeContent) QualityTiers(category string) (map[string]model.CardQuality, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tiers, nil
}

type fakeCardSource struct {
	roles    []model.RoleCard
	synergys []model.SynergyCard
}

func (f *fakeCardSource) FindRoleCards(gradeLevel string) ([]model.RoleCard, error) {
	return f.roles, nil
}

func (f *fakeCardSource) FindSynergyCards(gradeLevel string) ([]model.SynergyCard, error) {
	return f.synergys, nil
}

// fakeBroadcaster keeps published events in memory.
type fakeBroadcaster struct {
	mu            sync.Mutex
	roomEvents    []GameBroadcast
	sessionEvents []GameBroadcast
}

func (f *fakeBroadcaster) PublishRoom(roomID string, event GameBroadcast) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roomEvents = append(f.roomEvents, event)
}

func (f *fakeBroadcaster) PublishSession(sessionID string, event GameBroadcast) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessionEvents = append(f.sessionEvents, event)
}

func (f *fakeBroadcaster) roomEventTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.roomEvents))
	for _, e := range f.roomEvents {
		out = append(out, e.Type)
	}
	return out
}

// fakeRoomStore is an in-memory RoomStore with the same conditional-update
// semantics as the SQL implementation.
type fakeRoomStore struct {
	mu    sync.Mutex
	rooms map[string]*model.Room
}

func newFakeRoomStore(rooms ...*model.Room) *fakeRoomStore {
	f := &fakeRoomStore{rooms: make(map[string]*model.Room)}
	for _, r := range rooms {
		cp := *r
		f.rooms[r.ID] = &cp
	}
	return f
}

func (f *fakeRoomStore) FindByID(id string) (*model.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRoomStore) FindFeatured() ([]model.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Room, 0, len(f.rooms))
	for _, r := range f.rooms {
		if r.Featured {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRoomStore) Save(room *model.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *room
	f.rooms[room.ID] = &cp
	return nil
}

func (f *fakeRoomStore) UpdateStatusIf(roomID string, expected, next model.RoomStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[roomID]
	if !ok || r.Status != expected {
		return false, nil
	}
	r.Status = next
	return true, nil
}

func (f *fakeRoomStore) get(id string) *model.Room {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *f.rooms[id]
	return &cp
}

type fakeSpectatorStore struct {
	mu    sync.Mutex
	byKey map[string]*model.RoomSpectator
}

func newFakeSpectatorStore() *fakeSpectatorStore {
	return &fakeSpectatorStore{byKey: make(map[string]*model.RoomSpectator)}
}

func specKey(roomID string, playerID uint) string {
	return fmt.Sprintf("%s/%d", roomID, playerID)
}

func (f *fakeSpectatorStore) Upsert(spec *model.RoomSpectator) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *spec
	f.byKey[specKey(spec.RoomID, spec.PlayerID)] = &cp
	return nil
}

func (f *fakeSpectatorStore) FindReady(roomID string) ([]model.RoomSpectator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.RoomSpectator{}
	for _, s := range f.byKey {
		if s.RoomID == roomID && s.WantsToJoin {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSpectatorStore) Remove(roomID string, playerID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byKey, specKey(roomID, playerID))
	return nil
}

func (f *fakeSpectatorStore) RemovePlayers(roomID string, playerIDs []uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range playerIDs {
		delete(f.byKey, specKey(roomID, id))
	}
	return nil
}

func (f *fakeSpectatorStore) count(roomID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.byKey {
		if s.RoomID == roomID {
			n++
		}
	}
	return n
}

type fakeProgressionStore struct {
	mu    sync.Mutex
	progs map[uint]*model.PlayerProgression
}

func newFakeProgressionStore() *fakeProgressionStore {
	return &fakeProgressionStore{progs: make(map[uint]*model.PlayerProgression)}
}

func (f *fakeProgressionStore) FindOrCreate(playerID uint) (*model.PlayerProgression, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.progs[playerID]; ok {
		cp := *p
		return &cp, nil
	}
	p := &model.PlayerProgression{PlayerID: playerID, Level: 1}
	f.progs[playerID] = p
	cp := *p
	return &cp, nil
}

func (f *fakeProgressionStore) Save(prog *model.PlayerProgression) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *prog
	f.progs[prog.PlayerID] = &cp
	return nil
}

func (f *fakeProgressionStore) TopByXP(limit int) ([]model.PlayerProgression, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.PlayerProgression, 0, len(f.progs))
	for _, p := range f.progs {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProgressionStore) get(playerID uint) *model.PlayerProgression {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *f.progs[playerID]
	return &cp
}

// manualClock collects scheduled transitions so tests can fire them in order
// instead of waiting on real timers.
type manualClock struct {
	mu      sync.Mutex
	pending []func()
}

func (c *manualClock) schedule(d time.Duration, fn func()) *time.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, fn)
	t := time.NewTimer(time.Hour)
	t.Stop()
	return t
}

// fire runs the most recently scheduled transition.
func (c *manualClock) fire(t *testing.T) {
	t.Helper()
	c.mu.Lock()
	if len(c.pending) == 0 {
		c.mu.Unlock()
		t.Fatal("no pending transition to fire")
	}
	fn := c.pending[len(c.pending)-1]
	c.pending = c.pending[:len(c.pending)-1]
	c.mu.Unlock()
	fn()
}

// fireOldest runs the earliest scheduled transition still pending, which in a
// live process would be a timer racing a transition that already happened.
func (c *manualClock) fireOldest(t *testing.T) {
	t.Helper()
	c.mu.Lock()
	if len(c.pending) == 0 {
		c.mu.Unlock()
		t.Fatal("no pending transition to fire")
	}
	fn := c.pending[0]
	c.pending = c.pending[1:]
	c.mu.Unlock()
	fn()
}
