package service

import (
	"sort"
	"sync"
	"time"

	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/config"
	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/model"
	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/util"
	"github.com/rosejohnson3923/pathfinity-app-sub012/pkg/logger"
	"github.com/rosejohnson3923/pathfinity-app-sub012/pkg/monitoring"

	"go.uber.org/zap"
)

// SessionStore is the persistence surface the engine writes through. Every
// write is best effort: a failed call is logged and the in-memory state
// machine advances anyway.
type SessionStore interface {
	Save(session *model.GameSession) error
	UpdatePhase(sessionID string, phase model.SessionPhase, round int) error
	SaveParticipant(p *model.Participant) error
	CreateRoundPlay(play *model.RoundPlay) error
	AppendEvent(sessionID, roomID, eventType, participantID string, data interface{}) error
}

// ChallengeSource provides the per-round reference content.
type ChallengeSource interface {
	RandomChallenge(gradeLevel string) (*model.Challenge, error)
	QualityTiers(category string) (map[string]model.CardQuality, error)
}

type roundSubmission struct {
	RoleCardID    string
	SynergyCardID string
	Special       model.SpecialCard
	SubmittedAt   time.Time
	Fast          bool
	Auto          bool
}

type sessionParticipant struct {
	ID           string
	Type         model.ParticipantType
	PlayerID     *uint
	DisplayName  string
	JoinOrder    int
	RoleCards    []string
	SynergyCards []string
	LensID       string
	GoldenCard   bool
	Active       bool
	TotalScore   int
	RoundScores  []int
	Submission   *roundSubmission
}

func (p *sessionParticipant) hasRoleCard(id string) bool {
	for _, c := range p.RoleCards {
		if c == id {
			return true
		}
	}
	return false
}

func (p *sessionParticipant) hasSynergyCard(id string) bool {
	for _, c := range p.SynergyCards {
		if c == id {
			return true
		}
	}
	return false
}

// liveSession is the in-memory state for one running game. The durable rows
// in the store are snapshots of it, not the source of truth while running.
type liveSession struct {
	mu sync.Mutex

	id         string
	roomID     string
	gradeLevel string
	gameNumber int

	phase       model.SessionPhase
	round       int
	totalRounds int

	roundSeconds int

	challenge      *model.Challenge
	tiers          map[string]model.CardQuality
	roundStartedAt time.Time
	startedAt      time.Time

	participants []*sessionParticipant // join order
	byID         map[string]*sessionParticipant

	timer *time.Timer
	epoch int // bumped on every transition so stale timer callbacks no-op
}

// FinalRanking is one participant's line in the completion record.
type FinalRanking struct {
	ParticipantID string                `json:"participantId"`
	PlayerID      *uint                 `json:"playerId,omitempty"`
	DisplayName   string                `json:"displayName"`
	Type          model.ParticipantType `json:"type"`
	Rank          int                   `json:"rank"`
	TotalScore    int                   `json:"totalScore"`
	RoundScores   []int                 `json:"roundScores"`
	GoldenUsed    bool                  `json:"goldenUsed"`
	PerfectRounds int                   `json:"perfectRounds"`
}

type SessionResult struct {
	SessionID string
	RoomID    string
	StartedAt time.Time
	Rankings  []FinalRanking
}

// SubmitResult is the synchronous answer to a round submission.
type SubmitResult struct {
	Accepted  bool            `json:"accepted"`
	Message   string          `json:"message,omitempty"`
	Breakdown *ScoreBreakdown `json:"breakdown,omitempty"`
}

// GameEngine drives every running session's phase machine. One engine serves
// the whole process; sessions are independent and individually locked.
type GameEngine struct {
	mu       sync.RWMutex
	sessions map[string]*liveSession

	cfg       config.ArcadeConfig
	store     SessionStore
	content   ChallengeSource
	broadcast Broadcaster

	// fastSubmit decides speed-bonus eligibility. The default uses the
	// configured window and disqualifies everything when the window is 0.
	fastSubmit func(elapsed time.Duration) bool

	// schedule is swappable so tests can fire transitions directly.
	schedule func(d time.Duration, f func()) *time.Timer

	onGameOver func(result *SessionResult)
}

func NewGameEngine(cfg config.ArcadeConfig, store SessionStore, content ChallengeSource, broadcast Broadcaster) *GameEngine {
	e := &GameEngine{
		sessions:  make(map[string]*liveSession),
		cfg:       cfg,
		store:     store,
		content:   content,
		broadcast: broadcast,
		schedule:  time.AfterFunc,
	}
	e.fastSubmit = func(elapsed time.Duration) bool {
		if cfg.SpeedWindowSeconds <= 0 {
			return false
		}
		return elapsed <= time.Duration(cfg.SpeedWindowSeconds)*time.Second
	}
	return e
}

// OnGameOver registers the completion hand-off, wired by the app to the room
// lifecycle manager.
func (e *GameEngine) OnGameOver(fn func(result *SessionResult)) {
	e.onGameOver = fn
}

func (e *GameEngine) SetFastSubmitPredicate(fn func(elapsed time.Duration) bool) {
	e.fastSubmit = fn
}

// StartSession takes a freshly persisted session with its participants and
// runs it: waiting -> active -> round 1.
func (e *GameEngine) StartSession(session *model.GameSession, room *model.Room, participants []model.Participant) error {
	if len(participants) < room.MinPlayers {
		return util.ErrNotEnoughPlayers
	}

	s := &liveSession{
		id:           session.ID,
		roomID:       room.ID,
		gradeLevel:   room.GradeLevel,
		gameNumber:   session.GameNumber,
		phase:        model.PhaseWaiting,
		totalRounds:  session.TotalRounds,
		roundSeconds: room.RoundSeconds,
		startedAt:    time.Now(),
		byID:         make(map[string]*sessionParticipant, len(participants)),
	}
	if s.roundSeconds <= 0 {
		s.roundSeconds = e.cfg.RoundSeconds
	}

	for _, p := range participants {
		sp := &sessionParticipant{
			ID:           p.ID,
			Type:         p.Type,
			PlayerID:     p.PlayerID,
			DisplayName:  p.DisplayName,
			JoinOrder:    p.JoinOrder,
			RoleCards:    decodeStrings(p.RoleCardIDs),
			SynergyCards: decodeStrings(p.SynergyCardIDs),
			LensID:       p.LensID,
			GoldenCard:   p.GoldenCard,
			Active:       true,
			RoundScores:  []int{},
		}
		s.participants = append(s.participants, sp)
		s.byID[sp.ID] = sp
	}

	e.mu.Lock()
	e.sessions[session.ID] = s
	e.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.phase = model.PhaseActive
	e.persistPhase(s)
	monitoring.SessionsStartedCounter.Inc()
	e.emit(s, "game_started", "", map[string]interface{}{
		"gameNumber": s.gameNumber,
		"rounds":     s.totalRounds,
	})

	e.startRoundLocked(s)
	return nil
}

// startRoundLocked begins round N+1: draw a challenge, clear submissions,
// arm the countdown. Caller holds s.mu.
func (e *GameEngine) startRoundLocked(s *liveSession) {
	s.round++
	s.phase = model.PhaseRoundPlaying
	s.roundStartedAt = time.Now()
	for _, p := range s.participants {
		p.Submission = nil
	}

	challenge, err := e.content.RandomChallenge(s.gradeLevel)
	if err != nil {
		logger.Log.Error("challenge draw failed, keeping previous",
			zap.String("session", s.id), zap.Error(err))
	} else {
		s.challenge = challenge
		tiers, err := e.content.QualityTiers(challenge.PrimaryCategory)
		if err != nil {
			logger.Log.Error("quality tier load failed",
				zap.String("session", s.id), zap.Error(err))
			s.tiers = nil
		} else {
			s.tiers = tiers
		}
	}

	e.persistPhase(s)
	data := map[string]interface{}{"round": s.round, "seconds": s.roundSeconds}
	if s.challenge != nil {
		data["challengeId"] = s.challenge.ID
		data["category"] = s.challenge.PrimaryCategory
	}
	e.emit(s, "round_started", "", data)

	e.scheduleTransition(s, time.Duration(s.roundSeconds)*time.Second, e.roundTimeout)
}

// scheduleTransition arms a phase timer bound to the current epoch. A timer
// firing after the session already moved on is ignored.
func (e *GameEngine) scheduleTransition(s *liveSession, d time.Duration, fn func(s *liveSession, epoch int)) {
	s.epoch++
	epoch := s.epoch
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = e.schedule(d, func() { fn(s, epoch) })
}

func (e *GameEngine) roundTimeout(s *liveSession, epoch int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch || s.phase != model.PhaseRoundPlaying {
		return
	}
	e.endRoundLocked(s)
}

// SubmitRound validates and records one participant's play for the current
// round. Validation failures come back as a rejected result, never a panic
// or a fatal error.
func (e *GameEngine) SubmitRound(sessionID, participantID, roleCardID, synergyCardID string, special model.SpecialCard) (*SubmitResult, error) {
	s := e.lookup(sessionID)
	if s == nil {
		return nil, util.ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != model.PhaseRoundPlaying {
		monitoring.SubmissionCounter.WithLabelValues("rejected").Inc()
		return &SubmitResult{Accepted: false, Message: util.ErrWrongPhase.Error()}, nil
	}

	p := s.byID[participantID]
	if p == nil {
		return nil, util.ErrParticipantNotFound
	}

	if !p.Active {
		monitoring.SubmissionCounter.WithLabelValues("rejected").Inc()
		return &SubmitResult{Accepted: false, Message: "participant is not active"}, nil
	}
	if p.Submission != nil {
		monitoring.SubmissionCounter.WithLabelValues("rejected").Inc()
		return &SubmitResult{Accepted: false, Message: util.ErrAlreadySubmitted.Error()}, nil
	}
	if special == model.SpecialGolden && !p.GoldenCard {
		monitoring.SubmissionCounter.WithLabelValues("rejected").Inc()
		return &SubmitResult{Accepted: false, Message: util.ErrGoldenCardUsed.Error()}, nil
	}
	if special != model.SpecialGolden {
		if !p.hasRoleCard(roleCardID) {
			monitoring.SubmissionCounter.WithLabelValues("rejected").Inc()
			return &SubmitResult{Accepted: false, Message: util.ErrCardNotInHand.Error()}, nil
		}
		if synergyCardID != "" && !p.hasSynergyCard(synergyCardID) {
			monitoring.SubmissionCounter.WithLabelValues("rejected").Inc()
			return &SubmitResult{Accepted: false, Message: util.ErrCardNotInHand.Error()}, nil
		}
	}

	now := time.Now()
	p.Submission = &roundSubmission{
		RoleCardID:    roleCardID,
		SynergyCardID: synergyCardID,
		Special:       special,
		SubmittedAt:   now,
		Fast:          e.fastSubmit(now.Sub(s.roundStartedAt)),
	}
	if special == model.SpecialGolden {
		p.GoldenCard = false
	}

	monitoring.SubmissionCounter.WithLabelValues("accepted").Inc()
	e.emit(s, "participant_submitted", p.ID, map[string]interface{}{"round": s.round})

	// Scoring is deterministic on the submission inputs, so the player can
	// see their breakdown immediately even though totals land at round end.
	category := ""
	if s.challenge != nil {
		category = s.challenge.PrimaryCategory
	}
	breakdown, err := CalculateRoundScore(ScoreInput{
		RoleCardID:    roleCardID,
		SynergyCardID: synergyCardID,
		Special:       special,
		LensID:        p.LensID,
		FastSubmit:    p.Submission.Fast,
	}, s.tiers, category)
	if err != nil {
		breakdown = nil
	}

	if e.allActiveSubmittedLocked(s) {
		e.endRoundLocked(s)
	}

	return &SubmitResult{Accepted: true, Breakdown: breakdown}, nil
}

func (e *GameEngine) allActiveSubmittedLocked(s *liveSession) bool {
	for _, p := range s.participants {
		if p.Active && p.Submission == nil {
			return false
		}
	}
	return true
}

// endRoundLocked scores the round and moves to voting. Non-submitting active
// participants are auto-submitted with their first role/synergy pair first.
func (e *GameEngine) endRoundLocked(s *liveSession) {
	for _, p := range s.participants {
		if !p.Active || p.Submission != nil {
			continue
		}
		sub := &roundSubmission{SubmittedAt: time.Now(), Auto: true}
		if len(p.RoleCards) > 0 {
			sub.RoleCardID = p.RoleCards[0]
		}
		if len(p.SynergyCards) > 0 {
			sub.SynergyCardID = p.SynergyCards[0]
		}
		p.Submission = sub
		e.emit(s, "participant_auto_submitted", p.ID, map[string]interface{}{"round": s.round})
	}

	category := ""
	if s.challenge != nil {
		category = s.challenge.PrimaryCategory
	}

	scores := make(map[string]*ScoreBreakdown, len(s.participants))
	for _, p := range s.participants {
		if !p.Active || p.Submission == nil {
			continue
		}
		breakdown, err := CalculateRoundScore(ScoreInput{
			RoleCardID:    p.Submission.RoleCardID,
			SynergyCardID: p.Submission.SynergyCardID,
			Special:       p.Submission.Special,
			LensID:        p.LensID,
			FastSubmit:    p.Submission.Fast,
		}, s.tiers, category)
		if err != nil {
			logger.Log.Error("round scoring failed",
				zap.String("session", s.id),
				zap.String("participant", p.ID),
				zap.Error(err))
			breakdown = &ScoreBreakdown{}
		}

		p.RoundScores = append(p.RoundScores, breakdown.FinalScore)
		p.TotalScore += breakdown.FinalScore
		scores[p.ID] = breakdown

		if err := e.store.CreateRoundPlay(&model.RoundPlay{
			SessionID:     s.id,
			ParticipantID: p.ID,
			Round:         s.round,
			RoleCardID:    p.Submission.RoleCardID,
			SynergyCardID: p.Submission.SynergyCardID,
			Special:       p.Submission.Special,
			AutoSubmitted: p.Submission.Auto,
			BaseScore:     breakdown.BaseScore,
			FinalScore:    breakdown.FinalScore,
			SubmittedAt:   p.Submission.SubmittedAt,
		}); err != nil {
			logger.Log.Error("round play persist failed",
				zap.String("session", s.id), zap.Error(err))
		}
	}

	s.phase = model.PhaseRoundVoting
	e.persistPhase(s)
	e.emit(s, "round_scored", "", map[string]interface{}{"round": s.round, "scores": scores})

	// The MVP vote itself has no tallying yet; the phase only holds its
	// timing contract.
	e.scheduleTransition(s, time.Duration(e.cfg.VotingSeconds)*time.Second, e.votingDone)
}

func (e *GameEngine) votingDone(s *liveSession, epoch int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch || s.phase != model.PhaseRoundVoting {
		return
	}

	s.phase = model.PhaseRoundResults
	e.persistPhase(s)
	e.emit(s, "round_results", "", map[string]interface{}{"round": s.round})

	e.scheduleTransition(s, time.Duration(e.cfg.ResultsSeconds)*time.Second, e.resultsDone)
}

func (e *GameEngine) resultsDone(s *liveSession, epoch int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch || s.phase != model.PhaseRoundResults {
		return
	}

	if s.round >= s.totalRounds {
		e.finishGameLocked(s)
		return
	}
	e.startRoundLocked(s)
}

// finishGameLocked computes final rankings, persists the completion snapshot
// and hands the result to the room lifecycle. Caller holds s.mu.
func (e *GameEngine) finishGameLocked(s *liveSession) {
	s.phase = model.PhaseGameOver
	s.epoch++
	if s.timer != nil {
		s.timer.Stop()
	}

	ranked := make([]*sessionParticipant, len(s.participants))
	copy(ranked, s.participants)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TotalScore != ranked[j].TotalScore {
			return ranked[i].TotalScore > ranked[j].TotalScore
		}
		return ranked[i].JoinOrder < ranked[j].JoinOrder
	})

	rankings := make([]FinalRanking, len(ranked))
	for i, p := range ranked {
		perfect := 0
		for _, score := range p.RoundScores {
			if score >= GoldenCardScore {
				perfect++
			}
		}
		rankings[i] = FinalRanking{
			ParticipantID: p.ID,
			PlayerID:      p.PlayerID,
			DisplayName:   p.DisplayName,
			Type:          p.Type,
			Rank:          i + 1,
			TotalScore:    p.TotalScore,
			RoundScores:   p.RoundScores,
			GoldenUsed:    !p.GoldenCard,
			PerfectRounds: perfect,
		}

		if err := e.store.SaveParticipant(&model.Participant{
			UUIDBase:       model.UUIDBase{ID: p.ID},
			SessionID:      s.id,
			Type:           p.Type,
			PlayerID:       p.PlayerID,
			DisplayName:    p.DisplayName,
			JoinOrder:      p.JoinOrder,
			RoleCardIDs:    encodeStrings(p.RoleCards),
			SynergyCardIDs: encodeStrings(p.SynergyCards),
			LensID:         p.LensID,
			GoldenCard:     p.GoldenCard,
			TotalScore:     p.TotalScore,
			RoundScores:    encodeInts(p.RoundScores),
		}); err != nil {
			logger.Log.Error("participant snapshot persist failed",
				zap.String("session", s.id), zap.Error(err))
		}
	}

	e.persistPhase(s)
	e.emit(s, "game_over", "", map[string]interface{}{"rankings": rankings})

	result := &SessionResult{
		SessionID: s.id,
		RoomID:    s.roomID,
		StartedAt: s.startedAt,
		Rankings:  rankings,
	}

	e.mu.Lock()
	delete(e.sessions, s.id)
	e.mu.Unlock()

	if e.onGameOver != nil {
		go e.onGameOver(result)
	}
}

// ForceStop abandons a running session, cancelling any pending transition.
func (e *GameEngine) ForceStop(sessionID string) error {
	s := e.lookup(sessionID)
	if s == nil {
		return util.ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == model.PhaseGameOver {
		return nil
	}

	s.epoch++
	if s.timer != nil {
		s.timer.Stop()
	}
	s.phase = model.PhaseGameOver
	e.persistPhase(s)
	e.emit(s, "game_stopped", "", nil)

	e.mu.Lock()
	delete(e.sessions, sessionID)
	e.mu.Unlock()
	return nil
}

// SessionView is a read-only snapshot for API consumers.
type SessionView struct {
	ID           string             `json:"id"`
	RoomID       string             `json:"roomId"`
	GameNumber   int                `json:"gameNumber"`
	Phase        model.SessionPhase `json:"phase"`
	CurrentRound int                `json:"currentRound"`
	TotalRounds  int                `json:"totalRounds"`
	Category     string             `json:"category,omitempty"`
	Participants []ParticipantView  `json:"participants"`
}

type ParticipantView struct {
	ID          string                `json:"id"`
	DisplayName string                `json:"displayName"`
	Type        model.ParticipantType `json:"type"`
	LensID      string                `json:"lensId"`
	GoldenCard  bool                  `json:"goldenCard"`
	TotalScore  int                   `json:"totalScore"`
	RoundScores []int                 `json:"roundScores"`
	Submitted   bool                  `json:"submitted"`
}

func (e *GameEngine) SessionSnapshot(sessionID string) (*SessionView, error) {
	s := e.lookup(sessionID)
	if s == nil {
		return nil, util.ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	view := &SessionView{
		ID:           s.id,
		RoomID:       s.roomID,
		GameNumber:   s.gameNumber,
		Phase:        s.phase,
		CurrentRound: s.round,
		TotalRounds:  s.totalRounds,
	}
	if s.challenge != nil {
		view.Category = s.challenge.PrimaryCategory
	}
	for _, p := range s.participants {
		view.Participants = append(view.Participants, ParticipantView{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			Type:        p.Type,
			LensID:      p.LensID,
			GoldenCard:  p.GoldenCard,
			TotalScore:  p.TotalScore,
			RoundScores: p.RoundScores,
			Submitted:   p.Submission != nil,
		})
	}
	return view, nil
}

func (e *GameEngine) lookup(sessionID string) *liveSession {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sessions[sessionID]
}

func (e *GameEngine) persistPhase(s *liveSession) {
	if err := e.store.UpdatePhase(s.id, s.phase, s.round); err != nil {
		logger.Log.Error("phase persist failed",
			zap.String("session", s.id),
			zap.String("phase", string(s.phase)),
			zap.Error(err))
	}
}

// emit appends to the durable event log and publishes to the session topic.
func (e *GameEngine) emit(s *liveSession, eventType, participantID string, data interface{}) {
	if err := e.store.AppendEvent(s.id, s.roomID, eventType, participantID, data); err != nil {
		logger.Log.Error("event append failed",
			zap.String("session", s.id),
			zap.String("type", eventType),
			zap.Error(err))
	}
	if e.broadcast != nil {
		e.broadcast.PublishSession(s.id, GameBroadcast{
			Type:          eventType,
			ParticipantID: participantID,
			Data:          data,
			Timestamp:     time.Now(),
		})
	}
}
