package service

import (
	"encoding/json"
	"time"

	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/model"
	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/util"
)

// XP conversion constants. Level derives from cumulative XP by fixed divisor.
const (
	XPScoreDivisor    = 10
	XPRankBonusFirst  = 50
	XPRankBonusTop3   = 20
	XPPerfectRound    = 5
	XPGoldenCardBonus = 10
	XPLevelDivisor    = 100
)

// ProgressionStore persists cumulative player rewards.
type ProgressionStore interface {
	FindOrCreate(playerID uint) (*model.PlayerProgression, error)
	Save(prog *model.PlayerProgression) error
	TopByXP(limit int) ([]model.PlayerProgression, error)
}

// SessionReader loads completed sessions for the award path and persists the
// awarded marker that keeps the conversion from running twice.
type SessionReader interface {
	FindByID(id string) (*model.GameSession, error)
	Save(session *model.GameSession) error
}

// RewardSummary is one participant's XP outcome for a session.
type RewardSummary struct {
	ParticipantID string `json:"participantId"`
	PlayerID      uint   `json:"playerId"`
	DisplayName   string `json:"displayName"`
	Rank          int    `json:"rank"`
	XPAwarded     int    `json:"xpAwarded"`
	TotalXP       int    `json:"totalXp"`
	Level         int    `json:"level"`
	WinStreak     int    `json:"winStreak"`
}

// XPService converts final scores and placements into experience points and
// updates each backed player's progression record.
type XPService struct {
	progressions ProgressionStore
	sessions     SessionReader
}

func NewXPService(progressions ProgressionStore, sessions SessionReader) *XPService {
	return &XPService{progressions: progressions, sessions: sessions}
}

// ConvertXP is the pure score-to-XP formula.
func ConvertXP(r FinalRanking) int {
	xp := r.TotalScore / XPScoreDivisor
	switch {
	case r.Rank == 1:
		xp += XPRankBonusFirst
	case r.Rank <= 3:
		xp += XPRankBonusTop3
	}
	xp += XPPerfectRound * r.PerfectRounds
	if r.GoldenUsed {
		xp += XPGoldenCardBonus
	}
	return xp
}

// LevelForXP recomputes the derived level from cumulative XP.
func LevelForXP(totalXP int) int {
	return totalXP/XPLevelDivisor + 1
}

// AwardRankings applies the conversion once per participant with a backing
// player id. AI seats and anonymous participants earn nothing.
func (s *XPService) AwardRankings(rankings []FinalRanking) ([]RewardSummary, error) {
	summaries := make([]RewardSummary, 0, len(rankings))
	now := time.Now()

	for _, r := range rankings {
		if r.PlayerID == nil || r.Type == model.ParticipantAI {
			continue
		}

		prog, err := s.progressions.FindOrCreate(*r.PlayerID)
		if err != nil {
			return summaries, err
		}

		awarded := ConvertXP(r)
		prog.TotalXP += awarded
		prog.Level = LevelForXP(prog.TotalXP)
		prog.GamesPlayed++
		if r.Rank == 1 {
			prog.GamesWon++
			prog.WinStreak++
			if prog.WinStreak > prog.BestWinStreak {
				prog.BestWinStreak = prog.WinStreak
			}
		} else {
			prog.WinStreak = 0
		}
		prog.WinRate = float64(prog.GamesWon) / float64(prog.GamesPlayed)
		prog.LastPlayedAt = &now

		if err := s.progressions.Save(prog); err != nil {
			return summaries, err
		}

		summaries = append(summaries, RewardSummary{
			ParticipantID: r.ParticipantID,
			PlayerID:      *r.PlayerID,
			DisplayName:   r.DisplayName,
			Rank:          r.Rank,
			XPAwarded:     awarded,
			TotalXP:       prog.TotalXP,
			Level:         prog.Level,
			WinStreak:     prog.WinStreak,
		})
	}

	return summaries, nil
}

// AwardSessionXP converts a completed session's persisted rankings exactly
// once. Both the game-over hand-off and the admin replay endpoint go through
// here; the awarded flag on the session record rejects a second pass.
func (s *XPService) AwardSessionXP(sessionID string) ([]RewardSummary, error) {
	session, err := s.sessions.FindByID(sessionID)
	if err != nil {
		return nil, util.ErrSessionNotFound
	}
	if session.CompletedAt == nil || len(session.Rankings) == 0 {
		return nil, util.ErrSessionNotCompleted
	}
	if session.XPAwarded {
		return nil, util.ErrXPAlreadyAwarded
	}

	var rankings []FinalRanking
	if err := json.Unmarshal(session.Rankings, &rankings); err != nil {
		return nil, err
	}

	summaries, err := s.AwardRankings(rankings)
	if err != nil {
		return summaries, err
	}

	session.XPAwarded = true
	if err := s.sessions.Save(session); err != nil {
		return summaries, err
	}
	return summaries, nil
}
