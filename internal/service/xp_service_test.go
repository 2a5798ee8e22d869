package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/model"
	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertXP(t *testing.T) {
	tests := []struct {
		name    string
		ranking FinalRanking
		want    int
	}{
		{
			name:    "first place sweep",
			ranking: FinalRanking{Rank: 1, TotalScore: 650, PerfectRounds: 5, GoldenUsed: true},
			want:    650/10 + 50 + 5*5 + 10,
		},
		{
			name:    "third place no extras",
			ranking: FinalRanking{Rank: 3, TotalScore: 312},
			want:    31 + 20,
		},
		{
			name:    "fourth place gets no rank bonus",
			ranking: FinalRanking{Rank: 4, TotalScore: 199},
			want:    19,
		},
		{
			name:    "score division floors",
			ranking: FinalRanking{Rank: 5, TotalScore: 9},
			want:    0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConvertXP(tt.ranking))
		})
	}
}

func TestLevelForXP(t *testing.T) {
	assert.Equal(t, 1, LevelForXP(0))
	assert.Equal(t, 1, LevelForXP(99))
	assert.Equal(t, 2, LevelForXP(100))
	assert.Equal(t, 8, LevelForXP(750))
}

func TestAwardRankings_SkipsAIAndAnonymous(t *testing.T) {
	progs := newFakeProgressionStore()
	svc := NewXPService(progs, newFakeSessionStore())

	playerID := uint(7)
	summaries, err := svc.AwardRankings([]FinalRanking{
		{ParticipantID: "p1", PlayerID: &playerID, Type: model.ParticipantHuman, Rank: 1, TotalScore: 500},
		{ParticipantID: "p2", Type: model.ParticipantAI, Rank: 2, TotalScore: 400},
		{ParticipantID: "p3", Type: model.ParticipantHuman, Rank: 3, TotalScore: 300},
	})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, playerID, summaries[0].PlayerID)
	assert.Equal(t, 100, summaries[0].XPAwarded) // 500/10 + 50
}

func TestAwardRankings_WinStreak(t *testing.T) {
	progs := newFakeProgressionStore()
	svc := NewXPService(progs, newFakeSessionStore())
	playerID := uint(7)

	win := []FinalRanking{{ParticipantID: "p1", PlayerID: &playerID, Type: model.ParticipantHuman, Rank: 1, TotalScore: 100}}
	loss := []FinalRanking{{ParticipantID: "p1", PlayerID: &playerID, Type: model.ParticipantHuman, Rank: 2, TotalScore: 100}}

	_, err := svc.AwardRankings(win)
	require.NoError(t, err)
	_, err = svc.AwardRankings(win)
	require.NoError(t, err)

	prog := progs.get(playerID)
	assert.Equal(t, 2, prog.WinStreak)
	assert.Equal(t, 2, prog.BestWinStreak)
	assert.Equal(t, 1.0, prog.WinRate)

	_, err = svc.AwardRankings(loss)
	require.NoError(t, err)

	prog = progs.get(playerID)
	assert.Equal(t, 0, prog.WinStreak)
	assert.Equal(t, 2, prog.BestWinStreak)
	assert.Equal(t, 3, prog.GamesPlayed)
	assert.Equal(t, 2, prog.GamesWon)
	assert.InDelta(t, 2.0/3.0, prog.WinRate, 1e-9)
	assert.NotNil(t, prog.LastPlayedAt)
}

func TestAwardSessionXP_ReplaysPersistedRankings(t *testing.T) {
	store := newFakeSessionStore()
	progs := newFakeProgressionStore()
	svc := NewXPService(progs, store)

	playerID := uint(7)
	rankings, err := json.Marshal([]FinalRanking{
		{ParticipantID: "p1", PlayerID: &playerID, Type: model.ParticipantHuman, Rank: 1, TotalScore: 650, PerfectRounds: 5, GoldenUsed: true},
	})
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, store.Save(&model.GameSession{
		UUIDBase:    model.UUIDBase{ID: "sess-1"},
		CompletedAt: &now,
		Rankings:    rankings,
	}))

	summaries, err := svc.AwardSessionXP("sess-1")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 150, summaries[0].XPAwarded)
	assert.Equal(t, 2, summaries[0].Level)

	saved, err := store.FindByID("sess-1")
	require.NoError(t, err)
	assert.True(t, saved.XPAwarded)
}

func TestAwardSessionXP_SecondAwardRejected(t *testing.T) {
	store := newFakeSessionStore()
	progs := newFakeProgressionStore()
	svc := NewXPService(progs, store)

	playerID := uint(7)
	rankings, err := json.Marshal([]FinalRanking{
		{ParticipantID: "p1", PlayerID: &playerID, Type: model.ParticipantHuman, Rank: 1, TotalScore: 650, PerfectRounds: 5, GoldenUsed: true},
	})
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, store.Save(&model.GameSession{
		UUIDBase:    model.UUIDBase{ID: "sess-1"},
		CompletedAt: &now,
		Rankings:    rankings,
	}))

	_, err = svc.AwardSessionXP("sess-1")
	require.NoError(t, err)
	_, err = svc.AwardSessionXP("sess-1")
	assert.ErrorIs(t, err, util.ErrXPAlreadyAwarded)

	// the replay must not inflate anything
	prog := progs.get(playerID)
	assert.Equal(t, 150, prog.TotalXP)
	assert.Equal(t, 1, prog.GamesPlayed)
	assert.Equal(t, 1, prog.WinStreak)
}

func TestAwardSessionXP_RequiresCompletedSession(t *testing.T) {
	store := newFakeSessionStore()
	svc := NewXPService(newFakeProgressionStore(), store)

	_, err := svc.AwardSessionXP("missing")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)

	require.NoError(t, store.Save(&model.GameSession{UUIDBase: model.UUIDBase{ID: "sess-1"}}))
	_, err = svc.AwardSessionXP("sess-1")
	assert.ErrorIs(t, err, util.ErrSessionNotCompleted)
}
