package controller

import (
	"strconv"

	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/repository"
	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressionController struct {
	Progressions *repository.ProgressionRepository
	Users        *repository.UserRepository
}

func NewProgressionController(progressions *repository.ProgressionRepository, users *repository.UserRepository) *ProgressionController {
	return &ProgressionController{Progressions: progressions, Users: users}
}

// @Summary My arcade progression
// @Tags progression
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/progression/me [get]
func (c *ProgressionController) GetMyProgression(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	prog, err := c.Progressions.FindOrCreate(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, prog)
}

type leaderboardEntry struct {
	Rank    int     `json:"rank"`
	Player  string  `json:"player"`
	TotalXP int     `json:"totalXp"`
	Level   int     `json:"level"`
	WinRate float64 `json:"winRate"`
}

// @Summary Arcade leaderboard
// @Tags progression
// @Produce json
// @Param limit query int false "Entries" default(10)
// @Success 200 {object} util.Response
// @Router /api/arcade/leaderboard [get]
func (c *ProgressionController) GetLeaderboard(ctx *gin.Context) {
	limit := 10
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	progs, err := c.Progressions.TopByXP(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	entries := make([]leaderboardEntry, len(progs))
	for i, prog := range progs {
		name := "Player"
		if u, err := c.Users.FindByID(prog.PlayerID); err == nil {
			name = u.Name
		}
		entries[i] = leaderboardEntry{
			Rank:    i + 1,
			Player:  name,
			TotalXP: prog.TotalXP,
			Level:   prog.Level,
			WinRate: prog.WinRate,
		}
	}
	util.Success(ctx, entries)
}
