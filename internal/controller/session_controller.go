package controller

import (
	"errors"
	"strconv"

	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/model"
	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/repository"
	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/service"
	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SessionController struct {
	Sessions *repository.SessionRepository
	Engine   *service.GameEngine
	Manager  *service.RoomManager
	XP       *service.XPService
}

func NewSessionController(sessions *repository.SessionRepository, engine *service.GameEngine, manager *service.RoomManager, xp *service.XPService) *SessionController {
	return &SessionController{Sessions: sessions, Engine: engine, Manager: manager, XP: xp}
}

// @Summary Get session state
// @Description Live in-memory snapshot while running, stored record after
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} util.Response
// @Router /api/arcade/sessions/{id} [get]
func (c *SessionController) GetSession(ctx *gin.Context) {
	id := ctx.Param("id")

	if view, err := c.Engine.SessionSnapshot(id); err == nil {
		util.Success(ctx, view)
		return
	}

	session, err := c.Sessions.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

type submitRoundRequest struct {
	ParticipantID string `json:"participantId" binding:"required"`
	RoleCardID    string `json:"roleCardId"`
	SynergyCardID string `json:"synergyCardId"`
	UseSpecial    string `json:"useSpecial"` // golden | bonus | none
}

// @Summary Submit a round play
// @Tags sessions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Success 200 {object} util.Response
// @Router /api/arcade/sessions/{id}/submit [post]
func (c *SessionController) SubmitRound(ctx *gin.Context) {
	var req submitRoundRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	special := model.SpecialNone
	switch req.UseSpecial {
	case "", "none":
	case "golden":
		special = model.SpecialGolden
	case "bonus":
		special = model.SpecialBonus
	default:
		util.BadRequest(ctx, "useSpecial must be golden, bonus or none")
		return
	}

	result, err := c.Engine.SubmitRound(ctx.Param("id"), req.ParticipantID, req.RoleCardID, req.SynergyCardID, special)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound), errors.Is(err, util.ErrParticipantNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// @Summary Session event log
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param limit query int false "Max events" default(100)
// @Success 200 {object} util.Response
// @Router /api/arcade/sessions/{id}/events [get]
func (c *SessionController) GetEvents(ctx *gin.Context) {
	limit := 100
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	events, err := c.Sessions.FindEvents(ctx.Param("id"), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, events)
}

// @Summary Complete a session
// @Description Idempotent; closes the session and opens intermission
// @Tags sessions-admin
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Success 200 {object} util.Response
// @Router /api/admin/arcade/sessions/{id}/complete [post]
func (c *SessionController) CompleteGame(ctx *gin.Context) {
	if err := c.Manager.CompleteGame(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Award session XP
// @Description Replays the XP conversion from a completed session's record
// @Tags sessions-admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Success 200 {object} util.Response
// @Router /api/admin/arcade/sessions/{id}/award-xp [post]
func (c *SessionController) AwardSessionXP(ctx *gin.Context) {
	summaries, err := c.XP.AwardSessionXP(ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrSessionNotCompleted), errors.Is(err, util.ErrXPAlreadyAwarded):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, summaries)
}
