package controller

import (
	"errors"

	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/repository"
	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/service"
	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RoomController struct {
	Rooms     *repository.RoomRepository
	Manager   *service.RoomManager
	Scheduler *service.RoomScheduler
}

func NewRoomController(rooms *repository.RoomRepository, manager *service.RoomManager, scheduler *service.RoomScheduler) *RoomController {
	return &RoomController{Rooms: rooms, Manager: manager, Scheduler: scheduler}
}

// @Summary List featured rooms
// @Description All featured perpetual rooms with their current status
// @Tags rooms
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/arcade/rooms [get]
func (c *RoomController) ListRooms(ctx *gin.Context) {
	rooms, err := c.Rooms.FindFeatured()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rooms)
}

// @Summary Get one room
// @Tags rooms
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} util.Response
// @Router /api/arcade/rooms/{id} [get]
func (c *RoomController) GetRoom(ctx *gin.Context) {
	room, err := c.Rooms.FindByID(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, room)
}

type joinRoomRequest struct {
	DisplayName string `json:"displayName"`
}

// @Summary Join a room
// @Description Queue as a spectator for the room's next game
// @Tags rooms
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Room ID"
// @Success 200 {object} util.Response
// @Router /api/arcade/rooms/{id}/join [post]
func (c *RoomController) JoinRoom(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req joinRoomRequest
	_ = ctx.ShouldBindJSON(&req)
	displayName := req.DisplayName
	if displayName == "" {
		displayName = user.Name
	}

	result, err := c.Manager.HandlePlayerJoin(ctx.Param("id"), user.UserID, displayName)
	if err != nil {
		if errors.Is(err, util.ErrRoomNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary Leave a room's spectator queue
// @Tags rooms
// @Security ApiKeyAuth
// @Param id path string true "Room ID"
// @Success 200 {object} util.Response
// @Router /api/arcade/rooms/{id}/leave [post]
func (c *RoomController) LeaveRoom(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.Manager.HandlePlayerLeave(ctx.Param("id"), user.UserID); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, nil)
}

// @Summary Start a room's next game now
// @Tags rooms-admin
// @Security ApiKeyAuth
// @Param id path string true "Room ID"
// @Success 200 {object} util.Response
// @Router /api/admin/arcade/rooms/{id}/start [post]
func (c *RoomController) StartRoom(ctx *gin.Context) {
	session, err := c.Scheduler.StartRoom(ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrRoomNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrRoomNotIntermission), errors.Is(err, util.ErrRoomPaused):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, session)
}

// @Summary Pause a room
// @Tags rooms-admin
// @Security ApiKeyAuth
// @Param id path string true "Room ID"
// @Success 200 {object} util.Response
// @Router /api/admin/arcade/rooms/{id}/pause [post]
func (c *RoomController) PauseRoom(ctx *gin.Context) {
	if err := c.Scheduler.PauseRoom(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrRoomNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Resume a paused room
// @Tags rooms-admin
// @Security ApiKeyAuth
// @Param id path string true "Room ID"
// @Success 200 {object} util.Response
// @Router /api/admin/arcade/rooms/{id}/resume [post]
func (c *RoomController) ResumeRoom(ctx *gin.Context) {
	if err := c.Scheduler.ResumeRoom(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrRoomNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Force-stop a room's running game
// @Tags rooms-admin
// @Security ApiKeyAuth
// @Param id path string true "Room ID"
// @Success 200 {object} util.Response
// @Router /api/admin/arcade/rooms/{id}/stop [post]
func (c *RoomController) ForceStopRoom(ctx *gin.Context) {
	if err := c.Scheduler.ForceStopRoom(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrRoomNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Scheduler health
// @Description Flags rooms stuck in intermission beyond the threshold
// @Tags rooms-admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/arcade/rooms/health [get]
func (c *RoomController) SchedulerHealth(ctx *gin.Context) {
	report, err := c.Scheduler.HealthCheck()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, report)
}
