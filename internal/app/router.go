package app

import (
	"github.com/rosejohnson3923/pathfinity-app-sub012/docs"
	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/config"
	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/middleware"
	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/model"
	"github.com/rosejohnson3923/pathfinity-app-sub012/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerPlayerRoutes(authGroup, c)
	}

	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)

		// browsing the arcade needs no account
		arcade := public.Group("/arcade")
		{
			arcade.GET("/rooms", middleware.TryAuthMiddleware(a.Config), c.room.ListRooms)
			arcade.GET("/rooms/:id", middleware.TryAuthMiddleware(a.Config), c.room.GetRoom)
			arcade.GET("/sessions/:id", c.session.GetSession)
			arcade.GET("/sessions/:id/events", c.session.GetEvents)
			arcade.GET("/leaderboard", c.progression.GetLeaderboard)
		}
	}
}

func (a *App) registerPlayerRoutes(rg *gin.RouterGroup, c *controllers) {
	arcade := rg.Group("/arcade")
	{
		arcade.POST("/rooms/:id/join", c.room.JoinRoom)
		arcade.POST("/rooms/:id/leave", c.room.LeaveRoom)
		arcade.POST("/sessions/:id/submit", c.session.SubmitRound)
	}

	rg.GET("/progression/me", c.progression.GetMyProgression)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin/arcade")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Teacher, model.Admin))
	{
		admin.POST("/rooms/:id/start", c.room.StartRoom)
		admin.POST("/rooms/:id/pause", c.room.PauseRoom)
		admin.POST("/rooms/:id/resume", c.room.ResumeRoom)
		admin.POST("/rooms/:id/stop", c.room.ForceStopRoom)
		admin.GET("/rooms/health", c.room.SchedulerHealth)

		admin.POST("/sessions/:id/complete", c.session.CompleteGame)
		admin.POST("/sessions/:id/award-xp", c.session.AwardSessionXP)
	}
}
