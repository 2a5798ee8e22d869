package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/config"
	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/controller"
	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/repository"
	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/service"
	"github.com/rosejohnson3923/pathfinity-app-sub012/pkg/database"
	"github.com/rosejohnson3923/pathfinity-app-sub012/pkg/logger"
	"github.com/rosejohnson3923/pathfinity-app-sub012/pkg/monitoring"
	"github.com/rosejohnson3923/pathfinity-app-sub012/pkg/security"
	"github.com/rosejohnson3923/pathfinity-app-sub012/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	room        *repository.RoomRepository
	spectator   *repository.SpectatorRepository
	session     *repository.SessionRepository
	content     *repository.ContentRepository
	progression *repository.ProgressionRepository
	user        *repository.UserRepository
}

type services struct {
	broadcast *service.RedisBroadcaster
	engine    *service.GameEngine
	xp        *service.XPService
	manager   *service.RoomManager
	scheduler *service.RoomScheduler
}

type controllers struct {
	room        *controller.RoomController
	session     *controller.SessionController
	progression *controller.ProgressionController
	health      *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		room:        repository.NewRoomRepository(db),
		spectator:   repository.NewSpectatorRepository(db),
		session:     repository.NewSessionRepository(db),
		content:     repository.NewContentRepository(db),
		progression: repository.NewProgressionRepository(db),
		user:        repository.NewUserRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.broadcast = service.NewRedisBroadcaster(rdb)
	s.engine = service.NewGameEngine(cfg.Arcade, repos.session, repos.content, s.broadcast)
	s.xp = service.NewXPService(repos.progression, repos.session)
	s.manager = service.NewRoomManager(cfg.Arcade, repos.room, repos.spectator, repos.session, repos.content, s.engine, s.broadcast, s.xp)
	s.scheduler = service.NewRoomScheduler(cfg.Arcade, repos.room, s.manager)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB) *controllers {
	return &controllers{
		room:        controller.NewRoomController(repos.room, s.manager, s.scheduler),
		session:     controller.NewSessionController(repos.session, s.engine, s.manager, s.xp),
		progression: controller.NewProgressionController(repos.progression, repos.user),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests == 0 {
		maxRequests = 100000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window == 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, repos, db)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		_, err := tracing.InitTracer("pathfinity-arcade", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	go services.scheduler.Run()

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// stop the game loop before the HTTP surface
	if a.services != nil && a.services.scheduler != nil {
		a.services.scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
