package app

import (
	"context"
	"family_habit_backend/internal/config"
	"family_habit_backend/internal/controller"
	"family_habit_backend/internal/repository"
	"family_habit_backend/internal/service"
	"family_habit_backend/pkg/database"
	"family_habit_backend/pkg/logger"
	"family_habit_backend/pkg/monitoring"
	"family_habit_backend/pkg/security"
	"family_habit_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	habit      *repository.HabitRepository
	completion *repository.CompletionRepository
	point      *repository.PointRepository
	reward     *repository.RewardRepository
}

type services struct {
	auth         *service.AuthService
	verification *service.VerificationService
	user         *service.UserService
	habit        *service.HabitService
	task         *service.TaskService
	points       *service.PointsService
	reward       *service.RewardService
	stats        *service.StatsService
	report       *service.ReportService
	storage      service.StorageProvider
}

type controllers struct {
	auth   *controller.AuthController
	user   *controller.UserController
	habit  *controller.HabitController
	task   *controller.TaskController
	points *controller.PointsController
	reward *controller.RewardController
	stats  *controller.StatsController
	report *controller.ReportController
	health *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 配置热更新入口，由 configwatcher 回调
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config = cfg
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
	logger.Log.Info("配置已热更新")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		habit:      repository.NewHabitRepository(db),
		completion: repository.NewCompletionRepository(db),
		point:      repository.NewPointRepository(db),
		reward:     repository.NewRewardRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*services, error) {
	storage, err := service.NewStorageProvider(&cfg.Storage)
	if err != nil {
		return nil, err
	}

	s := &services{storage: storage}
	s.auth = service.NewAuthService(repos.user, cfg)
	s.verification = service.NewVerificationService(rdb, repos.user, cfg)
	s.user = service.NewUserService(repos.user, storage)
	s.habit = service.NewHabitService(repos.habit)
	s.task = service.NewTaskService(repos.habit, repos.completion, db)
	s.points = service.NewPointsService(repos.point)
	s.reward = service.NewRewardService(repos.reward, db)
	s.stats = service.NewStatsService(repos.habit, repos.completion, repos.point)
	s.report = service.NewReportService(repos.habit, s.task)

	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	isRelease := a.Config.Server.Mode == "release"
	return &controllers{
		auth:   controller.NewAuthController(s.auth, s.verification, isRelease),
		user:   controller.NewUserController(s.user),
		habit:  controller.NewHabitController(s.habit),
		task:   controller.NewTaskController(s.task),
		points: controller.NewPointsController(s.points),
		reward: controller.NewRewardController(s.reward),
		stats:  controller.NewStatsController(s.stats),
		report: controller.NewReportController(s.report),
		health: controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
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

	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	if cfg.MigrateOnly {
		return app
	}

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, db, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("family-habit-tracker", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type != "minio" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

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

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
