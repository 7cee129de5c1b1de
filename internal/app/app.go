package app

import (
	"context"
	"lingua_learn_backend/internal/config"
	"lingua_learn_backend/internal/controller"
	"lingua_learn_backend/internal/repository"
	"lingua_learn_backend/internal/service"
	"lingua_learn_backend/internal/util"
	"lingua_learn_backend/pkg/database"
	"lingua_learn_backend/pkg/logger"
	"lingua_learn_backend/pkg/monitoring"
	"lingua_learn_backend/pkg/security"
	"lingua_learn_backend/pkg/tracing"
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
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user        *repository.UserRepository
	language    *repository.LanguageRepository
	course      *repository.CourseRepository
	module      *repository.ModuleRepository
	lesson      *repository.LessonRepository
	exercise    *repository.ExerciseRepository
	reviewQueue *repository.ReviewQueueRepository
	attempt     *repository.AttemptRepository
	snapshot    *repository.SnapshotRepository
	enrollment  *repository.EnrollmentRepository
	streak      *repository.StreakRepository
	xp          *repository.XpRepository
}

type services struct {
	auth             *service.AuthService
	user             *service.UserService
	storage          *service.StorageService
	content          *service.ContentService
	spacedRepetition *service.SpacedRepetitionService
	exercise         *service.ExerciseService
	progress         *service.ProgressService
	leaderboard      *service.LeaderboardService
}

type controllers struct {
	auth             *controller.AuthController
	user             *controller.UserController
	content          *controller.ContentController
	learner          *controller.LearnerController
	spacedRepetition *controller.SpacedRepetitionController
	progress         *controller.ProgressController
	health           *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		language:    repository.NewLanguageRepository(db),
		course:      repository.NewCourseRepository(db),
		module:      repository.NewModuleRepository(db),
		lesson:      repository.NewLessonRepository(db),
		exercise:    repository.NewExerciseRepository(db),
		reviewQueue: repository.NewReviewQueueRepository(db),
		attempt:     repository.NewAttemptRepository(db),
		snapshot:    repository.NewSnapshotRepository(db),
		enrollment:  repository.NewEnrollmentRepository(db),
		streak:      repository.NewStreakRepository(db),
		xp:          repository.NewXpRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.content = service.NewContentService(repos.language, repos.course, repos.module, repos.lesson, repos.exercise)
	s.spacedRepetition = service.NewSpacedRepetitionService(repos.reviewQueue, repos.exercise)
	s.exercise = service.NewExerciseService(repos.exercise, repos.attempt, repos.xp, s.spacedRepetition, logger.Log)
	s.progress = service.NewProgressService(
		repos.lesson,
		repos.module,
		repos.course,
		repos.enrollment,
		repos.snapshot,
		repos.streak,
		repos.xp,
		repos.exercise,
		s.spacedRepetition,
		repos.attempt,
		logger.Log,
	)
	s.leaderboard = service.NewLeaderboardService(repos.xp, repos.user, rdb, logger.Log)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:             controller.NewAuthController(s.auth),
		user:             controller.NewUserController(s.user, s.storage),
		content:          controller.NewContentController(s.content, s.storage),
		learner:          controller.NewLearnerController(s.content, s.progress, s.exercise),
		spacedRepetition: controller.NewSpacedRepetitionController(s.spacedRepetition, repos.exercise),
		progress:         controller.NewProgressController(s.progress, s.leaderboard),
		health:           controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// 排行榜缓存可降级，Redis不可用时直接走库
		logger.Log.Warn("Redis unavailable, leaderboard cache disabled", zap.Error(err))
		rdb = nil
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
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, repos, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("lingua-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

// OnConfigReload 应用可热更新的配置项。连接类配置（数据库、Redis、端口）
// 需要重启才生效，这里只接管运行期可调整的部分
func (a *App) OnConfigReload(cfg *config.Config) {
	a.Config.CORS = cfg.CORS
	a.Config.RateLimit = cfg.RateLimit
	a.Config.JWT.ExpireTime = cfg.JWT.ExpireTime
	logger.Log.Info("Config reloaded",
		zap.Int("rateLimitMaxRequests", cfg.RateLimit.MaxRequests),
		zap.Strings("corsAllowedOrigins", cfg.CORS.AllowedOrigins))
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

	// 等待中断信号优雅关闭（5秒超时）
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
