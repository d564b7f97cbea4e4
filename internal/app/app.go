package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"worksheet_arc_backend/internal/config"
	"worksheet_arc_backend/internal/controller"
	"worksheet_arc_backend/internal/repository"
	"worksheet_arc_backend/internal/service"
	"worksheet_arc_backend/pkg/database"
	"worksheet_arc_backend/pkg/logger"
	"worksheet_arc_backend/pkg/monitoring"
	"worksheet_arc_backend/pkg/security"
	"worksheet_arc_backend/pkg/tracing"

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
	user    *repository.UserRepository
	history *repository.HistoryRepository
	current *repository.CurrentRepository
}

type services struct {
	auth      *service.AuthService
	ai        *service.AIService
	prompt    *service.PromptService
	image     *service.ImageService
	history   *service.HistoryService
	generator *service.GeneratorService
	export    *service.ExportService
	storage   service.StorageProvider
}

type controllers struct {
	auth      *controller.AuthController
	worksheet *controller.WorksheetController
	history   *controller.HistoryController
	export    *controller.ExportController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热更新。只覆盖可在线调整的生成与排版参数段，
// 服务持有的是同一份 *Config，下一次请求即生效；
// 连接类配置（数据库、Redis、端口）仍需重启。
func (a *App) ApplyConfig(newCfg *config.Config) {
	config.ApplyGenerateDefaults(&newCfg.Generate)
	a.Config.Generate = newCfg.Generate

	for _, callback := range a.configCallbacks {
		callback(newCfg)
	}
	logger.Log.Info("config reloaded",
		zap.Int("compactOptionThreshold", newCfg.Generate.CompactOptionThreshold))
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:    repository.NewUserRepository(db),
		history: repository.NewHistoryRepository(db),
		current: repository.NewCurrentRepository(rdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) (*services, error) {
	storage, err := service.NewStorageProvider(&cfg.Storage)
	if err != nil {
		return nil, err
	}

	s := &services{storage: storage}
	s.auth = service.NewAuthService(repos.user, cfg)
	s.ai = service.NewAIService(cfg.AI)
	s.prompt = service.NewPromptService(cfg.Generate)
	s.image = service.NewImageService(cfg.Image)
	s.history = service.NewHistoryService(repos.history, repos.current)
	s.generator = service.NewGeneratorService(s.ai, s.prompt, s.image, s.history, repos.current, cfg)
	s.export = service.NewExportService(s.image, s.history, repos.history, storage, cfg)
	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		worksheet: controller.NewWorksheetController(s.generator, s.history),
		history:   controller.NewHistoryController(s.history),
		export:    controller.NewExportController(s.export),
		health:    controller.NewHealthController(db, rdb),
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

	repos := app.initRepositories(db, rdb)
	services, err := app.initServices(repos, cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}
	controllers := app.initControllers(services, db, rdb)

	app.RegisterConfigCallback(func(c *config.Config) {
		services.prompt.UpdateConfig(c.Generate)
	})

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("worksheet-arc", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" || cfg.Storage.Type == "" {
		router.Static("/exports", cfg.Storage.LocalPath)
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

	// 等待中断信号优雅地关闭服务器
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
