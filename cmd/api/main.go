package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/voiceattendance/voice-attendance/pkg/validator"

	"github.com/voiceattendance/voice-attendance/internal/adapter/handler"
	"github.com/voiceattendance/voice-attendance/internal/adapter/repository"
	"github.com/voiceattendance/voice-attendance/internal/infrastructure/cache"
	"github.com/voiceattendance/voice-attendance/internal/infrastructure/database"
	"github.com/voiceattendance/voice-attendance/internal/infrastructure/external/oauth"
	httpmw "github.com/voiceattendance/voice-attendance/internal/infrastructure/http/middleware"
	"github.com/voiceattendance/voice-attendance/internal/infrastructure/profiles"
	"github.com/voiceattendance/voice-attendance/internal/infrastructure/storage"
	"github.com/voiceattendance/voice-attendance/internal/usecase/attendance"
	"github.com/voiceattendance/voice-attendance/internal/usecase/auth"
	"github.com/voiceattendance/voice-attendance/internal/usecase/student"
	"github.com/voiceattendance/voice-attendance/internal/usecase/voice"
	pkgai "github.com/voiceattendance/voice-attendance/pkg/ai"
	"github.com/voiceattendance/voice-attendance/pkg/audio"
	"github.com/voiceattendance/voice-attendance/pkg/config"
	"github.com/voiceattendance/voice-attendance/pkg/jwt"
	"github.com/voiceattendance/voice-attendance/pkg/speaker"
)

// @title           Voice Attendance System API
// @version         1.0
// @description     QR + voice verification attendance system with speaker recognition

// @host      localhost:8000
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	if err := database.MigrateUp(db, cfg.Database.Driver); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	// Initialize challenge cache
	var cacheStore cache.Store
	if cfg.Redis.Enabled() {
		log.Println("📦 Connecting to Redis...")
		redisStore, err := cache.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		cacheStore = redisStore
	} else {
		log.Println("📦 Using in-memory challenge store (no REDIS_ADDR configured)")
		cacheStore = cache.NewMemoryStore()
	}
	challenges := cache.NewChallengeStore(cacheStore, 10*time.Minute)

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	adminRepo := repository.NewAdminRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	authSessionRepo := repository.NewAuthSessionRepository(db)
	sessionRepo := repository.NewAttendanceSessionRepository(db)
	recordRepo := repository.NewAttendanceRecordRepository(db)
	profileRepo := repository.NewVoiceProfileRepository(db)
	verificationRepo := repository.NewVoiceVerificationRepository(db)

	// Initialize voice pipeline
	log.Println("🎙️  Initializing voice pipeline...")
	profileStore, err := profiles.NewStore(cfg.Voice.ProfilesDir, cfg.Voice.EnrollMinSeconds)
	if err != nil {
		log.Fatalf("Failed to initialize profile store: %v", err)
	}

	decoder := audio.NewDecoder(audio.Config{
		FFmpegBin:  cfg.Voice.FFmpegBin,
		TargetRate: 16000,
		MinSeconds: cfg.Voice.VerifyMinSeconds,
		TempDir:    cfg.Voice.UploadDir,
	})

	engine := speaker.NewEngine(speaker.Config{
		MinSeconds:        cfg.Voice.VerifyMinSeconds,
		PrimaryThreshold:  cfg.Voice.PrimaryThreshold,
		FallbackThreshold: cfg.Voice.FallbackThreshold,
		Loader: speaker.LoaderConfig{
			ModelPath:     cfg.Voice.ModelPath,
			ModelURL:      cfg.Voice.ModelURL,
			CacheDir:      cfg.Voice.ModelCacheDir,
			PretrainedDir: cfg.Voice.PretrainedDir,
		},
	}, logger, nil)
	defer engine.Close()

	// Initialize spoken-word check
	var wordChecker *pkgai.WordChecker
	if cfg.AssemblyAI.Enabled() {
		log.Println("🤖 Initializing AssemblyAI word check...")
		wordChecker = pkgai.NewWordChecker(&cfg.AssemblyAI, logger)
	} else {
		log.Println("🤖 Spoken-word check disabled (no ASSEMBLYAI_API_KEY)")
	}

	// Initialize clip archive
	var archive *storage.MinIOClient
	if cfg.Storage.Enabled() {
		log.Println("🗄️  Connecting to MinIO...")
		archive, err = storage.NewMinIOClient(&cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize MinIO client: %v", err)
		}
	} else {
		log.Println("🗄️  Clip archiving disabled (no MINIO_ENDPOINT configured)")
	}

	// Initialize OAuth provider
	var googleProvider *oauth.GoogleProvider
	var stateManager *oauth.StateManager
	if cfg.OAuth.Google.Enabled() {
		log.Println("🔐 Initializing Google OAuth provider...")
		googleProvider = oauth.NewGoogleProvider(
			cfg.OAuth.Google.ClientID,
			cfg.OAuth.Google.ClientSecret,
			cfg.OAuth.Google.RedirectURL,
		)
		stateManager = oauth.NewStateManager(cacheStore, 10*time.Minute)
	} else {
		log.Println("🔐 Google OAuth disabled (no client credentials configured)")
	}

	// Initialize JWT manager
	log.Println("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize services
	log.Println("✨ Initializing services...")
	voiceService := voice.NewVoiceService(
		studentRepo,
		profileRepo,
		verificationRepo,
		sessionRepo,
		profileStore,
		engine,
		decoder,
		wordChecker,
		archive,
		voice.Options{
			UploadDir:     cfg.Voice.UploadDir,
			TempMaxAge:    cfg.Voice.TempMaxAge,
			SweepInterval: cfg.Voice.SweepInterval,
		},
		logger,
		nil,
	)
	attendanceService := attendance.NewAttendanceService(
		sessionRepo,
		recordRepo,
		studentRepo,
		voiceService,
		challenges,
		logger,
		nil,
	)
	studentService := student.NewStudentService(studentRepo, voiceService, logger)
	authService := auth.NewAuthService(
		adminRepo,
		studentRepo,
		authSessionRepo,
		jwtManager,
		googleProvider,
		stateManager,
		logger,
	)

	// Start temp upload sweeper
	if err := voiceService.StartSweeper(context.Background()); err != nil {
		log.Fatalf("Failed to start upload sweeper: %v", err)
	}

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	authHandler := handler.NewAuth(authService, logger)
	studentHandler := handler.NewStudentHandler(studentService, logger)
	sessionHandler := handler.NewSessionHandler(attendanceService, logger)
	voiceHandler := handler.NewVoiceHandler(voiceService, logger)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	authMW := httpmw.NewAuthMiddleware(jwtManager)
	router := handler.NewRouter(cfg, authMW, authHandler, studentHandler, sessionHandler, voiceHandler, attendanceHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	if err := voiceService.StopSweeper(); err != nil {
		log.Printf("⚠️  Upload sweeper: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
