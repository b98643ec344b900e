package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron/v2"

	"github.com/yourusername/homework-api/internal/config"
	"github.com/yourusername/homework-api/internal/handler"
	"github.com/yourusername/homework-api/internal/middleware"
	pgRepo "github.com/yourusername/homework-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/homework-api/internal/repository/redis"
	"github.com/yourusername/homework-api/internal/service"
	"github.com/yourusername/homework-api/internal/service/arena"
	"github.com/yourusername/homework-api/pkg/database"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Loading configuration from %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	competitionRepo := pgRepo.NewCompetitionRepo(db)
	participantRepo := pgRepo.NewParticipantRepo(db)
	standingRepo := pgRepo.NewSectionStandingRepo(db)
	rewardRepo := pgRepo.NewRewardRepo(db)
	activityRepo := pgRepo.NewActivityRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	arenaConfig := arena.DefaultConfig()
	if cfg.Arena.EarlyThresholdHours > 0 {
		arenaConfig.EarlyThreshold = time.Duration(cfg.Arena.EarlyThresholdHours) * time.Hour
	}
	if cfg.Arena.ScoreWorkers > 0 {
		arenaConfig.ScoreWorkers = cfg.Arena.ScoreWorkers
	}
	if cfg.Arena.LeaderboardCacheTTLSec > 0 {
		arenaConfig.LeaderboardCacheTTL = time.Duration(cfg.Arena.LeaderboardCacheTTLSec) * time.Second
	}

	var notifier arena.Notifier = service.LogNotifier{}
	if cfg.Email.Enabled {
		emailNotifier, err := service.NewEmailNotifier(cfg.Email.ResendAPIKey, cfg.Email.From, cfg.Email.Recipients)
		if err != nil {
			log.Printf("Failed to initialize EmailNotifier: %v", err)
			os.Exit(1)
		}
		notifier = emailNotifier
		log.Println("Email notifications enabled")
	}

	runner := arena.NewRunner(arenaConfig, &arena.Dependencies{
		CompetitionRepo: competitionRepo,
		ParticipantRepo: participantRepo,
		StandingRepo:    standingRepo,
		RewardRepo:      rewardRepo,
		UserRepo:        activityRepo,
		Submissions:     activityRepo,
		Badges:          activityRepo,
		CacheRepo:       cacheRepo,
		DB:              db,
		Notifier:        notifier,
	})

	competitionService := service.NewCompetitionService(
		competitionRepo, participantRepo, standingRepo, rewardRepo,
		activityRepo, cacheRepo, runner, notifier, arenaConfig,
	)

	competitionHandler := handler.NewCompetitionHandler(competitionService)
	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// periodic lifecycle and recompute passes
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("Failed to create scheduler: %v", err)
		os.Exit(1)
	}
	if _, err := scheduler.NewJob(
		gocron.DurationJob(cfg.Arena.LifecycleInterval),
		gocron.NewTask(func() {
			if _, err := runner.AdvanceLifecycle(ctx); err != nil {
				log.Printf("[Scheduler] Lifecycle pass error: %v", err)
			}
		}),
	); err != nil {
		log.Printf("Failed to schedule lifecycle job: %v", err)
		os.Exit(1)
	}
	if _, err := scheduler.NewJob(
		gocron.DurationJob(cfg.Arena.RecomputeInterval),
		gocron.NewTask(func() {
			if err := runner.RecomputeAll(ctx); err != nil {
				log.Printf("[Scheduler] Recompute pass error: %v", err)
			}
		}),
	); err != nil {
		log.Printf("Failed to schedule recompute job: %v", err)
		os.Exit(1)
	}
	scheduler.Start()
	log.Printf("Scheduler started (lifecycle every %s, recompute every %s)",
		cfg.Arena.LifecycleInterval, cfg.Arena.RecomputeInterval)

	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		competitions := api.Group("/competitions")
		{
			competitions.GET("", competitionHandler.ListCompetitions)

			competitionWithID := competitions.Group("/:id")
			competitionWithID.Use(middleware.ExtractUintParam("id", "competitionID"))
			{
				competitionWithID.GET("", competitionHandler.GetCompetition)
				competitionWithID.GET("/leaderboard", competitionHandler.GetLeaderboard)
				competitionWithID.GET("/leaderboard/export", competitionHandler.ExportLeaderboard)
				competitionWithID.GET("/sections", competitionHandler.GetSectionStandings)
				competitionWithID.GET("/rewards", competitionHandler.GetRewards)

				authed := competitionWithID.Group("")
				authed.Use(authMiddleware.RequireAuth())
				{
					authed.POST("/join", competitionHandler.JoinCompetition)
					authed.POST("/leave", competitionHandler.LeaveCompetition)
					authed.GET("/me", competitionHandler.GetMyParticipation)
				}

				admin := competitionWithID.Group("")
				admin.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
				{
					admin.POST("/recompute", competitionHandler.RecomputeCompetition)
					admin.POST("/cancel", competitionHandler.CancelCompetition)
					admin.POST("/award-prizes", competitionHandler.AwardPrizes)
				}
			}

			adminCreate := competitions.Group("")
			adminCreate.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
			{
				adminCreate.POST("", competitionHandler.CreateCompetition)
			}
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()

	if err := scheduler.Shutdown(); err != nil {
		log.Printf("Error shutting down scheduler: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
