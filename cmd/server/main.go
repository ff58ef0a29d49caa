package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PeterSayer/CottageChooser/config"
	"github.com/PeterSayer/CottageChooser/internal/app/controller"
	"github.com/PeterSayer/CottageChooser/internal/app/repository"
	"github.com/PeterSayer/CottageChooser/internal/app/service"
	"github.com/PeterSayer/CottageChooser/internal/authz"
	"github.com/PeterSayer/CottageChooser/internal/db"
	"github.com/PeterSayer/CottageChooser/internal/middleware"
	"github.com/PeterSayer/CottageChooser/internal/router"
	"github.com/PeterSayer/CottageChooser/internal/scheduler"
	"github.com/PeterSayer/CottageChooser/internal/storage"
	"github.com/PeterSayer/CottageChooser/internal/websocket"
	"github.com/PeterSayer/CottageChooser/pkg/logger"
	"github.com/PeterSayer/CottageChooser/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console",
		EnableColor: true,
	})

	logger.Info("Starting CottageChooser Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Optional: session revocation needs redis, leave disabled without it
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, session revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer redis.Close()

	cottageRepo := repository.NewCottageRepository(db.GetDB())
	commentRepo := repository.NewCommentRepository(db.GetDB())
	voteRepo := repository.NewVoteRepository(db.GetDB())
	ratingRepo := repository.NewRatingRepository(db.GetDB())

	policy := authz.NewPolicy(cfg.Admin.Users, cfg.Admin.RuntimeAdmins)

	hub := websocket.NewHub()
	go hub.Run()

	sessionService := service.NewSessionService(&cfg.Session, &cfg.Group, policy)
	cottageService := service.NewCottageService(cottageRepo, ratingRepo, voteRepo, policy)
	commentService := service.NewCommentService(commentRepo, cottageRepo, policy)
	voteService := service.NewVoteService(voteRepo, cottageRepo, policy, hub)
	ratingService := service.NewRatingService(ratingRepo, cottageRepo, policy)
	summaryService := service.NewSummaryService(cottageRepo, commentRepo, policy, &cfg.OpenAI)

	var imageStorage *storage.ImageStorage
	if cfg.S3.Enabled() {
		imageStorage = storage.NewImageStorage(&cfg.S3)
	} else {
		logger.Warn("S3 not configured, image uploads disabled", nil)
	}

	sessionController := controller.NewSessionController(sessionService)
	cottageController := controller.NewCottageController(cottageService)
	commentController := controller.NewCommentController(commentService)
	voteController := controller.NewVoteController(voteService)
	ratingController := controller.NewRatingController(ratingService)
	summaryController := controller.NewSummaryController(summaryService)
	uploadController := controller.NewUploadController(imageStorage)

	sessionMiddleware := middleware.NewSessionMiddleware(cfg.Session.Secret)

	reconciler := scheduler.NewReconcileScheduler(cottageRepo, voteService, hub, cfg.Reconcile.CronSpec)
	if err := reconciler.Start(); err != nil {
		logger.Fatal("Failed to start reconciliation scheduler", err)
	}
	defer reconciler.Stop()

	r := router.NewRouter(
		sessionController,
		cottageController,
		commentController,
		voteController,
		ratingController,
		summaryController,
		uploadController,
		sessionMiddleware,
		hub,
		cfg,
	)
	engine := r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
