// Package main runs the engagement HTTP server with WebSocket fan-out and
// graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dulhara79/Nexora-sub000/config"
	"github.com/dulhara79/Nexora-sub000/internal/auth"
	"github.com/dulhara79/Nexora-sub000/internal/comments"
	"github.com/dulhara79/Nexora-sub000/internal/identity"
	"github.com/dulhara79/Nexora-sub000/internal/middleware"
	"github.com/dulhara79/Nexora-sub000/internal/models"
	"github.com/dulhara79/Nexora-sub000/internal/notifications"
	"github.com/dulhara79/Nexora-sub000/internal/questions"
	"github.com/dulhara79/Nexora-sub000/internal/quizzes"
	"github.com/dulhara79/Nexora-sub000/internal/realtime"
	"github.com/dulhara79/Nexora-sub000/internal/votes"
	"github.com/dulhara79/Nexora-sub000/internal/worker"
	"github.com/dulhara79/Nexora-sub000/pkg/database"
	"github.com/dulhara79/Nexora-sub000/pkg/redis"
	"github.com/dulhara79/Nexora-sub000/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	hub := realtime.NewHub(logger)

	// Auth and identity
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)
	identitySvc := identity.NewService(authRepo, 5*time.Minute)

	// Notifications: persist, dedup, live push
	notifRepo := notifications.NewRepository(pool)
	deduper := notifications.NewRedisDeduper(rdb.Client)
	composer := notifications.NewComposer(notifRepo, deduper, hub, identitySvc, cfg.Engagement.DedupWindow, logger)
	notifHandler := notifications.NewHandler(notifRepo, hub, logger)

	// Vote ledger across the three votable kinds
	ledger := votes.NewLedger(composer, logger)

	questionRepo := questions.NewRepository(pool)
	ledger.RegisterStore(models.EntityQuestion, questionRepo)
	questionHandler := questions.NewHandler(questionRepo, ledger, cfg.Engagement.EditWindow, logger)

	commentRepo := comments.NewRepository(pool)
	ledger.RegisterStore(models.EntityComment, commentRepo)
	commentHandler := comments.NewHandler(commentRepo, questionRepo, ledger, composer, cfg.Engagement.EditWindow, logger)

	quizRepo := quizzes.NewRepository(pool)
	ledger.RegisterStore(models.EntityQuiz, quizRepo)
	quizService := quizzes.NewService(quizRepo, composer, logger)
	quizHandler := quizzes.NewHandler(quizRepo, quizService, ledger, composer, cfg.Engagement.EditWindow, logger)

	jwtVerify := func(token string) (uuid.UUID, string, error) {
		claims, err := jwtService.Validate(token)
		if err != nil {
			return uuid.Nil, "", err
		}
		return claims.UserID, claims.Role, nil
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		// Users (admin only)
		api.GET("/users", middleware.RequireRole(string(models.RoleAdmin)), authHandler.List)

		// Questions
		api.POST("/questions", questionHandler.Create)
		api.GET("/questions", questionHandler.List)
		api.GET("/questions/:id", questionHandler.GetByID)
		api.PATCH("/questions/:id", questionHandler.Update)
		api.DELETE("/questions/:id", questionHandler.Delete)
		api.POST("/questions/:id/vote", questionHandler.Vote)

		// Comments
		api.POST("/questions/:id/comments", commentHandler.Create)
		api.GET("/questions/:id/comments", commentHandler.ListByQuestion)
		api.PATCH("/comments/:id", commentHandler.Update)
		api.DELETE("/comments/:id", commentHandler.Delete)
		api.POST("/comments/:id/vote", commentHandler.Vote)

		// Quizzes
		api.POST("/quizzes", quizHandler.Create)
		api.GET("/quizzes", quizHandler.List)
		api.GET("/quizzes/:id", quizHandler.GetByID)
		api.PATCH("/quizzes/:id", quizHandler.Update)
		api.DELETE("/quizzes/:id", quizHandler.Delete)
		api.POST("/quizzes/:id/answers", quizHandler.SubmitAnswer)
		api.DELETE("/quizzes/:id/attempts/:userId", quizHandler.ClearAttempt)
		api.GET("/quizzes/:id/stats", quizHandler.Stats)
		api.POST("/quizzes/:id/vote", quizHandler.Vote)

		// Notifications
		api.GET("/notifications/unread", notifHandler.ListUnread)
		api.PATCH("/notifications/:id/read", notifHandler.MarkRead)
	}

	// WebSocket (token in query or Authorization header; verified before upgrade)
	router.GET("/ws", realtime.ServeWs(hub, logger, jwtVerify))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Background sweep: close expired quizzes and push results
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	sweeper := worker.NewSweeper(quizService, cfg.Engagement.SweepInterval, logger)
	go sweeper.Run(workerCtx)
	logger.Info("quiz sweeper started", zap.Duration("interval", cfg.Engagement.SweepInterval))

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
