package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"skillshare/internal/cache"
	"skillshare/internal/config"
	"skillshare/internal/metrics"
	"skillshare/internal/repository"
	"skillshare/internal/service"
	"skillshare/internal/transport/rest"
	"skillshare/internal/transport/ws"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SkillShare API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	aiConfig := config.DefaultAIConfig()
	if aiConfig.IsEnabled() {
		log.Printf("Gemini tag suggestion: enabled (model %s)", aiConfig.Model)
	} else {
		log.Println("Gemini tag suggestion: API key not set, suggestions will be empty")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.Mongo.Database)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Auth-state observable: one hub for the whole process
	wsHub := ws.NewHub()
	log.Println("Auth event hub started")

	// Initialize repositories
	sessionRepo := repository.NewSessionRepo(db)
	userRepo := repository.NewUserRepo(db)

	// Initialize caches
	tokenCache := cache.NewTokenCache(rdb)
	suggestionCache := cache.NewSuggestionCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService(userRepo, tokenCache, cfg.Auth)
	authSvc.SetBroadcaster(wsHub)
	sessionSvc := service.NewSessionService(sessionRepo, userRepo)
	tagSvc := service.NewTagService(aiConfig, suggestionCache)

	m := metrics.New()

	container := &rest.Container{
		AuthService:    authSvc,
		SessionService: sessionSvc,
		TagService:     tagSvc,
		Metrics:        m,
		WSHub:          wsHub,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("Server starting on %s", cfg.Addr())
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/signin")
		log.Println("  POST /v1/auth/signout")
		log.Println("  GET  /v1/auth/me")
		log.Println("  GET/POST /v1/sessions")
		log.Println("  GET/PUT/DELETE /v1/sessions/{sessionId}")
		log.Println("  POST /v1/sessions/{sessionId}/join")
		log.Println("  POST /v1/sessions/{sessionId}/leave")
		log.Println("  POST /v1/tags/suggest")
		log.Println("  WS   /v1/ws/auth")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
	return nil
}
