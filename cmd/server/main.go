package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	_ "pedtriage/docs"
	"pedtriage/internal/cache"
	"pedtriage/internal/config"
	"pedtriage/internal/engine"
	"pedtriage/internal/protocol"
	"pedtriage/internal/repository"
	"pedtriage/internal/service"
	"pedtriage/internal/transport/rest"
	"pedtriage/internal/transport/ws"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// @title Pediatric Triage & Intervention API
// @version 1.0
// @description Protocol-guided triage, ABCDE assessment, weight-based dosing and escalation support for pediatric emergencies
// @host localhost:8080
// @BasePath /v1
// @securityDefinitions.apikey SessionToken
// @in header
// @name Authorization
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx := context.Background()
	cfg := config.Load()

	// Protocol pack: a file if one is configured, the embedded pack
	// otherwise. A pack that fails validation never serves.
	var pack *protocol.Pack
	if cfg.PackPath != "" {
		pack, err = protocol.FromSource(ctx, protocol.FileSource{Path: cfg.PackPath})
	} else {
		pack, err = protocol.Default()
	}
	if err != nil {
		logger.Fatal("protocol pack rejected", zap.Error(err))
	}
	logger.Info("protocol pack loaded",
		zap.String("name", pack.Name),
		zap.String("version", pack.Version),
		zap.Int("drugs", len(pack.Drugs)),
		zap.Int("pathways", len(pack.Pathways)))

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		logger.Fatal("failed to ping MongoDB", zap.Error(err))
	}
	logger.Info("connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	redisAddr := cfg.RedisAddr
	if len(redisAddr) > 8 && redisAddr[:8] == "redis://" {
		redisAddr = redisAddr[8:]
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Fatal("failed to ping Redis", zap.Error(err))
	}
	logger.Info("connected to Redis")

	// WebSocket hub
	wsHub := ws.NewHub(logger)

	// Repositories and caches
	encounterRepo := repository.NewEncounterRepo(db)
	overrideRepo := repository.NewOverrideRepo(db)
	stateCache := cache.NewStateCache(rdb)

	// Services
	clock := engine.NewClock()
	tokenSvc := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	archiveSvc := service.NewArchiveService(encounterRepo, logger)
	sessionSvc := service.NewSessionService(pack, stateCache, archiveSvc, tokenSvc, clock, logger)
	triageSvc := service.NewTriageService(sessionSvc, archiveSvc, overrideRepo, logger)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	sessionSvc.SetBroadcaster(wsHub)
	triageSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		SessionService: sessionSvc,
		TriageService:  triageSvc,
		TokenService:   tokenSvc,
		Pack:           pack,
		WSHub:          wsHub,
		Logger:         logger,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("ListenAndServe failed", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	// No requests in flight past this point; drain the archive queue so
	// the last events reach the store.
	wsHub.Close()
	archiveSvc.Close()

	logger.Info("server exited")
}
