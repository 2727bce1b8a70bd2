package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kalasag/kalasag-go/internal/config"
	"github.com/kalasag/kalasag-go/internal/engine"
	"github.com/kalasag/kalasag-go/internal/handler"
	"github.com/kalasag/kalasag-go/internal/service"
	"github.com/kalasag/kalasag-go/pkg/logger"
	"github.com/kalasag/kalasag-go/pkg/redis"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "configs/kalasag.yaml", "path to the YAML config")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zapLogger, err := logger.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("kalasag starting", zap.String("config", *configPath))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// transcripts
	var store service.TranscriptStore = service.NewMemoryTranscriptStore()
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			zapLogger.Fatal("connect redis", zap.Error(err))
		}
		defer redisClient.Close()
		store = service.NewRedisTranscriptStore(redisClient, cfg.Chat.TranscriptTTL)
		zapLogger.Info("transcripts stored in redis", zap.String("addr", redisClient.Options().Addr))
	}

	chatService := service.NewChatService(engine.NewClassifier(nil), store, zapLogger)
	sessionService := service.NewSessionService(chatService, cfg.Session, zapLogger)
	transferService := service.NewTransferService(zapLogger)

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := handler.NewRouter(
		handler.NewAPIHandler(transferService, sessionService, cfg.Server.Name, zapLogger),
		handler.NewClassifierHandler(chatService, zapLogger),
		handler.NewWebSocketHandler(sessionService, chatService, cfg.Chat.TypingDelay, cfg.Server.AllowedOrigins, zapLogger),
		cfg.Server.AllowedOrigins,
		zapLogger,
	)

	go sessionService.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("kalasag listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
