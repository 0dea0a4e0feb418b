package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blockwork/engine/internal/queue/tasks"
	"github.com/blockwork/engine/internal/repository"
	"github.com/blockwork/engine/pkg/config"
	"github.com/blockwork/engine/pkg/database"
	"github.com/blockwork/engine/pkg/logger"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.MustLoad()
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if !cfg.QueueEnabled() {
		log.Warn("LEGACY_SYNC_MODE is not queue; the api writes legacy columns inline and this worker will stay idle")
	}

	if err := pingRedis(context.Background(), cfg.RedisAddr, cfg.RedisPassword); err != nil {
		log.Fatal("redis connection failed", zap.Error(err))
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		},
		asynq.Config{
			Concurrency: cfg.AsynqConcurrency,
		},
	)

	ctx := context.Background()
	db, err := database.Open(ctx, database.Options{Driver: cfg.DatabaseDriver, DSN: cfg.DatabaseURL})
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}

	handler := tasks.NewLegacySyncHandler(repository.NewTaskRepository(db))
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeLegacyTaskSync, handler.HandleLegacySync)

	errCh := make(chan error, 1)
	go func() {
		log.Info("asynq worker starting", zap.Int("concurrency", cfg.AsynqConcurrency))
		if err := srv.Run(mux); err != nil {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("worker stopped with error", zap.Error(err))
	}

	srv.Shutdown()
}

// pingRedis fails fast when the queue backend is unreachable.
func pingRedis(ctx context.Context, addr, password string) error {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return rdb.Ping(ctx).Err()
}
