package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/resourcehub/backend/internal/config"
	"github.com/resourcehub/backend/internal/logger"
	"github.com/resourcehub/backend/internal/tasks"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Resource Hub Worker")

	// Create Asynq server
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Queues: map[string]int{
				tasks.QueueImmediate: 5,
				"default":            1,
			},
		},
	)

	// Create worker instance
	worker := NewWorker(
		logger.Logger,
		NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From),
	)

	// Register task handlers
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeResourceSubmitted, worker.HandleResourceSubmitted)
	mux.HandleFunc(tasks.TypeResourceModerated, worker.HandleResourceModerated)
	mux.HandleFunc(tasks.TypeContactMessage, worker.HandleContactMessage)

	// Start worker
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Logger.Fatal("Failed to start worker", zap.Error(err))
		}
	}()

	logger.Logger.Info("Worker started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down worker...")
	srv.Shutdown()
	logger.Logger.Info("Worker exited")
}
