package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lumihealth/lumivault/internal/config"
	"github.com/lumihealth/lumivault/internal/export"
	"github.com/lumihealth/lumivault/internal/llm"
	"github.com/lumihealth/lumivault/internal/llm/openai"
	"github.com/lumihealth/lumivault/internal/pipeline"
	"github.com/lumihealth/lumivault/internal/repository"
	"github.com/lumihealth/lumivault/internal/review"
	"github.com/lumihealth/lumivault/internal/server"
	"github.com/lumihealth/lumivault/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.DatabaseURL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBConnLifetime,
		MaxConnIdleTime: cfg.DBConnIdleTime,
		DialTimeout:     cfg.DBDialTimeout,
	}, logger)
	if err != nil {
		logger.Error("database connect failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := repository.HealthCheck(ctx, pool, cfg.DBHealthTimeout); err != nil {
		logger.Error("database health check failed", "error", err)
		os.Exit(1)
	}
	logger.Info("database health ok")

	health := repository.NewHealthRecordRepository(pool, logger)
	dental := repository.NewDentalRecordRepository(pool, logger)
	vision := repository.NewVisionRecordRepository(pool, logger)
	immunizations := repository.NewImmunizationRecordRepository(pool, logger)
	medications := repository.NewMedicationRepository(pool, logger)
	reminders := repository.NewReminderRepository(pool, logger)
	family := repository.NewFamilyMemberRepository(pool, logger)

	blobs := storage.NewClient(storage.Config{
		ProjectID:  cfg.SupabaseProjectID,
		APIKey:     cfg.SupabaseAPIKey,
		Bucket:     cfg.StorageBucket,
		BaseURL:    cfg.StorageBaseURL,
		MaxRetries: cfg.UploadMaxRetries,
		RetryDelay: cfg.UploadRetryDelay,
	}, logger)

	// A missing OpenAI key is not fatal: uploads fail with a configuration
	// error while the rest of the API keeps serving.
	var chat llm.ChatClient
	chat, err = openai.NewClient(openai.Config{
		BaseURL:     cfg.OpenAIBaseURL,
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.OpenAIModel,
		Temperature: cfg.OpenAITemperature,
		Timeout:     cfg.OpenAITimeout,
	}, logger)
	if err != nil {
		logger.Warn("model provider not configured, uploads will be rejected", "error", err)
		chat = llm.Unconfigured{}
	}

	extractor := llm.NewService(chat, logger)
	reviewStore := review.NewStore(cfg.ReviewTTL)
	persister := repository.NewPersister(health, dental, vision, immunizations, medications, logger)
	processor := pipeline.NewProcessor(logger, extractor, blobs, reviewStore, persister)
	exporter := export.NewService(health, dental, vision, immunizations, medications, logger)

	svc := server.New(server.Deps{
		Logger:        logger,
		Processor:     processor,
		Storage:       blobs,
		Exporter:      exporter,
		Health:        health,
		Dental:        dental,
		Vision:        vision,
		Immunizations: immunizations,
		Medications:   medications,
		Reminders:     reminders,
		Family:        family,
	})

	// Expired pending uploads are swept in the background; their blobs stay
	// in the bucket like cancelled ones do.
	go sweepLoop(ctx, logger, reviewStore, cfg.ReviewTTL)

	go func() {
		logger.Info("http server starting", "port", cfg.ServerPort)
		if err := svc.Start(cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := svc.Stop(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	logger.Info("stopped")
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.IsDev() {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func sweepLoop(ctx context.Context, logger *slog.Logger, store *review.Store, ttl time.Duration) {
	interval := ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := store.Sweep(now); n > 0 {
				logger.Info("review.sweep", "expired", n)
			}
		}
	}
}
