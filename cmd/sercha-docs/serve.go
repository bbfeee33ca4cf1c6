package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-docs/internal/adapters/driven/auth"
	"github.com/custodia-labs/sercha-docs/internal/adapters/driven/database"
	"github.com/custodia-labs/sercha-docs/internal/adapters/driven/markdown"
	"github.com/custodia-labs/sercha-docs/internal/adapters/driven/minio"
	redisadapter "github.com/custodia-labs/sercha-docs/internal/adapters/driven/redis"
	"github.com/custodia-labs/sercha-docs/internal/adapters/driving/http"
	"github.com/custodia-labs/sercha-docs/internal/config"
	"github.com/custodia-labs/sercha-docs/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-docs/internal/core/services"
	"github.com/custodia-labs/sercha-docs/internal/metrics"
)

func NewServeCmd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Runs the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger)
		},
	}

	parent.AddCommand(cmd)
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("sercha-docs starting", "version", version, "commit", commit)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	// ===== Database =====
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := connectDatabase(connectCtx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.InitSchema(connectCtx); err != nil {
		return err
	}
	logger.Info("database ready", "type", db.Type())

	// ===== Redis (optional) =====
	var (
		lock  driven.DistributedLock
		cache driven.RenderCache
	)
	if cfg.Redis.Enabled() {
		client, err := redisadapter.Connect(connectCtx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer client.Close()

		lock = redisadapter.NewLock(client)
		cache = redisadapter.NewRenderCache(client)
		logger.Info("redis connected, using redis lock and render cache")
	} else {
		lock = database.NewLock(db)
		logger.Info("redis not configured, using database lock without render cache")
	}

	// ===== Attachments (optional) =====
	var attachments driven.AttachmentStore
	if cfg.MinIO.Enabled() {
		store, err := minio.New(connectCtx, minio.Config{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			UseSSL:    cfg.MinIO.UseSSL,
			Bucket:    cfg.MinIO.Bucket,
			PublicURL: cfg.MinIO.PublicURL,
		})
		if err != nil {
			return err
		}
		attachments = store
		logger.Info("attachment storage ready", "bucket", cfg.MinIO.Bucket)
	} else {
		logger.Warn("MINIO_ENDPOINT not set, attachment uploads are disabled")
	}

	// ===== Stores =====
	documentStore := database.NewDocumentStore(db)
	sectionStore := database.NewSectionStore(db)
	revisionStore := database.NewRevisionStore(db)

	// ===== Services =====
	authService := services.NewAuthService(auth.NewAdapter(cfg.JWT.Secret, cfg.JWT.Issuer), cfg.JWT.TokenTTL)
	docService := services.NewDocumentService(services.DocumentServiceConfig{
		Documents: documentStore,
		Sections:  sectionStore,
		Revisions: revisionStore,
		Tx:        db,
		Lock:      lock,
		Logger:    logger,
		LockTTL:   cfg.Lock.TTL,
		LockWait:  cfg.Lock.Wait,
	})
	renderService := services.NewRenderService(services.RenderServiceConfig{
		Documents: docService,
		Renderer:  markdown.NewRenderer(),
		Cache:     cache,
		CacheTTL:  cfg.RenderCache.TTL,
		Logger:    logger,
	})
	attachmentService := services.NewAttachmentService(services.AttachmentServiceConfig{
		Documents: documentStore,
		Store:     attachments,
		MaxBytes:  cfg.Attachments.MaxBytes,
		Logger:    logger,
	})

	// ===== HTTP =====
	server := http.NewServer(http.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
		MaxUploadBytes: cfg.Attachments.MaxBytes,
		Logger:         logger,
	}, authService, docService, renderService, attachmentService, db, lock)

	return server.Start(ctx)
}
