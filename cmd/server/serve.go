package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"contacts_api/internal/cache"
	"contacts_api/internal/config"
	"contacts_api/internal/handler"
	"contacts_api/internal/logger"
	"contacts_api/internal/mail"
	"contacts_api/internal/middleware"
	"contacts_api/internal/repository"
	"contacts_api/internal/service"
	"contacts_api/internal/storage"
	"contacts_api/internal/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  `Connect to PostgreSQL, Redis, S3 and SMTP, apply migrations and serve the API until interrupted.`,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Server.Environment); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	if err := config.Migrate(ctx, dbPool); err != nil {
		return err
	}

	// --- External services ---
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	s3Client, err := storage.NewS3Client(ctx, storage.S3Config{
		Region:       cfg.S3.Region,
		Bucket:       cfg.S3.Bucket,
		AccessKey:    cfg.S3.AccessKey,
		SecretKey:    cfg.S3.SecretKey,
		BaseEndpoint: cfg.S3.Endpoint,
	})
	if err != nil {
		return err
	}

	dispatcher := mail.NewDispatcher(
		mail.NewRenderer(cfg.Server.BaseURL),
		mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			FromName: cfg.SMTP.FromName,
		}),
		cfg.SMTP.Workers,
		cfg.SMTP.QueueSize,
	)
	dispatcher.Start()
	defer dispatcher.Stop()

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	mail.RegisterMetrics(registry)
	middleware.RegisterMetrics(registry)

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL, cfg.JWT.EmailTTL)

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	contactRepo := repository.NewContactRepository(dbPool)
	resetTokenRepo := repository.NewResetTokenRepository(dbPool)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, resetTokenRepo, jwtUtil, dispatcher, service.AuthConfig{
		ResetTokenTTL:     cfg.Auth.ResetTokenTTL,
		InitialAdminEmail: cfg.Auth.InitialAdminEmail,
	})
	contactService := service.NewContactService(contactRepo)
	userService := service.NewUserService(
		userRepo,
		cache.NewUserCache(redisClient, cfg.Redis.UserTTL),
		storage.NewS3AvatarStore(s3Client, cfg.S3.Bucket, publicBucketURL(cfg.S3)),
	)

	router := newRouter(ctx, cfg, routerDeps{
		auth:     handler.NewAuthHandler(authService),
		contacts: handler.NewContactHandler(contactService),
		users:    handler.NewUserHandler(userService),
		health:   handler.NewHealthHandler(dbPool),
		authMW:   middleware.JWTAuthMiddleware(jwtUtil, userService),
		registry: registry,
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// --- Graceful Shutdown ---
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server exiting")
	return nil
}

// publicBucketURL falls back to the path style bucket URL when no CDN URL is configured
func publicBucketURL(cfg config.S3Config) string {
	if cfg.PublicURL != "" {
		return cfg.PublicURL
	}
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

