package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/tackboard/tack/pkg/account"
	"github.com/tackboard/tack/pkg/api"
	"github.com/tackboard/tack/pkg/auth"
	"github.com/tackboard/tack/pkg/blob"
	"github.com/tackboard/tack/pkg/boards"
	"github.com/tackboard/tack/pkg/config"
	"github.com/tackboard/tack/pkg/invite"
	"github.com/tackboard/tack/pkg/mail"
	"github.com/tackboard/tack/pkg/middleware"
	"github.com/tackboard/tack/pkg/observability"
	"github.com/tackboard/tack/pkg/sso"
	"github.com/tackboard/tack/pkg/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("configuration error: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	logger.Infof("Starting Tack API on %s:%s", cfg.Server.Host, cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Tracing
	otelProviders, err := observability.InitOTel(ctx, observability.OTelConfig{
		Enabled:        cfg.Observability.OTelEnabled,
		Endpoint:       cfg.Observability.OTelEndpoint,
		ServiceName:    cfg.Observability.OTelServiceName,
		ServiceVersion: cfg.Observability.OTelServiceVersion,
		Insecure:       cfg.Observability.OTelInsecure,
	}, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize OpenTelemetry")
		os.Exit(1)
	}

	// Database
	db, err := sql.Open("postgres", cfg.Database.PostgresURL)
	if err != nil {
		logger.WithError(err).Error("Failed to open database")
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.PostgresMaxConns)

	if err := db.PingContext(ctx); err != nil {
		logger.WithError(err).Error("Failed to ping database")
		os.Exit(1)
	}
	if err := storage.RunMigrations(ctx, db); err != nil {
		logger.WithError(err).Error("Failed to run migrations")
		os.Exit(1)
	}
	store := storage.NewSQLStore(db)

	// Redis is optional: without it rate limiting is disabled and health
	// checks skip it
	var redisClient *redis.Client
	if cfg.Database.RedisURL != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Database.RedisURL,
			Password: cfg.Database.RedisPassword,
			DB:       cfg.Database.RedisDB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("Redis unreachable, rate limiting disabled")
			redisClient = nil
		}
		defer func() {
			if redisClient != nil {
				redisClient.Close()
			}
		}()
	}

	// Metrics
	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(nil)
		metrics.CollectDBStats(db)
	}

	// Object storage for card attachments
	uploader, err := blob.NewS3Client(ctx, blob.Config{
		Endpoint:      cfg.Blob.Endpoint,
		Region:        cfg.Blob.Region,
		Bucket:        cfg.Blob.Bucket,
		AccessKey:     cfg.Blob.AccessKey,
		SecretKey:     cfg.Blob.SecretKey,
		UsePathStyle:  cfg.Blob.UsePathStyle,
		PublicBaseURL: cfg.Blob.PublicBaseURL,
	})
	if err != nil {
		logger.WithError(err).Error("Failed to initialize object storage")
		os.Exit(1)
	}

	mailer := mail.NewSMTPMailer(cfg.Mail)
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	sessionSigner := auth.NewSessionSigner(cfg.Auth.AccessSecret, cfg.Auth.RefreshSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	inviteSigner := auth.NewInviteSigner(cfg.Auth.InviteSecret, cfg.Auth.InviteTTL)

	accounts := account.NewService(store, mailer, sessionSigner, hasher, cfg.Server.BaseURL, logger, metrics)
	boardSvc := boards.NewService(store, uploader, logger)
	invites := invite.NewService(store, mailer, inviteSigner, hasher, cfg.Server.BaseURL, logger, metrics)

	authMW := middleware.NewAuthMiddleware(sessionSigner, store)
	var limiter *middleware.RateLimiter
	if redisClient != nil {
		limiter = middleware.NewRateLimiter(redisClient, middleware.DefaultRateLimitConfig(), logger)
	}

	var oidcProvider *sso.Provider
	if cfg.SSO.IssuerURL != "" {
		oidcProvider, err = sso.NewProvider(ctx, sso.Config{
			IssuerURL:    cfg.SSO.IssuerURL,
			ClientID:     cfg.SSO.ClientID,
			ClientSecret: cfg.SSO.ClientSecret,
			RedirectURL:  cfg.SSO.RedirectURL,
		}, store, sessionSigner, logger)
		if err != nil {
			logger.WithError(err).Error("Failed to initialize OIDC provider")
			os.Exit(1)
		}
		logger.Infof("OIDC sign-in enabled via %s", cfg.SSO.IssuerURL)
	}

	server := api.NewServer(api.Deps{
		Accounts: accounts,
		Boards:   boardSvc,
		Invites:  invites,
		Auth:     authMW,
		Limiter:  limiter,
		OIDC:     oidcProvider,
		Logger:   logger,
		Metrics:  metrics,
	})

	// Health and metrics on a separate port so probes bypass auth and
	// rate limiting
	healthChecker := observability.NewHealthChecker(db, redisClient)
	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", healthChecker.Liveness)
	healthMux.HandleFunc("/readyz", healthChecker.Readiness)
	if metrics != nil {
		healthMux.Handle("/metrics", metrics.Handler())
	}

	apiServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	healthServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthMux,
	}

	// Scheduled purge of expired invitation delivery records
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Maintenance.PurgeSchedule, func() {
		cutoff := time.Now().Add(-cfg.Maintenance.DeliveryRetention)
		purged, err := store.PurgeDeliveries(context.Background(), cutoff)
		if err != nil {
			logger.WithError(err).Error("Delivery purge failed")
			return
		}
		if metrics != nil {
			metrics.DeliveryRecordsPurged.Add(float64(purged))
		}
		logger.Infof("Purged %d delivery records older than %s", purged, cutoff.Format(time.RFC3339))
	})
	if err != nil {
		logger.WithError(err).Error("Invalid purge schedule")
		os.Exit(1)
	}
	scheduler.Start()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("API listening on %s", apiServer.Addr)
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.Infof("Health/metrics listening on %s", healthServer.Addr)
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		scheduler.Stop()
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("API shutdown did not complete cleanly")
		}
		if err := healthServer.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("Health server shutdown did not complete cleanly")
		}
		if otelProviders != nil {
			if err := otelProviders.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Warn("Tracer shutdown did not complete cleanly")
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("Server failed")
		os.Exit(1)
	}
	logger.Info("Shutdown complete")
}
