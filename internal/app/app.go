// Package app wires together all dependencies and runs the storefront API.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Raman-Agnihotri/Green-cart/internal/auth"
	"github.com/Raman-Agnihotri/Green-cart/internal/config"
	"github.com/Raman-Agnihotri/Green-cart/internal/event"
	handler "github.com/Raman-Agnihotri/Green-cart/internal/handler/http"
	"github.com/Raman-Agnihotri/Green-cart/internal/migrations"
	"github.com/Raman-Agnihotri/Green-cart/internal/repository/postgres"
	"github.com/Raman-Agnihotri/Green-cart/internal/service"
	"github.com/Raman-Agnihotri/Green-cart/pkg/database"
	"github.com/Raman-Agnihotri/Green-cart/pkg/health"
	"github.com/Raman-Agnihotri/Green-cart/pkg/httpclient"
	pkgkafka "github.com/Raman-Agnihotri/Green-cart/pkg/kafka"
	"github.com/Raman-Agnihotri/Green-cart/pkg/middleware"
	"github.com/Raman-Agnihotri/Green-cart/pkg/tracing"
)

const serviceName = "greencart-api"

// App wires together all dependencies and runs the storefront API.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	pool        *pgxpool.Pool
	redisClient *redis.Client
	producer    *pkgkafka.Producer
	dlq         *pkgkafka.DLQProducer
	consumer    *pkgkafka.Consumer
	httpServer  *http.Server

	shutdownTracer func(context.Context) error
}

// NewApp creates the application with all dependencies initialized.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shutdownTracer, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTELEndpoint,
		SampleRate:   cfg.OTELSampleRate,
		Enabled:      cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	database.SetSlowQueryLogging(time.Duration(cfg.SlowQueryThresholdMs)*time.Millisecond, logger)

	// PostgreSQL
	pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	database.RegisterPoolMetrics(pool, serviceName)

	// Redis. Used for consumer idempotency; startup proceeds without it.
	redisClient, err := database.NewRedisClient(ctx, cfg.Redis())
	if err != nil {
		logger.Warn("redis unavailable, falling back to in-memory idempotency",
			slog.String("error", err.Error()),
		)
		redisClient = nil
	}

	// Kafka
	var (
		producer *pkgkafka.Producer
		dlq      *pkgkafka.DLQProducer
	)
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		dlq = pkgkafka.NewDLQProducer(cfg.KafkaBrokers, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Repositories
	productRepo := postgres.NewProductRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)
	wishlistRepo := postgres.NewWishlistRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)

	// Webhook forwarding for urgent notifications.
	var webhook service.WebhookSender
	if cfg.WebhookURL != "" {
		client := httpclient.NewCircuitBreakerClient(
			httpclient.New(httpclient.DefaultConfig()),
			httpclient.DefaultCircuitBreakerConfig("notification-webhook"),
			logger,
		)
		webhook = service.NewHTTPWebhookSender(client, cfg.WebhookURL)
	}

	// Services
	aggregator := service.NewAggregator(reviewRepo, productRepo, logger)
	notificationService := service.NewNotificationService(notificationRepo, webhook, logger)

	var reviewEvents service.ReviewEvents
	if producer != nil {
		reviewEvents = event.NewProducer(producer, logger)
	}
	reviewService := service.NewReviewService(reviewRepo, productRepo, aggregator, reviewEvents, logger)
	productService := service.NewProductService(productRepo, logger)
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo, logger)

	// review.created consumer turns events into inbox notifications.
	var consumer *pkgkafka.Consumer
	if cfg.KafkaEnabled {
		var store pkgkafka.IdempotencyStore
		if redisClient != nil {
			store = pkgkafka.NewRedisIdempotencyStore(redisClient, serviceName, 24*time.Hour)
		} else {
			store = pkgkafka.NewMemoryIdempotencyStore(24 * time.Hour)
		}

		reviewHandler := pkgkafka.IdempotentHandler(store, event.ReviewCreatedHandler(notificationService, logger), logger)
		consumer = pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
			Brokers: cfg.KafkaBrokers,
			GroupID: cfg.KafkaConsumerGroup,
			Topic:   event.TopicReviewCreated,
		}, reviewHandler, dlq, logger)
	}

	// Health checks
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if redisClient != nil {
		healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	if producer != nil {
		healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
			return producer.Ping(ctx)
		})
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment

	router := handler.NewRouter(handler.RouterConfig{
		Products:       productService,
		Reviews:        reviewService,
		Wishlists:      wishlistService,
		Notifications:  notificationService,
		Health:         healthHandler,
		TokenValidator: jwtManager.Validate,
		CORS:           corsCfg,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Logger:         logger,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redisClient:    redisClient,
		producer:       producer,
		dlq:            dlq,
		consumer:       consumer,
		httpServer:     httpServer,
		shutdownTracer: shutdownTracer,
	}, nil
}

// Run starts the HTTP server and the Kafka consumer, then blocks until the
// context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	if a.consumer != nil {
		go func() {
			if err := a.consumer.Start(ctx); err != nil {
				a.logger.Error("kafka consumer error", slog.String("error", err.Error()))
			}
		}()
	}

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components: drain HTTP first so in-flight
// mutations finish before the producer and pool go away.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.consumer != nil {
		if err := a.consumer.Close(); err != nil {
			a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}
	if a.dlq != nil {
		if err := a.dlq.Close(); err != nil {
			a.logger.Error("dlq producer close error", slog.String("error", err.Error()))
		}
	}

	if err := a.shutdownTracer(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return nil
}
