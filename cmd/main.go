package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Drivers
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	// Instrumentation
	"github.com/exaring/otelpgx"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	// Internal
	"github.com/swathi-reddy30/pulse-app/config"
	"github.com/swathi-reddy30/pulse-app/internal/adapters/primary/events"
	"github.com/swathi-reddy30/pulse-app/internal/adapters/primary/rest"
	"github.com/swathi-reddy30/pulse-app/internal/adapters/primary/ws"
	"github.com/swathi-reddy30/pulse-app/internal/adapters/secondary/eventbroker"
	"github.com/swathi-reddy30/pulse-app/internal/adapters/secondary/presence"
	"github.com/swathi-reddy30/pulse-app/internal/adapters/secondary/repository"
	"github.com/swathi-reddy30/pulse-app/internal/adapters/secondary/security"
	"github.com/swathi-reddy30/pulse-app/internal/core/services"
)

func main() {
	// 1. Config & Logger
	cfg := config.Load()
	initLogger(cfg)
	slog.Info("🚀 Starting Pulse", "env", cfg.Env, "port", cfg.HTTPPort)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Telemetry (Tracing)
	tp, err := initTracer(ctx, cfg)
	if err != nil {
		slog.Error("Failed to init tracer", "error", err)
	} else {
		defer func() { _ = tp.Shutdown(context.Background()) }()
	}

	// 3. Infrastructure: Postgres
	dbConfig, err := pgxpool.ParseConfig(cfg.DBUrl)
	if err != nil {
		slog.Error("Unable to parse DB config", "error", err)
		os.Exit(1)
	}
	dbConfig.ConnConfig.Tracer = otelpgx.NewTracer()

	dbPool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		slog.Error("Unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()
	if err := repository.EnsureSchema(ctx, dbPool); err != nil {
		slog.Error("Unable to ensure DB schema", "error", err)
		os.Exit(1)
	}
	slog.Info("✅ Connected to Postgres")

	// 4. Infrastructure: Neo4j (social graph)
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jUrl, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
	if err != nil {
		slog.Error("Unable to create Neo4j driver", "error", err)
		os.Exit(1)
	}
	defer driver.Close(ctx)
	graphRepo := repository.NewNeo4jGraphRepo(driver)
	if err := graphRepo.EnsureSchema(ctx); err != nil {
		slog.Error("Unable to ensure graph schema", "error", err)
		os.Exit(1)
	}
	slog.Info("✅ Connected to Neo4j")

	// 5. Infrastructure: Redis (timelines)
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisotel.InstrumentTracing(rdb); err != nil {
		slog.Error("Unable to instrument Redis", "error", err)
		os.Exit(1)
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Unable to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()
	slog.Info("✅ Connected to Redis")

	// 6. Infrastructure: NATS (event mirror + fan-out trigger)
	nc, err := nats.Connect(cfg.NatsUrl)
	if err != nil {
		slog.Error("Unable to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer nc.Close()
	slog.Info("✅ Connected to NATS")

	// 7. Security: argon2id hashing + RS256 tokens
	hasher := security.NewArgon2Hasher(nil)
	tokens, err := loadTokenProvider(cfg)
	if err != nil {
		slog.Error("Unable to init token provider", "error", err)
		os.Exit(1)
	}

	// 8. Driven adapters
	userRepo := repository.NewPostgresUserRepo(dbPool)
	postRepo := repository.NewPostgresPostRepo(dbPool)
	notificationRepo := repository.NewPostgresNotificationRepo(dbPool)
	feedRepo := repository.NewRedisFeedRepo(rdb)
	publisher := eventbroker.NewNatsPublisher(nc)
	registry := presence.NewRegistry()

	// 9. Core services
	notifier := services.NewNotificationService(notificationRepo, registry, publisher)
	identitySvc := services.NewIdentityService(userRepo, hasher, tokens)
	postSvc := services.NewPostService(postRepo, notifier, publisher)
	graphSvc := services.NewGraphService(graphRepo, userRepo, notifier)
	feedSvc := services.NewFeedService(feedRepo, graphRepo)

	// 10. Driving adapters: NATS consumer (async) + REST/WS (sync)
	eventHandler := events.NewEventHandler(feedSvc)
	if err := eventHandler.Subscribe(nc); err != nil {
		slog.Error("Failed to subscribe to NATS", "error", err)
		os.Exit(1)
	}
	slog.Info("👂 Listening for events (NATS)")

	restServer := rest.NewServer(identitySvc, postSvc, graphSvc, notifier, feedSvc)
	wsHandler := ws.NewHandler(identitySvc, registry, cfg.CorsOrigins)

	mux := restServer.Routes()
	mux.Handle("GET /ws", wsHandler)

	// Middleware chain: CORS then OTEL at the root.
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	var handler http.Handler = c.Handler(mux)
	handler = otelhttp.NewHandler(handler, "pulse-http")

	// 11. Start & graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: handler,
	}

	go func() {
		slog.Info("📡 Pulse listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("🛑 Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("👋 Server exited")
}

// --- HELPERS ---

func loadTokenProvider(cfg config.Config) (*security.JWTProvider, error) {
	if cfg.JWTPrivateKeyFile != "" && cfg.JWTPublicKeyFile != "" {
		privPEM, err := os.ReadFile(cfg.JWTPrivateKeyFile)
		if err != nil {
			return nil, err
		}
		pubPEM, err := os.ReadFile(cfg.JWTPublicKeyFile)
		if err != nil {
			return nil, err
		}
		return security.NewJWTProvider(privPEM, pubPEM)
	}

	slog.Warn("⚠️ No JWT key files configured, generating an ephemeral dev pair")
	privPEM, pubPEM, err := security.GenerateDevKeyPair()
	if err != nil {
		return nil, err
	}
	return security.NewJWTProvider(privPEM, pubPEM)
}

func initLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.Env == "local" {
		opts.Level = slog.LevelDebug
	}
	var handler slog.Handler
	if cfg.Env == "local" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func initTracer(ctx context.Context, cfg config.Config) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OtelEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, _ := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String("pulse"),
			semconv.DeploymentEnvironmentKey.String(cfg.Env),
		),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp, nil
}
