package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	_ "github.com/lib/pq"
	openai "github.com/sashabaranov/go-openai"

	"bloodhelp-bot/internal/config"
	"bloodhelp-bot/internal/core"
	"bloodhelp-bot/internal/db"
	httpserver "bloodhelp-bot/internal/http"
	"bloodhelp-bot/internal/llm"
	"bloodhelp-bot/internal/observability/metrics"
	"bloodhelp-bot/internal/session"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL must be set")
	}
	if cfg.OpenAIKey == "" {
		log.Fatal("OPENAI_API_KEY must be set")
	}

	dbConn, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbConn.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}
	if err := db.Migrate(context.Background(), dbConn); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	repo := db.NewRepository(dbConn)

	store := newSessionStore(cfg, logger)
	intakeMetrics := metrics.NewIntakeMetrics(nil)

	extractor := llm.NewExtractor(openai.NewClient(cfg.OpenAIKey), cfg.PreferredModel, logger)
	dispatcher := core.NewDispatcher(repo, logger, intakeMetrics, cfg.DBTimeout)
	engine := core.NewEngine(store, extractor, dispatcher, logger, intakeMetrics, cfg.AITimeout)

	srv := httpserver.NewServer(engine, logger)
	addr := ":" + cfg.Port
	logger.Info("listening", "addr", addr, "session_backend", cfg.SessionBackend, "model", cfg.PreferredModel)
	if err := http.ListenAndServe(addr, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func newSessionStore(cfg *config.Config, logger *slog.Logger) session.Store {
	if cfg.SessionBackend != "redis" {
		return session.NewMemoryStore()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to ping redis: %v", err)
	}
	logger.Info("using redis session store", "addr", cfg.RedisAddr)
	return session.NewRedisStore(client, cfg.SessionTTL)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
