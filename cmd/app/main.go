package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderflow/cmd"
	"orderflow/internal/pkg/tracing"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs := getConfigs()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: configs.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, configs.ServiceName, configs.OtelEndpoint)
	if err != nil {
		log.Fatalf("tracing: %v", err)
	}

	app, err := cmd.NewCompositionRoot(ctx, configs, logger)
	if err != nil {
		log.Fatalf("composition root: %v", err)
	}

	jobManager, err := app.NewJobManager()
	if err != nil {
		log.Fatalf("jobs: %v", err)
	}
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("jobs: %v", err)
	}

	e, err := app.NewRouter()
	if err != nil {
		log.Fatalf("router: %v", err)
	}
	startWebServer(ctx, e, configs.HTTPPort, logger)

	jobManager.StopAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := errors.Join(app.Close(), shutdownTracing(shutdownCtx)); err != nil {
		logger.Error("shutdown incomplete", "error", err)
	}
}

func getConfigs() cmd.Config {
	// A missing .env is fine; the environment may already hold everything.
	_ = godotenv.Load(".env")

	config := cmd.Config{
		HTTPPort:               envOr("HTTP_PORT", "8080"),
		LogLevel:               envOr("LOG_LEVEL", "info"),
		LedgerDriver:           envOr("LEDGER_DRIVER", cmd.LedgerPostgres),
		DBURL:                  os.Getenv("DB_URL"),
		DBHost:                 os.Getenv("DB_HOST"),
		DBPort:                 os.Getenv("DB_PORT"),
		DBUser:                 os.Getenv("DB_USER"),
		DBPassword:             os.Getenv("DB_PASSWORD"),
		DBName:                 os.Getenv("DB_NAME"),
		DBSslMode:              os.Getenv("DB_SSLMODE"),
		OrchestratorDriver:     envOr("ORCHESTRATOR_DRIVER", cmd.OrchestratorLocal),
		RestateIngressURL:      os.Getenv("RESTATE_INGRESS_URL"),
		CallbackTTL:            durationVariable("CALLBACK_TTL", 48*time.Hour),
		SettlementSchedule:     os.Getenv("SETTLEMENT_SCHEDULE"),
		SettlementGrace:        durationVariable("SETTLEMENT_GRACE", time.Minute),
		ExpirySchedule:         os.Getenv("EXPIRY_SCHEDULE"),
		KafkaHost:              os.Getenv("KAFKA_HOST"),
		KafkaOrderChangedTopic: os.Getenv("KAFKA_ORDER_CHANGED_TOPIC"),
		OtelEndpoint:           os.Getenv("OTEL_ENDPOINT"),
		ServiceName:            envOr("SERVICE_NAME", "orderflow"),
		AuthStaticTokens:       os.Getenv("AUTH_STATIC_TOKENS"),
	}
	return config
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationVariable(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("%s: %v", key, err)
	}
	return d
}

func startWebServer(ctx context.Context, e *echo.Echo, port string, logger *slog.Logger) {
	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", "error", err)
	}
}
