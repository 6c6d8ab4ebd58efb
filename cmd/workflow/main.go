// Command workflow serves the durable OrderWorkflow to a Restate runtime. The HTTP API in
// cmd/app talks to it through the Restate ingress when ORCHESTRATOR_DRIVER=restate.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"orderflow/internal/adapters/out/restateflow"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	restate "github.com/restatedev/sdk-go"
	"github.com/restatedev/sdk-go/server"
)

func main() {
	_ = godotenv.Load(".env")

	addr := os.Getenv("WORKFLOW_LISTEN_ADDR")
	if addr == "" {
		addr = "0.0.0.0:9080"
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("serving order workflow", "workflow", restateflow.WorkflowName, "addr", addr)
	if err := server.NewRestate().
		Bind(restate.Reflect(restateflow.OrderWorkflow{})).
		Start(ctx, addr); err != nil && ctx.Err() == nil {
		log.Fatalf("restate server: %v", err)
	}
}
