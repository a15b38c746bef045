package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/crisis-data-etl/internal/cli"
)

func main() {
	// Load .env if present so local runs pick up Reddit credentials (non-fatal if missing).
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		slog.Error("crisisetl failed", "error", err)
		os.Exit(1)
	}
}
