package main

import (
	"context"
	"log/slog"
	"os"

	"appraise/internal/app/server"
	"appraise/internal/platform/config"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()
	app, err := server.New(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", "err", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}
