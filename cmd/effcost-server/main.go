package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"effcost/app"
	"effcost/internal/config"
	"effcost/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger := cfg.Logger()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := ui.NewServer(app.NewReportService(app.NewCalculator(), logger), cfg, logger)
	if err := server.Run(ctx, ":"+cfg.Server.Port, cfg.Server.ShutdownTimeout); err != nil {
		logger.Error("server failed: %v", err)
		os.Exit(1)
	}
}
