package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"resume-diagnosis/internal/bootstrap"
	"resume-diagnosis/internal/shared/config"
	"resume-diagnosis/internal/shared/server"
	"resume-diagnosis/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if app.DB != nil {
		if err := db.RunMigrations(ctx, app.DB); err != nil {
			log.Fatalf("run migrations: %v", err)
		}
	}

	// Expired documents are destroyed in-process; the worker runs the same
	// sweeper, and ClaimExpired keeps the two from double-destroying.
	go app.Sweeper.Run(ctx)

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
