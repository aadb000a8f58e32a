package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sachins-devloper/work-tracking/internal/auth"
	"github.com/sachins-devloper/work-tracking/internal/config"
	"github.com/sachins-devloper/work-tracking/internal/httpapi"
	"github.com/sachins-devloper/work-tracking/internal/obs"
	"github.com/sachins-devloper/work-tracking/internal/store/pg"
	"github.com/sachins-devloper/work-tracking/internal/tracker"
)

var (
	version = "1.0.0"
	commit  = "none" // set via -ldflags at build time
)

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	store, err := pg.Open(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	if err := store.ApplyMigrations(); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	tokens, err := auth.NewService(cfg.AuthSecret, auth.WithTokenTTL(cfg.TokenTTL))
	if err != nil {
		log.Fatalf("auth: %v", err)
	}

	svc := tracker.NewService(store, tokens)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := svc.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		cancel()
		log.Fatalf("ensure admin: %v", err)
	}
	cancel()

	api := httpapi.New(svc, tokens, httpapi.ReadyProbe{DB: store.DB()}, version, cfg.Environment)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting work-tracking %s on %s", version, srv.Addr)

	// graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	_ = store.Close()
	log.Println("Stopped")
}
