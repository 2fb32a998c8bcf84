package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ai-creative-studio/studio-backend/config"
	"github.com/ai-creative-studio/studio-backend/internal/bootstrap"
	"github.com/ai-creative-studio/studio-backend/internal/generation"
	"github.com/ai-creative-studio/studio-backend/internal/janitor"
)

const serviceName = "studio-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.OpenStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer store.Close()
	log.Printf("[info] operation=startup storage_backend=%s", cfg.Storage.Backend)

	sweeper := janitor.New(store, cfg.App.SweepSchedule)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("janitor: %v", err)
	}
	defer sweeper.Stop()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:   serviceName,
		Version:       cfg.App.Version,
		Store:         store,
		Generation:    generation.New(),
		GenerateRPS:   cfg.App.GenerateRPS,
		GenerateBurst: cfg.App.GenerateBurst,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("[info] operation=startup listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("[info] operation=shutdown draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[warn] operation=shutdown error=%v", err)
	}
}
