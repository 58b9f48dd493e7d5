// Command offchain-mock serves the reference off-chain backend with an in-memory store.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"votedesk/internal/offchain/backend"
	"votedesk/internal/platform/config"
	"votedesk/internal/platform/logger"
	"votedesk/pkg/domain"
)

func main() {
	cfg := config.BackendFromEnv()
	log := logger.New(false)

	admin, err := domain.ParseAddress(cfg.AdminAddress)
	if err != nil {
		log.Error("OFFCHAIN_ADMIN_ADDRESS is required", "error", err)
		os.Exit(1)
	}

	store := backend.NewStore()
	if err := backend.SeedVoters(context.Background(), store, cfg.SeedVoters); err != nil {
		log.Error("seeding voters failed", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	h, err := backend.New(store, admin, backend.WithLogger(log), backend.WithRegistry(reg))
	if err != nil {
		log.Error("building handler failed", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("starting offchain backend",
		"addr", cfg.Addr,
		"admin", admin.Short(),
		"seed_voters", cfg.SeedVoters,
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
