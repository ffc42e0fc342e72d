package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pigmemento/internal/cases"
	"pigmemento/internal/config"
	"pigmemento/internal/httpx"
	"pigmemento/internal/inference"
	"pigmemento/internal/platform/database"
	"pigmemento/internal/waitlist"
)

func main() {
	config.LoadEnvFiles()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("cannot open database: %v", err)
	}
	defer dbPool.Close()

	catalogue, err := loadCatalogue(cfg.CasesFile)
	if err != nil {
		log.Fatalf("cannot load case catalogue: %v", err)
	}

	caseService := cases.NewService(cases.NewMemoryRepo(catalogue))
	waitlistService := waitlist.NewService(waitlist.NewPostgresRepo(dbPool, cfg.DBQueryTimeout))

	var waitlistLimiter *httpx.RateLimitMiddleware
	if cfg.WaitlistRateRPS > 0 {
		waitlistLimiter = httpx.NewRateLimitMiddleware(cfg.WaitlistRateRPS, cfg.WaitlistRateBurst, cfg.TrustedProxies...)
		defer waitlistLimiter.Close()
	}

	router := newRouter(cfg, handlers{
		cases:     cases.NewHTTPHandler(caseService),
		inference: inference.NewHTTPHandler(inference.NewClassifier(inference.WithMaxPixels(cfg.MaxImagePixels))),
		waitlist:  waitlist.NewHTTPHandler(waitlistService),
	}, dbPool, waitlistLimiter)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s cases=%d", cfg.Addr, len(catalogue))
		serverErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	case <-ctx.Done():
		log.Println("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}

func loadCatalogue(path string) ([]cases.Case, error) {
	if path == "" {
		return cases.DefaultCatalogue()
	}
	log.Printf("loading case catalogue path=%s", path)
	return cases.ReadCatalogue(path)
}
