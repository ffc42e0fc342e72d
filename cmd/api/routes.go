package main

import (
	"context"
	"net/http"
	"time"

	"pigmemento/internal/cases"
	"pigmemento/internal/config"
	"pigmemento/internal/httpx"
	"pigmemento/internal/inference"
	"pigmemento/internal/waitlist"
)

const (
	serviceName  = "pigmemento-api"
	readyTimeout = 500 * time.Millisecond
)

// pinger is satisfied by *pgxpool.Pool.
type pinger interface {
	Ping(ctx context.Context) error
}

type handlers struct {
	cases     *cases.HTTPHandler
	inference *inference.HTTPHandler
	waitlist  *waitlist.HTTPHandler
}

type healthResp struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
}

// newRouter wires every route behind the global middleware chain. A nil
// waitlistLimiter leaves the waitlist routes unthrottled.
func newRouter(cfg config.Config, h handlers, db pinger, waitlistLimiter *httpx.RateLimitMiddleware) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONSuccess(w, healthResp{OK: true, Service: serviceName})
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			httpx.JSONError(w, r, http.StatusServiceUnavailable, "NOT_READY", "Database not ready", nil)
			return
		}
		httpx.JSONSuccess(w, httpx.StatusResponse{OK: true})
	})

	router.HandleFunc("GET /cases", h.cases.List)
	router.HandleFunc("GET /cases/{id}", h.cases.Get)
	router.Handle("POST /cases/{id}/answer", httpx.RequestSizeLimitMiddleware(cfg.MaxJSONBytes)(http.HandlerFunc(h.cases.Answer)))

	uploadLimit := httpx.RequestSizeLimitMiddleware(cfg.MaxUploadBytes)
	router.Handle("POST /infer", uploadLimit(http.HandlerFunc(h.inference.Infer)))

	waitlistMiddleware := []func(http.Handler) http.Handler{httpx.RequestSizeLimitMiddleware(cfg.MaxJSONBytes)}
	if waitlistLimiter != nil {
		waitlistMiddleware = append([]func(http.Handler) http.Handler{waitlistLimiter.Middleware}, waitlistMiddleware...)
	}
	router.Handle("POST /waitlist", httpx.Chain(http.HandlerFunc(h.waitlist.Join), waitlistMiddleware...))
	router.Handle("POST /waitlist/check", httpx.Chain(http.HandlerFunc(h.waitlist.Check), waitlistMiddleware...))

	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		httpx.SecurityHeadersMiddleware,
		httpx.CORSMiddleware(cfg.AllowedOrigins),
	)
}
