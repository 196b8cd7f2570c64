// Package server exposes the analyzer over HTTP: archive upload and
// analysis, run history backed by the store, rendered reports, and a
// websocket event feed.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/archlens/archlens/internal/enrich"
	"github.com/archlens/archlens/internal/scanner"
	"github.com/archlens/archlens/internal/store"
)

// Config holds server configuration.
type Config struct {
	Port     int
	WorkDir  string // scratch directory for uploaded archives
	AllowAll bool   // allow all CORS origins (dev mode)
	Scan     scanner.Config
}

// Server serves the analysis API.
type Server struct {
	cfg        Config
	store      *store.Store
	enricher   enrich.Provider
	events     *eventHub
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. The enricher may be nil; analyses then use the
// templated descriptions only.
func New(cfg Config, st *store.Store, enricher enrich.Provider) *Server {
	s := &Server{
		cfg:      cfg,
		store:    st,
		enricher: enricher,
		events:   newEventHub(),
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/api/analyze", s.handleAnalyze)
	r.Get("/api/runs", s.handleListRuns)
	r.Get("/api/runs/{id}", s.handleGetRun)
	r.Get("/api/runs/{id}/report", s.handleRunReport)
	r.Get("/api/events", s.events.handleWebSocket)

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("archlens server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
