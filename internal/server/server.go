// Package server exposes the HTTP API: auth, league and referee profiles,
// games and assignments, ratings and notes, and the AI endpoints.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/refnexus/refnexus/internal/auth"
	"github.com/refnexus/refnexus/internal/config"
	"github.com/refnexus/refnexus/internal/ingest"
	"github.com/refnexus/refnexus/internal/match"
	"github.com/refnexus/refnexus/internal/model"
	"github.com/refnexus/refnexus/internal/referee"
	"github.com/refnexus/refnexus/internal/store"
)

// Server wires the services behind the HTTP API.
type Server struct {
	store  store.Store
	auth   *auth.Manager
	ingest *ingest.Service
	match  *match.Engine
	refs   *referee.Service
	cfg    config.ServerConfig
}

func New(st store.Store, authMgr *auth.Manager, ingestSvc *ingest.Service, engine *match.Engine, refs *referee.Service, cfg config.ServerConfig) *Server {
	return &Server{
		store:  st,
		auth:   authMgr,
		ingest: ingestSvc,
		match:  engine,
		refs:   refs,
		cfg:    cfg,
	}
}

// Router builds the chi router with the full middleware stack and routes.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)

	// Authenticated API
	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Route("/refs", func(r chi.Router) {
			r.Get("/", s.handleListRefs)
			r.With(requireRole(model.RoleReferee)).Get("/me", s.handleGetMyProfile)
			r.With(requireRole(model.RoleReferee)).Put("/me", s.handleUpdateMyProfile)
			r.Route("/{refID}", func(r chi.Router) {
				r.Get("/", s.handleGetRef)
				r.Get("/stats", s.handleRefStats)
				r.Get("/ratings", s.handleListRatings)
				r.With(requireRole(model.RoleLeague)).Post("/ratings", s.handleCreateRating)
				r.With(requireRole(model.RoleLeague)).Get("/notes", s.handleListNotes)
				r.With(requireRole(model.RoleLeague)).Post("/notes", s.handleCreateNote)
			})
		})

		r.Route("/games", func(r chi.Router) {
			r.Use(requireRole(model.RoleLeague))
			r.Get("/", s.handleListGames)
			r.Post("/", s.handleCreateGame)
			r.Route("/{gameID}", func(r chi.Router) {
				r.Get("/", s.handleGetGame)
				r.Patch("/", s.handleUpdateGame)
				r.Get("/assignments", s.handleListGameAssignments)
				r.Post("/assignments", s.handleCreateAssignment)
			})
		})

		r.Route("/assignments", func(r chi.Router) {
			r.With(requireRole(model.RoleReferee)).Get("/", s.handleMyAssignments)
			r.With(requireRole(model.RoleReferee)).Post("/{assignmentID}/respond", s.handleRespondAssignment)
		})

		r.Route("/ai", func(r chi.Router) {
			r.Use(requireRole(model.RoleLeague))
			if s.cfg.AIRatePerMin > 0 {
				r.Use(aiRateLimit(s.cfg.AIRatePerMin))
			}
			r.Post("/find-ref", s.handleFindRef)
			r.Post("/ingest", s.handleIngest)
		})
	})

	return r
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	zap.L().Info("starting server", zap.Int("port", s.cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server: listen")
	}
	return nil
}
