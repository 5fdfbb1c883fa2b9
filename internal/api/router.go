package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/scrimnight/scrimnight/internal/api/handler"
	"github.com/scrimnight/scrimnight/internal/api/middleware"
	"github.com/scrimnight/scrimnight/internal/auth"
	"github.com/scrimnight/scrimnight/internal/member"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	DBPinger    handler.DBPinger
	Version     string
	OpenAPISpec []byte
	CORSOrigins []string

	Members member.Repository
	Matches handler.MatchService
	Scores  member.ScoreTable
	Lookup  handler.ProfileLookup
	Auth    *auth.Service

	BalanceObserver handler.BalanceObserver
	Metrics         http.Handler
	Live            http.HandlerFunc
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-API-Key", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	if len(deps.OpenAPISpec) > 0 {
		openapiHandler := handler.NewOpenAPIHandler(deps.OpenAPISpec)
		r.Get("/openapi.json", openapiHandler.ServeHTTP)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/openapi.json")))
	}

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	if deps.Live != nil {
		r.Get("/ws", deps.Live)
	}

	if deps.Members == nil || deps.Matches == nil || deps.Auth == nil {
		return r
	}

	requireOrganizer := middleware.RequireOrganizer(deps.Auth)

	memberHandler := handler.NewMemberHandler(deps.Members, deps.Matches, deps.Scores, deps.Lookup)
	r.Route("/members", func(r chi.Router) {
		r.Get("/", memberHandler.List)
		r.Get("/{id}", memberHandler.GetByID)
		r.With(requireOrganizer).Post("/", memberHandler.Create)
	})

	balanceHandler := handler.NewBalanceHandler(deps.Members, deps.Scores, deps.BalanceObserver)
	r.Post("/team-balance", balanceHandler.ServeHTTP)

	matchHandler := handler.NewMatchHandler(deps.Matches)
	r.Route("/matches", func(r chi.Router) {
		r.Get("/", matchHandler.List)
		r.Get("/{id}", matchHandler.GetByID)
		r.With(requireOrganizer).Post("/", matchHandler.Create)
		r.With(requireOrganizer).Post("/{id}/result", matchHandler.Resolve)
	})

	return r
}
