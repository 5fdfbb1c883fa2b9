package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	specpkg "github.com/scrimnight/scrimnight/api"
	"github.com/scrimnight/scrimnight/internal/api"
	"github.com/scrimnight/scrimnight/internal/api/handler"
	"github.com/scrimnight/scrimnight/internal/auth"
	"github.com/scrimnight/scrimnight/internal/config"
	"github.com/scrimnight/scrimnight/internal/live"
	"github.com/scrimnight/scrimnight/internal/match"
	"github.com/scrimnight/scrimnight/internal/member"
	"github.com/scrimnight/scrimnight/internal/metrics"
	"github.com/scrimnight/scrimnight/internal/rating"
	"github.com/scrimnight/scrimnight/internal/store"
)

const (
	connectTimeout  = 5 * time.Second
	shutdownTimeout = 15 * time.Second
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			setupLogger(cfg.LogLevel)
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scores, err := member.NewScoreTable(cfg.TierScores, cfg.UnrankedScore)
	if err != nil {
		return fmt.Errorf("building score table: %w", err)
	}

	var (
		members member.Repository
		matches match.Repository
		pinger  handler.DBPinger
	)
	switch cfg.Store {
	case config.StorePostgres:
		pool, err := store.Connect(ctx, cfg.DatabaseURL, connectTimeout)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()

		if cfg.AutoMigrate {
			if err := store.Migrate(ctx, pool); err != nil {
				return fmt.Errorf("migrating database: %w", err)
			}
		}
		members = member.NewRepository(pool)
		matches = match.NewRepository(pool)
		pinger = pool
	default:
		slog.Warn("using in-memory store; data is lost on restart")
		memMembers := member.NewMemoryRepository()
		members = memMembers
		matches = match.NewMemoryRepository(memMembers)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.New(reg)

	hub := live.NewHub(cfg.CORSOrigins)
	svc := match.NewService(matches, members,
		match.WithObserver(recorder),
		match.WithObserver(hub),
	)

	g, gctx := errgroup.WithContext(ctx)

	var lookup handler.ProfileLookup
	if cfg.RiotAPIKey != "" {
		riot := rating.NewClient(cfg.RiotAPIKey, cfg.RiotAccountBaseURL, cfg.RiotLeagueBaseURL)
		lookup = riot
		if cfg.RatingRefreshInterval > 0 {
			interval := time.Duration(cfg.RatingRefreshInterval) * time.Minute
			refresher := rating.NewRefresher(members, riot, interval, cfg.RatingConcurrency, recorder)
			g.Go(func() error {
				refresher.Start(gctx)
				return nil
			})
		}
	} else {
		slog.Warn("RIOT_API_KEY not set; member tiers must be supplied on registration")
		if cfg.RatingRefreshInterval > 0 {
			slog.Warn("rating refresh disabled without RIOT_API_KEY")
		}
	}

	authService := auth.NewService(cfg.OrganizerKeyHash)
	if !authService.Enabled() {
		slog.Warn("ORGANIZER_KEY_HASH not set; write endpoints are open to everyone")
	}

	router := api.NewRouter(api.RouterDeps{
		DBPinger:        pinger,
		Version:         cfg.Version,
		OpenAPISpec:     specpkg.OpenAPISpec,
		CORSOrigins:     cfg.CORSOrigins,
		Members:         members,
		Matches:         svc,
		Scores:          scores,
		Lookup:          lookup,
		Auth:            authService,
		BalanceObserver: recorder,
		Metrics:         promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Live:            hub.ServeWS,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		slog.Info("starting scrimnight server", "port", cfg.Port, "version", cfg.Version, "store", cfg.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped gracefully")
	return nil
}
