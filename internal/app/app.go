package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"

	"github.com/volleyhub/roster-service/external/rosterapi"
	"github.com/volleyhub/roster-service/internal/config"
	"github.com/volleyhub/roster-service/internal/domain/member"
	"github.com/volleyhub/roster-service/internal/infrastructure/repository/memory"
	"github.com/volleyhub/roster-service/internal/infrastructure/repository/postgres"
	"github.com/volleyhub/roster-service/internal/interfaces/httpapi"
	"github.com/volleyhub/roster-service/internal/observability"
	"github.com/volleyhub/roster-service/internal/platform/logging"
	"github.com/volleyhub/roster-service/internal/platform/resilience"
	"github.com/volleyhub/roster-service/internal/usecase"
)

const metricsNamespace = "roster"

// NewHTTPServer wires the configured store backend into the roster
// service and returns the server plus a cleanup for resources that
// outlive a request (currently the database pool).
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *slog.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = slog.Default()
	}

	repo, cleanup, err := buildRepository(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	roster, err := usecase.NewRosterService(
		repo,
		strategyFromConfig(cfg.RosterStrategy),
		cfg.RosterDefaultPageSize,
		cfg.RosterMaxPageSize,
		logger,
	)
	if err != nil {
		_ = cleanup(ctx)
		return nil, nil, fmt.Errorf("build roster service: %w", err)
	}

	metrics := observability.NewMetrics(metricsNamespace)
	handler := httpapi.NewHandler(roster, metrics, logger)
	router := httpapi.NewRouter(handler, metrics, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		_ = cleanup(ctx)
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	logger.InfoContext(ctx, "roster service wired",
		"backend", cfg.StoreBackend,
		"strategy", cfg.RosterStrategy,
		"addr", cfg.HTTPAddr,
	)

	return server, cleanup, nil
}

func buildRepository(ctx context.Context, cfg config.Config, logger *slog.Logger) (member.Repository, func(context.Context) error, error) {
	noopCleanup := func(context.Context) error { return nil }

	switch cfg.StoreBackend {
	case config.StorePostgres:
		dsn := NormalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
		db, err := otelsqlx.ConnectContext(ctx, "postgres", dsn,
			otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
			otelsql.WithDBName(dbNameFromURL(dsn)),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)

		if cfg.SeedDemoRoster {
			if err := postgres.BootstrapSeed(ctx, db); err != nil {
				_ = db.Close()
				return nil, nil, fmt.Errorf("seed roster: %w", err)
			}
		}

		return postgres.NewMemberRepository(db), func(context.Context) error { return db.Close() }, nil

	case config.StoreAPI:
		client := rosterapi.NewClient(rosterapi.ClientConfig{
			BaseURL: cfg.RosterAPIBaseURL,
			Timeout: cfg.RosterAPITimeout,
			Logger:  logging.Default(),
			CircuitBreaker: resilience.BreakerConfig{
				Enabled:          cfg.RosterAPICircuitEnabled,
				FailureThreshold: cfg.RosterAPICircuitFailureCount,
				OpenTimeout:      cfg.RosterAPICircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.RosterAPICircuitHalfOpenReq,
			},
		})
		return client, noopCleanup, nil

	default:
		var seed []member.Member
		if cfg.SeedDemoRoster {
			seed = memory.SeedMembers()
		}
		logger.InfoContext(ctx, "using in-memory member store", "seeded", cfg.SeedDemoRoster)
		return memory.NewMemberRepository(seed), noopCleanup, nil
	}
}

func strategyFromConfig(strategy string) usecase.Strategy {
	if strategy == config.StrategyFull {
		return usecase.StrategyFullFetch
	}
	return usecase.StrategyServerSide
}
