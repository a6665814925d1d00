package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"formdesk/internal/audit"
	"formdesk/internal/enrich"
	"formdesk/internal/forms"
	formmetrics "formdesk/internal/forms/metrics"
	"formdesk/internal/jwttoken"
	"formdesk/internal/platform/config"
	"formdesk/internal/platform/httpserver"
	"formdesk/internal/platform/logger"
	platformmetrics "formdesk/internal/platform/metrics"
	platformredis "formdesk/internal/platform/redis"
	"formdesk/internal/registry"
	"formdesk/internal/replay"
	replaymetrics "formdesk/internal/replay/metrics"
	"formdesk/internal/response"
	responsemetrics "formdesk/internal/response/metrics"
	httptransport "formdesk/internal/transport/http"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(slog.LevelInfo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	formStore, responseStore, closeDB, err := buildStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeDB()

	rdb, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	var sink *audit.KafkaSink
	if len(cfg.KafkaBrokers) > 0 {
		sink, err = audit.NewKafkaSink(ctx, cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			return err
		}
		defer sink.Close()
	}

	publisher := audit.NewPublisher(log, 256)
	auditStore := audit.NewInMemoryStore()
	worker := audit.NewWorker(auditStore, sink, publisher.Inbox(), log)

	fm := formmetrics.New()
	formsSvc := forms.NewService(formStore,
		forms.WithAuditPublisher(publisher),
		forms.WithMetrics(fm),
	)
	registrySvc := registry.NewService(formStore,
		registry.WithAuditPublisher(publisher),
		registry.WithMetrics(fm),
	)
	responsesSvc := response.NewService(responseStore, formStore, enrich.NewEngine(),
		response.WithAuditPublisher(publisher),
		response.WithMetrics(responsemetrics.New()),
	)

	var replayCache *replay.Cache
	if rdb != nil {
		replayCache = replay.NewCache(rdb.Client, cfg.ReplayCacheTTL)
	}
	replaySvc := replay.NewService(replay.NewBuilder(), log,
		replay.WithCache(replayCache),
		replay.WithAuditPublisher(publisher),
		replay.WithMetrics(replaymetrics.New()),
	)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Logger:    log,
		Metrics:   platformmetrics.New(),
		Verifier:  jwttoken.NewService(cfg.JWTSigningKey),
		Forms:     httptransport.NewFormsHandler(log, formsSvc, registrySvc),
		Responses: httptransport.NewResponsesHandler(log, responsesSvc, replaySvc),
	})
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return worker.Run(gctx)
	})
	g.Go(func() error {
		log.Info("listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// buildStores picks Postgres when a DSN is configured, in-memory otherwise.
// The in-memory fallback keeps local development dependency-free.
func buildStores(ctx context.Context, cfg config.Server, log *slog.Logger) (forms.Store, response.Store, func(), error) {
	if cfg.PostgresDSN == "" {
		log.Info("no postgres DSN configured, using in-memory stores")
		return forms.NewInMemoryStore(), response.NewInMemoryStore(), func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, nil, err
	}

	formStore := forms.NewPostgresStore(db)
	responseStore := response.NewPostgresStore(db)
	if err := formStore.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, nil, err
	}
	if err := responseStore.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, nil, err
	}
	return formStore, responseStore, func() { _ = db.Close() }, nil
}
