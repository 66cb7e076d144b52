package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"MovieCatalog/internal/catalog"
	"MovieCatalog/internal/config"
	"MovieCatalog/pkg/kit"
)

func main() {
	service := "catalog"

	cfg, err := config.Load()
	if err != nil {
		log := kit.NewLogger(service, "info")
		log.Fatal("load config failed", zap.Error(err))
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, report := catalog.Load(ctx, catalogSource(cfg), log)

	s := &catalog.Server{
		Engine:        catalog.NewEngine(store, log),
		Report:        report,
		Log:           log,
		SearchLimiter: kit.RateLimitByIP(cfg.RateLimitRequests, cfg.RateLimitWindow),
	}
	if src := reviewSource(cfg); src != nil {
		s.Reviews, s.ReviewsReport = catalog.LoadReviews(ctx, src, log)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})

	if err := kit.RunHTTPServer(ctx, cfg.Addr(), h, cfg.ShutdownTimeout, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

// catalogSource picks Postgres when configured, then a JSON file, then the
// bundled dataset.
func catalogSource(cfg *config.Config) catalog.Source {
	switch {
	case cfg.DatabaseURL != "":
		return catalog.NewPostgresDSNSource(cfg.DatabaseURL)
	case cfg.DataPath != "":
		return catalog.NewJSONFileSource(cfg.DataPath)
	default:
		return catalog.NewBundledSource()
	}
}

// reviewSource follows the catalog source. A custom JSON catalog gets no
// reviews unless a reviews file is configured next to it.
func reviewSource(cfg *config.Config) catalog.ReviewSource {
	switch {
	case cfg.DatabaseURL != "":
		return catalog.NewPostgresDSNSource(cfg.DatabaseURL)
	case cfg.ReviewsPath != "":
		return catalog.NewJSONFileSource(cfg.ReviewsPath)
	case cfg.DataPath != "":
		return nil
	default:
		return catalog.NewBundledReviewSource()
	}
}
