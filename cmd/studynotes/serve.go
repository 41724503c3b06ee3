package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kitbuilder587/studynotes/internal/auth"
	"github.com/kitbuilder587/studynotes/internal/catalog"
	"github.com/kitbuilder587/studynotes/internal/config"
	"github.com/kitbuilder587/studynotes/internal/httpapi"
	"github.com/kitbuilder587/studynotes/internal/metrics"
	"github.com/kitbuilder587/studynotes/internal/ratelimit"
	"github.com/kitbuilder587/studynotes/internal/relevance"
	"github.com/kitbuilder587/studynotes/internal/repository/postgres"
	"github.com/kitbuilder587/studynotes/internal/search"
	"github.com/kitbuilder587/studynotes/internal/service"
	"github.com/kitbuilder587/studynotes/internal/telegram"
)

func newServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and, when configured, the Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger, err := config.NewLogger(cfg.Log)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, migrate, logger)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the schema before serving")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, migrate bool, logger *zap.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewWithRegistry(reg)

	db, err := postgres.Connect(ctx, cfg.Database.URL, postgres.Options{
		MaxConns: cfg.Database.MaxConns,
		Retries:  cfg.Database.ConnectRetries,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if migrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return err
	}

	noteRepo := postgres.NewNoteRepo(db)
	userRepo := postgres.NewUserRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)
	historyRepo := postgres.NewHistoryRepo(db)

	table := relevance.DefaultTable()
	sources := []search.Source{
		search.NewCourseSource(cat, table),
		search.NewToolSource(cat, table),
		search.NewNoteSource(noteRepo, table, search.NoteSourceConfig{FetchLimit: cfg.Search.NoteFetchLimit}, logger),
		search.NewUserSource(userRepo, table, search.UserSourceConfig{FetchLimit: cfg.Search.UserFetchLimit}, logger),
	}
	aggregator := search.NewAggregator(sources, search.AggregatorConfig{SourceTimeout: cfg.Timeouts.Source}, logger, m)

	searchService := service.NewSearchService(service.SearchServiceDeps{
		Aggregator: aggregator,
		Suggester:  search.NewSuggester(nil),
		Logger:     logger,
		Metrics:    m,
		Config:     service.SearchConfig{TotalTimeout: cfg.Timeouts.Total},
	})
	historyService := service.NewHistoryService(historyRepo, service.HistoryConfig{MaxEntries: cfg.History.MaxEntries}, logger, m)
	userService := service.NewUserService(userRepo, logger)

	resolver := auth.NewResolver(sessionRepo, userRepo, auth.Config{CacheTTL: cfg.Session.CacheTTL}, logger, m)
	defer resolver.Close()

	proxies, err := httpapi.ParseTrustedProxies(cfg.HTTP.TrustedProxies)
	if err != nil {
		return fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}

	limiter := ratelimit.New(ratelimit.Config{RequestsPerMinute: cfg.RateLimit.RequestsPerMinute})
	defer limiter.Stop()

	server := httpapi.NewServer(httpapi.Deps{
		Search:         searchService,
		History:        historyService,
		Sessions:       resolver,
		Limiter:        limiter,
		TrustedProxies: proxies,
		DB:             db,
		MetricsHandler: metrics.HandlerFor(reg),
		Metrics:        m,
		Logger:         logger,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe(gctx, cfg.HTTP.Addr, cfg.HTTP.ShutdownTimeout)
	})

	if cfg.Telegram.Enabled() {
		bot, err := telegram.New(telegram.BotConfig{
			Token:             cfg.Telegram.Token,
			Debug:             cfg.Log.Level == "debug",
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
			BaseURL:           cfg.Telegram.BaseURL,
		}, telegram.Services{
			Users:   userService,
			Search:  searchService,
			History: historyService,
		}, logger, m)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return bot.Run(gctx)
		})
	} else {
		logger.Info("TELEGRAM_BOT_TOKEN not set, telegram bot disabled")
	}

	logger.Info("studynotes started",
		zap.String("http_addr", cfg.HTTP.Addr),
		zap.Int("catalog_courses", len(cat.Courses())),
		zap.Int("catalog_tools", len(cat.Tools())),
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("studynotes stopped")
	return nil
}
