package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"uocsclub.net/aocboard/internal/board"
	"uocsclub.net/aocboard/internal/cache"
	"uocsclub.net/aocboard/internal/config"
	"uocsclub.net/aocboard/internal/fetcher"
	"uocsclub.net/aocboard/internal/leaderboard"
	"uocsclub.net/aocboard/internal/logger"
	"uocsclub.net/aocboard/internal/web"
)

func main() {
	configPath := ""
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Setup(os.Stdout, "aocboard", cfg.Log.Level, cfg.Log.Color)

	formatter, err := leaderboard.NewFormatter(cfg.AOC.Timezone)
	if err != nil {
		slog.Warn("Unknown timezone, using US Eastern", slog.String("timezone", cfg.AOC.Timezone))
		formatter = leaderboard.DefaultFormatter()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	clock := clockwork.NewRealClock()
	client := fetcher.New(fetcher.AOCFetcherConfig{
		BaseURL:   cfg.AOC.BaseURL,
		UserAgent: cfg.AOC.UserAgent,
	})
	service := board.NewService(client, cache.New(clock), registry)

	s, err := gocron.NewScheduler(gocron.WithClock(clock))
	if err != nil {
		slog.Error("Failed to start scheduler", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.Featured.Enabled() {
		_, err = s.NewJob(
			gocron.DurationJob(cache.TTL),
			gocron.NewTask(refreshFeatured, service, cfg.Featured),
			gocron.WithStartAt(gocron.WithStartImmediately()), // durationjob doesn't run on startup
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			slog.Error("Failed to schedule featured leaderboard", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	s.Start()
	defer s.Shutdown()

	server := web.NewServer(web.ServerConfig{
		Port:      cfg.Server.Port,
		SessionDB: cfg.Server.SessionDB,
		Featured:  cfg.Featured,
	}, web.Deps{
		Board:     service,
		Fetcher:   client,
		Formatter: formatter,
		Clock:     clock,
		Registry:  registry,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Shutting down")
		server.Shutdown()
	}()

	slog.Info("Started!", slog.Int("port", cfg.Server.Port))
	if err := server.Listen(); err != nil {
		slog.Error("Server stopped", slog.String("error", err.Error()))
	}
}

func refreshFeatured(service *board.Service, featured config.FeaturedConfig) {
	_, err := service.Refresh(context.Background(), board.Credentials{
		Year:            featured.Year,
		LeaderboardCode: featured.LeaderboardId,
		SessionToken:    featured.SessionCookie,
	})
	if err != nil {
		slog.Warn("Failed to refresh featured leaderboard", slog.String("error", err.Error()))
	}
}
