package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/Davis1233798/proxy-demos-go/internal/app"
	"github.com/Davis1233798/proxy-demos-go/internal/config"
	"github.com/Davis1233798/proxy-demos-go/internal/logger"
	"github.com/Davis1233798/proxy-demos-go/internal/metrics"
	"github.com/Davis1233798/proxy-demos-go/internal/notify"
	"github.com/Davis1233798/proxy-demos-go/internal/report"
)

func main() {
	profilePath := flag.String("config", config.DefaultProfilePath, "Path to the demo profile file")
	query := flag.String("query", "", "Override the search query")
	flag.Parse()

	logger.Init(os.Getenv("LOG_LEVEL"))
	cfg, err := config.Load(*profilePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	// .env may have set LOG_LEVEL.
	logger.Init(cfg.Env.LogLevel)
	metrics.StartMetricsServer(cfg.Env.MetricsPort)

	p := cfg.SerpAPI()
	if *query != "" {
		p.Query = *query
	}
	dc, err := app.SerpConfig(p)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	printer := report.NewPrinter(os.Stdout)
	printer.Banner("SERP API Demo", app.SerpBanner(p, dc)...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := &app.Runner{Printer: printer, Notifier: notify.NewDiscord(cfg.Env.DiscordWebhookURL)}
	if _, err := runner.Dispatch(ctx, dc); err != nil {
		log.Fatal().Err(err).Msg("Dispatch aborted")
	}
}
