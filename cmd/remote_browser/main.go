package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/Davis1233798/proxy-demos-go/internal/app"
	"github.com/Davis1233798/proxy-demos-go/internal/browser"
	"github.com/Davis1233798/proxy-demos-go/internal/config"
	"github.com/Davis1233798/proxy-demos-go/internal/logger"
	"github.com/Davis1233798/proxy-demos-go/internal/proxy"
	"github.com/Davis1233798/proxy-demos-go/internal/report"
)

func main() {
	profilePath := flag.String("config", config.DefaultProfilePath, "Path to the demo profile file")
	flag.Parse()

	logger.Init(os.Getenv("LOG_LEVEL"))
	cfg, err := config.Load(*profilePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	// .env may have set LOG_LEVEL.
	logger.Init(cfg.Env.LogLevel)

	p := cfg.RemoteBrowser()
	printer := report.NewPrinter(os.Stdout)
	printer.Banner("Scraping Browser Demo",
		report.Field{Name: "Target", Value: p.TargetURL},
		report.Field{Name: "Country", Value: p.Country},
		report.Field{Name: "Output", Value: p.OutputDir},
	)

	wsURL, err := proxy.BrowserWSURL(p.Credentials)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	mgr := browser.NewManager(true)
	if err := mgr.Initialize(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start browser driver")
	}
	defer mgr.Shutdown()

	session, err := mgr.ConnectRemote(wsURL)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to remote browser")
		return
	}
	defer session.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := app.CaptureRemote(ctx, session, p, printer); err != nil {
		log.Error().Err(err).Msg("Capture failed")
	}
}
