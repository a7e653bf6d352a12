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

	p := cfg.BrowserProxy()
	printer := report.NewPrinter(os.Stdout)
	printer.Banner("Browser Proxy Demo",
		report.Field{Name: "Target", Value: p.TargetURL},
		report.Field{Name: "Zone", Value: p.ZoneLabel()},
		report.Field{Name: "Headers", Value: report.Toggle(p.UseHeaders)},
		report.Field{Name: "Cookies", Value: report.Toggle(p.UseCookies)},
		report.Field{Name: "Block requests", Value: report.Toggle(p.BlockRequests)},
	)

	opts, err := app.BrowserLaunchOptions(p)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	mgr := browser.NewManager(p.Headless)
	if err := mgr.Initialize(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start browser driver")
	}
	defer mgr.Shutdown()

	session, err := mgr.Launch(opts)
	if err != nil {
		log.Error().Err(err).Msg("Failed to launch browser")
		return
	}
	defer session.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := app.CaptureScreenshot(ctx, session, p, printer); err != nil {
		log.Error().Err(err).Msg("Capture failed")
	}
}
