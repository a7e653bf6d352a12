// Package app wires demo profiles into a dispatch: credentials are resolved,
// the request is built once, and the dispatcher fans it out.
package app

import (
	"context"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/Davis1233798/proxy-demos-go/internal/config"
	"github.com/Davis1233798/proxy-demos-go/internal/dispatch"
	"github.com/Davis1233798/proxy-demos-go/internal/fetch"
	"github.com/Davis1233798/proxy-demos-go/internal/model"
	"github.com/Davis1233798/proxy-demos-go/internal/notify"
	"github.com/Davis1233798/proxy-demos-go/internal/proxy"
	"github.com/Davis1233798/proxy-demos-go/internal/report"
	"github.com/Davis1233798/proxy-demos-go/internal/request"
	"github.com/Davis1233798/proxy-demos-go/internal/serp"
	"github.com/Davis1233798/proxy-demos-go/pkg/fingerprint"
)

// Runner executes one dispatch and reports it.
type Runner struct {
	Printer  *report.Printer
	Notifier *notify.Discord
}

// Dispatch builds the request for cfg, runs every attempt and prints the
// summary. Only a ConfigError is returned; attempt failures live in the
// summary and the artifacts.
func (r *Runner) Dispatch(ctx context.Context, cfg model.DispatchConfig) (model.Summary, error) {
	spec, err := request.Build(cfg)
	if err != nil {
		return model.Summary{}, err
	}

	var opts []dispatch.Option
	if r.Printer != nil {
		opts = append(opts, dispatch.WithReporter(r.Printer))
	}
	d, err := dispatch.New(cfg, fetch.New(spec, cfg.Endpoint, cfg.InsecureTLS), opts...)
	if err != nil {
		return model.Summary{}, err
	}

	summary, err := d.Run(ctx)
	if err != nil {
		return summary, err
	}

	if r.Printer != nil {
		r.Printer.Summary(summary)
	}
	if err := r.Notifier.Send(ctx, report.SummaryLine(summary)); err != nil {
		log.Warn().Err(err).Msg("Failed to send Discord summary")
	}
	return summary, nil
}

// SimpleRequestConfig routes the simple_request profile through the proxy.
func SimpleRequestConfig(p config.SimpleRequest) (model.DispatchConfig, error) {
	ep, err := proxy.ResolveProxy(p.Credentials)
	if err != nil {
		return model.DispatchConfig{}, err
	}
	return model.DispatchConfig{
		TargetURL:      p.TargetURL,
		Attempts:       p.Requests,
		Endpoint:       ep,
		Headers:        fingerprint.Chrome141.Headers,
		Cookies:        p.Cookies,
		UseHeaders:     p.UseHeaders,
		UseCookies:     p.UseCookies,
		Timeout:        p.Timeout,
		OutputDir:      p.OutputDir,
		ArtifactPrefix: hostname(p.TargetURL),
		InsecureTLS:    p.InsecureTLS,
	}, nil
}

// UnlockerConfig routes the unlocker profile through the proxy without
// browser headers.
func UnlockerConfig(p config.Unlocker) (model.DispatchConfig, error) {
	ep, err := proxy.ResolveProxy(p.Credentials)
	if err != nil {
		return model.DispatchConfig{}, err
	}
	return model.DispatchConfig{
		TargetURL:      p.TargetURL,
		Attempts:       p.Requests,
		Endpoint:       ep,
		Timeout:        p.Timeout,
		OutputDir:      p.OutputDir,
		ArtifactPrefix: hostname(p.TargetURL),
		InsecureTLS:    p.InsecureTLS,
	}, nil
}

// SerpConfig sends the search URL through the request API.
func SerpConfig(p config.SerpAPI) (model.DispatchConfig, error) {
	ep, err := proxy.ResolveAPI(p.Token, p.Zone)
	if err != nil {
		return model.DispatchConfig{}, err
	}
	target, err := serp.BuildURL(p.Query, p.Engine, p.Country, p.Language, p.UseJSON)
	if err != nil {
		return model.DispatchConfig{}, err
	}
	return model.DispatchConfig{
		TargetURL:      target,
		Attempts:       p.Requests,
		Endpoint:       ep,
		Timeout:        p.Timeout,
		OutputDir:      p.OutputDir,
		ArtifactPrefix: serp.ArtifactPrefix(p.Engine),
		FormatJSON:     p.UseJSON,
	}, nil
}

// SerpBanner lists the run settings the SERP demo prints, including the
// final search URL.
func SerpBanner(p config.SerpAPI, cfg model.DispatchConfig) []report.Field {
	return []report.Field{
		{Name: "Query", Value: p.Query},
		{Name: "Engine", Value: p.Engine},
		{Name: "Country", Value: p.Country},
		{Name: "Language", Value: p.Language},
		{Name: "JSON", Value: report.Toggle(p.UseJSON)},
		{Name: "Requests", Value: strconv.Itoa(p.Requests)},
		{Name: "URL", Value: cfg.TargetURL},
	}
}

func hostname(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
