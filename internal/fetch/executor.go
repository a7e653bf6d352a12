// Package fetch performs single fetch attempts through a proxy or the vendor API.
package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Davis1233798/proxy-demos-go/internal/logger"
	"github.com/Davis1233798/proxy-demos-go/internal/model"
	"github.com/Davis1233798/proxy-demos-go/internal/request"
)

// Executor sends one Spec per call. It never retries; the caller's context
// bounds each attempt.
type Executor struct {
	spec   *request.Spec
	client *http.Client
	log    zerolog.Logger
}

// New builds an executor whose client routes according to ep.
func New(spec *request.Spec, ep model.Endpoint, insecureTLS bool) *Executor {
	log := logger.WithComponent("fetch")
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if ep.Kind == model.EndpointProxy {
		transport.Proxy = http.ProxyURL(ep.ProxyURL())
		if insecureTLS {
			log.Warn().Str("proxy", ep.Host).Msg("TLS certificate verification disabled for proxied requests")
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
	}

	return &Executor{
		spec:   spec,
		client: &http.Client{Transport: transport},
		log:    log,
	}
}

// Fetch performs exactly one attempt and classifies it.
func (e *Executor) Fetch(ctx context.Context, attempt int) model.Outcome {
	start := time.Now()

	req, err := e.spec.NewHTTPRequest()
	if err != nil {
		return model.Failure(attempt, model.StatusUnknown, model.ClassTransport, err.Error())
	}
	req = req.WithContext(ctx)

	resp, err := e.client.Do(req)
	if err != nil {
		e.log.Debug().Int("attempt", attempt).Err(err).Dur("duration", time.Since(start)).Msg("request failed")
		return model.Failure(attempt, model.StatusUnknown, model.ClassTransport, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	e.log.Debug().Int("attempt", attempt).Int("status", resp.StatusCode).Dur("duration", time.Since(start)).Msg("response received")

	status := model.StatusCode(resp.StatusCode)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.Failure(attempt, status, model.ClassHTTPStatus, fmt.Sprintf("unexpected status: %s", resp.Status))
	}
	if err != nil {
		return model.Failure(attempt, status, model.ClassTransport, fmt.Sprintf("reading body: %v", err))
	}
	return model.Success(attempt, resp.StatusCode, body)
}
