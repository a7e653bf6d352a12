// Package request turns a DispatchConfig into the exact request every
// attempt sends.
package request

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/Davis1233798/proxy-demos-go/internal/model"
	"github.com/Davis1233798/proxy-demos-go/pkg/fingerprint"
)

// Spec is immutable once built. Attempts must call NewHTTPRequest rather
// than share a *http.Request.
type Spec struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// apiBody is the vendor API envelope; field order is wire order.
type apiBody struct {
	Zone   string `json:"zone"`
	URL    string `json:"url"`
	Format string `json:"format"`
}

// Build assembles the Spec for cfg. It only fails on a malformed target URL.
func Build(cfg model.DispatchConfig) (*Spec, error) {
	if !validTarget(cfg.TargetURL) {
		return nil, model.NewConfigError(model.ReasonInvalidTargetURL)
	}

	h := make(http.Header)
	if cfg.UseHeaders {
		for _, kv := range cfg.Headers {
			h.Set(kv.Name, kv.Value)
		}
	}
	if cfg.UseCookies && len(cfg.Cookies) > 0 {
		h.Set("Cookie", fingerprint.CookieHeader(cfg.Cookies))
	}

	if cfg.Endpoint.Kind != model.EndpointAPI {
		return &Spec{Method: http.MethodGet, URL: cfg.TargetURL, Header: h}, nil
	}

	body, err := json.Marshal(apiBody{Zone: cfg.Endpoint.Zone, URL: cfg.TargetURL, Format: "raw"})
	if err != nil {
		return nil, err
	}
	h.Set("Authorization", "Bearer "+cfg.Endpoint.Token)
	h.Set("Content-Type", "application/json")
	return &Spec{Method: http.MethodPost, URL: cfg.Endpoint.APIURL, Header: h, Body: body}, nil
}

func validTarget(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// NewHTTPRequest returns a fresh request carrying a copy of the Spec's headers.
func (s *Spec) NewHTTPRequest() (*http.Request, error) {
	var body io.Reader
	if s.Body != nil {
		body = bytes.NewReader(s.Body)
	}
	req, err := http.NewRequest(s.Method, s.URL, body)
	if err != nil {
		return nil, err
	}
	req.Header = s.Header.Clone()
	return req, nil
}
