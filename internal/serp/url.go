// Package serp builds search-engine result URLs for the SERP API demo.
package serp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Davis1233798/proxy-demos-go/internal/model"
)

// BuildURL returns the results URL for query on engine (google, bing or
// duckduckgo). country and language only apply to google. useJSON asks the
// vendor to return parsed JSON instead of raw HTML.
func BuildURL(query, engine, country, language string, useJSON bool) (string, error) {
	q := url.QueryEscape(query)
	jsonParam := ""
	if useJSON {
		jsonParam = "&brd_json=1"
	}

	switch strings.ToLower(engine) {
	case "google":
		return fmt.Sprintf("https://www.google.com/search?q=%s&gl=%s&hl=%s%s", q, country, language, jsonParam), nil
	case "bing":
		return fmt.Sprintf("https://www.bing.com/search?q=%s%s", q, jsonParam), nil
	case "duckduckgo":
		return fmt.Sprintf("https://duckduckgo.com/?q=%s%s", q, jsonParam), nil
	default:
		return "", &model.ConfigError{Reason: model.ReasonUnknownEngine, Err: fmt.Errorf("%q", engine)}
	}
}

// ArtifactPrefix is serp_{engine}.
func ArtifactPrefix(engine string) string {
	return "serp_" + strings.ToLower(engine)
}
