package serp

import (
	"net/url"
	"testing"

	"github.com/Davis1233798/proxy-demos-go/internal/model"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		engine  string
		useJSON bool
		want    string
	}{
		{"google", false, "https://www.google.com/search?q=web+scraping+tutorial&gl=us&hl=en"},
		{"Google", true, "https://www.google.com/search?q=web+scraping+tutorial&gl=us&hl=en&brd_json=1"},
		{"bing", false, "https://www.bing.com/search?q=web+scraping+tutorial"},
		{"duckduckgo", true, "https://duckduckgo.com/?q=web+scraping+tutorial&brd_json=1"},
	}
	for _, tt := range tests {
		got, err := BuildURL("web scraping tutorial", tt.engine, "us", "en", tt.useJSON)
		if err != nil {
			t.Fatalf("%s: %v", tt.engine, err)
		}
		if got != tt.want {
			t.Errorf("%s json=%v: got %q, want %q", tt.engine, tt.useJSON, got, tt.want)
		}
	}
}

func TestBuildURLEscapesQuery(t *testing.T) {
	for _, query := range []string{"tom & jerry", "c++ tutorial", "a=b?c#d", "naïve 100%"} {
		raw, err := BuildURL(query, "bing", "", "", true)
		if err != nil {
			t.Fatalf("%q: %v", query, err)
		}
		u, err := url.Parse(raw)
		if err != nil {
			t.Fatalf("%q: %v", query, err)
		}
		if got := u.Query().Get("q"); got != query {
			t.Errorf("query %q came back as %q from %s", query, got, raw)
		}
		if u.Query().Get("brd_json") != "1" {
			t.Errorf("brd_json lost in %s", raw)
		}
	}
}

func TestBuildURLUnknownEngine(t *testing.T) {
	if _, err := BuildURL("q", "altavista", "us", "en", false); !model.IsConfigError(err) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestArtifactPrefix(t *testing.T) {
	if got := ArtifactPrefix("Bing"); got != "serp_bing" {
		t.Errorf("got %q", got)
	}
}
