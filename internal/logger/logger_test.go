package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"
)

func TestInitWriterConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	InitWriter("", &buf)
	defer Init("info")

	log.Debug().Msg("hidden at info")
	log.Info().Str("path", "demos.ini").Msg("profile loaded")

	out := buf.String()
	if strings.Contains(out, "hidden at info") {
		t.Errorf("debug line written at default level:\n%s", out)
	}
	if !strings.Contains(out, "profile loaded") || strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("expected console output, got:\n%s", out)
	}
}

func TestInitWriterLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWriter("WARN", &buf)
	defer Init("info")

	l := WithComponent("dispatch")
	l.Info().Msg("started")
	l.Warn().Msg("slow attempt")

	out := buf.String()
	if strings.Contains(out, "started") || !strings.Contains(out, "slow attempt") {
		t.Errorf("level not applied:\n%s", out)
	}
	if !strings.Contains(out, "dispatch") {
		t.Errorf("component field missing:\n%s", out)
	}
}
