package model

import (
	"time"

	"github.com/Davis1233798/proxy-demos-go/pkg/fingerprint"
)

// DispatchConfig is built once before a dispatch and shared read-only by
// every attempt.
type DispatchConfig struct {
	TargetURL string
	Attempts  int
	Endpoint  Endpoint

	Headers    []fingerprint.Header
	Cookies    []fingerprint.Cookie
	UseHeaders bool
	UseCookies bool

	Timeout time.Duration

	OutputDir      string
	ArtifactPrefix string
	FormatJSON     bool

	// InsecureTLS skips certificate verification on the proxy path.
	InsecureTLS bool
}

func (c DispatchConfig) Validate() error {
	if c.Attempts < 1 {
		return NewConfigError(ReasonInvalidAttempts)
	}
	if c.Timeout <= 0 {
		return NewConfigError(ReasonInvalidTimeout)
	}
	if c.OutputDir == "" {
		return NewConfigError(ReasonOutputDir)
	}
	return nil
}
