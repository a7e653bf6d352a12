package model

import "errors"

// ConfigError aborts a dispatch before any attempt starts.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return "config error: " + e.Reason + ": " + e.Err.Error()
	}
	return "config error: " + e.Reason
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError returns a ConfigError with the given reason.
func NewConfigError(reason string) error {
	return &ConfigError{Reason: reason}
}

// IsConfigError reports whether err is, or wraps, a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

const (
	ReasonMissingCredential = "missing credential"
	ReasonInvalidTargetURL  = "invalid target URL"
	ReasonInvalidAttempts   = "invalid attempt count"
	ReasonInvalidTimeout    = "invalid timeout"
	ReasonOutputDir         = "output directory not writable"
	ReasonUnknownEngine     = "unsupported search engine"
)
