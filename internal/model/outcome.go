package model

import (
	"encoding/json"
	"math"
	"strconv"
)

// StatusCode is an HTTP status; zero means no status line was received.
type StatusCode int

const StatusUnknown StatusCode = 0

func (s StatusCode) Known() bool { return s != StatusUnknown }

func (s StatusCode) String() string {
	if !s.Known() {
		return "unknown"
	}
	return strconv.Itoa(int(s))
}

// MarshalJSON writes the number, or "unknown".
func (s StatusCode) MarshalJSON() ([]byte, error) {
	if !s.Known() {
		return json.Marshal("unknown")
	}
	return json.Marshal(int(s))
}

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeFailure
)

// FailureClass says why an attempt failed.
type FailureClass string

const (
	ClassNone       FailureClass = ""
	ClassTransport  FailureClass = "transport"
	ClassHTTPStatus FailureClass = "http_status"
	ClassPanic      FailureClass = "panic"
	// ClassPersist marks a record written because the artifact itself could
	// not be stored.
	ClassPersist FailureClass = "persist"
)

// Outcome is the result of exactly one attempt. It is owned by the attempt
// that produced it until the writer has persisted it.
type Outcome struct {
	Attempt    int
	Kind       OutcomeKind
	StatusCode StatusCode
	Body       []byte
	Class      FailureClass
	Message    string

	// PersistErr is set when the artifact could not be written. It never
	// replaces the fields above.
	PersistErr error
}

func Success(attempt int, status int, body []byte) Outcome {
	return Outcome{Attempt: attempt, Kind: OutcomeSuccess, StatusCode: StatusCode(status), Body: body}
}

func Failure(attempt int, status StatusCode, class FailureClass, msg string) Outcome {
	return Outcome{Attempt: attempt, Kind: OutcomeFailure, StatusCode: status, Class: class, Message: msg}
}

func (o Outcome) OK() bool { return o.Kind == OutcomeSuccess && o.PersistErr == nil }

// Summary is reduced from the full Outcome list after every attempt finished.
type Summary struct {
	Attempts      int
	Succeeded     int
	Failed        int
	PersistFailed int
}

// Summarize counts outcomes. An outcome whose artifact failed to persist is
// counted as failed.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Attempts: len(outcomes)}
	for _, o := range outcomes {
		if o.PersistErr != nil {
			s.PersistFailed++
		}
		if o.OK() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}

func (s Summary) SuccessRatePercent() int {
	if s.Attempts == 0 {
		return 0
	}
	return int(math.Round(float64(s.Succeeded) / float64(s.Attempts) * 100))
}
