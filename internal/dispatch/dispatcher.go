// Package dispatch runs a fixed batch of concurrent fetch attempts and
// persists one artifact per attempt.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Davis1233798/proxy-demos-go/internal/logger"
	"github.com/Davis1233798/proxy-demos-go/internal/metrics"
	"github.com/Davis1233798/proxy-demos-go/internal/model"
)

// Executor performs one attempt. Implementations must honour ctx and must
// not retry.
type Executor interface {
	Fetch(ctx context.Context, attempt int) model.Outcome
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, attempt int) model.Outcome

func (f ExecutorFunc) Fetch(ctx context.Context, attempt int) model.Outcome { return f(ctx, attempt) }

// Reporter receives each outcome once its artifact is written. path is
// empty when nothing could be written. Calls may come from many goroutines.
type Reporter interface {
	Attempt(o model.Outcome, path string)
}

type Option func(*Dispatcher)

func WithReporter(r Reporter) Option {
	return func(d *Dispatcher) { d.reporter = r }
}

func WithWriter(w *Writer) Option {
	return func(d *Dispatcher) { d.writer = w }
}

type Dispatcher struct {
	exec     Executor
	writer   *Writer
	reporter Reporter
	attempts int
	timeout  time.Duration
	log      zerolog.Logger
}

// New validates cfg and returns a dispatcher for it. Attempts are numbered
// from 1 to cfg.Attempts.
func New(cfg model.DispatchConfig, exec Executor, opts ...Option) (*Dispatcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Dispatcher{
		exec:     exec,
		writer:   NewWriter(cfg.OutputDir, cfg.ArtifactPrefix, cfg.FormatJSON),
		attempts: cfg.Attempts,
		timeout:  cfg.Timeout,
		log:      logger.WithComponent("dispatch"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Run starts every attempt at once, waits for all of them and returns the
// summary. The only error it returns is a ConfigError from preparing the
// output directory; attempt failures are reported through the summary.
func (d *Dispatcher) Run(ctx context.Context) (model.Summary, error) {
	if err := d.writer.Prepare(); err != nil {
		return model.Summary{}, err
	}

	log := d.log.With().Str("run", uuid.NewString()).Logger()
	log.Info().Int("attempts", d.attempts).Dur("timeout", d.timeout).Str("dir", d.writer.Dir).Msg("dispatch started")

	outcomes := make([]model.Outcome, d.attempts)
	var wg sync.WaitGroup
	for i := 1; i <= d.attempts; i++ {
		wg.Add(1)
		go func(attempt int) {
			defer wg.Done()
			outcomes[attempt-1] = d.runAttempt(ctx, log, attempt)
		}(i)
	}
	wg.Wait()

	summary := model.Summarize(outcomes)
	metrics.LastSuccessRate.Set(float64(summary.SuccessRatePercent()))
	log.Info().
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Int("persist_failed", summary.PersistFailed).
		Int("rate", summary.SuccessRatePercent()).
		Msg("dispatch finished")
	return summary, nil
}

func (d *Dispatcher) runAttempt(ctx context.Context, log zerolog.Logger, attempt int) model.Outcome {
	start := time.Now()
	o := d.fetch(ctx, attempt)
	metrics.AttemptDuration.Observe(time.Since(start).Seconds())

	path, err := d.writer.Write(o)
	if err != nil {
		o.PersistErr = err
		metrics.PersistFailures.Inc()
		log.Error().Err(err).Int("attempt", attempt).Msg("could not persist artifact")
	}

	result := "success"
	if o.Kind == model.OutcomeFailure {
		result = string(o.Class)
	}
	metrics.AttemptsTotal.WithLabelValues(result).Inc()

	if d.reporter != nil {
		d.reporter.Attempt(o, path)
	}
	// The body is on disk now; drop it so the joined slice stays small.
	o.Body = nil
	return o
}

// fetch runs the executor under the per-attempt deadline. A cancelled batch
// fails the attempt without calling the executor. When the deadline expires
// first the attempt fails with an unknown status and the executor's late
// result is discarded. A panic fails this attempt only.
func (d *Dispatcher) fetch(parent context.Context, attempt int) model.Outcome {
	if err := parent.Err(); err != nil {
		return model.Failure(attempt, model.StatusUnknown, model.ClassTransport, "dispatch cancelled: "+err.Error())
	}

	ctx, cancel := context.WithTimeout(parent, d.timeout)
	defer cancel()

	metrics.InFlight.Inc()
	defer metrics.InFlight.Dec()

	result := make(chan model.Outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				result <- model.Failure(attempt, model.StatusUnknown, model.ClassPanic, fmt.Sprintf("attempt panicked: %v", r))
			}
		}()
		result <- d.exec.Fetch(ctx, attempt)
	}()

	var o model.Outcome
	select {
	case o = <-result:
		if err := ctx.Err(); err != nil && o.OK() {
			o = deadlineFailure(attempt, err)
		}
	case <-ctx.Done():
		o = deadlineFailure(attempt, ctx.Err())
	}
	o.Attempt = attempt
	return o
}

func deadlineFailure(attempt int, err error) model.Outcome {
	return model.Failure(attempt, model.StatusUnknown, model.ClassTransport, "attempt deadline: "+err.Error())
}
