package dispatch

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Davis1233798/proxy-demos-go/internal/model"
)

func testConfig(t *testing.T, attempts int) model.DispatchConfig {
	t.Helper()
	return model.DispatchConfig{
		TargetURL:      "https://www.example.com/",
		Attempts:       attempts,
		Timeout:        time.Second,
		OutputDir:      filepath.Join(t.TempDir(), "results"),
		ArtifactPrefix: "www.example.com",
	}
}

func alwaysSucceed() Executor {
	return ExecutorFunc(func(ctx context.Context, attempt int) model.Outcome {
		return model.Success(attempt, 200, []byte(fmt.Sprintf("<html>%d</html>", attempt)))
	})
}

// recordingReporter collects reporter calls from concurrent attempts.
type recordingReporter struct {
	mu    sync.Mutex
	calls map[int]string
}

func (r *recordingReporter) Attempt(o model.Outcome, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == nil {
		r.calls = make(map[int]string)
	}
	r.calls[o.Attempt] = path
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func run(t *testing.T, cfg model.DispatchConfig, exec Executor, opts ...Option) model.Summary {
	t.Helper()
	d, err := New(cfg, exec, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return s
}

func TestDispatchAllSucceed(t *testing.T) {
	cfg := testConfig(t, 5)
	rep := &recordingReporter{}
	s := run(t, cfg, alwaysSucceed(), WithReporter(rep))

	if s.Succeeded != 5 || s.Failed != 0 || s.SuccessRatePercent() != 100 {
		t.Fatalf("unexpected summary %+v", s)
	}
	names := listDir(t, cfg.OutputDir)
	if len(names) != 5 {
		t.Fatalf("expected 5 artifacts, got %v", names)
	}
	for i := 1; i <= 5; i++ {
		name := fmt.Sprintf("www.example.com_%d.html", i)
		data, err := os.ReadFile(filepath.Join(cfg.OutputDir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if string(data) != fmt.Sprintf("<html>%d</html>", i) {
			t.Errorf("%s has %q", name, data)
		}
		if rep.calls[i] != filepath.Join(cfg.OutputDir, name) {
			t.Errorf("reporter got %q for attempt %d", rep.calls[i], i)
		}
	}
}

func TestDispatchEvenAttemptsFail(t *testing.T) {
	cfg := testConfig(t, 10)
	exec := ExecutorFunc(func(ctx context.Context, attempt int) model.Outcome {
		if attempt%2 == 0 {
			return model.Failure(attempt, 503, model.ClassHTTPStatus, "unexpected status: 503 Service Unavailable")
		}
		return model.Success(attempt, 200, []byte("ok"))
	})

	s := run(t, cfg, exec)
	if s.Succeeded != 5 || s.Failed != 5 || s.Succeeded+s.Failed != s.Attempts {
		t.Fatalf("unexpected summary %+v", s)
	}
	if s.SuccessRatePercent() != 50 {
		t.Errorf("rate = %d, want 50", s.SuccessRatePercent())
	}

	names := listDir(t, cfg.OutputDir)
	if len(names) != 10 {
		t.Fatalf("expected 10 artifacts, got %v", names)
	}
	failed, _ := filepath.Glob(filepath.Join(cfg.OutputDir, "*_failed_*.json"))
	if len(failed) != 5 {
		t.Errorf("expected 5 failure records, got %v", failed)
	}
	for _, f := range failed {
		var idx int
		fmt.Sscanf(filepath.Base(f), "www.example.com_failed_%d.json", &idx)
		if idx%2 != 0 {
			t.Errorf("odd attempt %d recorded as failure", idx)
		}
	}
}

func TestDispatchTimeoutIsolated(t *testing.T) {
	cfg := testConfig(t, 4)
	cfg.Timeout = 100 * time.Millisecond

	exec := ExecutorFunc(func(ctx context.Context, attempt int) model.Outcome {
		if attempt == 3 {
			<-ctx.Done()
			return model.Failure(attempt, model.StatusUnknown, model.ClassTransport, ctx.Err().Error())
		}
		return model.Success(attempt, 200, []byte("ok"))
	})

	start := time.Now()
	s := run(t, cfg, exec)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("dispatch took %v, timeout was not enforced", elapsed)
	}
	if s.Succeeded != 3 || s.Failed != 1 {
		t.Fatalf("unexpected summary %+v", s)
	}

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "www.example.com_failed_3.json"))
	if err != nil {
		t.Fatalf("missing failure record: %v", err)
	}
	if !strings.Contains(string(data), `"statusCode": "unknown"`) {
		t.Errorf("failure record lacks unknown status: %s", data)
	}
}

func TestDispatchPanicAfterTimeout(t *testing.T) {
	cfg := testConfig(t, 3)
	cfg.Timeout = 50 * time.Millisecond

	exec := ExecutorFunc(func(ctx context.Context, attempt int) model.Outcome {
		if attempt == 2 {
			<-ctx.Done()
			panic("deadline exceeded in stub")
		}
		return model.Success(attempt, 200, []byte("ok"))
	})

	s := run(t, cfg, exec)
	if s.Succeeded != 2 || s.Failed != 1 {
		t.Fatalf("unexpected summary %+v", s)
	}
	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "www.example.com_failed_2.json"))
	if err != nil {
		t.Fatalf("missing failure record: %v", err)
	}
	if !strings.Contains(string(data), `"statusCode": "unknown"`) {
		t.Errorf("unexpected record %s", data)
	}
}

func TestDispatchPanicIsolated(t *testing.T) {
	cfg := testConfig(t, 3)

	exec := ExecutorFunc(func(ctx context.Context, attempt int) model.Outcome {
		if attempt == 1 {
			panic("stub failure")
		}
		return model.Success(attempt, 200, []byte("ok"))
	})

	s := run(t, cfg, exec)
	if s.Succeeded != 2 || s.Failed != 1 {
		t.Fatalf("unexpected summary %+v", s)
	}
	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "www.example.com_failed_1.json"))
	if err != nil {
		t.Fatalf("missing failure record: %v", err)
	}
	if !strings.Contains(string(data), `"class": "panic"`) {
		t.Errorf("unexpected record %s", data)
	}
}

func TestDispatchDeadlineIgnoredByExecutor(t *testing.T) {
	cfg := testConfig(t, 2)
	cfg.Timeout = 50 * time.Millisecond

	release := make(chan struct{})
	defer close(release)
	exec := ExecutorFunc(func(ctx context.Context, attempt int) model.Outcome {
		if attempt == 2 {
			select {
			case <-release:
			case <-time.After(2 * time.Second):
			}
		}
		return model.Success(attempt, 200, []byte("ok"))
	})

	start := time.Now()
	s := run(t, cfg, exec)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("dispatch took %v, waited on an attempt past its deadline", elapsed)
	}
	if s.Succeeded != 1 || s.Failed != 1 {
		t.Fatalf("unexpected summary %+v", s)
	}
	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "www.example.com_failed_2.json"))
	if err != nil {
		t.Fatalf("missing failure record: %v", err)
	}
	if !strings.Contains(string(data), `"statusCode": "unknown"`) {
		t.Errorf("unexpected record %s", data)
	}
}

func TestDispatchRunsConcurrently(t *testing.T) {
	const n = 8
	cfg := testConfig(t, n)
	cfg.Timeout = 5 * time.Second

	var started sync.WaitGroup
	started.Add(n)
	allStarted := make(chan struct{})
	go func() {
		started.Wait()
		close(allStarted)
	}()

	// Every attempt blocks until all n are in flight; a sequential
	// dispatcher would deadlock here until each attempt's timeout.
	exec := ExecutorFunc(func(ctx context.Context, attempt int) model.Outcome {
		started.Done()
		select {
		case <-allStarted:
			return model.Success(attempt, 200, []byte("ok"))
		case <-ctx.Done():
			return model.Failure(attempt, model.StatusUnknown, model.ClassTransport, "not concurrent")
		}
	})

	s := run(t, cfg, exec)
	if s.Succeeded != n {
		t.Fatalf("attempts did not overlap: %+v", s)
	}
}

func TestDispatchDeterministicArtifacts(t *testing.T) {
	exec := ExecutorFunc(func(ctx context.Context, attempt int) model.Outcome {
		time.Sleep(time.Duration(rand.Intn(20)) * time.Millisecond)
		if attempt%3 == 0 {
			return model.Failure(attempt, 429, model.ClassHTTPStatus, "unexpected status: 429 Too Many Requests")
		}
		return model.Success(attempt, 200, []byte(fmt.Sprintf("page %d", attempt)))
	})

	snapshot := func() map[string]string {
		cfg := testConfig(t, 9)
		run(t, cfg, exec)
		files := make(map[string]string)
		for _, name := range listDir(t, cfg.OutputDir) {
			data, _ := os.ReadFile(filepath.Join(cfg.OutputDir, name))
			files[name] = string(data)
		}
		return files
	}

	first, second := snapshot(), snapshot()
	if len(first) != 9 || len(first) != len(second) {
		t.Fatalf("artifact counts differ: %d vs %d", len(first), len(second))
	}
	for name, content := range first {
		if second[name] != content {
			t.Errorf("%s differs between runs", name)
		}
	}
}

func TestDispatchPersistFailureCounted(t *testing.T) {
	cfg := testConfig(t, 3)
	w := NewWriter(cfg.OutputDir, cfg.ArtifactPrefix, false)
	if err := os.MkdirAll(w.SuccessPath(2), 0o755); err != nil {
		t.Fatal(err)
	}

	s := run(t, cfg, alwaysSucceed())
	if s.Succeeded != 2 || s.Failed != 1 || s.PersistFailed != 1 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if _, err := os.Stat(w.FailurePath(2)); err != nil {
		t.Errorf("expected fallback failure record: %v", err)
	}
}

func TestDispatchCancelledBatch(t *testing.T) {
	cfg := testConfig(t, 4)
	var calls int32
	exec := ExecutorFunc(func(ctx context.Context, attempt int) model.Outcome {
		atomic.AddInt32(&calls, 1)
		return model.Success(attempt, 200, nil)
	})

	d, err := New(cfg, exec)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := d.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != 0 {
		t.Errorf("executor called %d times after cancellation", calls)
	}
	if s.Failed != 4 {
		t.Errorf("unexpected summary %+v", s)
	}
	if n := len(listDir(t, cfg.OutputDir)); n != 4 {
		t.Errorf("expected 4 failure records, got %d", n)
	}
}

func TestDispatchUnwritableOutputDir(t *testing.T) {
	cfg := testConfig(t, 2)
	file := filepath.Join(t.TempDir(), "blocker")
	os.WriteFile(file, nil, 0o644)
	cfg.OutputDir = filepath.Join(file, "results")

	var calls int32
	exec := ExecutorFunc(func(ctx context.Context, attempt int) model.Outcome {
		atomic.AddInt32(&calls, 1)
		return model.Success(attempt, 200, nil)
	})
	d, err := New(cfg, exec)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := d.Run(context.Background()); !model.IsConfigError(err) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if calls != 0 {
		t.Errorf("attempts ran despite unusable output dir")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t, 0)
	if _, err := New(cfg, alwaysSucceed()); !model.IsConfigError(err) {
		t.Errorf("attempts=0: expected ConfigError, got %v", err)
	}
	cfg = testConfig(t, 1)
	cfg.Timeout = 0
	if _, err := New(cfg, alwaysSucceed()); !model.IsConfigError(err) {
		t.Errorf("timeout=0: expected ConfigError, got %v", err)
	}
}
