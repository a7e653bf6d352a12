package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestAttemptsTotalByResult(t *testing.T) {
	c := AttemptsTotal.WithLabelValues("http_status")
	before := counterValue(t, c)
	c.Inc()
	c.Inc()

	if got := counterValue(t, c) - before; got != 2 {
		t.Errorf("delta = %v, want 2", got)
	}
}

func TestStartMetricsServerDisabled(t *testing.T) {
	if srv := StartMetricsServer(0); srv != nil {
		t.Error("expected nil server for port 0")
	}
}
