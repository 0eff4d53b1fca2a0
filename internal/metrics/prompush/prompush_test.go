package prompush

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"chunkproc/internal/metrics"
)

// readCounterValue reads the current value of a Counter for assertions.
func readCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()

	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("Counter.Write() error = %v", err)
	}
	if m.GetCounter() == nil {
		t.Fatalf("metric did not contain Counter value")
	}
	return m.GetCounter().GetValue()
}

// readSummaryCountSum reads sample count and sum from a SummaryVec.
func readSummaryCountSum(t *testing.T, v *prometheus.SummaryVec, labels ...string) (uint64, float64) {
	t.Helper()

	m := &dto.Metric{}
	metric, ok := v.WithLabelValues(labels...).(prometheus.Metric)
	if !ok {
		t.Fatalf("SummaryVec.WithLabelValues(...) does not implement prometheus.Metric")
	}
	if err := metric.Write(m); err != nil {
		t.Fatalf("Summary.Write() error = %v", err)
	}
	if m.GetSummary() == nil {
		t.Fatalf("metric did not contain Summary value")
	}
	sum := m.GetSummary()
	return sum.GetSampleCount(), sum.GetSampleSum()
}

func TestNewBackend(t *testing.T) {
	t.Parallel()

	if _, err := NewBackend("orders", ""); err == nil {
		t.Fatalf("missing gateway URL must error")
	}

	b, err := NewBackend("", "http://pushgateway:9091")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	if b.jobName != "chunkproc" {
		t.Fatalf("jobName=%q; want default chunkproc", b.jobName)
	}
}

func TestIncCounter_RoutesByName(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("orders", "http://pushgateway:9091")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}

	b.IncCounter("chunkproc_chunks_total", 1, metrics.Labels{"status": "success"})
	b.IncCounter("chunkproc_chunks_total", 1, metrics.Labels{"status": "failure"})
	b.IncCounter("chunkproc_rows_total", 500, metrics.Labels{"kind": "processed"})
	b.IncCounter("no_such_metric", 9, nil) // ignored

	if got := readCounterValue(t, b.chunkCounter.WithLabelValues("success")); got != 1 {
		t.Fatalf("chunks{success}=%v; want 1", got)
	}
	if got := readCounterValue(t, b.chunkCounter.WithLabelValues("failure")); got != 1 {
		t.Fatalf("chunks{failure}=%v; want 1", got)
	}
	if got := readCounterValue(t, b.rowCounter.WithLabelValues("processed")); got != 500 {
		t.Fatalf("rows{processed}=%v; want 500", got)
	}
}

func TestObserveHistogram(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("orders", "http://pushgateway:9091")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}

	b.ObserveHistogram("chunkproc_chunk_duration_seconds", 0.25, metrics.Labels{"status": "success"})
	b.ObserveHistogram("chunkproc_chunk_duration_seconds", 0.75, metrics.Labels{"status": "success"})
	b.ObserveHistogram("unrelated", 99, nil) // ignored

	count, sum := readSummaryCountSum(t, b.chunkDuration, "success")
	if count != 2 || sum != 1.0 {
		t.Fatalf("summary count=%d sum=%v; want 2 / 1.0", count, sum)
	}
}

func TestFlush_PushesToGateway(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b, err := NewBackend("orders", srv.URL)
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	b.IncCounter("chunkproc_chunks_total", 3, metrics.Labels{"status": "success"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if !strings.Contains(gotPath, "/job/orders") {
		t.Fatalf("push path=%q; want it to contain /job/orders", gotPath)
	}
	if len(gotBody) == 0 {
		t.Fatalf("push body empty; expected serialized metrics")
	}
}
