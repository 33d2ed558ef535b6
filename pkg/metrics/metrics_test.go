package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordBackendRequest("/agents/available", "200", time.Second)
	m.RecordCredentialSync("synced")
	m.RecordRender("text")
	m.RecordSuggestion("default")
}

func TestRecordBackendRequest(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordBackendRequest("/agents/available", "200", 150*time.Millisecond)
	m.RecordBackendRequest("/agents/available", "200", 50*time.Millisecond)
	m.RecordBackendRequest("/tweet/x-api-key", "error", time.Millisecond)

	if got := testutil.ToFloat64(m.BackendRequests.WithLabelValues("/agents/available", "200")); got != 2 {
		t.Errorf("expected 2 requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.BackendRequests.WithLabelValues("/tweet/x-api-key", "error")); got != 1 {
		t.Errorf("expected 1 failed request, got %v", got)
	}
}

func TestExporterServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.RecordRender("tweet")

	exp, err := Listen("127.0.0.1:0", reg)
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- exp.Serve() }()

	base := "http://" + exp.Addr()
	resp, err := http.Get(base + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `"status":"ok"`) {
		t.Errorf("unexpected health body %q", body)
	}

	resp, err = http.Get(base + "/metrics")
	if err != nil {
		t.Fatalf("metrics request failed: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `moragents_messages_rendered_total{kind="tweet"} 1`) {
		t.Errorf("expected rendered counter in metrics output, got:\n%s", body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := exp.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := <-done; err != nil {
		t.Errorf("Serve returned %v after Close", err)
	}
}

func TestListenRejectsBusyAddress(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := Listen("127.0.0.1:0", reg)
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	defer first.Close(context.Background())

	if _, err := Listen(first.Addr(), reg); err == nil {
		t.Error("expected error for an address already in use")
	}
}

func TestHandlerUnknownPath(t *testing.T) {
	ts := httptest.NewServer(Handler(prometheus.NewRegistry()))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}
