package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shawkym/moragents-tui/pkg/log"
)

// Exporter serves a registry on /metrics while the chat screen runs.
type Exporter struct {
	ln  net.Listener
	srv *http.Server
}

// Listen binds addr and prepares an exporter for reg. The port is taken
// here, so a busy address fails the caller instead of a background
// goroutine. Use "127.0.0.1:0" to pick a free port and read it from Addr.
func Listen(addr string, reg *prometheus.Registry) (*Exporter, error) {
	if reg == nil {
		return nil, errors.New("metrics: nil registry")
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for metrics on %s: %w", addr, err)
	}
	return &Exporter{
		ln: ln,
		srv: &http.Server{
			Handler:           Handler(reg),
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
		},
	}, nil
}

// Handler routes /metrics to reg and answers /health.
func Handler(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		Registry:          reg,
		EnableOpenMetrics: true,
	}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"ok","service":"moragents-tui"}`)
	})
	return mux
}

// Addr is the bound address.
func (e *Exporter) Addr() string {
	return e.ln.Addr().String()
}

// Serve blocks until Close is called.
func (e *Exporter) Serve() error {
	log.WithField("addr", e.Addr()).Info("serving metrics")
	if err := e.srv.Serve(e.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server failed: %w", err)
	}
	return nil
}

// Close drains in-flight scrapes until ctx expires.
func (e *Exporter) Close(ctx context.Context) error {
	if err := e.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("metrics server shutdown failed: %w", err)
	}
	log.Debug("metrics server stopped")
	return nil
}
