package commands

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/lguimbarda/rangeflow/flow/observe"
	"github.com/lguimbarda/rangeflow/internal/logger"
)

const (
	metricsPath       = "/metrics"
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 2 * time.Second
)

// serveMetrics serves Prometheus metrics on addr until stop is called and
// returns the instruments to record into.
func serveMetrics(addr string, attr attribute.KeyValue, log *logger.Logger) (*observe.Instruments, func(), error) {
	provider, handler, err := observe.PrometheusProvider()
	if err != nil {
		return nil, nil, err
	}
	ins, err := observe.NewInstruments(provider.Meter("github.com/lguimbarda/rangeflow"), attr)
	if err != nil {
		return nil, nil, err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}

	mux := http.NewServeMux()
	mux.Handle(metricsPath, handler)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: readHeaderTimeout}

	log = log.WithComponent("metrics")
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server stopped")
		}
	}()
	log.Info("serving metrics", map[string]any{"addr": ln.Addr().String(), "path": metricsPath})

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("metrics server shutdown")
		}
		if err := provider.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("meter provider shutdown")
		}
	}
	return ins, stop, nil
}
