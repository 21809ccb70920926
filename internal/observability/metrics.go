package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts bridge activity on its own registry. It satisfies
// bridge.Observer.
type Metrics struct {
	registry *prometheus.Registry

	framesSent   *prometheus.CounterVec
	bytesSent    *prometheus.CounterVec
	sendFailures *prometheus.CounterVec
	steps        *prometheus.CounterVec
	stepDuration prometheus.Histogram
}

// NewMetrics creates and registers the bridge collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		framesSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pfdbridge",
				Name:      "frames_sent_total",
				Help:      "MAVLink frames accepted by the transport.",
			},
			[]string{"kind"},
		),
		bytesSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pfdbridge",
				Name:      "bytes_sent_total",
				Help:      "Bytes accepted by the transport.",
			},
			[]string{"kind"},
		),
		sendFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pfdbridge",
				Name:      "send_failures_total",
				Help:      "MAVLink frames the transport failed to send.",
			},
			[]string{"kind"},
		),
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pfdbridge",
				Name:      "steps_total",
				Help:      "Dispatched simulation steps by result.",
			},
			[]string{"result"},
		),
		stepDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "pfdbridge",
				Name:      "step_duration_seconds",
				Help:      "Time to encode and send one step.",
				Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12),
			},
		),
	}
	m.registry.MustRegister(m.framesSent, m.bytesSent, m.sendFailures, m.steps, m.stepDuration)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) FrameSent(kind string, bytes int) {
	m.framesSent.WithLabelValues(kind).Inc()
	m.bytesSent.WithLabelValues(kind).Add(float64(bytes))
}

func (m *Metrics) SendFailed(kind string, _ error) {
	m.sendFailures.WithLabelValues(kind).Inc()
}

// ObserveStep records one step's duration and whether any send failed.
func (m *Metrics) ObserveStep(d time.Duration, failed bool) {
	result := "ok"
	if failed {
		result = "failed"
	}
	m.steps.WithLabelValues(result).Inc()
	m.stepDuration.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
