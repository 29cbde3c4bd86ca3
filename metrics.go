package main

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "room_air_calc"

type Metrics struct {
	StepsSimulated    prometheus.Counter
	DeviceInvocations *prometheus.CounterVec // labels: type
	NodeTemperature   *prometheus.GaugeVec   // labels: node
	NodeHumidityRatio *prometheus.GaugeVec   // labels: node
	StepDuration      prometheus.Histogram
}

func newMetrics() *Metrics {
	return &Metrics{
		StepsSimulated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "system_steps_total",
			Help:      "Total system timesteps solved.",
		}),
		DeviceInvocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "device_invocations_total",
			Help:      "Device simulations requested by the solver, by equipment type.",
		}, []string{"type"}),
		NodeTemperature: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "node_temperature_celsius",
			Help:      "Latest room air node temperature.",
		}, []string{"node"}),
		NodeHumidityRatio: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "node_humidity_ratio",
			Help:      "Latest room air node humidity ratio, kg/kgDA.",
		}, []string{"node"}),
		StepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "step_duration_seconds",
			Help:      "Wall time of one system timestep.",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.StepsSimulated,
		m.DeviceInvocations,
		m.NodeTemperature,
		m.NodeHumidityRatio,
		m.StepDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

/*
/metrics を公開する。サーバーは計算終了まで動き続ける。
*/
func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			L().Errorw("metrics server stopped", "error", err)
		}
	}()
	L().Infof("Serving metrics on %s/metrics", addr)
	return srv
}
