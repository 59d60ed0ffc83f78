package metrics

import (
	"errors"
	"net"
	"net/http"

	"git.lost.host/meutraa/vsrg/internal/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Registry *prometheus.Registry

	Frames        prometheus.Counter
	FrameDuration prometheus.Histogram
	Commands      *prometheus.CounterVec
	ChartTime     prometheus.Gauge
	Rate          prometheus.Gauge
	AudioError    prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Frames: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "vsrg_frames_total", Help: "Frames drawn"},
		),
		FrameDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "vsrg_frame_duration_seconds",
				Help:    "Time spent drawing a frame",
				Buckets: []float64{0.0005, 0.001, 0.002, 0.004, 0.008, 0.016, 0.033},
			},
		),
		Commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "vsrg_commands_total", Help: "Host commands applied"},
			[]string{"command"},
		),
		ChartTime: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "vsrg_chart_time_ms", Help: "Current chart time"},
		),
		Rate: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "vsrg_playback_rate", Help: "Current playback rate"},
		),
		AudioError: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "vsrg_audio_error", Help: "1 while the audio source is failing"},
		),
	}
	m.Registry.MustRegister(m.Frames, m.FrameDuration, m.Commands, m.ChartTime, m.Rate, m.AudioError)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve exposes the metrics on addr at /metrics until the server is closed
func (m *Metrics) Serve(addr string) (*http.Server, error) {
	listener, err := net.Listen("tcp", addr)
	if nil != err {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	server := &http.Server{Handler: mux}

	go func() {
		if err := server.Serve(listener); nil != err && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("metrics server stopped: %v\n", err)
		}
	}()
	log.Infof("metrics at http://%v/metrics\n", listener.Addr())
	return server, nil
}
