package device

import (
	"github.com/jypelle/oledstat/internal/srv/source"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Metrics struct {
	registry    *prometheus.Registry
	readings    *prometheus.GaugeVec
	fetchErrors *prometheus.CounterVec
	frames      prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		readings: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "oledstat_reading",
				Help: "Latest value fetched for a sensor signal",
			},
			[]string{"sensor_id", "signal"},
		),
		fetchErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oledstat_fetch_errors_total",
				Help: "Failed fetches per sensor",
			},
			[]string{"sensor_id"},
		),
		frames: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "oledstat_frames_total",
				Help: "Frames sent to the display",
			},
		),
	}

	m.registry.MustRegister(m.readings, m.fetchErrors, m.frames)
	m.registry.MustRegister(collectors.NewBuildInfoCollector())
	return m
}

func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

func (m *Metrics) ObserveReading(r source.Reading) {
	if !r.Present() {
		m.readings.DeleteLabelValues(r.SensorID, r.Signal)
		return
	}
	m.readings.WithLabelValues(r.SensorID, r.Signal).Set(*r.Value)
}

func (m *Metrics) FetchFailed(sensorID string) {
	m.fetchErrors.WithLabelValues(sensorID).Inc()
}

func (m *Metrics) FrameRendered() {
	m.frames.Inc()
}
