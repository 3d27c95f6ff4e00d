// Package telemetry exports graphview activity as Prometheus metrics.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/graphview"
)

// Metrics implements graphview.Observer with Prometheus collectors.
type Metrics struct {
	frames         *prometheus.CounterVec
	drawSeconds    *prometheus.HistogramVec
	skippedEdges   *prometheus.CounterVec
	layoutsApplied prometheus.Counter
	layoutRejects  prometheus.Counter
	intents        *prometheus.CounterVec
	graphNodes     prometheus.Gauge
}

var _ graphview.Observer = (*Metrics)(nil)

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "graphview",
			Name:      "frames_total",
			Help:      "Frames drawn, by backend.",
		}, []string{"backend"}),
		drawSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "graphview",
			Name:      "draw_duration_seconds",
			Help:      "Time spent in a single draw, by backend.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"backend"}),
		skippedEdges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "graphview",
			Name:      "skipped_edges_total",
			Help:      "Edges left out of a frame because an endpoint is missing.",
		}, []string{"backend"}),
		layoutsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphview",
			Name:      "layouts_applied_total",
			Help:      "Layout responses applied to the viewer.",
		}),
		layoutRejects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphview",
			Name:      "layouts_rejected_total",
			Help:      "Layout responses rejected as invalid.",
		}),
		intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "graphview",
			Name:      "intents_total",
			Help:      "Interaction intents produced by pointer events, by kind.",
		}, []string{"kind"}),
		graphNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "graphview",
			Name:      "graph_nodes",
			Help:      "Nodes in the most recently applied layout.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.frames, m.drawSeconds, m.skippedEdges,
		m.layoutsApplied, m.layoutRejects, m.intents, m.graphNodes,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// FrameDrawn records a completed draw.
func (m *Metrics) FrameDrawn(f *graphview.Frame, elapsed time.Duration) {
	m.frames.WithLabelValues(f.Backend).Inc()
	m.drawSeconds.WithLabelValues(f.Backend).Observe(elapsed.Seconds())
	if n := len(f.Skipped); n > 0 {
		m.skippedEdges.WithLabelValues(f.Backend).Add(float64(n))
	}
}

// LayoutApplied records an accepted layout.
func (m *Metrics) LayoutApplied(nodes, _ int) {
	m.layoutsApplied.Inc()
	m.graphNodes.Set(float64(nodes))
}

// LayoutRejected records a rejected layout.
func (m *Metrics) LayoutRejected(error) {
	m.layoutRejects.Inc()
}

// IntentHandled records an interaction intent.
func (m *Metrics) IntentHandled(it graphview.Intent) {
	m.intents.WithLabelValues(it.Kind.String()).Inc()
}
