package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// FrameCollector bundles Prometheus metrics for the frame loop and scene
// contents and provides a ready-to-use /metrics handler.
type FrameCollector struct {
	gatherer prometheus.Gatherer

	FramesTotal       prometheus.Counter
	FrameDuration     prometheus.Histogram
	DeltaClampedTotal prometheus.Counter

	SceneBodies     prometheus.Gauge
	SceneSatellites prometheus.Gauge
	SceneStars      prometheus.Gauge
}

// NewFrameCollector registers frame loop Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when nil.
func NewFrameCollector(reg prometheus.Registerer) (*FrameCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	frames, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scene_frames_total",
		Help: "Total number of animation frames advanced.",
	}), "scene_frames_total")
	if err != nil {
		return nil, err
	}

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scene_frame_duration_seconds",
		Help:    "Time spent advancing and drawing one frame, in seconds.",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.016, 0.033, 0.1},
	})
	duration, err = registerHistogram(reg, duration, "scene_frame_duration_seconds")
	if err != nil {
		return nil, err
	}

	clamped, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scene_delta_clamped_total",
		Help: "Number of frames whose delta time hit the stall clamp.",
	}), "scene_delta_clamped_total")
	if err != nil {
		return nil, err
	}

	bodies, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scene_bodies",
		Help: "Current number of renderable bodies in the scene graph.",
	}), "scene_bodies")
	if err != nil {
		return nil, err
	}
	satellites, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scene_satellites",
		Help: "Current number of satellites in the scene.",
	}), "scene_satellites")
	if err != nil {
		return nil, err
	}
	stars, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scene_stars",
		Help: "Current number of stars in the background starfield.",
	}), "scene_stars")
	if err != nil {
		return nil, err
	}

	return &FrameCollector{
		gatherer:          gatherer,
		FramesTotal:       frames,
		FrameDuration:     duration,
		DeltaClampedTotal: clamped,
		SceneBodies:       bodies,
		SceneSatellites:   satellites,
		SceneStars:        stars,
	}, nil
}

// ObserveFrame records one completed frame and its duration.
func (c *FrameCollector) ObserveFrame(d time.Duration) {
	if c == nil {
		return
	}
	if c.FramesTotal != nil {
		c.FramesTotal.Inc()
	}
	if c.FrameDuration != nil {
		c.FrameDuration.Observe(d.Seconds())
	}
}

// IncDeltaClamped counts a frame whose delta hit the stall clamp.
func (c *FrameCollector) IncDeltaClamped() {
	if c == nil || c.DeltaClampedTotal == nil {
		return
	}
	c.DeltaClampedTotal.Inc()
}

// SetSceneCounts satisfies the SceneMetricsRecorder interface so the world
// can drive gauge values directly when it is assembled or mutated.
func (c *FrameCollector) SetSceneCounts(bodies, satellites, stars int) {
	if c == nil {
		return
	}
	if c.SceneBodies != nil {
		c.SceneBodies.Set(float64(bodies))
	}
	if c.SceneSatellites != nil {
		c.SceneSatellites.Set(float64(satellites))
	}
	if c.SceneStars != nil {
		c.SceneStars.Set(float64(stars))
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *FrameCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
