package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for asset_loads_total.
const (
	OutcomeLoaded  = "loaded"
	OutcomeMissing = "missing"
	OutcomeFailed  = "failed"
)

// LoaderCollector exposes asset pipeline Prometheus metrics.
type LoaderCollector struct {
	gatherer prometheus.Gatherer

	AssetLoads        *prometheus.CounterVec
	AssetLoadDuration prometheus.Histogram
	AssetResizesTotal prometheus.Counter
	TexturesResident  prometheus.Gauge
}

// NewLoaderCollector registers asset pipeline metrics against the provided
// registerer.
func NewLoaderCollector(reg prometheus.Registerer) (*LoaderCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	loads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "asset_loads_total",
		Help: "Texture load attempts, labeled by material role and outcome.",
	}, []string{"role", "outcome"})
	loads, err := registerCounterVec(reg, loads, "asset_loads_total")
	if err != nil {
		return nil, err
	}

	loadDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "asset_load_duration_seconds",
		Help:    "Time spent decoding and preparing one texture, in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
	loadDuration, err = registerHistogram(reg, loadDuration, "asset_load_duration_seconds")
	if err != nil {
		return nil, err
	}

	resizes, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "asset_resizes_total",
		Help: "Number of textures downscaled to the configured size cap.",
	}), "asset_resizes_total")
	if err != nil {
		return nil, err
	}

	resident, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scene_textures_resident",
		Help: "Number of textures currently applied to scene materials.",
	}), "scene_textures_resident")
	if err != nil {
		return nil, err
	}

	return &LoaderCollector{
		gatherer:          gatherer,
		AssetLoads:        loads,
		AssetLoadDuration: loadDuration,
		AssetResizesTotal: resizes,
		TexturesResident:  resident,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *LoaderCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// RecordLoad counts one load attempt and its duration.
func (c *LoaderCollector) RecordLoad(role, outcome string, d time.Duration) {
	if c == nil {
		return
	}
	if c.AssetLoads != nil {
		c.AssetLoads.WithLabelValues(role, outcome).Inc()
	}
	if c.AssetLoadDuration != nil && outcome == OutcomeLoaded {
		c.AssetLoadDuration.Observe(d.Seconds())
	}
}

// IncResizes counts a texture that was downscaled to the size cap.
func (c *LoaderCollector) IncResizes() {
	if c == nil || c.AssetResizesTotal == nil {
		return
	}
	c.AssetResizesTotal.Inc()
}

// SetTexturesResident updates the applied-texture gauge.
func (c *LoaderCollector) SetTexturesResident(count int) {
	if c == nil || c.TexturesResident == nil {
		return
	}
	c.TexturesResident.Set(float64(count))
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
