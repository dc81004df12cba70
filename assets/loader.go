// Package assets streams scene textures in from disk without stalling the
// frame loop. One goroutine per texture role decodes and, when needed,
// downscales the image; the frame loop drains finished results between
// frames and binds them to materials.
package assets

import (
	"context"
	"errors"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/anthonynsimon/bild/transform"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/stellarfoundry/orrery/internal/logging"
	"github.com/stellarfoundry/orrery/model"
)

const tracerName = "github.com/stellarfoundry/orrery/assets"

// DefaultMaxDimension caps texture width and height. GPU-friendly and
// generous; 8k earth textures get halved, everything smaller passes through.
const DefaultMaxDimension = 4096

// Outcome labels, aligned with the asset_loads_total metric.
const (
	OutcomeLoaded  = "loaded"
	OutcomeMissing = "missing"
	OutcomeFailed  = "failed"
)

// Result is one finished load attempt.
type Result struct {
	Role    model.AssetRole
	Image   image.Image // nil unless the load succeeded
	Err     error
	Missing bool // the file was absent, as opposed to unreadable
	Resized bool
	Elapsed time.Duration
}

// Outcome classifies the result for logs and metrics.
func (r Result) Outcome() string {
	switch {
	case r.Err == nil:
		return OutcomeLoaded
	case r.Missing:
		return OutcomeMissing
	default:
		return OutcomeFailed
	}
}

// MetricsRecorder receives per-load observations. Satisfied by
// observability.LoaderCollector; nil disables recording.
type MetricsRecorder interface {
	RecordLoad(role, outcome string, d time.Duration)
	IncResizes()
}

// Option configures a Loader.
type Option func(*Loader)

func WithLogger(log logging.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

func WithMetricsRecorder(rec MetricsRecorder) Option {
	return func(l *Loader) { l.metrics = rec }
}

// WithMaxDimension overrides the texture size cap. Zero or negative
// disables downscaling.
func WithMaxDimension(px int) Option {
	return func(l *Loader) { l.maxDim = px }
}

// Loader reads textures for a fixed asset directory.
type Loader struct {
	dir     string
	maxDim  int
	log     logging.Logger
	metrics MetricsRecorder
}

// NewLoader builds a loader rooted at dir.
func NewLoader(dir string, opts ...Option) *Loader {
	l := &Loader{
		dir:    dir,
		maxDim: DefaultMaxDimension,
		log:    logging.Noop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start launches one load per role and returns the result channel. The
// channel is buffered for every role and closed once all loads finish, so
// the caller can drain it incrementally between frames without blocking
// the workers.
func (l *Loader) Start(ctx context.Context, roles []model.AssetRole) <-chan Result {
	results := make(chan Result, len(roles))

	var wg sync.WaitGroup
	for _, role := range roles {
		wg.Add(1)
		go func(role model.AssetRole) {
			defer wg.Done()
			results <- l.loadRole(ctx, role)
		}(role)
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	return results
}

func (l *Loader) loadRole(ctx context.Context, role model.AssetRole) Result {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "assets.LoadTexture",
		trace.WithAttributes(attribute.String("asset.role", role.String())))
	defer span.End()

	start := time.Now()
	path := filepath.Join(l.dir, role.Filename())

	res := Result{Role: role}
	res.Image, res.Resized, res.Err = l.loadFile(path)
	res.Elapsed = time.Since(start)
	res.Missing = errors.Is(res.Err, fs.ErrNotExist)

	span.SetAttributes(
		attribute.String("asset.outcome", res.Outcome()),
		attribute.Bool("asset.resized", res.Resized),
	)
	if res.Err != nil && !res.Missing {
		span.RecordError(res.Err)
	}

	switch res.Outcome() {
	case OutcomeLoaded:
		bounds := res.Image.Bounds()
		l.log.Info(ctx, "texture loaded",
			logging.String("role", role.String()),
			logging.Int("width", bounds.Dx()),
			logging.Int("height", bounds.Dy()),
			logging.Duration("elapsed", res.Elapsed),
		)
	case OutcomeMissing:
		// Optional roles are allowed to be absent; the material keeps
		// its flat color either way.
		if role.Optional() {
			l.log.Debug(ctx, "optional texture absent", logging.String("role", role.String()))
		} else {
			l.log.Warn(ctx, "texture missing", logging.String("role", role.String()), logging.String("path", path))
		}
	default:
		l.log.Error(ctx, "texture load failed", logging.String("role", role.String()), logging.Err(res.Err))
	}

	if l.metrics != nil {
		l.metrics.RecordLoad(role.String(), res.Outcome(), res.Elapsed)
		if res.Resized {
			l.metrics.IncResizes()
		}
	}
	return res
}

func (l *Loader) loadFile(path string) (image.Image, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, false, err
	}

	if l.maxDim > 0 {
		if resized := capSize(img, l.maxDim); resized != img {
			return resized, true, nil
		}
	}
	return img, false, nil
}

// capSize downscales img so its longest side is at most maxDim, preserving
// aspect ratio. Images already within the cap come back untouched.
func capSize(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	if w >= h {
		h = h * maxDim / w
		w = maxDim
	} else {
		w = w * maxDim / h
		h = maxDim
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return transform.Resize(img, w, h, transform.Linear)
}
