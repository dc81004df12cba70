package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/stellarfoundry/orrery/assets"
	"github.com/stellarfoundry/orrery/internal/logging"
	"github.com/stellarfoundry/orrery/internal/observability"
	"github.com/stellarfoundry/orrery/model"
	"github.com/stellarfoundry/orrery/render"
	"github.com/stellarfoundry/orrery/scene"
)

const tracerName = "github.com/stellarfoundry/orrery/cmd/orrery"

func main() {
	scenePath := flag.String("scene", "configs/scene.json", "Path to a JSON scene description")
	assetDir := flag.String("assets", "", "Texture directory, overriding the scene file")
	httpAddr := flag.String("http-addr", ":9090", "HTTP address for Prometheus /metrics and the /status snapshot")
	interval := flag.Duration("interval", render.DefaultInterval, "Target frame interval")
	seed := flag.Int64("seed", 0, "Starfield seed override; 0 keeps the scene file value")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	shutdownTracing, err := observability.InitTracing(runCtx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.Err(err))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdownTracing, log)

	frames, err := observability.NewFrameCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise frame metrics", logging.Err(err))
		os.Exit(1)
	}
	loads, err := observability.NewLoaderCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise loader metrics", logging.Err(err))
		os.Exit(1)
	}

	cfg, err := loadScene(ctx, log, *scenePath)
	if err != nil {
		log.Error(ctx, "failed to load scene description", logging.String("path", *scenePath), logging.Err(err))
		os.Exit(1)
	}
	if *assetDir != "" {
		cfg.AssetDir = *assetDir
	}
	if *seed != 0 {
		cfg.Starfield.Seed = *seed
	}

	assembleCtx, span := otel.Tracer(tracerName).Start(runCtx, "scene.Assemble")
	world, err := scene.Assemble(assembleCtx, cfg, nil,
		scene.WithLogger(logging.WithComponent(log, "scene")),
		scene.WithMetricsRecorder(frames),
	)
	if err != nil {
		span.RecordError(err)
		span.End()
		log.Error(ctx, "failed to assemble scene", logging.Err(err))
		os.Exit(1)
	}
	span.End()

	loader := assets.NewLoader(cfg.AssetDir,
		assets.WithLogger(logging.WithComponent(log, "assets")),
		assets.WithMetricsRecorder(loads),
	)
	results := loader.Start(runCtx, model.TextureRoles())

	// The readout only changes once per second; log transitions, not frames.
	var lastClock string
	readout := render.ReadoutFunc(func(text string) {
		if text == lastClock {
			return
		}
		lastClock = text
		log.Debug(ctx, "utc readout", logging.String("clock", text))
	})

	loop := render.NewLoop(world,
		render.WithSurface(render.NewHeadlessSurface(1280, 720)),
		render.WithCameraRig(render.NewOrbitRig(45, 12, 0.02)),
		render.WithReadout(readout),
		render.WithInterval(*interval),
		render.WithLogger(logging.WithComponent(log, "render")),
		render.WithFrameMetrics(frames),
		render.WithTextureMetrics(loads),
		render.WithAssetResults(results),
	)

	httpSrv := serveHTTP(*httpAddr, frames, loop, log)

	log.Info(ctx, "starting scene loop",
		logging.Int("bodies", world.BodyCount()),
		logging.Int("satellites", len(world.Satellites)),
		logging.Int("stars", world.StarCount()),
		logging.Duration("interval", *interval),
	)
	loop.Run(runCtx)

	log.Info(ctx, "shutting down", logging.Any("frames", loop.Frames()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if httpSrv != nil {
		_ = httpSrv.Shutdown(shutdownCtx)
	}
}

// loadScene reads the scene description, falling back to the built-in
// defaults when the file is absent. A present but malformed file is a
// hard error.
func loadScene(ctx context.Context, log logging.Logger, path string) (scene.Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info(ctx, "scene file not found, using built-in defaults", logging.String("path", path))
		return scene.DefaultConfig(), nil
	}
	if err != nil {
		return scene.Config{}, err
	}
	defer f.Close()
	return scene.LoadConfig(f)
}

func serveHTTP(addr string, collector *observability.FrameCollector, loop *render.Loop, log logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	mux.Handle("/status", loop.StatusHandler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "http server exited", logging.Err(err))
		}
	}()

	log.Info(context.Background(), "serving metrics and status", logging.String("addr", addr))
	return srv
}
