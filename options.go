package shapego

import (
	"log/slog"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/shapego/internal/fs"
)

type options struct {
	alignment        AlignmentMode
	landmarks        *roaring.Bitmap
	tolerance        float64
	tempDir          string
	fsys             fs.FileSystem
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures representer construction and load behavior.
type Option func(*options)

// WithAlignment selects how incoming datasets are registered onto the
// reference before conversion. The default is AlignNone.
//
// When loading, the mode stored in the container takes precedence.
func WithAlignment(mode AlignmentMode) Option {
	return func(o *options) {
		o.alignment = mode
	}
}

// WithLandmarks restricts alignment to the given reference point ids. The
// transform is estimated from these points only and then applied to the
// whole dataset, so outliers elsewhere do not distort the registration.
//
// Example:
//
//	rep, _ := shapego.NewMeshRepresenter(ref,
//	    shapego.WithAlignment(shapego.AlignRigid),
//	    shapego.WithLandmarks(0, 17, 42, 99))
func WithLandmarks(ids ...uint32) Option {
	return func(o *options) {
		o.landmarks = roaring.BitmapOf(ids...)
	}
}

// WithPointTolerance bounds the distance accepted by PointIDForPoint.
// Zero, the default, accepts the nearest reference point at any distance.
func WithPointTolerance(tol float64) Option {
	return func(o *options) {
		o.tolerance = tol
	}
}

// WithTempDir sets the directory used for scratch files when a reference
// is round-tripped through its native file format. Defaults to os.TempDir.
func WithTempDir(dir string) Option {
	return func(o *options) {
		o.tempDir = dir
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &shapego.BasicMetricsCollector{}
//	rep, _ := shapego.NewMeshRepresenter(ref, shapego.WithMetricsCollector(metrics))
//	// ... use rep ...
//	stats := metrics.GetStats()
//	fmt.Printf("Conversions: %d, Avg latency: %dns\n", stats.ConversionCount, stats.ConversionAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := shapego.NewJSONLogger(slog.LevelInfo)
//	rep, _ := shapego.NewMeshRepresenter(ref, shapego.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// withFileSystem routes scratch and container file access through fsys.
func withFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		o.fsys = fsys
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		alignment:        AlignNone,
		fsys:             fs.Default,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
