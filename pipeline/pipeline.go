// Package pipeline orchestrates plot analysis end to end: registry lookup,
// satellite imagery, vision classification, scoring and ranking. Every
// per-plot failure is represented as data on the AnalysisResult, never as
// an error crossing out of the analyzer.
package pipeline

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"landscout/registry"
	"landscout/report"
	"landscout/types"
)

// RegistryGateway is the cadastral lookup contract.
type RegistryGateway interface {
	FindByPoint(ctx context.Context, lat, lon float64) (*registry.RawRecord, error)
	FindByID(ctx context.Context, cadastralNumber string) (*registry.RawRecord, error)
	FindInBoundingBox(ctx context.Context, bbox types.BoundingBox, limit int) ([]registry.RawRecord, error)
}

// ImageryGateway is the satellite snapshot contract.
type ImageryGateway interface {
	FetchSatellite(ctx context.Context, coord types.Coordinate, zoom, width, height int) ([]byte, error)
}

// VisionClassifier is the occupancy classification contract.
type VisionClassifier interface {
	ClassifyOccupancy(ctx context.Context, image []byte, details types.PlotDetails) (types.OccupancyJudgement, error)
}

// Archiver persists analysis results to long-term storage. Optional.
type Archiver interface {
	SaveAnalysisResult(ctx context.Context, res types.AnalysisResult) error
}

// Pacer spaces out calls to rate-limited external services.
type Pacer interface {
	Wait(ctx context.Context) error
}

type limiterPacer struct {
	limiter *rate.Limiter
}

func (p *limiterPacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

type noopPacer struct{}

func (noopPacer) Wait(ctx context.Context) error { return nil }

// NewPacer returns a pacer admitting one call per delay. A non-positive
// delay returns a no-op pacer, which tests rely on.
func NewPacer(delay time.Duration) Pacer {
	if delay <= 0 {
		return noopPacer{}
	}
	return &limiterPacer{limiter: rate.NewLimiter(rate.Every(delay), 1)}
}

// Options configures a Pipeline.
type Options struct {
	SatelliteZoom int
	ImageWidth    int
	ImageHeight   int

	// ClassifyPacer runs before each vision call, ScanPacer between
	// plots during an area scan. Nil fields get the defaults (1s / 2s).
	ClassifyPacer Pacer
	ScanPacer     Pacer

	// Reports enables artifact persistence; Archive enables the
	// long-term store. Either may be nil.
	Reports *report.Writer
	Archive Archiver
}

// Pipeline sequences the three gateways for single plots, areas, and
// ranked suitability searches. Execution is strictly sequential; pacing
// is the only rate control.
type Pipeline struct {
	registry RegistryGateway
	imagery  ImageryGateway
	vision   VisionClassifier

	zoom   int
	width  int
	height int

	classifyPacer Pacer
	scanPacer     Pacer

	reports *report.Writer
	archive Archiver
}

// New creates a pipeline over the given gateways.
func New(reg RegistryGateway, img ImageryGateway, vis VisionClassifier, opts Options) *Pipeline {
	if opts.SatelliteZoom == 0 {
		opts.SatelliteZoom = 18
	}
	if opts.ImageWidth == 0 {
		opts.ImageWidth = 800
	}
	if opts.ImageHeight == 0 {
		opts.ImageHeight = 600
	}
	if opts.ClassifyPacer == nil {
		opts.ClassifyPacer = NewPacer(time.Second)
	}
	if opts.ScanPacer == nil {
		opts.ScanPacer = NewPacer(2 * time.Second)
	}

	return &Pipeline{
		registry:      reg,
		imagery:       img,
		vision:        vis,
		zoom:          opts.SatelliteZoom,
		width:         opts.ImageWidth,
		height:        opts.ImageHeight,
		classifyPacer: opts.ClassifyPacer,
		scanPacer:     opts.ScanPacer,
		reports:       opts.Reports,
		archive:       opts.Archive,
	}
}
