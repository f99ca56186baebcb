package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"landscout/registry"
	"landscout/types"
)

// AnalyzeSingle runs the full analysis for one plot: registry lookup,
// satellite snapshot, occupancy classification. It never returns an
// error; every failure mode is encoded in the result status.
func (p *Pipeline) AnalyzeSingle(ctx context.Context, identity types.PlotIdentity) types.AnalysisResult {
	zap.S().Infow("starting plot analysis", "identity", identityKey(identity))

	res := p.analyzePlot(ctx, identity)

	if res.Status == types.StatusSuccess {
		p.persist(ctx, res, identityKey(identity))
		zap.S().Infow("plot analysis complete",
			"cadastral_number", res.PlotDetails.CadastralNumber,
			"is_occupied", res.Analysis.IsOccupied)
	} else {
		zap.S().Warnw("plot analysis did not succeed",
			"identity", identityKey(identity),
			"status", res.Status,
			"error", res.Error)
	}

	return res
}

// analyzePlot is the per-plot fault boundary: any panic below becomes a
// status=error result.
func (p *Pipeline) analyzePlot(ctx context.Context, identity types.PlotIdentity) (res types.AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			zap.S().Errorw("plot analysis panicked", "panic", r)
			res = errorResult(fmt.Sprintf("internal error: %v", r))
		}
	}()

	// Resolve the identity to a raw registry record. Exactly one lookup
	// mode per call.
	var rec *registry.RawRecord
	var err error
	switch {
	case identity.CadastralNumber != "":
		rec, err = p.registry.FindByID(ctx, identity.CadastralNumber)
	case identity.Coordinate != nil:
		rec, err = p.registry.FindByPoint(ctx, identity.Coordinate.Lat, identity.Coordinate.Lon)
	default:
		return errorResult("invalid argument: either cadastral number or coordinates must be provided")
	}
	if errors.Is(err, registry.ErrNotFound) {
		// Terminal for this plot; no imagery or classification calls.
		return types.AnalysisResult{
			Status:    types.StatusNotFound,
			Timestamp: time.Now(),
			Error:     "plot not found in cadastral registry",
		}
	}
	if err != nil {
		return errorResult(fmt.Sprintf("registry lookup: %v", err))
	}

	details := registry.PlotDetails(rec)
	coord, err := registry.PlotCoordinates(rec)
	if err != nil {
		return errorResult("could not extract coordinates from plot record")
	}

	zap.S().Infow("plot resolved", "cadastral_number", details.CadastralNumber, "coordinates", coord)

	// Satellite snapshot. On failure the registry details survive on the
	// error result for diagnostics.
	image, err := p.imagery.FetchSatellite(ctx, coord, p.zoom, p.width, p.height)
	if err != nil {
		r := errorResult(fmt.Sprintf("failed to get satellite image: %v", err))
		r.PlotDetails = details
		r.Coordinates = &coord
		return r
	}

	imagePath := p.saveImage(details.CadastralNumber, image)

	// Pace before the classifier call, then classify. A classifier
	// failure degrades to an inconclusive judgement; the plot still
	// counts as analyzed.
	if err := p.classifyPacer.Wait(ctx); err != nil {
		return errorResult(fmt.Sprintf("pacing interrupted: %v", err))
	}

	judgement, err := p.vision.ClassifyOccupancy(ctx, image, details)
	if err != nil {
		zap.S().Warnw("classification failed, recording inconclusive judgement",
			"cadastral_number", details.CadastralNumber, "error", err)
		judgement = types.OccupancyJudgement{
			IsOccupied: nil,
			Confidence: types.ConfidenceLow,
			Error:      err.Error(),
		}
	}

	return types.AnalysisResult{
		Status:         types.StatusSuccess,
		Timestamp:      time.Now(),
		PlotDetails:    details,
		Coordinates:    &coord,
		SatelliteImage: imagePath,
		Analysis:       &judgement,
	}
}

// saveImage stores the snapshot when a report writer is configured. A
// write failure is logged, not fatal: the image path just stays empty.
func (p *Pipeline) saveImage(cadastralNumber string, image []byte) string {
	if p.reports == nil {
		return ""
	}
	path, err := p.reports.SaveImage(cadastralNumber, image)
	if err != nil {
		zap.S().Warnw("failed to save satellite image", "cadastral_number", cadastralNumber, "error", err)
		return ""
	}
	return path
}

// persist writes the per-plot result file and the archive entry.
func (p *Pipeline) persist(ctx context.Context, res types.AnalysisResult, key string) {
	if p.reports != nil {
		if path, err := p.reports.SaveResult(res, key); err != nil {
			zap.S().Warnw("failed to save result file", "key", key, "error", err)
		} else {
			zap.S().Debugw("result saved", "path", path)
		}
	}
	if p.archive != nil {
		if err := p.archive.SaveAnalysisResult(ctx, res); err != nil {
			zap.S().Warnw("failed to archive result", "key", key, "error", err)
		}
	}
}

// identityKey names a plot for files and logs: the cadastral number when
// given, otherwise the lookup coordinate.
func identityKey(identity types.PlotIdentity) string {
	if identity.CadastralNumber != "" {
		return identity.CadastralNumber
	}
	if identity.Coordinate != nil {
		return fmt.Sprintf("%f_%f", identity.Coordinate.Lat, identity.Coordinate.Lon)
	}
	return "unknown"
}

func errorResult(msg string) types.AnalysisResult {
	return types.AnalysisResult{
		Status:    types.StatusError,
		Timestamp: time.Now(),
		Error:     msg,
	}
}
