package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"landscout/registry"
	"landscout/report"
	"landscout/types"
)

// AnalyzeArea analyzes every plot the registry returns inside bbox, capped
// at maxPlots, sequentially and in registry order. Plots whose records
// carry no usable geometry are skipped and contribute no result. A failed
// bounding-box query degrades to an empty list.
func (p *Pipeline) AnalyzeArea(ctx context.Context, bbox types.BoundingBox, maxPlots int) []types.AnalysisResult {
	zap.S().Infow("searching plots in area", "bbox", bbox, "max_plots", maxPlots)

	records, err := p.registry.FindInBoundingBox(ctx, bbox, maxPlots)
	if err != nil {
		zap.S().Errorw("area search failed", "bbox", bbox, "error", err)
		return []types.AnalysisResult{}
	}
	if len(records) > maxPlots {
		records = records[:maxPlots]
	}

	zap.S().Infow("found plots in area", "count", len(records))

	results := make([]types.AnalysisResult, 0, len(records))

	for i := range records {
		coord, err := registry.PlotCoordinates(&records[i])
		if err != nil {
			zap.S().Warnw("skipping plot without usable geometry", "index", i, "cn", records[i].Attrs.CN)
			continue
		}

		if len(results) > 0 {
			if err := p.scanPacer.Wait(ctx); err != nil {
				zap.S().Warnw("area scan interrupted", "error", err)
				break
			}
		}

		results = append(results, p.AnalyzeSingle(ctx, types.PlotIdentity{Coordinate: &coord}))
	}

	vacant := VacantPlots(results)
	zap.S().Infow("area analysis complete", "analyzed", len(results), "vacant", len(vacant))

	if p.reports != nil {
		rep := report.AreaReport{
			Timestamp:          time.Now(),
			TotalPlotsAnalyzed: len(results),
			VacantPlotsFound:   len(vacant),
			SuccessRate:        SuccessRate(results),
			AllResults:         results,
			VacantPlots:        vacant,
		}
		if _, err := p.reports.SaveAreaReport(rep); err != nil {
			zap.S().Warnw("failed to save area report", "error", err)
		}
	}

	return results
}

// VacantPlots returns the successful results whose judgement positively
// established vacancy. Unknown occupancy counts as occupied.
func VacantPlots(results []types.AnalysisResult) []types.AnalysisResult {
	vacant := make([]types.AnalysisResult, 0)
	for _, r := range results {
		if r.Status == types.StatusSuccess && r.Analysis.Vacant() {
			vacant = append(vacant, r)
		}
	}
	return vacant
}

// SuccessRate is the share of successful results, 0 for an empty list.
func SuccessRate(results []types.AnalysisResult) float64 {
	if len(results) == 0 {
		return 0
	}
	successes := 0
	for _, r := range results {
		if r.Status == types.StatusSuccess {
			successes++
		}
	}
	return float64(successes) / float64(len(results))
}
