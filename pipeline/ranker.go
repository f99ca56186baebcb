package pipeline

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"landscout/report"
	"landscout/types"
)

const (
	// --- Suitability score contributions ---

	// Classification confidence
	confidenceHighPoints   = 30.0
	confidenceMediumPoints = 20.0
	confidenceLowPoints    = 10.0

	// Plot area (m²); bigger is better up to a cap
	largeAreaSqm  = 5000.0
	mediumAreaSqm = 2000.0
	smallAreaSqm  = 1000.0

	largeAreaPoints  = 30.0
	mediumAreaPoints = 20.0
	smallAreaPoints  = 10.0

	noBuildingsPoints = 20.0
	suitablePoints    = 20.0

	maxScore = 100.0
)

// FindSuitablePlots scans bbox and returns the vacant, sufficiently large
// plots ranked by suitability score, best first.
func (p *Pipeline) FindSuitablePlots(ctx context.Context, bbox types.BoundingBox, minArea float64, maxPlots int) []types.SuitabilityCandidate {
	zap.S().Infow("starting search for suitable plots", "bbox", bbox, "min_area", minArea, "max_plots", maxPlots)

	results := p.AnalyzeArea(ctx, bbox, maxPlots)
	candidates := RankPlots(results, minArea)

	zap.S().Infow("suitability search complete", "candidates", len(candidates))

	if p.reports != nil {
		rep := report.SuitabilityReport{
			Timestamp:          time.Now(),
			TotalSuitablePlots: len(candidates),
			Plots:              candidates,
		}
		if _, err := p.reports.SaveSuitabilityReport(rep); err != nil {
			zap.S().Warnw("failed to save suitability report", "error", err)
		}
	}

	return candidates
}

// RankPlots filters results down to suitability candidates and sorts them
// by score, descending. The sort is stable so equal scores keep registry
// order. The gate is vacancy plus area only; the judgement's
// suitable_for_development flag contributes to the score but does not
// filter.
func RankPlots(results []types.AnalysisResult, minArea float64) []types.SuitabilityCandidate {
	candidates := make([]types.SuitabilityCandidate, 0)

	for _, r := range results {
		if r.Status != types.StatusSuccess {
			continue
		}
		if !r.Analysis.Vacant() {
			continue
		}
		if r.PlotDetails.Area < minArea {
			continue
		}
		candidates = append(candidates, types.SuitabilityCandidate{
			AnalysisResult:   r,
			SuitabilityScore: SuitabilityScore(r),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].SuitabilityScore > candidates[j].SuitabilityScore
	})

	return candidates
}

// SuitabilityScore computes the 0-100 score of one result. Deterministic:
// the same result always scores the same.
func SuitabilityScore(r types.AnalysisResult) float64 {
	score := 0.0

	if r.Analysis != nil {
		switch r.Analysis.Confidence {
		case types.ConfidenceHigh:
			score += confidenceHighPoints
		case types.ConfidenceMedium:
			score += confidenceMediumPoints
		default:
			score += confidenceLowPoints
		}

		if !r.Analysis.BuildingsDetected {
			score += noBuildingsPoints
		}
		if r.Analysis.SuitableForDevelopment {
			score += suitablePoints
		}
	}

	switch area := r.PlotDetails.Area; {
	case area >= largeAreaSqm:
		score += largeAreaPoints
	case area >= mediumAreaSqm:
		score += mediumAreaPoints
	case area >= smallAreaSqm:
		score += smallAreaPoints
	}

	if score > maxScore {
		score = maxScore
	}
	return score
}
