package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"landscout/config"
	"landscout/geocode"
	"landscout/pipeline"
	"landscout/types"
)

// areaRequest addresses a scan either by explicit bounds or by a place
// name resolved through the geocoder.
type areaRequest struct {
	District string   `json:"district"`
	MinLat   *float64 `json:"min_lat"`
	MinLon   *float64 `json:"min_lon"`
	MaxLat   *float64 `json:"max_lat"`
	MaxLon   *float64 `json:"max_lon"`
	MinArea  *float64 `json:"min_area"`
	MaxPlots int      `json:"max_plots"`
}

func (r areaRequest) bounds(ctx context.Context) (types.BoundingBox, error) {
	if r.District != "" {
		return geocode.AreaForPlace(ctx, r.District)
	}
	if r.MinLat == nil || r.MinLon == nil || r.MaxLat == nil || r.MaxLon == nil {
		return types.BoundingBox{}, fmt.Errorf("provide district or all four bounds")
	}
	bbox := types.BoundingBox{MinLat: *r.MinLat, MinLon: *r.MinLon, MaxLat: *r.MaxLat, MaxLon: *r.MaxLon}
	if !bbox.Valid() {
		return types.BoundingBox{}, fmt.Errorf("invalid bounding box")
	}
	return bbox, nil
}

// ScanArea analyzes every plot in the requested area and returns the
// results plus the scan summary.
func ScanArea(c *gin.Context, p *pipeline.Pipeline, cfg config.Config) {
	var request areaRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bbox, err := request.bounds(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	maxPlots := request.MaxPlots
	if maxPlots <= 0 {
		maxPlots = cfg.MaxPlotsToAnalyze
	}

	results := p.AnalyzeArea(c.Request.Context(), bbox, maxPlots)

	c.JSON(http.StatusOK, gin.H{
		"total_plots_analyzed": len(results),
		"vacant_plots_found":   len(pipeline.VacantPlots(results)),
		"success_rate":         pipeline.SuccessRate(results),
		"results":              results,
	})
}

// FindSuitablePlots returns the ranked shortlist for the requested area.
func FindSuitablePlots(c *gin.Context, p *pipeline.Pipeline, cfg config.Config) {
	var request areaRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bbox, err := request.bounds(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	minArea := cfg.MinPlotArea
	if request.MinArea != nil {
		minArea = *request.MinArea
	}
	maxPlots := request.MaxPlots
	if maxPlots <= 0 {
		maxPlots = cfg.MaxPlotsToAnalyze
	}

	plots := p.FindSuitablePlots(c.Request.Context(), bbox, minArea, maxPlots)

	c.JSON(http.StatusOK, gin.H{
		"total_suitable_plots": len(plots),
		"plots":                plots,
	})
}
