package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"landscout/pipeline"
	"landscout/types"
)

// AnalyzePlot runs a single-plot analysis by cadastral number or by
// coordinates.
func AnalyzePlot(c *gin.Context, p *pipeline.Pipeline) {
	var request struct {
		CadastralNumber string   `json:"cadastral_number"`
		Lat             *float64 `json:"lat"`
		Lon             *float64 `json:"lon"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := types.PlotIdentity{}
	switch {
	case request.CadastralNumber != "":
		if !types.ValidCadastralNumber(request.CadastralNumber) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed cadastral number"})
			return
		}
		identity.CadastralNumber = request.CadastralNumber
	case request.Lat != nil && request.Lon != nil:
		coord := types.Coordinate{Lat: *request.Lat, Lon: *request.Lon}
		if !coord.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "coordinates out of range"})
			return
		}
		identity.Coordinate = &coord
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide cadastral_number or lat and lon"})
		return
	}

	result := p.AnalyzeSingle(c.Request.Context(), identity)
	c.JSON(http.StatusOK, result)
}
