package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"landscout/db"
	"landscout/types"
)

// GetVacantPlots lists every archived plot classified as vacant. Returns
// 503 when the archive is not configured.
func GetVacantPlots(c *gin.Context, store *db.Store) {
	if store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "result archive not configured"})
		return
	}

	plots, err := store.GetVacantPlots(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(plots),
		"plots": plots,
	})
}

// GetPlot returns the latest archived result for a cadastral number.
func GetPlot(c *gin.Context, store *db.Store) {
	if store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "result archive not configured"})
		return
	}

	cn := c.Param("cn")
	if !types.ValidCadastralNumber(cn) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed cadastral number"})
		return
	}

	plot, err := store.GetPlot(c.Request.Context(), cn)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "plot not in archive"})
		return
	}

	c.JSON(http.StatusOK, plot)
}
