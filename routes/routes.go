package routes

import (
	"github.com/gin-gonic/gin"

	"landscout/config"
	"landscout/db"
	"landscout/handlers"
	"landscout/pipeline"
)

func SetupRouter(p *pipeline.Pipeline, store *db.Store, cfg config.Config) *gin.Engine {
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Hello, welcome to landscout!",
		})
	})

	// api routes
	api := r.Group("/api/landscout")
	{
		api.POST("/analyze", func(c *gin.Context) {
			handlers.AnalyzePlot(c, p)
		})
		api.POST("/scan", func(c *gin.Context) {
			handlers.ScanArea(c, p, cfg)
		})
		api.POST("/suitable", func(c *gin.Context) {
			handlers.FindSuitablePlots(c, p, cfg)
		})
		api.GET("/vacant", func(c *gin.Context) {
			handlers.GetVacantPlots(c, store)
		})
		api.GET("/plots/:cn", func(c *gin.Context) {
			handlers.GetPlot(c, store)
		})
	}

	return r
}
