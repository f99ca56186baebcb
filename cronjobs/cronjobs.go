package cronjobs

import (
	"context"
	"sort"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"landscout/config"
	"landscout/pipeline"
)

// InitCronJobs schedules recurring suitability sweeps over the configured
// districts. Disabled when no schedule is set.
func InitCronJobs(p *pipeline.Pipeline, cfg config.Config) *cron.Cron {
	if cfg.ScanSchedule == "" {
		zap.S().Info("scheduled scans disabled (SCAN_SCHEDULE not set)")
		return nil
	}

	// Stable sweep order across runs.
	districts := make([]string, 0, len(config.Districts))
	for name := range config.Districts {
		districts = append(districts, name)
	}
	sort.Strings(districts)

	c := cron.New()

	_, err := c.AddFunc(cfg.ScanSchedule, func() {
		zap.S().Infow("cronjob: district sweep starting", "districts", len(districts))

		for _, name := range districts {
			bbox := config.Districts[name]
			plots := p.FindSuitablePlots(context.Background(), bbox, cfg.MinPlotArea, cfg.MaxPlotsToAnalyze)
			zap.S().Infow("cronjob: district scanned", "district", name, "suitable_plots", len(plots))
		}
	})
	if err != nil {
		zap.S().Errorw("error scheduling district sweep", "schedule", cfg.ScanSchedule, "error", err)
		return nil
	}

	c.Start()
	zap.S().Infow("scheduled scans started", "schedule", cfg.ScanSchedule)
	return c
}
