package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"landscout/types"
)

// Config holds all environment-sourced settings. Every field except the
// vision credential has a default.
type Config struct {
	// Credentials
	OpenAIAPIKey     string // OPENAI_API_KEY, required
	StaticMapsAPIKey string // STATIC_MAPS_API_KEY, optional
	MapsCredentials  string // MAPS_CREDENTIALS, optional (district geocoding)
	FirebaseCreds    string // FIREBASE_CREDENTIALS, optional (result archive)

	// Output
	OutputDir string

	// Analysis settings
	MinPlotArea       float64
	MaxPlotsToAnalyze int

	// Satellite image settings
	SatelliteZoom int
	ImageWidth    int
	ImageHeight   int

	// Pacing between external calls
	RequestDelay time.Duration

	// Server / scheduling
	Port         string
	ScanSchedule string // cron expression, empty disables scheduled scans

	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment, applying defaults.
func Load() Config {
	return Config{
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		StaticMapsAPIKey:  os.Getenv("STATIC_MAPS_API_KEY"),
		MapsCredentials:   os.Getenv("MAPS_CREDENTIALS"),
		FirebaseCreds:     os.Getenv("FIREBASE_CREDENTIALS"),
		OutputDir:         getEnv("OUTPUT_DIR", "output"),
		MinPlotArea:       getEnvFloat("MIN_PLOT_AREA", 1000),
		MaxPlotsToAnalyze: getEnvInt("MAX_PLOTS_TO_ANALYZE", 20),
		SatelliteZoom:     getEnvInt("SATELLITE_ZOOM_LEVEL", 18),
		ImageWidth:        getEnvInt("IMAGE_WIDTH", 800),
		ImageHeight:       getEnvInt("IMAGE_HEIGHT", 600),
		RequestDelay:      time.Duration(getEnvInt("REQUEST_DELAY", 2)) * time.Second,
		Port:              getEnv("PORT", "8080"),
		ScanSchedule:      os.Getenv("SCAN_SCHEDULE"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "console"),
	}
}

// Validate checks the required settings. A missing vision credential is a
// hard startup failure; everything else degrades gracefully.
func (c Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required; set it in .env or the environment")
	}
	if c.MaxPlotsToAnalyze <= 0 {
		return fmt.Errorf("MAX_PLOTS_TO_ANALYZE must be positive, got %d", c.MaxPlotsToAnalyze)
	}
	if c.SatelliteZoom < 0 || c.SatelliteZoom > 21 {
		return fmt.Errorf("SATELLITE_ZOOM_LEVEL must be in [0,21], got %d", c.SatelliteZoom)
	}
	return nil
}

// CityBounds is the approximate metro-wide bounding box.
var CityBounds = types.BoundingBox{
	MinLat: 59.7,
	MinLon: 29.5,
	MaxLat: 60.2,
	MaxLon: 30.8,
}

// Districts maps named city districts to their approximate bounds, for
// scheduled scans and district-addressed API requests.
var Districts = map[string]types.BoundingBox{
	"primorsky":  {MinLat: 59.95, MinLon: 30.20, MaxLat: 60.05, MaxLon: 30.40},
	"vyborgsky":  {MinLat: 60.00, MinLon: 30.30, MaxLat: 60.10, MaxLon: 30.45},
	"kalininsky": {MinLat: 59.97, MinLon: 30.35, MaxLat: 60.05, MaxLon: 30.50},
	"tsentralny": {MinLat: 59.90, MinLon: 30.25, MaxLat: 59.95, MaxLon: 30.40},
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
