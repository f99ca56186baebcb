// Package geocode resolves place names to scan areas through the Google
// Maps Geocoding API. Known districts bypass the API entirely.
package geocode

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"googlemaps.github.io/maps"

	"landscout/config"
	"landscout/types"
)

// mapsClient is a singleton maps client instance.
var (
	mapsClient *maps.Client
	clientOnce sync.Once
	clientErr  error
)

// InitMapsClient initializes and returns a singleton Google Maps client.
func InitMapsClient() (*maps.Client, error) {
	clientOnce.Do(func() {
		apiKey := os.Getenv("MAPS_CREDENTIALS")
		if apiKey == "" {
			clientErr = fmt.Errorf("MAPS_CREDENTIALS environment variable not set")
			return
		}
		mapsClient, clientErr = maps.NewClient(maps.WithAPIKey(apiKey))
	})
	return mapsClient, clientErr
}

// AreaForPlace resolves a place name to a bounding box. Configured
// district names win; anything else goes to the geocoder, using the
// result's bounds (or viewport when the result carries no bounds).
func AreaForPlace(ctx context.Context, place string) (types.BoundingBox, error) {
	if bbox, ok := config.Districts[strings.ToLower(strings.TrimSpace(place))]; ok {
		return bbox, nil
	}

	client, err := InitMapsClient()
	if err != nil {
		return types.BoundingBox{}, err
	}

	results, err := client.Geocode(ctx, &maps.GeocodingRequest{Address: place})
	if err != nil {
		return types.BoundingBox{}, fmt.Errorf("geocoding %q: %w", place, err)
	}
	if len(results) == 0 {
		return types.BoundingBox{}, fmt.Errorf("no geocode results for %q", place)
	}

	bounds := results[0].Geometry.Bounds
	if bounds.NorthEast == (maps.LatLng{}) && bounds.SouthWest == (maps.LatLng{}) {
		bounds = results[0].Geometry.Viewport
	}

	bbox := types.BoundingBox{
		MinLat: bounds.SouthWest.Lat,
		MinLon: bounds.SouthWest.Lng,
		MaxLat: bounds.NorthEast.Lat,
		MaxLon: bounds.NorthEast.Lng,
	}
	if !bbox.Valid() {
		return types.BoundingBox{}, fmt.Errorf("geocode result for %q has no usable bounds", place)
	}
	return bbox, nil
}
