package types

import (
	"fmt"
	"regexp"
)

// cadastral numbers look like 78:12:1234567:890
var cadastralNumberRe = regexp.MustCompile(`^\d+:\d+:\d+:\d+$`)

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat" firestore:"lat"`
	Lon float64 `json:"lon" firestore:"lon"`
}

// Valid reports whether the coordinate is inside the WGS84 value range.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", c.Lat, c.Lon)
}

// BoundingBox is a rectangular geographic region.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Valid reports whether both corners are valid coordinates and the
// minimums do not exceed the maximums.
func (b BoundingBox) Valid() bool {
	min := Coordinate{Lat: b.MinLat, Lon: b.MinLon}
	max := Coordinate{Lat: b.MaxLat, Lon: b.MaxLon}
	return min.Valid() && max.Valid() && b.MinLat <= b.MaxLat && b.MinLon <= b.MaxLon
}

// PlotIdentity initiates a lookup either by cadastral number or by
// coordinate. Exactly one form should be set by the caller; both may be
// populated once the plot is resolved.
type PlotIdentity struct {
	CadastralNumber string     `json:"cadastral_number,omitempty"`
	Coordinate      *Coordinate `json:"coordinate,omitempty"`
}

// ValidCadastralNumber reports whether s has the four-group numeric form.
func ValidCadastralNumber(s string) bool {
	return cadastralNumberRe.MatchString(s)
}

// PlotDetails holds the registry attributes of a plot. Missing registry
// fields default to "N/A" or 0 so downstream scoring never sees nulls.
type PlotDetails struct {
	CadastralNumber string  `json:"cadastral_number" firestore:"cadastralNumber"`
	Area            float64 `json:"area" firestore:"area"`
	AreaUnit        string  `json:"area_unit" firestore:"areaUnit"`
	Category        string  `json:"category" firestore:"category"`
	PermittedUse    string  `json:"permitted_use" firestore:"permittedUse"`
	Address         string  `json:"address" firestore:"address"`
	Cost            float64 `json:"cost" firestore:"cost"`
}
