// Package registry is the gateway to the public cadastral map API. It
// resolves plots by coordinate, by cadastral number, and by bounding box,
// and extracts plot details and center coordinates from raw records.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"landscout/types"
)

const defaultBaseURL = "https://pkk.rosreestr.ru/api"

// ErrNotFound is returned when the registry has no record for the query.
var ErrNotFound = errors.New("plot not found in cadastral registry")

// ErrNoGeometry is returned when a record carries neither a center point
// nor a usable extent.
var ErrNoGeometry = errors.New("could not extract coordinates from plot record")

const (
	pointTimeout = 10 * time.Second
	areaTimeout  = 30 * time.Second
)

// Client queries the cadastral map features API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a registry client against the public API.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    defaultBaseURL,
	}
}

// NewClientWithBaseURL creates a client against a custom endpoint.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    baseURL,
	}
}

// RawRecord is one feature as delivered by the registry.
type RawRecord struct {
	Attrs  Attrs   `json:"attrs"`
	Center *Center `json:"center,omitempty"`
	Extent *Extent `json:"extent,omitempty"`
}

// Attrs carries the registry attributes of a plot.
type Attrs struct {
	CN           string  `json:"cn"`
	AreaValue    float64 `json:"area_value"`
	AreaUnit     string  `json:"area_unit"`
	CategoryType string  `json:"category_type"`
	UtilByDoc    string  `json:"util_by_doc"`
	Address      string  `json:"address"`
	CadCost      float64 `json:"cad_cost"`
}

// Center is the plot's center point. The registry delivers x as longitude
// and y as latitude; PlotCoordinates performs the axis conversion.
type Center struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Extent is the plot's bounding extent, same axis convention as Center.
type Extent struct {
	XMin float64 `json:"xmin"`
	YMin float64 `json:"ymin"`
	XMax float64 `json:"xmax"`
	YMax float64 `json:"ymax"`
}

type featuresResponse struct {
	Features []RawRecord `json:"features"`
}

type featureResponse struct {
	Feature *RawRecord `json:"feature"`
}

// FindByPoint returns the first plot covering the given coordinate, or
// ErrNotFound.
func (c *Client) FindByPoint(ctx context.Context, lat, lon float64) (*RawRecord, error) {
	if !(types.Coordinate{Lat: lat, Lon: lon}).Valid() {
		return nil, fmt.Errorf("invalid coordinate (%f, %f)", lat, lon)
	}

	params := url.Values{}
	params.Set("text", fmt.Sprintf("%f %f", lat, lon))
	params.Set("tolerance", "4")
	params.Set("limit", "40")

	var out featuresResponse
	if err := c.getJSON(ctx, pointTimeout, "/features/1", params, &out); err != nil {
		return nil, err
	}
	if len(out.Features) == 0 {
		return nil, ErrNotFound
	}
	return &out.Features[0], nil
}

// FindByID returns the plot with the given cadastral number, or ErrNotFound.
func (c *Client) FindByID(ctx context.Context, cadastralNumber string) (*RawRecord, error) {
	if !types.ValidCadastralNumber(cadastralNumber) {
		return nil, fmt.Errorf("malformed cadastral number %q", cadastralNumber)
	}

	var out featureResponse
	err := c.getJSON(ctx, pointTimeout, "/features/1/"+url.PathEscape(cadastralNumber), nil, &out)
	if err != nil {
		return nil, err
	}
	if out.Feature == nil {
		return nil, ErrNotFound
	}
	return out.Feature, nil
}

// FindInBoundingBox returns up to limit plots inside bbox. The area is
// passed to the API as a WKT polygon text query.
func (c *Client) FindInBoundingBox(ctx context.Context, bbox types.BoundingBox, limit int) ([]RawRecord, error) {
	if !bbox.Valid() {
		return nil, fmt.Errorf("invalid bounding box %+v", bbox)
	}

	wkt := fmt.Sprintf("POLYGON((%f %f,%f %f,%f %f,%f %f,%f %f))",
		bbox.MinLon, bbox.MinLat,
		bbox.MaxLon, bbox.MinLat,
		bbox.MaxLon, bbox.MaxLat,
		bbox.MinLon, bbox.MaxLat,
		bbox.MinLon, bbox.MinLat)

	params := url.Values{}
	params.Set("text", wkt)
	params.Set("limit", fmt.Sprintf("%d", limit))

	var out featuresResponse
	if err := c.getJSON(ctx, areaTimeout, "/features/1", params, &out); err != nil {
		return nil, err
	}
	return out.Features, nil
}

func (c *Client) getJSON(ctx context.Context, timeout time.Duration, path string, params url.Values, dst interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating registry request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("registry request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("registry returned HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding registry response: %w", err)
	}
	return nil
}

// PlotDetails extracts the scoring-relevant attributes of a record.
// Missing fields get a sentinel, never a null.
func PlotDetails(rec *RawRecord) types.PlotDetails {
	d := types.PlotDetails{
		CadastralNumber: rec.Attrs.CN,
		Area:            rec.Attrs.AreaValue,
		AreaUnit:        rec.Attrs.AreaUnit,
		Category:        rec.Attrs.CategoryType,
		PermittedUse:    rec.Attrs.UtilByDoc,
		Address:         rec.Attrs.Address,
		Cost:            rec.Attrs.CadCost,
	}
	if d.CadastralNumber == "" {
		d.CadastralNumber = "N/A"
	}
	if d.AreaUnit == "" {
		d.AreaUnit = "m²"
	}
	if d.Category == "" {
		d.Category = "N/A"
	}
	if d.PermittedUse == "" {
		d.PermittedUse = "N/A"
	}
	if d.Address == "" {
		d.Address = "N/A"
	}
	return d
}

// PlotCoordinates resolves a record to a lat/lon center. The explicit
// center point wins; otherwise the extent midpoint is used. Axis order is
// converted here and nowhere else: registry x is longitude, y is latitude.
func PlotCoordinates(rec *RawRecord) (types.Coordinate, error) {
	if rec.Center != nil {
		return types.Coordinate{Lat: rec.Center.Y, Lon: rec.Center.X}, nil
	}
	if rec.Extent != nil {
		return types.Coordinate{
			Lat: (rec.Extent.YMin + rec.Extent.YMax) / 2,
			Lon: (rec.Extent.XMin + rec.Extent.XMax) / 2,
		}, nil
	}
	return types.Coordinate{}, ErrNoGeometry
}
