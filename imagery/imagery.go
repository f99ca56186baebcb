// Package imagery fetches satellite snapshots from the static maps API.
package imagery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"landscout/types"
)

const defaultBaseURL = "https://static-maps.yandex.ru/1.x/"

const fetchTimeout = 30 * time.Second

// Client retrieves static map tiles centered on a coordinate.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewClient creates an imagery client. The API key is optional; some
// request volumes work without one.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: fetchTimeout},
		baseURL:    defaultBaseURL,
	}
}

// NewClientWithBaseURL creates a client against a custom endpoint.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

// FetchSatellite returns the satellite layer centered on the coordinate.
func (c *Client) FetchSatellite(ctx context.Context, coord types.Coordinate, zoom, width, height int) ([]byte, error) {
	return c.fetch(ctx, coord, zoom, width, height, "sat", "")
}

// FetchHybrid returns the satellite layer with label overlay.
func (c *Client) FetchHybrid(ctx context.Context, coord types.Coordinate, zoom, width, height int) ([]byte, error) {
	return c.fetch(ctx, coord, zoom, width, height, "sat,skl", "")
}

// FetchWithMarker returns the satellite layer with a marker dropped on the
// coordinate. markerStyle follows the static API point styles (pm2rdm is a
// red placemark).
func (c *Client) FetchWithMarker(ctx context.Context, coord types.Coordinate, zoom, width, height int, markerStyle string) ([]byte, error) {
	if markerStyle == "" {
		markerStyle = "pm2rdm"
	}
	marker := fmt.Sprintf("%f,%f,%s", coord.Lon, coord.Lat, markerStyle)
	return c.fetch(ctx, coord, zoom, width, height, "sat", marker)
}

func (c *Client) fetch(ctx context.Context, coord types.Coordinate, zoom, width, height int, layers, marker string) ([]byte, error) {
	if !coord.Valid() {
		return nil, fmt.Errorf("invalid coordinate %s", coord)
	}

	// The static API takes lon,lat order.
	params := url.Values{}
	params.Set("ll", fmt.Sprintf("%f,%f", coord.Lon, coord.Lat))
	params.Set("z", fmt.Sprintf("%d", zoom))
	params.Set("l", layers)
	params.Set("size", fmt.Sprintf("%d,%d", width, height))
	if marker != "" {
		params.Set("pt", marker)
	}
	if c.apiKey != "" {
		params.Set("apikey", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating imagery request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imagery request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("imagery service returned HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading imagery response: %w", err)
	}

	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return nil, fmt.Errorf("imagery service returned non-image payload (%d bytes)", len(data))
	}

	return data, nil
}
