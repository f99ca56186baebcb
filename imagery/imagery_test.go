package imagery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landscout/types"
)

// Minimal valid PNG header, enough for content sniffing.
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

var testCoord = types.Coordinate{Lat: 59.93, Lon: 30.36}

func TestFetchSatellite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "30.360000,59.930000", q.Get("ll"))
		assert.Equal(t, "18", q.Get("z"))
		assert.Equal(t, "sat", q.Get("l"))
		assert.Equal(t, "800,600", q.Get("size"))
		assert.Empty(t, q.Get("apikey"))

		w.Write(pngBytes)
	}))
	defer srv.Close()

	data, err := NewClientWithBaseURL("", srv.URL).FetchSatellite(context.Background(), testCoord, 18, 800, 600)

	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
}

func TestFetchHybridLayers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sat,skl", r.URL.Query().Get("l"))
		w.Write(pngBytes)
	}))
	defer srv.Close()

	_, err := NewClientWithBaseURL("", srv.URL).FetchHybrid(context.Background(), testCoord, 18, 800, 600)
	require.NoError(t, err)
}

func TestFetchWithMarkerDefaultStyle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "30.360000,59.930000,pm2rdm", r.URL.Query().Get("pt"))
		w.Write(pngBytes)
	}))
	defer srv.Close()

	_, err := NewClientWithBaseURL("", srv.URL).FetchWithMarker(context.Background(), testCoord, 18, 800, 600, "")
	require.NoError(t, err)
}

func TestFetchSendsAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("apikey"))
		w.Write(pngBytes)
	}))
	defer srv.Close()

	_, err := NewClientWithBaseURL("secret", srv.URL).FetchSatellite(context.Background(), testCoord, 18, 800, 600)
	require.NoError(t, err)
}

func TestFetchRejectsNonImagePayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"limit exceeded"}`))
	}))
	defer srv.Close()

	_, err := NewClientWithBaseURL("", srv.URL).FetchSatellite(context.Background(), testCoord, 18, 800, 600)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "non-image payload")
}

func TestFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewClientWithBaseURL("", srv.URL).FetchSatellite(context.Background(), testCoord, 18, 800, 600)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestFetchInvalidCoordinate(t *testing.T) {
	_, err := NewClient("").FetchSatellite(context.Background(), types.Coordinate{Lat: 120, Lon: 30}, 18, 800, 600)
	assert.Error(t, err)
}
