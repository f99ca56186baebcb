package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landscout/registry"
	"landscout/types"
)

func TestAnalyzeSingleSuccess(t *testing.T) {
	reg := &fakeRegistry{record: plotRecord("78:12:1234567:890", 6000)}
	img := &fakeImagery{data: []byte("png-bytes")}
	vis := &fakeVision{judgement: types.OccupancyJudgement{
		IsOccupied:        boolPtr(false),
		Confidence:        types.ConfidenceHigh,
		BuildingsDetected: false,
	}}

	res := testPipeline(reg, img, vis).AnalyzeSingle(context.Background(), types.PlotIdentity{
		CadastralNumber: "78:12:1234567:890",
	})

	assert.Equal(t, types.StatusSuccess, res.Status)
	assert.Equal(t, "78:12:1234567:890", res.PlotDetails.CadastralNumber)
	require.NotNil(t, res.Coordinates)
	assert.InDelta(t, 59.93, res.Coordinates.Lat, 1e-9)
	assert.InDelta(t, 30.36, res.Coordinates.Lon, 1e-9)
	require.NotNil(t, res.Analysis)
	assert.True(t, res.Analysis.Vacant())
	assert.False(t, res.Timestamp.IsZero())
	assert.Equal(t, 1, reg.idCalls)
	assert.Equal(t, 0, reg.pointCalls)
}

// Registry has no record: the analyzer stops before any imagery or
// classification work.
func TestAnalyzeSingleNotFoundShortCircuits(t *testing.T) {
	reg := &fakeRegistry{err: registry.ErrNotFound}
	img := &fakeImagery{data: []byte("png-bytes")}
	vis := &fakeVision{}

	res := testPipeline(reg, img, vis).AnalyzeSingle(context.Background(), types.PlotIdentity{
		Coordinate: &types.Coordinate{Lat: 59.93, Lon: 30.36},
	})

	assert.Equal(t, types.StatusNotFound, res.Status)
	assert.Nil(t, res.Analysis)
	assert.Equal(t, 0, img.calls)
	assert.Equal(t, 0, vis.calls)
}

func TestAnalyzeSingleNeitherIdentityForm(t *testing.T) {
	reg := &fakeRegistry{}
	res := testPipeline(reg, &fakeImagery{}, &fakeVision{}).AnalyzeSingle(context.Background(), types.PlotIdentity{})

	assert.Equal(t, types.StatusError, res.Status)
	assert.Contains(t, res.Error, "invalid argument")
	assert.Equal(t, 0, reg.idCalls)
	assert.Equal(t, 0, reg.pointCalls)
}

func TestAnalyzeSingleRegistryFailure(t *testing.T) {
	reg := &fakeRegistry{err: errors.New("connection refused")}

	res := testPipeline(reg, &fakeImagery{}, &fakeVision{}).AnalyzeSingle(context.Background(), types.PlotIdentity{
		CadastralNumber: "78:12:1234567:890",
	})

	assert.Equal(t, types.StatusError, res.Status)
	assert.Contains(t, res.Error, "registry lookup")
}

func TestAnalyzeSingleNoGeometry(t *testing.T) {
	rec := plotRecord("78:12:1234567:890", 6000)
	rec.Center = nil
	reg := &fakeRegistry{record: rec}
	img := &fakeImagery{data: []byte("png-bytes")}

	res := testPipeline(reg, img, &fakeVision{}).AnalyzeSingle(context.Background(), types.PlotIdentity{
		CadastralNumber: "78:12:1234567:890",
	})

	assert.Equal(t, types.StatusError, res.Status)
	assert.Contains(t, res.Error, "could not extract coordinates")
	assert.Equal(t, 0, img.calls)
}

// Extent midpoint is the fallback when the record has no center point.
func TestAnalyzeSingleExtentFallback(t *testing.T) {
	rec := plotRecord("78:12:1234567:890", 6000)
	rec.Center = nil
	rec.Extent = &registry.Extent{XMin: 30.30, YMin: 59.90, XMax: 30.40, YMax: 59.96}
	reg := &fakeRegistry{record: rec}
	vis := &fakeVision{judgement: types.OccupancyJudgement{IsOccupied: boolPtr(true), Confidence: types.ConfidenceHigh}}

	res := testPipeline(reg, &fakeImagery{data: []byte("x")}, vis).AnalyzeSingle(context.Background(), types.PlotIdentity{
		CadastralNumber: "78:12:1234567:890",
	})

	require.Equal(t, types.StatusSuccess, res.Status)
	require.NotNil(t, res.Coordinates)
	assert.InDelta(t, 59.93, res.Coordinates.Lat, 1e-9)
	assert.InDelta(t, 30.35, res.Coordinates.Lon, 1e-9)
}

// Imagery failure is a plot-level error, but the registry details survive
// on the result and no classification is attempted.
func TestAnalyzeSingleImageryFailureKeepsDetails(t *testing.T) {
	reg := &fakeRegistry{record: plotRecord("78:12:1234567:890", 6000)}
	img := &fakeImagery{err: errors.New("504 gateway timeout")}
	vis := &fakeVision{}

	res := testPipeline(reg, img, vis).AnalyzeSingle(context.Background(), types.PlotIdentity{
		CadastralNumber: "78:12:1234567:890",
	})

	assert.Equal(t, types.StatusError, res.Status)
	assert.Contains(t, res.Error, "failed to get satellite image")
	assert.Equal(t, "78:12:1234567:890", res.PlotDetails.CadastralNumber)
	assert.Nil(t, res.Analysis)
	assert.Equal(t, 0, vis.calls)
}

// Classification failure never fails the plot: the result is a success
// carrying an inconclusive judgement.
func TestAnalyzeSingleClassificationFailureDegrades(t *testing.T) {
	reg := &fakeRegistry{record: plotRecord("78:12:1234567:890", 6000)}
	vis := &fakeVision{err: errors.New("model overloaded")}

	res := testPipeline(reg, &fakeImagery{data: []byte("x")}, vis).AnalyzeSingle(context.Background(), types.PlotIdentity{
		CadastralNumber: "78:12:1234567:890",
	})

	assert.Equal(t, types.StatusSuccess, res.Status)
	require.NotNil(t, res.Analysis)
	assert.Nil(t, res.Analysis.IsOccupied)
	assert.Equal(t, types.ConfidenceLow, res.Analysis.Confidence)
	assert.Contains(t, res.Analysis.Error, "model overloaded")
	assert.False(t, res.Analysis.Vacant())
}

// Status and judgement presence always line up.
func TestAnalysisResultStatusJudgementInvariant(t *testing.T) {
	cases := []struct {
		name string
		reg  *fakeRegistry
		img  *fakeImagery
	}{
		{"success", &fakeRegistry{record: plotRecord("78:12:1234567:890", 100)}, &fakeImagery{data: []byte("x")}},
		{"not_found", &fakeRegistry{err: registry.ErrNotFound}, &fakeImagery{}},
		{"error", &fakeRegistry{err: errors.New("boom")}, &fakeImagery{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := testPipeline(tc.reg, tc.img, &fakeVision{}).AnalyzeSingle(context.Background(), types.PlotIdentity{
				CadastralNumber: "78:12:1234567:890",
			})

			assert.Contains(t, []types.Status{types.StatusSuccess, types.StatusNotFound, types.StatusError}, res.Status)
			if res.Status == types.StatusSuccess {
				assert.NotNil(t, res.Analysis)
			} else {
				assert.Nil(t, res.Analysis)
			}
		})
	}
}
