package pipeline

import (
	"context"

	"landscout/registry"
	"landscout/types"
)

// fakeRegistry returns canned records and counts calls.
type fakeRegistry struct {
	record  *registry.RawRecord
	records []registry.RawRecord
	err     error
	areaErr error

	pointCalls int
	idCalls    int
	areaCalls  int
}

func (f *fakeRegistry) FindByPoint(ctx context.Context, lat, lon float64) (*registry.RawRecord, error) {
	f.pointCalls++
	return f.record, f.err
}

func (f *fakeRegistry) FindByID(ctx context.Context, cadastralNumber string) (*registry.RawRecord, error) {
	f.idCalls++
	return f.record, f.err
}

func (f *fakeRegistry) FindInBoundingBox(ctx context.Context, bbox types.BoundingBox, limit int) ([]registry.RawRecord, error) {
	f.areaCalls++
	if f.areaErr != nil {
		return nil, f.areaErr
	}
	if len(f.records) > limit {
		return f.records[:limit], nil
	}
	return f.records, nil
}

type fakeImagery struct {
	data  []byte
	err   error
	calls int
}

func (f *fakeImagery) FetchSatellite(ctx context.Context, coord types.Coordinate, zoom, width, height int) ([]byte, error) {
	f.calls++
	return f.data, f.err
}

type fakeVision struct {
	judgement types.OccupancyJudgement
	err       error
	calls     int
}

func (f *fakeVision) ClassifyOccupancy(ctx context.Context, image []byte, details types.PlotDetails) (types.OccupancyJudgement, error) {
	f.calls++
	if f.err != nil {
		return types.OccupancyJudgement{}, f.err
	}
	return f.judgement, nil
}

// testPipeline builds a pipeline over the fakes with pacing disabled.
func testPipeline(reg RegistryGateway, img ImageryGateway, vis VisionClassifier) *Pipeline {
	return New(reg, img, vis, Options{
		ClassifyPacer: NewPacer(0),
		ScanPacer:     NewPacer(0),
	})
}

func boolPtr(b bool) *bool { return &b }

// plotRecord builds a registry record with a center point.
func plotRecord(cn string, area float64) *registry.RawRecord {
	return &registry.RawRecord{
		Attrs: registry.Attrs{
			CN:        cn,
			AreaValue: area,
			AreaUnit:  "m²",
			Address:   "Test address",
		},
		Center: &registry.Center{X: 30.36, Y: 59.93},
	}
}
