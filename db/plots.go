package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"landscout/types"
)

const plotsCollection = "plots"

// Store archives analysis results under the plots collection, one
// document per plot keyed by its hashed cadastral number. Re-analyzing a
// plot overwrites its document with the latest result.
type Store struct {
	client *firestore.Client
}

// NewStore wraps a Firestore client.
func NewStore(client *firestore.Client) *Store {
	return &Store{client: client}
}

// SaveAnalysisResult stores one result. Results without a cadastral
// number (lookups that never resolved) are keyed by coordinate instead.
func (s *Store) SaveAnalysisResult(ctx context.Context, res types.AnalysisResult) error {
	docID := HashString(resultKey(res))

	_, err := s.client.Collection(plotsCollection).Doc(docID).Set(ctx, res)
	if err != nil {
		return fmt.Errorf("archiving analysis result: %w", err)
	}
	return nil
}

// GetPlot retrieves the latest archived result for a cadastral number.
func (s *Store) GetPlot(ctx context.Context, cadastralNumber string) (*types.AnalysisResult, error) {
	doc, err := s.client.Collection(plotsCollection).Doc(HashString(cadastralNumber)).Get(ctx)
	if err != nil {
		return nil, err
	}

	var res types.AnalysisResult
	if err := doc.DataTo(&res); err != nil {
		return nil, fmt.Errorf("decoding archived result: %w", err)
	}
	return &res, nil
}

// GetVacantPlots returns every archived plot positively classified as
// vacant.
func (s *Store) GetVacantPlots(ctx context.Context) ([]types.AnalysisResult, error) {
	iter := s.client.Collection(plotsCollection).
		Where("analysis.isOccupied", "==", false).
		Documents(ctx)
	defer iter.Stop()

	var results []types.AnalysisResult
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating vacant plots: %w", err)
		}

		var res types.AnalysisResult
		if err := doc.DataTo(&res); err != nil {
			return nil, fmt.Errorf("decoding archived result: %w", err)
		}
		results = append(results, res)
	}

	return results, nil
}

func resultKey(res types.AnalysisResult) string {
	if cn := res.PlotDetails.CadastralNumber; cn != "" && cn != "N/A" {
		return cn
	}
	if res.Coordinates != nil {
		return res.Coordinates.String()
	}
	return res.Timestamp.String()
}
