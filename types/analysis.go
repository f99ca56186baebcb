package types

import "time"

// Status classifies the outcome of one plot analysis attempt.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusNotFound Status = "not_found"
	StatusError    Status = "error"
)

// Confidence is the classifier's discrete certainty level.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// NormalizeConfidence maps arbitrary model output onto the three levels.
// Anything unrecognized becomes low.
func NormalizeConfidence(s string) Confidence {
	switch Confidence(s) {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return Confidence(s)
	}
	return ConfidenceLow
}

// OccupancyJudgement is the structured output of the vision classifier.
// IsOccupied is nil when classification failed or was inconclusive.
type OccupancyJudgement struct {
	IsOccupied             *bool      `json:"is_occupied" firestore:"isOccupied"`
	Confidence             Confidence `json:"confidence" firestore:"confidence"`
	Description            string     `json:"description" firestore:"description"`
	BuildingsDetected      bool       `json:"buildings_detected" firestore:"buildingsDetected"`
	VegetationLevel        string     `json:"vegetation_level" firestore:"vegetationLevel"`
	SuitableForDevelopment bool       `json:"suitable_for_development" firestore:"suitableForDevelopment"`
	Recommendations        string     `json:"recommendations" firestore:"recommendations"`
	Error                  string     `json:"error,omitempty" firestore:"error,omitempty"`
}

// Vacant reports whether the judgement positively established that the
// plot carries no structures. A nil IsOccupied counts as occupied.
func (j *OccupancyJudgement) Vacant() bool {
	return j != nil && j.IsOccupied != nil && !*j.IsOccupied
}

// AnalysisResult is the unit of work output for one plot. It is created
// once per analysis attempt and never mutated afterwards. Analysis is
// present exactly when Status is StatusSuccess.
type AnalysisResult struct {
	Status         Status              `json:"status" firestore:"status"`
	Timestamp      time.Time           `json:"timestamp" firestore:"timestamp"`
	Error          string              `json:"error,omitempty" firestore:"error,omitempty"`
	PlotDetails    PlotDetails         `json:"plot_details" firestore:"plotDetails"`
	Coordinates    *Coordinate         `json:"coordinates,omitempty" firestore:"coordinates,omitempty"`
	SatelliteImage string              `json:"satellite_image,omitempty" firestore:"satelliteImage,omitempty"`
	Analysis       *OccupancyJudgement `json:"analysis,omitempty" firestore:"analysis,omitempty"`
}

// SuitabilityCandidate is a successful, vacant, sufficiently large
// AnalysisResult augmented with its 0-100 suitability score.
type SuitabilityCandidate struct {
	AnalysisResult
	SuitabilityScore float64 `json:"suitability_score" firestore:"suitabilityScore"`
}
