package vision

import (
	"encoding/json"
	"regexp"
	"strings"

	"landscout/types"
)

// jsonBlockRe matches the first JSON object in a reply, tolerating one
// level of nesting. Models often wrap the object in prose or code fences.
var jsonBlockRe = regexp.MustCompile(`(?s)\{[^{}]*(?:\{[^{}]*\}[^{}]*)*\}`)

// ParseJudgement maps free-form model output onto an OccupancyJudgement.
// It never fails: structured extraction is attempted first; if the reply
// contains no JSON object, keyword heuristics apply; an unparseable JSON
// block degrades to an inconclusive low-confidence judgement. The
// heuristics are part of observable behavior:
//
//   - is_occupied:              reply mentions "occupied" or "buildings present"
//   - buildings_detected:       reply mentions "building" or "structure"
//   - suitable_for_development: reply mentions "vacant" or "suitable"
func ParseJudgement(text string) types.OccupancyJudgement {
	if block := jsonBlockRe.FindString(text); block != "" {
		var j types.OccupancyJudgement
		if err := json.Unmarshal([]byte(block), &j); err != nil {
			return types.OccupancyJudgement{
				IsOccupied:  nil,
				Confidence:  types.ConfidenceLow,
				Description: text,
				Error:       "unparseable model output: " + err.Error(),
			}
		}
		j.Confidence = types.NormalizeConfidence(string(j.Confidence))
		return j
	}

	return keywordFallback(text)
}

// keywordFallback derives a judgement from plain prose.
func keywordFallback(text string) types.OccupancyJudgement {
	lower := strings.ToLower(text)

	occupied := strings.Contains(lower, "occupied") || strings.Contains(lower, "buildings present")

	return types.OccupancyJudgement{
		IsOccupied:             &occupied,
		Confidence:             types.ConfidenceMedium,
		Description:            text,
		BuildingsDetected:      strings.Contains(lower, "building") || strings.Contains(lower, "structure"),
		VegetationLevel:        "unknown",
		SuitableForDevelopment: strings.Contains(lower, "vacant") || strings.Contains(lower, "suitable"),
		Recommendations:        "Requires on-site verification",
	}
}
