// Package report persists analysis artifacts: per-plot results, area
// summaries, ranked shortlists, and the fetched satellite images.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"landscout/types"
)

// Writer writes artifacts under a single output directory, append-only:
// every artifact is a new file.
type Writer struct {
	outputDir string
}

// NewWriter creates the output directory (and its images/ subdirectory)
// if needed.
func NewWriter(outputDir string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Join(outputDir, "images"), 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Writer{outputDir: outputDir}, nil
}

// SanitizeID makes an identifier safe for use in file names. Cadastral
// numbers contain colons; coordinate keys may contain slashes.
func SanitizeID(id string) string {
	id = strings.ReplaceAll(id, ":", "_")
	id = strings.ReplaceAll(id, "/", "_")
	return id
}

// SaveImage stores a satellite snapshot and returns its path.
func (w *Writer) SaveImage(id string, data []byte) (string, error) {
	path := filepath.Join(w.outputDir, "images", fmt.Sprintf("plot_%s.png", SanitizeID(id)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("saving satellite image: %w", err)
	}
	return path, nil
}

// SaveResult stores one analysis result keyed by the sanitized identifier.
func (w *Writer) SaveResult(res types.AnalysisResult, id string) (string, error) {
	path := filepath.Join(w.outputDir, fmt.Sprintf("result_%s.json", SanitizeID(id)))
	return path, w.writeJSON(path, res)
}

// AreaReport summarizes one bounding-box scan.
type AreaReport struct {
	Timestamp          time.Time              `json:"timestamp"`
	TotalPlotsAnalyzed int                    `json:"total_plots_analyzed"`
	VacantPlotsFound   int                    `json:"vacant_plots_found"`
	SuccessRate        float64                `json:"success_rate"`
	AllResults         []types.AnalysisResult `json:"all_results"`
	VacantPlots        []types.AnalysisResult `json:"vacant_plots"`
}

// SaveAreaReport stores an area report keyed by its timestamp.
func (w *Writer) SaveAreaReport(rep AreaReport) (string, error) {
	path := filepath.Join(w.outputDir, fmt.Sprintf("area_report_%d.json", rep.Timestamp.Unix()))
	return path, w.writeJSON(path, rep)
}

// SuitabilityReport holds the ranked shortlist of one suitability search.
type SuitabilityReport struct {
	Timestamp          time.Time                    `json:"timestamp"`
	TotalSuitablePlots int                          `json:"total_suitable_plots"`
	Plots              []types.SuitabilityCandidate `json:"plots"`
}

// SaveSuitabilityReport stores the shortlist as JSON plus a Markdown
// digest of the top candidates, both keyed by the report timestamp.
func (w *Writer) SaveSuitabilityReport(rep SuitabilityReport) (string, error) {
	path := filepath.Join(w.outputDir, fmt.Sprintf("suitable_plots_%d.json", rep.Timestamp.Unix()))
	if err := w.writeJSON(path, rep); err != nil {
		return "", err
	}

	mdPath := filepath.Join(w.outputDir, fmt.Sprintf("suitable_plots_%d.md", rep.Timestamp.Unix()))
	if err := os.WriteFile(mdPath, []byte(shortlistMarkdown(rep)), 0o644); err != nil {
		return "", fmt.Errorf("saving markdown shortlist: %w", err)
	}

	return path, nil
}

const shortlistLimit = 10

// shortlistMarkdown renders the top candidates as a table.
func shortlistMarkdown(rep SuitabilityReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Suitable plots - %s\n\n", rep.Timestamp.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Total candidates: %d\n\n", rep.TotalSuitablePlots)

	if len(rep.Plots) == 0 {
		b.WriteString("No suitable plots found.\n")
		return b.String()
	}

	b.WriteString("| # | Cadastral number | Score | Area | Address |\n")
	b.WriteString("|---|---|---|---|---|\n")

	for i, plot := range rep.Plots {
		if i >= shortlistLimit {
			break
		}
		d := plot.PlotDetails
		fmt.Fprintf(&b, "| %d | %s | %.1f | %.0f %s | %s |\n",
			i+1, d.CadastralNumber, plot.SuitabilityScore, d.Area, d.AreaUnit, d.Address)
	}

	return b.String()
}

func (w *Writer) writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}
