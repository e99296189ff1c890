package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/yacobolo/prism"
)

// Format selects how build results are printed
type Format string

// Output formats
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// DetermineFormat maps a --format value to a Format.
// Unknown or empty values fall back to text.
func DetermineFormat(flag string) Format {
	switch flag {
	case "json":
		return FormatJSON
	default:
		return FormatText
	}
}

// JSONOutput represents the structured JSON export schema
type JSONOutput struct {
	Version   string          `json:"version"`
	Timestamp string          `json:"timestamp"`
	Summary   JSONSummary     `json:"summary"`
	Tiers     map[string]int  `json:"tiers"`
	Warnings  []string        `json:"warnings"`
	Manifest  *prism.Manifest `json:"manifest"`
}

// JSONSummary contains high-level build counts
type JSONSummary struct {
	FilesScanned   int `json:"files_scanned"`
	Components     int `json:"components"`
	Skipped        int `json:"skipped"`
	BarrelsUpdated int `json:"barrels_updated"`
	StylesWritten  int `json:"styles_written"`
}

// WriteJSON writes the build result as JSON
func WriteJSON(w io.Writer, result *prism.BuildResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildJSONOutput(result, time.Now()))
}

// buildJSONOutput converts BuildResult to JSONOutput
func buildJSONOutput(result *prism.BuildResult, now time.Time) JSONOutput {
	tiers := make(map[string]int)
	for _, c := range result.Components {
		tiers[c.Tier]++
	}

	warnings := result.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	components := result.Components
	if components == nil {
		components = []*prism.ComponentMeta{}
	}

	return JSONOutput{
		Version:   prism.ManifestVersion,
		Timestamp: now.UTC().Format(time.RFC3339),
		Summary: JSONSummary{
			FilesScanned:   result.FilesScanned,
			Components:     len(result.Components),
			Skipped:        result.Skipped,
			BarrelsUpdated: result.BarrelsUpdated,
			StylesWritten:  result.StylesWritten,
		},
		Tiers:    tiers,
		Warnings: warnings,
		Manifest: &prism.Manifest{Version: prism.ManifestVersion, Components: components},
	}
}
