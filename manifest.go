package prism

import (
	"encoding/json"
	"io"
)

// ManifestVersion is the schema version written by WriteManifest.
const ManifestVersion = "1"

// Manifest is the JSON document describing parsed components
type Manifest struct {
	Version    string           `json:"version"`
	Components []*ComponentMeta `json:"components"`
}

// WriteManifest writes metas as an indented JSON manifest.
func WriteManifest(w io.Writer, metas []*ComponentMeta) error {
	manifest := Manifest{
		Version:    ManifestVersion,
		Components: metas,
	}
	if manifest.Components == nil {
		manifest.Components = []*ComponentMeta{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(manifest)
}
