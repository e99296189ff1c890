package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yacobolo/prism"
)

func TestDetermineFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, DetermineFormat("json"))
	assert.Equal(t, FormatText, DetermineFormat("text"))
	assert.Equal(t, FormatText, DetermineFormat(""))
	assert.Equal(t, FormatText, DetermineFormat("yaml"))
}

func TestBuildJSONOutput(t *testing.T) {
	result := &prism.BuildResult{
		FilesScanned:   3,
		Skipped:        1,
		BarrelsUpdated: 4,
		Components: []*prism.ComponentMeta{
			{Tag: "arc-button", Tier: "reactive"},
			{Tag: "arc-toggle", Tier: "reactive"},
		},
	}

	out := buildJSONOutput(result, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	assert.Equal(t, "2026-01-02T03:04:05Z", out.Timestamp)
	assert.Equal(t, 2, out.Summary.Components)
	assert.Equal(t, 4, out.Summary.BarrelsUpdated)
	assert.Equal(t, map[string]int{"reactive": 2}, out.Tiers)
	assert.Equal(t, []string{}, out.Warnings)
	assert.Len(t, out.Manifest.Components, 2)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, &prism.BuildResult{Warnings: []string{"react barrel x not found, skipped"}}))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "1", decoded["version"])
	assert.Equal(t, []any{"react barrel x not found, skipped"}, decoded["warnings"])
}
