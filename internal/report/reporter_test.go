package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yacobolo/prism"
)

func TestPluralizeCount(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "0 components"},
		{1, "1 component"},
		{7, "7 components"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, pluralizeCount(tt.count, "component", "components"))
	}
}

func TestRenderStyle_NoColors(t *testing.T) {
	assert.Equal(t, "plain", RenderStyle(StyleCyan, "plain", false))
}

func TestPrintBuild(t *testing.T) {
	var buf bytes.Buffer
	r := &Reporter{w: &buf}

	r.PrintBuild(&prism.BuildResult{
		FilesScanned: 3,
		Skipped:      1,
		Components: []*prism.ComponentMeta{
			{Tag: "arc-button", Tier: "reactive"},
			{Tag: "arc-badge", Tier: "content"},
		},
		BarrelsUpdated: 4,
		StylesWritten:  2,
		Warnings:       []string{"react barrel /tmp/x/index.ts not found, skipped"},
	})

	out := buf.String()
	assert.Contains(t, out, "Files scanned: 3")
	assert.Contains(t, out, "Components: 2 (1 file skipped)")
	assert.Contains(t, out, "Barrels updated: 4")
	assert.Contains(t, out, "Stylesheets written: 2")
	assert.Contains(t, out, "* content: 1 component")
	assert.Contains(t, out, "* reactive: 1 component")
	assert.Contains(t, out, "1 warning:")
	assert.Contains(t, out, "react barrel /tmp/x/index.ts not found, skipped")
}

func TestPrintBuild_NoWarnings(t *testing.T) {
	var buf bytes.Buffer
	r := &Reporter{w: &buf}

	r.PrintBuild(&prism.BuildResult{})

	out := buf.String()
	assert.Contains(t, out, "Build complete")
	assert.NotContains(t, out, "warning")
	assert.NotContains(t, out, "Stylesheets written")
}
