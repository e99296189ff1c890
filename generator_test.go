package prism

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupProject copies the fixture components into a fresh project root.
func setupProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, rel := range []string{
		"reactive/arc-button.js",
		"reactive/not-a-component.js",
		"content/arc-card.js",
	} {
		data, err := os.ReadFile(filepath.Join("testdata", "components", filepath.FromSlash(rel)))
		require.NoError(t, err)
		dst := filepath.Join(root, "src", "components", filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))
		require.NoError(t, os.WriteFile(dst, data, 0o644))
	}
	return root
}

func TestBuild_Barrels(t *testing.T) {
	root := setupProject(t)
	touch(t, root, "packages/react/reactive/index.ts", "packages/react/index.ts", "packages/wc/index.js")
	require.NoError(t, os.WriteFile(filepath.Join(root, "packages", "wc", "index.js"),
		[]byte("export { ArcIcon } from './reactive/index.js';\n"), 0o644))

	result, err := Build(Config{
		RootDir:    root,
		Components: "src/components",
		Tiers:      []string{"content", "reactive"},
		Prefix:     "arc",
		Out:        "packages",
		Frameworks: []Framework{React, WebComponents},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.FilesScanned)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Components, 2)
	assert.Equal(t, "arc-card", result.Components[0].Tag)
	assert.Equal(t, "arc-button", result.Components[1].Tag)

	// react: reactive tier + root for Button, root for Card; wc: root merge for Button and Card
	assert.Equal(t, 5, result.BarrelsUpdated)

	reactTier := readFile(t, filepath.Join(root, "packages", "react", "reactive", "index.ts"))
	assert.Contains(t, reactTier, "export { Button } from './Button.js';")
	assert.Contains(t, reactTier, "export type { ButtonProps } from './Button.js';")

	reactRoot := readFile(t, filepath.Join(root, "packages", "react", "index.ts"))
	assert.Contains(t, reactRoot, "export { Card } from './content/Card.js';")
	assert.Contains(t, reactRoot, "export { Button } from './reactive/Button.js';")

	wcRoot := readFile(t, filepath.Join(root, "packages", "wc", "index.js"))
	assert.Contains(t, wcRoot, "export { ArcIcon, ArcButton } from './reactive/index.js';")
	assert.Contains(t, wcRoot, "export { ArcCard } from './content/index.js';")

	// Missing barrels are reported once each, never created
	assert.Contains(t, result.Warnings, "react barrel "+filepath.Join(root, "packages", "react", "content", "index.ts")+" not found, skipped")
	_, statErr := os.Stat(filepath.Join(root, "packages", "react", "content", "index.ts"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestBuild_Idempotent(t *testing.T) {
	root := setupProject(t)
	touch(t, root, "packages/vue/reactive/index.ts")

	cfg := Config{
		RootDir:    root,
		Components: "src/components",
		Tiers:      []string{"reactive"},
		Prefix:     "arc",
		Out:        "packages",
		Frameworks: []Framework{Vue},
	}

	first, err := Build(cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, first.BarrelsUpdated)
	before := readFile(t, filepath.Join(root, "packages", "vue", "reactive", "index.ts"))

	second, err := Build(cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, second.BarrelsUpdated)
	assert.Equal(t, before, readFile(t, filepath.Join(root, "packages", "vue", "reactive", "index.ts")))
}

func TestBuild_Styles(t *testing.T) {
	root := setupProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "tokens.css"),
		[]byte(":root { --color-primary: #007bff; --shadow-md: 0 2px 4px black; }"), 0o644))

	result, err := Build(Config{
		RootDir:    root,
		Components: "src/components",
		Tiers:      []string{"content", "reactive"},
		Prefix:     "arc",
		TokenFiles: []string{"tokens.css"},
		CSSDir:     "dist/css",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.StylesWritten)
	assert.Equal(t, 0, result.BarrelsUpdated)

	button := readFile(t, filepath.Join(root, "dist", "css", "reactive", "arc-button.css"))
	assert.NotContains(t, button, ":host")
	assert.Contains(t, button, `.arc-button[data-variant="primary"] .btn { background: #007bff; }`)
	assert.Contains(t, button, `.arc-button[data-variant="secondary"] .btn { background: gray; }`)

	card := readFile(t, filepath.Join(root, "dist", "css", "content", "arc-card.css"))
	assert.Contains(t, card, ".arc-card[data-elevated] { box-shadow: 0 2px 4px black; }")
}

func TestBuild_MissingTokenFile(t *testing.T) {
	root := setupProject(t)

	_, err := Build(Config{
		RootDir:    root,
		Components: "src/components",
		Tiers:      []string{"reactive"},
		TokenFiles: []string{"missing.css"},
		CSSDir:     "dist/css",
	})
	require.Error(t, err)
}

func TestBuild_EmptyProject(t *testing.T) {
	result, err := Build(Config{RootDir: t.TempDir(), Components: "src", Tiers: []string{"reactive"}, Out: "packages"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.FilesScanned)
	assert.Empty(t, result.Components)
	assert.Empty(t, result.Warnings)
}
