package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New(Config{BaseDir: t.TempDir(), Patterns: []string{"[unclosed"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")
}

func TestNew_DefaultDebounce(t *testing.T) {
	w, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.fsw.Close() })

	assert.Equal(t, defaultDebounce, w.debounce)
}

func TestMatches(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src", "reactive"), 0o755))

	w, err := New(Config{
		BaseDir:  dir,
		Patterns: []string{"src/**/*.js"},
		Ignore:   []string{"**/*.register.js"},
		Debounce: 10 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.fsw.Close() })

	tests := []struct {
		name string
		rel  string
		want bool
	}{
		{"component source", "src/reactive/button.js", true},
		{"user ignore", "src/reactive/button.register.js", false},
		{"outside patterns", "docs/readme.md", false},
		{"default ignore", "src/node_modules/lit/index.js", false},
		{"windows separators", filepath.Join("src", "reactive", "card.js"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Matches(tt.rel))
		})
	}
}

func TestMatches_NoPatternsMatchesAll(t *testing.T) {
	w, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.fsw.Close() })

	assert.True(t, w.Matches("anything/at/all.txt"))
	assert.False(t, w.Matches(".git/HEAD"))
}

func TestRun_DebouncedCallback(t *testing.T) {
	dir := t.TempDir()
	changes := make(chan []string, 4)

	w, err := New(Config{
		BaseDir:  dir,
		Patterns: []string{"**/*.js"},
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			changes <- changed
			return nil
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "button.js"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("b"), 0o644))

	select {
	case changed := <-changes:
		assert.Equal(t, []string{"button.js"}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change callback")
	}

	cancel()
	require.NoError(t, <-done)
}
