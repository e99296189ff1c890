package prism

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// defaultConcurrency bounds parallel parsing when Config.Concurrency is unset.
const defaultConcurrency = 8

// NormalizeConfig fills in defaults without touching values that are set.
func NormalizeConfig(cfg Config) Config {
	if cfg.Tiers == nil {
		cfg.Tiers = []string{}
	}
	if cfg.Ignore == nil {
		cfg.Ignore = []string{}
	}
	if cfg.RootDir == "" {
		cfg.RootDir = "."
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return cfg
}

// IsIgnored reports whether a file matches any ignore pattern.
//
// Patterns without a slash ("index.js", "*.register.js") match the file name.
// Patterns with a slash ("**/index.js", "**/icons/**") match the full path,
// which is normalized to forward slashes first so Windows paths behave the
// same on every platform.
func IsIgnored(fileName, fullPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	p := normalizePath(fullPath)

	for _, pattern := range patterns {
		pattern = strings.ReplaceAll(pattern, "\\", "/")
		if pattern == "" {
			continue
		}

		if !strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, fileName); ok {
				return true
			}
			continue
		}

		// Relative directory patterns ("icons/**") match at any depth
		if !strings.HasPrefix(pattern, "**/") && !strings.HasPrefix(pattern, "/") {
			pattern = "**/" + pattern
		}
		pattern = strings.TrimPrefix(pattern, "/")

		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
	}

	return false
}

// normalizePath converts separators to '/' and drops the volume and leading
// slash so patterns starting with ** see relative-looking paths.
func normalizePath(fullPath string) string {
	p := strings.ReplaceAll(fullPath, "\\", "/")
	if len(p) >= 2 && p[1] == ':' {
		p = p[2:]
	}
	return strings.TrimLeft(p, "/")
}

// DiscoverComponents lists the .js files directly inside each configured tier
// directory, in tier order and sorted by name within a tier. Missing tier
// directories are skipped. The returned paths are absolute.
func DiscoverComponents(cfg Config, rootDir string) ([]string, error) {
	cfg = NormalizeConfig(cfg)

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", rootDir, err)
	}

	var gi *ignore.GitIgnore
	if cfg.RespectGitignore {
		gi = loadGitIgnore(absRoot)
	}

	files := []string{}
	for _, tier := range cfg.Tiers {
		dir := filepath.Join(absRoot, cfg.Components, tier)

		// os.ReadDir returns entries sorted by filename
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read tier %s: %w", dir, err)
		}

		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".js" {
				continue
			}

			full := filepath.Join(dir, entry.Name())
			if IsIgnored(entry.Name(), full, cfg.Ignore) {
				continue
			}
			if gi != nil && isGitIgnored(gi, absRoot, full) {
				continue
			}

			files = append(files, full)
		}
	}

	return files, nil
}

// loadGitIgnore loads <root>/.gitignore.
// Gracefully degrades if .gitignore doesn't exist
func loadGitIgnore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

func isGitIgnored(gi *ignore.GitIgnore, root, full string) bool {
	rel, err := filepath.Rel(root, full)
	if err != nil {
		return false
	}
	return gi.MatchesPath(filepath.ToSlash(rel))
}
