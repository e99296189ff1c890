package prism

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Build is the main entry point: it discovers component files, parses them,
// updates every framework's barrels and optionally writes light-DOM styles.
func Build(config Config) (*BuildResult, error) {
	config = NormalizeConfig(config)
	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	result := &BuildResult{}

	// 1. Discover component files
	files, err := DiscoverComponents(config, config.RootDir)
	if err != nil {
		return nil, fmt.Errorf("discovery failed: %w", err)
	}
	result.FilesScanned = len(files)
	logger.Debug("discovered component files", "count", len(files))

	// 2. Parse all files
	metas, warnings := parseFiles(files, config)
	result.Warnings = append(result.Warnings, warnings...)
	for _, meta := range metas {
		if meta == nil {
			result.Skipped++
			continue
		}
		result.Components = append(result.Components, meta)
	}
	logger.Debug("parsed components", "components", len(result.Components), "skipped", result.Skipped)

	// 3. Stable order: tier, then tag
	sort.SliceStable(result.Components, func(i, j int) bool {
		a, b := result.Components[i], result.Components[j]
		if a.Tier != b.Tier {
			return a.Tier < b.Tier
		}
		return a.Tag < b.Tag
	})

	// 4. Barrels
	if config.Out != "" {
		if err := updateBarrels(result, config, logger); err != nil {
			return nil, fmt.Errorf("barrel update failed: %w", err)
		}
	}

	// 5. Light-DOM stylesheets
	if config.CSSDir != "" {
		if err := writeStyles(result, config, logger); err != nil {
			return nil, fmt.Errorf("style output failed: %w", err)
		}
	}

	return result, nil
}

// parseFiles parses files concurrently. The returned slice is index-aligned
// with files; nil entries are files that are not components or failed to read.
func parseFiles(files []string, config Config) ([]*ComponentMeta, []string) {
	metas := make([]*ComponentMeta, len(files))
	errs := make([]error, len(files))

	var g errgroup.Group
	g.SetLimit(config.Concurrency)
	for i, file := range files {
		g.Go(func() error {
			metas[i], errs[i] = ParseFile(file, config.Prefix)
			return nil
		})
	}
	_ = g.Wait()

	var warnings []string
	for i, err := range errs {
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Failed to parse %s: %v", files[i], err))
		}
	}
	return metas, warnings
}

// updateBarrels applies the tier and root update for every component and
// framework. Updates run sequentially so writers to one barrel never overlap.
func updateBarrels(result *BuildResult, config Config, logger *log.Logger) error {
	frameworks := config.Frameworks
	if len(frameworks) == 0 {
		frameworks = AllFrameworks()
	}

	missing := make(map[string]bool)
	for _, fw := range frameworks {
		baseDir := resolvePath(config.RootDir, filepath.Join(config.Out, string(fw)))

		for _, meta := range result.Components {
			for _, role := range []Role{TierBarrel, RootBarrel} {
				res, err := UpdateBarrel(fw, role, meta, baseDir)
				if err != nil {
					return err
				}
				if res.Updated {
					result.BarrelsUpdated++
					logger.Debug("updated barrel", "framework", fw, "role", role, "component", meta.Tag)
					continue
				}

				target, _ := BarrelPath(fw, role, meta, baseDir)
				if _, err := os.Stat(target); err != nil && !missing[target] {
					missing[target] = true
					result.Warnings = append(result.Warnings, fmt.Sprintf("%s barrel %s not found, skipped", fw, target))
				}
			}
		}
	}

	return nil
}

// writeStyles writes <CSSDir>/<tier>/<tag>.css for every component with styles.
func writeStyles(result *BuildResult, config Config, logger *log.Logger) error {
	tokenFiles := make([]string, len(config.TokenFiles))
	for i, f := range config.TokenFiles {
		tokenFiles[i] = resolvePath(config.RootDir, f)
	}
	tokens, err := LoadTokenMap(tokenFiles...)
	if err != nil {
		return err
	}

	outDir := resolvePath(config.RootDir, config.CSSDir)
	for _, meta := range result.Components {
		if meta.CSS == "" {
			continue
		}

		target := filepath.Join(outDir, meta.Tier, meta.Tag+".css")
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", filepath.Dir(target), err)
		}

		styles := ResolveTokens(ShadowToLight(meta.CSS, meta.Tag), tokens)
		if err := os.WriteFile(target, []byte(styles), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}
		result.StylesWritten++
		logger.Debug("wrote stylesheet", "component", meta.Tag, "path", target)
	}

	return nil
}

// resolvePath joins relative paths onto root.
func resolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
