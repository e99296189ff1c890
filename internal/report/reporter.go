package report

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/yacobolo/prism"
)

// Reporter formats build results
type Reporter struct {
	w         io.Writer
	useColors bool
}

// NewReporter creates a reporter. forceColors enables colors regardless of
// the environment.
func NewReporter(w io.Writer, forceColors bool) *Reporter {
	return &Reporter{
		w:         w,
		useColors: ShouldUseColors(forceColors),
	}
}

// ShouldUseColors determines if colors should be enabled
func ShouldUseColors(force bool) bool {
	// Explicit flag wins
	if force {
		return true
	}

	// Check for FORCE_COLOR environment variable (GitHub Actions, etc.)
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	// Auto-detect TTY
	if fileInfo, err := os.Stdout.Stat(); err == nil && (fileInfo.Mode()&os.ModeCharDevice) != 0 {
		return true
	}

	return false
}

// PrintBuild outputs a build summary followed by any warnings.
func (r *Reporter) PrintBuild(result *prism.BuildResult) {
	fmt.Fprintf(r.w, "%s\n", RenderStyle(StyleGreen, "Build complete", r.useColors))
	fmt.Fprintf(r.w, "  Files scanned: %d\n", result.FilesScanned)
	fmt.Fprintf(r.w, "  Components: %d (%s)\n", len(result.Components),
		pluralizeCount(result.Skipped, "file skipped", "files skipped"))
	fmt.Fprintf(r.w, "  Barrels updated: %d\n", result.BarrelsUpdated)
	if result.StylesWritten > 0 {
		fmt.Fprintf(r.w, "  Stylesheets written: %d\n", result.StylesWritten)
	}

	r.printTiers(result.Components)
	r.PrintWarnings(result.Warnings)
}

// printTiers lists component counts per tier
func (r *Reporter) printTiers(components []*prism.ComponentMeta) {
	if len(components) == 0 {
		return
	}

	counts := make(map[string]int)
	for _, c := range components {
		counts[c.Tier]++
	}

	tiers := make([]string, 0, len(counts))
	for tier := range counts {
		tiers = append(tiers, tier)
	}
	sort.Strings(tiers)

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Tiers", r.useColors))
	for _, tier := range tiers {
		fmt.Fprintf(r.w, "* %s: %s\n", tier, pluralizeCount(counts[tier], "component", "components"))
	}
}

// PrintWarnings outputs warnings, if any
func (r *Reporter) PrintWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleYellow, pluralizeCount(len(warnings), "warning", "warnings")+":", r.useColors))
	for _, w := range warnings {
		fmt.Fprintf(r.w, "  - %s\n", w)
	}
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleGray, "Hint: Run with --verbose for per-component details", r.useColors))
}

// pluralizeCount returns a formatted string with count and singular/plural form
func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// UseColors returns whether colors are enabled
func (r *Reporter) UseColors() bool {
	return r.useColors
}
