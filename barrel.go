package prism

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// Framework identifies a wrapper target
type Framework string

// Supported frameworks
const (
	React         Framework = "react"
	WebComponents Framework = "wc"
	Vue           Framework = "vue"
	Svelte        Framework = "svelte"
	Angular       Framework = "angular"
	Solid         Framework = "solid"
	Preact        Framework = "preact"
)

// Role selects which barrel of a framework is updated
type Role string

// Barrel roles
const (
	TierBarrel Role = "tier" // <baseDir>/<tier>/index.<ext>
	RootBarrel Role = "root" // <baseDir>/index.<ext>
)

// ErrUnknownFramework is returned for framework names outside the descriptor table.
var ErrUnknownFramework = errors.New("unknown framework")

type mergeStrategy int

const (
	appendLines     mergeStrategy = iota // Append missing export lines
	mergeByTierLine                      // One `export { A, B } from './<tier>/index.js'` per tier
)

// barrelDescriptor is everything that differs between frameworks.
type barrelDescriptor struct {
	ext        string                           // Barrel file extension
	symbol     func(meta *ComponentMeta) string // Exported binding: "Button", "default as Button"
	module     func(meta *ComponentMeta) string // Wrapper file: "Button.js", "Button.vue"
	typeExport bool                             // Also export <Pascal>Props
	rootMerge  mergeStrategy
}

func pascalSymbol(meta *ComponentMeta) string  { return meta.PascalName }
func defaultSymbol(meta *ComponentMeta) string { return "default as " + meta.PascalName }
func classSymbol(meta *ComponentMeta) string   { return meta.ClassName }

func moduleWithExt(ext string) func(*ComponentMeta) string {
	return func(meta *ComponentMeta) string { return meta.PascalName + ext }
}

var frameworkOrder = []Framework{React, WebComponents, Vue, Svelte, Angular, Solid, Preact}

var barrels = map[Framework]barrelDescriptor{
	React: {ext: "ts", symbol: pascalSymbol, module: moduleWithExt(".js"), typeExport: true},
	WebComponents: {ext: "js", symbol: classSymbol, rootMerge: mergeByTierLine,
		module: func(meta *ComponentMeta) string { return kebabCase(meta.PascalName) + ".js" }},
	Vue:     {ext: "ts", symbol: defaultSymbol, module: moduleWithExt(".vue")},
	Svelte:  {ext: "ts", symbol: defaultSymbol, module: moduleWithExt(".svelte")},
	Angular: {ext: "ts", symbol: pascalSymbol, module: moduleWithExt(".js")},
	Solid:   {ext: "ts", symbol: pascalSymbol, module: moduleWithExt(".js"), typeExport: true},
	Preact:  {ext: "ts", symbol: pascalSymbol, module: moduleWithExt(".js"), typeExport: true},
}

// AllFrameworks returns every supported framework in a stable order.
func AllFrameworks() []Framework {
	return append([]Framework(nil), frameworkOrder...)
}

// ParseFramework validates a framework name.
func ParseFramework(name string) (Framework, error) {
	fw := Framework(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := barrels[fw]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFramework, name)
	}
	return fw, nil
}

// BarrelPath returns the index file a (framework, role) update targets.
func BarrelPath(fw Framework, role Role, meta *ComponentMeta, baseDir string) (string, error) {
	d, ok := barrels[fw]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFramework, fw)
	}
	if role == TierBarrel {
		return filepath.Join(baseDir, meta.Tier, "index."+d.ext), nil
	}
	return filepath.Join(baseDir, "index."+d.ext), nil
}

// UpdateTierBarrel adds meta's exports to <baseDir>/<tier>/index.<ext>.
func UpdateTierBarrel(fw Framework, meta *ComponentMeta, baseDir string) (BarrelUpdateResult, error) {
	return UpdateBarrel(fw, TierBarrel, meta, baseDir)
}

// UpdateRootBarrel adds meta's exports to <baseDir>/index.<ext>.
func UpdateRootBarrel(fw Framework, meta *ComponentMeta, baseDir string) (BarrelUpdateResult, error) {
	return UpdateBarrel(fw, RootBarrel, meta, baseDir)
}

// UpdateBarrel adds the export lines for meta to an existing barrel file.
//
// The barrel must already exist; a missing file is skipped with Updated=false.
// Lines already present are never added twice, so repeated calls are
// idempotent. Existing content is never removed. Concurrent updates of the
// same file must be serialized by the caller.
func UpdateBarrel(fw Framework, role Role, meta *ComponentMeta, baseDir string) (BarrelUpdateResult, error) {
	d, ok := barrels[fw]
	if !ok {
		return BarrelUpdateResult{}, fmt.Errorf("%w: %q", ErrUnknownFramework, fw)
	}

	// A component outside any tier has no tier barrel and no tier line to merge into
	if meta.Tier == "" && (role == TierBarrel || d.rootMerge == mergeByTierLine) {
		return BarrelUpdateResult{}, nil
	}

	target, _ := BarrelPath(fw, role, meta, baseDir)

	// #nosec G304 - barrel path is derived from the configured output root
	data, err := os.ReadFile(target)
	if errors.Is(err, fs.ErrNotExist) {
		return BarrelUpdateResult{}, nil
	}
	if err != nil {
		return BarrelUpdateResult{}, fmt.Errorf("read barrel %s: %w", target, err)
	}
	content := string(data)

	var updated string
	var changed bool
	if role == RootBarrel && d.rootMerge == mergeByTierLine {
		updated, changed = mergeTierExport(content, meta.ClassName, meta.Tier)
	} else {
		dir := "."
		if role == RootBarrel && meta.Tier != "" {
			dir = "./" + meta.Tier
		}
		updated, changed = appendMissing(content, d.exportLines(meta, dir))
	}

	if !changed {
		return BarrelUpdateResult{}, nil
	}

	if err := writeKeepingMode(target, updated); err != nil {
		return BarrelUpdateResult{}, err
	}
	return BarrelUpdateResult{Updated: true}, nil
}

// exportLines renders the export statements for meta relative to dir.
func (d barrelDescriptor) exportLines(meta *ComponentMeta, dir string) []string {
	from := fmt.Sprintf("'%s/%s'", dir, d.module(meta))
	lines := []string{fmt.Sprintf("export { %s } from %s;", d.symbol(meta), from)}
	if d.typeExport {
		lines = append(lines, fmt.Sprintf("export type { %sProps } from %s;", meta.PascalName, from))
	}
	return lines
}

// appendMissing appends the lines not yet present in content.
func appendMissing(content string, lines []string) (string, bool) {
	present := make(map[string]bool)
	for _, l := range strings.Split(content, "\n") {
		present[strings.TrimSuffix(strings.TrimSpace(l), ";")] = true
	}

	var missing []string
	for _, l := range lines {
		if !present[strings.TrimSuffix(l, ";")] {
			missing = append(missing, l)
		}
	}
	if len(missing) == 0 {
		return content, false
	}

	var b strings.Builder
	b.WriteString(content)
	if content != "" && !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	for _, l := range missing {
		b.WriteString(l)
		b.WriteString("\n")
	}
	return b.String(), true
}

// mergeTierExport inserts id into the tier's re-export line, or appends a new
// line when the tier has none yet.
func mergeTierExport(content, id, tier string) (string, bool) {
	pattern := regexp.MustCompile(`(?m)^([ \t]*)export\s*\{([^}]*)\}\s*from\s*['"]\./` +
		regexp.QuoteMeta(tier) + `/index\.js['"][ \t]*;?[ \t]*\r?$`)

	loc := pattern.FindStringSubmatchIndex(content)
	if loc == nil {
		return appendMissing(content, []string{fmt.Sprintf("export { %s } from './%s/index.js';", id, tier)})
	}

	var ids []string
	for _, existing := range strings.Split(content[loc[4]:loc[5]], ",") {
		existing = strings.TrimSpace(existing)
		if existing == id {
			return content, false
		}
		if existing != "" {
			ids = append(ids, existing)
		}
	}
	ids = append(ids, id)

	line := fmt.Sprintf("%sexport { %s } from './%s/index.js';", content[loc[2]:loc[3]], strings.Join(ids, ", "), tier)
	if strings.HasSuffix(content[loc[0]:loc[1]], "\r") {
		line += "\r"
	}
	return content[:loc[0]] + line + content[loc[1]:], true
}

// writeKeepingMode rewrites path, preserving its permission bits.
func writeKeepingMode(path, content string) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("write barrel %s: %w", path, err)
	}
	return nil
}

// kebabCase converts a PascalCase name to kebab-case.
// IconButton -> icon-button
func kebabCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			// Start a new word unless inside an acronym run (HTMLView -> html-view)
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
