package prism

import (
	"github.com/charmbracelet/log"
)

// Interactivity classifies how much client-side behaviour a component needs.
type Interactivity string

// Interactivity levels
const (
	Static      Interactivity = "static"
	Interactive Interactivity = "interactive"
	Hybrid      Interactivity = "hybrid"
)

// Prop describes one entry of a component's static property block
type Prop struct {
	Name    string   `json:"name"`              // "variant"
	Type    string   `json:"type"`              // "String", "Boolean", "Number" ("" when undeclared)
	Reflect bool     `json:"reflect"`           // reflect: true in the descriptor
	Default string   `json:"default,omitempty"` // "'primary'" - literal source text, "" when absent
	Values  []string `json:"values,omitempty"`  // ["primary", "secondary"] from :host([variant="..."])
}

// HasDefault reports whether the constructor assigns an initial value.
func (p Prop) HasDefault() bool {
	return p.Default != ""
}

// ComponentMeta is the interface recovered from one component source file.
// It is created by Parse and never mutated afterwards.
type ComponentMeta struct {
	Tag           string        `json:"tag"`                   // "arc-button"
	ClassName     string        `json:"className"`             // "ArcButton"
	PascalName    string        `json:"pascalName"`            // "Button" (prefix stripped)
	Tier          string        `json:"tier"`                  // "reactive" (parent directory)
	Props         []Prop        `json:"props"`                 // Declaration order
	CSS           string        `json:"css"`                   // Raw static styles text
	Template      string        `json:"template"`              // Raw render() markup
	Events        []string      `json:"events"`                // ["arc-click"] first-seen, distinct
	Interactivity Interactivity `json:"interactivity"`         // static | interactive | hybrid
	HostDisplay   string        `json:"hostDisplay,omitempty"` // "inline-flex" from :host { display }
	SourceFile    string        `json:"-"`                     // For warnings
}

// Prop returns the property with the given name, or false if it is not declared.
func (m *ComponentMeta) Prop(name string) (Prop, bool) {
	for _, p := range m.Props {
		if p.Name == name {
			return p, true
		}
	}
	return Prop{}, false
}

// TokenMap maps a custom property name ("--color-primary") to its raw value.
// Values may themselves reference other tokens through var().
type TokenMap map[string]string

// BarrelUpdateResult is the outcome of a single barrel operation
type BarrelUpdateResult struct {
	Updated bool
}

// Config holds discovery and build configuration
type Config struct {
	RootDir          string      // Project root; relative paths resolve against it (default: ".")
	Components       string      // "src/components" - directory housing the tier directories
	Tiers            []string    // ["content", "reactive"] - scanned in order
	Ignore           []string    // ["**/index.js", "**/*.register.js"]
	Prefix           string      // "arc" - stripped from class names to build PascalName
	Out              string      // "packages" - framework output root, barrels under <Out>/<framework>/
	Frameworks       []Framework // Empty means all frameworks
	TokenFiles       []string    // Stylesheets declaring design tokens
	CSSDir           string      // Light-DOM stylesheet output directory ("" disables)
	Concurrency      int         // Max files parsed in parallel (default: 8)
	RespectGitignore bool        // Skip files matched by <RootDir>/.gitignore
	Logger           *log.Logger // nil disables logging
}

// BuildResult contains build stats
type BuildResult struct {
	FilesScanned   int
	Components     []*ComponentMeta
	Skipped        int // Files that are not components
	BarrelsUpdated int
	StylesWritten  int
	Warnings       []string
}
