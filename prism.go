// Package prism keeps a multi-framework component library in sync with one
// canonical set of Lit-style web components.
//
// # Parsing
//
// Parse recovers a component's interface from its source text:
//
//	meta := prism.Parse(source, "src/components/reactive/button.js", "arc")
//	if meta == nil {
//		// not a component
//	}
//
// # Styles
//
// ShadowToLight rewrites :host selectors into .<tag> scoped selectors and
// ResolveTokens inlines design tokens, producing a stylesheet usable without
// a shadow root:
//
//	tokens, err := prism.LoadTokenMap("src/tokens.css")
//	light := prism.ResolveTokens(prism.ShadowToLight(meta.CSS, meta.Tag), tokens)
//
// # Barrels
//
// UpdateBarrel appends a component's exports to an existing framework index
// file (react, wc, vue, svelte, angular, solid, preact):
//
//	res, err := prism.UpdateTierBarrel(prism.React, meta, "packages/react")
//
// # Build
//
// Build runs discovery, parsing, barrel updates and style output in one go:
//
//	result, err := prism.Build(prism.Config{
//		Components: "src/components",
//		Tiers:      []string{"content", "reactive"},
//		Prefix:     "arc",
//		Out:        "packages",
//	})
//
// # CLI Tool
//
// Install with:
//
//	go install github.com/yacobolo/prism/cmd/prism@latest
package prism
