package prism

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShadowToLight(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bare host",
			input:    ":host { display: inline-flex; }",
			expected: ".arc-button { display: inline-flex; }",
		},
		{
			name:     "host attribute with value",
			input:    `:host([variant="primary"]) .btn { color: red; }`,
			expected: `.arc-button[data-variant="primary"] .btn { color: red; }`,
		},
		{
			name:     "host boolean attribute",
			input:    ":host([disabled]) { opacity: 0.5; }",
			expected: ".arc-button[data-disabled] { opacity: 0.5; }",
		},
		{
			name:     "data attribute not doubled",
			input:    ":host([data-state='open']) { display: block; }",
			expected: ".arc-button[data-state='open'] { display: block; }",
		},
		{
			name:     "host pseudo-class",
			input:    ":host(:hover) .btn { filter: none; }",
			expected: ".arc-button:hover .btn { filter: none; }",
		},
		{
			name:     "host pseudo-element",
			input:    ":host(::before) { content: ''; }",
			expected: ".arc-button::before { content: ''; }",
		},
		{
			name:     "host not attribute",
			input:    `:host(:not([size="small"])) .btn { padding: 4px; }`,
			expected: `.arc-button:not([data-size="small"]) .btn { padding: 4px; }`,
		},
		{
			name:     "host class",
			input:    ":host(.active) { outline: 1px solid; }",
			expected: ".arc-button.active { outline: 1px solid; }",
		},
		{
			name:     "inner selector is scoped",
			input:    ".btn:hover { color: blue; }",
			expected: ".arc-button .btn:hover { color: blue; }",
		},
		{
			name:     "selector list",
			input:    ":host, .icon,\n.label { gap: 4px; }",
			expected: ".arc-button, .arc-button .icon,\n.arc-button .label { gap: 4px; }",
		},
		{
			name:     "media query rules rewritten",
			input:    "@media (max-width: 600px) { :host { display: block; } .btn { width: 100%; } }",
			expected: "@media (max-width: 600px) { .arc-button { display: block; } .arc-button .btn { width: 100%; } }",
		},
		{
			name:     "keyframes untouched",
			input:    "@keyframes spin { from { opacity: 0; } to { opacity: 1; } }",
			expected: "@keyframes spin { from { opacity: 0; } to { opacity: 1; } }",
		},
		{
			name:     "declarations untouched",
			input:    ".btn { background: url(':host.png'); }",
			expected: ".arc-button .btn { background: url(':host.png'); }",
		},
		{
			name:     "comments kept",
			input:    "/* base */\n:host { display: block; }",
			expected: "/* base */\n.arc-button { display: block; }",
		},
		{
			name:     "longer class sharing the prefix is scoped",
			input:    ".arc-button-group { display: flex; }",
			expected: ".arc-button .arc-button-group { display: flex; }",
		},
		{
			name:     "standalone interpolation copied as is",
			input:    "${unsafeCSS(shared)}\n:host { display: block; }",
			expected: "${unsafeCSS(shared)}\n.arc-button { display: block; }",
		},
		{
			name:     "interpolated selector left unscoped",
			input:    ".card ${sel} { color: red; }",
			expected: ".card ${sel} { color: red; }",
		},
		{
			name:     "interpolation inside declarations",
			input:    ":host { color: ${color}; }",
			expected: ".arc-button { color: ${color}; }",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShadowToLight(tt.input, "arc-button"))
		})
	}
}

func TestShadowToLight_Idempotent(t *testing.T) {
	inputs := []string{
		":host { display: inline-flex; }",
		`:host([variant="primary"]) .btn { color: red; }`,
		":host(:not([disabled])):hover .btn { cursor: pointer; }",
		"@media print { .btn { display: none; } }",
		".btn, .icon { gap: 2px; }",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			once := ShadowToLight(input, "arc-button")
			assert.Equal(t, once, ShadowToLight(once, "arc-button"))
		})
	}
}

func TestShadowToLight_NoHostLeft(t *testing.T) {
	meta := parseFixture(t, "reactive/arc-button.js", "arc")
	out := ShadowToLight(meta.CSS, meta.Tag)

	assert.NotContains(t, out, ":host")
	assert.Contains(t, out, ".arc-button { display: inline-flex; }")
	assert.Contains(t, out, `.arc-button[data-size="large"] .btn { padding: 8px; }`)
	assert.Contains(t, out, ".arc-button .btn { border: none; }")
}

func TestHostDisplay(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare host", ":host { display: grid; gap: 1rem; }", "grid"},
		{"host with attribute is ignored", ":host([hidden]) { display: none; }", ""},
		{"after other rules", ".a { display: flex; } :host { display: contents; }", "contents"},
		{"no display", ":host { color: red; }", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, hostDisplay(tt.input))
		})
	}
}

func TestLexCSS_Lossless(t *testing.T) {
	input := "/* c */ :host([a=\"b\"]) { --x: var(--y, 1px) ; }\n@media screen{.a{b:c}}"
	assert.Equal(t, input, joinTokens(lexCSS(input)))
}
