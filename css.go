package prism

import (
	"regexp"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// cssToken is one lexer token with its exact source text.
type cssToken struct {
	tt   css.TokenType
	text string
}

// lexCSS tokenizes content without dropping anything: concatenating the text
// of the returned tokens reproduces content exactly.
func lexCSS(content string) []cssToken {
	lexer := css.NewLexer(parse.NewInputString(content))

	var tokens []cssToken
	consumed := 0
	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			// ErrorToken at EOF is normal; anything left over is kept verbatim
			if consumed < len(content) {
				tokens = append(tokens, cssToken{tt: css.ErrorToken, text: content[consumed:]})
			}
			break
		}
		tokens = append(tokens, cssToken{tt: tt, text: string(text)})
		consumed += len(text)
	}

	return tokens
}

func joinTokens(tokens []cssToken) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.text)
	}
	return b.String()
}

func isTrivia(t cssToken) bool {
	return t.tt == css.WhitespaceToken || t.tt == css.CommentToken
}

func onlyTrivia(tokens []cssToken) bool {
	for _, t := range tokens {
		if !isTrivia(t) {
			return false
		}
	}
	return true
}

// isCustomProperty reports whether t names a custom property (--name).
func isCustomProperty(t cssToken) bool {
	return (t.tt == css.IdentToken || t.tt == css.CustomPropertyNameToken) && strings.HasPrefix(t.text, "--")
}

// matchingBrace returns the index of the token closing the brace at open.
// Unbalanced input closes at the last token.
func matchingBrace(tokens []cssToken, open int) int {
	depth := 0
	for i := open; i < len(tokens); i++ {
		switch tokens[i].tt {
		case css.LeftBraceToken:
			depth++
		case css.RightBraceToken:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(tokens) - 1
}

// matchingParen returns the index of the token closing the function or
// parenthesis token at open, or -1.
func matchingParen(tokens []cssToken, open int) int {
	depth := 0
	for i := open; i < len(tokens); i++ {
		switch tokens[i].tt {
		case css.FunctionToken, css.LeftParenthesisToken:
			depth++
		case css.RightParenthesisToken:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// Grouping at-rules hold nested style rules whose selectors are rewritten.
// Every other at-rule block (@keyframes, @font-face, ...) passes through.
var groupingAtRules = map[string]bool{
	"@media":     true,
	"@supports":  true,
	"@layer":     true,
	"@container": true,
	"@document":  true,
	"@scope":     true,
}

var (
	// :host(:not([variant="primary"]))
	hostNotAttrPattern = regexp.MustCompile(`:host\(\s*:not\(\s*\[\s*([\w-]+)\s*(=\s*(?:"[^"]*"|'[^']*'|[^\]\s]+))?\s*\]\s*\)\s*\)`)
	// :host([variant="primary"]) and :host([disabled])
	hostAttrPattern = regexp.MustCompile(`:host\(\s*\[\s*([\w-]+)\s*(=\s*(?:"[^"]*"|'[^']*'|[^\]\s]+))?\s*\]\s*\)`)
	// :host(:hover), :host(::before), :host(:focus-visible)
	hostPseudoPattern = regexp.MustCompile(`:host\(\s*(::?[\w-]+(?:\([^)]*\))?)\s*\)`)
	// :host(.active)
	hostClassPattern = regexp.MustCompile(`:host\(\s*(\.[\w-]+)\s*\)`)
)

// ShadowToLight rewrites shadow-DOM selectors in cssText into selectors scoped
// by the .<tag> class so the rules work without a shadow root:
//
//   - :host                         → .tag
//   - :host([attr="v"])             → .tag[data-attr="v"]
//   - :host([attr])                 → .tag[data-attr]
//   - :host(:hover)                 → .tag:hover
//   - :host(:not([attr="v"]))       → .tag:not([data-attr="v"])
//   - :host(.active)                → .tag.active
//   - .inner                        → .tag .inner
//
// Declaration blocks are copied unchanged. Selectors already starting with
// .tag are left alone, so the transform is idempotent.
func ShadowToLight(cssText, tag string) string {
	var b strings.Builder
	rewriteRules(&b, lexCSS(cssText), tag)
	return b.String()
}

// rewriteRules copies a list of rules, rewriting style rule selectors.
func rewriteRules(b *strings.Builder, tokens []cssToken, tag string) {
	start := 0
	for i := 0; i < len(tokens); i++ {
		switch tokens[i].tt {
		case css.SemicolonToken:
			// Statement at-rule (@import ...;) or stray semicolon
			b.WriteString(joinTokens(tokens[start : i+1]))
			start = i + 1

		case css.RightBraceToken:
			// Stray closing brace
			b.WriteString(joinTokens(tokens[start : i+1]))
			start = i + 1

		case css.LeftBraceToken:
			end := matchingBrace(tokens, i)

			// ${...} template interpolation
			if i > start && tokens[i-1].tt == css.DelimToken && tokens[i-1].text == "$" {
				if onlyTrivia(tokens[start : i-1]) {
					// Stands alone: copied as is, not part of any selector
					b.WriteString(joinTokens(tokens[start : end+1]))
					start = end + 1
				}
				i = end
				continue
			}

			prelude := tokens[start:i]

			// Leading whitespace and comments are not part of the selector
			lead := 0
			for lead < len(prelude) && isTrivia(prelude[lead]) {
				lead++
			}
			b.WriteString(joinTokens(prelude[:lead]))
			prelude = prelude[lead:]

			switch {
			case len(prelude) > 0 && prelude[0].tt == css.AtKeywordToken:
				if groupingAtRules[strings.ToLower(prelude[0].text)] && end > i {
					b.WriteString(joinTokens(prelude))
					b.WriteString("{")
					rewriteRules(b, tokens[i+1:end], tag)
					b.WriteString(tokens[end].text)
				} else {
					b.WriteString(joinTokens(tokens[start+lead : end+1]))
				}
			default:
				b.WriteString(rewriteSelectorList(joinTokens(prelude), tag))
				b.WriteString(joinTokens(tokens[i : end+1]))
			}

			i = end
			start = end + 1
		}
	}

	if start < len(tokens) {
		b.WriteString(joinTokens(tokens[start:]))
	}
}

// rewriteSelectorList rewrites each selector of a comma-separated list,
// keeping the whitespace around every selector.
func rewriteSelectorList(list, tag string) string {
	parts := splitTopLevel(list, ',')
	for i, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		leading := part[:strings.Index(part, trimmed)]
		trailing := part[len(leading)+len(trimmed):]
		parts[i] = leading + rewriteSelector(trimmed, tag) + trailing
	}
	return strings.Join(parts, ",")
}

// rewriteSelector applies the host rewrites, then scopes whatever is not
// already scoped to .tag.
func rewriteSelector(sel, tag string) string {
	scope := "." + tag

	sel = hostNotAttrPattern.ReplaceAllStringFunc(sel, func(m string) string {
		sub := hostNotAttrPattern.FindStringSubmatch(m)
		return scope + ":not([" + dataAttribute(sub[1]) + sub[2] + "])"
	})
	sel = hostAttrPattern.ReplaceAllStringFunc(sel, func(m string) string {
		sub := hostAttrPattern.FindStringSubmatch(m)
		return scope + "[" + dataAttribute(sub[1]) + sub[2] + "]"
	})
	for _, p := range []*regexp.Regexp{hostPseudoPattern, hostClassPattern} {
		sel = p.ReplaceAllStringFunc(sel, func(m string) string {
			return scope + p.FindStringSubmatch(m)[1]
		})
	}
	sel = replaceBareHost(sel, scope)

	// Interpolated selectors are only known at runtime
	if hasScope(sel, scope) || strings.Contains(sel, "${") {
		return sel
	}
	return scope + " " + sel
}

// dataAttribute maps a host attribute onto the data-* attribute the light-DOM
// wrapper mirrors it to.
func dataAttribute(name string) string {
	if strings.HasPrefix(name, "data-") {
		return name
	}
	return "data-" + name
}

// replaceBareHost replaces :host when it is not a functional form and not
// :host-context.
func replaceBareHost(sel, scope string) string {
	var b strings.Builder
	for {
		idx := strings.Index(sel, ":host")
		if idx < 0 {
			b.WriteString(sel)
			return b.String()
		}
		next := idx + len(":host")
		if next < len(sel) && (sel[next] == '(' || sel[next] == '-' || isIdentByte(sel[next])) {
			b.WriteString(sel[:next])
		} else {
			b.WriteString(sel[:idx])
			b.WriteString(scope)
		}
		sel = sel[next:]
	}
}

// hasScope reports whether sel starts with the scope class itself, not with a
// longer class that merely shares the prefix (.arc-button-group).
func hasScope(sel, scope string) bool {
	if !strings.HasPrefix(sel, scope) {
		return false
	}
	rest := sel[len(scope):]
	return rest == "" || !(isIdentByte(rest[0]) || rest[0] == '-')
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c >= 0x80
}

// hostDisplay returns the display value declared in the bare :host rule.
func hostDisplay(cssText string) string {
	if cssText == "" {
		return ""
	}

	tokens := lexCSS(cssText)
	start := 0
	for i := 0; i < len(tokens); i++ {
		switch tokens[i].tt {
		case css.SemicolonToken, css.RightBraceToken:
			start = i + 1
		case css.LeftBraceToken:
			end := matchingBrace(tokens, i)
			if isBareHost(tokens[start:i]) {
				if display, ok := extractDeclarations(tokens[i+1 : end])["display"]; ok {
					return display
				}
			}
			i = end
			start = end + 1
		}
	}

	return ""
}

// isBareHost reports whether a rule prelude is exactly `:host`.
func isBareHost(prelude []cssToken) bool {
	var sel strings.Builder
	for _, t := range prelude {
		if !isTrivia(t) {
			sel.WriteString(t.text)
		}
	}
	return sel.String() == ":host"
}

// extractDeclarations reads property: value pairs of one declaration block.
// Nested blocks are skipped.
func extractDeclarations(tokens []cssToken) map[string]string {
	props := make(map[string]string)

	var currentProp string
	var currentVal []string
	afterColon := false

	flush := func() {
		if currentProp != "" && len(currentVal) > 0 {
			props[strings.ToLower(currentProp)] = strings.TrimSpace(strings.Join(currentVal, ""))
		}
		currentProp = ""
		currentVal = nil
		afterColon = false
	}

	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		switch {
		case t.tt == css.LeftBraceToken:
			i = matchingBrace(tokens, i)
			currentProp = ""
			currentVal = nil
			afterColon = false
		case t.tt == css.SemicolonToken:
			flush()
		case t.tt == css.CommentToken:
			continue
		case currentProp == "" && (t.tt == css.IdentToken || t.tt == css.CustomPropertyNameToken):
			currentProp = t.text
		case t.tt == css.ColonToken && currentProp != "" && !afterColon:
			afterColon = true
		case afterColon:
			currentVal = append(currentVal, t.text)
		}
	}
	flush()

	return props
}
