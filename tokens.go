package prism

import (
	"fmt"
	"os"
	"strings"

	"github.com/tdewolff/parse/v2/css"
)

// ResolveTokens replaces every var(--name) and var(--name, fallback) in
// cssText with the value of name in tokens. Values that reference other
// tokens are resolved first, depth-first.
//
// A missing name with a fallback becomes the fallback text as written; a
// missing name without one keeps the var() expression. A reference back into
// a name already being resolved is left as written, so cycles terminate.
func ResolveTokens(cssText string, tokens TokenMap) string {
	r := &tokenResolver{
		tokens: tokens,
		active: make(map[string]bool),
	}
	return r.resolve(cssText)
}

type tokenResolver struct {
	tokens TokenMap
	active map[string]bool // names on the current resolution path
}

func (r *tokenResolver) resolve(text string) string {
	if !strings.Contains(text, "var(") {
		return text
	}

	toks := lexCSS(text)
	var b strings.Builder

	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.tt != css.FunctionToken || !strings.EqualFold(t.text, "var(") {
			b.WriteString(t.text)
			continue
		}

		end := matchingParen(toks, i)
		if end < 0 {
			// Unterminated var( - copy the rest untouched
			b.WriteString(joinTokens(toks[i:]))
			break
		}

		b.WriteString(r.substitute(toks[i : end+1]))
		i = end
	}

	return b.String()
}

// substitute resolves a single var(...) expression given as tokens.
func (r *tokenResolver) substitute(expr []cssToken) string {
	original := joinTokens(expr)
	inner := expr[1 : len(expr)-1]

	pos := 0
	for pos < len(inner) && isTrivia(inner[pos]) {
		pos++
	}
	if pos == len(inner) || !isCustomProperty(inner[pos]) {
		return original
	}
	name := inner[pos].text
	pos++

	for pos < len(inner) && isTrivia(inner[pos]) {
		pos++
	}

	hasFallback := false
	fallback := ""
	if pos < len(inner) && inner[pos].tt == css.CommaToken {
		hasFallback = true
		fallback = strings.TrimSpace(joinTokens(inner[pos+1:]))
	}

	raw, ok := r.tokens[name]
	switch {
	case ok && r.active[name]:
		return original
	case ok:
		r.active[name] = true
		value := r.resolve(strings.TrimSpace(raw))
		delete(r.active, name)
		return value
	case hasFallback:
		return fallback
	default:
		return original
	}
}

// ParseTokenMap collects every custom property declaration in cssText.
// Later declarations of the same name override earlier ones.
func ParseTokenMap(cssText string) TokenMap {
	tokens := make(TokenMap)
	toks := lexCSS(cssText)

	// Only a name at the start of a declaration counts, not one inside var()
	declStart := true
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if isTrivia(t) {
			continue
		}

		if declStart && isCustomProperty(t) {
			j := i + 1
			for j < len(toks) && isTrivia(toks[j]) {
				j++
			}
			if j < len(toks) && toks[j].tt == css.ColonToken {
				end := declarationEnd(toks, j+1)
				tokens[t.text] = strings.TrimSpace(joinTokens(toks[j+1 : end]))
				i = end - 1
				declStart = false
				continue
			}
		}

		declStart = t.tt == css.LeftBraceToken || t.tt == css.SemicolonToken || t.tt == css.RightBraceToken
	}

	return tokens
}

// declarationEnd returns the index of the ';' or '}' ending the declaration
// value that starts at from.
func declarationEnd(toks []cssToken, from int) int {
	depth := 0
	for i := from; i < len(toks); i++ {
		switch toks[i].tt {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			depth--
		case css.SemicolonToken, css.RightBraceToken, css.LeftBraceToken:
			if depth <= 0 {
				return i
			}
		}
	}
	return len(toks)
}

// LoadTokenMap reads design-token stylesheets in order and merges their custom
// property declarations, later files overriding earlier ones.
func LoadTokenMap(paths ...string) (TokenMap, error) {
	tokens := make(TokenMap)

	for _, p := range paths {
		// #nosec G304 - token paths come from trusted configuration
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read token file %s: %w", p, err)
		}
		for name, value := range ParseTokenMap(string(content)) {
			tokens[name] = value
		}
	}

	return tokens, nil
}
