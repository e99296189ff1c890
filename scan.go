package prism

import "strings"

// The helpers below walk JavaScript source just far enough to find matching
// brackets and literal boundaries. They know about strings, template literals
// (including nested ${...} substitutions) and comments, and nothing else.

// skipString returns the index just past the string literal opened at src[i].
// An unterminated string ends at the next newline.
func skipString(src string, i int) int {
	quote := src[i]
	i++
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
			continue
		case quote:
			return i + 1
		case '\n':
			return i
		}
		i++
	}
	return len(src)
}

// skipTemplate returns the index just past the template literal opened at src[i].
func skipTemplate(src string, i int) int {
	i++
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
			continue
		case '`':
			return i + 1
		case '$':
			if i+1 < len(src) && src[i+1] == '{' {
				end := matchBracket(src, i+1)
				if end < 0 {
					return len(src)
				}
				i = end + 1
				continue
			}
		}
		i++
	}
	return len(src)
}

// skipComment returns the index just past a comment starting at src[i], or i
// when there is no comment there.
func skipComment(src string, i int) int {
	if i+1 >= len(src) || src[i] != '/' {
		return i
	}
	switch src[i+1] {
	case '/':
		if end := strings.IndexByte(src[i:], '\n'); end >= 0 {
			return i + end
		}
		return len(src)
	case '*':
		if end := strings.Index(src[i+2:], "*/"); end >= 0 {
			return i + 2 + end + 2
		}
		return len(src)
	}
	return i
}

// skipLiteral advances over a string, template literal or comment at src[i].
// It reports false when src[i] starts none of them.
func skipLiteral(src string, i int) (int, bool) {
	switch src[i] {
	case '"', '\'':
		return skipString(src, i), true
	case '`':
		return skipTemplate(src, i), true
	case '/':
		if end := skipComment(src, i); end > i {
			return end, true
		}
	}
	return i, false
}

// matchBracket returns the index of the bracket closing the one at src[open],
// or -1 when the source ends first. All three bracket kinds share one depth
// counter, which is enough for well-formed input.
func matchBracket(src string, open int) int {
	depth := 0
	for i := open; i < len(src); {
		if next, ok := skipLiteral(src, i); ok {
			i = next
			continue
		}
		switch src[i] {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
			if depth == 0 {
				return i
			}
		}
		i++
	}
	return -1
}

// indexCode returns the index of the first byte c at or after from that is
// outside literals, comments and nested brackets, or -1.
func indexCode(src string, from int, c byte) int {
	for i := from; i < len(src); {
		if next, ok := skipLiteral(src, i); ok {
			i = next
			continue
		}
		switch src[i] {
		case c:
			return i
		case '(', '[':
			if end := matchBracket(src, i); end >= 0 {
				i = end + 1
				continue
			}
			return -1
		}
		i++
	}
	return -1
}

// isCode reports whether src[pos] lies outside every literal and comment.
func isCode(src string, pos int) bool {
	for i := 0; i < len(src) && i <= pos; {
		next, ok := skipLiteral(src, i)
		if !ok {
			i++
			continue
		}
		if pos < next {
			return false
		}
		i = next
	}
	return true
}

// readTemplateLiteral returns the raw text between the backticks of the
// template literal opened at src[i].
func readTemplateLiteral(src string, i int) (string, bool) {
	if i >= len(src) || src[i] != '`' {
		return "", false
	}
	end := skipTemplate(src, i)
	if end > len(src) || src[end-1] != '`' || end-1 == i {
		return "", false
	}
	return src[i+1 : end-1], true
}

// blockAfter returns the contents of the first {...} block opening at or
// after from, along with the index of its closing brace.
func blockAfter(src string, from int) (string, int, bool) {
	open := indexCode(src, from, '{')
	if open < 0 {
		return "", -1, false
	}
	end := matchBracket(src, open)
	if end < 0 {
		return "", -1, false
	}
	return src[open+1 : end], end, true
}

// splitTopLevel splits s on sep, ignoring separators nested in brackets or
// inside literals.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	start := 0
	depth := 0

	for i := 0; i < len(s); {
		if next, ok := skipLiteral(s, i); ok {
			i = next
			continue
		}
		switch s[i] {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
		i++
	}

	if start < len(s) {
		parts = append(parts, s[start:])
	}

	return parts
}

// stripComments removes comments that sit outside string literals.
func stripComments(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		if end := skipComment(s, i); end > i {
			i = end
			continue
		}
		if next, ok := skipLiteral(s, i); ok {
			b.WriteString(s[i:next])
			i = next
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// readExpression returns the expression text starting at from, ending before
// the first top-level ';', ',', newline, or unmatched closing bracket.
func readExpression(src string, from int) string {
	i := from
	for i < len(src) {
		if next, ok := skipLiteral(src, i); ok {
			i = next
			continue
		}
		c := src[i]
		if c == ';' || c == ',' || c == '\n' || c == '}' || c == ')' || c == ']' {
			break
		}
		if c == '{' || c == '(' || c == '[' {
			end := matchBracket(src, i)
			if end < 0 {
				i = len(src)
				break
			}
			i = end + 1
			continue
		}
		i++
	}
	return strings.TrimSpace(src[from:i])
}
