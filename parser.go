package prism

import (
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"
)

var (
	// customElements.define('arc-button', ArcButton) or with a trailing options argument
	defineCallPattern = regexp.MustCompile("customElements\\.define\\(\\s*['\"`]([A-Za-z][\\w.-]*)['\"`]\\s*,\\s*([A-Za-z_$][\\w$]*)\\s*(?:,|\\))")

	// static properties = { ... } or static get properties() { return { ... } }
	staticPropertiesPattern = regexp.MustCompile(`\bstatic\s+(?:get\s+)?properties\b`)
	staticStylesPattern     = regexp.MustCompile(`\bstatic\s+(?:get\s+)?styles\b`)
	constructorPattern      = regexp.MustCompile(`\bconstructor\s*\(`)
	renderPattern           = regexp.MustCompile(`(?m)^\s*(?:async\s+)?render\s*\(\s*\)\s*\{`)
	cssTagPattern           = regexp.MustCompile("\\bcss\\s*`")
	htmlTagPattern          = regexp.MustCompile("\\bhtml\\s*`")
	propertyKeyPattern      = regexp.MustCompile(`^\s*['"]?([A-Za-z_$][\w$-]*)['"]?\s*:\s*`)
	thisAssignPattern       = regexp.MustCompile(`\bthis\.([A-Za-z_$][\w$]*)\s*=`)

	// this.dispatchEvent(new CustomEvent('arc-click', {...}))
	dispatchPattern = regexp.MustCompile("dispatchEvent\\(\\s*new\\s+(?:Custom)?Event\\(\\s*['\"`]([^'\"`]+)['\"`]")

	// /** @arc-prism hybrid */
	prismAnnotationPattern = regexp.MustCompile(`@[\w-]+-prism\s+(static|interactive|hybrid)\b`)
)

// ParseFile reads a component source file and parses it.
// A nil meta with a nil error means the file is not a component.
func ParseFile(filePath, prefix string) (*ComponentMeta, error) {
	// #nosec G304 - path comes from component discovery
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Parse(string(content), filePath, prefix), nil
}

// Parse recovers a component's interface from its source text. It returns nil
// when the source does not register a custom element for a class it declares.
// Every other missing or malformed piece degrades to a zero-value field.
func Parse(source, filePath, prefix string) *ComponentMeta {
	m := defineCallPattern.FindStringSubmatch(source)
	if m == nil {
		return nil
	}
	tag, className := m[1], m[2]

	classIdx, body, ok := findClass(source, className)
	if !ok {
		return nil
	}

	meta := &ComponentMeta{
		Tag:        tag,
		ClassName:  className,
		PascalName: stripPrefix(className, prefix),
		Tier:       tierFromPath(filePath),
		SourceFile: filePath,
	}

	meta.CSS = extractStyles(body)
	meta.Template = extractTemplate(body)
	meta.Events = extractEvents(source)
	meta.Props = extractProps(body, meta.CSS)
	meta.HostDisplay = hostDisplay(meta.CSS)
	meta.Interactivity = detectInteractivity(source[:classIdx], meta.Events)

	return meta
}

// findClass locates the `class <name>` declaration outside comments and
// string literals and returns its offset and the class body.
func findClass(source, className string) (int, string, bool) {
	pattern := regexp.MustCompile(`\bclass\s+` + regexp.QuoteMeta(className) + `\b`)

	var loc []int
	for _, m := range pattern.FindAllStringIndex(source, -1) {
		if isCode(source, m[0]) {
			loc = m
			break
		}
	}
	if loc == nil {
		return 0, "", false
	}

	body, _, ok := blockAfter(source, loc[1])
	if !ok {
		// Declared but unterminated: still a component, just an empty one.
		return loc[0], "", true
	}
	return loc[0], body, true
}

// stripPrefix removes prefix from className, ignoring case.
// ArcButton with prefix "arc" -> Button
func stripPrefix(className, prefix string) string {
	if prefix == "" || len(className) <= len(prefix) {
		return className
	}
	if strings.EqualFold(className[:len(prefix)], prefix) {
		return className[len(prefix):]
	}
	return className
}

// tierFromPath returns the name of the file's parent directory.
// Backslashes are normalized so Windows paths work on every platform.
func tierFromPath(filePath string) string {
	p := strings.ReplaceAll(filePath, "\\", "/")
	dir := path.Base(path.Dir(p))
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

// detectInteractivity applies the @<tool>-prism annotation override, falling
// back to "interactive when events are dispatched".
func detectInteractivity(beforeClass string, events []string) Interactivity {
	if mode, ok := annotatedMode(beforeClass); ok {
		return mode
	}
	if len(events) > 0 {
		return Interactive
	}
	return Static
}

// annotatedMode reads the doc comment that immediately precedes the class
// declaration, if there is one.
func annotatedMode(beforeClass string) (Interactivity, bool) {
	text := strings.TrimRight(beforeClass, " \t\r\n")
	for _, kw := range []string{"default", "export"} {
		if strings.HasSuffix(text, kw) {
			text = strings.TrimRight(strings.TrimSuffix(text, kw), " \t\r\n")
		}
	}
	if !strings.HasSuffix(text, "*/") {
		return "", false
	}

	start := strings.LastIndex(text, "/*")
	if start < 0 {
		return "", false
	}

	m := prismAnnotationPattern.FindStringSubmatch(text[start:])
	if m == nil {
		return "", false
	}
	return Interactivity(m[1]), true
}

// extractStyles returns the raw text of the component's css`` block.
func extractStyles(body string) string {
	from := 0
	if loc := staticStylesPattern.FindStringIndex(body); loc != nil {
		from = loc[1]
	}

	loc := cssTagPattern.FindStringIndex(body[from:])
	if loc == nil {
		return ""
	}

	text, _ := readTemplateLiteral(body, from+loc[1]-1)
	return text
}

// extractTemplate returns the raw markup of the html`` literal in render().
func extractTemplate(body string) string {
	loc := renderPattern.FindStringIndex(body)
	if loc == nil {
		return ""
	}

	end := matchBracket(body, loc[1]-1)
	if end < 0 {
		return ""
	}
	render := body[loc[1]:end]

	tl := htmlTagPattern.FindStringIndex(render)
	if tl == nil {
		return ""
	}

	text, _ := readTemplateLiteral(render, tl[1]-1)
	return text
}

// extractEvents collects dispatched event names, first occurrence wins.
func extractEvents(source string) []string {
	events := []string{}
	seen := make(map[string]bool)

	for _, m := range dispatchPattern.FindAllStringSubmatch(source, -1) {
		name := m[1]
		if !seen[name] {
			seen[name] = true
			events = append(events, name)
		}
	}

	return events
}

// extractProps reads the static properties block, then fills in constructor
// defaults and enum values found in the stylesheet.
func extractProps(body, cssText string) []Prop {
	props := []Prop{}

	block, ok := propertiesBlock(body)
	if !ok {
		return props
	}

	index := make(map[string]int)
	for _, entry := range splitTopLevel(stripComments(block), ',') {
		prop, ok := parsePropEntry(entry)
		if !ok {
			continue
		}
		// Duplicate names: last descriptor wins, first position is kept
		if i, dup := index[prop.Name]; dup {
			props[i] = prop
			continue
		}
		index[prop.Name] = len(props)
		props = append(props, prop)
	}

	defaults := constructorDefaults(body)
	for i := range props {
		props[i].Default = defaults[props[i].Name]
		props[i].Values = hostAttributeValues(cssText, props[i].Name)
	}

	return props
}

// propertiesBlock returns the inside of the property-descriptor object.
func propertiesBlock(body string) (string, bool) {
	loc := staticPropertiesPattern.FindStringIndex(body)
	if loc == nil {
		return "", false
	}

	rest := strings.TrimLeft(body[loc[1]:], " \t\r\n")
	if strings.HasPrefix(rest, "(") {
		// Getter form: the object is whatever the getter returns
		getter, _, ok := blockAfter(body, loc[1])
		if !ok {
			return "", false
		}
		ret := strings.Index(getter, "return")
		if ret < 0 {
			return "", false
		}
		obj, _, ok := blockAfter(getter, ret)
		return obj, ok
	}

	obj, _, ok := blockAfter(body, loc[1])
	return obj, ok
}

// parsePropEntry parses `name: { type: String, reflect: true }`.
func parsePropEntry(entry string) (Prop, bool) {
	m := propertyKeyPattern.FindStringSubmatchIndex(entry)
	if m == nil {
		return Prop{}, false
	}

	prop := Prop{Name: entry[m[2]:m[3]]}
	value := strings.TrimSpace(entry[m[1]:])

	if !strings.HasPrefix(value, "{") {
		// Shorthand `name: String` still names the type
		prop.Type = identifier(value)
		return prop, true
	}

	end := matchBracket(value, 0)
	if end < 0 {
		return prop, true
	}

	for _, field := range splitTopLevel(value[1:end], ',') {
		key, val, found := strings.Cut(field, ":")
		if !found {
			continue
		}
		switch strings.Trim(strings.TrimSpace(key), `'"`) {
		case "type":
			prop.Type = identifier(strings.TrimSpace(val))
		case "reflect":
			prop.Reflect = strings.TrimSpace(val) == "true"
		}
	}

	return prop, true
}

// identifier returns the leading identifier of s.
func identifier(s string) string {
	for i, r := range s {
		if !(r == '_' || r == '$' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || i > 0 && r >= '0' && r <= '9') {
			return s[:i]
		}
	}
	return s
}

// constructorDefaults maps property names to the literal source text of their
// first `this.<name> = ...` assignment in the constructor.
func constructorDefaults(body string) map[string]string {
	defaults := make(map[string]string)

	loc := constructorPattern.FindStringIndex(body)
	if loc == nil {
		return defaults
	}
	closeParen := matchBracket(body, loc[1]-1)
	if closeParen < 0 {
		return defaults
	}
	ctor, _, ok := blockAfter(body, closeParen+1)
	if !ok {
		return defaults
	}

	for _, m := range thisAssignPattern.FindAllStringSubmatchIndex(ctor, -1) {
		// Comparisons, not assignments
		if m[1] < len(ctor) && ctor[m[1]] == '=' {
			continue
		}
		name := ctor[m[2]:m[3]]
		if _, seen := defaults[name]; seen {
			continue
		}
		if value := readExpression(ctor, m[1]); value != "" {
			defaults[name] = value
		}
	}

	return defaults
}

// hostAttributeValues collects the distinct literal values compared against
// attribute name in :host([name="value"]) conditions, including negated ones.
func hostAttributeValues(cssText, name string) []string {
	if cssText == "" {
		return nil
	}

	pattern := regexp.MustCompile(`:host\(\s*(?::not\(\s*)?\[\s*` + regexp.QuoteMeta(name) +
		`\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\]\s]+))\s*\]`)

	var values []string
	seen := make(map[string]bool)
	for _, m := range pattern.FindAllStringSubmatch(cssText, -1) {
		value := m[1] + m[2] + m[3]
		if !seen[value] {
			seen[value] = true
			values = append(values, value)
		}
	}

	return values
}
