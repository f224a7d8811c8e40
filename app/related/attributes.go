package related

import (
	"html"
	"strings"
)

// Directive is one "name|value" line of an attribute template.
type Directive struct {
	Name  string
	Value string
}

// ParseDirectives reads one directive per line. Blank lines and lines without
// a "|" separator are skipped.
func ParseDirectives(text string) []Directive {
	var directives []Directive
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		name, value, ok := strings.Cut(line, "|")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		directives = append(directives, Directive{Name: name, Value: strings.TrimSpace(value)})
	}
	return directives
}

// ResolveDirectives returns a copy of directives with resolve applied to
// every value.
func ResolveDirectives(directives []Directive, resolve func(string) string) []Directive {
	resolved := make([]Directive, len(directives))
	for i, d := range directives {
		resolved[i] = Directive{Name: d.Name, Value: resolve(d.Value)}
	}
	return resolved
}

// Attributes is an insertion-ordered set of HTML attributes where repeated
// names accumulate values instead of replacing them.
type Attributes struct {
	names  []string
	values map[string][]string
}

func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string][]string)}
}

// MergeAttributes applies defaults first and user directives after them.
func MergeAttributes(defaults, user []Directive) *Attributes {
	attrs := NewAttributes()
	for _, d := range defaults {
		attrs.Add(d.Name, d.Value)
	}
	for _, d := range user {
		attrs.Add(d.Name, d.Value)
	}
	return attrs
}

func (a *Attributes) Add(name, value string) {
	value = strings.TrimSpace(value)
	if name == "" || value == "" {
		return
	}
	if _, ok := a.values[name]; !ok {
		a.names = append(a.names, name)
	}
	a.values[name] = append(a.values[name], value)
}

// Names returns attribute names in first-seen order.
func (a *Attributes) Names() []string {
	return append([]string(nil), a.names...)
}

func (a *Attributes) Len() int {
	return len(a.names)
}

// Get returns the joined value of an attribute.
func (a *Attributes) Get(name string) string {
	values := a.values[name]
	if len(values) == 0 {
		return ""
	}

	if name == "style" {
		declarations := make([]string, 0, len(values))
		for _, v := range values {
			v = strings.TrimRight(v, "; ")
			if v != "" {
				declarations = append(declarations, v)
			}
		}
		if len(declarations) == 0 {
			return ""
		}
		return strings.Join(declarations, "; ") + ";"
	}

	return strings.Join(values, " ")
}

// Classes returns individual class names in order.
func (a *Attributes) Classes() []string {
	return strings.Fields(a.Get("class"))
}

// String renders the attributes as ` name="value"` pairs ready to be placed
// inside an HTML start tag.
func (a *Attributes) String() string {
	var b strings.Builder
	for _, name := range a.names {
		value := a.Get(name)
		if value == "" {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(html.EscapeString(name))
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(value))
		b.WriteByte('"')
	}
	return b.String()
}
