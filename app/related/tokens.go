package related

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/lysyi3m/related-nodes/app/token"
)

// ItemNamespace is the token namespace of the row item.
const ItemNamespace = "node"

const ellipsis = "…"

// TokenContext carries the module-namespace token values for one row.
type TokenContext struct {
	Counter     int // 1-based within a pass
	DisplayType string
	Scoped      map[string]string
}

func (c TokenContext) Lookup(name string) (string, bool) {
	switch name {
	case "counter":
		return strconv.Itoa(c.Counter), true
	case "display-type":
		return c.DisplayType, true
	case "display-type-dashed":
		return strings.ReplaceAll(c.DisplayType, "_", "-"), true
	case "display-type-label":
		return DisplayTypeLabel(c.DisplayType), true
	}
	value, ok := c.Scoped[name]
	return value, ok
}

// DisplayTypeLabel turns "most_viewed_today" into "Most Viewed Today".
func DisplayTypeLabel(displayType string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(displayType, "_", " "))
}

// TokenRenderer resolves module and item tokens in user supplied text.
type TokenRenderer struct {
	resolver  TokenResolver
	namespace string
	items     func(SelectedItem) token.Source
}

// NewTokenRenderer creates a renderer publishing TokenContext values under
// namespace. Item tokens come from items, or ItemTokens when items is nil.
func NewTokenRenderer(resolver TokenResolver, namespace string, items func(SelectedItem) token.Source) *TokenRenderer {
	if items == nil {
		items = func(item SelectedItem) token.Source { return ItemTokens(item) }
	}
	return &TokenRenderer{resolver: resolver, namespace: namespace, items: items}
}

func (r *TokenRenderer) Namespace() string {
	return r.namespace
}

// Render resolves tokens in text. item may be nil for container level text.
func (r *TokenRenderer) Render(text string, ctx TokenContext, item *SelectedItem) string {
	if text == "" {
		return ""
	}

	data := map[string]token.Source{r.namespace: ctx}
	if item != nil {
		data[ItemNamespace] = r.items(*item)
	}
	return r.resolver.Replace(text, data)
}

// ItemTokens exposes the fields of a selected item as tokens.
func ItemTokens(item SelectedItem) token.Source {
	return token.SourceFunc(func(name string) (string, bool) {
		switch name {
		case "nid", "id":
			return strconv.FormatInt(item.ID, 10), true
		case "title":
			return item.Title, true
		case "type":
			return item.ContentType, true
		case "created":
			return item.CreatedAt.Format("2006-01-02 15:04"), true
		case "created:timestamp":
			return strconv.FormatInt(item.CreatedAt.Unix(), 10), true
		case "changed":
			return item.UpdatedAt.Format("2006-01-02 15:04"), true
		case "changed:timestamp":
			return strconv.FormatInt(item.UpdatedAt.Unix(), 10), true
		case "views-today":
			return strconv.FormatInt(item.ViewsToday(), 10), true
		case "views-total":
			return strconv.FormatInt(item.ViewsTotal(), 10), true
		}
		return "", false
	})
}

// Truncate shortens text to at most maxLen characters including a trailing
// ellipsis, cutting at the last word boundary that fits when there is one.
// maxLen <= 0 disables truncation.
func Truncate(text string, maxLen int) string {
	if maxLen <= 0 {
		return text
	}

	text = norm.NFC.String(text)
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}

	limit := maxLen - 1
	cut := -1
	for i := min(limit, len(runes)-1); i >= 1; i-- {
		if isWordBoundary(runes, i) {
			cut = i
			break
		}
	}
	if cut < 0 {
		cut = limit
	}

	kept := strings.TrimRightFunc(string(runes[:cut]), func(r rune) bool {
		return unicode.IsSpace(r) || r == '.'
	})
	return kept + ellipsis
}

// isWordBoundary reports whether runes[:i] ends on a whole word: runes[i] is
// a space, or punctuation closing a word such as "," in "one, two".
// Apostrophes and hyphens inside a word do not count.
func isWordBoundary(runes []rune, i int) bool {
	if unicode.IsSpace(runes[i]) {
		return true
	}
	return unicode.IsPunct(runes[i]) && (i+1 == len(runes) || unicode.IsSpace(runes[i+1]))
}
