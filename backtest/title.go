package backtest

import (
	"reflect"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// describe returns the report title and description of st. Documented
// strategies use their first non-blank doc line as the title and the rest,
// trimmed, as the description. Otherwise the title is the type name split
// into words.
func describe(st Strategy) (title, description string) {
	if d, ok := st.(Documented); ok {
		if title, description = parseDoc(d.Doc()); title != "" {
			return title, description
		}
	}
	return humanize(typeName(st)), ""
}

func parseDoc(doc string) (title, description string) {
	lines := strings.Split(doc, "\n")
	i := 0
	for ; i < len(lines); i++ {
		if t := strings.TrimSpace(lines[i]); t != "" {
			title = t
			break
		}
	}
	if title == "" {
		return "", ""
	}

	var rest []string
	for _, l := range lines[i+1:] {
		rest = append(rest, strings.TrimSpace(l))
	}
	for len(rest) > 0 && rest[0] == "" {
		rest = rest[1:]
	}
	for len(rest) > 0 && rest[len(rest)-1] == "" {
		rest = rest[:len(rest)-1]
	}
	return title, strings.Join(rest, "\n")
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}

// humanize splits a Go identifier into title-cased words. Acronyms stay
// upper case: "EMACrossStrategy" becomes "EMA Cross Strategy".
func humanize(name string) string {
	var words []string
	var cur []rune
	runes := []rune(name)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	for i, r := range runes {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			flush()
			continue
		}
		if i > 0 && unicode.IsUpper(r) && len(cur) > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if !unicode.IsUpper(prev) || nextLower {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()

	caser := cases.Title(language.English)
	for i, w := range words {
		if strings.ToUpper(w) != w {
			words[i] = caser.String(w)
		}
	}
	return strings.Join(words, " ")
}
