// Package i18n provides localized user-facing messages for domain error codes.
package i18n

import (
	"strings"
	"text/template"

	"golang.org/x/text/language"
)

// Code mirrors the string form of a domain error code.
type Code = string

// Catalog holds localized message templates keyed by error code.
type Catalog struct {
	locale   string
	tag      language.Tag
	messages map[Code]string
}

// Locale returns the catalog's locale identifier.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message for a code, interpolating metadata into
// {{.Field}} placeholders. Unknown codes fall back to the generic message.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	tmpl, ok := c.messages[code]
	if !ok {
		tmpl = c.messages[CodeUnknown]
	}
	if !strings.Contains(tmpl, "{{") {
		return tmpl
	}

	parsed, err := template.New(code).Parse(tmpl)
	if err != nil {
		return tmpl
	}
	var sb strings.Builder
	if err := parsed.Execute(&sb, metadata); err != nil {
		return tmpl
	}
	return sb.String()
}

var catalogs = []*Catalog{enUSCatalog}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, 0, len(catalogs))
	for _, catalog := range catalogs {
		tags = append(tags, catalog.tag)
	}
	return language.NewMatcher(tags)
}()

// GetCatalog returns the best catalog match for a BCP 47 locale string.
// Unrecognized locales fall back to en-US.
func GetCatalog(locale string) *Catalog {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return enUSCatalog
	}
	_, index, _ := matcher.Match(tag)
	if index < 0 || index >= len(catalogs) {
		return enUSCatalog
	}
	return catalogs[index]
}
