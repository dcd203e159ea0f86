// Package locale resolves the site language and maps paths between locales.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale is one of the supported site languages.
type Locale string

const (
	ES Locale = "es"
	EN Locale = "en"
	DE Locale = "de"

	Default = ES
)

// Supported lists the site languages, default first.
var Supported = []Locale{ES, EN, DE}

func (l Locale) String() string { return string(l) }

func (l Locale) IsValid() bool {
	switch l {
	case ES, EN, DE:
		return true
	}
	return false
}

// Parse returns the locale named by s.
func Parse(s string) (Locale, bool) {
	l := Locale(strings.ToLower(strings.TrimSpace(s)))
	return l, l.IsValid()
}

// FromCookie accepts a _locale cookie value only when it names a supported
// locale exactly.
func FromCookie(v string) (Locale, bool) {
	l := Locale(v)
	return l, l.IsValid()
}

// OrDefault returns l when valid, otherwise Default.
func OrDefault(s string) Locale {
	if l, ok := Parse(s); ok {
		return l
	}
	return Default
}

// Resolve picks the visitor locale from the _locale cookie value, then the
// browser language, then Default. fromCookie reports that the cookie decided,
// which also means personalization was granted earlier.
func Resolve(cookieValue, acceptLanguage string) (l Locale, fromCookie bool) {
	if l, ok := FromCookie(cookieValue); ok {
		return l, true
	}
	return fromBrowser(acceptLanguage), false
}

// ResolveMap picks the map widget locale: the router locale when valid,
// then the browser language, then Default.
func ResolveMap(routerLocale, acceptLanguage string) Locale {
	if l, ok := Parse(routerLocale); ok {
		return l
	}
	return fromBrowser(acceptLanguage)
}

// fromBrowser uses the first two letters of the preferred browser language.
func fromBrowser(acceptLanguage string) Locale {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	primary := tags[0].String()
	if len(primary) < 2 {
		return Default
	}
	return OrDefault(primary[:2])
}

// Split separates a locale prefix from path. Unprefixed paths belong to Default.
func Split(path string) (l Locale, base string, prefixed bool) {
	if path == "" {
		path = "/"
	}
	trimmed := strings.TrimPrefix(path, "/")
	head, rest, found := strings.Cut(trimmed, "/")
	if loc, ok := Parse(head); ok && head == string(loc) {
		if !found || rest == "" {
			return loc, "/", true
		}
		return loc, "/" + rest, true
	}
	return Default, path, false
}

// Prefixed joins a locale and a base path.
func Prefixed(l Locale, base string) string {
	if base == "" || base == "/" {
		return "/" + string(l)
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	return "/" + string(l) + base
}

// BlogSlug returns the article slug when base is a blog detail path.
func BlogSlug(base string) (string, bool) {
	slug, ok := strings.CutPrefix(base, "/blog/")
	if !ok || slug == "" || strings.Contains(slug, "/") {
		return "", false
	}
	return slug, true
}
