package site

import (
	blogmodels "paraiso/internal/blog/models"
	charcmodels "paraiso/internal/charcuterie/models"
	consentmodels "paraiso/internal/consent/models"
	"paraiso/internal/locale"
)

// PageResponse is everything the front end needs to render a page.
type PageResponse struct {
	Page       string                      `json:"page"`
	Locale     locale.Locale               `json:"locale"`
	MapLocale  locale.Locale               `json:"map_locale"`
	Path       string                      `json:"path"`
	Alternates map[locale.Locale]string    `json:"alternates"`
	Consent    consentmodels.StateResponse `json:"consent"`
	Products   []charcmodels.Product       `json:"products,omitempty"`
	Posts      []blogmodels.Post           `json:"posts,omitempty"`
	Post       *blogmodels.Post            `json:"post,omitempty"`
	// ContentError is a localized notice shown when embedded content failed to load.
	ContentError string `json:"content_error,omitempty"`
}

// ContactResponse answers the contact form.
type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// alternates maps every locale to the prefixed version of base.
func alternates(base string) map[locale.Locale]string {
	out := make(map[locale.Locale]string, len(locale.Supported))
	for _, l := range locale.Supported {
		out[l] = locale.Prefixed(l, base)
	}
	return out
}
