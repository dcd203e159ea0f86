// Package i18n serves the localized notification strings shown after site actions.
package i18n

import (
	"embed"
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

// Message ids shared by handlers.
const (
	MsgCookieDeleted       = "cookie_Borrado_Ok"
	MsgCookieDeleteFailed  = "cookie_Borrado_Error"
	MsgContactSuccess      = "contact_Success"
	MsgContactRetry        = "contact_Error_Retry"
	MsgBlogDetailsError    = "blog_Details_Error"
	MsgConsentConfirmEmpty = "consent_Confirm_Empty"
	MsgContentUnavailable  = "content_Unavailable"
)

//go:embed locales/*.toml
var localeFS embed.FS

var files = []string{
	"locales/active.es.toml",
	"locales/active.en.toml",
	"locales/active.de.toml",
}

// Translator resolves message ids for a locale, falling back to Spanish.
type Translator struct {
	bundle *i18n.Bundle
}

// New loads the embedded message files.
func New() (*Translator, error) {
	bundle := i18n.NewBundle(language.Spanish)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, f := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return &Translator{bundle: bundle}, nil
}

// Message returns the text of id in locale. Unknown ids come back verbatim.
func (t *Translator) Message(locale, id string) string {
	localizer := i18n.NewLocalizer(t.bundle, locale, language.Spanish.String())
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil || msg == "" {
		return id
	}
	return msg
}
