package device

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"
	"golang.org/x/text/language"

	"paraiso/pkg/requestcontext"
)

const (
	TypeMobile = "Tablet-Mobile"
	TypePC     = "PC"
)

// Classify maps a User-Agent to the coarse device class stored in the _device cookie.
func Classify(userAgent string) string {
	if userAgent == "" {
		return TypePC
	}
	ua := useragent.New(userAgent)
	if ua.Mobile() {
		return TypeMobile
	}
	if strings.HasPrefix(ua.OS(), "Android") {
		return TypeMobile
	}
	return TypePC
}

// PreferredLanguage returns the highest ranked tag of an Accept-Language header.
func PreferredLanguage(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return ""
	}
	return tags[0].String()
}

// Device stores the device class and browser language on the context.
// Register it after the metadata middleware, which extracts the User-Agent.
func Device(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = requestcontext.WithDeviceType(ctx, Classify(requestcontext.UserAgent(ctx)))
		ctx = requestcontext.WithBrowserLanguage(ctx, PreferredLanguage(r.Header.Get("Accept-Language")))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
