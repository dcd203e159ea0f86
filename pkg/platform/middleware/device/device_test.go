package device

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"paraiso/pkg/requestcontext"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		ua       string
		expected string
	}{
		{"iphone", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1", TypeMobile},
		{"android phone", "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36", TypeMobile},
		{"desktop chrome", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36", TypePC},
		{"empty", "", TypePC},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Classify(tc.ua))
		})
	}
}

func TestDeviceMiddleware(t *testing.T) {
	var got, lang string
	handler := Device(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = requestcontext.DeviceType(r.Context())
		lang = requestcontext.BrowserLanguage(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en;q=0.5,de-DE;q=0.9")
	ctx := requestcontext.WithClientMetadata(req.Context(), "127.0.0.1",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Mobile/15E148")
	handler.ServeHTTP(httptest.NewRecorder(), req.WithContext(ctx))

	assert.Equal(t, TypeMobile, got)
	assert.Equal(t, "de-DE", lang)
}

func TestPreferredLanguage(t *testing.T) {
	assert.Equal(t, "es-ES", PreferredLanguage("es-ES,es;q=0.9,en;q=0.8"))
	assert.Empty(t, PreferredLanguage(""))
}
