package tracking

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	consentmodels "paraiso/internal/consent/models"
	"paraiso/internal/session"
	dErrors "paraiso/pkg/domain-errors"
	"paraiso/pkg/platform/cookies"
	"paraiso/pkg/platform/middleware/device"
	"paraiso/pkg/requestcontext"
	"paraiso/pkg/validation"
)

func testJar(t *testing.T, reqCookies ...*http.Cookie) *cookies.HTTPJar {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range reqCookies {
		r.AddCookie(c)
	}
	return cookies.NewHTTPJar(httptest.NewRecorder(), r, cookies.Options{})
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func grantedSession() *session.Session {
	sess := &session.Session{ID: "s", Locale: "es", Consent: consentmodels.NewState()}
	sess.Consent.Grant(consentmodels.CategoryAnalysis)
	return sess
}

func TestRecordVisit(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing is written without analysis consent", func(t *testing.T) {
		rec := NewRecorder(discard(), NewMetrics(prometheus.NewRegistry()))
		jar := testJar(t)
		sess := &session.Session{Consent: consentmodels.NewState()}

		added, err := rec.RecordVisit(ctx, sess, jar, "carta")

		require.NoError(t, err)
		assert.False(t, added)
		_, ok := jar.Get(consentmodels.CookieVisited)
		assert.False(t, ok)
	})

	t.Run("pages are appended once", func(t *testing.T) {
		metrics := NewMetrics(prometheus.NewRegistry())
		rec := NewRecorder(discard(), metrics)
		jar := testJar(t, &http.Cookie{Name: consentmodels.CookieVisited, Value: "index"})
		sess := grantedSession()

		added, err := rec.RecordVisit(ctx, sess, jar, "carta")
		require.NoError(t, err)
		assert.True(t, added)

		added, err = rec.RecordVisit(ctx, sess, jar, "index")
		require.NoError(t, err)
		assert.False(t, added)

		v, _ := jar.Get(consentmodels.CookieVisited)
		assert.Equal(t, "index,carta", v)
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Visits.WithLabelValues("carta")))
	})

	t.Run("oldest pages are dropped past the cap", func(t *testing.T) {
		rec := NewRecorder(discard(), nil)
		pages := make([]string, validation.MaxVisitedEntries)
		for i := range pages {
			pages[i] = fmt.Sprintf("p%d", i)
		}
		jar := testJar(t, &http.Cookie{Name: consentmodels.CookieVisited, Value: strings.Join(pages, ",")})

		_, err := rec.RecordVisit(ctx, grantedSession(), jar, "carta")
		require.NoError(t, err)

		v, _ := jar.Get(consentmodels.CookieVisited)
		got := strings.Split(v, ",")
		assert.Len(t, got, validation.MaxVisitedEntries)
		assert.Equal(t, "p1", got[0])
		assert.Equal(t, "carta", got[len(got)-1])
	})

	t.Run("invalid page id is rejected", func(t *testing.T) {
		rec := NewRecorder(discard(), nil)
		_, err := rec.RecordVisit(ctx, grantedSession(), testJar(t), "a,b")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestDeviceCookie(t *testing.T) {
	ctx := requestcontext.WithDeviceType(context.Background(), device.TypeMobile)
	ctx = requestcontext.WithBrowserLanguage(ctx, "es-ES")

	t.Run("written from request metadata", func(t *testing.T) {
		rec := NewRecorder(discard(), nil)
		jar := testJar(t)

		require.NoError(t, rec.WriteDevice(ctx, jar))

		v, ok := jar.Get(consentmodels.CookieDevice)
		require.True(t, ok)
		info, err := DecodeDevice(v)
		require.NoError(t, err)
		assert.Equal(t, DeviceInfo{DeviceType: device.TypeMobile, ScreenResolution: "unknown", Language: "es-ES"}, info)
	})

	t.Run("screen report needs analysis consent", func(t *testing.T) {
		rec := NewRecorder(discard(), nil)
		jar := testJar(t)

		recorded, err := rec.ReportScreen(ctx, &session.Session{Consent: consentmodels.NewState()}, jar, "1920x1080")

		require.NoError(t, err)
		assert.False(t, recorded)
		_, ok := jar.Get(consentmodels.CookieDevice)
		assert.False(t, ok)
	})

	t.Run("screen report is kept on later writes", func(t *testing.T) {
		metrics := NewMetrics(prometheus.NewRegistry())
		rec := NewRecorder(discard(), metrics)
		jar := testJar(t)

		recorded, err := rec.ReportScreen(ctx, grantedSession(), jar, " 390X844 ")
		require.NoError(t, err)
		assert.True(t, recorded)

		require.NoError(t, rec.WriteDevice(ctx, jar))
		v, _ := jar.Get(consentmodels.CookieDevice)
		info, err := DecodeDevice(v)
		require.NoError(t, err)
		assert.Equal(t, "390x844", info.ScreenResolution)
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.DeviceReports))
	})

	t.Run("malformed resolution is rejected", func(t *testing.T) {
		rec := NewRecorder(discard(), nil)
		_, err := rec.ReportScreen(ctx, grantedSession(), testJar(t), "huge")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
