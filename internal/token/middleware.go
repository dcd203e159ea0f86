package token

import (
	"log/slog"
	"net/http"

	"paraiso/pkg/platform/httputil"
	"paraiso/pkg/platform/privacy"
	"paraiso/pkg/requestcontext"
)

// Verifier checks a timed token.
type Verifier interface {
	Verify(token string) error
}

// RequireTimedToken rejects requests without a valid x-timed-token header with 403.
func RequireTimedToken(v Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := v.Verify(r.Header.Get(Header)); err != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "timed token rejected",
					"request_id", requestcontext.RequestID(ctx),
					"path", r.URL.Path,
					"remote_addr_prefix", privacy.AnonymizeIP(requestcontext.ClientIP(ctx)),
				)
				httputil.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
