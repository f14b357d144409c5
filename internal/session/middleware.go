package session

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/api/middleware"
)

const HeaderName = "X-Session-ID"

// Middleware resolves the caller's session id from the X-Session-ID header,
// echoes it back and attaches a Context to the request.
func Middleware(provider *Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			id := provider.GetOrCreate(r.Context(), r.Header.Get(HeaderName))

			w.Header().Set(HeaderName, id)

			logger := middleware.LoggerFromContext(r.Context()).With(slog.String("sessionId", id))

			ctx := WithContext(r.Context(), Context{ID: id})
			ctx = middleware.WithLogger(ctx, logger)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
