// internal/app/system/requestid/requestid.go
// Package requestid tags every request with an id that is echoed in the
// X-Request-ID response header and attached to error logs.
package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Header carries the id in both directions.
const Header = "X-Request-ID"

type ctxKey struct{}

// Middleware reuses an incoming X-Request-ID when it parses as a UUID and
// generates a new one otherwise.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// FromContext returns the request id, or "" outside a tagged request.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
