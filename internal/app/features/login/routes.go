// internal/app/features/login/routes.go
package login

import (
	"github.com/dalemusser/bizadmin/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes mounts POST / (sign in) and GET /me. limiter throttles sign-in
// attempts per client IP; nil disables throttling.
func Routes(h *Handler, limiter *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()
	if limiter != nil {
		r.With(limiter.Middleware).Post("/", h.HandleLoginPost)
	} else {
		r.Post("/", h.HandleLoginPost)
	}
	r.Get("/me", h.ServeMe)
	return r
}
