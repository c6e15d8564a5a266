// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/bizadmin/internal/app/system/auth"
	"github.com/dalemusser/bizadmin/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the user management API under the path where this router
// is mounted ("/system/user" from bootstrap). checkLimiter throttles the
// username availability check, which the console calls on every pause in
// typing; nil disables throttling.
//
//	h := users.NewHandler(db, errLog, audit, m, logger)
//	r.Mount("/system/user", users.Routes(h, sessionMgr, ratelimit.New(120)))
func Routes(h *Handler, sm *auth.SessionManager, checkLimiter *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)

		if checkLimiter != nil {
			pr.With(checkLimiter.Middleware).Get("/check-username", h.ServeCheckUsername)
		} else {
			pr.Get("/check-username", h.ServeCheckUsername)
		}

		pr.Get("/{id}", h.ServeShow)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Put("/{id}/status", h.HandleDelete)
	})

	return r
}
