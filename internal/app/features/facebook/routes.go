// internal/app/features/facebook/routes.go
package facebook

import (
	"github.com/dalemusser/bizadmin/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the connection API ("/system/facebook" from bootstrap).
// Any signed-in user manages their own connections.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeIndex)
		pr.Post("/connect", h.HandleConnect)
		pr.Post("/select-page", h.HandleSelectPage)
		pr.Post("/disconnect/{facebook_user_id}", h.HandleDisconnect)
		pr.Get("/{facebook_user_id}/pages", h.ServePages)
	})

	return r
}
