// internal/app/features/users/check.go
package users

import (
	"context"
	"net/http"

	"github.com/dalemusser/bizadmin/internal/app/system/jsonio"
	"github.com/dalemusser/bizadmin/internal/app/system/normalize"
	"github.com/dalemusser/bizadmin/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
)

// ServeCheckUsername reports whether an active user already holds the
// username. A blank username is never taken.
func (h *Handler) ServeCheckUsername(w http.ResponseWriter, r *http.Request) {
	username := normalize.Username(query.Get(r, "username"))
	if username == "" {
		jsonio.Write(w, http.StatusOK, checkResponse{Exists: false})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	exists, err := h.users.UsernameExists(ctx, username)
	if err != nil {
		h.Metrics.UsernameCheck("error")
		h.ErrLog.LogServerError(w, r, "check username failed", err, "Error checking username.")
		return
	}
	if exists {
		h.Metrics.UsernameCheck("taken")
	} else {
		h.Metrics.UsernameCheck("free")
	}
	jsonio.Write(w, http.StatusOK, checkResponse{Exists: exists})
}
