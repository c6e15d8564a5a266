// internal/app/features/facebook/index.go
package facebook

import (
	"context"
	"net/http"

	"github.com/dalemusser/bizadmin/internal/app/system/jsonio"
	"github.com/dalemusser/bizadmin/internal/app/system/timeouts"
)

// ServeIndex lists the caller's connections with the app id.
func (h *Handler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(r)
	if !ok {
		jsonio.WriteMessage(w, http.StatusUnauthorized, "Unauthenticated.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	conns, err := h.conns.ListForUser(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list facebook connections failed", err, "Failed to load connections.")
		return
	}

	jsonio.Write(w, http.StatusOK, indexResponse{Connections: conns, FacebookAppID: h.AppID})
}
