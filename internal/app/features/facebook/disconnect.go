// internal/app/features/facebook/disconnect.go
package facebook

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/bizadmin/internal/app/store/facebookconns"
	"github.com/dalemusser/bizadmin/internal/app/system/jsonio"
	"github.com/dalemusser/bizadmin/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandleDisconnect deletes one of the caller's connections.
func (h *Handler) HandleDisconnect(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(r)
	if !ok {
		jsonio.WriteMessage(w, http.StatusUnauthorized, "Unauthenticated.")
		return
	}
	fbUserID := chi.URLParam(r, "facebook_user_id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.conns.Delete(ctx, userID, fbUserID)
	if errors.Is(err, facebookconns.ErrNotFound) {
		jsonio.WriteMessage(w, http.StatusNotFound, connectionNotFoundMsg)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "disconnect facebook failed", err, "Failed to disconnect.")
		return
	}

	h.Log.Info("facebook disconnected", zap.String("user_id", userID.Hex()), zap.String("facebook_user_id", fbUserID))
	h.AuditLog.FacebookDisconnected(ctx, r, userID.Hex(), fbUserID)
	h.Metrics.AdminAction("facebook_disconnected")

	jsonio.WriteMessage(w, http.StatusOK, "Disconnected successfully")
}
