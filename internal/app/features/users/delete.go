// internal/app/features/users/delete.go
package users

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/bizadmin/internal/app/store/users"
	"github.com/dalemusser/bizadmin/internal/app/system/jsonio"
	"github.com/dalemusser/bizadmin/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandleDelete soft-deletes a user by setting status to 0. The row
// disappears from the list and its username becomes available.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		jsonio.WriteMessage(w, http.StatusNotFound, userNotFoundMsg)
		return
	}
	actor := actorID(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.users.SoftDelete(ctx, id)
	if errors.Is(err, userstore.ErrNotFound) {
		jsonio.WriteMessage(w, http.StatusNotFound, userNotFoundMsg)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete user failed", err, "Failed to delete user.")
		return
	}

	h.Log.Info("user deleted", zap.String("user_id", id.Hex()), zap.String("actor_id", actor))
	h.AuditLog.UserDeleted(ctx, r, actor, id)
	h.Metrics.AdminAction("user_deleted")

	jsonio.WriteMessage(w, http.StatusOK, "User deleted successfully.")
}
