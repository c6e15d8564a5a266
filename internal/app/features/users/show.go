// internal/app/features/users/show.go
package users

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/bizadmin/internal/app/store/users"
	"github.com/dalemusser/bizadmin/internal/app/system/jsonio"
	"github.com/dalemusser/bizadmin/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const userNotFoundMsg = "User not found."

// ServeShow returns a single active user with its role name. The console
// loads this before opening the edit form.
func (h *Handler) ServeShow(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		jsonio.WriteMessage(w, http.StatusNotFound, userNotFoundMsg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.users.GetActiveByID(ctx, id)
	if errors.Is(err, userstore.ErrNotFound) {
		jsonio.WriteMessage(w, http.StatusNotFound, userNotFoundMsg)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user failed", err, "Failed to load user.")
		return
	}

	// A missing role name does not block the edit form; the row still
	// carries role_id.
	names, err := h.roles.NamesByID(ctx)
	if err != nil {
		h.Log.Warn("load role names failed", zap.String("user_id", id.Hex()), zap.Error(err))
		names = map[primitive.ObjectID]string{}
	}
	jsonio.Write(w, http.StatusOK, toRow(*u, names))
}
