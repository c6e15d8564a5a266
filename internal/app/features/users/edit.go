// internal/app/features/users/edit.go
package users

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/bizadmin/internal/app/store/users"
	"github.com/dalemusser/bizadmin/internal/app/system/inputval"
	"github.com/dalemusser/bizadmin/internal/app/system/jsonio"
	"github.com/dalemusser/bizadmin/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// HandleUpdate edits an active user. An empty password keeps the current one.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		jsonio.WriteMessage(w, http.StatusNotFound, userNotFoundMsg)
		return
	}
	actor := actorID(r)

	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.users.GetActiveByID(ctx, id); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			jsonio.WriteMessage(w, http.StatusNotFound, userNotFoundMsg)
			return
		}
		h.ErrLog.LogServerError(w, r, "load user for update failed", err, "Failed to update user.")
		return
	}

	errs, err := h.validate(ctx, in, &id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "validate user update failed", err, "Failed to update user.")
		return
	}
	if errs != nil {
		jsonio.WriteValidation(w, invalidDataMsg, errs)
		return
	}

	roleID, _ := primitive.ObjectIDFromHex(in.RoleID)
	upd := userstore.Update{
		Username: in.Username,
		FullName: in.FullName,
		RoleID:   roleID,
		Remark:   in.Remark,
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "hash password failed", err, "Failed to update user.")
			return
		}
		s := string(hash)
		upd.PasswordHash = &s
	}

	err = h.users.Update(ctx, id, upd)
	switch {
	case errors.Is(err, userstore.ErrDuplicateUsername):
		jsonio.WriteValidation(w, invalidDataMsg, inputval.Errors{"username": usernameTakenMsg})
		return
	case errors.Is(err, userstore.ErrNotFound):
		jsonio.WriteMessage(w, http.StatusNotFound, userNotFoundMsg)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "update user failed", err, "Failed to update user.")
		return
	}

	h.Log.Info("user updated",
		zap.String("user_id", id.Hex()),
		zap.String("actor_id", actor),
		zap.Bool("password_changed", upd.PasswordHash != nil))
	h.AuditLog.UserUpdated(ctx, r, actor, id, upd.PasswordHash != nil)
	h.Metrics.AdminAction("user_updated")

	jsonio.WriteMessage(w, http.StatusOK, "User updated successfully.")
}
