// internal/app/features/users/create.go
package users

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/bizadmin/internal/app/store/users"
	"github.com/dalemusser/bizadmin/internal/app/system/inputval"
	"github.com/dalemusser/bizadmin/internal/app/system/jsonio"
	"github.com/dalemusser/bizadmin/internal/app/system/timeouts"
	"github.com/dalemusser/bizadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// HandleCreate creates an active user.
//
// Body: {username, full_name, role_id, remark?, password, password_confirmation}.
// 201 {"message"} on success, 422 with per-field errors otherwise.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor := actorID(r)

	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	errs, err := h.validate(ctx, in, nil)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "validate new user failed", err, "Failed to create user.")
		return
	}
	if errs != nil {
		jsonio.WriteValidation(w, invalidDataMsg, errs)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password failed", err, "Failed to create user.")
		return
	}
	roleID, _ := primitive.ObjectIDFromHex(in.RoleID)

	created, err := h.users.Create(ctx, models.User{
		Username:     in.Username,
		FullName:     in.FullName,
		RoleID:       roleID,
		Remark:       in.Remark,
		PasswordHash: string(hash),
	})
	if errors.Is(err, userstore.ErrDuplicateUsername) {
		// Lost a race with another create after the availability check.
		jsonio.WriteValidation(w, invalidDataMsg, inputval.Errors{"username": usernameTakenMsg})
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create user failed", err, "Failed to create user.")
		return
	}

	h.Log.Info("user created",
		zap.String("user_id", created.ID.Hex()),
		zap.String("username", created.Username),
		zap.String("actor_id", actor))
	h.AuditLog.UserCreated(ctx, r, actor, created.ID, created.Username)
	h.Metrics.AdminAction("user_created")

	jsonio.WriteMessage(w, http.StatusCreated, "User created successfully.")
}
