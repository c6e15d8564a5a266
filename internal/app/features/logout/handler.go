// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/bizadmin/internal/app/system/auditlog"
	"github.com/dalemusser/bizadmin/internal/app/system/auth"
	"github.com/dalemusser/bizadmin/internal/app/system/jsonio"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
	}
}

// ServeLogout handles POST /logout. The cookie is expired even if the
// session could not be decoded.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.Logout(r.Context(), r, u.ID)
	}

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}

	jsonio.WriteMessage(w, http.StatusOK, "Signed out successfully.")
}
