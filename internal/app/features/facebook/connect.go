// internal/app/features/facebook/connect.go
package facebook

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/bizadmin/internal/app/store/facebookconns"
	"github.com/dalemusser/bizadmin/internal/app/system/inputval"
	"github.com/dalemusser/bizadmin/internal/app/system/jsonio"
	"github.com/dalemusser/bizadmin/internal/app/system/timeouts"
	"go.uber.org/zap"
)

const invalidDataMsg = "The given data was invalid."

// HandleConnect saves the Facebook account the caller just authorized.
// When selected_page_id names one of the submitted pages that page is
// stored too; otherwise the connection is left without a page.
func (h *Handler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(r)
	if !ok {
		jsonio.WriteMessage(w, http.StatusUnauthorized, "Unauthenticated.")
		return
	}

	var in connectInput
	if err := jsonio.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode connect body failed", err, "Invalid request body.")
		return
	}
	in.FacebookUserID = strings.TrimSpace(in.FacebookUserID)
	in.FacebookUserName = strings.TrimSpace(in.FacebookUserName)
	in.SelectedPageID = strings.TrimSpace(in.SelectedPageID)

	errs := inputval.Struct(in, nil)
	page, hasPage := in.selectedPage()
	if in.SelectedPageID != "" && !hasPage {
		if errs == nil {
			errs = inputval.Errors{}
		}
		errs.Add("selected_page_id", "The selected page id is invalid.")
	}
	if errs != nil {
		jsonio.WriteValidation(w, invalidDataMsg, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var sel *facebookconns.Page
	if hasPage {
		sel = &facebookconns.Page{
			ID:          page.ID,
			Name:        page.Name,
			Picture:     page.Picture,
			AccessToken: page.AccessToken,
		}
	}

	// The page, if any, is stored in the same update as the connection;
	// either both are saved or neither is.
	conn, err := h.conns.Upsert(ctx, userID, in.FacebookUserID, in.FacebookUserName, in.AccessToken, sel)
	if errors.Is(err, facebookconns.ErrConnectedElsewhere) {
		jsonio.WriteMessage(w, http.StatusConflict, "This Facebook account is connected to another user.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "upsert facebook connection failed", err, "Failed to save connection.")
		return
	}

	actor := userID.Hex()
	h.Log.Info("facebook connected", zap.String("user_id", actor), zap.String("facebook_user_id", conn.FacebookUserID))
	h.AuditLog.FacebookConnected(ctx, r, actor, conn.FacebookUserID)
	h.Metrics.AdminAction("facebook_connected")
	if hasPage {
		h.AuditLog.FacebookPageSelected(ctx, r, actor, conn.FacebookUserID, page.ID)
	}

	jsonio.WriteMessage(w, http.StatusOK, "Connection saved successfully")
}
