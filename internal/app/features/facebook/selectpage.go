// internal/app/features/facebook/selectpage.go
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
)

// HandleSelectPage stores the page chosen for one of the caller's
// connections. A missing picture falls back to a placeholder.
func (h *Handler) HandleSelectPage(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(r)
	if !ok {
		jsonio.WriteMessage(w, http.StatusUnauthorized, "Unauthenticated.")
		return
	}

	var in selectPageInput
	if err := jsonio.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode select-page body failed", err, "Invalid request body.")
		return
	}
	in.FacebookUserID = strings.TrimSpace(in.FacebookUserID)
	in.PageID = strings.TrimSpace(in.PageID)
	in.PageName = strings.TrimSpace(in.PageName)
	if errs := inputval.Struct(in, nil); errs != nil {
		jsonio.WriteValidation(w, invalidDataMsg, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.conns.SetSelectedPage(ctx, userID, in.FacebookUserID, facebookconns.Page{
		ID:          in.PageID,
		Name:        in.PageName,
		Picture:     strings.TrimSpace(in.PagePicture),
		AccessToken: in.PageAccessToken,
	})
	if errors.Is(err, facebookconns.ErrNotFound) {
		jsonio.WriteMessage(w, http.StatusNotFound, connectionNotFoundMsg)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "select facebook page failed", err, "Failed to select page.")
		return
	}

	h.AuditLog.FacebookPageSelected(ctx, r, userID.Hex(), in.FacebookUserID, in.PageID)
	h.Metrics.AdminAction("facebook_page_selected")

	jsonio.WriteMessage(w, http.StatusOK, "Page selected successfully")
}
