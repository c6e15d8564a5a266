// internal/app/features/facebook/pages.go
package facebook

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/bizadmin/internal/app/store/facebookconns"
	"github.com/dalemusser/bizadmin/internal/app/system/graph"
	"github.com/dalemusser/bizadmin/internal/app/system/jsonio"
	"github.com/dalemusser/bizadmin/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

const connectionNotFoundMsg = "Connection not found."

// ServePages lists the Pages the stored user token can manage, so the
// caller can choose one explicitly.
func (h *Handler) ServePages(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(r)
	if !ok {
		jsonio.WriteMessage(w, http.StatusUnauthorized, "Unauthenticated.")
		return
	}
	fbUserID := chi.URLParam(r, "facebook_user_id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	conn, err := h.conns.Get(ctx, userID, fbUserID)
	if errors.Is(err, facebookconns.ErrNotFound) {
		jsonio.WriteMessage(w, http.StatusNotFound, connectionNotFoundMsg)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load facebook connection failed", err, "Failed to load pages.")
		return
	}

	pages, err := h.Graph.Pages(ctx, conn.AccessToken)
	if errors.Is(err, graph.ErrUnauthorized) {
		h.ErrLog.LogUpstreamError(w, r, "facebook token rejected", err, "The Facebook session has expired. Please reconnect.")
		return
	}
	if err != nil {
		h.ErrLog.LogUpstreamError(w, r, "graph pages request failed", err, "Failed to load pages from Facebook.")
		return
	}

	jsonio.Write(w, http.StatusOK, pagesResponse{Pages: pages})
}
