// internal/app/features/users/list.go
package users

import (
	"context"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/bizadmin/internal/app/store/users"
	"github.com/dalemusser/bizadmin/internal/app/system/jsonio"
	"github.com/dalemusser/bizadmin/internal/app/system/paging"
	"github.com/dalemusser/bizadmin/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeList returns one page of active users.
//
// Query: search (matches username or full name), page, per_page.
// A page past the end is clamped to the last page, so a client that
// re-fetches its current page after deleting the last row on it still
// gets rows back.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	search := strings.TrimSpace(query.Get(r, "search"))
	perPage := paging.ParsePerPage(r)

	total, err := h.users.Count(ctx, search)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count users failed", err, "Failed to load users.")
		return
	}
	pg := paging.NewPage(paging.ParsePage(r), perPage, total)

	list, total, err := h.users.List(ctx, userstore.ListQuery{
		Search: search,
		Skip:   pg.Skip(),
		Limit:  pg.Limit(),
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list users failed", err, "Failed to load users.")
		return
	}
	pg = paging.NewPage(pg.CurrentPage, perPage, total)

	roles, err := h.roles.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list roles failed", err, "Failed to load users.")
		return
	}
	names := make(map[primitive.ObjectID]string, len(roles))
	opts := make([]roleOption, 0, len(roles))
	for _, role := range roles {
		names[role.ID] = role.Name
		opts = append(opts, roleOption{ID: role.ID.Hex(), Name: role.Name})
	}

	items := make([]userRow, 0, len(list))
	for _, u := range list {
		items = append(items, toRow(u, names))
	}

	jsonio.Write(w, http.StatusOK, listResponse{
		Items:      items,
		Pagination: pg,
		Roles:      opts,
		Search:     search,
	})
}
