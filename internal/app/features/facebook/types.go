// internal/app/features/facebook/types.go
package facebook

import (
	"github.com/dalemusser/bizadmin/internal/app/system/graph"
	"github.com/dalemusser/bizadmin/internal/domain/models"
)

type indexResponse struct {
	Connections   []models.FacebookConnection `json:"connections"`
	FacebookAppID string                      `json:"facebook_app_id"`
}

type pagesResponse struct {
	Pages []graph.Page `json:"pages"`
}

type pageInput struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Picture     string `json:"picture"`
	AccessToken string `json:"access_token"`
}

type connectInput struct {
	FacebookUserID   string      `json:"facebook_user_id" validate:"required"`
	FacebookUserName string      `json:"facebook_user_name" validate:"required"`
	AccessToken      string      `json:"access_token" validate:"required"`
	Pages            []pageInput `json:"pages" validate:"omitempty,dive"`
	SelectedPageID   string      `json:"selected_page_id"`
}

// selectedPage returns the submitted page named by SelectedPageID. A page
// is never chosen implicitly.
func (in connectInput) selectedPage() (pageInput, bool) {
	if in.SelectedPageID == "" {
		return pageInput{}, false
	}
	for _, p := range in.Pages {
		if p.ID == in.SelectedPageID {
			return p, true
		}
	}
	return pageInput{}, false
}

type selectPageInput struct {
	FacebookUserID  string `json:"facebook_user_id" validate:"required"`
	PageID          string `json:"page_id" validate:"required"`
	PageName        string `json:"page_name" validate:"required"`
	PagePicture     string `json:"page_picture"`
	PageAccessToken string `json:"page_access_token"`
}
