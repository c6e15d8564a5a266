// internal/console/api/facebook.go
package api

import (
	"context"
	"net/http"
	"net/url"
)

type Connection struct {
	ID                  string  `json:"id"`
	FacebookUserID      string  `json:"facebook_user_id"`
	FacebookUserName    string  `json:"facebook_user_name"`
	SelectedPageID      *string `json:"selected_page_id"`
	SelectedPageName    *string `json:"selected_page_name"`
	SelectedPagePicture *string `json:"selected_page_picture"`
}

// PageName is the selected page's name, or "".
func (c Connection) PageName() string {
	if c.SelectedPageName == nil {
		return ""
	}
	return *c.SelectedPageName
}

type ConnectionList struct {
	Connections   []Connection `json:"connections"`
	FacebookAppID string       `json:"facebook_app_id"`
}

type Page struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Picture     string `json:"picture"`
	AccessToken string `json:"access_token,omitempty"`
}

func (c *Client) Connections(ctx context.Context) (*ConnectionList, error) {
	var out ConnectionList
	if err := c.do(ctx, http.MethodGet, "/system/facebook", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Pages lists the pages the stored Facebook token can manage.
func (c *Client) Pages(ctx context.Context, facebookUserID string) ([]Page, error) {
	var out struct {
		Pages []Page `json:"pages"`
	}
	path := "/system/facebook/" + url.PathEscape(facebookUserID) + "/pages"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Pages, nil
}

// SelectPage stores p as the connection's page.
func (c *Client) SelectPage(ctx context.Context, facebookUserID string, p Page) (string, error) {
	body := map[string]string{
		"facebook_user_id":  facebookUserID,
		"page_id":           p.ID,
		"page_name":         p.Name,
		"page_picture":      p.Picture,
		"page_access_token": p.AccessToken,
	}
	return c.send(ctx, http.MethodPost, "/system/facebook/select-page", body)
}

func (c *Client) Disconnect(ctx context.Context, facebookUserID string) (string, error) {
	return c.send(ctx, http.MethodPost, "/system/facebook/disconnect/"+url.PathEscape(facebookUserID), nil)
}
