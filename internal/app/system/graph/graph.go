// internal/app/system/graph/graph.go
// Package graph is a minimal client for the Facebook Graph API endpoints the
// connection flow needs.
package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
)

// DefaultBaseURL is the Graph API version the client targets.
const DefaultBaseURL = "https://graph.facebook.com/v19.0"

// ErrUnauthorized is returned when the Graph API rejects the user token.
var ErrUnauthorized = errors.New("facebook token rejected")

// Page is one Facebook Page the token's user can manage.
type Page struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Picture     string `json:"picture"`
	AccessToken string `json:"access_token,omitempty"`
}

// Client calls the Graph API on behalf of stored user tokens.
type Client struct {
	base  string
	oauth *oauth2.Config
	// httpClient, when set, is the transport under the oauth2 client (tests).
	httpClient *http.Client
}

// New builds a client for the app credentials. An empty baseURL uses
// DefaultBaseURL.
func New(appID, appSecret, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		oauth: &oauth2.Config{
			ClientID:     appID,
			ClientSecret: appSecret,
			Endpoint:     facebook.Endpoint,
		},
	}
}

// WithHTTPClient sets the underlying transport client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

func (c *Client) client(ctx context.Context, userToken string) *http.Client {
	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}
	return c.oauth.Client(ctx, &oauth2.Token{AccessToken: userToken, TokenType: "Bearer"})
}

type accountsResponse struct {
	Data []struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		AccessToken string `json:"access_token"`
		Picture     struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	} `json:"data"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Pages lists the Pages userToken can manage (GET /me/accounts).
func (c *Client) Pages(ctx context.Context, userToken string) ([]Page, error) {
	q := url.Values{"fields": {"id,name,picture,access_token"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/me/accounts?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client(ctx, userToken).Do(req)
	if err != nil {
		return nil, fmt.Errorf("graph /me/accounts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var er errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&er)
		if resp.StatusCode == http.StatusUnauthorized || er.Error.Code == 190 {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("graph /me/accounts: status %d: %s", resp.StatusCode, er.Error.Message)
	}

	var ar accountsResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return nil, fmt.Errorf("graph /me/accounts: decode: %w", err)
	}

	pages := make([]Page, 0, len(ar.Data))
	for _, d := range ar.Data {
		pages = append(pages, Page{
			ID:          d.ID,
			Name:        d.Name,
			Picture:     d.Picture.Data.URL,
			AccessToken: d.AccessToken,
		})
	}
	return pages, nil
}
