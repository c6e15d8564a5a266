// internal/console/api/users.go
package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Me is the signed-in account.
type Me struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// Login signs in and stores the session cookie.
func (c *Client) Login(ctx context.Context, username, password string) (*Me, error) {
	var out struct {
		Message string `json:"message"`
		User    Me     `json:"user"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", nil, body, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Logout ends the session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, nil, nil)
}

type User struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	FullName string  `json:"full_name"`
	RoleID   string  `json:"role_id"`
	RoleName string  `json:"role_name"`
	Remark   *string `json:"remark"`
	Status   int     `json:"status"`
}

type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Pagination mirrors the server's pagination block, which is authoritative.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

type UserList struct {
	Items      []User     `json:"items"`
	Pagination Pagination `json:"pagination"`
	Roles      []Role     `json:"roles"`
	Search     string     `json:"search"`
}

type ListQuery struct {
	Page    int
	PerPage int
	Search  string
}

// UserInput is the create and update body. Empty passwords on update keep
// the current password.
type UserInput struct {
	Username             string  `json:"username"`
	FullName             string  `json:"full_name"`
	RoleID               string  `json:"role_id"`
	Remark               *string `json:"remark,omitempty"`
	Password             string  `json:"password,omitempty"`
	PasswordConfirmation string  `json:"password_confirmation,omitempty"`
}

func (c *Client) ListUsers(ctx context.Context, q ListQuery) (*UserList, error) {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	var out UserList
	if err := c.do(ctx, http.MethodGet, "/system/user", v, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UsernameExists asks whether an active user already has username.
func (c *Client) UsernameExists(ctx context.Context, username string) (bool, error) {
	var out struct {
		Exists bool `json:"exists"`
	}
	v := url.Values{"username": {username}}
	if err := c.do(ctx, http.MethodGet, "/system/user/check-username", v, nil, &out); err != nil {
		return false, err
	}
	return out.Exists, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/system/user/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateUser(ctx context.Context, in UserInput) (string, error) {
	return c.send(ctx, http.MethodPost, "/system/user", in)
}

func (c *Client) UpdateUser(ctx context.Context, id string, in UserInput) (string, error) {
	return c.send(ctx, http.MethodPut, "/system/user/"+url.PathEscape(id), in)
}

// DeleteUser soft-deletes the user.
func (c *Client) DeleteUser(ctx context.Context, id string) (string, error) {
	return c.send(ctx, http.MethodPut, "/system/user/"+url.PathEscape(id)+"/status", nil)
}
