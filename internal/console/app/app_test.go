package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dalemusser/bizadmin/internal/app/system/paging"
	"github.com/dalemusser/bizadmin/internal/console/api"
	"github.com/dalemusser/bizadmin/internal/console/uictx"
	"github.com/dalemusser/bizadmin/internal/console/userform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient serves users newest first and clamps pages like the server.
type fakeClient struct {
	mu    sync.Mutex
	users []api.User
	roles []api.Role
}

func (c *fakeClient) ListUsers(_ context.Context, q api.ListQuery) (*api.UserList, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var match []api.User
	for _, u := range c.users {
		if q.Search == "" || strings.Contains(u.Username, q.Search) || strings.Contains(u.FullName, q.Search) {
			match = append(match, u)
		}
	}
	per := q.PerPage
	if !paging.ValidPerPage(per) {
		per = paging.DefaultPerPage
	}
	pg := paging.NewPage(q.Page, per, int64(len(match)))
	start := int(pg.Skip())
	end := min(start+pg.PerPage, len(match))
	return &api.UserList{
		Items:      append([]api.User(nil), match[start:end]...),
		Pagination: api.Pagination{CurrentPage: pg.CurrentPage, PerPage: pg.PerPage, Total: pg.Total, LastPage: pg.LastPage},
		Roles:      c.roles,
		Search:     q.Search,
	}, nil
}

func (c *fakeClient) UsernameExists(context.Context, string) (bool, error) { return false, nil }

func (c *fakeClient) GetUser(_ context.Context, id string) (*api.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, u := range c.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, &api.StatusError{Code: 404, Message: "User not found."}
}

func (c *fakeClient) CreateUser(_ context.Context, in api.UserInput) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u := api.User{ID: fmt.Sprintf("u-new-%d", len(c.users)), Username: in.Username, FullName: in.FullName, RoleID: in.RoleID, Status: 1}
	c.users = append([]api.User{u}, c.users...)
	return "User created successfully.", nil
}

func (c *fakeClient) UpdateUser(_ context.Context, id string, in api.UserInput) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.users {
		if c.users[i].ID == id {
			c.users[i].Username = in.Username
			c.users[i].FullName = in.FullName
			c.users[i].RoleID = in.RoleID
			c.users[i].Remark = in.Remark
		}
	}
	return "User updated successfully.", nil
}

func (c *fakeClient) DeleteUser(_ context.Context, id string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.users {
		if c.users[i].ID == id {
			c.users = append(c.users[:i], c.users[i+1:]...)
			return "User deleted successfully.", nil
		}
	}
	return "", &api.StatusError{Code: 404, Message: "User not found."}
}

func (c *fakeClient) Connections(context.Context) (*api.ConnectionList, error) {
	return &api.ConnectionList{FacebookAppID: "app-123"}, nil
}

func (c *fakeClient) Pages(context.Context, string) ([]api.Page, error) { return nil, nil }

func (c *fakeClient) SelectPage(context.Context, string, api.Page) (string, error) {
	return "Page selected successfully", nil
}

func (c *fakeClient) Disconnect(context.Context, string) (string, error) {
	return "Disconnected successfully", nil
}

func seed(johns, others int) *fakeClient {
	c := &fakeClient{roles: []api.Role{{ID: "r-admin", Name: "Admin"}, {ID: "r-staff", Name: "Staff"}}}
	for i := 1; i <= johns; i++ {
		c.users = append(c.users, api.User{ID: fmt.Sprintf("j-%d", i), Username: fmt.Sprintf("john%02d", i), FullName: "John", RoleID: "r-staff", RoleName: "Staff", Status: 1})
	}
	for i := 1; i <= others; i++ {
		c.users = append(c.users, api.User{ID: fmt.Sprintf("o-%d", i), Username: fmt.Sprintf("user%02d", i), FullName: "Other", RoleID: "r-staff", RoleName: "Staff", Status: 1})
	}
	return c
}

// collect runs cmd, expanding batches. Commands still blocked after a short
// wait (timers, cursor blink) are dropped.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(50 * time.Millisecond):
		return nil
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// pump feeds cmd's messages back into m until the queue drains.
func pump(m *Model, cmd tea.Cmd) {
	queue := collect(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		_, next := m.Update(msg)
		queue = append(queue, collect(next)...)
	}
}

func press(m *Model, keys ...tea.KeyMsg) {
	for _, k := range keys {
		_, cmd := m.Update(k)
		pump(m, cmd)
	}
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	ctrlS = tea.KeyMsg{Type: tea.KeyCtrlS}
)

func start(t *testing.T, c *fakeClient) *Model {
	t.Helper()
	m := New(c, Options{DarkMode: true, PageSize: 10, Me: &api.Me{Username: "boss", Role: "Admin"}})
	pump(m, m.Init())
	require.True(t, m.users.Loaded())
	return m
}

func TestSearchJohn(t *testing.T) {
	m := start(t, seed(25, 7))

	press(m, runes("/"), runes("john"), enter)

	assert.Equal(t, api.Pagination{CurrentPage: 1, PerPage: 10, Total: 25, LastPage: 3}, m.users.Pagination())
	assert.Len(t, m.users.Items(), 10)
	assert.False(t, m.users.Busy())
	assert.Contains(t, m.View(), "john01")

	press(m, runes("c"))
	assert.Equal(t, int64(32), m.users.Pagination().Total)
}

func TestDeleteRowFive(t *testing.T) {
	c := seed(12, 0)
	m := start(t, c)

	press(m, down, down, down, down)
	target, ok := m.currentRow()
	require.True(t, ok)
	require.Equal(t, "j-5", target.ID)

	press(m, enter)
	require.True(t, m.menu.IsOpen("j-5"))
	press(m, runes("d"))
	require.True(t, m.dialogs.ConfirmOpen())
	assert.Contains(t, m.View(), "Are you sure you want to delete this user?")

	press(m, enter)

	for _, u := range m.users.Items() {
		assert.NotEqual(t, "j-5", u.ID)
	}
	assert.Len(t, m.users.Items(), 10)
	assert.Equal(t, int64(11), m.users.Pagination().Total)
	assert.Equal(t, "", m.menu.Open())
	assert.Contains(t, m.View(), "User deleted successfully.")
}

func TestEditThroughRowMenu(t *testing.T) {
	c := seed(3, 0)
	m := start(t, c)

	press(m, enter, runes("e"))
	require.True(t, m.form.IsOpen())
	assert.True(t, m.form.Editing())
	assert.Equal(t, "john01", m.form.Draft().Username)
	assert.False(t, m.menu.State("j-1").Editing)

	// Move to full name, replace it and save.
	press(m, tab)
	m.form.SetValue(userform.FieldFullName, "Johnny Walker")
	press(m, ctrlS)

	assert.False(t, m.form.IsOpen())
	assert.Equal(t, "Johnny Walker", m.users.Items()[0].FullName)
	assert.Contains(t, m.View(), "User updated successfully.")
}

func TestGoToPageInput(t *testing.T) {
	m := start(t, seed(0, 35))

	press(m, runes("g"), runes("4"), enter)
	assert.Equal(t, 4, m.users.Pagination().CurrentPage)

	press(m, runes("g"), runes("9"), enter)
	assert.Equal(t, 4, m.users.Pagination().CurrentPage)
	assert.Equal(t, "4", m.gotoPage.Value())

	press(m, runes("s"))
	assert.Equal(t, api.Pagination{CurrentPage: 1, PerPage: 25, Total: 35, LastPage: 2}, m.users.Pagination())
}

func TestRouteAndDarkMode(t *testing.T) {
	m := start(t, seed(1, 0))

	press(m, tab)
	assert.Equal(t, uictx.RouteFacebook, m.ui.Route)
	assert.Contains(t, m.View(), "No Facebook accounts connected.")

	press(m, runes("T"))
	assert.False(t, m.ui.DarkMode)

	press(m, tab)
	assert.Equal(t, uictx.RouteUsers, m.ui.Route)
}

func TestNewUserFormOpensEmpty(t *testing.T) {
	m := start(t, seed(1, 0))

	press(m, runes("n"))
	require.True(t, m.form.IsOpen())
	assert.False(t, m.form.Editing())

	// Esc on a pristine form closes at once.
	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.form.IsOpen())
}
