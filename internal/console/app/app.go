// internal/console/app/app.go
// Package app is the console's root bubbletea model. It owns the shared
// uictx.Context and dialog manager and routes keys to whichever component
// holds the keyboard: a confirm dialog first, then the user form, then the
// current screen.
package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dalemusser/bizadmin/internal/console/api"
	"github.com/dalemusser/bizadmin/internal/console/connections"
	"github.com/dalemusser/bizadmin/internal/console/dialog"
	"github.com/dalemusser/bizadmin/internal/console/listing"
	"github.com/dalemusser/bizadmin/internal/console/rowmenu"
	"github.com/dalemusser/bizadmin/internal/console/uictx"
	"github.com/dalemusser/bizadmin/internal/console/userform"
	"go.uber.org/zap"
)

// Client is everything the console asks of the server. *api.Client
// satisfies it.
type Client interface {
	ListUsers(ctx context.Context, q api.ListQuery) (*api.UserList, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	GetUser(ctx context.Context, id string) (*api.User, error)
	userform.Saver
	rowmenu.Deleter
	connections.Client
}

type Options struct {
	Me       *api.Me
	DarkMode bool
	PageSize int
	Timeout  time.Duration
	Logger   *zap.Logger
}

type focus int

const (
	focusTable focus = iota
	focusSearch
	focusGoTo
)

type userLoadedMsg struct {
	id   string
	user *api.User
	err  error
}

type Model struct {
	ui      *uictx.Context
	client  Client
	log     *zap.Logger
	me      *api.Me
	timeout time.Duration

	dialogs *dialog.Manager
	users   *listing.Controller[api.User]
	form    *userform.Form
	menu    *rowmenu.Menu
	conns   *connections.Model

	focus      focus
	search     textinput.Model
	gotoPage   textinput.Model
	cursor     int
	connsReady bool
}

func New(client Client, opts Options) *Model {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	ui := uictx.New(opts.DarkMode)
	dm := dialog.New(ui)

	fetch := func(ctx context.Context, q listing.Query) (listing.Result[api.User], error) {
		list, err := client.ListUsers(ctx, api.ListQuery{Page: q.Page, PerPage: q.PerPage, Search: q.Search})
		if err != nil {
			return listing.Result[api.User]{}, err
		}
		return listing.Result[api.User]{Items: list.Items, Pagination: list.Pagination, Meta: list.Roles}, nil
	}

	search := textinput.New()
	search.Placeholder = "Search username or full name"
	search.Prompt = "/ "
	gotoPage := textinput.New()
	gotoPage.Prompt = "Go to page: "
	gotoPage.CharLimit = 6

	return &Model{
		ui:       ui,
		client:   client,
		log:      log,
		me:       opts.Me,
		timeout:  opts.Timeout,
		dialogs:  dm,
		users:    listing.New(fetch, opts.PageSize, opts.Timeout),
		form:     userform.New(ui, dm, client, client.UsernameExists, opts.Timeout),
		menu:     rowmenu.New(dm, client, opts.Timeout),
		conns:    connections.New(ui, dm, client, opts.Timeout),
		search:   search,
		gotoPage: gotoPage,
	}
}

func (m *Model) Init() tea.Cmd { return m.users.Refresh() }

func (m *Model) rows() []api.User { return m.users.Items() }

func (m *Model) currentRow() (api.User, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return api.User{}, false
	}
	return rows[m.cursor], true
}

func (m *Model) loadUser(id string) tea.Cmd {
	client, timeout := m.client, m.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		u, err := client.GetUser(ctx, id)
		return userLoadedMsg{id: id, user: u, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ui.Width, m.ui.Height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	cmds := []tea.Cmd{
		m.dialogs.Update(msg),
		m.users.Update(msg),
		m.form.Update(msg),
		m.menu.Update(msg),
		m.conns.Update(msg),
	}

	switch msg := msg.(type) {
	case listing.LoadedMsg:
		if msg.ListID == m.users.ID() {
			if roles, ok := m.users.Meta().([]api.Role); ok {
				m.form.SetRoles(roles)
			}
			m.cursor = max(0, min(m.cursor, len(m.rows())-1))
			m.gotoPage.SetValue(strconv.Itoa(m.users.Pagination().CurrentPage))
			if msg.Err != nil {
				m.log.Warn("user list fetch failed", zap.Error(msg.Err))
			}
		}
	case rowmenu.EditMsg:
		if msg.MenuID == m.menu.ID() {
			cmds = append(cmds, m.loadUser(msg.ID))
		}
	case userLoadedMsg:
		m.menu.EditDone(msg.id)
		if msg.err != nil {
			m.log.Warn("load user failed", zap.String("user_id", msg.id), zap.Error(msg.err))
			_, cmd := m.dialogs.ShowError("Error", "Failed to load user.", 0)
			cmds = append(cmds, cmd)
			break
		}
		cmds = append(cmds, m.form.Open(msg.user))
	case rowmenu.DeletedMsg:
		if msg.MenuID == m.menu.ID() {
			cmds = append(cmds, m.users.Refresh())
		}
	case userform.SavedMsg:
		if msg.FormID == m.form.ID() {
			cmds = append(cmds, m.users.Refresh())
		}
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	if handled, cmd := m.dialogs.HandleKey(msg); handled {
		return cmd
	}
	if m.form.IsOpen() {
		return m.form.HandleKey(msg)
	}

	switch m.focus {
	case focusSearch:
		return m.searchKey(msg)
	case focusGoTo:
		return m.goToKey(msg)
	}

	switch msg.String() {
	case "q":
		return tea.Quit
	case "tab":
		m.menu.Close()
		if m.ui.Route == uictx.RouteUsers {
			m.ui.Navigate(uictx.RouteFacebook)
			if !m.connsReady {
				m.connsReady = true
				return m.conns.Refresh()
			}
		} else {
			m.ui.Navigate(uictx.RouteUsers)
		}
		return nil
	case "T":
		m.ui.ToggleDark()
		return nil
	}

	if m.ui.Route == uictx.RouteFacebook {
		if msg.String() == "esc" {
			return m.dialogs.DismissToast()
		}
		return m.conns.HandleKey(msg)
	}
	return m.usersKey(msg)
}

func (m *Model) usersKey(msg tea.KeyMsg) tea.Cmd {
	row, hasRow := m.currentRow()
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.menu.Close()
		}
	case "down", "j":
		if m.cursor < len(m.rows())-1 {
			m.cursor++
			m.menu.Close()
		}
	case "enter", " ":
		if hasRow {
			m.menu.Toggle(row.ID)
		}
	case "e":
		if hasRow && m.menu.IsOpen(row.ID) {
			return m.menu.Edit(row.ID)
		}
	case "d":
		if hasRow && m.menu.IsOpen(row.ID) {
			return m.menu.Delete(row.ID)
		}
	case "esc":
		if m.menu.Open() != "" {
			m.menu.Close()
			return nil
		}
		return m.dialogs.DismissToast()
	case "n":
		m.menu.Close()
		return m.form.Open(nil)
	case "/":
		m.menu.Close()
		m.focus = focusSearch
		return m.search.Focus()
	case "c":
		m.search.SetValue("")
		m.cursor = 0
		return m.users.ClearSearch()
	case "left", "[":
		m.cursor = 0
		return m.users.Prev()
	case "right", "]":
		m.cursor = 0
		return m.users.Next()
	case "g":
		m.focus = focusGoTo
		m.gotoPage.SetValue("")
		return m.gotoPage.Focus()
	case "s":
		m.cursor = 0
		return m.users.CyclePageSize()
	case "r":
		return m.users.Refresh()
	}
	return nil
}

func (m *Model) searchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.focus = focusTable
		m.search.Blur()
		m.cursor = 0
		return m.users.Search(m.search.Value())
	case "esc":
		m.focus = focusTable
		m.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return cmd
}

func (m *Model) goToKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.focus = focusTable
		m.gotoPage.Blur()
		cmd, ok := m.users.GoToInput(m.gotoPage.Value())
		m.gotoPage.SetValue(strconv.Itoa(m.users.Pagination().CurrentPage))
		if ok {
			m.cursor = 0
		}
		return cmd
	case "esc":
		m.focus = focusTable
		m.gotoPage.Blur()
		m.gotoPage.SetValue(strconv.Itoa(m.users.Pagination().CurrentPage))
		return nil
	}
	var cmd tea.Cmd
	m.gotoPage, cmd = m.gotoPage.Update(msg)
	return cmd
}

func (m *Model) View() string {
	theme := m.ui.Theme()
	var b strings.Builder

	header := "bizadmin"
	if m.me != nil {
		header += "  " + theme.Dim.Render(m.me.Username+" ("+m.me.Role+")")
	}
	tabs := []string{"Users", "Facebook"}
	for i, r := range []string{uictx.RouteUsers, uictx.RouteFacebook} {
		if r == m.ui.Route {
			tabs[i] = theme.Selected.Render(" " + tabs[i] + " ")
		} else {
			tabs[i] = theme.Dim.Render(" " + tabs[i] + " ")
		}
	}
	b.WriteString(theme.Title.Render(header) + "  " + strings.Join(tabs, "") + "\n\n")

	if m.ui.Route == uictx.RouteFacebook {
		b.WriteString(m.conns.View())
	} else {
		b.WriteString(m.usersView(theme))
	}

	if v := m.form.View(); v != "" {
		b.WriteString("\n\n" + v)
	}
	if v := m.dialogs.View(); v != "" {
		b.WriteString("\n\n" + v)
	}
	return b.String()
}

func (m *Model) usersView(theme uictx.Theme) string {
	var b strings.Builder
	b.WriteString(m.search.View())
	if m.users.Busy() {
		b.WriteString(theme.Dim.Render("  loading..."))
	}
	b.WriteString("\n\n")

	if err := m.users.Err(); err != nil {
		b.WriteString(theme.Error.Render("Failed to load users.") + "\n")
	}

	header := fmt.Sprintf("%-20s %-28s %-10s %s", "USERNAME", "FULL NAME", "ROLE", "REMARK")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(header) + "\n")
	rows := m.rows()
	if len(rows) == 0 && m.users.Loaded() {
		b.WriteString(theme.Dim.Render("No users found.") + "\n")
	}
	for i, u := range rows {
		remark := ""
		if u.Remark != nil {
			remark = *u.Remark
		}
		line := fmt.Sprintf("%-20s %-28s %-10s %s", u.Username, u.FullName, u.RoleName, remark)
		if i == m.cursor {
			line = theme.Selected.Render(line)
		}
		b.WriteString(line + "\n")
		if m.menu.IsOpen(u.ID) {
			st := m.menu.State(u.ID)
			edit, del := "[e] Edit", "[d] Delete"
			if st.Editing {
				edit = "Loading..."
			}
			if st.Deleting {
				del = "Deleting..."
			}
			b.WriteString(theme.Help.Render("    "+edit+"  "+del) + "\n")
		}
	}

	pg := m.users.Pagination()
	var pages []string
	for _, s := range m.users.Window() {
		switch {
		case s.Gap:
			pages = append(pages, "…")
		case s.Page == pg.CurrentPage:
			pages = append(pages, theme.Selected.Render(strconv.Itoa(s.Page)))
		default:
			pages = append(pages, strconv.Itoa(s.Page))
		}
	}
	b.WriteString("\n" + strings.Join(pages, " "))
	b.WriteString(theme.Dim.Render(fmt.Sprintf("   %d total, %d per page", pg.Total, pg.PerPage)))
	if m.focus == focusGoTo {
		b.WriteString("   " + m.gotoPage.View())
	}
	b.WriteString("\n\n" + theme.Help.Render("[n] new  [enter] actions  [/] search  [c] clear  [←/→] page  [g] go to  [s] size  [tab] facebook  [q] quit"))
	return b.String()
}
