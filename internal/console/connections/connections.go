// internal/console/connections/connections.go
// Package connections is the console screen for the caller's Facebook
// connections: list them, pick a page for one, or disconnect it.
package connections

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dalemusser/bizadmin/internal/console/api"
	"github.com/dalemusser/bizadmin/internal/console/dialog"
	"github.com/dalemusser/bizadmin/internal/console/uictx"
)

// Client is the part of *api.Client the screen uses.
type Client interface {
	Connections(ctx context.Context) (*api.ConnectionList, error)
	Pages(ctx context.Context, facebookUserID string) ([]api.Page, error)
	SelectPage(ctx context.Context, facebookUserID string, p api.Page) (string, error)
	Disconnect(ctx context.Context, facebookUserID string) (string, error)
}

type mode int

const (
	modeList mode = iota
	modePages
)

type (
	listedMsg struct {
		seq   int
		conns []api.Connection
		appID string
		err   error
	}
	pagesMsg struct {
		seq   int
		fbID  string
		pages []api.Page
		err   error
	}
	selectedMsg struct {
		fbID    string
		message string
		err     error
	}
	disconnectedMsg struct {
		fbID string
		err  error
	}
)

type Model struct {
	ui      *uictx.Context
	dialogs *dialog.Manager
	client  Client
	timeout time.Duration
	spinner spinner.Model

	mode   mode
	conns  []api.Connection
	appID  string
	cursor int
	pages  []api.Page
	pageAt int
	fbID   string

	seq     int
	loading bool
	saving  bool
	err     string
}

func New(ui *uictx.Context, dialogs *dialog.Manager, client Client, timeout time.Duration) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return &Model{ui: ui, dialogs: dialogs, client: client, timeout: timeout, spinner: s}
}

func (m *Model) ctx() (context.Context, context.CancelFunc) {
	if m.timeout > 0 {
		return context.WithTimeout(context.Background(), m.timeout)
	}
	return context.WithCancel(context.Background())
}

// Refresh reloads the connection list.
func (m *Model) Refresh() tea.Cmd {
	m.seq++
	m.loading = true
	m.mode = modeList
	seq := m.seq
	fetch := func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		list, err := m.client.Connections(ctx)
		if err != nil {
			return listedMsg{seq: seq, err: err}
		}
		return listedMsg{seq: seq, conns: list.Connections, appID: list.FacebookAppID}
	}
	return tea.Batch(fetch, m.spinner.Tick)
}

func (m *Model) Connections() []api.Connection { return m.conns }
func (m *Model) Loading() bool                 { return m.loading }
func (m *Model) Err() string                   { return m.err }
func (m *Model) PickingPage() bool             { return m.mode == modePages }
func (m *Model) Pages() []api.Page             { return m.pages }

func (m *Model) current() (api.Connection, bool) {
	if m.cursor < 0 || m.cursor >= len(m.conns) {
		return api.Connection{}, false
	}
	return m.conns[m.cursor], true
}

func (m *Model) loadPages(fbID string) tea.Cmd {
	m.seq++
	m.loading = true
	m.fbID = fbID
	seq := m.seq
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		pages, err := m.client.Pages(ctx, fbID)
		return pagesMsg{seq: seq, fbID: fbID, pages: pages, err: err}
	}
}

func (m *Model) selectPage(fbID string, p api.Page) tea.Cmd {
	m.saving = true
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		msg, err := m.client.SelectPage(ctx, fbID, p)
		return selectedMsg{fbID: fbID, message: msg, err: err}
	}
}

func (m *Model) disconnect(conn api.Connection) tea.Cmd {
	_, cmd := m.dialogs.ShowConfirm(dialog.ConfirmSpec{
		Title:        "Confirm Disconnect",
		Message:      fmt.Sprintf("Disconnect Facebook account %s?", conn.FacebookUserName),
		ConfirmLabel: "Disconnect",
		OnConfirm: func() tea.Cmd {
			fbID := conn.FacebookUserID
			return func() tea.Msg {
				ctx, cancel := m.ctx()
				defer cancel()
				_, err := m.client.Disconnect(ctx, fbID)
				return disconnectedMsg{fbID: fbID, err: err}
			}
		},
		Tag: "connections-disconnect",
	})
	return cmd
}

// HandleKey handles a key press while the screen is shown.
func (m *Model) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if m.saving {
		return nil
	}
	if m.mode == modePages {
		switch msg.String() {
		case "up", "k":
			m.pageAt = max(0, m.pageAt-1)
		case "down", "j":
			m.pageAt = min(len(m.pages)-1, m.pageAt+1)
		case "enter":
			if m.pageAt >= 0 && m.pageAt < len(m.pages) {
				return m.selectPage(m.fbID, m.pages[m.pageAt])
			}
		case "esc":
			m.mode = modeList
			m.pages = nil
		}
		return nil
	}

	switch msg.String() {
	case "up", "k":
		m.cursor = max(0, m.cursor-1)
	case "down", "j":
		m.cursor = min(len(m.conns)-1, m.cursor+1)
	case "r":
		return m.Refresh()
	case "enter", "p":
		if c, ok := m.current(); ok {
			return m.loadPages(c.FacebookUserID)
		}
	case "d":
		if c, ok := m.current(); ok {
			return m.disconnect(c)
		}
	}
	return nil
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case listedMsg:
		if msg.seq != m.seq {
			return nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = "Failed to load connections."
			return nil
		}
		m.err = ""
		m.conns = msg.conns
		m.appID = msg.appID
		m.cursor = max(0, min(m.cursor, len(m.conns)-1))

	case pagesMsg:
		if msg.seq != m.seq {
			return nil
		}
		m.loading = false
		if msg.err != nil {
			text := "Failed to load pages from Facebook."
			var se *api.StatusError
			if errors.As(msg.err, &se) && se.Message != "" {
				text = se.Message
			}
			_, cmd := m.dialogs.ShowError("Error", text, 0)
			return cmd
		}
		m.pages = msg.pages
		m.pageAt = 0
		m.mode = modePages

	case selectedMsg:
		m.saving = false
		if msg.err != nil {
			_, cmd := m.dialogs.ShowError("Error", "Failed to select page.", 0)
			return cmd
		}
		m.mode = modeList
		m.pages = nil
		_, toast := m.dialogs.ShowSuccess("Success", msg.message, 0)
		return tea.Batch(toast, m.Refresh())

	case disconnectedMsg:
		if msg.err != nil {
			_, cmd := m.dialogs.ShowError("Error", "Failed to disconnect.", 0)
			return cmd
		}
		_, toast := m.dialogs.ShowSuccess("Success", "Disconnected successfully", 0)
		return tea.Batch(toast, m.Refresh())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return cmd
		}
	}
	return nil
}

func (m *Model) View() string {
	theme := m.ui.Theme()
	var b strings.Builder
	b.WriteString(theme.Title.Render("Facebook connections"))
	if m.appID != "" {
		b.WriteString(theme.Dim.Render("  app " + m.appID))
	}
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.spinner.View() + " Loading...\n")
	}
	if m.err != "" {
		b.WriteString(theme.Error.Render(m.err) + "\n")
	}

	if m.mode == modePages {
		b.WriteString("Choose a page:\n")
		for i, p := range m.pages {
			line := "  " + p.Name
			if i == m.pageAt {
				line = theme.Selected.Render("> " + p.Name)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n" + theme.Help.Render("[Enter] select  [Esc] back"))
		return b.String()
	}

	if len(m.conns) == 0 && !m.loading {
		b.WriteString(theme.Dim.Render("No Facebook accounts connected.") + "\n")
	}
	for i, c := range m.conns {
		page := c.PageName()
		if page == "" {
			page = theme.Warning.Render("no page selected")
		}
		line := fmt.Sprintf("%-24s %s", c.FacebookUserName, page)
		if i == m.cursor {
			line = theme.Selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + theme.Help.Render("[Enter] choose page  [d] disconnect  [r] refresh"))
	return b.String()
}
