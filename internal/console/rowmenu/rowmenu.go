// internal/console/rowmenu/rowmenu.go
// Package rowmenu tracks the per-row Edit/Delete menu of the user list and
// the busy flags of each row's pending action.
package rowmenu

import (
	"context"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dalemusser/bizadmin/internal/console/dialog"
)

const (
	confirmTitle = "Confirm Delete"
	confirmBody  = "Are you sure you want to delete this user?"
	deletedMsg   = "User deleted successfully."
	deleteFailed = "Failed to delete user."
)

// Deleter removes a row on the server. *api.Client satisfies it.
type Deleter interface {
	DeleteUser(ctx context.Context, id string) (string, error)
}

// State is a row's in-flight actions.
type State struct {
	Editing  bool
	Deleting bool
}

func (s State) busy() bool { return s.Editing || s.Deleting }

// EditMsg asks the owner to open the edit form for ID. The owner calls
// EditDone once the form is open or the load failed.
type EditMsg struct {
	MenuID int64
	ID     string
}

// DeletedMsg reports a successful delete; the owner re-fetches the
// current page.
type DeletedMsg struct {
	MenuID int64
	ID     string
}

type deleteResult struct {
	menuID int64
	id     string
	err    error
}

var lastID atomic.Int64

type Menu struct {
	id      int64
	dialogs *dialog.Manager
	deleter Deleter
	timeout time.Duration

	open   string
	states map[string]State
}

func New(dialogs *dialog.Manager, deleter Deleter, timeout time.Duration) *Menu {
	return &Menu{
		id:      lastID.Add(1),
		dialogs: dialogs,
		deleter: deleter,
		timeout: timeout,
		states:  map[string]State{},
	}
}

func (m *Menu) ID() int64 { return m.id }

// Open is the row whose menu is open, or "".
func (m *Menu) Open() string { return m.open }

func (m *Menu) IsOpen(row string) bool { return row != "" && m.open == row }

// State returns row's busy flags.
func (m *Menu) State(row string) State { return m.states[row] }

// Toggle opens row's menu, closing any other; toggling the open row
// closes it.
func (m *Menu) Toggle(row string) {
	if m.open == row {
		m.open = ""
		return
	}
	m.open = row
}

// Close closes whichever menu is open.
func (m *Menu) Close() { m.open = "" }

// CanEdit and CanDelete report whether the row's actions are enabled.
func (m *Menu) CanEdit(row string) bool   { return !m.states[row].busy() }
func (m *Menu) CanDelete(row string) bool { return !m.states[row].busy() }

func (m *Menu) set(row string, fn func(*State)) {
	s := m.states[row]
	fn(&s)
	if s.busy() {
		m.states[row] = s
	} else {
		delete(m.states, row)
	}
}

// Edit marks row as editing and asks the owner to open the form.
func (m *Menu) Edit(row string) tea.Cmd {
	if row == "" || !m.CanEdit(row) {
		return nil
	}
	m.set(row, func(s *State) { s.Editing = true })
	m.open = ""
	id := m.id
	return func() tea.Msg { return EditMsg{MenuID: id, ID: row} }
}

// EditDone clears row's editing flag.
func (m *Menu) EditDone(row string) {
	m.set(row, func(s *State) { s.Editing = false })
}

// Delete asks for confirmation; on acceptance the row is deleted while the
// dialog shows its loading state.
func (m *Menu) Delete(row string) tea.Cmd {
	if row == "" || !m.CanDelete(row) {
		return nil
	}
	_, cmd := m.dialogs.ShowConfirm(dialog.ConfirmSpec{
		Title:        confirmTitle,
		Message:      confirmBody,
		ConfirmLabel: "Delete",
		OnConfirm:    func() tea.Cmd { return m.deleteCmd(row) },
		Tag:          "rowmenu-delete",
	})
	return cmd
}

func (m *Menu) deleteCmd(row string) tea.Cmd {
	m.set(row, func(s *State) { s.Deleting = true })
	menuID, deleter, timeout := m.id, m.deleter, m.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		_, err := deleter.DeleteUser(ctx, row)
		return deleteResult{menuID: menuID, id: row, err: err}
	}
}

// Update settles delete results.
func (m *Menu) Update(msg tea.Msg) tea.Cmd {
	res, ok := msg.(deleteResult)
	if !ok || res.menuID != m.id {
		return nil
	}
	m.set(res.id, func(s *State) { s.Deleting = false })
	if res.err != nil {
		_, cmd := m.dialogs.ShowError("Error", deleteFailed, 0)
		return cmd
	}
	if m.open == res.id {
		m.open = ""
	}
	_, toast := m.dialogs.ShowSuccess("Success", deletedMsg, 0)
	menuID, row := m.id, res.id
	return tea.Batch(toast, func() tea.Msg { return DeletedMsg{MenuID: menuID, ID: row} })
}
