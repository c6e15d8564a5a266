package rowmenu

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dalemusser/bizadmin/internal/console/dialog"
	"github.com/dalemusser/bizadmin/internal/console/uictx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeleter struct {
	deleted []string
	err     error
}

func (d *fakeDeleter) DeleteUser(_ context.Context, id string) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	d.deleted = append(d.deleted, id)
	return deletedMsg, nil
}

// flatten runs cmd, expanding batches; commands still blocked after a short
// wait (timers) are dropped.
func flatten(cmd tea.Cmd) []tea.Msg {
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
			out = append(out, flatten(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func newMenu(d *fakeDeleter) (*Menu, *dialog.Manager) {
	dm := dialog.New(uictx.New(true))
	return New(dm, d, 0), dm
}

// confirm shows the dialog from cmd, accepts it and returns the messages
// the delete action produced.
func confirm(t *testing.T, dm *dialog.Manager, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	for _, msg := range flatten(cmd) {
		dm.Update(msg)
	}
	require.True(t, dm.ConfirmOpen())
	require.Contains(t, dm.View(), confirmBody)

	var out []tea.Msg
	for _, msg := range flatten(dm.Accept()) {
		out = append(out, flatten(dm.Update(msg))...)
	}
	return out
}

func TestToggle_OneOpenMenu(t *testing.T) {
	m, _ := newMenu(&fakeDeleter{})

	m.Toggle("u-1")
	assert.True(t, m.IsOpen("u-1"))

	m.Toggle("u-2")
	assert.True(t, m.IsOpen("u-2"))
	assert.False(t, m.IsOpen("u-1"))

	m.Toggle("u-2")
	assert.Equal(t, "", m.Open())

	m.Toggle("u-3")
	m.Close()
	assert.Equal(t, "", m.Open())
}

func TestEdit_GatedByBusyFlag(t *testing.T) {
	m, _ := newMenu(&fakeDeleter{})
	m.Toggle("u-1")

	msgs := flatten(m.Edit("u-1"))
	assert.Equal(t, []tea.Msg{EditMsg{MenuID: m.ID(), ID: "u-1"}}, msgs)
	assert.True(t, m.State("u-1").Editing)
	assert.Equal(t, "", m.Open())

	assert.Nil(t, m.Edit("u-1"))
	assert.Nil(t, m.Delete("u-1"))

	m.EditDone("u-1")
	assert.Equal(t, State{}, m.State("u-1"))
	assert.True(t, m.CanDelete("u-1"))
}

func TestDelete_Success(t *testing.T) {
	d := &fakeDeleter{}
	m, dm := newMenu(d)
	m.Toggle("u-5")

	var settled []tea.Msg
	for _, msg := range confirm(t, dm, m.Delete("u-5")) {
		// The delete result reaches the menu through the dialog.
		if _, ok := msg.(deleteResult); ok {
			assert.True(t, m.State("u-5").Deleting)
			assert.False(t, m.CanEdit("u-5"))
		}
		settled = append(settled, flatten(m.Update(msg))...)
	}

	assert.Equal(t, []string{"u-5"}, d.deleted)
	assert.Equal(t, State{}, m.State("u-5"))
	assert.Equal(t, "", m.Open())
	assert.Contains(t, settled, tea.Msg(DeletedMsg{MenuID: m.ID(), ID: "u-5"}))

	for _, msg := range settled {
		dm.Update(msg)
	}
	assert.Contains(t, dm.View(), deletedMsg)
}

func TestDelete_FailureKeepsRow(t *testing.T) {
	d := &fakeDeleter{err: errors.New("boom")}
	m, dm := newMenu(d)
	m.Toggle("u-5")

	var settled []tea.Msg
	for _, msg := range confirm(t, dm, m.Delete("u-5")) {
		settled = append(settled, flatten(m.Update(msg))...)
	}
	for _, msg := range settled {
		_, isDeleted := msg.(DeletedMsg)
		assert.False(t, isDeleted)
		dm.Update(msg)
	}

	assert.Equal(t, State{}, m.State("u-5"))
	assert.True(t, m.IsOpen("u-5"))
	assert.Contains(t, dm.View(), deleteFailed)
}

func TestDelete_DismissedDoesNothing(t *testing.T) {
	d := &fakeDeleter{}
	m, dm := newMenu(d)

	for _, msg := range flatten(m.Delete("u-5")) {
		dm.Update(msg)
	}
	require.NotNil(t, dm.Dismiss())
	assert.Empty(t, d.deleted)
	assert.Equal(t, State{}, m.State("u-5"))
}

func TestIgnoresOtherMenus(t *testing.T) {
	a, _ := newMenu(&fakeDeleter{})
	b, _ := newMenu(&fakeDeleter{})

	assert.Nil(t, b.Update(deleteResult{menuID: a.ID(), id: "u-1"}))
}
