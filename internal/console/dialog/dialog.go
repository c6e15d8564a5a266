// internal/console/dialog/dialog.go
// Package dialog implements the console's confirm dialogs and toasts.
//
// Every dialog moves Hidden → Visible → Closing → Unmounted. Closing lasts
// CloseDuration and the dialog's ResolvedMsg is emitted exactly once, after
// Closing ends. At most one confirm dialog is mounted at a time; toasts are
// independent of each other and of the confirm dialog.
package dialog

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dalemusser/bizadmin/internal/console/uictx"
)

const (
	CloseDuration       = 300 * time.Millisecond
	DefaultToastTimeout = 3000 * time.Millisecond
)

type Kind int

const (
	KindConfirm Kind = iota
	KindError
	KindSuccess
)

type Phase int

const (
	Hidden Phase = iota
	Visible
	Closing
	Unmounted
)

func (p Phase) String() string {
	return [...]string{"hidden", "visible", "closing", "unmounted"}[p]
}

type Outcome int

const (
	// Accepted means the confirm action ran to completion.
	Accepted Outcome = iota
	// Dismissed means the dialog was cancelled, timed out or closed.
	Dismissed
)

// ConfirmSpec describes a confirm dialog. OnConfirm, when set, is the
// action run on acceptance; the dialog stays open in a loading state until
// it finishes, then its result message is delivered to the program.
type ConfirmSpec struct {
	Title        string
	Message      string
	ConfirmLabel string
	CancelLabel  string
	OnConfirm    func() tea.Cmd
	// Tag is echoed in ResolvedMsg so the opener can recognise its dialog.
	Tag string
}

// ResolvedMsg is emitted once per dialog, after it finishes closing.
type ResolvedMsg struct {
	ID      int
	Kind    Kind
	Tag     string
	Outcome Outcome
}

type (
	showMsg      struct{ id int }
	closedMsg    struct{ id int }
	toastTimeout struct{ id int }
	confirmDone  struct {
		id    int
		inner tea.Msg
	}
)

type instance struct {
	id      int
	kind    Kind
	phase   Phase
	title   string
	message string
	labels  [2]string
	tag     string
	loading bool
	outcome Outcome

	onConfirm func() tea.Cmd
	resolved  bool
}

type Manager struct {
	ui      *uictx.Context
	styles  *Styles
	spinner spinner.Model
	nextID  int

	confirm *instance
	toasts  []*instance
}

func New(ui *uictx.Context) *Manager {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return &Manager{ui: ui, styles: NewStyles(), spinner: s}
}

// Styles exposes the style registry.
func (m *Manager) Styles() *Styles { return m.styles }

func (m *Manager) mount(kind Kind, title, message string) *instance {
	m.nextID++
	in := &instance{id: m.nextID, kind: kind, phase: Hidden, title: title, message: message}
	m.styles.Acquire(in.id, kind, m.ui == nil || m.ui.DarkMode)
	return in
}

func showCmd(id int) tea.Cmd {
	return func() tea.Msg { return showMsg{id: id} }
}

// ShowConfirm mounts a confirm dialog. It returns id 0 and a nil command
// when another confirm dialog is still mounted.
func (m *Manager) ShowConfirm(spec ConfirmSpec) (int, tea.Cmd) {
	if m.confirm != nil {
		return 0, nil
	}
	in := m.mount(KindConfirm, spec.Title, spec.Message)
	in.labels = [2]string{spec.ConfirmLabel, spec.CancelLabel}
	if in.labels[0] == "" {
		in.labels[0] = "Yes"
	}
	if in.labels[1] == "" {
		in.labels[1] = "Cancel"
	}
	in.tag = spec.Tag
	in.onConfirm = spec.OnConfirm
	m.confirm = in
	return in.id, showCmd(in.id)
}

// ShowError mounts an error toast. A non-positive timeout uses
// DefaultToastTimeout.
func (m *Manager) ShowError(title, message string, timeout time.Duration) (int, tea.Cmd) {
	return m.toast(KindError, title, message, timeout)
}

// ShowSuccess mounts a success toast.
func (m *Manager) ShowSuccess(title, message string, timeout time.Duration) (int, tea.Cmd) {
	return m.toast(KindSuccess, title, message, timeout)
}

func (m *Manager) toast(kind Kind, title, message string, timeout time.Duration) (int, tea.Cmd) {
	if timeout <= 0 {
		timeout = DefaultToastTimeout
	}
	in := m.mount(kind, title, message)
	m.toasts = append(m.toasts, in)
	id := in.id
	return id, tea.Batch(showCmd(id), tea.Tick(timeout, func(time.Time) tea.Msg {
		return toastTimeout{id: id}
	}))
}

func (m *Manager) find(id int) *instance {
	if m.confirm != nil && m.confirm.id == id {
		return m.confirm
	}
	for _, t := range m.toasts {
		if t.id == id {
			return t
		}
	}
	return nil
}

// Phase reports the phase of dialog id; unknown ids are Unmounted.
func (m *Manager) Phase(id int) Phase {
	if in := m.find(id); in != nil {
		return in.phase
	}
	return Unmounted
}

// Loading reports whether the confirm dialog is running its action.
func (m *Manager) Loading() bool { return m.confirm != nil && m.confirm.loading }

// ConfirmOpen reports whether a confirm dialog is mounted and not closing.
// While it is, the dialog owns the keyboard.
func (m *Manager) ConfirmOpen() bool {
	return m.confirm != nil && m.confirm.phase != Closing
}

// Toasts is the number of mounted toasts.
func (m *Manager) Toasts() int { return len(m.toasts) }

// beginClose moves in to Closing and schedules its unmount.
func (m *Manager) beginClose(in *instance, outcome Outcome) tea.Cmd {
	if in.phase == Closing || in.phase == Unmounted {
		return nil
	}
	in.phase = Closing
	in.outcome = outcome
	id := in.id
	return tea.Tick(CloseDuration, func(time.Time) tea.Msg { return closedMsg{id: id} })
}

func (m *Manager) unmount(in *instance) tea.Cmd {
	in.phase = Unmounted
	m.styles.Release(in.id)
	if m.confirm == in {
		m.confirm = nil
	}
	for i, t := range m.toasts {
		if t == in {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			break
		}
	}
	if in.resolved {
		return nil
	}
	in.resolved = true
	res := ResolvedMsg{ID: in.id, Kind: in.kind, Tag: in.tag, Outcome: in.outcome}
	return func() tea.Msg { return res }
}

// Accept confirms the open dialog. With an OnConfirm action the dialog
// enters the loading state and closes when the action's message arrives.
func (m *Manager) Accept() tea.Cmd {
	in := m.confirm
	if in == nil || in.phase != Visible || in.loading {
		return nil
	}
	if in.onConfirm == nil {
		return m.beginClose(in, Accepted)
	}
	in.loading = true
	action := in.onConfirm()
	id := in.id
	run := func() tea.Msg {
		var inner tea.Msg
		if action != nil {
			inner = action()
		}
		return confirmDone{id: id, inner: inner}
	}
	return tea.Batch(run, m.spinner.Tick)
}

// Dismiss cancels the open confirm dialog. It is ignored while loading.
func (m *Manager) Dismiss() tea.Cmd {
	in := m.confirm
	if in == nil || in.loading {
		return nil
	}
	return m.beginClose(in, Dismissed)
}

// DismissToast closes the newest visible toast.
func (m *Manager) DismissToast() tea.Cmd {
	for i := len(m.toasts) - 1; i >= 0; i-- {
		if t := m.toasts[i]; t.phase == Visible || t.phase == Hidden {
			return m.beginClose(t, Dismissed)
		}
	}
	return nil
}

// HandleKey routes a key press to the confirm dialog when one is open.
// handled is false when no confirm dialog wants the key.
func (m *Manager) HandleKey(msg tea.KeyMsg) (handled bool, cmd tea.Cmd) {
	if !m.ConfirmOpen() {
		return false, nil
	}
	switch msg.String() {
	case "enter", "y":
		return true, m.Accept()
	case "esc", "n":
		return true, m.Dismiss()
	}
	// Modal: swallow everything else.
	return true, nil
}

// Update handles the manager's own messages.
func (m *Manager) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case showMsg:
		if in := m.find(msg.id); in != nil && in.phase == Hidden {
			in.phase = Visible
		}
	case toastTimeout:
		if in := m.find(msg.id); in != nil {
			return m.beginClose(in, Dismissed)
		}
	case closedMsg:
		if in := m.find(msg.id); in != nil && in.phase == Closing {
			return m.unmount(in)
		}
	case confirmDone:
		in := m.find(msg.id)
		if in == nil {
			return nil
		}
		in.loading = false
		var deliver tea.Cmd
		if msg.inner != nil {
			inner := msg.inner
			deliver = func() tea.Msg { return inner }
		}
		return tea.Batch(deliver, m.beginClose(in, Accepted))
	case spinner.TickMsg:
		if m.Loading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return cmd
		}
	}
	return nil
}

// View renders the confirm dialog (if any) above the toasts.
func (m *Manager) View() string {
	var blocks []string
	if in := m.confirm; in != nil && in.phase != Hidden {
		blocks = append(blocks, m.render(in))
	}
	for _, t := range m.toasts {
		if t.phase != Hidden {
			blocks = append(blocks, m.render(t))
		}
	}
	return strings.Join(blocks, "\n")
}

func (m *Manager) render(in *instance) string {
	st, ok := m.styles.Get(in.id)
	if !ok {
		return ""
	}
	if in.phase == Closing {
		st = st.Faint(true)
	}
	theme := m.ui.Theme()
	lines := []string{theme.Title.Render(in.title), in.message}
	if in.kind == KindConfirm {
		buttons := "[Enter] " + in.labels[0] + "   [Esc] " + in.labels[1]
		if in.loading {
			buttons = m.spinner.View() + " Working..."
		}
		lines = append(lines, "", theme.Help.Render(buttons))
	}
	return st.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
