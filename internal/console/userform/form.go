// internal/console/userform/form.go
// Package userform is the create/edit user popup. The form holds a draft
// seeded on Open and destroyed on close; submit validates the whole draft
// locally before anything is sent.
package userform

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dalemusser/bizadmin/internal/console/api"
	"github.com/dalemusser/bizadmin/internal/console/dialog"
	"github.com/dalemusser/bizadmin/internal/console/fieldcheck"
	"github.com/dalemusser/bizadmin/internal/console/uictx"
)

const MinPasswordLen = 8

const (
	msgFixErrors   = "Please fix all validation errors before submitting."
	msgCreated     = "User created successfully."
	msgUpdated     = "User updated successfully."
	msgCreateFail  = "Failed to create user."
	msgUpdateFail  = "Failed to update user."
	msgDuplicate   = "Username already exists."
	msgCloseTitle  = "Confirm Close"
	msgCloseBody   = "Are you sure you want to close? All changes will be lost."
	discardTag     = "userform-discard"
	titleError     = "Error"
	titleSuccess   = "Success"
	titleForCreate = "Create User"
	titleForEdit   = "Edit User"
)

type Field int

const (
	FieldUsername Field = iota
	FieldFullName
	FieldRole
	FieldRemark
	FieldPassword
	FieldConfirmation
	fieldCount
)

var fieldLabels = [fieldCount]string{"Username", "Full name", "Role", "Remark", "Password", "Confirm password"}

// serverFields maps 422 error keys onto form fields.
var serverFields = map[string]Field{
	"username":              FieldUsername,
	"full_name":             FieldFullName,
	"role_id":               FieldRole,
	"remark":                FieldRemark,
	"password":              FieldPassword,
	"password_confirmation": FieldConfirmation,
}

// Saver persists users. *api.Client satisfies it.
type Saver interface {
	CreateUser(ctx context.Context, in api.UserInput) (string, error)
	UpdateUser(ctx context.Context, id string, in api.UserInput) (string, error)
}

// Draft is the form's editable state.
type Draft struct {
	Username     string
	FullName     string
	RoleID       string
	Remark       string
	Password     string
	Confirmation string
}

// SavedMsg is emitted after a successful save. ID is empty for creates.
type SavedMsg struct {
	FormID int64
	ID     string
}

// ClosedMsg is emitted whenever the form closes.
type ClosedMsg struct {
	FormID int64
	Saved  bool
}

type saveResult struct {
	formID  int64
	message string
	err     error
}

var lastID atomic.Int64

type Form struct {
	id      int64
	ui      *uictx.Context
	dialogs *dialog.Manager
	saver   Saver
	check   *fieldcheck.Validator
	timeout time.Duration
	roles   []api.Role

	open      bool
	editID    string
	initial   Draft
	inputs    map[Field]*textinput.Model
	roleIdx   int
	focus     Field
	errs      map[Field]string
	saving    bool
	discardID int
}

// New builds a closed form. check backs the username uniqueness check and
// timeout bounds each save.
func New(ui *uictx.Context, dialogs *dialog.Manager, saver Saver, check fieldcheck.CheckFunc, timeout time.Duration) *Form {
	f := &Form{
		id:      lastID.Add(1),
		ui:      ui,
		dialogs: dialogs,
		saver:   saver,
		check:   fieldcheck.New(check, timeout),
		timeout: timeout,
		roleIdx: -1,
		inputs:  map[Field]*textinput.Model{},
		errs:    map[Field]string{},
	}
	for _, fl := range []Field{FieldUsername, FieldFullName, FieldRemark, FieldPassword, FieldConfirmation} {
		ti := textinput.New()
		ti.CharLimit = 255
		ti.Prompt = ""
		if fl == FieldPassword || fl == FieldConfirmation {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.inputs[fl] = &ti
	}
	return f
}

func (f *Form) ID() int64 { return f.id }

// SetRoles replaces the role choices.
func (f *Form) SetRoles(roles []api.Role) { f.roles = roles }

func (f *Form) IsOpen() bool   { return f.open }
func (f *Form) Saving() bool   { return f.saving }
func (f *Form) Editing() bool  { return f.editID != "" }
func (f *Form) Focused() Field { return f.focus }

// Error returns the message shown under field, or "".
func (f *Form) Error(field Field) string { return f.errs[field] }

// Errors returns a copy of the current field errors.
func (f *Form) Errors() map[Field]string {
	out := make(map[Field]string, len(f.errs))
	for k, v := range f.errs {
		out[k] = v
	}
	return out
}

// Open seeds the draft from u, or from defaults when u is nil.
func (f *Form) Open(u *api.User) tea.Cmd {
	f.open = true
	f.saving = false
	f.discardID = 0
	f.errs = map[Field]string{}
	f.editID = ""
	f.initial = Draft{}
	if u != nil {
		f.editID = u.ID
		f.initial = Draft{Username: u.Username, FullName: u.FullName, RoleID: u.RoleID}
		if u.Remark != nil {
			f.initial.Remark = *u.Remark
		}
	}
	f.load(f.initial)
	f.check.Reset(f.initial.Username, u != nil)
	return f.setFocus(FieldUsername)
}

func (f *Form) load(d Draft) {
	f.inputs[FieldUsername].SetValue(d.Username)
	f.inputs[FieldFullName].SetValue(d.FullName)
	f.inputs[FieldRemark].SetValue(d.Remark)
	f.inputs[FieldPassword].SetValue(d.Password)
	f.inputs[FieldConfirmation].SetValue(d.Confirmation)
	f.roleIdx = f.roleIndex(d.RoleID)
}

func (f *Form) roleIndex(id string) int {
	for i, r := range f.roles {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Draft returns the current field values.
func (f *Form) Draft() Draft {
	d := Draft{
		Username:     f.inputs[FieldUsername].Value(),
		FullName:     f.inputs[FieldFullName].Value(),
		Remark:       f.inputs[FieldRemark].Value(),
		Password:     f.inputs[FieldPassword].Value(),
		Confirmation: f.inputs[FieldConfirmation].Value(),
	}
	if f.roleIdx >= 0 && f.roleIdx < len(f.roles) {
		d.RoleID = f.roles[f.roleIdx].ID
	}
	return d
}

// Dirty reports whether any field differs from its value at Open.
func (f *Form) Dirty() bool { return f.open && f.Draft() != f.initial }

// SetValue replaces a text field's value. A username change restarts the
// uniqueness check.
func (f *Form) SetValue(field Field, value string) tea.Cmd {
	ti, ok := f.inputs[field]
	if !ok || !f.open || f.saving {
		return nil
	}
	ti.SetValue(value)
	return f.changed(field)
}

// SelectRole picks the role with id.
func (f *Form) SelectRole(id string) {
	if f.open && !f.saving {
		f.roleIdx = f.roleIndex(id)
	}
}

func (f *Form) cycleRole(step int) {
	n := len(f.roles)
	if n == 0 {
		return
	}
	if f.roleIdx < 0 {
		if step > 0 {
			f.roleIdx = 0
		} else {
			f.roleIdx = n - 1
		}
		return
	}
	f.roleIdx = (f.roleIdx + step + n) % n
}

func (f *Form) changed(field Field) tea.Cmd {
	delete(f.errs, field)
	if field == FieldUsername {
		return f.check.Change(f.inputs[FieldUsername].Value())
	}
	return nil
}

func (f *Form) setFocus(field Field) tea.Cmd {
	f.focus = field
	var cmd tea.Cmd
	for fl, ti := range f.inputs {
		if fl == field {
			cmd = ti.Focus()
		} else {
			ti.Blur()
		}
	}
	return cmd
}

// validate returns every local violation at once.
func (f *Form) validate() map[Field]string {
	d := f.Draft()
	errs := map[Field]string{}

	if strings.TrimSpace(d.Username) == "" {
		errs[FieldUsername] = "Username is required"
	} else if msg := f.check.Error(); msg != "" {
		errs[FieldUsername] = msg
	}
	if strings.TrimSpace(d.FullName) == "" {
		errs[FieldFullName] = "Full name is required."
	}
	if d.RoleID == "" {
		errs[FieldRole] = "Role is required."
	}

	creating := f.editID == ""
	switch {
	case d.Password == "" && creating:
		errs[FieldPassword] = "Password is required"
	case d.Password != "" && len([]rune(d.Password)) < MinPasswordLen:
		errs[FieldPassword] = "Password must be at least 8 characters"
	}
	switch {
	case d.Confirmation == "" && (creating || d.Password != ""):
		errs[FieldConfirmation] = "Confirm password is required"
	case d.Confirmation != d.Password:
		errs[FieldConfirmation] = "Passwords do not match"
	}
	return errs
}

// Submit validates the draft and, when it is clean, saves it. Submitting
// while closed or already saving does nothing.
func (f *Form) Submit() tea.Cmd {
	if !f.open || f.saving {
		return nil
	}
	if errs := f.validate(); len(errs) > 0 {
		f.errs = errs
		_, cmd := f.dialogs.ShowError(titleError, msgFixErrors, 0)
		return cmd
	}
	f.errs = map[Field]string{}
	f.saving = true

	d := f.Draft()
	in := api.UserInput{
		Username:             strings.TrimSpace(d.Username),
		FullName:             strings.TrimSpace(d.FullName),
		RoleID:               d.RoleID,
		Password:             d.Password,
		PasswordConfirmation: d.Confirmation,
	}
	if remark := strings.TrimSpace(d.Remark); remark != "" || f.initial.Remark != "" {
		in.Remark = &remark
	}

	formID, editID, saver, timeout := f.id, f.editID, f.saver, f.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		var (
			msg string
			err error
		)
		if editID == "" {
			msg, err = saver.CreateUser(ctx, in)
		} else {
			msg, err = saver.UpdateUser(ctx, editID, in)
		}
		return saveResult{formID: formID, message: msg, err: err}
	}
}

// RequestClose closes a pristine form at once and asks before discarding
// a dirty one.
func (f *Form) RequestClose() tea.Cmd {
	if !f.open || f.saving {
		return nil
	}
	if !f.Dirty() {
		return f.close(false)
	}
	id, cmd := f.dialogs.ShowConfirm(dialog.ConfirmSpec{
		Title:        msgCloseTitle,
		Message:      msgCloseBody,
		ConfirmLabel: "Discard",
		CancelLabel:  "Keep editing",
		Tag:          discardTag,
	})
	if id != 0 {
		f.discardID = id
	}
	return cmd
}

func (f *Form) close(saved bool) tea.Cmd {
	f.open = false
	f.saving = false
	f.editID = ""
	f.initial = Draft{}
	f.errs = map[Field]string{}
	f.discardID = 0
	f.load(Draft{})
	f.check.Reset("", false)
	id := f.id
	return func() tea.Msg { return ClosedMsg{FormID: id, Saved: saved} }
}

// HandleKey handles a key press while the form is open.
func (f *Form) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if !f.open {
		return nil
	}
	switch msg.String() {
	case "ctrl+s":
		return f.Submit()
	case "esc":
		return f.RequestClose()
	}
	if f.saving {
		return nil
	}
	switch msg.String() {
	case "tab", "down":
		return f.setFocus((f.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return f.setFocus((f.focus + fieldCount - 1) % fieldCount)
	case "enter":
		if f.focus == FieldConfirmation {
			return f.Submit()
		}
		return f.setFocus((f.focus + 1) % fieldCount)
	}

	if f.focus == FieldRole {
		switch msg.String() {
		case "left", "h":
			f.cycleRole(-1)
		case "right", "l", " ":
			f.cycleRole(1)
		}
		delete(f.errs, FieldRole)
		return nil
	}

	ti := f.inputs[f.focus]
	before := ti.Value()
	updated, cmd := ti.Update(msg)
	*ti = updated
	if ti.Value() != before {
		return tea.Batch(cmd, f.changed(f.focus))
	}
	return cmd
}

// Update handles save results, discard confirmations and the username
// check's messages.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case saveResult:
		if msg.formID != f.id || !f.saving {
			return nil
		}
		return f.saved(msg)
	case dialog.ResolvedMsg:
		if f.discardID == 0 || msg.ID != f.discardID {
			return nil
		}
		f.discardID = 0
		if msg.Outcome == dialog.Accepted && f.open {
			return f.close(false)
		}
		return nil
	}
	return f.check.Update(msg)
}

func (f *Form) saved(res saveResult) tea.Cmd {
	f.saving = false
	if res.err != nil {
		message := msgCreateFail
		if f.editID != "" {
			message = msgUpdateFail
		}
		var ve *api.ValidationError
		if errors.As(res.err, &ve) {
			for k, v := range ve.Fields {
				if fl, ok := serverFields[k]; ok {
					f.errs[fl] = v
				}
			}
			if ve.UsernameTaken() {
				message = msgDuplicate
			}
		}
		_, cmd := f.dialogs.ShowError(titleError, message, 0)
		return cmd
	}

	message := msgCreated
	if f.editID != "" {
		message = msgUpdated
	}
	formID, userID := f.id, f.editID
	_, toast := f.dialogs.ShowSuccess(titleSuccess, message, 0)
	savedCmd := func() tea.Msg { return SavedMsg{FormID: formID, ID: userID} }
	return tea.Batch(toast, savedCmd, f.close(true))
}

func (f *Form) View() string {
	if !f.open {
		return ""
	}
	theme := f.ui.Theme()
	title := titleForCreate
	if f.editID != "" {
		title = titleForEdit
	}

	lines := []string{theme.Title.Render(title), ""}
	for fl := Field(0); fl < fieldCount; fl++ {
		label := fieldLabels[fl]
		if fl == f.focus {
			label = theme.Selected.Render(label)
		}
		var value string
		if fl == FieldRole {
			value = theme.Dim.Render("< choose >")
			if f.roleIdx >= 0 && f.roleIdx < len(f.roles) {
				value = "< " + f.roles[f.roleIdx].Name + " >"
			}
		} else {
			value = f.inputs[fl].View()
		}
		lines = append(lines, label+": "+value)
		if fl == FieldUsername && f.check.Checking() {
			lines = append(lines, theme.Dim.Render("  checking..."))
		}
		if e := f.errs[fl]; e != "" {
			lines = append(lines, theme.Error.Render("  "+e))
		} else if fl == FieldUsername && f.check.Error() != "" {
			lines = append(lines, theme.Error.Render("  "+f.check.Error()))
		}
	}
	help := "[Tab] next  [Ctrl+S] save  [Esc] close"
	if f.saving {
		help = "Saving..."
	}
	lines = append(lines, "", theme.Help.Render(help))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 2)
	return box.Render(strings.Join(lines, "\n"))
}
