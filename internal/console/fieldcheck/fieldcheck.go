// internal/console/fieldcheck/fieldcheck.go
// Package fieldcheck debounces an asynchronous uniqueness check for one
// form field. Each change restarts a Delay timer; only the check issued by
// the latest change may set the field's error.
package fieldcheck

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const Delay = 500 * time.Millisecond

const (
	TakenMsg = "Username already exists"
	FailMsg  = "Error checking username"
)

// CheckFunc reports whether value is already taken.
type CheckFunc func(ctx context.Context, value string) (bool, error)

var lastID atomic.Int64

type (
	tickMsg struct {
		id  int64
		seq int
	}
	resultMsg struct {
		id    int64
		seq   int
		taken bool
		err   error
	}
)

type Validator struct {
	id      int64
	check   CheckFunc
	timeout time.Duration

	seq      int
	value    string
	original string
	edit     bool
	err      string
	pending  bool
	inFlight bool
}

// New builds a validator. timeout bounds each check call.
func New(check CheckFunc, timeout time.Duration) *Validator {
	return &Validator{id: lastID.Add(1), check: check, timeout: timeout}
}

// Reset prepares the validator for a new form. In edit mode the record's
// current value never needs checking.
func (v *Validator) Reset(original string, edit bool) {
	v.seq++
	v.value = original
	v.original = strings.TrimSpace(original)
	v.edit = edit
	v.err = ""
	v.pending = false
	v.inFlight = false
}

// Change records a new field value and restarts the debounce timer.
// Empty values and the unchanged original clear the error at once.
func (v *Validator) Change(value string) tea.Cmd {
	v.seq++
	v.value = value
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || (v.edit && trimmed == v.original) {
		v.err = ""
		v.pending = false
		return nil
	}
	v.pending = true
	id, seq := v.id, v.seq
	return tea.Tick(Delay, func(time.Time) tea.Msg { return tickMsg{id: id, seq: seq} })
}

// Update handles the validator's timer and result messages.
func (v *Validator) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tickMsg:
		if msg.id != v.id || msg.seq != v.seq {
			return nil
		}
		v.inFlight = true
		return v.run(msg.seq, strings.TrimSpace(v.value))
	case resultMsg:
		if msg.id != v.id || msg.seq != v.seq {
			return nil
		}
		v.pending = false
		v.inFlight = false
		switch {
		case msg.err != nil:
			v.err = FailMsg
		case msg.taken:
			v.err = TakenMsg
		default:
			v.err = ""
		}
	}
	return nil
}

func (v *Validator) run(seq int, value string) tea.Cmd {
	id, check, timeout := v.id, v.check, v.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		taken, err := check(ctx, value)
		return resultMsg{id: id, seq: seq, taken: taken, err: err}
	}
}

// Error is the field's current async error, or "".
func (v *Validator) Error() string { return v.err }

// Pending reports whether a change has not been checked yet.
func (v *Validator) Pending() bool { return v.pending }

// Checking reports whether a check request is outstanding.
func (v *Validator) Checking() bool { return v.inFlight }
