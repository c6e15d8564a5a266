// internal/console/dialog/styles.go
package dialog

import (
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Styles hands out one style entry per mounted dialog. Entries must be
// released on unmount; Live reports how many are held.
type Styles struct {
	mu      sync.Mutex
	entries map[string]lipgloss.Style
}

func NewStyles() *Styles {
	return &Styles{entries: make(map[string]lipgloss.Style)}
}

func styleKey(id int) string { return "dialog-" + strconv.Itoa(id) }

// Acquire registers the style for dialog id.
func (s *Styles) Acquire(id int, kind Kind, dark bool) lipgloss.Style {
	st := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 2).
		BorderForeground(accent(kind, dark))

	s.mu.Lock()
	s.entries[styleKey(id)] = st
	s.mu.Unlock()
	return st
}

// Get returns the style for dialog id.
func (s *Styles) Get(id int) (lipgloss.Style, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.entries[styleKey(id)]
	return st, ok
}

// Release drops the entry for dialog id. Releasing twice is a no-op.
func (s *Styles) Release(id int) {
	s.mu.Lock()
	delete(s.entries, styleKey(id))
	s.mu.Unlock()
}

// Live is the number of entries currently held.
func (s *Styles) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func accent(kind Kind, dark bool) lipgloss.Color {
	switch kind {
	case KindError:
		if dark {
			return lipgloss.Color("203")
		}
		return lipgloss.Color("160")
	case KindSuccess:
		if dark {
			return lipgloss.Color("78")
		}
		return lipgloss.Color("28")
	default:
		if dark {
			return lipgloss.Color("214")
		}
		return lipgloss.Color("130")
	}
}
