// internal/console/listing/listing.go
// Package listing drives a server-paginated, searchable list. The server
// is authoritative for paging: every fetch result replaces the local page
// number, size and totals.
package listing

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dalemusser/bizadmin/internal/app/system/paging"
	"github.com/dalemusser/bizadmin/internal/console/api"
)

type Query struct {
	Page    int
	PerPage int
	Search  string
}

type Result[T any] struct {
	Items      []T
	Pagination api.Pagination
	// Meta is any extra payload of the list response, kept from the
	// latest applied fetch.
	Meta any
}

// FetchFunc loads one page.
type FetchFunc[T any] func(ctx context.Context, q Query) (Result[T], error)

// LoadedMsg is emitted after every fetch that is applied to the list.
type LoadedMsg struct {
	ListID int64
	Err    error
}

type fetchedMsg[T any] struct {
	listID int64
	seq    int
	res    Result[T]
	err    error
}

var lastID atomic.Int64

type Controller[T any] struct {
	id      int64
	fetch   FetchFunc[T]
	timeout time.Duration

	q        Query
	items    []T
	page     api.Pagination
	meta     any
	loaded   bool
	err      error
	seq      int
	inFlight int
}

// New builds a controller starting at page 1 with perPage rows.
func New[T any](fetch FetchFunc[T], perPage int, timeout time.Duration) *Controller[T] {
	if !paging.ValidPerPage(perPage) {
		perPage = paging.DefaultPerPage
	}
	return &Controller[T]{
		id:      lastID.Add(1),
		fetch:   fetch,
		timeout: timeout,
		q:       Query{Page: 1, PerPage: perPage},
		page:    api.Pagination{CurrentPage: 1, PerPage: perPage, LastPage: 1},
	}
}

func (c *Controller[T]) ID() int64                  { return c.id }
func (c *Controller[T]) Query() Query               { return c.q }
func (c *Controller[T]) Items() []T                 { return c.items }
func (c *Controller[T]) Pagination() api.Pagination { return c.page }
func (c *Controller[T]) Err() error                 { return c.err }
func (c *Controller[T]) Loaded() bool               { return c.loaded }
func (c *Controller[T]) Meta() any                  { return c.meta }

// Busy reports whether any fetch is outstanding.
func (c *Controller[T]) Busy() bool { return c.inFlight > 0 }

// Window is the page selector for the current pagination.
func (c *Controller[T]) Window() []paging.Slot {
	return paging.Window(c.page.CurrentPage, c.page.LastPage)
}

func (c *Controller[T]) load() tea.Cmd {
	c.seq++
	c.inFlight++
	id, seq, q, fetch, timeout := c.id, c.seq, c.q, c.fetch, c.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		res, err := fetch(ctx, q)
		return fetchedMsg[T]{listID: id, seq: seq, res: res, err: err}
	}
}

// Refresh re-fetches the current page.
func (c *Controller[T]) Refresh() tea.Cmd { return c.load() }

// GoTo fetches page p, clamped to [1, last page]. Asking for the page
// already shown is a no-op.
func (c *Controller[T]) GoTo(p int) tea.Cmd {
	p = max(1, min(p, c.page.LastPage))
	if p == c.page.CurrentPage && c.loaded {
		return nil
	}
	c.q.Page = p
	return c.load()
}

func (c *Controller[T]) Next() tea.Cmd { return c.GoTo(c.page.CurrentPage + 1) }
func (c *Controller[T]) Prev() tea.Cmd { return c.GoTo(c.page.CurrentPage - 1) }

// SetPageSize changes the page size and returns to page 1. Sizes the
// server does not offer fall back to the default.
func (c *Controller[T]) SetPageSize(n int) tea.Cmd {
	if !paging.ValidPerPage(n) {
		n = paging.DefaultPerPage
	}
	c.q.PerPage = n
	c.q.Page = 1
	return c.load()
}

// CyclePageSize moves to the next offered page size.
func (c *Controller[T]) CyclePageSize() tea.Cmd {
	opts := paging.PerPageOptions
	for i, o := range opts {
		if o == c.q.PerPage {
			return c.SetPageSize(opts[(i+1)%len(opts)])
		}
	}
	return c.SetPageSize(opts[0])
}

// Search submits term and returns to page 1.
func (c *Controller[T]) Search(term string) tea.Cmd {
	c.q.Search = strings.TrimSpace(term)
	c.q.Page = 1
	return c.load()
}

// ClearSearch drops the search term and returns to page 1.
func (c *Controller[T]) ClearSearch() tea.Cmd { return c.Search("") }

// GoToInput handles the "go to page" field. Only digits naming an
// existing page navigate; anything else is rejected and the caller should
// reset the field to the current page.
func (c *Controller[T]) GoToInput(raw string) (tea.Cmd, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return nil, false
		}
	}
	p, err := strconv.Atoi(raw)
	if err != nil || p < 1 || p > c.page.LastPage {
		return nil, false
	}
	return c.GoTo(p), true
}

// Update applies fetch results. Every result clears its share of the busy
// count; only the newest one changes the list.
func (c *Controller[T]) Update(msg tea.Msg) tea.Cmd {
	m, ok := msg.(fetchedMsg[T])
	if !ok || m.listID != c.id {
		return nil
	}
	if c.inFlight > 0 {
		c.inFlight--
	}
	if m.seq != c.seq {
		return nil
	}

	c.err = m.err
	if m.err == nil {
		c.items = m.res.Items
		c.page = m.res.Pagination
		c.meta = m.res.Meta
		if c.page.LastPage < 1 {
			c.page.LastPage = 1
		}
		c.q.Page = c.page.CurrentPage
		c.q.PerPage = c.page.PerPage
		c.loaded = true
	}
	id, err := c.id, m.err
	return func() tea.Msg { return LoadedMsg{ListID: id, Err: err} }
}
