// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultPerPage is the page size used when the request does not ask for
// one of PerPageOptions.
const DefaultPerPage = 10

// PerPageOptions are the page sizes a list may be requested with.
var PerPageOptions = []int{10, 25, 50, 100}

// ValidPerPage reports whether n is one of PerPageOptions.
func ValidPerPage(n int) bool {
	for _, o := range PerPageOptions {
		if n == o {
			return true
		}
	}
	return false
}

// ParsePage extracts the 1-based "page" query parameter.
// Returns 1 if not present or invalid.
func ParsePage(r *http.Request) int {
	n, err := strconv.Atoi(query.Get(r, "page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ParsePerPage extracts the "per_page" query parameter. Values outside
// PerPageOptions fall back to DefaultPerPage.
func ParsePerPage(r *http.Request) int {
	n, err := strconv.Atoi(query.Get(r, "per_page"))
	if err != nil || !ValidPerPage(n) {
		return DefaultPerPage
	}
	return n
}

// Page is the pagination block returned with every list response. The
// server is authoritative for all four values.
type Page struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

// NewPage computes the pagination block for a request of page/perPage
// against total matching rows. LastPage is never below 1 and CurrentPage is
// clamped into [1, LastPage], so a request past the end (for example after
// the last row of the final page was deleted) lands on the new last page.
func NewPage(page, perPage int, total int64) Page {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if total < 0 {
		total = 0
	}
	last := int((total + int64(perPage) - 1) / int64(perPage))
	if last < 1 {
		last = 1
	}
	if page < 1 {
		page = 1
	}
	if page > last {
		page = last
	}
	return Page{CurrentPage: page, PerPage: perPage, Total: total, LastPage: last}
}

// Skip is the number of rows before the current page.
func (p Page) Skip() int64 { return int64(p.CurrentPage-1) * int64(p.PerPage) }

// Limit is the maximum number of rows on the current page.
func (p Page) Limit() int64 { return int64(p.PerPage) }

// Slot is one entry in a page selector: either a page number or a gap.
type Slot struct {
	Page int
	Gap  bool
}

// Window returns the page selector for current out of last pages.
//
// With five pages or fewer every page is listed. Otherwise page 1 and the
// last page are always present, pages current-2..current+2 are shown
// clamped to range, and any hidden run of pages between the window and an
// edge collapses to a single gap. No other page is listed. The result is
// strictly increasing with no duplicates.
func Window(current, last int) []Slot {
	if last < 1 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > last {
		current = last
	}

	out := make([]Slot, 0, 9)
	if last <= 5 {
		for p := 1; p <= last; p++ {
			out = append(out, Slot{Page: p})
		}
		return out
	}

	lo := max(1, current-2)
	hi := min(last, current+2)

	if lo > 1 {
		out = append(out, Slot{Page: 1})
		if lo > 2 {
			out = append(out, Slot{Gap: true})
		}
	}
	for p := lo; p <= hi; p++ {
		out = append(out, Slot{Page: p})
	}
	if hi < last {
		if hi < last-1 {
			out = append(out, Slot{Gap: true})
		}
		out = append(out, Slot{Page: last})
	}
	return out
}
