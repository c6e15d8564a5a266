package paging

import (
	"net/http/httptest"
	"strconv"
	"testing"
)

func TestValidPerPage(t *testing.T) {
	for _, n := range []int{10, 25, 50, 100} {
		if !ValidPerPage(n) {
			t.Errorf("ValidPerPage(%d) = false, want true", n)
		}
	}
	for _, n := range []int{0, 1, 20, 1000, -10} {
		if ValidPerPage(n) {
			t.Errorf("ValidPerPage(%d) = true, want false", n)
		}
	}
}

func TestParsePageAndPerPage(t *testing.T) {
	tests := []struct {
		query       string
		wantPage    int
		wantPerPage int
	}{
		{"", 1, DefaultPerPage},
		{"?page=3&per_page=25", 3, 25},
		{"?page=0&per_page=7", 1, DefaultPerPage},
		{"?page=-2", 1, DefaultPerPage},
		{"?page=abc&per_page=xyz", 1, DefaultPerPage},
		{"?per_page=100", 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/system/user"+tt.query, nil)
			if got := ParsePage(r); got != tt.wantPage {
				t.Errorf("ParsePage() = %d, want %d", got, tt.wantPage)
			}
			if got := ParsePerPage(r); got != tt.wantPerPage {
				t.Errorf("ParsePerPage() = %d, want %d", got, tt.wantPerPage)
			}
		})
	}
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		name    string
		page    int
		perPage int
		total   int64
		want    Page
	}{
		{"empty", 1, 10, 0, Page{1, 10, 0, 1}},
		{"exact fit", 2, 10, 20, Page{2, 10, 20, 2}},
		{"partial last page", 3, 10, 25, Page{3, 10, 25, 3}},
		{"past the end clamps", 4, 10, 30, Page{3, 10, 30, 3}},
		{"below one clamps", 0, 25, 80, Page{1, 25, 80, 4}},
		{"zero per page defaults", 1, 0, 15, Page{1, DefaultPerPage, 15, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPage(tt.page, tt.perPage, tt.total)
			if got != tt.want {
				t.Errorf("NewPage(%d, %d, %d) = %+v, want %+v", tt.page, tt.perPage, tt.total, got, tt.want)
			}
		})
	}
}

func TestPage_SkipLimit(t *testing.T) {
	p := NewPage(3, 25, 100)
	if p.Skip() != 50 {
		t.Errorf("Skip() = %d, want 50", p.Skip())
	}
	if p.Limit() != 25 {
		t.Errorf("Limit() = %d, want 25", p.Limit())
	}
}

// render turns a window into a compact string such as "1 … 4 5 6 … 10".
func render(slots []Slot) string {
	s := ""
	for i, sl := range slots {
		if i > 0 {
			s += " "
		}
		if sl.Gap {
			s += "…"
			continue
		}
		s += strconv.Itoa(sl.Page)
	}
	return s
}

func TestWindow_Shapes(t *testing.T) {
	tests := []struct {
		current, last int
		want          string
	}{
		{1, 1, "1"},
		{1, 2, "1 2"},
		{1, 5, "1 2 3 4 5"},
		{3, 5, "1 2 3 4 5"},
		{5, 5, "1 2 3 4 5"},
		{2, 5, "1 2 3 4 5"},
		{1, 6, "1 2 3 … 6"},
		{3, 6, "1 2 3 4 5 6"},
		{4, 6, "1 2 3 4 5 6"},
		{6, 6, "1 … 4 5 6"},
		{4, 7, "1 2 3 4 5 6 7"},
		{5, 7, "1 … 3 4 5 6 7"},
		{5, 10, "1 … 3 4 5 6 7 … 10"},
		{6, 10, "1 … 4 5 6 7 8 … 10"},
		{8, 10, "1 … 6 7 8 9 10"},
		{50, 100, "1 … 48 49 50 51 52 … 100"},
		{0, 3, "1 2 3"},  // clamps below
		{9, 3, "1 2 3"},  // clamps above
	}

	for _, tt := range tests {
		got := render(Window(tt.current, tt.last))
		if got != tt.want {
			t.Errorf("Window(%d, %d) = %q, want %q", tt.current, tt.last, got, tt.want)
		}
	}
}

func TestWindow_NoPages(t *testing.T) {
	if w := Window(1, 0); w != nil {
		t.Errorf("Window(1, 0) = %v, want nil", w)
	}
}

// Every page in every window is in range, appears once, pages increase,
// and the first and last pages are always present.
func TestWindow_Properties(t *testing.T) {
	for last := 1; last <= 40; last++ {
		for current := 1; current <= last; current++ {
			w := Window(current, last)
			prev := 0
			sawCurrent := false
			for i, sl := range w {
				if sl.Gap {
					if i == 0 || i == len(w)-1 {
						t.Fatalf("Window(%d,%d): gap at edge", current, last)
					}
					if last <= 5 {
						t.Fatalf("Window(%d,%d): gap with five pages or fewer", current, last)
					}
					continue
				}
				if last > 5 && sl.Page != 1 && sl.Page != last && (sl.Page < current-2 || sl.Page > current+2) {
					t.Fatalf("Window(%d,%d): page %d outside the window", current, last, sl.Page)
				}
				if sl.Page < 1 || sl.Page > last {
					t.Fatalf("Window(%d,%d): page %d out of range", current, last, sl.Page)
				}
				if sl.Page <= prev {
					t.Fatalf("Window(%d,%d): page %d not increasing (prev %d)", current, last, sl.Page, prev)
				}
				if sl.Page == current {
					sawCurrent = true
				}
				prev = sl.Page
			}
			if w[0].Page != 1 {
				t.Fatalf("Window(%d,%d): first slot is not page 1", current, last)
			}
			if w[len(w)-1].Page != last {
				t.Fatalf("Window(%d,%d): last slot is not page %d", current, last, last)
			}
			if !sawCurrent {
				t.Fatalf("Window(%d,%d): current page missing", current, last)
			}
		}
	}
}
