package utils

import "testing"

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name      string
		pageStr   string
		limitStr  string
		wantPage  int
		wantLimit int
	}{
		{"defaults on empty", "", "", 1, 10},
		{"valid values", "3", "25", 3, 25},
		{"zero page falls back", "0", "25", 1, 25},
		{"negative limit falls back", "2", "-5", 2, 10},
		{"garbage falls back", "abc", "xyz", 1, 10},
		{"limit capped", "1", "5000", 1, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.pageStr, tt.limitStr)
			if p.Page != tt.wantPage || p.Limit != tt.wantLimit {
				t.Errorf("got page=%d limit=%d, want page=%d limit=%d",
					p.Page, p.Limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestPaginationSkip(t *testing.T) {
	p := Pagination{Page: 4, Limit: 25}
	if got := p.Skip(); got != 75 {
		t.Errorf("Skip() = %d, want 75", got)
	}
	if got := p.PageSize(); got != 25 {
		t.Errorf("PageSize() = %d, want 25", got)
	}
}

func TestPaginationMeta(t *testing.T) {
	p := Pagination{Page: 2, Limit: 10}

	meta := p.Meta(35)
	if meta["totalPages"].(int64) != 4 {
		t.Errorf("totalPages = %v, want 4", meta["totalPages"])
	}
	if meta["total"].(int64) != 35 {
		t.Errorf("total = %v, want 35", meta["total"])
	}

	meta = p.Meta(30)
	if meta["totalPages"].(int64) != 3 {
		t.Errorf("totalPages = %v, want 3 for exact multiple", meta["totalPages"])
	}

	meta = p.Meta(0)
	if meta["totalPages"].(int64) != 0 {
		t.Errorf("totalPages = %v, want 0 for empty listing", meta["totalPages"])
	}
}
