package usecase

import (
	"fmt"
	"testing"

	"catalogview-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func fixtureList(n int) []domain.Product {
	out := make([]domain.Product, n)
	for i := range out {
		out[i] = prod(i+1, fmt.Sprintf("product %d", i+1), float64(i+1), "misc")
	}
	return out
}

func TestPaginateWindows(t *testing.T) {
	tests := []struct {
		name       string
		length     int
		page       int
		perPage    int
		wantIDs    []int
		wantPage   int
		wantTotal  int
		wantFirst  int
		wantLast   int
		wantPrev   bool
		wantNext   bool
		wantShown  bool
	}{
		{
			name: "empty list", length: 0, page: 1, perPage: 10,
			wantIDs: nil, wantPage: 1, wantTotal: 1, wantFirst: 0, wantLast: 0,
			wantPrev: false, wantNext: false, wantShown: false,
		},
		{
			name: "single short page", length: 5, page: 1, perPage: 10,
			wantIDs: []int{1, 2, 3, 4, 5}, wantPage: 1, wantTotal: 1,
			wantFirst: 1, wantLast: 5, wantPrev: false, wantNext: false, wantShown: false,
		},
		{
			name: "middle page", length: 25, page: 2, perPage: 10,
			wantIDs: []int{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, wantPage: 2,
			wantTotal: 3, wantFirst: 11, wantLast: 20, wantPrev: true, wantNext: true, wantShown: true,
		},
		{
			name: "last partial page", length: 25, page: 3, perPage: 10,
			wantIDs: []int{21, 22, 23, 24, 25}, wantPage: 3, wantTotal: 3,
			wantFirst: 21, wantLast: 25, wantPrev: true, wantNext: false, wantShown: true,
		},
		{
			name: "page past the end clamps to last", length: 25, page: 9, perPage: 10,
			wantIDs: []int{21, 22, 23, 24, 25}, wantPage: 3, wantTotal: 3,
			wantFirst: 21, wantLast: 25, wantPrev: true, wantNext: false, wantShown: true,
		},
		{
			name: "page below one clamps to first", length: 25, page: 0, perPage: 10,
			wantIDs: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, wantPage: 1, wantTotal: 3,
			wantFirst: 1, wantLast: 10, wantPrev: false, wantNext: true, wantShown: true,
		},
		{
			name: "exact multiple", length: 20, page: 2, perPage: 10,
			wantIDs: []int{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, wantPage: 2,
			wantTotal: 2, wantFirst: 11, wantLast: 20, wantPrev: true, wantNext: false, wantShown: true,
		},
		{
			name: "page size one", length: 3, page: 2, perPage: 1,
			wantIDs: []int{2}, wantPage: 2, wantTotal: 3,
			wantFirst: 2, wantLast: 2, wantPrev: true, wantNext: true, wantShown: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Paginate(fixtureList(tt.length), tt.page, tt.perPage)

			assert.Equal(t, tt.wantIDs, idsOrNil(w.Items))
			assert.Equal(t, tt.wantPage, w.Pagination.CurrentPage)
			assert.Equal(t, tt.wantTotal, w.Pagination.TotalPages)
			assert.Equal(t, tt.wantFirst, w.Pagination.FirstItemIndex)
			assert.Equal(t, tt.wantLast, w.Pagination.LastItemIndex)
			assert.Equal(t, tt.length, w.Pagination.TotalItems)
			assert.Equal(t, tt.wantPrev, w.HasPrev)
			assert.Equal(t, tt.wantNext, w.HasNext)
			assert.Equal(t, tt.wantShown, w.ShowPagination)
		})
	}
}

func TestPaginateWindowLengthProperty(t *testing.T) {
	// window length = min(P, L - (page-1)*P) for every reachable page
	for _, length := range []int{0, 1, 9, 10, 11, 25, 100} {
		for _, perPage := range []int{1, 3, 10, 25} {
			list := fixtureList(length)
			totalPages := (length + perPage - 1) / perPage
			if totalPages < 1 {
				totalPages = 1
			}
			for page := 1; page <= totalPages; page++ {
				w := Paginate(list, page, perPage)

				want := length - (page-1)*perPage
				if want > perPage {
					want = perPage
				}
				if want < 0 {
					want = 0
				}
				assert.Len(t, w.Items, want, "L=%d P=%d page=%d", length, perPage, page)
				assert.Equal(t, totalPages, w.Pagination.TotalPages)
			}
		}
	}
}

func TestPaginateCopiesWindow(t *testing.T) {
	list := fixtureList(5)
	w := Paginate(list, 1, 3)

	w.Items[0].Title = "mutated"
	assert.Equal(t, "product 1", list[0].Title)
}

func TestPageButtons(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    []int
	}{
		{"all pages fit", 1, 5, []int{1, 2, 3, 4, 5}},
		{"exactly seven", 4, 7, []int{1, 2, 3, 4, 5, 6, 7}},
		{"window clamped at start", 2, 20, []int{1, 2, 3, 4, 5, 6, 7}},
		{"window centered", 10, 20, []int{7, 8, 9, 10, 11, 12, 13}},
		{"window clamped at end", 19, 20, []int{14, 15, 16, 17, 18, 19, 20}},
		{"single page", 1, 1, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageButtons(tt.current, tt.total))
		})
	}
}
