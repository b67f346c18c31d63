package usecase

import "catalogview-backend/internal/domain"

// maxPageButtons caps the numbered pagination buttons at 7; wider ranges
// get a 7-wide window centered on the current page.
const maxPageButtons = 7

// Paginate slices the filtered list into the requested page window and
// computes pagination metadata. The effective page is clamped into
// [1, totalPages] at computation time: a stale CurrentPage (e.g. after a
// page-size change or a shrinking filter) can never yield an empty window
// while results exist.
func Paginate(list []domain.Product, page, perPage int) domain.PageWindow {
	if perPage < 1 {
		perPage = 1
	}

	total := len(list)
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	items := make([]domain.Product, end-start)
	copy(items, list[start:end])

	first, last := 0, 0
	if len(items) > 0 {
		first, last = start+1, end
	}

	return domain.PageWindow{
		Items: items,
		Pagination: domain.Pagination{
			CurrentPage:    page,
			TotalPages:     totalPages,
			FirstItemIndex: first,
			LastItemIndex:  last,
			TotalItems:     total,
		},
		PageButtons:    PageButtons(page, totalPages),
		HasPrev:        page > 1,
		HasNext:        page < totalPages,
		ShowPagination: total > 0 && totalPages > 1,
	}
}

// PageButtons returns the numbered buttons to render: all pages when there
// are at most 7, otherwise a 7-wide window centered on current, clamped so
// it never starts below 1 or ends above total.
func PageButtons(current, total int) []int {
	count := total
	start := 1
	if total > maxPageButtons {
		count = maxPageButtons
		start = current - maxPageButtons/2
		if start < 1 {
			start = 1
		}
		if start > total-maxPageButtons+1 {
			start = total - maxPageButtons + 1
		}
	}

	buttons := make([]int, count)
	for i := range buttons {
		buttons[i] = start + i
	}
	return buttons
}
