package usecase

import (
	"sort"
	"strings"

	"catalogview-backend/internal/domain"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ApplyView runs the pure transform pipeline: category filter, then search
// filter, then sort. It never mutates its input and always returns a fresh
// slice, so the result is re-derivable from the catalog plus the state at
// any time.
func ApplyView(products []domain.Product, state domain.ViewState) []domain.Product {
	filtered := filterProducts(products, state)
	sortProducts(filtered, state.SortField, state.SortDirection)
	return filtered
}

func filterProducts(products []domain.Product, state domain.ViewState) []domain.Product {
	byCategory := state.SelectedCategory != "" && !strings.EqualFold(state.SelectedCategory, domain.CategoryAll)
	term := strings.ToLower(state.SearchTerm)

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		// A product without a category matches only "all".
		if byCategory && !strings.EqualFold(p.CategoryName(), state.SelectedCategory) {
			continue
		}
		if term != "" {
			title := strings.ToLower(p.Title)
			category := strings.ToLower(p.CategoryName())
			if !strings.Contains(title, term) && !strings.Contains(category, term) {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// sortProducts orders in place. Descending reverses the comparator rather
// than the output, so equal elements keep their stable tie-break order.
func sortProducts(products []domain.Product, field domain.SortField, dir domain.SortDirection) {
	var less func(a, b domain.Product) bool

	switch field {
	case domain.SortTitle:
		// Locale-aware, case-insensitive collation. Collators are not
		// safe for concurrent use, so build one per sort.
		col := collate.New(language.Und, collate.Loose)
		less = func(a, b domain.Product) bool {
			return col.CompareString(a.Title, b.Title) < 0
		}
	case domain.SortPrice:
		less = func(a, b domain.Product) bool {
			return a.PriceOrZero() < b.PriceOrZero()
		}
	default:
		// SortNone preserves catalog order.
		return
	}

	if dir == domain.SortDesc {
		asc := less
		less = func(a, b domain.Product) bool { return asc(b, a) }
	}

	sort.SliceStable(products, func(i, j int) bool {
		return less(products[i], products[j])
	})
}
