package domain

// --- View state ---

// CategoryAll is the sentinel category that disables category filtering.
const CategoryAll = "all"

type SortField string

const (
	SortNone  SortField = ""
	SortTitle SortField = "title"
	SortPrice SortField = "price"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ViewState is the set of user-controlled parameters driving the derived
// view. The filtered list and page window are always re-derivable from the
// catalog plus this state.
type ViewState struct {
	SelectedCategory string        `json:"selectedCategory"`
	SearchTerm       string        `json:"searchTerm"`
	SortField        SortField     `json:"sortField"`
	SortDirection    SortDirection `json:"sortDirection"`
	CurrentPage      int           `json:"currentPage"`
	ItemsPerPage     int           `json:"itemsPerPage"`
}

func NewViewState(itemsPerPage int) ViewState {
	return ViewState{
		SelectedCategory: CategoryAll,
		SortDirection:    SortAsc,
		CurrentPage:      1,
		ItemsPerPage:     itemsPerPage,
	}
}

// --- Derived view ---

// Pagination describes where the current window sits in the filtered list.
// Item indexes are 1-based; both are 0 when the window is empty.
type Pagination struct {
	CurrentPage    int `json:"currentPage"`
	TotalPages     int `json:"totalPages"`
	FirstItemIndex int `json:"firstItemIndex"`
	LastItemIndex  int `json:"lastItemIndex"`
	TotalItems     int `json:"totalCount"`
}

// PageWindow is the presentation contract: the visible slice of the
// filtered list plus everything the pagination controls need.
type PageWindow struct {
	Items       []Product  `json:"items"`
	Pagination  Pagination `json:"pagination"`
	PageButtons []int      `json:"pageButtons"`
	HasPrev     bool       `json:"hasPrev"`
	HasNext     bool       `json:"hasNext"`
	// ShowPagination is false when the filtered list fits on one page;
	// an empty list signals "no results" instead of a page UI.
	ShowPagination bool `json:"showPagination"`
}

// Editor identifies an authenticated catalog editor, reconstructed from
// token claims by the auth middleware.
type Editor struct {
	Subject string
	Role    string
}

type contextKey string

// EditorContextKey carries the *Editor through request contexts.
const EditorContextKey contextKey = "editor"
