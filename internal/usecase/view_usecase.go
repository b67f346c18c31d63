package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"catalogview-backend/config"
	"catalogview-backend/internal/domain"
	"catalogview-backend/pkg/cache"
	"catalogview-backend/pkg/logger"

	"github.com/google/uuid"
)

// ExportArchiver persists an export artifact and returns its public URL.
type ExportArchiver interface {
	UploadCSV(ctx context.Context, filename string, data []byte) (string, error)
}

// editSession tracks one open edit: the record being edited and whether a
// submission is currently in flight. Pointer identity doubles as the
// liveness check — a network result is committed only if the session that
// started it is still the active one.
type editSession struct {
	productID int
	inFlight  bool
}

// ViewSession is one client's ViewState plus its cached filtered list.
// The cache is never a second source of truth: it is re-derived from a
// catalog snapshot whenever the state changes or the store revision moves.
type ViewSession struct {
	ID string

	mu          sync.Mutex
	state       domain.ViewState
	filtered    []domain.Product
	filteredRev uint64
	stale       bool
	edit        *editSession
}

// ViewUsecase manages view sessions and drives the transform pipeline,
// paginator, edit synchronization, and exporter on their behalf.
type ViewUsecase struct {
	catalog  *CatalogUsecase
	sessions cache.CacheService
	archive  ExportArchiver
	cfg      *config.Config
}

// NewViewUsecase wires the session layer. archive may be nil when no export
// archive storage is configured.
func NewViewUsecase(catalog *CatalogUsecase, sessions cache.CacheService, archive ExportArchiver, cfg *config.Config) *ViewUsecase {
	return &ViewUsecase{
		catalog:  catalog,
		sessions: sessions,
		archive:  archive,
		cfg:      cfg,
	}
}

func sessionKey(id string) string { return "session:" + id }

// CreateSession opens a fresh view session with the default ViewState.
func (vu *ViewUsecase) CreateSession() *ViewSession {
	s := &ViewSession{
		ID:    uuid.New().String(),
		state: domain.NewViewState(vu.cfg.DefaultPageSize),
		stale: true,
	}
	vu.sessions.Set(sessionKey(s.ID), s, vu.cfg.SessionTTL)

	logger.Debug().Str("session_id", s.ID).Msg("View session created")
	return s
}

// lookup fetches a session and slides its TTL.
func (vu *ViewUsecase) lookup(id string) (*ViewSession, error) {
	val, found := vu.sessions.Get(sessionKey(id))
	if !found {
		return nil, domain.ErrSessionNotFound
	}
	s := val.(*ViewSession)
	vu.sessions.Set(sessionKey(id), s, vu.cfg.SessionTTL)
	return s, nil
}

// refreshLocked re-derives the filtered list when the state changed or the
// catalog moved on. Caller holds s.mu.
func (vu *ViewUsecase) refreshLocked(s *ViewSession) {
	if !s.stale && s.filteredRev == vu.catalog.Revision() {
		return
	}
	snapshot, rev := vu.catalog.Snapshot()
	s.filtered = ApplyView(snapshot, s.state)
	s.filteredRev = rev
	s.stale = false
}

// View returns the current state plus the derived page window.
func (vu *ViewUsecase) View(sessionID string) (domain.ViewState, domain.PageWindow, error) {
	s, err := vu.lookup(sessionID)
	if err != nil {
		return domain.ViewState{}, domain.PageWindow{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	vu.refreshLocked(s)
	return s.state, Paginate(s.filtered, s.state.CurrentPage, s.state.ItemsPerPage), nil
}

// --- ViewState mutators ---
// Category, search, and sort changes reset CurrentPage to 1; a page-size
// change deliberately does not (the paginator clamps the effective page
// instead, so the window stays non-empty).

func (vu *ViewUsecase) SetCategory(sessionID, category string) error {
	return vu.mutate(sessionID, func(s *ViewSession) error {
		if category == "" {
			category = domain.CategoryAll
		}
		s.state.SelectedCategory = category
		s.state.CurrentPage = 1
		s.stale = true
		return nil
	})
}

func (vu *ViewUsecase) SetSearch(sessionID, term string) error {
	return vu.mutate(sessionID, func(s *ViewSession) error {
		s.state.SearchTerm = term
		s.state.CurrentPage = 1
		s.stale = true
		return nil
	})
}

// ToggleSort applies the sort-control semantics: re-selecting the active
// field flips direction, selecting a new field resets it to ascending.
func (vu *ViewUsecase) ToggleSort(sessionID string, field domain.SortField) error {
	return vu.mutate(sessionID, func(s *ViewSession) error {
		if field == s.state.SortField {
			if s.state.SortDirection == domain.SortAsc {
				s.state.SortDirection = domain.SortDesc
			} else {
				s.state.SortDirection = domain.SortAsc
			}
		} else {
			s.state.SortField = field
			s.state.SortDirection = domain.SortAsc
		}
		s.state.CurrentPage = 1
		s.stale = true
		return nil
	})
}

// SetSort sets field and direction explicitly.
func (vu *ViewUsecase) SetSort(sessionID string, field domain.SortField, dir domain.SortDirection) error {
	return vu.mutate(sessionID, func(s *ViewSession) error {
		s.state.SortField = field
		s.state.SortDirection = dir
		s.state.CurrentPage = 1
		s.stale = true
		return nil
	})
}

func (vu *ViewUsecase) SetPage(sessionID string, page int) error {
	return vu.mutate(sessionID, func(s *ViewSession) error {
		if page < 1 {
			return domain.ErrInvalidPage
		}
		s.state.CurrentPage = page
		return nil
	})
}

func (vu *ViewUsecase) SetPageSize(sessionID string, size int) error {
	return vu.mutate(sessionID, func(s *ViewSession) error {
		if size < 1 {
			return domain.ErrInvalidPageSize
		}
		if size > vu.cfg.MaxPageSize {
			size = vu.cfg.MaxPageSize
		}
		s.state.ItemsPerPage = size
		return nil
	})
}

func (vu *ViewUsecase) mutate(sessionID string, fn func(s *ViewSession) error) error {
	s, err := vu.lookup(sessionID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

// --- Edit synchronization ---

// OpenEdit starts an edit session for the given product and returns a copy
// of the record to prefill the editable fields. Opening a new edit replaces
// a previously open one (its in-flight result, if any, will be discarded).
func (vu *ViewUsecase) OpenEdit(sessionID string, productID int) (*domain.Product, error) {
	s, err := vu.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	product, err := vu.catalog.GetProduct(productID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.edit = &editSession{productID: productID}
	s.mu.Unlock()

	return product, nil
}

// SubmitEdit sends the patch to the data source and, on success, applies
// the canonical merge to the DataStore entry and the session's filtered
// copy in one critical section — a reader can never observe one collection
// updated and the other stale. On failure neither collection changes and
// the edit session stays open for retry or cancel. A second submission
// while one is pending is rejected with ErrEditInFlight. A result arriving
// after the session was cancelled or replaced is discarded.
func (vu *ViewUsecase) SubmitEdit(ctx context.Context, sessionID string, patch domain.ProductPatch) (*domain.Product, error) {
	s, err := vu.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	attempt := s.edit
	if attempt == nil {
		s.mu.Unlock()
		return nil, domain.ErrNoEditOpen
	}
	if attempt.inFlight {
		s.mu.Unlock()
		return nil, domain.ErrEditInFlight
	}
	attempt.inFlight = true
	productID := attempt.productID
	s.mu.Unlock()

	// Suspension point: the lock is not held across the network call.
	canon, submitErr := vu.catalog.SubmitEdit(ctx, productID, patch)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.edit != attempt {
		// The user closed or replaced the edit session while the request
		// was in flight; its result must not touch any collection.
		logger.Warn().
			Str("session_id", sessionID).
			Int("product_id", productID).
			Msg("Discarding edit result for closed session")
		return nil, domain.ErrEditClosed
	}
	attempt.inFlight = false

	if submitErr != nil {
		return nil, submitErr
	}

	merged, rev, err := vu.catalog.CommitEdit(productID, *canon)
	if err != nil {
		return nil, err
	}

	// Patch the cached filtered copy in the same critical section. This is
	// only valid when the cache reflects the store the commit was applied
	// on top of; if a reload slipped in since the list was derived, the
	// list must be re-derived instead of stamped with the new revision.
	if s.filteredRev+1 == rev {
		for i := range s.filtered {
			if s.filtered[i].ID == productID {
				s.filtered[i] = merged
			}
		}
		s.filteredRev = rev
	} else {
		s.stale = true
	}

	s.edit = nil

	logger.Info().
		Str("session_id", sessionID).
		Int("product_id", productID).
		Msg("Product edit saved")
	return &merged, nil
}

// CancelEdit discards pending edits without any network call and returns
// the current record so the caller can restore the editable fields. The
// filtered copy is preferred over the store copy, matching what the edit
// form was opened from.
func (vu *ViewUsecase) CancelEdit(sessionID string) (*domain.Product, error) {
	s, err := vu.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.edit == nil {
		return nil, domain.ErrNoEditOpen
	}
	productID := s.edit.productID
	s.edit = nil

	for i := range s.filtered {
		if s.filtered[i].ID == productID {
			p := s.filtered[i]
			return &p, nil
		}
	}
	return vu.catalog.GetProduct(productID)
}

// --- Export ---

// Export renders the session's current page window as CSV. With archive
// set, the artifact is also uploaded to the configured object storage and
// its public URL returned. An empty window yields ErrExportNoData, which
// callers surface as a silent no-op.
func (vu *ViewUsecase) Export(ctx context.Context, sessionID string, archive bool, now time.Time) (*ExportArtifact, string, error) {
	s, err := vu.lookup(sessionID)
	if err != nil {
		return nil, "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	vu.refreshLocked(s)
	artifact, err := ExportCSV(s.filtered, s.state.CurrentPage, s.state.ItemsPerPage, now)
	if err != nil {
		return nil, "", err
	}

	url := ""
	if archive {
		if vu.archive == nil {
			return nil, "", fmt.Errorf("export archive storage is not configured")
		}
		url, err = vu.archive.UploadCSV(ctx, artifact.Filename, artifact.Content)
		if err != nil {
			logger.Error().Err(err).Str("filename", artifact.Filename).Msg("Export archive upload failed")
			return nil, "", err
		}
	}

	return artifact, url, nil
}
