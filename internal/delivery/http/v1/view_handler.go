package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"catalogview-backend/internal/domain"
	"catalogview-backend/internal/usecase"
	"catalogview-backend/pkg/logger"
	"catalogview-backend/pkg/utils"

	"github.com/goccy/go-json"
)

type ViewHandler struct {
	viewUC *usecase.ViewUsecase
}

func NewViewHandler(uc *usecase.ViewUsecase) *ViewHandler {
	return &ViewHandler{viewUC: uc}
}

// CreateSession opens a view session with the default ViewState.
func (h *ViewHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.viewUC.CreateSession()

	state, window, err := h.viewUC.View(s.ID)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"sessionId": s.ID,
		"state":     state,
		"view":      window,
	})
}

// GetView returns the current page window plus pagination metadata.
func (h *ViewHandler) GetView(w http.ResponseWriter, r *http.Request) {
	state, window, err := h.viewUC.View(r.PathValue("id"))
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"state": state,
		"view":  window,
	})
}

// --- ViewState mutators ---
// Each mutator responds with the freshly derived view so the client never
// renders against stale pagination.

func (h *ViewHandler) SetCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	h.applyMutation(w, r, h.viewUC.SetCategory(r.PathValue("id"), req.Category))
}

func (h *ViewHandler) SetSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Term string `json:"term"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	h.applyMutation(w, r, h.viewUC.SetSearch(r.PathValue("id"), req.Term))
}

// SetSort toggles when only a field is given (same field flips direction,
// new field starts ascending) and sets explicitly when a direction is too.
func (h *ViewHandler) SetSort(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Field     string `json:"field"`
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	field, ok := parseSortField(req.Field)
	if !ok {
		utils.WriteError(w, http.StatusBadRequest, "Unknown sort field")
		return
	}

	var err error
	switch {
	case field == domain.SortNone:
		// Clearing the sort is an explicit set; there is no direction to
		// toggle on an unsorted view.
		err = h.viewUC.SetSort(r.PathValue("id"), field, domain.SortAsc)
	case req.Direction == "":
		err = h.viewUC.ToggleSort(r.PathValue("id"), field)
	case req.Direction == string(domain.SortAsc), req.Direction == string(domain.SortDesc):
		err = h.viewUC.SetSort(r.PathValue("id"), field, domain.SortDirection(req.Direction))
	default:
		utils.WriteError(w, http.StatusBadRequest, "Unknown sort direction")
		return
	}

	h.applyMutation(w, r, err)
}

func (h *ViewHandler) SetPage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Page int `json:"page"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	h.applyMutation(w, r, h.viewUC.SetPage(r.PathValue("id"), req.Page))
}

func (h *ViewHandler) SetPageSize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Size int `json:"size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	h.applyMutation(w, r, h.viewUC.SetPageSize(r.PathValue("id"), req.Size))
}

func (h *ViewHandler) applyMutation(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	state, window, err := h.viewUC.View(r.PathValue("id"))
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"state": state,
		"view":  window,
	})
}

// --- Edit session ---

func (h *ViewHandler) OpenEdit(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(r.PathValue("productId"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := h.viewUC.OpenEdit(r.PathValue("id"), productID)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, product)
}

func (h *ViewHandler) SubmitEdit(w http.ResponseWriter, r *http.Request) {
	var patch domain.ProductPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if patch.Price != nil && *patch.Price < 0 {
		utils.WriteError(w, http.StatusBadRequest, "Price must be non-negative")
		return
	}

	merged, err := h.viewUC.SubmitEdit(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	if editor, ok := r.Context().Value(domain.EditorContextKey).(*domain.Editor); ok {
		logger.Info().
			Str("editor", editor.Subject).
			Int("product_id", merged.ID).
			Msg("Product edit saved by editor")
	}

	utils.WriteJSON(w, http.StatusOK, merged)
}

func (h *ViewHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	product, err := h.viewUC.CancelEdit(r.PathValue("id"))
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, product)
}

// --- Export ---

// Export serves the current page window as a CSV download. An empty window
// is a silent no-op (204), not an error. With ?archive=true the artifact is
// also persisted to object storage and its URL returned as JSON.
func (h *ViewHandler) Export(w http.ResponseWriter, r *http.Request) {
	archive, _ := strconv.ParseBool(r.URL.Query().Get("archive"))

	artifact, url, err := h.viewUC.Export(r.Context(), r.PathValue("id"), archive, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrExportNoData) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeUsecaseError(w, err)
		return
	}

	if archive {
		utils.WriteJSON(w, http.StatusOK, map[string]string{
			"filename": artifact.Filename,
			"url":      url,
		})
		return
	}

	utils.WriteCSV(w, artifact.Filename, artifact.Content)
}

func parseSortField(raw string) (domain.SortField, bool) {
	switch raw {
	case "", "none":
		return domain.SortNone, true
	case string(domain.SortTitle):
		return domain.SortTitle, true
	case string(domain.SortPrice):
		return domain.SortPrice, true
	}
	return domain.SortNone, false
}

// writeUsecaseError maps the error taxonomy onto HTTP statuses: lookup
// misses to 404, guard rejections to 409, invalid parameters to 400, and
// upstream load/edit failures to 502.
func writeUsecaseError(w http.ResponseWriter, err error) {
	var loadErr *domain.LoadError
	var editErr *domain.EditError

	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrProductNotFound):
		utils.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrLoadInProgress),
		errors.Is(err, domain.ErrEditInFlight),
		errors.Is(err, domain.ErrNoEditOpen),
		errors.Is(err, domain.ErrEditClosed):
		utils.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidPage),
		errors.Is(err, domain.ErrInvalidPageSize):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &loadErr), errors.As(err, &editErr):
		utils.WriteError(w, http.StatusBadGateway, err.Error())
	default:
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
