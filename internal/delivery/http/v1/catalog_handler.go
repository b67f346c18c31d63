package v1

import (
	"net/http"

	"catalogview-backend/internal/usecase"
	"catalogview-backend/pkg/utils"
)

type CatalogHandler struct {
	catalogUC *usecase.CatalogUsecase
}

func NewCatalogHandler(uc *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{catalogUC: uc}
}

// Load triggers a catalog (re)load from the remote data source. The store
// is replaced wholesale on success and untouched on failure; a load already
// in flight is rejected rather than queued.
func (h *CatalogHandler) Load(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogUC.Load(r.Context()); err != nil {
		writeUsecaseError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count": h.catalogUC.Count(),
	})
}

// GetCategories lists the distinct category names in the loaded catalog.
func (h *CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, h.catalogUC.Categories())
}
