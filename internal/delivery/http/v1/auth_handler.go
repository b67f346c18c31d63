package v1

import (
	"net/http"

	"catalogview-backend/config"
	"catalogview-backend/pkg/utils"

	"github.com/goccy/go-json"
)

type AuthHandler struct {
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// IssueToken exchanges the admin API key for an editor token. The edit
// endpoints are the only authenticated surface; browsing needs no token.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	if h.cfg.AdminAPIKey == "" {
		utils.WriteError(w, http.StatusServiceUnavailable, "Token issuance is not configured")
		return
	}

	var req struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if req.Key != h.cfg.AdminAPIKey {
		utils.WriteError(w, http.StatusUnauthorized, "Invalid API key")
		return
	}

	token, err := utils.GenerateJWT("admin", "editor", h.cfg.AccessTokenExpiry)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"token":     token,
		"expiresIn": int(h.cfg.AccessTokenExpiry.Seconds()),
	})
}
