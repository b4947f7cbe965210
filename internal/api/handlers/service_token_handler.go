package handlers

import (
	"net/http"

	"mysre-api/internal/services"
)

// ServiceTokenHandler rotates the credential the external billing-cycle
// job presents on the X-Service-Token header.
type ServiceTokenHandler struct {
	tokenService services.ServiceTokenService
}

func NewServiceTokenHandler(tokenService services.ServiceTokenService) *ServiceTokenHandler {
	return &ServiceTokenHandler{tokenService: tokenService}
}

// IssueToken - admin-only; previously issued tokens age out after a grace
// window, so callers should switch to the new token promptly
func (h *ServiceTokenHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.tokenService.IssueToken()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"token":   token,
	})
}
