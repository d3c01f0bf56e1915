package discovery

import (
	"encoding/json"
	"log"
	"net/http"

	"Curio/internal/api/handlers"
	"Curio/internal/core/discovery"
	"Curio/internal/core/posts"
)

// SearchProfileHandler resolves creator profiles by handle
type SearchProfileHandler struct {
	service discovery.Service
}

// NewSearchProfileHandler creates a new profile search handler
func NewSearchProfileHandler(service discovery.Service) *SearchProfileHandler {
	return &SearchProfileHandler{service: service}
}

// HandleSearchProfile looks a handle up on a platform
// GET /api/profiles/search?handle=...&platform=instagram|tiktok
func (h *SearchProfileHandler) HandleSearchProfile(w http.ResponseWriter, r *http.Request) {
	handle := r.URL.Query().Get("handle")
	if handle == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "handle is required")
		return
	}

	platform := posts.Platform(r.URL.Query().Get("platform"))
	if !platform.IsValid() {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "platform must be 'instagram' or 'tiktok'")
		return
	}

	result, err := h.service.SearchProfile(r.Context(), handle, platform)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Printf("Failed to encode profile response: %v", err)
	}
}
