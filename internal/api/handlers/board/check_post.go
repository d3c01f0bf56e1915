package board

import (
	"encoding/json"
	"log"
	"net/http"

	"Curio/internal/api/handlers"
	"Curio/internal/api/middleware"
	"Curio/internal/core/boards"
	"Curio/internal/core/posts"
)

// CheckPostHandler reports which of the caller's boards contain a post
type CheckPostHandler struct {
	service boards.Service
}

// NewCheckPostHandler creates a new post membership handler
func NewCheckPostHandler(service boards.Service) *CheckPostHandler {
	return &CheckPostHandler{service: service}
}

// HandleCheckPost answers "is this post already saved, and where"
// GET /api/posts/boards?platformPostId=...&platform=...&sourceUrl=...
//
// The lookup resolves both identifier generations, so a legacy composite
// ID with a sourceUrl still matches a post stored under its shortcode.
// An unknown post yields an empty list, not a 404.
func (h *CheckPostHandler) HandleCheckPost(w http.ResponseWriter, r *http.Request) {
	platformPostID := r.URL.Query().Get("platformPostId")
	if platformPostID == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "platformPostId is required")
		return
	}

	platform := posts.Platform(r.URL.Query().Get("platform"))
	sourceURL := r.URL.Query().Get("sourceUrl")
	ownerID := middleware.GetUserID(r)

	result, err := h.service.CheckPostInBoards(r.Context(), platformPostID, sourceURL, platform, ownerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if result == nil {
		result = []*boards.Board{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"boards": result,
		"saved":  len(result) > 0,
	}); err != nil {
		log.Printf("Failed to encode membership response: %v", err)
	}
}
