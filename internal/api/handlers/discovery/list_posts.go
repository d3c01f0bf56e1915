package discovery

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"Curio/internal/api/handlers"
	"Curio/internal/core/discovery"
	"Curio/internal/core/posts"
)

// ListPostsHandler serves paginated creator listings
type ListPostsHandler struct {
	service discovery.Service
}

// NewListPostsHandler creates a new post listing handler
func NewListPostsHandler(service discovery.Service) *ListPostsHandler {
	return &ListPostsHandler{service: service}
}

// HandleListPosts fetches one page of a handle's posts
// GET /api/posts?handle=...&platform=...&pageSize=12&cursor=...
//
// An empty cursor requests the first page. The response cursor must be
// passed back verbatim to continue; when hasMore is false there is
// nothing left to load.
func (h *ListPostsHandler) HandleListPosts(w http.ResponseWriter, r *http.Request) {
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

	pageSize := 0
	if raw := r.URL.Query().Get("pageSize"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 50 {
			handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "pageSize must be between 1 and 50")
			return
		}
		pageSize = parsed
	}

	cursor := r.URL.Query().Get("cursor")

	page, err := h.service.ListPosts(r.Context(), handle, platform, pageSize, cursor)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(page); err != nil {
		log.Printf("Failed to encode listing response: %v", err)
	}
}
