package board

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"Curio/internal/api/handlers"
	"Curio/internal/api/middleware"
	"Curio/internal/core/boards"
	"Curio/internal/core/ingestion"
	"Curio/internal/core/posts"
	"Curio/internal/core/profiles"
)

// SavePostHandler saves a post to one of the caller's boards
type SavePostHandler struct {
	boards   boards.Service
	ingester ingestion.Service
}

// NewSavePostHandler creates a new save-post handler
func NewSavePostHandler(boardService boards.Service, ingester ingestion.Service) *SavePostHandler {
	return &SavePostHandler{boards: boardService, ingester: ingester}
}

// savePostRequest accepts either a public post URL (resolved through the
// upstream provider) or an already-normalized post with its author, as
// produced by the listing endpoint.
type savePostRequest struct {
	SourceURL string            `json:"sourceUrl,omitempty"`
	Post      *posts.Post       `json:"post,omitempty"`
	Profile   *profiles.Profile `json:"profile,omitempty"`
}

// HandleSavePost ingests a post into the caller's board
// POST /api/boards/{boardID}/posts
//
// Saving a post the board already contains is a 200 with
// alreadyExists=true, never an error.
func (h *SavePostHandler) HandleSavePost(w http.ResponseWriter, r *http.Request) {
	boardID, err := strconv.ParseInt(chi.URLParam(r, "boardID"), 10, 64)
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid board ID")
		return
	}

	var req savePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}
	if req.SourceURL == "" && req.Post == nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "sourceUrl or post is required")
		return
	}

	callerID := middleware.GetUserID(r)

	if _, err := h.boards.GetOwnedBoard(r.Context(), boardID, callerID); err != nil {
		handleServiceError(w, err)
		return
	}

	var result *ingestion.SaveResult
	if req.SourceURL != "" {
		result, err = h.ingester.SavePost(r.Context(), req.SourceURL, boardID, callerID)
	} else {
		result, err = h.ingester.Ingest(r.Context(), req.Post, req.Profile, boardID, callerID)
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Printf("Failed to encode save response: %v", err)
	}
}
