package board

import (
	"encoding/json"
	"log"
	"net/http"

	"Curio/internal/api/middleware"
	"Curio/internal/core/boards"
)

// ListBoardsHandler lists the caller's boards
type ListBoardsHandler struct {
	service boards.Service
}

// NewListBoardsHandler creates a new board listing handler
func NewListBoardsHandler(service boards.Service) *ListBoardsHandler {
	return &ListBoardsHandler{service: service}
}

// HandleListBoards returns the caller's boards, newest first
// GET /api/boards
func (h *ListBoardsHandler) HandleListBoards(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserID(r)

	result, err := h.service.ListBoards(r.Context(), ownerID)
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
	}); err != nil {
		log.Printf("Failed to encode boards response: %v", err)
	}
}
