package board

import (
	"encoding/json"
	"log"
	"net/http"

	"Curio/internal/api/handlers"
	"Curio/internal/api/middleware"
	"Curio/internal/core/boards"
)

// CreateBoardHandler handles board creation
type CreateBoardHandler struct {
	service boards.Service
}

// NewCreateBoardHandler creates a new board creation handler
func NewCreateBoardHandler(service boards.Service) *CreateBoardHandler {
	return &CreateBoardHandler{service: service}
}

// HandleCreateBoard creates a board for the caller
// POST /api/boards
//
// Request body: { "name": "Inspiration" }
func (h *CreateBoardHandler) HandleCreateBoard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	ownerID := middleware.GetUserID(r)

	board, err := h.service.CreateBoard(r.Context(), ownerID, req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(board); err != nil {
		log.Printf("Failed to encode board response: %v", err)
	}
}
