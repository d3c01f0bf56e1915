package importer

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"Curio/internal/api/handlers"
	"Curio/internal/api/middleware"
	"Curio/internal/core/boards"
	"Curio/internal/core/bulkimport"
)

// maxImportBatch caps one import run; larger lists should be split by
// the caller using startIndex.
const maxImportBatch = 200

// RunImportHandler drives a bulk import run
type RunImportHandler struct {
	boards    boards.Service
	processor *bulkimport.Processor
}

// NewRunImportHandler creates a new bulk import handler
func NewRunImportHandler(boardService boards.Service, processor *bulkimport.Processor) *RunImportHandler {
	return &RunImportHandler{boards: boardService, processor: processor}
}

type runImportRequest struct {
	SourceURLs []string `json:"sourceUrls"`
	BoardID    int64    `json:"boardId"`
	StartIndex int      `json:"startIndex"`
}

// HandleRunImport runs a sequential import of source URLs into a board
// POST /api/imports
//
// The run is synchronous: the response is the full Summary. A partial
// run (client disconnect) can be resumed by passing the last logged
// index as startIndex.
func (h *RunImportHandler) HandleRunImport(w http.ResponseWriter, r *http.Request) {
	var req runImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}
	if len(req.SourceURLs) == 0 {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "sourceUrls is required")
		return
	}
	if len(req.SourceURLs) > maxImportBatch {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "too many sourceUrls in one run")
		return
	}

	callerID := middleware.GetUserID(r)

	if _, err := h.boards.GetOwnedBoard(r.Context(), req.BoardID, callerID); err != nil {
		handleBoardError(w, err)
		return
	}

	summary, err := h.processor.Run(r.Context(), req.SourceURLs, req.BoardID, callerID, req.StartIndex)
	if err != nil && summary == nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}
	// A cancelled run still reports the partial summary

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summary); err != nil {
		log.Printf("Failed to encode import summary: %v", err)
	}
}

func handleBoardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, boards.ErrBoardNotFound):
		handlers.WriteError(w, http.StatusNotFound, "BoardNotFound", "Board not found")
	case errors.Is(err, boards.ErrNotBoardOwner):
		handlers.WriteError(w, http.StatusForbidden, "Forbidden", "Board belongs to another user")
	default:
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "An internal error occurred")
	}
}
