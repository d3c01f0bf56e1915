package board

import (
	"errors"
	"net/http"

	"Curio/internal/api/handlers"
	"Curio/internal/core/boards"
	"Curio/internal/core/posts"
	"Curio/internal/scrape"
)

// handleServiceError maps board/ingestion errors to HTTP responses.
// The duplicate-membership condition is handled by callers before this
// point; it is a 200, not an error.
func handleServiceError(w http.ResponseWriter, err error) {
	var valErr *boards.ValidationError

	switch {
	case errors.As(err, &valErr):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", valErr.Message)
	case errors.Is(err, boards.ErrBoardNotFound):
		handlers.WriteError(w, http.StatusNotFound, "BoardNotFound", "Board not found")
	case errors.Is(err, boards.ErrNotBoardOwner):
		handlers.WriteError(w, http.StatusForbidden, "Forbidden", "Board belongs to another user")
	case errors.Is(err, posts.ErrInvalidPlatform):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "platform must be 'instagram' or 'tiktok'")
	case scrape.IsTransformError(err):
		handlers.WriteError(w, http.StatusUnprocessableEntity, "TransformFailed", err.Error())
	case errors.Is(err, scrape.ErrCircuitOpen):
		handlers.WriteError(w, http.StatusServiceUnavailable, "UpstreamUnavailable", "Upstream provider temporarily unavailable")
	case scrape.IsFetchError(err):
		handlers.WriteError(w, http.StatusBadGateway, "UpstreamError", "Upstream provider request failed")
	default:
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "An internal error occurred")
	}
}
