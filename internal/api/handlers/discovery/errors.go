package discovery

import (
	"errors"
	"net/http"

	"Curio/internal/api/handlers"
	"Curio/internal/core/posts"
	"Curio/internal/core/profiles"
	"Curio/internal/scrape"
)

// handleServiceError maps discovery service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, profiles.ErrProfileNotFound):
		handlers.WriteError(w, http.StatusNotFound, "ProfileNotFound", "Profile not found")
	case errors.Is(err, posts.ErrInvalidPlatform):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "platform must be 'instagram' or 'tiktok'")
	case errors.Is(err, scrape.ErrCircuitOpen):
		handlers.WriteError(w, http.StatusServiceUnavailable, "UpstreamUnavailable", "Upstream provider temporarily unavailable")
	case scrape.IsFetchError(err):
		handlers.WriteError(w, http.StatusBadGateway, "UpstreamError", "Upstream provider request failed")
	default:
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "An internal error occurred")
	}
}
