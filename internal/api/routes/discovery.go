package routes

import (
	"github.com/go-chi/chi/v5"

	"Curio/internal/api/handlers/discovery"
	discoverycore "Curio/internal/core/discovery"
)

// RegisterDiscoveryRoutes registers the browse/search endpoints.
// These read upstream (through the cache) and never touch the store,
// so they don't require a caller identity.
func RegisterDiscoveryRoutes(r chi.Router, service discoverycore.Service) {
	searchHandler := discovery.NewSearchProfileHandler(service)
	listHandler := discovery.NewListPostsHandler(service)

	r.Get("/api/profiles/search", searchHandler.HandleSearchProfile)
	r.Get("/api/posts", listHandler.HandleListPosts)
}
