package routes

import (
	"github.com/go-chi/chi/v5"

	"Curio/internal/api/handlers/importer"
	"Curio/internal/api/middleware"
	"Curio/internal/core/boards"
	"Curio/internal/core/bulkimport"
)

// RegisterImportRoutes registers the bulk import endpoint.
func RegisterImportRoutes(r chi.Router, boardService boards.Service, processor *bulkimport.Processor, identity *middleware.Identity) {
	runHandler := importer.NewRunImportHandler(boardService, processor)

	r.With(identity.RequireUser).Post("/api/imports", runHandler.HandleRunImport)
}
