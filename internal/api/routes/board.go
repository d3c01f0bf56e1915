package routes

import (
	"github.com/go-chi/chi/v5"

	"Curio/internal/api/handlers/board"
	"Curio/internal/api/middleware"
	"Curio/internal/core/boards"
	"Curio/internal/core/ingestion"
)

// RegisterBoardRoutes registers board management and save endpoints.
// All of them act on the caller's own boards and require an identity.
func RegisterBoardRoutes(r chi.Router, boardService boards.Service, ingester ingestion.Service, identity *middleware.Identity) {
	createHandler := board.NewCreateBoardHandler(boardService)
	listHandler := board.NewListBoardsHandler(boardService)
	saveHandler := board.NewSavePostHandler(boardService, ingester)
	checkHandler := board.NewCheckPostHandler(boardService)

	r.With(identity.RequireUser).Post("/api/boards", createHandler.HandleCreateBoard)
	r.With(identity.RequireUser).Get("/api/boards", listHandler.HandleListBoards)
	r.With(identity.RequireUser).Post("/api/boards/{boardID}/posts", saveHandler.HandleSavePost)
	r.With(identity.RequireUser).Get("/api/posts/boards", checkHandler.HandleCheckPost)
}
