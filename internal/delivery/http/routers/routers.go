package routers

import (
	"github.com/gofiber/fiber/v2"

	"dropzone/internal/delivery/http/handlers"
	"dropzone/internal/usecases"
)

// Setup wires the REST surface under /api/v1.
func Setup(app *fiber.App, coordinator usecases.Coordinator, registry usecases.LinkRegistry, files usecases.FileService) {
	sessionHandler := handlers.NewSessionHandler(coordinator)
	linkHandler := handlers.NewLinkHandler(registry)
	fileHandler := handlers.NewFileHandler(files)

	api := app.Group("/api/v1")

	api.Post("/sessions", sessionHandler.CreateSession)
	api.Put("/sessions/:id/chunks", sessionHandler.UploadChunk)
	api.Post("/sessions/:id/finalize", sessionHandler.Finalize)
	api.Delete("/sessions/:id", sessionHandler.Abort)
	api.Get("/sessions/:id", sessionHandler.Status)

	api.Post("/links", linkHandler.IssueLink)
	api.Get("/links", linkHandler.ListLinks)
	api.Get("/links/:token", linkHandler.ResolveLink)
	api.Delete("/links/:token", linkHandler.RevokeLink)

	api.Get("/files", fileHandler.ListFiles)
	api.Get("/files/stats", fileHandler.FileStats)
	api.Get("/files/:id", fileHandler.GetFile)
	api.Get("/files/:id/download", fileHandler.DownloadFile)
	api.Delete("/files/:id", fileHandler.DeleteFile)
}
