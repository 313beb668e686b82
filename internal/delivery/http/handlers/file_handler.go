package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"dropzone/internal/usecases"
	"dropzone/pkg/errors"
)

type FileHandler struct {
	files usecases.FileService
}

func NewFileHandler(files usecases.FileService) *FileHandler {
	return &FileHandler{files: files}
}

// ListFiles
//
// @Summary      List Files
// @Description  Lists stored files, newest first
// @Tags         Files
// @Produce      json
// @Success      200 {array} entities.StoredFile
// @Router       /files [get]
func (h *FileHandler) ListFiles(c *fiber.Ctx) error {
	files, err := h.files.List(c.UserContext())
	if err != nil {
		return errors.HandleError(c, err)
	}
	return c.JSON(files)
}

// GetFile
//
// @Summary      Get File
// @Tags         Files
// @Produce      json
// @Param        id  path      string true "File ID"
// @Success      200 {object}  entities.StoredFile
// @Failure      404 {object}  dto.ErrorResponse
// @Router       /files/{id} [get]
func (h *FileHandler) GetFile(c *fiber.Ctx) error {
	file, err := h.files.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return errors.HandleError(c, err)
	}
	return c.JSON(file)
}

// DownloadFile
//
// @Summary      Download File
// @Description  Streams the stored bytes of a finalized upload
// @Tags         Files
// @Produce      application/octet-stream
// @Param        id  path  string true "File ID"
// @Success      200
// @Failure      404 {object} dto.ErrorResponse
// @Router       /files/{id}/download [get]
func (h *FileHandler) DownloadFile(c *fiber.Ctx) error {
	file, rc, err := h.files.Download(c.UserContext(), c.Params("id"))
	if err != nil {
		return errors.HandleError(c, err)
	}

	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Name))
	return c.SendStream(rc, int(file.Size))
}

// DeleteFile
//
// @Summary      Delete File
// @Description  Removes the blob, its metadata, and any share links pointing at it
// @Tags         Files
// @Param        id  path  string true "File ID"
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Router       /files/{id} [delete]
func (h *FileHandler) DeleteFile(c *fiber.Ctx) error {
	if err := h.files.Delete(c.UserContext(), c.Params("id")); err != nil {
		return errors.HandleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// FileStats
//
// @Summary      Storage Stats
// @Description  Returns the total count and byte size of stored files
// @Tags         Files
// @Produce      json
// @Success      200 {object} entities.FileStats
// @Router       /files/stats [get]
func (h *FileHandler) FileStats(c *fiber.Ctx) error {
	stats, err := h.files.Stats(c.UserContext())
	if err != nil {
		return errors.HandleError(c, err)
	}
	return c.JSON(stats)
}
