package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"dropzone/internal/domain/dto"
	"dropzone/internal/usecases"
	"dropzone/pkg/errors"
)

type LinkHandler struct {
	registry usecases.LinkRegistry
}

func NewLinkHandler(registry usecases.LinkRegistry) *LinkHandler {
	return &LinkHandler{registry: registry}
}

// IssueLink
//
// @Summary      Issue Share Link
// @Description  Returns the active share link for a file, minting one if none exists; idempotent per file
// @Tags         Links
// @Accept       json
// @Produce      json
// @Param        request  body      dto.IssueLinkRequest true "Target file"
// @Success      200      {object}  dto.ShareLinkResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /links [post]
func (h *LinkHandler) IssueLink(c *fiber.Ctx) error {
	var req dto.IssueLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleError(c, errors.ErrPolicyViolation(err))
	}
	if req.FileID == "" {
		return errors.HandleError(c, errors.ErrPolicyViolation(fmt.Errorf("file_id is required")))
	}

	link, err := h.registry.Issue(c.UserContext(), req.FileID)
	if err != nil {
		return errors.HandleError(c, err)
	}
	return c.JSON(dto.ShareLinkResponse{
		ShortToken: link.ShortToken,
		FileID:     link.FileID,
		CreatedAt:  link.CreatedAt,
		ExpiresAt:  link.ExpiresAt,
	})
}

// ResolveLink
//
// @Summary      Resolve Share Link
// @Description  Redirects a short token to the file download
// @Tags         Links
// @Param        token  path  string true "Short token"
// @Success      302
// @Failure      404 {object} dto.ErrorResponse
// @Failure      410 {object} dto.ErrorResponse "Link expired"
// @Router       /links/{token} [get]
func (h *LinkHandler) ResolveLink(c *fiber.Ctx) error {
	file, err := h.registry.Resolve(c.UserContext(), c.Params("token"))
	if err != nil {
		return errors.HandleError(c, err)
	}
	return c.Redirect(fmt.Sprintf("/api/v1/files/%s/download", file.ID), fiber.StatusFound)
}

// ListLinks
//
// @Summary      List Share Links
// @Description  Lists issued links, including expired ones not yet reaped
// @Tags         Links
// @Produce      json
// @Success      200 {array} entities.ShareLink
// @Router       /links [get]
func (h *LinkHandler) ListLinks(c *fiber.Ctx) error {
	links, err := h.registry.List(c.UserContext())
	if err != nil {
		return errors.HandleError(c, err)
	}
	return c.JSON(links)
}

// RevokeLink
//
// @Summary      Revoke Share Link
// @Description  Invalidates a token immediately, regardless of its expiry
// @Tags         Links
// @Param        token  path  string true "Short token"
// @Success      204
// @Router       /links/{token} [delete]
func (h *LinkHandler) RevokeLink(c *fiber.Ctx) error {
	if err := h.registry.Revoke(c.UserContext(), c.Params("token")); err != nil {
		return errors.HandleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
