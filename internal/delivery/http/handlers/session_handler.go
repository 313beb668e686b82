package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"dropzone/internal/domain/dto"
	"dropzone/internal/usecases"
	"dropzone/pkg/errors"
)

type SessionHandler struct {
	coordinator usecases.Coordinator
}

func NewSessionHandler(coordinator usecases.Coordinator) *SessionHandler {
	return &SessionHandler{coordinator: coordinator}
}

// CreateSession
//
// @Summary      Create Upload Session
// @Description  Opens a resumable upload session for one file
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        request  body      dto.CreateSessionRequest true "Session metadata"
// @Success      201      {object}  dto.CreateSessionResponse
// @Failure      400      {object}  dto.ErrorResponse "Policy violation"
// @Failure      429      {object}  dto.ErrorResponse "Too many concurrent sessions"
// @Router       /sessions [post]
func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleError(c, errors.ErrPolicyViolation(err))
	}

	session, err := h.coordinator.CreateSession(c.UserContext(), req)
	if err != nil {
		return errors.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateSessionResponse{SessionID: session.ID})
}

// UploadChunk
//
// @Summary      Upload Chunk
// @Description  Stores one byte range of the session's file; ranges may arrive in any order but must not overlap
// @Tags         Sessions
// @Accept       application/octet-stream
// @Produce      json
// @Param        id        path      string true  "Session ID"
// @Param        start     query     int    true  "Range start (inclusive)"
// @Param        end       query     int    true  "Range end (exclusive)"
// @Param        checksum  query     string false "Hex SHA-256 of the chunk"
// @Success      200       {object}  dto.ProgressSnapshot
// @Failure      404       {object}  dto.ErrorResponse
// @Failure      409       {object}  dto.ErrorResponse "Range conflict or invalid state"
// @Router       /sessions/{id}/chunks [put]
func (h *SessionHandler) UploadChunk(c *fiber.Ctx) error {
	start, err := strconv.ParseInt(c.Query("start"), 10, 64)
	if err != nil {
		return errors.HandleError(c, errors.ErrPolicyViolation(fmt.Errorf("invalid start offset: %w", err)))
	}
	end, err := strconv.ParseInt(c.Query("end"), 10, 64)
	if err != nil {
		return errors.HandleError(c, errors.ErrPolicyViolation(fmt.Errorf("invalid end offset: %w", err)))
	}

	snapshot, err := h.coordinator.ReceiveChunk(c.UserContext(), c.Params("id"), start, end, c.Body(), c.Query("checksum"))
	if err != nil {
		return errors.HandleError(c, err)
	}
	return c.JSON(snapshot)
}

// Finalize
//
// @Summary      Finalize Upload
// @Description  Assembles all accepted chunks into the final object; fails while any byte range is missing
// @Tags         Sessions
// @Produce      json
// @Param        id  path      string true "Session ID"
// @Success      200 {object}  dto.FinalizeResponse
// @Failure      404 {object}  dto.ErrorResponse
// @Failure      409 {object}  dto.ErrorResponse "Incomplete upload"
// @Failure      502 {object}  dto.ErrorResponse "Blob store fault"
// @Router       /sessions/{id}/finalize [post]
func (h *SessionHandler) Finalize(c *fiber.Ctx) error {
	resp, err := h.coordinator.Finalize(c.UserContext(), c.Params("id"))
	if err != nil {
		return errors.HandleError(c, err)
	}
	return c.JSON(resp)
}

// Abort
//
// @Summary      Abort Upload
// @Description  Cancels the session and releases its partial chunk storage; idempotent
// @Tags         Sessions
// @Param        id  path  string true "Session ID"
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Router       /sessions/{id} [delete]
func (h *SessionHandler) Abort(c *fiber.Ctx) error {
	if err := h.coordinator.Abort(c.UserContext(), c.Params("id")); err != nil {
		return errors.HandleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Status
//
// @Summary      Session Status
// @Description  Returns progress plus the accepted and missing ranges so clients can resume
// @Tags         Sessions
// @Produce      json
// @Param        id  path      string true "Session ID"
// @Success      200 {object}  dto.SessionStatusResponse
// @Failure      404 {object}  dto.ErrorResponse
// @Router       /sessions/{id} [get]
func (h *SessionHandler) Status(c *fiber.Ctx) error {
	resp, err := h.coordinator.Status(c.UserContext(), c.Params("id"))
	if err != nil {
		return errors.HandleError(c, err)
	}
	return c.JSON(resp)
}
