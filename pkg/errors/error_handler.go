package errors

import (
	stderrors "errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// HandleError translates service errors into HTTP responses. The client
// only ever sees Code + Message; the wrapped cause is logged server-side.
func HandleError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	var ue *UploadError
	if stderrors.As(err, &ue) {
		if ue.Err != nil {
			slog.Warn("request failed", "code", ue.Code, "error", ue.Err)
		}

		var status int
		switch ue.Code {
		case CodePolicyViolation:
			status = fiber.StatusBadRequest
		case CodeSessionNotFound, CodeFileNotFound, CodeLinkNotFound:
			status = fiber.StatusNotFound
		case CodeInvalidState, CodeRangeConflict, CodeIncompleteUpload:
			status = fiber.StatusConflict
		case CodeLinkExpired:
			status = fiber.StatusGone
		case CodeStorageUnavailable:
			status = fiber.StatusBadGateway
		case CodeOverloaded:
			status = fiber.StatusTooManyRequests
		default:
			status = fiber.StatusInternalServerError
		}

		return c.Status(status).JSON(fiber.Map{
			"error":   ue.Code,
			"message": ue.Message,
		})
	}

	slog.Error("unexpected error", "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   CodeInternal,
		"message": "internal server error",
	})
}
