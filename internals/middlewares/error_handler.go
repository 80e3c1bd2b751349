package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"eventhub_backend/internals/configs"
	"eventhub_backend/internals/helpers/apperror"
	helperOSS "eventhub_backend/internals/helpers/oss"
)

const genericMessage = "Something went wrong!"

// NewErrorHandler renders every error as
// {success:false, message, error:[{path,message}], stack?} and removes the
// files a failed request already uploaded.
func NewErrorHandler(cfg *configs.Config, blob helperOSS.BlobService, log *slog.Logger) fiber.ErrorHandler {
	dev := cfg.IsDevelopment()

	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := genericMessage
		sources := []apperror.FieldError{}
		var stack []byte

		var fe *fiber.Error
		if ae, ok := apperror.As(err); ok {
			status = ae.Status
			message = ae.Message
			stack = ae.Stack
			if len(ae.Fields) > 0 {
				sources = ae.Fields
			} else {
				sources = append(sources, apperror.FieldError{Path: "", Message: ae.Message})
			}
		} else if errors.As(err, &fe) {
			status = fe.Code
			message = fe.Message
			sources = append(sources, apperror.FieldError{Path: "", Message: fe.Message})
		} else if dev {
			message = err.Error()
		}

		reqID, _ := c.Locals(LocRequestID).(string)
		if status >= fiber.StatusInternalServerError {
			log.Error("request failed",
				"request_id", reqID,
				"method", c.Method(),
				"path", c.Path(),
				"status", status,
				"err", err,
			)
		} else {
			log.Debug("request rejected", "request_id", reqID, "path", c.Path(), "status", status, "err", err)
		}

		if urls := helperOSS.UploadedURLs(c); len(urls) > 0 {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			helperOSS.DeleteBestEffort(ctx, blob, log, urls)
			cancel()
		}

		body := fiber.Map{
			"success": false,
			"message": message,
			"error":   sources,
		}
		if dev {
			if len(stack) > 0 {
				body["stack"] = string(stack)
			} else {
				body["stack"] = err.Error()
			}
		}
		return c.Status(status).JSON(body)
	}
}
