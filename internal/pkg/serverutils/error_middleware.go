package serverutils

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ErrorHandlerMiddleware converts errors bubbling out of handlers into a
// consistent JSON envelope. Unexpected errors get an incident id so the
// client-facing message can stay generic while logs keep the detail.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(validationErr.Error()))
		}

		incidentId := uuid.NewString()
		log.Printf("[ERROR] incident=%s path=%s err=%v", incidentId, ctx.Path(), err)

		return ctx.Status(fiber.StatusInternalServerError).JSON(
			ErrorResponse("Internal server error (incident: " + incidentId + ")"),
		)
	}
}
