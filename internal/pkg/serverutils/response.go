package serverutils

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"edumentor-be/internal/pkg/apperror"
)

var validate = validator.New()

// ValidateRequest checks struct tags and reports the first violation as a
// validation error.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return apperror.Validation("invalid field: " + verrs[0].Field())
		}
		return apperror.Validation(err.Error())
	}
	return nil
}

func SuccessResponse(message string, data interface{}) fiber.Map {
	return fiber.Map{
		"success": true,
		"code":    200,
		"message": message,
		"data":    data,
	}
}

// ErrorHandlerMiddleware translates service errors into the JSON envelope.
// apperror kinds carry their own status; anything else is a 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := fiber.StatusInternalServerError
		message := err.Error()

		if appErr, ok := apperror.As(err); ok {
			status = appErr.StatusCode()
		} else if fiberErr, ok := err.(*fiber.Error); ok {
			status = fiberErr.Code
		}

		return ctx.Status(status).JSON(fiber.Map{
			"success": false,
			"code":    status,
			"message": message,
			"detail":  message,
		})
	}
}
