package http

import (
	"fmt"
	"reflect"
	"strings"

	"checkers/internal/core"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

const (
	localValidated     = "validated"
	localValidatedBody = "validatedBody"
)

// validationMiddleware parses and validates JSON bodies of mutating routes.
// Handlers refuse to run unless it has stored the validated body.
func validationMiddleware(c *fiber.Ctx) error {
	method := c.Method()
	if method == fiber.MethodGet || method == fiber.MethodDelete || method == fiber.MethodOptions {
		return c.Next()
	}

	path := c.Path()
	var requestType interface{}

	switch {
	case strings.HasSuffix(path, "/games") && method == fiber.MethodPost:
		requestType = &core.CreateGameRequest{}
	case strings.HasSuffix(path, "/players") && method == fiber.MethodPut:
		requestType = &core.ConfigurePlayersRequest{}
	case strings.HasSuffix(path, "/moves") && method == fiber.MethodPost:
		requestType = &core.MoveRequest{}
	case strings.HasSuffix(path, "/click") && method == fiber.MethodPost:
		requestType = &core.ClickRequest{}
	case strings.HasSuffix(path, "/undo") && method == fiber.MethodPost:
		requestType = &core.UndoRequest{}
	default:
		return c.Next()
	}

	if err := c.BodyParser(requestType); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid request body",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
	}

	if err := validate.Struct(requestType); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.ErrInvalidRequest,
			Details: describeValidation(err),
		})
	}

	c.Locals(localValidatedBody, requestType)
	c.Locals(localValidated, true)

	return c.Next()
}

func describeValidation(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	var details strings.Builder
	for _, fe := range errs {
		if details.Len() > 0 {
			details.WriteString("; ")
		}
		switch fe.Tag() {
		case "required":
			details.WriteString(fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			details.WriteString(fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		case "min", "max":
			bound := "at least"
			if fe.Tag() == "max" {
				bound = "at most"
			}
			unit := ""
			if fe.Kind() == reflect.String {
				unit = " characters"
			}
			details.WriteString(fmt.Sprintf("%s must be %s %s%s", fe.Field(), bound, fe.Param(), unit))
		default:
			details.WriteString(fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return details.String()
}

// validatedBody fetches the request stored by validationMiddleware. The
// returned error is rendered by customErrorHandler.
func validatedBody[T any](c *fiber.Ctx) (T, error) {
	var zero T

	validated, ok := c.Locals(localValidated).(bool)
	if !ok || !validated {
		return zero, fiber.NewError(fiber.StatusInternalServerError, "validation bypass detected")
	}

	body, ok := c.Locals(localValidatedBody).(*T)
	if !ok || body == nil {
		return zero, fiber.NewError(fiber.StatusInternalServerError, "validation data missing")
	}
	return *body, nil
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
