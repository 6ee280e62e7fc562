package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"resume-builder/internal/model"
	"resume-builder/internal/usecase"
)

// ErrValidation indicates a malformed request: bad body, bad route
// parameter or a failed payload check.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		fiberErr   *fiber.Error
		validErr   *ErrValidation
		bindErr    *usecase.BindingError
		schemaErr  *model.SchemaError
		structErrs validator.ValidationErrors
	)
	switch {
	case errors.Is(err, usecase.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.As(err, &validErr), errors.As(err, &bindErr),
		errors.As(err, &schemaErr), errors.As(err, &structErrs):
		return http.StatusBadRequest
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler writes {"error": msg}. Server side failures are logged and
// reported without detail.
func ErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := HTTPStatus(err)
		msg := err.Error()
		if status >= http.StatusInternalServerError {
			log.WithError(err).WithField("path", c.Path()).Error("request failed")
			msg = http.StatusText(status)
		}
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
}

// validationError turns the first failed struct field into an ErrValidation.
func validationError(err error) error {
	var structErrs validator.ValidationErrors
	if errors.As(err, &structErrs) && len(structErrs) > 0 {
		fe := structErrs[0]
		return &ErrValidation{Field: fe.Field(), Message: fmt.Sprintf("failed on %q", fe.Tag())}
	}
	return err
}
