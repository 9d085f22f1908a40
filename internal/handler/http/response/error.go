package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-overtime-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	if errors.Is(err, overtime.ErrCompanyRequired) {
		Forbidden(w, "Company scope required")
		return
	}

	switch overtime.KindOf(err) {
	case overtime.KindValidation:
		UnprocessableEntity(w, "VALIDATION_ERROR", err.Error())
	case overtime.KindNotFound:
		NotFound(w, err.Error())
	case overtime.KindConflict:
		Conflict(w, err.Error())
	case overtime.KindConfiguration:
		UnprocessableEntity(w, "CONFIGURATION_ERROR", err.Error())

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
