package v1

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/taskboard/internal/domain"
)

// toHumaError maps a repository or validation error onto an RFC 7807
// response. what names the resource for not-found messages.
func toHumaError(err error, what string) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return huma.Error422UnprocessableEntity(verr.Message, &huma.ErrorDetail{
			Location: "body." + verr.Field,
			Message:  verr.Message,
		})
	}

	var inUse *domain.ProjectInUseError
	if errors.As(err, &inUse) {
		return huma.Error409Conflict(inUse.Error())
	}

	if errors.Is(err, domain.ErrNotFound) {
		return huma.Error404NotFound(what + " not found")
	}

	return huma.Error500InternalServerError("failed to process "+what, err)
}
