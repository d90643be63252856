package httpadapter

import (
	"errors"
	"net/http"

	"github.com/kirillkom/retail-insights/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrActionInFlight), domain.IsKind(err, domain.ErrStaleResult):
		return http.StatusConflict
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicErrorMessage is the text shown to API clients. Internal causes stay in logs.
func publicErrorMessage(err error) string {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	if apiErr, ok := domain.AsAPIError(err); ok {
		return apiErr.Message
	}
	switch {
	case domain.IsKind(err, domain.ErrActionInFlight):
		return "action already in progress"
	case domain.IsKind(err, domain.ErrStaleResult):
		return "result discarded after navigation"
	default:
		return "internal error"
	}
}
