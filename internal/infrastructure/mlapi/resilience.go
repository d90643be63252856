package mlapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/kirillkom/retail-insights/internal/core/domain"
	"github.com/kirillkom/retail-insights/internal/infrastructure/resilience"
)

// recordBackendFailure decides which failures count against a breaker.
// Client-side 4xx responses do not signal an unhealthy backend.
func recordBackendFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	apiErr, ok := domain.AsAPIError(err)
	if !ok {
		return true
	}
	if apiErr.IsTransport() {
		return true
	}
	return isServerSideStatus(apiErr.Status)
}

func isServerSideStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	default:
		return statusCode >= 500
	}
}

func wrapCircuitOpen(service, operation string, err error) error {
	if err == nil || !resilience.IsCircuitOpen(err) {
		return err
	}
	return transportError(fmt.Errorf("%s %s: %w", service, operation, err))
}
