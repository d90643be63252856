package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kirillkom/retail-insights/internal/core/domain"
	"github.com/kirillkom/retail-insights/internal/core/ports"
)

const unexpectedErrorMessage = "unexpected error"

var errNavigatedAway = errors.New("screen was left before the response arrived")

// Action is the state machine of one user-facing action:
// idle -> validating -> in_flight -> succeeded | failed.
// At most one call is outstanding per action; a second submission is rejected.
type Action[T any] struct {
	name     string
	nav      *navigator
	observer ports.ActionObserver
	logger   *slog.Logger

	mu    sync.Mutex
	state domain.ActionState[T]
}

func NewAction[T any](name string, observer ports.ActionObserver, logger *slog.Logger) *Action[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Action[T]{
		name:     name,
		observer: observer,
		logger:   logger,
		state:    domain.ActionState[T]{Phase: domain.PhaseIdle},
	}
}

func (a *Action[T]) guardedBy(nav *navigator) *Action[T] {
	a.nav = nav
	return a
}

// Snapshot returns a copy of the current state.
func (a *Action[T]) Snapshot() domain.ActionState[T] {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := a.state
	if a.state.Result != nil {
		result := *a.state.Result
		out.Result = &result
	}
	return out
}

// Run validates synchronously, then performs call. Failures leave the last
// result in place; stale responses are dropped without touching it.
func (a *Action[T]) Run(
	ctx context.Context,
	validate func() error,
	call func(context.Context) (T, error),
) (T, error) {
	var zero T

	a.mu.Lock()
	if a.state.Loading {
		a.mu.Unlock()
		return zero, domain.WrapError(domain.ErrActionInFlight, a.name, errors.New("a request is already running"))
	}

	start := time.Now()
	attemptID := uuid.NewString()
	a.state.Phase = domain.PhaseValidating
	a.state.AttemptID = attemptID

	if validate != nil {
		if err := validate(); err != nil {
			message, class := describeFailure(err)
			a.state.Phase = domain.PhaseFailed
			a.state.Error = message
			a.state.ErrorClass = class
			a.mu.Unlock()

			a.logger.Debug("action_validation_failed", "action", a.name, "attempt_id", attemptID, "reason", message)
			a.observe(domain.PhaseFailed, class, time.Since(start))
			return zero, err
		}
	}

	a.state.Phase = domain.PhaseInFlight
	a.state.Loading = true
	a.state.Error = ""
	a.state.ErrorClass = domain.ErrorClassNone
	var ticket navTicket
	if a.nav != nil {
		ticket = a.nav.ticket()
	}
	a.mu.Unlock()

	result, err := invoke(ctx, call)

	a.mu.Lock()
	a.state.Loading = false
	if a.nav != nil && !a.nav.current(ticket) {
		a.state.Phase = domain.PhaseIdle
		a.mu.Unlock()

		a.logger.Info("action_result_discarded", "action", a.name, "attempt_id", attemptID, "failed", err != nil)
		a.observe(domain.PhaseIdle, domain.ErrorClassNone, time.Since(start))
		return zero, domain.WrapError(domain.ErrStaleResult, a.name, errNavigatedAway)
	}

	if err != nil {
		message, class := describeFailure(err)
		a.state.Phase = domain.PhaseFailed
		a.state.Error = message
		a.state.ErrorClass = class
		a.mu.Unlock()

		a.logger.Warn("action_failed", "action", a.name, "attempt_id", attemptID, "error_class", string(class), "error", err)
		a.observe(domain.PhaseFailed, class, time.Since(start))
		return zero, err
	}

	a.state.Phase = domain.PhaseSucceeded
	a.state.Result = &result
	a.mu.Unlock()

	a.logger.Info("action_succeeded", "action", a.name, "attempt_id", attemptID)
	a.observe(domain.PhaseSucceeded, domain.ErrorClassNone, time.Since(start))
	return result, nil
}

func (a *Action[T]) observe(phase domain.Phase, class domain.ErrorClass, duration time.Duration) {
	if a.observer != nil {
		a.observer.ObserveAction(a.name, phase, class, duration)
	}
}

func invoke[T any](ctx context.Context, call func(context.Context) (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("action panicked: %v", r)
		}
	}()
	return call(ctx)
}

// describeFailure maps an error onto the user-visible message and its class.
func describeFailure(err error) (string, domain.ErrorClass) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message, domain.ErrorClassValidation
	}
	if apiErr, ok := domain.AsAPIError(err); ok {
		if apiErr.IsTransport() {
			return apiErr.Message, domain.ErrorClassTransport
		}
		return apiErr.Message, domain.ErrorClassProtocol
	}
	if domain.IsKind(err, domain.ErrInvalidInput) {
		return err.Error(), domain.ErrorClassValidation
	}
	return unexpectedErrorMessage, domain.ErrorClassInternal
}
