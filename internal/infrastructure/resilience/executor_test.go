package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
)

func TestExecuteNeverRetriesFailure(t *testing.T) {
	exec := NewExecutor(Config{BreakerEnabled: false})

	attempts := 0
	errTemp := errors.New("temporary")
	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		attempts++
		return errTemp
	}, nil)
	if !errors.Is(err, errTemp) {
		t.Fatalf("expected temporary error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestExecuteNilExecutorRunsOperation(t *testing.T) {
	var exec *Executor

	called := false
	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		called = true
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatalf("expected operation to run")
	}
}

func TestExecuteOpensCircuitAfterFailures(t *testing.T) {
	exec := NewExecutor(Config{
		BreakerEnabled:          true,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      50 * time.Millisecond,
		BreakerHalfOpenMaxCalls: 1,
	})

	errTemp := errors.New("temporary")
	for i := 0; i < 2; i++ {
		err := exec.Execute(context.Background(), "op", func(context.Context) error {
			return errTemp
		}, nil)
		if !errors.Is(err, errTemp) {
			t.Fatalf("expected temporary error on iteration %d, got %v", i, err)
		}
	}

	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		t.Fatalf("circuit should be open and must not call operation")
		return nil
	}, nil)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open state error, got %v", err)
	}
	if !IsCircuitOpen(err) {
		t.Fatalf("expected IsCircuitOpen to recognise %v", err)
	}
	if exec.State("op") != gobreaker.StateOpen {
		t.Fatalf("expected open breaker state, got %s", exec.State("op"))
	}
}

func TestExecuteIgnoresUnrecordedFailures(t *testing.T) {
	exec := NewExecutor(Config{
		BreakerEnabled:      true,
		BreakerMinRequests:  1,
		BreakerFailureRatio: 0.5,
	})

	errClient := errors.New("bad request")
	for i := 0; i < 3; i++ {
		err := exec.Execute(context.Background(), "op", func(context.Context) error {
			return errClient
		}, func(error) bool { return false })
		if !errors.Is(err, errClient) {
			t.Fatalf("expected client error on iteration %d, got %v", i, err)
		}
	}
	if exec.State("op") != gobreaker.StateClosed {
		t.Fatalf("expected closed breaker, got %s", exec.State("op"))
	}
}
