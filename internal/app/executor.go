package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/askadit/content-service/internal/platform/logging"
)

// Remote operations that overwrite local state run as a pipeline:
//
//	validate → perform → verify → archive → respond
//
// Nothing local changes before verify has accepted what perform fetched, so
// a bad remote document never reaches the store.

// ExecutionStep names a pipeline stage.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
	StepRespond  ExecutionStep = "respond"
)

// ExecutionError records the stage an operation failed in. It unwraps to the
// cause, so domain error checks see through it.
type ExecutionError struct {
	Operation string
	Step      ExecutionStep
	Cause     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Operation, e.Cause)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// GetExecutionStep returns the stage err failed in.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}

// Operation defines the stages of one pipeline run. Nil stages are skipped.
type Operation[I, P, V, O any] struct {
	Name string

	Validate func(ctx context.Context, input I) error
	Perform  func(ctx context.Context, input I) (P, error)
	Verify   func(ctx context.Context, input I, performed P) (V, error)
	Archive  func(ctx context.Context, input I, verified V) error
	Respond  func(ctx context.Context, input I, verified V) (O, error)
}

// Executor runs operations and logs each stage.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor creates an executor. Stage logs go to the context logger when
// there is one.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{logger: logger}
}

// Execute runs op for input.
func Execute[I, P, V, O any](ctx context.Context, exec *Executor, op Operation[I, P, V, O], input I) (O, error) {
	var (
		zero      O
		performed P
		verified  V
		result    O
	)

	logger := logging.FromContextOr(ctx, exec.logger).With(slog.String("operation", op.Name))
	start := time.Now()

	fail := func(step ExecutionStep, err error) (O, error) {
		logger.WarnContext(ctx, "operation step failed", slog.String("step", string(step)), slog.Any("error", err))
		return zero, &ExecutionError{Operation: op.Name, Step: step, Cause: err}
	}

	if op.Validate != nil {
		if err := op.Validate(ctx, input); err != nil {
			return fail(StepValidate, err)
		}
	}

	if op.Perform != nil {
		var err error
		if performed, err = op.Perform(ctx, input); err != nil {
			return fail(StepPerform, err)
		}
	}

	if op.Verify != nil {
		var err error
		if verified, err = op.Verify(ctx, input, performed); err != nil {
			return fail(StepVerify, err)
		}
	}

	if op.Archive != nil {
		if err := op.Archive(ctx, input, verified); err != nil {
			return fail(StepArchive, err)
		}
	}

	if op.Respond != nil {
		var err error
		if result, err = op.Respond(ctx, input, verified); err != nil {
			return fail(StepRespond, err)
		}
	}

	logger.DebugContext(ctx, "operation completed", slog.Duration("duration", time.Since(start)))

	return result, nil
}
