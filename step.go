package saga

import (
	"context"
	"strings"
	"unicode"
)

// Step is the atomic unit of a workflow: a fallible piece of work plus an
// optional compensation that can undo it. Build steps with NewStep.
type Step struct {
	op       Operation
	work     WorkFunc
	parser   ParseFunc
	rollback RollbackFunc
}

func (s *Step) instruction() {}

// Op returns the step's operation identifier.
func (s *Step) Op() Operation { return s.op }

// StepOption configures optional step behavior.
type StepOption func(*Step)

// WithRollback sets the step's compensation function. If the step commits
// with compensation, the function is later invoked by Rollback with the
// identifier derived by the step's parser and the result map as it stood
// before the step ran. The default rollback is a no-op success.
//
// Example:
//
//	saga.NewStep("reserve", reserveSeat,
//		saga.WithRollback(func(ctx context.Context, id any, snapshot saga.Results) (any, error) {
//			return nil, seats.Release(ctx, id.(string))
//		}))
func WithRollback(fn RollbackFunc) StepOption {
	if fn == nil {
		panic(&NilFuncError{Field: "rollback"})
	}
	return func(s *Step) {
		s.rollback = fn
	}
}

// WithParser sets the function that derives a compensation identifier from
// the step's committed value. A parser failure halts the workflow exactly
// like a work failure. The default parser returns the value unchanged.
//
// Example:
//
//	saga.NewStep("charge", chargeCard,
//		saga.WithParser(func(value any) (any, error) {
//			return value.(Charge).TransactionID, nil
//		}))
func WithParser(fn ParseFunc) StepOption {
	if fn == nil {
		panic(&NilFuncError{Field: "parser"})
	}
	return func(s *Step) {
		s.parser = fn
	}
}

// NewStep builds a step for the given operation. The operation identifier
// and the work function are validated eagerly: an empty or
// whitespace-containing identifier panics with an InvalidOperationError, a
// nil work function panics with a NilFuncError.
//
// Example:
//
//	step := saga.NewStep("create_user", createUser,
//		saga.WithRollback(deleteUser),
//		saga.WithParser(userID))
func NewStep(op Operation, work WorkFunc, opts ...StepOption) *Step {
	if err := op.validate(); err != nil {
		panic(err)
	}
	if work == nil {
		panic(&NilFuncError{Field: "work"})
	}

	s := &Step{
		op:       op,
		work:     work,
		parser:   identityParser,
		rollback: noopRollback,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (op Operation) validate() error {
	if op == "" {
		return &InvalidOperationError{Op: op}
	}
	if strings.ContainsFunc(string(op), unicode.IsSpace) {
		return &InvalidOperationError{Op: op}
	}
	return nil
}

// identityParser is the default parser: the committed value is its own
// compensation identifier.
func identityParser(value any) (any, error) {
	return value, nil
}

// noopRollback is the default compensation: succeed without doing anything.
func noopRollback(ctx context.Context, identifier any, snapshot Results) (any, error) {
	return nil, nil
}
