package saga

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOperation is the kind of panic raised when a step is built
	// with an empty or whitespace-containing operation identifier.
	ErrInvalidOperation = errors.New("invalid operation identifier")

	// ErrNilFunc is the kind of panic raised when a required function
	// (work, rollback, parser, conditional, merge) is nil at construction.
	ErrNilFunc = errors.New("nil function")

	// ErrNilMergeWorkflow is returned by Perform when a merge function
	// returns a nil sub-workflow.
	ErrNilMergeWorkflow = errors.New("merge function returned a nil workflow")
)

// InvalidOperationError reports a malformed operation identifier at step
// construction time.
type InvalidOperationError struct {
	Op Operation
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("%v: %q", ErrInvalidOperation, string(e.Op))
}

func (e *InvalidOperationError) Unwrap() error { return ErrInvalidOperation }

// NilFuncError reports a nil function field at construction time, naming the
// offending field.
type NilFuncError struct {
	Field string
}

func (e *NilFuncError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, ErrNilFunc)
}

func (e *NilFuncError) Unwrap() error { return ErrNilFunc }

// InvalidOutcomeError is returned by Perform when a work function returns an
// Outcome that was not built with Commit, CommitNoCompensation or Abort, or
// an Abort carrying a nil reason. It indicates a caller programming error and
// is never folded into the workflow's own failure channel.
type InvalidOutcomeError struct {
	Op Operation
}

func (e *InvalidOutcomeError) Error() string {
	return fmt.Sprintf("step %q returned an invalid outcome", string(e.Op))
}

// DuplicateOperationError is returned by Perform when a step is dispatched
// whose operation already holds a committed result. Operation identifiers
// must be unique within one workflow run, spliced sub-workflows included.
type DuplicateOperationError struct {
	Op Operation
}

func (e *DuplicateOperationError) Error() string {
	return fmt.Sprintf("duplicate operation %q", string(e.Op))
}

// FailureError is the failure arm of Digest. It names the step that halted
// the workflow, the reason it reported, and the results committed before the
// halt.
type FailureError struct {
	Op      Operation
	Reason  error
	Partial Results
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("workflow halted at %q: %v", string(e.Op), e.Reason)
}

// Unwrap returns the failing step's reason.
func (e *FailureError) Unwrap() error { return e.Reason }

// RollbackError is the failure arm of Rollback. It names the compensation
// that failed, the reason, and the rollback values accumulated before it.
type RollbackError struct {
	Op     Operation
	Reason error
	Undone Results
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("rollback halted at %q: %v", string(e.Op), e.Reason)
}

// Unwrap returns the failing compensation's reason.
func (e *RollbackError) Unwrap() error { return e.Reason }
