// Package saga provides a sequential saga-style execution engine.
//
// A workflow is an ordered list of instructions: plain steps, conditional
// branches, and merges that splice runtime-built sub-workflows into the
// instruction stream. Each step performs a fallible piece of work and may
// register a compensation that can undo it later. Execution halts at the
// first failure; the rollback interpreter then undoes committed steps in
// reverse order, each compensation seeing the result map exactly as it stood
// before its own step ran.
//
// Example usage:
//
//	wf := saga.New().
//		Add(saga.NewStep("reserve", reserveSeat, saga.WithRollback(releaseSeat))).
//		Add(saga.NewStep("charge", chargeCard, saga.WithRollback(refundCard)))
//
//	run, err := wf.Perform(ctx)
//	if err != nil {
//		return err // caller programming error, not a workflow failure
//	}
//	if run.Errored() {
//		_, rbErr := run.Rollback(ctx)
//		return rbErr
//	}
package saga

import "context"

// Operation uniquely names a step within one workflow.
// It must be non-empty and contain no whitespace.
//
// Example:
//
//	step := saga.NewStep(saga.Operation("create_user"), createUser)
type Operation string

// Results maps each committed operation to the value its work function
// produced. It accumulates during forward execution and is handed, read-only,
// to work functions, conditionals, merge functions and compensations.
type Results map[Operation]any

// WorkflowID identifies a workflow run for observability purposes.
// It can be explicitly set via WithID() or auto-generated during execution.
//
// Example:
//
//	wf := saga.New().
//		WithID(saga.WorkflowID("order-cancellation"))
type WorkflowID string

// WorkFunc is the fallible unit of work a step performs. It receives the
// results accumulated so far and reports one of three outcomes: Commit,
// CommitNoCompensation or Abort.
//
// Example:
//
//	charge := func(ctx context.Context, results saga.Results) saga.Outcome {
//		id, err := billing.Charge(ctx, results["reserve"])
//		if err != nil {
//			return saga.Abort(err)
//		}
//		return saga.Commit(id)
//	}
type WorkFunc func(ctx context.Context, results Results) Outcome

// ParseFunc derives a compensation identifier from a committed value. The
// identifier is what the step's rollback function later receives. The default
// parser returns the value unchanged.
type ParseFunc func(value any) (any, error)

// RollbackFunc undoes a committed step. It receives the compensation
// identifier derived by the step's parser and a snapshot of the result map
// as it stood immediately before the step ran, so it never observes effects
// from steps that executed afterwards.
type RollbackFunc func(ctx context.Context, identifier any, snapshot Results) (any, error)

// Predicate selects a branch arm based on the results accumulated so far.
type Predicate func(results Results) bool

// MergeFunc builds a sub-workflow from the results accumulated so far.
// Returning nil is a contract violation and aborts the whole Perform call.
type MergeFunc func(results Results) *Workflow

// Instruction is one entry in a workflow: a *Step, a *Branch or a *Merge.
// The set of implementations is closed.
type Instruction interface {
	instruction()
}
