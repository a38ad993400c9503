package saga

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Workflow is the accumulator threaded through execution: the ordered
// instruction list, the running result map, the rollback stack, and the halt
// state. Workflows are constructed with a fluent builder API and executed
// once with Perform, which returns a terminal accumulator without mutating
// the original.
//
// Example:
//
//	wf := saga.New().
//		WithID(saga.WorkflowID("order-placement")).
//		Add(saga.NewStep("reserve", reserveStock, saga.WithRollback(releaseStock))).
//		Add(saga.NewStep("charge", chargeCard, saga.WithRollback(refundCard))).
//		Add(saga.NewStep("notify", sendConfirmation))
//
//	run, err := wf.Perform(ctx)
type Workflow struct {
	id           WorkflowID
	instructions []Instruction
	results      Results
	stack        []compensation
	halted       bool
	failedOp     Operation
	failReason   error
	observers    []Observer
}

// compensation is one rollback-stack entry: the committed operation, its
// rollback function, the identifier derived by its parser, and the result
// map as it stood before the step committed its own value.
type compensation struct {
	op         Operation
	rollback   RollbackFunc
	identifier any
	snapshot   Results
}

// New creates a new empty workflow.
//
// Example:
//
//	wf := saga.New().
//		Add(saga.NewStep("step1", fn1)).
//		Add(saga.NewStep("step2", fn2))
func New() *Workflow {
	return &Workflow{
		instructions: make([]Instruction, 0),
		results:      Results{},
	}
}

// WithID sets the workflow ID for observability purposes.
// If not set, a unique ID is auto-generated during execution.
func (w *Workflow) WithID(id WorkflowID) *Workflow {
	w.id = id
	return w
}

// Add appends an instruction (a *Step, *Branch or *Merge) to the workflow.
// Instructions execute in the order they were added.
func (w *Workflow) Add(inst Instruction) *Workflow {
	if inst == nil {
		panic(&NilFuncError{Field: "instruction"})
	}
	w.instructions = append(w.instructions, inst)
	return w
}

// Merge appends a merge instruction built from fn. It is shorthand for
// Add(NewMerge(fn)).
//
// Example:
//
//	wf := saga.New().
//		Add(saga.NewStep("load_cart", loadCart)).
//		Merge(shipmentStepsFor)
func (w *Workflow) Merge(fn MergeFunc) *Workflow {
	return w.Add(NewMerge(fn))
}

// Perform executes the workflow's instructions in declared order and returns
// the terminal accumulator. The receiver is left untouched, so a workflow
// value can serve as a template for repeated runs.
//
// Step failures are workflow-domain outcomes: they halt execution and are
// surfaced through Digest and Errored on the returned accumulator, never
// through Perform's error. The error return is reserved for caller
// programming errors — an invalid Outcome, a merge function returning nil,
// or a duplicate operation identifier — and aborts the run entirely.
//
// The context is handed to every work function; the engine itself never
// inspects it between instructions. A step that wants to stop on
// cancellation must report it as an Abort.
//
// Example:
//
//	run, err := wf.Perform(ctx)
//	if err != nil {
//		return fmt.Errorf("performing workflow: %w", err)
//	}
//	results, err := run.Digest()
func (w *Workflow) Perform(ctx context.Context) (*Workflow, error) {
	run := w.clone()

	// Generate execution ID if not set
	if run.id == "" {
		run.id = WorkflowID(uuid.New().String())
	}

	startTime := time.Now()
	run.notifyWorkflowStart(ctx)

	var fatal error
	defer func() {
		run.notifyWorkflowFinish(ctx, time.Since(startTime), fatal)
	}()

	queue := slices.Clone(run.instructions)
	for len(queue) > 0 && !run.halted {
		head := queue[0]
		queue = queue[1:]

		switch inst := head.(type) {
		case *Merge:
			sub := inst.fn(run.results)
			if sub == nil {
				fatal = fmt.Errorf("performing merge: %w", ErrNilMergeWorkflow)
				return nil, fatal
			}
			// Splice the sub-workflow's instructions ahead of the remaining
			// outer instructions; the accumulator carries across the splice.
			queue = append(slices.Clone(sub.instructions), queue...)

		case *Branch:
			chosen := inst.failure
			if inst.conditional(run.results) {
				chosen = inst.success
			}
			queue = append([]Instruction{chosen}, queue...)

		case *Step:
			if err := run.applyStep(ctx, inst); err != nil {
				fatal = err
				return nil, err
			}
		}
	}

	return run, nil
}

// applyStep runs one step's work function and folds its outcome into the
// accumulator. The returned error is a contract violation, not a step
// failure; step failures set the halt state instead.
func (run *Workflow) applyStep(ctx context.Context, step *Step) error {
	if _, exists := run.results[step.op]; exists {
		return &DuplicateOperationError{Op: step.op}
	}

	outcome := step.work(ctx, run.results)
	switch outcome.kind {
	case outcomeAbort:
		if outcome.reason == nil {
			return &InvalidOutcomeError{Op: step.op}
		}
		run.halt(step.op, outcome.reason)
		run.notifyStepAbort(ctx, step.op, outcome.reason)

	case outcomeCommitNoCompensation:
		run.results[step.op] = outcome.value
		run.notifyStepCommit(ctx, step.op)

	case outcomeCommit:
		// Snapshot before this step commits its own value, so the rollback
		// function never observes it.
		snapshot := maps.Clone(run.results)
		if snapshot == nil {
			snapshot = Results{}
		}

		identifier, err := step.parser(outcome.value)
		if err != nil {
			// A parse failure halts like a work failure: no result entry,
			// no rollback-stack entry.
			run.halt(step.op, err)
			run.notifyStepAbort(ctx, step.op, err)
			return nil
		}

		run.stack = append(run.stack, compensation{
			op:         step.op,
			rollback:   step.rollback,
			identifier: identifier,
			snapshot:   snapshot,
		})
		run.results[step.op] = outcome.value
		run.notifyStepCommit(ctx, step.op)

	default:
		return &InvalidOutcomeError{Op: step.op}
	}

	return nil
}

// halt records the first failure. It is set at most once per run; once set,
// no further instruction is dispatched.
func (w *Workflow) halt(op Operation, reason error) {
	w.halted = true
	w.failedOp = op
	w.failReason = reason
}

// clone copies the accumulator so Perform can build a terminal value without
// mutating the workflow it was called on.
func (w *Workflow) clone() *Workflow {
	c := &Workflow{
		id:           w.id,
		instructions: slices.Clone(w.instructions),
		results:      maps.Clone(w.results),
		stack:        slices.Clone(w.stack),
		halted:       w.halted,
		failedOp:     w.failedOp,
		failReason:   w.failReason,
		observers:    slices.Clone(w.observers),
	}
	if c.results == nil {
		c.results = Results{}
	}
	return c
}
