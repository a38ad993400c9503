package saga

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Observer provides hooks for monitoring workflow execution and rollback.
// Implement this interface to add custom metrics, logging, or tracing.
//
// Example:
//
//	type metricsObserver struct {
//		saga.NoopObserver
//		metrics MetricsClient
//	}
//
//	func (m *metricsObserver) OnStepAbort(ctx context.Context, id saga.WorkflowID, op saga.Operation, reason error) {
//		m.metrics.Increment("saga.step.aborted", map[string]string{"op": string(op)})
//	}
type Observer interface {
	// OnWorkflowStart is called when Perform begins.
	OnWorkflowStart(ctx context.Context, id WorkflowID)

	// OnWorkflowFinish is called when Perform returns. err is non-nil only
	// for contract violations; a step failure is reported through
	// OnStepAbort and the halt state instead.
	OnWorkflowFinish(ctx context.Context, id WorkflowID, duration time.Duration, err error)

	// OnStepCommit is called when a step's value is written to the result map.
	OnStepCommit(ctx context.Context, id WorkflowID, op Operation)

	// OnStepAbort is called when a step's work or parser halts the workflow.
	OnStepAbort(ctx context.Context, id WorkflowID, op Operation, reason error)

	// OnRollback is called after each compensation attempt, with the error
	// it returned (nil on success).
	OnRollback(ctx context.Context, id WorkflowID, op Operation, err error)
}

// NoopObserver is a default implementation of Observer that does nothing.
// Embed it to implement partial observers.
type NoopObserver struct{}

// OnWorkflowStart implements Observer.
func (n *NoopObserver) OnWorkflowStart(ctx context.Context, id WorkflowID) {}

// OnWorkflowFinish implements Observer.
func (n *NoopObserver) OnWorkflowFinish(ctx context.Context, id WorkflowID, duration time.Duration, err error) {
}

// OnStepCommit implements Observer.
func (n *NoopObserver) OnStepCommit(ctx context.Context, id WorkflowID, op Operation) {}

// OnStepAbort implements Observer.
func (n *NoopObserver) OnStepAbort(ctx context.Context, id WorkflowID, op Operation, reason error) {}

// OnRollback implements Observer.
func (n *NoopObserver) OnRollback(ctx context.Context, id WorkflowID, op Operation, err error) {}

// WithObserver adds an observer to the workflow.
// Multiple observers can be added and all will be notified of events.
//
// Example:
//
//	wf := saga.New().
//		WithObserver(saga.NewSlogObserver(os.Stderr, slog.LevelInfo)).
//		Add(saga.NewStep("step1", fn1))
func (w *Workflow) WithObserver(observer Observer) *Workflow {
	w.observers = append(w.observers, observer)
	return w
}

// notify runs fn for every observer, isolating observer panics so they never
// break execution.
func (w *Workflow) notify(fn func(Observer)) {
	for _, obs := range w.observers {
		func() {
			defer func() {
				recover()
			}()
			fn(obs)
		}()
	}
}

func (w *Workflow) notifyWorkflowStart(ctx context.Context) {
	w.notify(func(obs Observer) { obs.OnWorkflowStart(ctx, w.id) })
}

func (w *Workflow) notifyWorkflowFinish(ctx context.Context, duration time.Duration, err error) {
	w.notify(func(obs Observer) { obs.OnWorkflowFinish(ctx, w.id, duration, err) })
}

func (w *Workflow) notifyStepCommit(ctx context.Context, op Operation) {
	w.notify(func(obs Observer) { obs.OnStepCommit(ctx, w.id, op) })
}

func (w *Workflow) notifyStepAbort(ctx context.Context, op Operation, reason error) {
	w.notify(func(obs Observer) { obs.OnStepAbort(ctx, w.id, op, reason) })
}

func (w *Workflow) notifyRollback(ctx context.Context, op Operation, err error) {
	w.notify(func(obs Observer) { obs.OnRollback(ctx, w.id, op, err) })
}

// SlogObserver logs workflow events as structured JSON records.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver creates an observer that writes JSON log records to w.
// Pass os.Stderr in processes whose stdout carries protocol frames.
//
// Example:
//
//	wf := saga.New().
//		WithObserver(saga.NewSlogObserver(os.Stderr, slog.LevelInfo))
func NewSlogObserver(w io.Writer, level slog.Level) *SlogObserver {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return &SlogObserver{logger: slog.New(handler)}
}

// OnWorkflowStart implements Observer.
func (o *SlogObserver) OnWorkflowStart(ctx context.Context, id WorkflowID) {
	o.logger.InfoContext(ctx, "workflow started", "workflow_id", string(id))
}

// OnWorkflowFinish implements Observer.
func (o *SlogObserver) OnWorkflowFinish(ctx context.Context, id WorkflowID, duration time.Duration, err error) {
	if err != nil {
		o.logger.ErrorContext(ctx, "workflow aborted",
			"workflow_id", string(id), "duration", duration.String(), "error", err.Error())
		return
	}
	o.logger.InfoContext(ctx, "workflow finished",
		"workflow_id", string(id), "duration", duration.String())
}

// OnStepCommit implements Observer.
func (o *SlogObserver) OnStepCommit(ctx context.Context, id WorkflowID, op Operation) {
	o.logger.DebugContext(ctx, "step committed",
		"workflow_id", string(id), "operation", string(op))
}

// OnStepAbort implements Observer.
func (o *SlogObserver) OnStepAbort(ctx context.Context, id WorkflowID, op Operation, reason error) {
	o.logger.WarnContext(ctx, "step aborted",
		"workflow_id", string(id), "operation", string(op), "reason", reason.Error())
}

// OnRollback implements Observer.
func (o *SlogObserver) OnRollback(ctx context.Context, id WorkflowID, op Operation, err error) {
	if err != nil {
		o.logger.ErrorContext(ctx, "rollback failed",
			"workflow_id", string(id), "operation", string(op), "error", err.Error())
		return
	}
	o.logger.InfoContext(ctx, "rollback applied",
		"workflow_id", string(id), "operation", string(op))
}
