package saga

import "context"

// Rollback undoes committed steps in reverse commit order: the most recently
// committed compensation runs first. Each rollback function receives the
// identifier derived by its step's parser and the result map as it stood
// before its step ran.
//
// On success it returns the per-operation rollback values. The first
// compensation failure stops the sweep immediately and returns a
// *RollbackError carrying the values accumulated up to that point; earlier
// steps remain un-rolled-back.
//
// Rollback is legal on a workflow that never halted — it simply undoes every
// step that registered a compensation. Steps committed with
// CommitNoCompensation contribute nothing to the stack, so a workflow
// containing only such steps rolls back to an empty map. The workflow itself
// is not mutated, so Rollback can be retried after a compensation failure.
//
// Example:
//
//	if run.Errored() {
//		undone, err := run.Rollback(ctx)
//		if err != nil {
//			return fmt.Errorf("compensating: %w", err)
//		}
//		log.Printf("undid %d operations", len(undone))
//	}
func (w *Workflow) Rollback(ctx context.Context) (Results, error) {
	undone := Results{}

	for i := len(w.stack) - 1; i >= 0; i-- {
		entry := w.stack[i]

		value, err := entry.rollback(ctx, entry.identifier, entry.snapshot)
		if err != nil {
			w.notifyRollback(ctx, entry.op, err)
			return nil, &RollbackError{
				Op:     entry.op,
				Reason: err,
				Undone: undone,
			}
		}

		undone[entry.op] = value
		w.notifyRollback(ctx, entry.op, nil)
	}

	return undone, nil
}
