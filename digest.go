package saga

import "maps"

// Digest projects a terminal workflow into its outcome. On a fully
// successful run it returns the result map, one entry per committed step.
// On a halted run it returns a *FailureError naming the failed operation,
// the reason it reported, and the results committed before the halt.
//
// Digest is pure and idempotent: it never mutates the workflow, and calling
// it twice yields the same value. The returned map is a copy.
//
// Example:
//
//	results, err := run.Digest()
//	var failure *saga.FailureError
//	if errors.As(err, &failure) {
//		log.Printf("halted at %s: %v (committed: %v)", failure.Op, failure.Reason, failure.Partial)
//	}
func (w *Workflow) Digest() (Results, error) {
	partial := maps.Clone(w.results)
	if partial == nil {
		partial = Results{}
	}

	if w.halted {
		return nil, &FailureError{
			Op:      w.failedOp,
			Reason:  w.failReason,
			Partial: partial,
		}
	}
	return partial, nil
}

// Errored reports whether the workflow halted on a step or parser failure.
func (w *Workflow) Errored() bool {
	return w.halted
}

// FailedOp returns the operation that halted the workflow, or "" if it
// never halted.
func (w *Workflow) FailedOp() Operation {
	return w.failedOp
}
