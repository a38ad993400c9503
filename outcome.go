package saga

// outcomeKind discriminates the three documented work-function outcomes.
// The zero value is deliberately invalid so a forgotten constructor call
// surfaces as a contract violation instead of being misread as success.
type outcomeKind int

const (
	outcomeInvalid outcomeKind = iota
	outcomeCommit
	outcomeCommitNoCompensation
	outcomeAbort
)

// Outcome is the result of a work function. Construct it with Commit,
// CommitNoCompensation or Abort; the zero value is invalid and causes
// Perform to fail with an InvalidOutcomeError.
type Outcome struct {
	kind   outcomeKind
	value  any
	reason error
}

// Commit reports a successful step whose effect can be undone. The value is
// recorded in the result map and, after passing through the step's parser,
// a compensation entry is pushed onto the rollback stack.
//
// Example:
//
//	return saga.Commit(reservation.ID)
func Commit(value any) Outcome {
	return Outcome{kind: outcomeCommit, value: value}
}

// CommitNoCompensation reports a successful step that needs no undo. The
// value is recorded in the result map but nothing is pushed onto the
// rollback stack.
//
// Example:
//
//	return saga.CommitNoCompensation(lookup.Price)
func CommitNoCompensation(value any) Outcome {
	return Outcome{kind: outcomeCommitNoCompensation, value: value}
}

// Abort reports a failed step. The workflow halts, the reason is surfaced
// through Digest, and nothing is written to the result map. The reason must
// be non-nil; Abort(nil) is treated as an invalid outcome.
//
// Example:
//
//	return saga.Abort(fmt.Errorf("seat %s already taken", seat))
func Abort(reason error) Outcome {
	return Outcome{kind: outcomeAbort, reason: reason}
}
