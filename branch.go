package saga

// Branch selects between two steps based on a conditional evaluated against
// the results accumulated so far. The unselected step never executes.
//
// Branch predates Merge and is kept as a convenience; merge-based
// composition subsumes it, since a merge function can return a sub-workflow
// of any shape.
type Branch struct {
	conditional Predicate
	success     *Step
	failure     *Step
}

func (b *Branch) instruction() {}

// NewBranch builds a branch instruction. When the conditional evaluates true
// against the accumulated results, the success step is substituted into the
// instruction stream; otherwise the failure step is.
//
// Example:
//
//	branch := saga.NewBranch(
//		func(results saga.Results) bool { return results["check"].(bool) },
//		saga.NewStep("fast_path", fastPath),
//		saga.NewStep("slow_path", slowPath),
//	)
func NewBranch(conditional Predicate, success, failure *Step) *Branch {
	if conditional == nil {
		panic(&NilFuncError{Field: "conditional"})
	}
	if success == nil {
		panic(&NilFuncError{Field: "success step"})
	}
	if failure == nil {
		panic(&NilFuncError{Field: "failure step"})
	}

	return &Branch{
		conditional: conditional,
		success:     success,
		failure:     failure,
	}
}
