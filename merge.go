package saga

// Merge splices a runtime-built sub-workflow into the instruction stream.
// When the interpreter reaches a merge, the merge function is called with
// the results accumulated so far and must return a workflow; that
// workflow's instructions run next, in their declared order, ahead of the
// remaining outer instructions. The outer accumulator (result map, rollback
// stack, halt state) carries straight across the splice, so the spliced
// steps behave exactly as if they had been declared inline.
//
// Merge is the composition primitive: it lets workflow shape depend on
// runtime data without a first-class branch or loop construct.
type Merge struct {
	fn MergeFunc
}

func (m *Merge) instruction() {}

// NewMerge builds a merge instruction. The merge function is validated
// eagerly; returning a nil workflow at execution time is a contract
// violation that aborts the whole Perform call.
//
// Example:
//
//	merge := saga.NewMerge(func(results saga.Results) *saga.Workflow {
//		sub := saga.New()
//		for _, item := range results["cart"].(Cart).Items {
//			sub = sub.Add(saga.NewStep(saga.Operation("ship_"+item.SKU), shipItem(item)))
//		}
//		return sub
//	})
func NewMerge(fn MergeFunc) *Merge {
	if fn == nil {
		panic(&NilFuncError{Field: "merge"})
	}
	return &Merge{fn: fn}
}
