package saga

import (
	"context"
	"errors"
	"testing"
)

func TestNewBranch(t *testing.T) {
	work := func(ctx context.Context, results Results) Outcome {
		return Commit(1)
	}

	t.Run("panics on nil conditional", func(t *testing.T) {
		defer func() {
			r := recover()
			if r == nil {
				t.Fatal("expected panic")
			}

			var nilErr *NilFuncError
			if !errors.As(r.(error), &nilErr) {
				t.Fatalf("expected NilFuncError, got %v", r)
			}
			if nilErr.Field != "conditional" {
				t.Errorf("expected field 'conditional', got %q", nilErr.Field)
			}
		}()

		NewBranch(nil, NewStep("yes", work), NewStep("no", work))
	})

	t.Run("panics on nil success step", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic")
			}
		}()

		NewBranch(func(results Results) bool { return true }, nil, NewStep("no", work))
	})

	t.Run("panics on nil failure step", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic")
			}
		}()

		NewBranch(func(results Results) bool { return true }, NewStep("yes", work), nil)
	})
}

func TestWorkflow_Perform_Branch(t *testing.T) {
	ctx := context.Background()

	// branchFixture builds a branch whose arms record their invocations.
	branchFixture := func(cond Predicate, called *[]string) *Branch {
		success := NewStep("taken", func(ctx context.Context, results Results) Outcome {
			*called = append(*called, "taken")
			return Commit("success-value")
		})
		failure := NewStep("fallback", func(ctx context.Context, results Results) Outcome {
			*called = append(*called, "fallback")
			return Commit("failure-value")
		})
		return NewBranch(cond, success, failure)
	}

	t.Run("true conditional selects the success step", func(t *testing.T) {
		called := make([]string, 0)

		wf := New().
			Add(branchFixture(func(results Results) bool { return true }, &called))

		run, err := wf.Perform(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if run.results["taken"] != "success-value" {
			t.Errorf("expected success step result, got %v", run.results)
		}
		if len(called) != 1 || called[0] != "taken" {
			t.Errorf("expected only the success step to run, got %v", called)
		}
	})

	t.Run("false conditional selects the failure step", func(t *testing.T) {
		called := make([]string, 0)

		wf := New().
			Add(branchFixture(func(results Results) bool { return false }, &called))

		run, err := wf.Perform(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if run.results["fallback"] != "failure-value" {
			t.Errorf("expected failure step result, got %v", run.results)
		}
		if len(called) != 1 || called[0] != "fallback" {
			t.Errorf("expected only the failure step to run, got %v", called)
		}
	})

	t.Run("conditional sees results of earlier steps", func(t *testing.T) {
		called := make([]string, 0)

		wf := New().
			Add(NewStep("check", commitNoComp(true))).
			Add(branchFixture(func(results Results) bool {
				return results["check"].(bool)
			}, &called))

		run, err := wf.Perform(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, ok := run.results["taken"]; !ok {
			t.Errorf("expected success arm, got %v", run.results)
		}
	})

	t.Run("execution continues past the chosen step", func(t *testing.T) {
		called := make([]string, 0)

		wf := New().
			Add(branchFixture(func(results Results) bool { return true }, &called)).
			Add(NewStep("after", func(ctx context.Context, results Results) Outcome {
				called = append(called, "after")
				return Commit("done")
			}))

		run, err := wf.Perform(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(called) != 2 || called[1] != "after" {
			t.Errorf("expected branch arm then trailing step, got %v", called)
		}
		if run.results["after"] != "done" {
			t.Errorf("expected trailing step result, got %v", run.results)
		}
	})

	t.Run("failing chosen step halts the workflow", func(t *testing.T) {
		boom := errors.New("boom")
		branch := NewBranch(
			func(results Results) bool { return true },
			NewStep("taken", abort(boom)),
			NewStep("fallback", commit("unused")),
		)

		run, err := New().Add(branch).Perform(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !run.Errored() {
			t.Fatal("expected halted workflow")
		}
		if run.FailedOp() != "taken" {
			t.Errorf("expected failed operation 'taken', got %q", run.FailedOp())
		}
	})
}
