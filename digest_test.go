package saga

import (
	"context"
	"errors"
	"testing"
)

func TestWorkflow_Digest(t *testing.T) {
	ctx := context.Background()

	t.Run("returns one entry per step on success", func(t *testing.T) {
		wf := New().
			Add(NewStep("a", commit(1))).
			Add(NewStep("b", commitNoComp(2))).
			Add(NewStep("c", commit(3)))

		run, err := wf.Perform(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		results, err := run.Digest()
		if err != nil {
			t.Fatalf("unexpected digest error: %v", err)
		}

		if len(results) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(results))
		}
		if results["a"] != 1 || results["b"] != 2 || results["c"] != 3 {
			t.Errorf("unexpected results: %v", results)
		}
	})

	t.Run("reports failed operation, reason and partial results", func(t *testing.T) {
		boom := errors.New("x")

		wf := New().
			Add(NewStep("a", commit(1))).
			Add(NewStep("b", commitNoComp(2))).
			Add(NewStep("c", abort(boom)))

		run, err := wf.Perform(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err = run.Digest()
		if err == nil {
			t.Fatal("expected digest failure")
		}

		var failure *FailureError
		if !errors.As(err, &failure) {
			t.Fatalf("expected FailureError, got %v", err)
		}

		if failure.Op != "c" {
			t.Errorf("expected failed operation 'c', got %q", failure.Op)
		}
		if !errors.Is(failure.Reason, boom) {
			t.Errorf("expected reason 'x', got %v", failure.Reason)
		}
		if len(failure.Partial) != 2 || failure.Partial["a"] != 1 || failure.Partial["b"] != 2 {
			t.Errorf("expected partial results {a:1 b:2}, got %v", failure.Partial)
		}
		if !errors.Is(err, boom) {
			t.Error("expected FailureError to unwrap to the step's reason")
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		wf := New().
			Add(NewStep("a", commit(1))).
			Add(NewStep("b", abort(errors.New("x"))))

		run, err := wf.Perform(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, first := run.Digest()
		_, second := run.Digest()

		var firstErr, secondErr *FailureError
		if !errors.As(first, &firstErr) || !errors.As(second, &secondErr) {
			t.Fatalf("expected FailureError twice, got %v and %v", first, second)
		}

		if firstErr.Op != secondErr.Op || firstErr.Reason != secondErr.Reason {
			t.Error("expected identical digests")
		}
		if len(firstErr.Partial) != len(secondErr.Partial) {
			t.Error("expected identical partial results")
		}
	})

	t.Run("returned map is a copy", func(t *testing.T) {
		wf := New().Add(NewStep("a", commit(1)))

		run, err := wf.Perform(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		results, _ := run.Digest()
		results["a"] = "tampered"

		fresh, _ := run.Digest()
		if fresh["a"] != 1 {
			t.Errorf("expected digest unaffected by caller mutation, got %v", fresh["a"])
		}
	})
}

func TestWorkflow_Errored(t *testing.T) {
	ctx := context.Background()

	t.Run("false for successful run", func(t *testing.T) {
		run, err := New().Add(NewStep("a", commit(1))).Perform(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if run.Errored() {
			t.Error("expected Errored to be false")
		}
	})

	t.Run("true for halted run", func(t *testing.T) {
		run, err := New().Add(NewStep("a", abort(errors.New("x")))).Perform(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !run.Errored() {
			t.Error("expected Errored to be true")
		}
	})
}
