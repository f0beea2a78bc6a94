package service

import (
	"context"
	"testing"
)

func TestSequencer_OutOfOrderResponseDiscarded(t *testing.T) {
	seq := NewSequencer[string]("test")

	a, _, releaseA := seq.Begin(context.Background(), "s1")
	defer releaseA()
	b, _, releaseB := seq.Begin(context.Background(), "s1")
	defer releaseB()

	if got, ok := seq.Commit(b, "B"); !ok || got != "B" {
		t.Fatalf("newer result must apply, got %q %v", got, ok)
	}
	if got, ok := seq.Commit(a, "A"); ok || got != "B" {
		t.Fatalf("older result must be discarded, got %q %v", got, ok)
	}
	if cur, _ := seq.Current("s1"); cur != "B" {
		t.Fatalf("view must show B, got %q", cur)
	}
}

func TestSequencer_InOrderResponsesBothApply(t *testing.T) {
	seq := NewSequencer[int]("test")

	a, _, ra := seq.Begin(context.Background(), "s1")
	defer ra()
	if _, ok := seq.Commit(a, 1); !ok {
		t.Fatalf("first result must apply")
	}
	b, _, rb := seq.Begin(context.Background(), "s1")
	defer rb()
	if _, ok := seq.Commit(b, 2); !ok {
		t.Fatalf("second result must apply")
	}
}

func TestSequencer_SessionsAreIndependent(t *testing.T) {
	seq := NewSequencer[string]("test")

	a, _, ra := seq.Begin(context.Background(), "s1")
	defer ra()
	b, _, rb := seq.Begin(context.Background(), "s2")
	defer rb()

	if _, ok := seq.Commit(b, "s2"); !ok {
		t.Fatalf("s2 must apply")
	}
	if _, ok := seq.Commit(a, "s1"); !ok {
		t.Fatalf("s1 must apply regardless of s2")
	}
}

func TestSequencer_UnmountCancelsAndDiscards(t *testing.T) {
	seq := NewSequencer[string]("test")

	ticket, ctx, release := seq.Begin(context.Background(), "s1")
	defer release()

	seq.Unmount("s1")

	select {
	case <-ctx.Done():
	default:
		t.Fatalf("in-flight context must be cancelled on unmount")
	}
	if _, ok := seq.Commit(ticket, "late"); ok {
		t.Fatalf("result of an unmounted view must be discarded")
	}
	if _, ok := seq.Current("s1"); ok {
		t.Fatalf("unmounted view must hold nothing")
	}

	// A remount starts fresh and the old ticket stays dead.
	fresh, _, rf := seq.Begin(context.Background(), "s1")
	defer rf()
	if _, ok := seq.Commit(ticket, "late"); ok {
		t.Fatalf("old ticket must not apply to a new mount")
	}
	if _, ok := seq.Commit(fresh, "new"); !ok {
		t.Fatalf("new mount must accept its own results")
	}
}

func TestSequencer_ReleaseDoesNotCancelMount(t *testing.T) {
	seq := NewSequencer[string]("test")

	_, ctx1, release1 := seq.Begin(context.Background(), "s1")
	release1()
	if ctx1.Err() == nil {
		t.Fatalf("released query context must be done")
	}

	_, ctx2, release2 := seq.Begin(context.Background(), "s1")
	defer release2()
	if ctx2.Err() != nil {
		t.Fatalf("releasing one query must not affect the next")
	}
}

func TestSequencer_UpdateRequiresCommittedValue(t *testing.T) {
	seq := NewSequencer[int]("test")
	if _, ok := seq.Update("s1", func(v int) int { return v + 1 }); ok {
		t.Fatalf("update without a committed value must do nothing")
	}

	tk, _, r := seq.Begin(context.Background(), "s1")
	defer r()
	seq.Commit(tk, 1)

	if v, ok := seq.Update("s1", func(v int) int { return v + 1 }); !ok || v != 2 {
		t.Fatalf("unexpected %d %v", v, ok)
	}
}

func TestSequencer_UpdateStalesEarlierQueries(t *testing.T) {
	seq := NewSequencer[string]("test")

	first, _, r1 := seq.Begin(context.Background(), "s1")
	defer r1()
	seq.Commit(first, "a,b")

	// A reload issued before the local edit must not undo it.
	reload, _, r2 := seq.Begin(context.Background(), "s1")
	defer r2()
	if v, ok := seq.Update("s1", func(string) string { return "b" }); !ok || v != "b" {
		t.Fatalf("unexpected update %q %v", v, ok)
	}
	if v, ok := seq.Commit(reload, "a,b"); ok || v != "b" {
		t.Fatalf("query issued before the update must be stale, view holds %q", v)
	}

	next, _, r3 := seq.Begin(context.Background(), "s1")
	defer r3()
	if _, ok := seq.Commit(next, "c"); !ok {
		t.Fatalf("query issued after the update must apply")
	}
}
