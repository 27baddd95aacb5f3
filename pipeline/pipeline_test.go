package pipeline

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"
)

func TestFromChannel(t *testing.T) {
	ch := make(chan string, 3)
	ch <- "go"
	ch <- "rust"
	close(ch)

	got, err := Collect(context.Background(), FromChannel(ch))
	if err != nil {
		t.Fatal(err)
	}
	if !strSliceEqual(got, []string{"go", "rust"}) {
		t.Errorf("got %v, want [go rust]", got)
	}
}

func TestFromChannel_ContextCancelled(t *testing.T) {
	ch := make(chan string)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := Collect(ctx, FromChannel(ch))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestMap(t *testing.T) {
	p := FromSlice([]string{"Go", "RUST"})
	lower := Map(p, func(_ context.Context, s string) (string, error) {
		return strings.ToLower(s), nil
	})
	got, err := Collect(context.Background(), lower)
	if err != nil {
		t.Fatal(err)
	}
	if !strSliceEqual(got, []string{"go", "rust"}) {
		t.Errorf("got %v, want [go rust]", got)
	}
}

func TestMap_Error(t *testing.T) {
	p := FromSlice([]int{1, 2, 3})
	fail := Map(p, func(_ context.Context, n int) (int, error) {
		if n == 2 {
			return 0, errors.New("bad value")
		}
		return n, nil
	})
	got, err := Collect(context.Background(), fail)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("expected [1] before error, got %v", got)
	}
}

func TestTap(t *testing.T) {
	var tapped []int
	p := FromSlice([]int{1, 2, 3})
	observed := Tap(p, func(_ context.Context, n int) error {
		tapped = append(tapped, n)
		return nil
	})
	got, err := Collect(context.Background(), observed)
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{1, 2, 3}) {
		t.Errorf("values should pass through unchanged, got %v", got)
	}
	if !intSliceEqual(tapped, []int{1, 2, 3}) {
		t.Errorf("tap should see all values, got %v", tapped)
	}
}

func TestTap_Error(t *testing.T) {
	p := FromSlice([]int{1, 2, 3})
	failing := Tap(p, func(_ context.Context, n int) error {
		if n == 2 {
			return errors.New("tap failed")
		}
		return nil
	})
	_, err := Collect(context.Background(), failing)
	if err == nil || !strings.Contains(err.Error(), "tap failed") {
		t.Errorf("expected tap error, got %v", err)
	}
}

func TestMerge(t *testing.T) {
	merged := Merge(FromSlice([]int{1, 2, 3}), FromSlice([]int{10, 20, 30}))
	got, err := Collect(context.Background(), merged)
	if err != nil {
		t.Fatal(err)
	}
	sort.Ints(got) // order not guaranteed
	if !intSliceEqual(got, []int{1, 2, 3, 10, 20, 30}) {
		t.Errorf("got %v", got)
	}
}

func TestMerge_PropagatesError(t *testing.T) {
	failing := Map(FromSlice([]int{1}), func(_ context.Context, _ int) (int, error) {
		return 0, errors.New("source failed")
	})
	_, err := Collect(context.Background(), Merge(FromSlice([]int{1}), failing))
	if err == nil || !strings.Contains(err.Error(), "source failed") {
		t.Errorf("expected source error, got %v", err)
	}
}

func TestDrain_Run(t *testing.T) {
	var collected []int
	r := Drain(FromSlice([]int{1, 2, 3}), func(_ context.Context, n int) error {
		collected = append(collected, n)
		return nil
	})
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(collected, []int{1, 2, 3}) {
		t.Errorf("got %v, want [1 2 3]", collected)
	}
}

func TestChained_Pipeline(t *testing.T) {
	var tapped []string
	p := FromSlice([]string{"Go", "", "Rust", "Zig"})
	lower := Map(p, func(_ context.Context, s string) (string, error) { return strings.ToLower(s), nil })
	observed := Tap(lower, func(_ context.Context, s string) error {
		tapped = append(tapped, s)
		return nil
	})

	got, err := Collect(context.Background(), observed)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"go", "", "rust", "zig"}
	if !strSliceEqual(got, want) || !strSliceEqual(tapped, want) {
		t.Errorf("got %v, tapped %v, want %v", got, tapped, want)
	}
}

// --- helpers ---

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func strSliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
