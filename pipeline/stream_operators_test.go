package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// --- Debounce tests ---

func TestDebounce_EmitsLastOfBurst(t *testing.T) {
	ch := make(chan result[string], 10)
	ch <- result[string]{val: "g", ok: true}
	ch <- result[string]{val: "go", ok: true}
	ch <- result[string]{val: "gol", ok: true}
	close(ch)

	src := FromFunc(func(ctx context.Context) Iterator[string] {
		return &channelIter[string]{ch: ch}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	got, err := Collect(ctx, Debounce(src, 50*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if !strSliceEqual(got, []string{"gol"}) {
		t.Errorf("expected [gol], got %v", got)
	}
}

func TestDebounce_SeparateBursts(t *testing.T) {
	in := make(chan string)
	go func() {
		defer close(in)
		for _, s := range []string{"g", "go"} {
			in <- s
		}
		time.Sleep(150 * time.Millisecond)
		for _, s := range []string{"r", "ru", "rust"} {
			in <- s
		}
		time.Sleep(150 * time.Millisecond)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	got, err := Collect(ctx, Debounce(FromChannel(in), 40*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if !strSliceEqual(got, []string{"go", "rust"}) {
		t.Errorf("expected [go rust], got %v", got)
	}
}

func TestDebounce_WaitsForQuiet(t *testing.T) {
	in := make(chan string, 1)
	defer close(in)
	in <- "golang"

	ctx := context.Background()
	iter := Debounce(FromChannel(in), 60*time.Millisecond).Iter(ctx)
	defer iter.Close()

	start := time.Now()
	got, ok, err := iter.Next(ctx)
	if err != nil || !ok || got != "golang" {
		t.Fatalf("Next = %q %v %v", got, ok, err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("value emitted after %v, before the quiet period", elapsed)
	}
}

func TestDebounce_Empty(t *testing.T) {
	ch := make(chan result[int])
	close(ch)

	src := FromFunc(func(ctx context.Context) Iterator[int] {
		return &channelIter[int]{ch: ch}
	})

	got, err := Collect(context.Background(), Debounce(src, 50*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestDebounce_ContextCancelled(t *testing.T) {
	in := make(chan int)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := Collect(ctx, Debounce(FromChannel(in), time.Second))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestDebounce_SourceError(t *testing.T) {
	failing := Map(FromSlice([]int{1}), func(_ context.Context, _ int) (int, error) {
		return 0, errors.New("source broke")
	})
	_, err := Collect(context.Background(), Debounce(failing, 10*time.Millisecond))
	if err == nil {
		t.Fatal("expected source error")
	}
}

// --- SwitchLatest tests ---

func TestSwitchLatest_SequentialValues(t *testing.T) {
	p := SwitchLatest(FromSlice([]int{1}), func(_ context.Context, n int) (int, error) {
		return n * 10, nil
	})
	got, err := Collect(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{10}) {
		t.Errorf("got %v, want [10]", got)
	}
}

func TestSwitchLatest_LatestWinsOutOfOrder(t *testing.T) {
	in := make(chan string)
	releaseSlow := make(chan struct{})
	slowDone := make(chan struct{})

	fetch := func(ctx context.Context, q string) (string, error) {
		if q == "slow" {
			defer close(slowDone)
			<-releaseSlow
			return "result:slow", nil
		}
		return "result:" + q, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	iter := SwitchLatest(FromChannel(in), fetch).Iter(ctx)
	defer iter.Close()

	in <- "slow"
	in <- "fast"

	got, ok, err := iter.Next(ctx)
	if err != nil || !ok {
		t.Fatalf("Next: ok=%v err=%v", ok, err)
	}
	if got != "result:fast" {
		t.Fatalf("expected result:fast, got %q", got)
	}

	// The superseded call finishes after the newer one; it must never surface.
	close(releaseSlow)
	<-slowDone
	close(in)

	got, ok, err = iter.Next(ctx)
	if err != nil || ok {
		t.Errorf("expected end of stream, got %q ok=%v err=%v", got, ok, err)
	}
}

func TestSwitchLatest_CancelsSuperseded(t *testing.T) {
	in := make(chan int)
	var cancelled atomic.Int32
	started := make(chan int, 2)

	fn := func(ctx context.Context, n int) (int, error) {
		started <- n
		if n == 1 {
			<-ctx.Done()
			cancelled.Add(1)
			return 0, ctx.Err()
		}
		return n, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	iter := SwitchLatest(FromChannel(in), fn).Iter(ctx)
	defer iter.Close()

	in <- 1
	<-started
	in <- 2

	got, ok, err := iter.Next(ctx)
	if err != nil || !ok || got != 2 {
		t.Fatalf("Next = %d %v %v, want 2", got, ok, err)
	}
	close(in)
	if _, ok, _ := iter.Next(ctx); ok {
		t.Error("expected end of stream")
	}
	if cancelled.Load() != 1 {
		t.Errorf("expected superseded call to observe cancellation, got %d", cancelled.Load())
	}
}

func TestSwitchLatest_DropsUnpulledResult(t *testing.T) {
	in := make(chan int)
	var mu sync.Mutex
	finished := map[int]chan struct{}{1: make(chan struct{}), 2: make(chan struct{})}

	fn := func(_ context.Context, n int) (int, error) {
		mu.Lock()
		done := finished[n]
		mu.Unlock()
		defer close(done)
		return n, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	iter := SwitchLatest(FromChannel(in), fn).Iter(ctx)
	defer iter.Close()

	in <- 1
	<-finished[1]
	// Give the switcher a moment to hold result 1 as pending.
	time.Sleep(20 * time.Millisecond)
	in <- 2
	<-finished[2]
	close(in)

	got, err := collectIter(ctx, iter)
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{2}) {
		t.Errorf("expected only the latest result [2], got %v", got)
	}
}

func TestSwitchLatest_WaitsForLatestOnUpstreamEnd(t *testing.T) {
	in := make(chan int, 1)
	in <- 7
	close(in)

	p := SwitchLatest(FromChannel(in), func(ctx context.Context, n int) (int, error) {
		select {
		case <-time.After(40 * time.Millisecond):
			return n, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	})
	got, err := Collect(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{7}) {
		t.Errorf("expected [7], got %v", got)
	}
}

func TestSwitchLatest_ErrorEndsStream(t *testing.T) {
	p := SwitchLatest(FromSlice([]int{1}), func(_ context.Context, _ int) (int, error) {
		return 0, errors.New("fetch failed")
	})
	_, err := Collect(context.Background(), p)
	if err == nil || err.Error() != "fetch failed" {
		t.Errorf("expected fetch error, got %v", err)
	}
}

func TestSwitchLatest_CloseCancelsInFlight(t *testing.T) {
	in := make(chan int, 1)
	in <- 1
	returned := make(chan error, 1)

	ctx := context.Background()
	iter := SwitchLatest(FromChannel(in), func(ctx context.Context, _ int) (int, error) {
		<-ctx.Done()
		returned <- ctx.Err()
		return 0, ctx.Err()
	}).Iter(ctx)

	time.Sleep(20 * time.Millisecond)
	iter.Close()

	select {
	case err := <-returned:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("in-flight call was not cancelled by Close")
	}
}

func TestDebounce_SwitchLatest_SearchChain(t *testing.T) {
	in := make(chan string)
	var calls atomic.Int32

	settled := Debounce(FromChannel(in), 30*time.Millisecond)
	results := SwitchLatest(settled, func(_ context.Context, q string) (string, error) {
		calls.Add(1)
		return "articles for " + q, nil
	})

	go func() {
		defer close(in)
		for _, s := range []string{"g", "go", "gol", "gola", "golan", "golang"} {
			in <- s
			time.Sleep(5 * time.Millisecond)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	got, err := Collect(ctx, results)
	if err != nil {
		t.Fatal(err)
	}
	if !strSliceEqual(got, []string{"articles for golang"}) {
		t.Errorf("got %v", got)
	}
	if calls.Load() != 1 {
		t.Errorf("expected exactly one call for the burst, got %d", calls.Load())
	}
}

func collectIter[T any](ctx context.Context, iter Iterator[T]) ([]T, error) {
	var out []T
	for {
		v, ok, err := iter.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}
