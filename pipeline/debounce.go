package pipeline

import (
	"context"
	"time"
)

// Debounce emits a value only after d has passed without a newer one.
// Every value that arrives during the quiet period restarts the timer, so
// only the last value of a burst survives. When the source ends, a value
// still waiting for its quiet period is emitted immediately.
func Debounce[T any](p *Pipeline[T], d time.Duration) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(ctx context.Context) Iterator[T] {
			source := p.create(ctx)
			debCtx, cancel := context.WithCancel(ctx)

			ch := make(chan result[T], 1)
			go feed(debCtx, source, ch)

			return &debounceIter[T]{
				ch:    ch,
				quiet: d,
				closer: func() error {
					cancel()
					return source.Close()
				},
			}
		},
	}
}

type debounceIter[T any] struct {
	ch     <-chan result[T]
	quiet  time.Duration
	closer func() error
}

func (it *debounceIter[T]) Next(ctx context.Context) (T, bool, error) {
	var (
		latest  T
		pending bool
		// nil until the first value arrives; a nil channel never fires.
		timer  *time.Timer
		expiry <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case r, open := <-it.ch:
			if !open {
				return latest, pending, nil
			}
			if r.err != nil {
				var zero T
				return zero, false, r.err
			}
			latest, pending = r.val, true
			if timer == nil {
				timer = time.NewTimer(it.quiet)
				expiry = timer.C
			} else {
				timer.Reset(it.quiet)
			}

		case <-expiry:
			return latest, true, nil

		case <-ctx.Done():
			var zero T
			return zero, false, ctx.Err()
		}
	}
}

func (it *debounceIter[T]) Close() error {
	return it.closer()
}
