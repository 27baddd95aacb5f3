package pipeline

import (
	"context"
	"errors"
	"sync"
)

// Merge combines multiple pipelines concurrently.
// Values are yielded as they become available from any source; the relative
// order of values from one source is kept, order across sources is not.
// The merged pipeline ends once every source has ended.
func Merge[T any](pipelines ...*Pipeline[T]) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(ctx context.Context) Iterator[T] {
			mergeCtx, cancel := context.WithCancel(ctx)
			out := make(chan result[T], len(pipelines))
			iters := make([]Iterator[T], len(pipelines))

			var wg sync.WaitGroup
			for i, p := range pipelines {
				iters[i] = p.create(mergeCtx)
				in := make(chan result[T])
				go feed(mergeCtx, iters[i], in)

				wg.Add(1)
				go func() {
					defer wg.Done()
					for r := range in {
						select {
						case out <- r:
						case <-mergeCtx.Done():
							return
						}
					}
				}()
			}

			go func() {
				wg.Wait()
				close(out)
			}()

			return &channelIter[T]{
				ch: out,
				closer: func() error {
					cancel()
					errs := make([]error, 0, len(iters))
					for _, iter := range iters {
						errs = append(errs, iter.Close())
					}
					return errors.Join(errs...)
				},
			}
		},
	}
}
