package pipeline

import (
	"context"
	"sync"
)

// SwitchLatest maps every upstream value through fn, keeping only the most
// recently started call alive.
//
// Each new upstream value cancels the context of the call started for the
// previous value and starts fn for the new one in its own goroutine. Only
// the result of the latest call is forwarded; a superseded call's result is
// dropped even when it finishes after the newer one, and so is a finished
// result that was not yet pulled when a newer value arrived. Output order
// therefore follows initiation order, never completion order.
//
// When upstream ends, the latest call is awaited and its result emitted
// before the pipeline ends. An error returned by the latest call, or by
// upstream, ends the pipeline with that error.
func SwitchLatest[I, O any](p *Pipeline[I], fn func(context.Context, I) (O, error)) *Pipeline[O] {
	return &Pipeline[O]{
		create: func(ctx context.Context) Iterator[O] {
			source := p.create(ctx)
			swCtx, cancel := context.WithCancel(ctx)

			in := make(chan result[I])
			go feed(swCtx, source, in)

			out := make(chan result[O])
			s := &switcher[I, O]{fn: fn, in: in, out: out, inner: make(chan generation[O])}
			go s.run(swCtx)

			return &channelIter[O]{
				ch: out,
				closer: func() error {
					cancel()
					return source.Close()
				},
			}
		},
	}
}

// generation tags an inner result with the upstream value that started it.
type generation[O any] struct {
	gen uint64
	res result[O]
}

type switcher[I, O any] struct {
	fn    func(context.Context, I) (O, error)
	in    <-chan result[I]
	out   chan<- result[O]
	inner chan generation[O]

	wg          sync.WaitGroup
	gen         uint64
	cancelInner context.CancelFunc
}

func (s *switcher[I, O]) run(ctx context.Context) {
	defer close(s.out)
	defer func() {
		if s.cancelInner != nil {
			s.cancelInner()
		}
		s.wg.Wait()
	}()

	var (
		in           = s.in
		inFlight     bool
		pending      *result[O]
		upstreamDone bool
	)

	for {
		if upstreamDone && !inFlight && pending == nil {
			return
		}

		// A nil channel disables its select case.
		var send chan<- result[O]
		var next result[O]
		if pending != nil {
			send, next = s.out, *pending
		}

		select {
		case r, open := <-in:
			switch {
			case !open:
				upstreamDone, in = true, nil
			case r.err != nil:
				s.cancelLatest()
				upstreamDone, in, inFlight = true, nil, false
				pending = &result[O]{err: r.err}
			default:
				pending = nil
				inFlight = true
				s.start(ctx, r.val)
			}

		case g := <-s.inner:
			if g.gen != s.gen {
				continue
			}
			inFlight = false
			res := g.res
			pending = &res

		case send <- next:
			pending = nil
			if next.err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// start supersedes the running call, if any, and launches fn for v.
func (s *switcher[I, O]) start(ctx context.Context, v I) {
	s.cancelLatest()
	s.gen++
	innerCtx, cancel := context.WithCancel(ctx)
	s.cancelInner = cancel

	s.wg.Add(1)
	go func(gen uint64) {
		defer s.wg.Done()
		val, err := s.fn(innerCtx, v)
		select {
		case s.inner <- generation[O]{gen: gen, res: result[O]{val: val, ok: err == nil, err: err}}:
		case <-innerCtx.Done():
		}
	}(s.gen)
}

func (s *switcher[I, O]) cancelLatest() {
	if s.cancelInner != nil {
		s.cancelInner()
		s.cancelInner = nil
	}
}
