package sse

import (
	"context"

	"github.com/kbukum/newsfeed/logger"
)

// Feed pushes events into b until ctx is done.
type Feed func(ctx context.Context, b Broadcaster)

// ForwardJSON returns a Feed that broadcasts every value from subscribe as a
// JSON event to the clients matching pattern. subscribe opens a stream of
// values and returns a function that closes it.
func ForwardJSON[T any](pattern, eventType string, subscribe func(buffer int) (<-chan T, func()), log *logger.Logger) Feed {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return func(ctx context.Context, b Broadcaster) {
		values, cancel := subscribe(1)
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-values:
				if !ok {
					return
				}
				ev, err := JSONEvent(eventType, v)
				if err != nil {
					log.Error("Dropping event", logger.Fields("event", eventType, "error", err.Error()))
					continue
				}
				b.BroadcastToPattern(pattern, ev)
			}
		}
	}
}
