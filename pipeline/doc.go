// Package pipeline provides composable, pull-based stream operators.
//
// Pipelines are lazy: no work happens until Drain pulls values through
// them. Each stage pulls from the previous stage on demand,
// which gives backpressure without explicit flow control.
//
// # Operators
//
// Source:
//
//   - FromChannel: a live input slot such as keystrokes
//
// Synchronous (single-goroutine):
//
//   - Map: transform each value
//   - Tap: side-effect without altering the value
//
// Time and concurrency:
//
//   - Debounce: emit only after a quiet period; the last value of a burst wins
//   - SwitchLatest: run an async call per value, cancel the previous one and
//     forward only the most recently started call's result
//   - Merge: combine pipelines concurrently
//
// # Usage
//
//	settled := pipeline.Debounce(pipeline.FromChannel(keystrokes), 300*time.Millisecond)
//	queries := pipeline.Map(settled, func(_ context.Context, s string) (string, error) {
//	    return strings.ToLower(s), nil
//	})
//	results := pipeline.SwitchLatest(queries, client.Search)
//	err := pipeline.Drain(results, publish).Run(ctx)
package pipeline
