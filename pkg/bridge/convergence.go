package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/podbridge-dev/podbridge/pkg/intent"
)

// Clock abstracts the inter-poll sleep so tests can drive many ticks without
// wall-clock delay.
type Clock interface {
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// pollInterval is the fixed delay between convergence polls.
const pollInterval = time.Second

// awaitEstablished polls the intent store until every tracked intent reports
// established, the timeout budget runs out, or the context is cancelled.
//
// Establishment is monotonic: once an intent has been observed established it
// stays converged locally even if a later list omits or contradicts it. A
// list that does not yet report an intent is "not yet", never a fault.
// onProgress fires each time an individual intent converges. A timeout of
// zero waits indefinitely.
func awaitEstablished(ctx context.Context, store intent.Store, tracked []string, timeoutSeconds int, onProgress func(converged, total int), clock Clock) error {
	if clock == nil {
		clock = realClock{}
	}

	established := make(map[string]bool, len(tracked))
	for _, id := range tracked {
		established[id] = false
	}

	remaining := timeoutSeconds
	for {
		observed, err := store.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to poll bridge state: %w", err)
		}

		converged := 0
		for _, done := range established {
			if done {
				converged++
			}
		}
		for _, in := range observed {
			done, ok := established[in.ID]
			if !ok || done || !in.Established {
				continue
			}
			established[in.ID] = true
			converged++
			slog.Info("Bridge established", "name", in.Name, "converged", converged, "total", len(tracked))
			if onProgress != nil {
				onProgress(converged, len(tracked))
			}
		}

		if converged == len(tracked) {
			return nil
		}

		if err := ctx.Err(); err != nil {
			return err
		}
		clock.Sleep(pollInterval)

		if timeoutSeconds > 0 {
			remaining--
			if remaining <= 0 {
				return &TimeoutExceededError{Seconds: timeoutSeconds}
			}
		}
	}
}
