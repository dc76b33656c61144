package businessflow

import (
	"context"
	"time"
)

// startCountdown calls onTick with the remaining steps after each interval and
// onDone once the count reaches zero. The returned func stops it; onDone does not
// run after that.
func startCountdown(parent context.Context, steps int, interval time.Duration, onTick func(remaining int), onDone func()) func() {
	ctx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = time.Second
	}

	go func() {
		defer cancel()

		if steps <= 0 {
			if ctx.Err() == nil {
				onDone()
			}
			return
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		remaining := steps
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				remaining--
				onTick(remaining)
				if remaining <= 0 {
					if ctx.Err() == nil {
						onDone()
					}
					return
				}
			}
		}
	}()

	return cancel
}
