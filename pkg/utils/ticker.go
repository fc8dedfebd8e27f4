package utils

import (
	"context"
	"time"
)

// NewTicker behaves like time.NewTicker but immediately delivers one tick
// on subscription (rather than waiting a full interval for the first
// one) and stops cleanly when ctx is cancelled, closing the returned
// channel instead of leaking the underlying ticker.
func NewTicker(ctx context.Context, interval time.Duration) (ch <-chan time.Time) {
	ctx, cancel := context.WithCancel(ctx)

	tickCh := make(chan time.Time, 1)
	tickCh <- time.Now()

	go func() {
		ticker := time.NewTicker(interval)
		defer func() {
			ticker.Stop()
			close(tickCh)
			cancel()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				tickCh <- t
			}
		}
	}()

	return tickCh
}
