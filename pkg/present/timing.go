package present

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Timing is where the last Present spent its time: Blit covers the whole
// composite and hand-off, Flip just the surface update.
type Timing struct {
	Blit time.Duration
	Flip time.Duration
}

func (t Timing) String() string {
	return fmt.Sprintf("blit=%04.1f ms  flip=%04.1f ms", ms(t.Blit), ms(t.Flip))
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Limiter caps the presentation rate. A nil Limiter never waits.
type Limiter struct {
	lim *rate.Limiter
}

// NewLimiter returns a limiter allowing maxFPS frames per second, or nil
// when maxFPS is not positive.
func NewLimiter(maxFPS int) *Limiter {
	if maxFPS <= 0 {
		return nil
	}
	return &Limiter{lim: rate.NewLimiter(rate.Limit(maxFPS), 1)}
}

// Wait blocks until the next frame may be presented.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	if err := l.lim.Wait(ctx); err != nil {
		return fmt.Errorf("frame limiter: %w", err)
	}
	return nil
}
