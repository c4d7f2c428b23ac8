package provider

import (
	"context"
	"sync"
	"time"
)

// Throttle is a token bucket for outbound calls to free endpoints. It holds
// up to burst tokens and earns one back every interval.
type Throttle struct {
	mu       sync.Mutex
	now      func() time.Time
	tokens   int
	burst    int
	interval time.Duration
	last     time.Time
}

func NewThrottle(burst int, interval time.Duration) *Throttle {
	if burst <= 0 {
		burst = 1
	}
	if interval <= 0 {
		interval = time.Second
	}
	t := &Throttle{now: time.Now, tokens: burst, burst: burst, interval: interval}
	t.last = t.now()
	return t
}

// TryTake takes a token without blocking. When the bucket is empty it
// reports how long until the next token.
func (t *Throttle) TryTake() (bool, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if earned := int(now.Sub(t.last) / t.interval); earned > 0 {
		t.tokens = min(t.burst, t.tokens+earned)
		t.last = t.last.Add(time.Duration(earned) * t.interval)
	}
	if t.tokens > 0 {
		t.tokens--
		return true, 0
	}
	return false, t.last.Add(t.interval).Sub(now)
}

// Wait blocks until a token is taken or ctx ends.
func (t *Throttle) Wait(ctx context.Context) error {
	for {
		ok, retry := t.TryTake()
		if ok {
			return nil
		}
		timer := time.NewTimer(retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
