package session

import (
	"math"
	"math/rand"
	"time"
)

// Delay returns the wait before retrying after failed attempt n (1-based).
// Jitter scales the delay into [0.5, 1.5) and never exceeds MaxDelay.
func (b BackoffConfig) Delay(n int, rng *rand.Rand) time.Duration {
	if b.InitialDelay <= 0 {
		return 0
	}
	mult := math.Max(b.Multiplier, 1)
	delay := float64(b.InitialDelay)
	if n > 1 {
		delay *= math.Pow(mult, float64(n-1))
	}
	if b.Jitter {
		f := 1.0
		if rng != nil {
			f = 0.5 + rng.Float64()
		}
		delay *= f
	}
	if b.MaxDelay > 0 && delay > float64(b.MaxDelay) {
		delay = float64(b.MaxDelay)
	}
	return time.Duration(delay)
}

// Exhausted reports whether no retry may follow attempt n.
func (b BackoffConfig) Exhausted(n int) bool {
	return b.MaxAttempts > 0 && n >= b.MaxAttempts
}
