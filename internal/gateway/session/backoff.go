package session

import (
	"math"
	"math/rand"
	"time"
)

// Delay returns the reconnect delay for attempt N (1-based). A nil
// rng pins jitter to its midpoint, which keeps tests deterministic.
func (cfg BackoffConfig) Delay(attempt int, rng *rand.Rand) time.Duration {
	if cfg.InitialDelay <= 0 {
		return 0
	}
	if attempt <= 1 {
		return cfg.applyJitter(float64(cfg.InitialDelay), rng)
	}
	multiplier := cfg.Multiplier
	if multiplier < 1.0 {
		multiplier = 1.0
	}
	delay := float64(cfg.InitialDelay) * math.Pow(multiplier, float64(attempt-1))
	if cfg.MaxDelay > 0 && delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}
	return cfg.applyJitter(delay, rng)
}

func (cfg BackoffConfig) applyJitter(delay float64, rng *rand.Rand) time.Duration {
	if !cfg.Jitter {
		return time.Duration(delay)
	}
	f := 0.5
	if rng != nil {
		f = 0.5 + rng.Float64()
	}
	return time.Duration(delay * f)
}
