package xclient

import (
	"golang.org/x/time/rate"

	"replygraph/internal/config"
)

// newLimiter builds the client-side limiter from upstream config, falling back
// to 2 rps with a burst of 10.
func newLimiter(cfg config.UpstreamConfig) *rate.Limiter {
	rps := 2.0
	burst := 10
	if cfg.RPS > 0 {
		rps = cfg.RPS
	}
	if cfg.Burst > 0 {
		burst = cfg.Burst
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}
