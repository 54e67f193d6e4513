package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger. Every roll is logged at debug level with
// its purpose and outcome.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src must be non-nil. A nil logger disables logging.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Chance returns true with probability p. p <= 0 never succeeds and p >= 1
// always succeeds without consuming randomness.
func (r *Roller) Chance(purpose string, p float64) bool {
	switch {
	case p <= 0:
		return false
	case p >= 1:
		return true
	}
	v := r.src.Float64()
	ok := v < p
	r.logger.Debug("chance roll",
		zap.String("purpose", purpose),
		zap.Float64("chance", p),
		zap.Float64("rolled", v),
		zap.Bool("success", ok),
	)
	return ok
}

// Pick returns a uniformly chosen index in [0, n).
//
// Precondition: n > 0.
func (r *Roller) Pick(purpose string, n int) int {
	idx := r.src.Intn(n)
	r.logger.Debug("pick roll",
		zap.String("purpose", purpose),
		zap.Int("options", n),
		zap.Int("picked", idx),
	)
	return idx
}
