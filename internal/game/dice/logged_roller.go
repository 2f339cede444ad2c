package dice

import "go.uber.org/zap"

// Roller draws from a Source and logs every draw at debug level.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller over src.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if src == nil || logger == nil {
		panic("dice: NewLoggedRoller requires a source and a logger")
	}
	return &Roller{src: src, logger: logger}
}

// Roll evaluates expr and logs the result.
func (r *Roller) Roll(expr Expression) RollResult {
	result := expr.Roll(r.src)
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result
}

// Range returns a value in [lo, hi).
//
// Precondition: hi > lo.
func (r *Roller) Range(lo, hi int) int {
	if hi <= lo {
		panic("dice: Range called with hi <= lo")
	}
	v := lo + r.src.Intn(hi-lo)
	r.logger.Debug("dice range", zap.Int("lo", lo), zap.Int("hi", hi), zap.Int("value", v))
	return v
}

// Percent reports whether a d100 roll lands under chance.
func (r *Roller) Percent(chance int) bool {
	return r.Range(0, 100) < chance
}

// Pick returns a random index into a slice of length n.
//
// Precondition: n > 0.
func (r *Roller) Pick(n int) int {
	return r.Range(0, n)
}
