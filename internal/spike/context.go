// Package spike implements the genotype spiking engine: per-gene
// aggregation, weighted cohort sampling, and the spike ledger.
package spike

import (
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// EngineContext carries the state shared by every engine component:
// the seeded random generator, the logger, the recorded invocation, and
// diagnostic counters. There is no ambient/global state; a fixed seed
// plus fixed input yields byte-identical output.
type EngineContext struct {
	Rand       *rand.Rand
	Log        *zap.Logger
	Invocation string

	// Diagnostic counters.
	Warnings     int
	DosageCaps   int
	UniformFalls int // weighted draws that fell back to uniform
}

// NewEngineContext creates a context seeded with the given seed.
// A zero seed selects a time-derived seed (non-reproducible runs).
func NewEngineContext(seed int64) *EngineContext {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &EngineContext{
		Rand: rand.New(rand.NewSource(seed)),
		Log:  zap.NewNop(),
	}
}

// SetLogger sets the logger for engine diagnostics.
func (c *EngineContext) SetLogger(l *zap.Logger) {
	c.Log = l
}

// Warn logs a recoverable anomaly and counts it.
func (c *EngineContext) Warn(msg string, fields ...zap.Field) {
	c.Warnings++
	c.Log.Warn(msg, fields...)
}
