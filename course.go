package main

import (
	"errors"
	"math/rand"
)

const (
	// ObstacleHorizon is how many obstacles are generated per process.
	ObstacleHorizon = 50

	gapOffsetMin  = 50
	gapOffsetSpan = 200
)

// ErrObstacleOutOfRange is returned by Course.At for indexes past the
// generated horizon. Wrapping modulo the horizon is the caller's policy.
var ErrObstacleOutOfRange = errors.New("obstacle index out of range")

// Course is the shared obstacle timeline: one vertical gap offset per
// obstacle index. It is generated once and never mutated afterwards, so
// every client renders the same geometry for the same index no matter how
// its local scroll clock drifts.
type Course struct {
	offsets []int
}

// NewCourse draws horizon gap offsets in [50, 250) from rng.
func NewCourse(horizon int, rng *rand.Rand) *Course {
	offsets := make([]int, horizon)
	for i := range offsets {
		offsets[i] = gapOffsetMin + rng.Intn(gapOffsetSpan)
	}
	return &Course{offsets: offsets}
}

// At returns the gap offset for one obstacle index.
func (c *Course) At(index int) (int, error) {
	if index < 0 || index >= len(c.offsets) {
		return 0, ErrObstacleOutOfRange
	}
	return c.offsets[index], nil
}

// Horizon returns how many obstacles were generated.
func (c *Course) Horizon() int {
	return len(c.offsets)
}

// Offsets returns a copy of the whole sequence in index order, as the
// admission event carries it.
func (c *Course) Offsets() []int {
	out := make([]int, len(c.offsets))
	copy(out, c.offsets)
	return out
}
