package utils

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Clock supplies the current time. Injected wherever timestamps are
// assigned so tests can substitute a fixed time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by the wall clock.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns the same instant, for tests.
type FixedClock struct {
	Time time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.Time
}

// IDGenerator supplies new opaque identifiers.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator is the production IDGenerator backed by random UUIDs.
type UUIDGenerator struct{}

// NewID returns a new UUID string.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceGenerator hands out deterministic IDs, for tests.
type SequenceGenerator struct {
	Prefix string
	next   int
}

// NewID returns the next ID in the sequence.
func (g *SequenceGenerator) NewID() string {
	g.next++
	return g.Prefix + "-" + strconv.Itoa(g.next)
}
