// Package rng provides the seeded random streams used by augmenters.
//
// Every augmenter owns exactly one Stream. A Stream can Fork() child streams
// deterministically: the child's seed is drawn from the parent, so running a
// pipeline twice from the same root seed reproduces the exact same tree of
// streams, while the children are statistically independent of each other.
// Freeze() produces a stream that replays the same draw sequence on every
// Use() — the building block of deterministic augmenter clones.
package rng

import (
	"math/rand"
	"sync"
	"time"
)

// Stream is a seeded source of randomness. It is not safe for concurrent
// use; fork a child per goroutine instead.
type Stream struct {
	seed   int64
	r      *rand.Rand
	frozen bool
}

// New returns a stream seeded with the given value.
func New(seed int64) *Stream {
	return &Stream{seed: seed, r: rand.New(rand.NewSource(seed))}
}

var (
	globalMu sync.Mutex
	global   *rand.Rand
)

// NewAuto returns a stream with a seed drawn from a process-global source.
// Use New with an explicit seed for reproducible pipelines.
func NewAuto() *Stream {
	globalMu.Lock()
	defer globalMu.Unlock()
	if global == nil {
		global = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return New(global.Int63())
}

// Seed returns the seed the stream was created with.
func (s *Stream) Seed() int64 { return s.seed }

// Fork derives a new, independent child stream. The child's seed is drawn
// from this stream, so forking advances the parent deterministically.
func (s *Stream) Fork() *Stream {
	return New(s.r.Int63())
}

// ForkN derives n child streams in order.
func (s *Stream) ForkN(n int) []*Stream {
	out := make([]*Stream, n)
	for i := range out {
		out[i] = s.Fork()
	}
	return out
}

// Freeze returns a frozen copy of the stream. Every Use() of the frozen copy
// restarts from the stored seed, so repeated augmenter calls replay the same
// draw sequence.
func (s *Stream) Freeze() *Stream {
	return &Stream{seed: s.seed, r: rand.New(rand.NewSource(s.seed)), frozen: true}
}

// Frozen reports whether the stream replays a fixed sequence.
func (s *Stream) Frozen() bool { return s.frozen }

// Use returns the stream to draw from for one augmentation call: the stream
// itself when live (draws advance it), or a fresh replay of the stored seed
// when frozen.
func (s *Stream) Use() *Stream {
	if s.frozen {
		return New(s.seed)
	}
	return s
}

// Float64 draws a uniform value from [0, 1).
func (s *Stream) Float64() float64 { return s.r.Float64() }

// Intn draws a uniform int from [0, n).
func (s *Stream) Intn(n int) int { return s.r.Intn(n) }

// Int63 draws a non-negative 63-bit integer.
func (s *Stream) Int63() int64 { return s.r.Int63() }
