package sampler

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler draws one value from N(mean, stddev).
type Sampler interface {
	Sample(mean, stddev float64) float64
}

type Normal struct {
	once sync.Once
	seed func() (uint64, uint64)
	rng  *rand.Rand
}

// NewNormal returns a sampler seeded lazily from system entropy.
func NewNormal() *Normal {
	return &Normal{seed: entropySeed}
}

// NewSeeded returns a sampler whose stream is fully determined by seed.
func NewSeeded(seed uint64) *Normal {
	return &Normal{seed: func() (uint64, uint64) {
		return seed, seed ^ 0x9e3779b97f4a7c15
	}}
}

func (n *Normal) init() {
	hi, lo := n.seed()
	n.rng = rand.New(rand.NewPCG(hi, lo))
}

// Sample returns mean + stddev*z for a standard normal z. A zero stddev
// returns mean exactly.
func (n *Normal) Sample(mean, stddev float64) float64 {
	n.once.Do(n.init)
	return distuv.Normal{Mu: mean, Sigma: stddev, Src: n.rng}.Rand()
}

func entropySeed() (uint64, uint64) {
	var buf [16]byte
	if _, err := crand.Read(buf[:]); err != nil {
		now := uint64(time.Now().UnixNano())
		return now, now >> 1
	}
	return binary.LittleEndian.Uint64(buf[:8]), binary.LittleEndian.Uint64(buf[8:])
}

// Synchronized serialises access to a shared Sampler.
type Synchronized struct {
	mu    sync.Mutex
	inner Sampler
}

func NewSynchronized(s Sampler) *Synchronized {
	return &Synchronized{inner: s}
}

func (s *Synchronized) Sample(mean, stddev float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Sample(mean, stddev)
}

// Factory builds the sampler owned by one worker.
type Factory func(worker int) Sampler

// EntropyFactory gives every worker an independently entropy-seeded stream.
func EntropyFactory() Factory {
	return func(int) Sampler { return NewNormal() }
}

// SeededFactory gives worker k the stream NewSeeded(seed+k).
func SeededFactory(seed uint64) Factory {
	return func(worker int) Sampler { return NewSeeded(seed + uint64(worker)) }
}
