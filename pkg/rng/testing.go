package rng

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
)

// ErrScriptExhausted is returned when a ScriptedSource runs out of queued
// draws; a test hitting it scripted fewer draws than the code consumed.
var ErrScriptExhausted = errors.New("scripted draw source exhausted")

// ScriptedSource replays a fixed queue of draws so tier and payout
// outcomes are reproducible in tests. Intn values are reduced modulo max
// so a script written for one range stays usable for another.
type ScriptedSource struct {
	mu    sync.Mutex
	ints  []int64
	bytes [][]byte
	words []uint64
}

// NewScriptedSource queues integer draws in consumption order.
func NewScriptedSource(ints ...int64) *ScriptedSource {
	return &ScriptedSource{ints: ints}
}

// PushInts appends integer draws to the queue.
func (s *ScriptedSource) PushInts(ints ...int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ints = append(s.ints, ints...)
}

// PushBytes appends one Bytes result to the queue.
func (s *ScriptedSource) PushBytes(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bytes = append(s.bytes, b)
}

// PushUint64 appends full-width draws to the queue.
func (s *ScriptedSource) PushUint64(words ...uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.words = append(s.words, words...)
}

func (s *ScriptedSource) Intn(max int64) (int64, error) {
	if max <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRange, max)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ints) == 0 {
		return 0, fmt.Errorf("%w: Intn", ErrScriptExhausted)
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % max, nil
}

func (s *ScriptedSource) Bytes(n int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.bytes) == 0 {
		return nil, fmt.Errorf("%w: Bytes", ErrScriptExhausted)
	}
	b := s.bytes[0]
	s.bytes = s.bytes[1:]
	if len(b) != n {
		return nil, fmt.Errorf("scripted bytes length %d, requested %d", len(b), n)
	}
	return b, nil
}

func (s *ScriptedSource) Uint64() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.words) == 0 {
		return 0, fmt.Errorf("%w: Uint64", ErrScriptExhausted)
	}
	v := s.words[0]
	s.words = s.words[1:]
	return v, nil
}

// SeededSource draws from a seeded math/rand generator, for statistical
// tests that need many reproducible draws. Not for production use.
type SeededSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededSource returns a deterministic source for the given seed.
func NewSeededSource(seed int64) *SeededSource {
	return &SeededSource{r: rand.New(rand.NewSource(seed))}
}

func (s *SeededSource) Intn(max int64) (int64, error) {
	if max <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRange, max)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Int63n(max), nil
}

func (s *SeededSource) Bytes(n int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := make([]byte, n)
	if _, err := s.r.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *SeededSource) Uint64() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Uint64(), nil
}
