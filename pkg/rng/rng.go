// Package rng provides the random draw sources behind every settlement and
// raffle resolution. The production source draws from crypto/rand; tests
// swap in the scripted or seeded sources from testing.go.
package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
)

// ErrInvalidRange rejects non-positive draw ranges.
var ErrInvalidRange = errors.New("draw range must be positive")

// Source produces unbiased random draws. A draw is obtained inside the
// operation that consumes it and must not be observable or influenceable
// by the caller before that operation completes.
type Source interface {
	// Intn returns a uniform integer in [0, max).
	Intn(max int64) (int64, error)
	// Bytes returns n random bytes.
	Bytes(n int) ([]byte, error)
	// Uint64 returns a full-width random integer.
	Uint64() (uint64, error)
}

// CryptoSource draws from crypto/rand. Uniformity over [0, max) comes from
// rand.Int's rejection sampling, never from modulo reduction.
type CryptoSource struct{}

// NewCryptoSource returns the production draw source.
func NewCryptoSource() *CryptoSource {
	return &CryptoSource{}
}

func (s *CryptoSource) Intn(max int64) (int64, error) {
	if max <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRange, max)
	}
	v, err := crand.Int(crand.Reader, big.NewInt(max))
	if err != nil {
		return 0, fmt.Errorf("reading random int: %w", err)
	}
	return v.Int64(), nil
}

func (s *CryptoSource) Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := crand.Read(b); err != nil {
		return nil, fmt.Errorf("reading random bytes: %w", err)
	}
	return b, nil
}

func (s *CryptoSource) Uint64() (uint64, error) {
	b, err := s.Bytes(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}
