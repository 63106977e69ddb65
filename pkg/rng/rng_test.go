package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCryptoSourceBounds(t *testing.T) {
	s := NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v, err := s.Intn(10000)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, int64(0))
		assert.Less(t, v, int64(10000))
	}

	_, err := s.Intn(0)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = s.Intn(-5)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestCryptoSourceBytes(t *testing.T) {
	s := NewCryptoSource()
	b, err := s.Bytes(16)
	require.NoError(t, err)
	assert.Len(t, b, 16)
}

func TestScriptedSourceReplays(t *testing.T) {
	s := NewScriptedSource(150, 9999, 12345)

	v, err := s.Intn(10000)
	require.NoError(t, err)
	assert.Equal(t, int64(150), v)

	v, err = s.Intn(10000)
	require.NoError(t, err)
	assert.Equal(t, int64(9999), v)

	// Values beyond max reduce modulo max.
	v, err = s.Intn(10000)
	require.NoError(t, err)
	assert.Equal(t, int64(2345), v)

	_, err = s.Intn(10000)
	assert.ErrorIs(t, err, ErrScriptExhausted)
}

func TestScriptedSourceBytes(t *testing.T) {
	s := NewScriptedSource()
	s.PushBytes([]byte{1, 2, 3, 4})

	b, err := s.Bytes(4)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, b)

	_, err = s.Bytes(4)
	assert.ErrorIs(t, err, ErrScriptExhausted)

	s.PushBytes([]byte{1})
	_, err = s.Bytes(8)
	assert.Error(t, err)
}

func TestSeededSourceDeterministic(t *testing.T) {
	a := NewSeededSource(42)
	b := NewSeededSource(42)
	for i := 0; i < 100; i++ {
		va, err := a.Intn(1 << 30)
		require.NoError(t, err)
		vb, err := b.Intn(1 << 30)
		require.NoError(t, err)
		assert.Equal(t, va, vb)
	}
}
