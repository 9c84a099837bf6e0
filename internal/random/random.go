// Package random draws uniformly distributed integers from a cryptographic byte source.
package random

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

var (
	// ErrInvalidRange is returned when max is less than min.
	ErrInvalidRange = errors.New("random: max is less than min")
	// ErrFullRange is returned for a range covering every int64 value.
	ErrFullRange = errors.New("random: full int64 range is not supported")
	// ErrUnavailable is returned when the byte source cannot be read.
	ErrUnavailable = errors.New("random: source unavailable")
)

// Source draws integers from an entropy stream.
type Source struct {
	r io.Reader
}

// New returns a Source reading from r, or from crypto/rand when r is nil.
func New(r io.Reader) *Source {
	if r == nil {
		r = rand.Reader
	}
	return &Source{r: r}
}

// Int64 returns a uniformly distributed integer in [min, max].
//
// Values are drawn as 64-bit words and any word at or above the largest multiple of the
// range size is discarded, so that the final modulo does not favour small results.
func (s *Source) Int64(min, max int64) (int64, error) {
	if max < min {
		return 0, ErrInvalidRange
	}
	if min == math.MinInt64 && max == math.MaxInt64 {
		return 0, ErrFullRange
	}

	span := uint64(max-min) + 1
	limit := math.MaxUint64 - math.MaxUint64%span

	var word [8]byte
	for {
		if _, err := io.ReadFull(s.r, word[:]); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		v := binary.LittleEndian.Uint64(word[:])
		if v < limit {
			return min + int64(v%span), nil
		}
	}
}

// Intn returns a uniformly distributed integer in [1, n]. It is the form used to pick
// 1-based record numbers.
func (s *Source) Intn(n int) (int, error) {
	v, err := s.Int64(1, int64(n))
	if err != nil {
		return 0, err
	}
	return int(v), nil
}
