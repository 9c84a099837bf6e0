package basil

import (
	"io"
	"math"
)

const (
	defaultBufferSize = 1 << 12 // 4096 bytes

	// maxBufferSize leaves room for the trailing terminator within an int length.
	maxBufferSize = math.MaxInt - 1
)

// readInput drains r into a buffer holding exactly the bytes read plus one trailing
// NUL terminator. The working buffer starts at defaultBufferSize and doubles each time
// it fills; it may never exceed limit bytes (zero or negative means maxBufferSize).
func readInput(r io.Reader, limit int) ([]byte, error) {
	if limit <= 0 || limit > maxBufferSize {
		limit = maxBufferSize
	}

	buf := make([]byte, min(defaultBufferSize, limit))
	used := 0

	for {
		if used == len(buf) {
			if used == limit {
				// Full at the limit: the input only fits if the stream is exhausted.
				var probe [1]byte
				n, err := io.ReadFull(r, probe[:])
				if n > 0 {
					return nil, ErrInputTooLarge
				}
				if err == io.EOF {
					break
				}
				if err != nil {
					return nil, &ReadError{Offset: used, Err: err}
				}
			}
			buf = growBuffer(buf, limit)
		}

		n, err := r.Read(buf[used:])
		used += n
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ReadError{Offset: used, Err: err}
		}
	}

	if used == 0 {
		return nil, ErrEmptyInput
	}

	// Shrink to the bytes read and terminate.
	out := make([]byte, used+1)
	copy(out, buf[:used])
	out[used] = 0
	return out, nil
}

// growBuffer doubles buf's length, capped at limit, preserving its contents.
func growBuffer(buf []byte, limit int) []byte {
	size := len(buf) * 2
	if len(buf) > limit/2 {
		size = limit
	}
	grown := make([]byte, size)
	copy(grown, buf)
	return grown
}
