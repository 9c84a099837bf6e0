// Package cheat turns a mouse click into a letter of the alphabet.
//
// The display is divided into a grid of 7 columns and 4 rows:
//
//	+---+---+---+---+---+---+---+
//	| A | B | C | D | E | F | G |
//	+---+---+---+---+---+---+---+
//	| H | I | J | K | L | M | N |
//	+---+---+---+---+---+---+---+
//	| O | P | Q | R | S | T | U |
//	+---+---+---+---+---+---+---+
//	| V | W | X | Y | Z |   |   |
//	+---+---+---+---+---+---+---+
//
// The last two cells carry no letter. Display sizes rarely divide evenly, so the final
// column and row absorb the remainder.
package cheat

import (
	"context"
	"errors"
	"fmt"
	"io"
)

const (
	gridColumns = 7
	gridRows    = 4
)

var grid = [gridRows][gridColumns]byte{
	{'A', 'B', 'C', 'D', 'E', 'F', 'G'},
	{'H', 'I', 'J', 'K', 'L', 'M', 'N'},
	{'O', 'P', 'Q', 'R', 'S', 'T', 'U'},
	{'V', 'W', 'X', 'Y', 'Z', 0, 0},
}

// ErrNoDisplay is returned when the display geometry is unusable.
var ErrNoDisplay = errors.New("cheat: display dimensions unavailable")

// Point is a position or size in display pixels.
type Point struct {
	X, Y int
}

// Letter maps pos on a display of size dim to its grid letter. The boolean is false
// for the two blank cells and for displays too small to hold the grid.
func Letter(dim, pos Point) (byte, bool) {
	cellX := dim.X / gridColumns
	cellY := dim.Y / gridRows
	if cellX <= 0 || cellY <= 0 {
		return 0, false
	}

	column := clamp(pos.X/cellX, 0, gridColumns-1)
	row := clamp(pos.Y/cellY, 0, gridRows-1)

	c := grid[row][column]
	return c, c != 0
}

// Screen reports the display size and where the pointer sits on it.
type Screen interface {
	Size() (Point, error)
	Pointer() (Point, error)
}

// Capturer follows a pointing device until the left button is clicked.
type Capturer struct {
	// Device yields raw PS/2 packets, typically /dev/input/mice.
	Device io.Reader
	// Screen, when set, supplies the display size and the pointer position at the
	// click. Without it the pointer is tracked from the device alone on a display of
	// size Display.
	Screen Screen
	// Display is the size of the screen the pointer moves on.
	Display Point
}

// Capture blocks until a left click completes and returns the letter under the pointer.
// Malformed packets are skipped. The boolean is false when the click lands on a blank
// cell.
//
// Without a Screen the pointer starts at the centre of the display and follows relative
// motion, clamped to the screen edges.
//
// Capture checks ctx between packets; a read already in progress is only interrupted
// by closing the device.
func (c *Capturer) Capture(ctx context.Context) (byte, bool, error) {
	dim := c.Display
	if c.Screen != nil {
		size, err := c.Screen.Size()
		if err != nil {
			return 0, false, fmt.Errorf("cheat: querying display size: %w", err)
		}
		dim = size
	}
	if dim.X <= 0 || dim.Y <= 0 {
		return 0, false, ErrNoDisplay
	}

	pos := Point{X: dim.X / 2, Y: dim.Y / 2}
	pressed := false

	for {
		if err := ctx.Err(); err != nil {
			return 0, false, err
		}

		p, err := ReadPacket(c.Device)
		if errors.Is(err, ErrBadPacket) {
			continue
		}
		if err != nil {
			return 0, false, fmt.Errorf("cheat: reading pointer: %w", err)
		}

		if !p.XOverflow {
			pos.X = clamp(pos.X+p.DX, 0, dim.X-1)
		}
		if !p.YOverflow {
			// Positive motion is upwards; screen rows grow downwards.
			pos.Y = clamp(pos.Y-p.DY, 0, dim.Y-1)
		}

		switch {
		case p.Left:
			pressed = true
		case pressed:
			if c.Screen != nil {
				if pos, err = c.Screen.Pointer(); err != nil {
					return 0, false, fmt.Errorf("cheat: querying pointer: %w", err)
				}
			}
			letter, ok := Letter(dim, pos)
			return letter, ok, nil
		}
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
