package cheat

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// X11 is a Screen backed by an X server connection. It queries the root window of the
// default screen.
type X11 struct {
	conn *xgb.Conn
	root xproto.Window
}

// DialX11 connects to display, or to $DISPLAY when display is empty.
func DialX11(display string) (*X11, error) {
	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("cheat: connecting to X display: %w", err)
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	return &X11{conn: conn, root: screen.Root}, nil
}

// Size returns the root window geometry.
func (x *X11) Size() (Point, error) {
	geom, err := xproto.GetGeometry(x.conn, xproto.Drawable(x.root)).Reply()
	if err != nil {
		return Point{}, err
	}
	return Point{X: int(geom.Width), Y: int(geom.Height)}, nil
}

// Pointer returns the pointer position relative to the root window.
func (x *X11) Pointer() (Point, error) {
	ptr, err := xproto.QueryPointer(x.conn, x.root).Reply()
	if err != nil {
		return Point{}, err
	}
	return Point{X: int(ptr.RootX), Y: int(ptr.RootY)}, nil
}

// Close closes the connection.
func (x *X11) Close() error {
	x.conn.Close()
	return nil
}
