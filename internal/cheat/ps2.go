package cheat

import (
	"errors"
	"io"
)

// PacketSize is the length of a standard PS/2 mouse packet.
const PacketSize = 3

// ErrBadPacket is returned for packets that fail the always-one bit check.
var ErrBadPacket = errors.New("cheat: malformed PS/2 packet")

// Packet is a decoded PS/2 mouse packet.
//
// The first byte carries, from bit 0: left, right and middle buttons, a bit that is
// always set, the X and Y sign bits, and the X and Y overflow bits. The next two bytes
// are the low eight bits of the X and Y motion.
type Packet struct {
	Left, Right, Middle  bool
	DX, DY               int
	XOverflow, YOverflow bool
}

// DecodePacket decodes one packet.
func DecodePacket(b [PacketSize]byte) (Packet, error) {
	flags := b[0]
	if flags&0x08 == 0 {
		return Packet{}, ErrBadPacket
	}

	p := Packet{
		Left:      flags&0x01 != 0,
		Right:     flags&0x02 != 0,
		Middle:    flags&0x04 != 0,
		DX:        int(b[1]),
		DY:        int(b[2]),
		XOverflow: flags&0x40 != 0,
		YOverflow: flags&0x80 != 0,
	}
	// Motion is 9-bit two's complement with the sign bit in the flags byte.
	if flags&0x10 != 0 {
		p.DX -= 256
	}
	if flags&0x20 != 0 {
		p.DY -= 256
	}
	return p, nil
}

// ReadPacket reads and decodes the next packet from r. The device closing part way
// through a packet is reported as io.ErrUnexpectedEOF.
func ReadPacket(r io.Reader) (Packet, error) {
	var b [PacketSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return Packet{}, err
	}
	return DecodePacket(b)
}
