// Package header implements the 4-byte wire header shared by every fragment
// on a reframe transport.
//
// Header layout (big-endian):
//
//	 0                   1                   2                   3
//	 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
//	+-+-----------------------------+-------------------------------+
//	|C|          Cookie (15)        |          Length (16)          |
//	+-+-----------------------------+-------------------------------+
//
// Bit 15 of the cookie field ("C") is the continuation flag: set when this
// cookie's session has more packets to follow, clear for a terminal or
// oneshot packet. Cookie value 0 denotes Oneshot (no reply channel). The
// length field carries this fragment's payload length, except for the
// sentinel 0xFFFF, which means "more fragments follow for this packet".
package header

import "encoding/binary"

// Size is the wire size of a Header in bytes.
const Size = 4

// maxFragmentPayload is the largest payload length a single fragment can
// carry (0xFFFE); 0xFFFF is reserved as the continuation sentinel.
const maxFragmentPayload = 0xFFFE

// moreFragments is the length-field sentinel meaning "more fragments follow
// for this packet".
const moreFragments = 0xFFFF

// continuationBit marks a cookie field as non-terminal for its session.
const continuationBit = 0x8000

// cookieMask isolates the 15-bit cookie value from the continuation bit.
const cookieMask = 0x7FFF

// Length is an optional fragment length: either the final size of a
// terminal fragment, or the sentinel meaning more fragments follow.
//
// The zero value of Length is More, matching the source's
// `Option<usize> == None` convention for "not done yet".
type Length struct {
	n     uint16
	final bool
}

// More indicates this fragment is not the last for its packet.
var More = Length{}

// Final builds a Length for the last fragment of a packet, of size n bytes.
// n must be in 0..=0xFFFE.
func Final(n int) Length {
	return Length{n: uint16(n), final: true}
}

func (l Length) wire() uint16 {
	if !l.final {
		return moreFragments
	}
	return l.n
}

// Header is the 4-byte unit prefixing every fragment on the wire.
type Header struct {
	cookieField uint16
	lengthField uint16
}

// Oneshot builds a Header with no cookie (no reply channel).
func Oneshot(length Length) Header {
	return Header{cookieField: 0, lengthField: length.wire()}
}

// Single builds a Header for the terminal fragment of a non-streaming
// cookie.
func Single(cookie uint16, length Length) Header {
	return Header{cookieField: cookie & cookieMask, lengthField: length.wire()}
}

// Stream builds a Header for a fragment whose cookie has more packets to
// follow.
func Stream(cookie uint16, length Length) Header {
	return Header{cookieField: (cookie & cookieMask) | continuationBit, lengthField: length.wire()}
}

// Cookie returns the header's cookie value, or ok == false for Oneshot.
func (h Header) Cookie() (cookie uint16, ok bool) {
	c := h.cookieField & cookieMask
	if c == 0 {
		return 0, false
	}
	return c, true
}

// EffectiveLength returns this fragment's payload length, clamped to
// maxFragmentPayload (the continuation sentinel is never a real length).
func (h Header) EffectiveLength() int {
	n := h.lengthField
	if n > maxFragmentPayload {
		n = maxFragmentPayload
	}
	return int(n)
}

// HasMorePackets reports whether this cookie's session is non-terminal.
func (h Header) HasMorePackets() bool {
	return h.cookieField&continuationBit != 0
}

// HasMorePayload reports whether another fragment follows for this packet.
func (h Header) HasMorePayload() bool {
	return h.lengthField == moreFragments
}

// Encode serializes h to its 4-byte big-endian wire form.
func (h Header) Encode() [Size]byte {
	var buf [Size]byte
	binary.BigEndian.PutUint16(buf[0:2], h.cookieField)
	binary.BigEndian.PutUint16(buf[2:4], h.lengthField)
	return buf
}

// Decode parses a Header from its 4-byte wire form. Any 4 bytes decode to a
// valid Header; the only error is a short buffer.
func Decode(b []byte) (Header, error) {
	if len(b) < Size {
		return Header{}, ErrShortHeader
	}
	return Header{
		cookieField: binary.BigEndian.Uint16(b[0:2]),
		lengthField: binary.BigEndian.Uint16(b[2:4]),
	}, nil
}
