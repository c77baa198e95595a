// Package packet defines the fully defragmented message unit that flows
// between the packets layer and the session layer: a Cookie classification
// plus a reassembled payload.
package packet

import "github.com/coregx/reframe/format"

// Kind classifies a Packet's delivery mode.
type Kind int

const (
	// Oneshot packets carry no cookie and receive no reply.
	Oneshot Kind = iota
	// Single packets are the terminal (or only) packet for their cookie.
	Single
	// Stream packets are non-terminal: more packets follow for their cookie.
	Stream
)

func (k Kind) String() string {
	switch k {
	case Oneshot:
		return "Oneshot"
	case Single:
		return "Single"
	case Stream:
		return "Stream"
	default:
		return "Unknown"
	}
}

// Cookie is a Packet's delivery classification. Value is meaningful only
// for Single and Stream.
type Cookie struct {
	Kind  Kind
	Value uint16
}

// Packet is a fully reassembled message: a cookie classification plus its
// defragmented payload.
type Packet struct {
	cookie  Cookie
	payload []byte
}

// New builds a Packet directly from a cookie classification and raw bytes.
func New(cookie Cookie, payload []byte) Packet {
	return Packet{cookie: cookie, payload: payload}
}

// NewOneshot builds a Packet with no cookie from raw bytes.
func NewOneshot(payload []byte) Packet {
	return Packet{cookie: Cookie{Kind: Oneshot}, payload: payload}
}

// NewSingle builds a terminal Packet for cookie from raw bytes.
func NewSingle(cookie uint16, payload []byte) Packet {
	return Packet{cookie: Cookie{Kind: Single, Value: cookie}, payload: payload}
}

// NewStream builds a non-terminal Packet for cookie from raw bytes.
func NewStream(cookie uint16, payload []byte) Packet {
	return Packet{cookie: Cookie{Kind: Stream, Value: cookie}, payload: payload}
}

// Cookie returns the packet's delivery classification.
func (p Packet) Cookie() Cookie {
	return p.cookie
}

// Payload returns the packet's raw, already-defragmented bytes.
func (p Packet) Payload() []byte {
	return p.payload
}

// Cast deserializes the packet's payload into v using format f.
func (p Packet) Cast(f format.Format, v any) error {
	return f.Deserialize(p.payload, v)
}

// OneshotValue serializes value with f and wraps it as a Oneshot Packet.
func OneshotValue[T any](f format.Format, value T) (Packet, error) {
	data, err := f.Serialize(value)
	if err != nil {
		return Packet{}, err
	}
	return NewOneshot(data), nil
}

// SingleValue serializes value with f and wraps it as a terminal Packet for
// cookie.
func SingleValue[T any](f format.Format, cookie uint16, value T) (Packet, error) {
	data, err := f.Serialize(value)
	if err != nil {
		return Packet{}, err
	}
	return NewSingle(cookie, data), nil
}

// StreamValue serializes value with f and wraps it as a non-terminal Packet
// for cookie.
func StreamValue[T any](f format.Format, cookie uint16, value T) (Packet, error) {
	data, err := f.Serialize(value)
	if err != nil {
		return Packet{}, err
	}
	return NewStream(cookie, data), nil
}
