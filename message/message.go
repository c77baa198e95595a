// Package message defines the application-facing view of a Packet inside a
// bound Session: a delivery Mode plus the payload bytes.
package message

import (
	"github.com/coregx/reframe/format"
	"github.com/coregx/reframe/packet"
)

// Mode classifies a Message's place in its session's lifecycle.
type Mode int

const (
	// NoReply means this message cannot receive a reply (it arrived, or
	// will be sent, as a Oneshot packet).
	NoReply Mode = iota
	// More means further messages will follow on this session.
	More
	// End means this is the final message on this session.
	End
)

func (m Mode) String() string {
	switch m {
	case NoReply:
		return "NoReply"
	case More:
		return "More"
	case End:
		return "End"
	default:
		return "Unknown"
	}
}

// Message is the application-facing view of a Packet within a Session.
type Message struct {
	Mode    Mode
	Payload []byte
}

// New builds a Message directly from a mode and raw bytes.
func New(mode Mode, payload []byte) Message {
	return Message{Mode: mode, Payload: payload}
}

// FromPacket derives a Message from a Packet's cookie classification.
func FromPacket(p packet.Packet) Message {
	var mode Mode
	switch p.Cookie().Kind {
	case packet.Oneshot:
		mode = NoReply
	case packet.Stream:
		mode = More
	case packet.Single:
		mode = End
	}
	return Message{Mode: mode, Payload: p.Payload()}
}

// Cast deserializes the message's payload into v using format f.
func (m Message) Cast(f format.Format, v any) error {
	return f.Deserialize(m.Payload, v)
}

// NoReplyValue serializes value with f into a NoReply message.
func NoReplyValue[T any](f format.Format, value T) (Message, error) {
	data, err := f.Serialize(value)
	if err != nil {
		return Message{}, err
	}
	return Message{Mode: NoReply, Payload: data}, nil
}

// MoreValue serializes value with f into a More message.
func MoreValue[T any](f format.Format, value T) (Message, error) {
	data, err := f.Serialize(value)
	if err != nil {
		return Message{}, err
	}
	return Message{Mode: More, Payload: data}, nil
}

// EndValue serializes value with f into an End message.
func EndValue[T any](f format.Format, value T) (Message, error) {
	data, err := f.Serialize(value)
	if err != nil {
		return Message{}, err
	}
	return Message{Mode: End, Payload: data}, nil
}
