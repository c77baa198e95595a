// Package session demultiplexes a stream of whole packets into independent
// *Session conversations keyed by cookie, and translates outgoing messages
// back into packets on a single shared egress funnel, matching the pack's
// hub-style single-event-loop-owns-the-map pattern.
package session

import (
	"context"

	"github.com/coregx/reframe/message"
	"github.com/coregx/reframe/packet"
	"github.com/coregx/reframe/reframe"
)

// Session is one conversation bound to a cookie (or, for Oneshot traffic, a
// single transient exchange with no cookie at all).
type Session struct {
	cookie  uint16
	oneshot bool
	ingress <-chan message.Message
	outbox  chan<- message.Message
}

// Cookie returns the session's cookie and whether it is meaningful: an
// Oneshot session is never addressed by cookie and reports ok == false.
func (s *Session) Cookie() (cookie uint16, ok bool) {
	return s.cookie, !s.oneshot
}

// Messages returns the channel of inbound messages for this session. It
// closes once the session's terminal message has been delivered and no
// further traffic is expected.
func (s *Session) Messages() <-chan message.Message {
	return s.ingress
}

// Send delivers msg on this session. For an Oneshot session — which can
// never receive a reply — Send blocks until ctx is done and then returns
// ctx.Err(), mirroring the source's "poll_ready never resolves" sink.
func (s *Session) Send(ctx context.Context, msg message.Message) error {
	if s.oneshot {
		<-ctx.Done()
		return ctx.Err()
	}
	if reframe.Send(ctx, s.outbox, msg) {
		return nil
	}
	return ctx.Err()
}

// newOneshotSession wraps a single already-delivered NoReply message as a
// transient session with no egress capability.
func newOneshotSession(msg message.Message) *Session {
	ch := make(chan message.Message, 1)
	ch <- msg
	close(ch)
	return &Session{oneshot: true, ingress: ch}
}

// newSession builds a cookie-bound session with its own egress translator
// goroutine, and returns the send side of its ingress channel so the
// demultiplexer can deliver future inbound messages to it.
func newSession(ctx context.Context, cookie uint16, funnel chan<- packet.Packet, alloc *Allocator) (*Session, chan<- message.Message) {
	outboxIn, outboxOut := reframe.Unbounded[message.Message]()
	ingress := make(chan message.Message, reframe.DefaultCapacity)

	go func() {
		for {
			msg, ok := reframe.Recv(ctx, outboxOut)
			if !ok {
				return
			}
			pkt := toPacket(cookie, msg)
			if !reframe.Send(ctx, funnel, pkt) {
				return
			}
			if msg.Mode == message.End {
				alloc.Release(cookie)
				return
			}
		}
	}()

	return &Session{cookie: cookie, ingress: ingress, outbox: outboxIn}, ingress
}

// toPacket translates an outgoing Message into the Packet its mode and
// session cookie imply.
func toPacket(cookie uint16, msg message.Message) packet.Packet {
	switch msg.Mode {
	case message.NoReply:
		return packet.NewOneshot(msg.Payload)
	case message.End:
		return packet.NewSingle(cookie, msg.Payload)
	default:
		return packet.NewStream(cookie, msg.Payload)
	}
}
