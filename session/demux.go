package session

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/coregx/reframe/internal/wirelog"
	"github.com/coregx/reframe/message"
	"github.com/coregx/reframe/packet"
	"github.com/coregx/reframe/reframe"
)

// Announcement is a newly observed session, or the terminal transport error
// that ended the demultiplexer.
type Announcement = reframe.Result[*Session]

type openRequest struct {
	reply chan<- openResult
}

type openResult struct {
	session *Session
	err     error
}

// Demuxer is a running demultiplexer: a single goroutine that owns the
// cookie-to-session routing table and announces newly observed sessions.
type Demuxer struct {
	announcements <-chan Announcement
	openRequests  chan<- openRequest
}

// Announcements returns the stream of sessions the demultiplexer has
// observed: one per Oneshot packet, one per fresh Stream cookie, and one per
// Single packet for a cookie with no live session.
func (d *Demuxer) Announcements() <-chan Announcement {
	return d.announcements
}

// Open allocates a fresh cookie and returns a Session the caller can use to
// initiate a conversation, registering it so inbound replies for that
// cookie are routed to it.
func (d *Demuxer) Open(ctx context.Context) (*Session, error) {
	reply := make(chan openResult, 1)
	if !reframe.Send(ctx, d.openRequests, openRequest{reply: reply}) {
		return nil, ctx.Err()
	}
	select {
	case res := <-reply:
		return res.session, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Demux runs the demultiplexer over src, routing inbound Packets to
// per-cookie Sessions and serializing all session egress onto src's shared
// sink. The live routing table is owned exclusively by the goroutine Demux
// spawns; no mutex guards it.
func Demux(ctx context.Context, src *reframe.Reframed[packet.Packet, packet.Packet], alloc *Allocator, logger zerolog.Logger) *Demuxer {
	logger = wirelog.Stage(logger, "session")

	announce := make(chan Announcement, reframe.DefaultCapacity)
	openRequests := make(chan openRequest)

	go func() {
		defer close(announce)

		live := make(map[uint16]chan<- message.Message)
		funnel := src.Sink()

		for {
			select {
			case res, ok := <-src.Stream():
				if !ok {
					return
				}
				if res.Err != nil {
					reframe.Send(ctx, announce, reframe.Error[*Session](res.Err))
					return
				}
				handleIncoming(ctx, res.Value, live, funnel, announce, alloc, logger)

			case req := <-openRequests:
				cookie, err := alloc.Allocate()
				if err != nil {
					req.reply <- openResult{err: err}
					continue
				}
				sess, deliver := newSession(ctx, cookie, funnel, alloc)
				live[cookie] = deliver
				req.reply <- openResult{session: sess}

			case <-ctx.Done():
				return
			}
		}
	}()

	return &Demuxer{announcements: announce, openRequests: openRequests}
}

func handleIncoming(ctx context.Context, pkt packet.Packet, live map[uint16]chan<- message.Message, funnel chan<- packet.Packet, announce chan<- Announcement, alloc *Allocator, logger zerolog.Logger) {
	cookie := pkt.Cookie()

	switch cookie.Kind {
	case packet.Oneshot:
		sess := newOneshotSession(message.FromPacket(pkt))
		reframe.Send(ctx, announce, reframe.Ok(sess))

	case packet.Stream:
		deliver, ok := live[cookie.Value]
		if !ok {
			var sess *Session
			sess, deliver = newSession(ctx, cookie.Value, funnel, alloc)
			live[cookie.Value] = deliver
			logger.Debug().Uint16("cookie", cookie.Value).Msg("session created")
			reframe.Send(ctx, announce, reframe.Ok(sess))
		}
		reframe.Send(ctx, deliver, message.FromPacket(pkt))

	case packet.Single:
		if deliver, ok := live[cookie.Value]; ok {
			delete(live, cookie.Value)
			alloc.Release(cookie.Value)
			logger.Debug().Uint16("cookie", cookie.Value).Msg("session closed")
			reframe.Send(ctx, deliver, message.FromPacket(pkt))
			close(deliver)
			return
		}

		sess, deliver := newSession(ctx, cookie.Value, funnel, alloc)
		reframe.Send(ctx, deliver, message.FromPacket(pkt))
		close(deliver)
		reframe.Send(ctx, announce, reframe.Ok(sess))
	}
}
