// Package muxer wires the frame, packets, and session layers over a byte
// transport into a single Transport an application mounts once per
// connection.
package muxer

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/coregx/reframe/frame"
	"github.com/coregx/reframe/internal/wirelog"
	"github.com/coregx/reframe/packet"
	"github.com/coregx/reframe/packets"
	"github.com/coregx/reframe/reframe"
	"github.com/coregx/reframe/session"
)

// Transport is a mounted connection: frame codec -> packet
// defragmenter/fragmenter -> session demultiplexer, stacked over rw.
type Transport struct {
	cancel context.CancelFunc
	demux  *session.Demuxer
	sink   chan<- packet.Packet
}

// Mount wires rw into a Transport. The Transport's internal goroutines run
// until ctx's ancestor parent is done or Close is called.
func Mount(parent context.Context, rw io.ReadWriter, logger zerolog.Logger) *Transport {
	logger = wirelog.Stage(logger, "muxer")
	ctx, cancel := context.WithCancel(parent)

	fragments := frame.Open(ctx, rw, logger)
	packetStage := packets.Reframe(ctx, fragments, logger)
	demux := session.Demux(ctx, packetStage, session.NewAllocator(), logger)

	return &Transport{cancel: cancel, demux: demux, sink: packetStage.Sink()}
}

// Sessions returns the stream of sessions observed on this transport: one
// per Oneshot packet, one per fresh cookie opened by the peer, and a
// terminal error announcement if the transport fails.
func (t *Transport) Sessions() <-chan session.Announcement {
	return t.demux.Announcements()
}

// Send writes pkt directly to the transport, bypassing the session layer.
// It is meant for an application that wants to originate a conversation by
// sending its first packet itself, such as a Oneshot request.
func (t *Transport) Send(ctx context.Context, pkt packet.Packet) error {
	if reframe.Send(ctx, t.sink, pkt) {
		return nil
	}
	return ctx.Err()
}

// Open allocates a fresh cookie and returns a Session for an
// application-initiated conversation.
func (t *Transport) Open(ctx context.Context) (*session.Session, error) {
	return t.demux.Open(ctx)
}

// Close tears down every stage of the transport. It is always safe to call
// more than once.
func (t *Transport) Close() error {
	t.cancel()
	return nil
}
