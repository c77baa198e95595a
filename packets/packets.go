// Package packets implements the defragmenter/fragmenter reframe stage: it
// turns a stream of (header, fragment) pairs into whole Packets, and turns
// outgoing Packets back into (header, fragment) pairs.
package packets

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/coregx/reframe/frame"
	"github.com/coregx/reframe/header"
	"github.com/coregx/reframe/internal/wirelog"
	"github.com/coregx/reframe/packet"
	"github.com/coregx/reframe/reframe"
)

// MaxFragmentPayload is the largest payload a single fragment can carry;
// larger packets are split across multiple fragments.
const MaxFragmentPayload = 0xFFFE

// Reframe stacks the defragmenter/fragmenter over src, producing a
// reframe.Reframed of whole Packets.
func Reframe(ctx context.Context, src reframe.Source[frame.Fragment, frame.Fragment], logger zerolog.Logger) *reframe.Reframed[packet.Packet, packet.Packet] {
	logger = wirelog.Stage(logger, "packets")

	stream := reframe.SpawnStream(ctx, func(ctx context.Context, tx chan<- reframe.Result[packet.Packet]) {
		defragment(ctx, src.Stream, tx, logger)
	})

	sink := reframe.SpawnSink(ctx, func(ctx context.Context, rx <-chan packet.Packet) {
		fragmentLoop(ctx, rx, src.Sink)
	})

	return reframe.New(stream, sink)
}

// defragment accumulates fragment payloads until a header without
// HasMorePayload is seen, then classifies and emits the whole packet. If
// the upstream ends mid-packet, the partial payload is discarded silently
// and the worker exits (see DESIGN.md for the open-question decision).
func defragment(ctx context.Context, in <-chan reframe.Result[frame.Fragment], out chan<- reframe.Result[packet.Packet], logger zerolog.Logger) {
	for {
		var buf []byte

		res, ok := reframe.Recv(ctx, in)
		if !ok {
			return
		}
		if res.Err != nil {
			reframe.Send(ctx, out, reframe.Error[packet.Packet](res.Err))
			return
		}
		buf = append(buf, res.Value.Payload...)
		h := res.Value.Header

		for h.HasMorePayload() {
			res, ok = reframe.Recv(ctx, in)
			if !ok {
				logger.Debug().Msg("upstream ended mid-packet, discarding partial payload")
				return
			}
			if res.Err != nil {
				reframe.Send(ctx, out, reframe.Error[packet.Packet](res.Err))
				return
			}
			buf = append(buf, res.Value.Payload...)
			h = res.Value.Header
		}

		pkt := classify(h, buf)
		if !reframe.Send(ctx, out, reframe.Ok(pkt)) {
			return
		}
	}
}

func classify(h header.Header, payload []byte) packet.Packet {
	cookie, ok := h.Cookie()
	if !ok {
		return packet.NewOneshot(payload)
	}
	if h.HasMorePackets() {
		return packet.NewStream(cookie, payload)
	}
	return packet.NewSingle(cookie, payload)
}

// fragmentLoop splits each outgoing Packet into one or more fragments of at
// most MaxFragmentPayload bytes, emitting exactly one fragment even for an
// empty payload.
func fragmentLoop(ctx context.Context, in <-chan packet.Packet, out chan<- frame.Fragment) {
	for {
		pkt, ok := reframe.Recv(ctx, in)
		if !ok {
			return
		}

		payload := pkt.Payload()
		n := len(payload)
		count := n / MaxFragmentPayload
		if n%MaxFragmentPayload != 0 || n == 0 {
			count++
		}

		for i := 0; i < count; i++ {
			offset := i * MaxFragmentPayload
			size := MaxFragmentPayload
			if offset+size > n {
				size = n - offset
			}
			isLast := i == count-1

			length := header.More
			if isLast {
				length = header.Final(size)
			}

			h := headerFor(pkt.Cookie(), length)
			frag := frame.Fragment{Header: h, Payload: payload[offset : offset+size]}
			if !reframe.Send(ctx, out, frag) {
				return
			}
		}
	}
}

func headerFor(cookie packet.Cookie, length header.Length) header.Header {
	switch cookie.Kind {
	case packet.Single:
		return header.Single(cookie.Value, length)
	case packet.Stream:
		return header.Stream(cookie.Value, length)
	default:
		return header.Oneshot(length)
	}
}
