// Package frame turns a raw byte transport into a reframe.Source of
// (header, payload) fragments: a length-prefixed codec over an
// io.ReadWriter, one goroutine per direction, matching the blocking
// bufio.Reader/bufio.Writer style the teacher package uses for its own
// frame codec.
package frame

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/coregx/reframe/header"
	"github.com/coregx/reframe/internal/wirelog"
	"github.com/coregx/reframe/reframe"
)

// Fragment is one header+payload unit as it appears on the wire.
type Fragment struct {
	Header  header.Header
	Payload []byte
}

// Open wires rw into a reframe.Source of Fragments: a reader goroutine
// decodes fragments off rw until EOF or an I/O error, and a writer
// goroutine encodes and flushes fragments handed to the returned sink.
// Both goroutines exit once ctx is done; the reader notices only when its
// current blocking read on rw returns.
func Open(ctx context.Context, rw io.ReadWriter, logger zerolog.Logger) reframe.Source[Fragment, Fragment] {
	logger = wirelog.Stage(logger, "frame")

	stream := reframe.SpawnStream(ctx, func(ctx context.Context, tx chan<- reframe.Result[Fragment]) {
		r := bufio.NewReader(rw)
		for {
			frag, err := decode(r)
			if err != nil {
				if !errors.Is(err, io.EOF) {
					logger.Warn().Err(err).Msg("frame decode failed, closing ingress")
					reframe.Send(ctx, tx, reframe.Error[Fragment](err))
				}
				return
			}
			if !reframe.Send(ctx, tx, reframe.Ok(frag)) {
				return
			}
		}
	})

	sink := reframe.SpawnSink(ctx, func(ctx context.Context, rx <-chan Fragment) {
		w := bufio.NewWriter(rw)
		for {
			frag, ok := reframe.Recv(ctx, rx)
			if !ok {
				return
			}
			if err := encode(w, frag); err != nil {
				logger.Warn().Err(err).Msg("frame encode failed, closing egress")
				return
			}
			if err := w.Flush(); err != nil {
				logger.Warn().Err(err).Msg("frame flush failed, closing egress")
				return
			}
		}
	})

	return reframe.Source[Fragment, Fragment]{Stream: stream, Sink: sink}
}

func decode(r *bufio.Reader) (Fragment, error) {
	var hdr [header.Size]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Fragment{}, err
	}

	h, err := header.Decode(hdr[:])
	if err != nil {
		return Fragment{}, fmt.Errorf("frame: decode header: %w", err)
	}

	n := h.EffectiveLength()
	var payload []byte
	if n > 0 {
		payload = make([]byte, n)
		if _, err := io.ReadFull(r, payload); err != nil {
			return Fragment{}, err
		}
	}

	return Fragment{Header: h, Payload: payload}, nil
}

func encode(w *bufio.Writer, f Fragment) error {
	hdr := f.Header.Encode()
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("frame: write header: %w", err)
	}
	if len(f.Payload) > 0 {
		if _, err := w.Write(f.Payload); err != nil {
			return fmt.Errorf("frame: write payload: %w", err)
		}
	}
	return nil
}
