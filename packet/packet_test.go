package packet

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/coregx/reframe/format"
)

func TestConstructors_SetCookieKind(t *testing.T) {
	tests := []struct {
		name string
		pkt  Packet
		want Cookie
	}{
		{"oneshot", NewOneshot([]byte("x")), Cookie{Kind: Oneshot}},
		{"single", NewSingle(3, []byte("x")), Cookie{Kind: Single, Value: 3}},
		{"stream", NewStream(3, []byte("x")), Cookie{Kind: Stream, Value: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.pkt.Cookie()); diff != "" {
				t.Errorf("cookie mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

type payload struct {
	A uint32
	B bool
}

func TestValueConstructors_RoundTripThroughCast(t *testing.T) {
	mp := format.MessagePack{}
	want := payload{A: 7, B: true}

	tests := []struct {
		name string
		make func() (Packet, error)
		want Cookie
	}{
		{"oneshot", func() (Packet, error) { return OneshotValue(mp, want) }, Cookie{Kind: Oneshot}},
		{"single", func() (Packet, error) { return SingleValue(mp, 9, want) }, Cookie{Kind: Single, Value: 9}},
		{"stream", func() (Packet, error) { return StreamValue(mp, 9, want) }, Cookie{Kind: Stream, Value: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkt, err := tt.make()
			if err != nil {
				t.Fatalf("construct: %v", err)
			}
			if diff := cmp.Diff(tt.want, pkt.Cookie()); diff != "" {
				t.Errorf("cookie mismatch (-want +got):\n%s", diff)
			}

			var got payload
			if err := pkt.Cast(mp, &got); err != nil {
				t.Fatalf("Cast: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("payload mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
