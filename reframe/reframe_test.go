package reframe

import (
	"context"
	"testing"
	"time"
)

func TestSpawnStream_DeliversValuesAndCloses(t *testing.T) {
	ctx := context.Background()

	stream := SpawnStream(ctx, func(_ context.Context, tx chan<- Result[int]) {
		tx <- Ok(1)
		tx <- Ok(2)
	})

	var got []int
	for r := range stream {
		if r.Err != nil {
			t.Fatalf("unexpected error: %v", r.Err)
		}
		got = append(got, r.Value)
	}

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("got %v, want [1 2]", got)
	}
}

func TestSpawnStream_CancelStopsWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	stream := SpawnStream(ctx, func(ctx context.Context, tx chan<- Result[int]) {
		close(started)
		<-ctx.Done()
	})

	<-started
	cancel()

	select {
	case _, ok := <-stream:
		if ok {
			t.Error("expected channel to close with no values after cancellation")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for stream to close after cancel")
	}
}

func TestUnbounded_NeverBlocksSender(t *testing.T) {
	in, out := Unbounded[int]()

	// Send far more than any bounded channel capacity would allow before
	// anything drains the receive side.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10*DefaultCapacity; i++ {
			in <- i
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Unbounded sender blocked")
	}

	for i := 0; i < 10*DefaultCapacity; i++ {
		if v := <-out; v != i {
			t.Fatalf("out[%d] = %d, want %d", i, v, i)
		}
	}

	close(in)
	if _, ok := <-out; ok {
		t.Error("expected out to close after in closed and drained")
	}
}

func TestRecv_CancelReturnsNotOK(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ch := make(chan int)
	if _, ok := Recv(ctx, ch); ok {
		t.Error("expected Recv to report !ok on a canceled context")
	}
}

func TestSend_CancelReturnsFalse(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ch := make(chan int)
	if Send(ctx, ch, 1) {
		t.Error("expected Send to report false on a canceled context")
	}
}
