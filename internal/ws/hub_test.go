package ws

import (
	"fmt"
	"testing"
	"time"
)

func TestNotifyAfterCloseDoesNotBlock(t *testing.T) {
	h := NewHub()
	h.Close()

	done := make(chan struct{})
	go func() {
		h.Notify(map[string]string{"type": "stock_update"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Notify blocked after Close")
	}
}

func TestNotifyReachesBroadcast(t *testing.T) {
	h := NewHub()
	h.Notify(map[string]string{"type": "sale_completed"})

	select {
	case msg := <-h.Broadcast:
		if string(msg) != `{"type":"sale_completed"}` {
			t.Fatalf("unexpected message %s", msg)
		}
	case <-time.After(time.Second):
		t.Fatalf("no broadcast received")
	}
	h.Close()
}

func TestRunStopsOnClose(t *testing.T) {
	h := NewHub()
	stopped := make(chan struct{})
	go func() {
		h.Run()
		close(stopped)
	}()
	h.Close()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after Close")
	}
	if h.ClientCount() != 0 {
		t.Fatalf("expected no clients")
	}
}

func TestNotifyKeepsCallOrder(t *testing.T) {
	h := NewHub()
	defer h.Close()

	for i := 0; i < 50; i++ {
		h.Notify(map[string]int{"new_stock": i})
	}
	for i := 0; i < 50; i++ {
		select {
		case msg := <-h.Broadcast:
			want := fmt.Sprintf(`{"new_stock":%d}`, i)
			if string(msg) != want {
				t.Fatalf("message %d = %s, want %s", i, msg, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("message %d never arrived", i)
		}
	}
}

func TestNotifyDropsWhenQueueFull(t *testing.T) {
	h := NewHub()
	defer h.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer+10; i++ {
			h.Notify(map[string]int{"n": i})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Notify blocked on a full queue")
	}
	if got := len(h.Broadcast); got != broadcastBuffer {
		t.Fatalf("queued %d messages, want %d", got, broadcastBuffer)
	}
}
