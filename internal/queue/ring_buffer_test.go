package queue

import (
	"testing"
	"time"

	"zabbix-bridge/internal/schema"
)

func event(name string) *schema.Event {
	return &schema.Event{Name: name}
}

func TestPushPopOrder(t *testing.T) {
	rb := NewRingBuffer(4)

	for _, name := range []string{"a", "b", "c"} {
		if err := rb.Push(event(name)); err != nil {
			t.Fatalf("push %s: %v", name, err)
		}
	}
	for _, want := range []string{"a", "b", "c"} {
		got, err := rb.Pop()
		if err != nil {
			t.Fatalf("pop: %v", err)
		}
		if got.Name != want {
			t.Errorf("popped %q; want %q", got.Name, want)
		}
	}
	if _, err := rb.Pop(); err != ErrEmpty {
		t.Errorf("pop on empty = %v; want ErrEmpty", err)
	}
}

func TestPushFull(t *testing.T) {
	rb := NewRingBuffer(2)
	rb.Push(event("a"))
	rb.Push(event("b"))

	if err := rb.Push(event("c")); err != ErrFull {
		t.Errorf("push on full = %v; want ErrFull", err)
	}
	if m := rb.Metrics(); m.Dropped != 1 {
		t.Errorf("dropped = %d; want 1", m.Dropped)
	}
}

func TestWrapAround(t *testing.T) {
	rb := NewRingBuffer(2)
	rb.Push(event("a"))
	rb.Push(event("b"))
	rb.Pop()
	rb.Push(event("c"))

	for _, want := range []string{"b", "c"} {
		got, err := rb.Pop()
		if err != nil {
			t.Fatalf("pop: %v", err)
		}
		if got.Name != want {
			t.Errorf("popped %q; want %q", got.Name, want)
		}
	}
}

func TestPopWithTimeoutExpires(t *testing.T) {
	rb := NewRingBuffer(2)
	start := time.Now()
	if _, err := rb.PopWithTimeout(20 * time.Millisecond); err != ErrEmpty {
		t.Errorf("got %v; want ErrEmpty", err)
	}
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Errorf("returned after %v; want the timeout respected", elapsed)
	}
}

func TestPopWithTimeoutReceivesPush(t *testing.T) {
	rb := NewRingBuffer(2)
	go func() {
		time.Sleep(10 * time.Millisecond)
		rb.Push(event("late"))
	}()

	got, err := rb.PopWithTimeout(time.Second)
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if got.Name != "late" {
		t.Errorf("popped %q; want late", got.Name)
	}
}

func TestCloseDrains(t *testing.T) {
	rb := NewRingBuffer(2)
	rb.Push(event("a"))
	rb.Close()

	if err := rb.Push(event("b")); err != ErrClosed {
		t.Errorf("push after close = %v; want ErrClosed", err)
	}
	if got, err := rb.Pop(); err != nil || got.Name != "a" {
		t.Errorf("buffered event lost on close: %v, %v", got, err)
	}
	if _, err := rb.Pop(); err != ErrClosed {
		t.Errorf("pop on closed empty = %v; want ErrClosed", err)
	}
	if _, err := rb.PopWithTimeout(time.Second); err != ErrClosed {
		t.Errorf("blocking pop on closed = %v; want ErrClosed", err)
	}
}
