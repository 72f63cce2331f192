package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ppgmetrics/engiv/internal/domain/indicator"
)

func job(id string) Job {
	return Job{
		ID:        id,
		Calc:      indicator.Calculator{Name: "ori"},
		Submitted: time.Now(),
	}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, job("j1")) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	if !q.Enqueue(ctx, job("j2")) {
		t.Error("expected second enqueue to succeed")
	}
	if q.Enqueue(ctx, job("j3")) {
		t.Error("expected enqueue past capacity to fail")
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_Dequeue(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(4))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if !q.Enqueue(ctx, job(fmt.Sprintf("j%d", i))) {
			t.Fatalf("enqueue %d failed", i)
		}
	}
	if err := q.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	var got []string
	for j := range q.Dequeue(ctx) {
		got = append(got, j.ID)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(got))
	}
	for i, id := range []string{"j0", "j1", "j2"} {
		if got[i] != id {
			t.Errorf("expected job %s at position %d, got %s", id, i, got[i])
		}
	}
}

func TestInMemoryQueue_DequeueCanceled(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx, cancel := context.WithCancel(context.Background())

	if !q.Enqueue(context.Background(), job("j1")) {
		t.Fatal("enqueue failed")
	}

	out := q.Dequeue(ctx)
	cancel()

	// The forwarding goroutine must terminate once the context is gone.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-out:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("dequeue channel never closed after cancel")
		}
	}
}

func TestInMemoryQueue_DequeueCanceledWhileEmpty(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx, cancel := context.WithCancel(context.Background())

	// No jobs and the queue stays open: cancellation alone must release the
	// forwarding goroutine and close the channel.
	out := q.Dequeue(ctx)
	cancel()

	select {
	case _, ok := <-out:
		if ok {
			t.Fatal("unexpected job from an empty queue")
		}
	case <-time.After(time.Second):
		t.Fatal("dequeue channel never closed after cancel")
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue()
	ctx := context.Background()

	if q.IsClosed() {
		t.Error("new queue should not be closed")
	}
	if err := q.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if !q.IsClosed() {
		t.Error("queue should report closed")
	}
	if q.Enqueue(ctx, job("j1")) {
		t.Error("enqueue after close should fail")
	}
	// Closing twice is a no-op.
	if err := q.Close(); err != nil {
		t.Errorf("second close failed: %v", err)
	}
}

func TestInMemoryQueue_BufferAtLeastCapacity(t *testing.T) {
	// A buffer smaller than the capacity would silently shrink the queue;
	// the constructor raises it.
	q := NewInMemoryQueue(WithCapacity(8), WithBufferSize(2))
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		if !q.Enqueue(ctx, job(fmt.Sprintf("j%d", i))) {
			t.Fatalf("enqueue %d failed", i)
		}
	}
	if l := q.Len(ctx); l != 8 {
		t.Errorf("expected length 8, got %d", l)
	}
}
