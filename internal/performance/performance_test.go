package performance

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestBatchProcessor_FlushesAtBatchSize(t *testing.T) {
	var batches [][]int
	bp := NewBatchProcessor(3, func(items []int) error {
		batch := append([]int{}, items...)
		batches = append(batches, batch)
		return nil
	})

	for i := 0; i < 7; i++ {
		if err := bp.Add(i); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if err := bp.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if len(batches) != 3 {
		t.Fatalf("batches = %d, want 3", len(batches))
	}
	if len(batches[0]) != 3 || len(batches[1]) != 3 || len(batches[2]) != 1 {
		t.Errorf("batch sizes = %d/%d/%d, want 3/3/1", len(batches[0]), len(batches[1]), len(batches[2]))
	}
}

func TestBatchProcessor_FlushEmptyIsNoOp(t *testing.T) {
	calls := 0
	bp := NewBatchProcessor(10, func(items []string) error {
		calls++
		return nil
	})
	if err := bp.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if calls != 0 {
		t.Errorf("processor ran %d times on an empty batch", calls)
	}
}

func TestRateLimiter_BurstThenDeny(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2) // effectively no refill

	if !limiter.Allow() || !limiter.Allow() {
		t.Fatal("burst tokens should be available immediately")
	}
	if limiter.Allow() {
		t.Error("third request should be denied")
	}
}

func TestRateLimiter_WaitHonorsContext(t *testing.T) {
	limiter := NewRateLimiter(0.001, 1)
	limiter.Allow() // drain the bucket

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); err != context.DeadlineExceeded {
		t.Errorf("Wait = %v, want context.DeadlineExceeded", err)
	}
}

// BenchmarkRateLimiter benchmarks the rate limiter.
func BenchmarkRateLimiter(b *testing.B) {
	limiter := NewRateLimiter(10000, 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		limiter.Allow()
	}
}

// BenchmarkBatchProcessor benchmarks batch processing.
func BenchmarkBatchProcessor(b *testing.B) {
	var processed int64

	processor := NewBatchProcessor(100, func(items []int) error {
		atomic.AddInt64(&processed, int64(len(items)))
		return nil
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		processor.Add(i)
	}
	processor.Flush()
}
