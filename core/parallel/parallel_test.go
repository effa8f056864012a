package parallel

import (
	"sync/atomic"
	"testing"
)

func TestParallelizeCoversAllItems(t *testing.T) {
	const items = 1000
	var touched [items]int32

	Parallelize(items, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&touched[i], 1)
		}
	})

	for i, v := range touched {
		if v != 1 {
			t.Fatalf("item %d touched %d times, want 1", i, v)
		}
	}
}

func TestParallelizeSmallCounts(t *testing.T) {
	for _, items := range []int{0, 1, 2, 3} {
		var count int32
		Parallelize(items, func(start, end int) {
			atomic.AddInt32(&count, int32(end-start))
		})
		if int(count) != items {
			t.Errorf("items=%d: processed %d", items, count)
		}
	}
}

func TestParallelizeWithThresholdSequential(t *testing.T) {
	// below the threshold fn runs once over the whole range
	calls := 0
	ParallelizeWithThreshold(10, 100, func(start, end int) {
		calls++
		if start != 0 || end != 10 {
			t.Errorf("chunk = [%d, %d), want [0, 10)", start, end)
		}
	})
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestParallelizeWithThresholdParallel(t *testing.T) {
	const items = 5000
	var count int32
	ParallelizeWithThreshold(items, 100, func(start, end int) {
		atomic.AddInt32(&count, int32(end-start))
	})
	if int(count) != items {
		t.Errorf("processed %d items, want %d", count, items)
	}
}
