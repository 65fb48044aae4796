package parallel

import (
	"sync/atomic"
	"testing"
)

func TestRange_DefaultConfig(t *testing.T) {
	var counter int64
	n := 100000

	Range(n, func(start, end int) {
		atomic.AddInt64(&counter, int64(end-start))
	}, DefaultConfig())

	if counter != int64(n) {
		t.Errorf("Expected %d, got %d", n, counter)
	}
}

func TestRange_Sequential(t *testing.T) {
	var calls int
	Range(100000, func(start, end int) {
		calls++
		if start != 0 || end != 100000 {
			t.Errorf("Expected [0, 100000), got [%d, %d)", start, end)
		}
	}, Sequential())

	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestRange_CoversEveryIndexOnce(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 10}

	n := 1003
	hits := make([]int32, n)
	var calls int64
	Range(n, func(start, end int) {
		atomic.AddInt64(&calls, 1)
		for i := start; i < end; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	}, cfg)

	for i, h := range hits {
		if h != 1 {
			t.Fatalf("index %d visited %d times", i, h)
		}
	}
	if calls < 2 {
		t.Errorf("Expected work to be split into chunks, got %d call(s)", calls)
	}
}

func TestRange_SmallInputRunsInline(t *testing.T) {
	// Test that small work units fall back to a single chunk.
	cfg := Config{Enabled: true, NumWorkers: 8, MinChunkSize: 64}

	var calls int
	Range(100, func(start, end int) {
		calls++
		if start != 0 || end != 100 {
			t.Errorf("Expected [0, 100), got [%d, %d)", start, end)
		}
	}, cfg)

	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestRange_Empty(t *testing.T) {
	Range(0, func(_, _ int) {
		t.Error("f must not be called for n == 0")
	}, DefaultConfig())
}
