package stream

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"streampix/parallel"
)

func numbers(vals ...int) func(func(int) bool) {
	return func(yield func(int) bool) {
		for _, v := range vals {
			if !yield(v) {
				return
			}
		}
	}
}

func TestMap(t *testing.T) {
	got := slices.Collect(Map(numbers(1, 2, 3), func(v int) int { return v * v }))
	if diff := cmp.Diff([]int{1, 4, 9}, got); diff != "" {
		t.Errorf("Map mismatch (-want +got):\n%s", diff)
	}
}

func TestFilter(t *testing.T) {
	got := slices.Collect(Filter(numbers(1, 2, 3, 4, 5), func(v int) bool { return v%2 == 0 }))
	if diff := cmp.Diff([]int{2, 4}, got); diff != "" {
		t.Errorf("Filter mismatch (-want +got):\n%s", diff)
	}
}

func TestReduce(t *testing.T) {
	got := Reduce(numbers(1, 2, 3, 4), 0, func(acc, v int) int { return acc + v })
	if got != 10 {
		t.Errorf("Reduce = %d, want 10", got)
	}

	if got := Reduce(numbers(), 42, func(acc, v int) int { return acc + v }); got != 42 {
		t.Errorf("Reduce over empty sequence = %d, want seed 42", got)
	}
}

func TestMapLazy(t *testing.T) {
	calls := 0
	seq := Map(numbers(1, 2, 3, 4, 5), func(v int) int {
		calls++
		return v
	})

	for v := range seq {
		if v == 2 {
			break
		}
	}

	if calls != 2 {
		t.Errorf("Map evaluated %d elements before break, want 2", calls)
	}
}

func TestSequenceRestartable(t *testing.T) {
	seq := Map(numbers(1, 2), func(v int) int { return v + 1 })

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second pass differs (-first +second):\n%s", diff)
	}
}

func TestMapParallelPreservesOrder(t *testing.T) {
	pool := parallel.Start(4)
	defer pool.Wait(true)

	in := make([]int, 500)
	for i := range in {
		in[i] = i
	}

	got := MapParallel(pool, in, func(v int) int { return v * 2 })
	for i, v := range got {
		if v != i*2 {
			t.Fatalf("out[%d] = %d, want %d", i, v, i*2)
		}
	}
}
