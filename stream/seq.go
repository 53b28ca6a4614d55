package stream

import (
	"iter"

	"streampix/parallel"
)

// Map returns a lazy sequence applying f to every element of seq.
func Map[T, U any](seq iter.Seq[T], f func(T) U) iter.Seq[U] {
	return func(yield func(U) bool) {
		for v := range seq {
			if !yield(f(v)) {
				return
			}
		}
	}
}

// Filter returns a lazy sequence of the elements of seq for which keep
// returns true.
func Filter[T any](seq iter.Seq[T], keep func(T) bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range seq {
			if keep(v) && !yield(v) {
				return
			}
		}
	}
}

// Reduce folds seq into a single value, starting from seed.
func Reduce[A, T any](seq iter.Seq[T], seed A, f func(A, T) A) A {
	acc := seed
	for v := range seq {
		acc = f(acc, v)
	}
	return acc
}

// MapParallel applies f to every element of in, fanning the work out
// over the pool in contiguous bands. Element order is preserved; f
// must be safe to call concurrently.
func MapParallel[T, U any](pool *parallel.Pool, in []T, f func(T) U) []U {
	out := make([]U, len(in))
	pool.ForEachBand(len(in), func(band parallel.Band) {
		for i := band.Lo; i < band.Hi; i++ {
			out[i] = f(in[i])
		}
	})
	return out
}
