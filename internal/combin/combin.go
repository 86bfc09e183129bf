// Package combin implements the auxiliary combinatorics the builder and
// inner search need: splitting a target size across n positive parts, and
// taking the Cartesian product of a list of sequences.
package combin

import "iter"

// PickToSum yields every ordered tuple of n strictly positive integers that
// sum to total, in ascending order of the first element, then the second,
// and so on. The singleton case (n == 1) yields (total) directly; the
// empty case (n == 0) yields the empty tuple iff total == 0 and nothing
// otherwise.
func PickToSum(n, total int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		pickToSum(n, total, nil, yield)
	}
}

func pickToSum(n, total int, prefix []int, yield func([]int) bool) bool {
	if n == 0 {
		if total == 0 {
			return yield(append([]int{}, prefix...))
		}
		return true
	}
	if n == 1 {
		if total < 1 {
			return true
		}
		return yield(append(append([]int{}, prefix...), total))
	}
	for size := 1; size <= total-n+1; size++ {
		if !pickToSum(n-1, total-size, append(prefix, size), yield) {
			return false
		}
	}
	return true
}

// CrossProduct yields the ordered Cartesian product of seqs, preserving the
// order of the first dimension as the outermost loop.
func CrossProduct[T any](seqs [][]T) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		crossProduct(seqs, nil, yield)
	}
}

func crossProduct[T any](seqs [][]T, prefix []T, yield func([]T) bool) bool {
	if len(seqs) == 0 {
		return yield(append([]T{}, prefix...))
	}
	for _, x := range seqs[0] {
		if !crossProduct(seqs[1:], append(prefix, x), yield) {
			return false
		}
	}
	return true
}
