package combin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/holesynth/synthcore/internal/combin"
)

func collect[T any](seq func(func(T) bool)) []T {
	var out []T
	for v := range seq {
		out = append(out, v)
	}
	return out
}

func TestPickToSum_Basic(t *testing.T) {
	got := collect(combin.PickToSum(3, 5))
	want := [][]int{
		{1, 1, 3}, {1, 2, 2}, {1, 3, 1},
		{2, 1, 2}, {2, 2, 1},
		{3, 1, 1},
	}
	assert.Equal(t, want, got)
}

func TestPickToSum_Singleton(t *testing.T) {
	got := collect(combin.PickToSum(1, 4))
	assert.Equal(t, [][]int{{4}}, got)
}

func TestPickToSum_EmptyZero(t *testing.T) {
	got := collect(combin.PickToSum(0, 0))
	assert.Equal(t, [][]int{{}}, got)
}

func TestPickToSum_EmptyNonzero(t *testing.T) {
	got := collect(combin.PickToSum(0, 3))
	assert.Nil(t, got)
}

func TestPickToSum_EveryElementPositive(t *testing.T) {
	for _, parts := range collect(combin.PickToSum(4, 10)) {
		sum := 0
		for _, p := range parts {
			assert.Greater(t, p, 0)
			sum += p
		}
		assert.Equal(t, 10, sum)
	}
}

func TestCrossProduct(t *testing.T) {
	got := collect(combin.CrossProduct([][]int{{1, 2}, {10, 20}}))
	want := [][]int{{1, 10}, {1, 20}, {2, 10}, {2, 20}}
	assert.Equal(t, want, got)
}

func TestCrossProduct_EmptyDimension(t *testing.T) {
	got := collect(combin.CrossProduct([][]int{{1, 2}, {}}))
	assert.Nil(t, got)
}

func TestCrossProduct_NoDimensions(t *testing.T) {
	got := collect(combin.CrossProduct[int](nil))
	assert.Equal(t, [][]int{{}}, got)
}

func TestCrossProduct_EarlyStop(t *testing.T) {
	var seen [][]int
	for v := range combin.CrossProduct([][]int{{1, 2, 3}, {10, 20}}) {
		seen = append(seen, v)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, [][]int{{1, 10}, {1, 20}}, seen)
}
