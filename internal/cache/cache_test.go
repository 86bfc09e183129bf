package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/holesynth/synthcore/internal/cache"
	"github.com/holesynth/synthcore/internal/expr"
	"github.com/holesynth/synthcore/internal/types"
)

func lit(v int64) expr.Expr { return &expr.Lit{Value: v, Typ: types.INT} }

func collectAt(c *cache.Cache, filt cache.Filter, size int) []expr.Expr {
	var out []expr.Expr
	for e := range c.FindAt(filt, size) {
		out = append(out, e)
	}
	return out
}

func TestCache_AddFind(t *testing.T) {
	c := cache.New()
	a, b := lit(1), lit(2)
	c.Add(a, 1)
	c.Add(b, 1)
	assert.Equal(t, []expr.Expr{a, b}, collectAt(c, cache.OfType(types.INT), 1))
	assert.Empty(t, collectAt(c, cache.OfType(types.BOOL), 1))
	assert.Empty(t, collectAt(c, cache.OfType(types.INT), 2))
}

func TestCache_OfTagMatchesAnyTypeArg(t *testing.T) {
	c := cache.New()
	bagInt := &expr.Var{Name: "xs", Typ: types.Bag{Elem: types.INT}}
	bagBool := &expr.Var{Name: "ys", Typ: types.Bag{Elem: types.BOOL}}
	c.Add(bagInt, 1)
	c.Add(bagBool, 1)
	got := collectAt(c, cache.OfTag(types.TagBag), 1)
	assert.ElementsMatch(t, []expr.Expr{bagInt, bagBool}, got)
}

func TestCache_Evict(t *testing.T) {
	c := cache.New()
	a, b := lit(1), lit(2)
	c.Add(a, 1)
	c.Add(b, 1)
	c.Evict(a, 1)
	assert.Equal(t, []expr.Expr{b}, collectAt(c, cache.OfType(types.INT), 1))
}

func TestCache_CloneOverlayReadsThrough(t *testing.T) {
	base := cache.New()
	a := lit(1)
	base.Add(a, 1)

	overlay := base.Clone()
	b := lit(2)
	overlay.Add(b, 1)

	assert.Equal(t, []expr.Expr{a, b}, collectAt(overlay, cache.OfType(types.INT), 1))
	assert.Equal(t, []expr.Expr{a}, collectAt(base, cache.OfType(types.INT), 1))
}

func TestCache_EvictOnlyAffectsLocalLayer(t *testing.T) {
	base := cache.New()
	a := lit(1)
	base.Add(a, 1)

	overlay := base.Clone()
	overlay.Evict(a, 1)

	assert.Equal(t, []expr.Expr{a}, collectAt(overlay, cache.OfType(types.INT), 1))
	assert.Equal(t, []expr.Expr{a}, collectAt(base, cache.OfType(types.INT), 1))
}

func TestCache_AnySizeIteratesAscending(t *testing.T) {
	c := cache.New()
	a, b, d := lit(1), lit(2), lit(3)
	c.Add(d, 3)
	c.Add(a, 1)
	c.Add(b, 2)

	var order []expr.Expr
	for e := range c.All() {
		order = append(order, e)
	}
	assert.Equal(t, []expr.Expr{a, b, d}, order)
}
