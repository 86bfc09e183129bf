package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/holesynth/synthcore/internal/builder"
	"github.com/holesynth/synthcore/internal/cache"
	"github.com/holesynth/synthcore/internal/cost"
	"github.com/holesynth/synthcore/internal/expr"
	"github.com/holesynth/synthcore/internal/subst"
	"github.com/holesynth/synthcore/internal/types"
)

func collect(b *builder.Builder, c *cache.Cache, size int) []expr.Expr {
	var out []expr.Expr
	for e := range b.Build(c, size) {
		out = append(out, e)
	}
	return out
}

func TestBuild_SizeZeroYieldsNothing(t *testing.T) {
	b := builder.New(cost.Constant{}).WithRoots(&expr.Lit{Value: int64(0), Typ: types.INT})
	assert.Empty(t, collect(b, cache.New(), 0))
}

func TestBuild_SizeOneYieldsClosedRoots(t *testing.T) {
	zero := &expr.Lit{Value: int64(0), Typ: types.INT}
	x := &expr.Var{Name: "x", Typ: types.INT}
	b := builder.New(cost.Constant{}).WithRoots(zero, x)
	got := collect(b, cache.New(), 1)
	assert.ElementsMatch(t, []expr.Expr{zero, x}, got)
}

func TestBuild_EveryYieldedExpressionHasTheRequestedSize(t *testing.T) {
	zero := &expr.Lit{Value: int64(0), Typ: types.INT}
	x := &expr.Var{Name: "x", Typ: types.INT}
	b := builder.New(cost.Constant{}).WithFeatures(true, false, false, false).WithRoots(zero, x)
	c := cache.New()
	for size := 1; size <= 4; size++ {
		for e := range b.Build(c, size) {
			assert.Equal(t, size, expr.Size(e), "expr %s should have size %d", e.String(), size)
			c.Add(e, size)
		}
	}
}

func TestBuild_HoledRootInstantiation(t *testing.T) {
	h := &expr.Hole{Name: "h1", Typ: types.INT}
	spec := &expr.BinOp{Op: expr.OpEq, Left: h, Right: &expr.Lit{Value: int64(0), Typ: types.INT}, Typ: types.BOOL}
	b := builder.New(cost.Constant{}).WithRoots(spec, &expr.Lit{Value: int64(0), Typ: types.INT})
	c := cache.New()
	// Seed the cache with a size-1 candidate for the hole.
	c.Add(&expr.Lit{Value: int64(1), Typ: types.INT}, 1)

	// spec has size 3 (BinOp + hole + lit); filling the hole at size 1 gives
	// a total instantiated size of 3.
	got := collect(b, c, 3)
	var found bool
	for _, e := range got {
		if subst.IsClosed(e) && expr.Size(e) == 3 {
			found = true
		}
	}
	assert.True(t, found, "expected a closed size-3 instantiation of the holed root")
}

func TestBuild_SumLiftRequiresBuildSumsFlag(t *testing.T) {
	xs := &expr.Var{Name: "xs", Typ: types.Bag{Elem: types.INT}}
	c := cache.New()
	c.Add(xs, 1)

	withSums := builder.New(cost.Constant{}).WithFeatures(true, false, false, false)
	gotWith := collect(withSums, c, 2)
	var sawSum bool
	for _, e := range gotWith {
		if u, ok := e.(*expr.UnaryOp); ok && u.Op == expr.OpSum {
			sawSum = true
		}
	}
	assert.True(t, sawSum)

	withoutSums := builder.New(cost.Constant{})
	gotWithout := collect(withoutSums, c, 2)
	for _, e := range gotWithout {
		if u, ok := e.(*expr.UnaryOp); ok {
			assert.NotEqual(t, expr.OpSum, u.Op)
		}
	}
}

func TestBuild_TheLiftProducesMaybe(t *testing.T) {
	xs := &expr.Var{Name: "xs", Typ: types.Bag{Elem: types.INT}}
	c := cache.New()
	c.Add(xs, 1)
	b := builder.New(cost.Constant{})
	got := collect(b, c, 2)
	var sawThe bool
	for _, e := range got {
		if u, ok := e.(*expr.UnaryOp); ok && u.Op == expr.OpThe {
			assert.Equal(t, types.Maybe{Elem: types.INT}, u.Type())
			sawThe = true
		}
	}
	assert.True(t, sawThe)
}

func TestBuild_BinaryEqualityRejectsMapOperands(t *testing.T) {
	m := &expr.Var{Name: "m", Typ: types.Map{Key: types.INT, Val: types.INT}}
	c := cache.New()
	c.Add(m, 1)
	b := builder.New(cost.Constant{})
	got := collect(b, c, 3)
	for _, e := range got {
		if bo, ok := e.(*expr.BinOp); ok && bo.Op == expr.OpEq {
			_, leftIsMap := bo.Left.Type().(types.Map)
			assert.False(t, leftIsMap)
		}
	}
}

func TestBuild_MapGetLift(t *testing.T) {
	m := &expr.Var{Name: "m", Typ: types.Map{Key: types.INT, Val: types.BOOL}}
	k := &expr.Lit{Value: int64(1), Typ: types.INT}
	c := cache.New()
	c.Add(m, 1)
	c.Add(k, 1)
	b := builder.New(cost.Constant{})
	got := collect(b, c, 3)
	var sawGet bool
	for _, e := range got {
		if g, ok := e.(*expr.MapGet); ok {
			assert.Equal(t, types.BOOL, g.Type())
			sawGet = true
		}
	}
	assert.True(t, sawGet)
}

func TestBuild_MapLiftRequiresFlagAndBindsFreshVar(t *testing.T) {
	xs := &expr.Var{Name: "xs", Typ: types.Bag{Elem: types.INT}}
	c := cache.New()
	c.Add(xs, 1)
	b := builder.New(cost.Constant{}).WithFeatures(false, true, false, false).
		WithRoots(&expr.Lit{Value: int64(1), Typ: types.INT})
	got := collect(b, c, 3)
	var sawMap bool
	for _, e := range got {
		if m, ok := e.(*expr.MapExpr); ok {
			sawMap = true
			assert.Equal(t, types.TagBag, m.Type().Tag())
			assert.NotEqual(t, xs.Name, m.Fn.Param.Name)
			assert.Equal(t, types.INT, m.Fn.Param.Typ)
		}
	}
	assert.True(t, sawMap)

	withoutMaps := builder.New(cost.Constant{}).WithRoots(&expr.Lit{Value: int64(1), Typ: types.INT})
	for _, e := range collect(withoutMaps, c, 3) {
		_, isMap := e.(*expr.MapExpr)
		assert.False(t, isMap)
	}
}

func TestBuild_FilterLiftAnchorsOnBooleanRootHole(t *testing.T) {
	h := &expr.Hole{Name: "h", Typ: types.INT}
	y := &expr.Var{Name: "y", Typ: types.INT}
	predRoot := &expr.BinOp{Op: expr.OpEq, Left: h, Right: y, Typ: types.BOOL}
	xs := &expr.Var{Name: "xs", Typ: types.Bag{Elem: types.INT}}

	c := cache.New()
	c.Add(xs, 1)
	c.Add(y, 1)
	b := builder.New(cost.Constant{}).WithFeatures(false, false, true, false).WithRoots(predRoot, y)

	var sawFilter bool
	for size := 1; size <= 6; size++ {
		for e := range b.Build(c, size) {
			if f, ok := e.(*expr.FilterExpr); ok {
				sawFilter = true
				assert.Equal(t, xs.Typ, f.Type())
			}
			c.Add(e, size)
		}
		if sawFilter {
			break
		}
	}
	assert.True(t, sawFilter, "expected Filter to be discoverable within a few size classes")
}

func TestBuild_ClosedRootOfSizeGreaterThanOneOnlySurfacesAtItsOwnSize(t *testing.T) {
	// A closed root larger than a single node (as produced once
	// AlterMaybe/Filter substitute a fresh variable for a root's sole hole)
	// must only be yielded when asked for its actual structural size, never
	// at an unrelated size like 1 (§8 invariant 2).
	y := &expr.Var{Name: "y", Typ: types.INT}
	x := &expr.Var{Name: "x", Typ: types.INT}
	closedRoot := &expr.BinOp{Op: expr.OpEq, Left: x, Right: y, Typ: types.BOOL}
	assert.Equal(t, 3, expr.Size(closedRoot))

	b := builder.New(cost.Constant{}).WithRoots(closedRoot)
	c := cache.New()

	assert.Empty(t, collect(b, c, 1), "a size-3 closed root must not surface when size 1 is requested")

	got := collect(b, c, 3)
	var found bool
	for _, e := range got {
		if e == expr.Expr(closedRoot) {
			found = true
		}
	}
	assert.True(t, found, "the closed root should surface at its own structural size")
}

func TestBuild_NeverMutatesInputCache(t *testing.T) {
	xs := &expr.Var{Name: "xs", Typ: types.Bag{Elem: types.INT}}
	c := cache.New()
	c.Add(xs, 1)
	before := 0
	for range c.All() {
		before++
	}

	b := builder.New(cost.Constant{}).WithFeatures(false, true, false, false).
		WithRoots(&expr.Lit{Value: int64(1), Typ: types.INT})
	for range b.Build(c, 3) {
		// drain
	}

	after := 0
	for range c.All() {
		after++
	}
	assert.Equal(t, before, after, "Build must not insert into the caller's cache")
}
