// Package builder implements the candidate-expression builder (§4.3): given
// a cache and a target size, lazily enumerate every well-typed expression of
// that size reachable by composing the builder's roots through sums, the,
// not, and/or, equality, map lookups, handle projections, AlterMaybe over
// maybes, and (when enabled) tuple projections and Map/Filter over bags.
package builder

import (
	"iter"

	"github.com/holesynth/synthcore/internal/cache"
	"github.com/holesynth/synthcore/internal/combin"
	"github.com/holesynth/synthcore/internal/cost"
	"github.com/holesynth/synthcore/internal/expr"
	"github.com/holesynth/synthcore/internal/subst"
	"github.com/holesynth/synthcore/internal/types"
)

// Builder is immutable once constructed: every With* method returns a new
// value rather than mutating the receiver, since the builder may be shared
// across many holes (§9's "hole's back-reference to a builder").
type Builder struct {
	roots        []expr.Expr
	typeRoots    []types.Type
	buildSums    bool
	buildMaps    bool
	buildFilters bool
	buildTuples  bool
	maxBagDepth  int
	cost         cost.Model
}

// New returns a Builder with no roots and every feature flag off; chain
// With* calls to configure it.
func New(cm cost.Model) *Builder {
	return &Builder{cost: cm, maxBagDepth: 2}
}

// WithRoots returns a copy of b with additional seed expressions appended
// to its root set. Roots may contain holes (§4.3 step 2 instantiates them).
func (b *Builder) WithRoots(roots ...expr.Expr) *Builder {
	nb := *b
	nb.roots = append(append([]expr.Expr{}, b.roots...), roots...)
	return &nb
}

// WithTypeRoots returns a copy of b with additional base types for the type
// enumerator.
func (b *Builder) WithTypeRoots(ts ...types.Type) *Builder {
	nb := *b
	nb.typeRoots = append(append([]types.Type{}, b.typeRoots...), ts...)
	return &nb
}

// WithFeatures returns a copy of b with the given feature flags set.
func (b *Builder) WithFeatures(sums, maps, filters, tuples bool) *Builder {
	nb := *b
	nb.buildSums, nb.buildMaps, nb.buildFilters, nb.buildTuples = sums, maps, filters, tuples
	return &nb
}

// WithMaxBagDepth returns a copy of b with its type-enumeration bag-nesting
// bound set to depth.
func (b *Builder) WithMaxBagDepth(depth int) *Builder {
	nb := *b
	nb.maxBagDepth = depth
	return &nb
}

// CostModel exposes the builder's cost model, e.g. so a caller can run its
// own pruning pass over whatever the builder yields.
func (b *Builder) CostModel() cost.Model { return b.cost }

// Roots exposes the builder's configured root templates.
func (b *Builder) Roots() []expr.Expr { return b.roots }

func (b *Builder) withSingleRoot(root expr.Expr) *Builder {
	nb := *b
	nb.roots = []expr.Expr{root}
	return &nb
}

// Build yields every well-typed expression of exactly size s reachable from
// b's roots against cache c. It never mutates c (cache-cloning is used for
// the Map/Filter augmented-context rules; AlterMaybe reads c unchanged).
func (b *Builder) Build(c *cache.Cache, s int) iter.Seq[expr.Expr] {
	return func(yield func(expr.Expr) bool) {
		if s <= 0 {
			return
		}
		if !b.buildClosedRoots(s, yield) {
			return
		}
		if s == 1 {
			return
		}
		if !b.instantiateHoledRoots(c, s, yield) {
			return
		}
		if !b.unaryLifts(c, s, yield) {
			return
		}
		if !b.binaryLifts(c, s, yield) {
			return
		}
		if !b.alterMaybeLifts(c, s, yield) {
			return
		}
		if b.buildMaps {
			if !b.mapLifts(c, s, yield) {
				return
			}
		}
		if b.buildFilters {
			if !b.filterLifts(c, s, yield) {
				return
			}
		}
	}
}

// buildClosedRoots yields every closed root whose own structural size
// equals s: §4.3 step 1, generalized from "size 1" to "whatever size the
// root actually is" so the single root that withSingleRoot installs after
// a hole has already been substituted away (AlterMaybe/Filter's single-hole
// case) is still reachable at its real size instead of only at size 1.
func (b *Builder) buildClosedRoots(s int, yield func(expr.Expr) bool) bool {
	for _, root := range b.roots {
		if subst.IsClosed(root) && expr.Size(root) == s {
			if !yield(root) {
				return false
			}
		}
	}
	return true
}

// instantiateHoledRoots fills every hole in each holed root by drawing
// matching-type, matching-size candidates from c: §4.3 step 2. The size
// budget distributed across the n holes is s minus the root's own fixed
// (non-hole) structural cost, not simply s-1: a root whose top node wraps
// more than just its holes (e.g. a fixed operand alongside one hole, as
// arises once AlterMaybe/Filter substitute a fresh variable for one hole
// of a multi-hole root) still needs every one of its fixed nodes paid for.
func (b *Builder) instantiateHoledRoots(c *cache.Cache, s int, yield func(expr.Expr) bool) bool {
	for _, root := range b.roots {
		holes := subst.FindHoles(root)
		if len(holes) == 0 {
			continue
		}
		n := len(holes)
		fixedCost := expr.Size(root) - n
		budget := s - fixedCost
		if budget < n {
			continue
		}
		for sizes := range combin.PickToSum(n, budget) {
			perHole := make([][]expr.Expr, n)
			for i, h := range holes {
				var cands []expr.Expr
				for e := range c.FindAt(cache.OfType(h.Typ), sizes[i]) {
					cands = append(cands, e)
				}
				perHole[i] = cands
			}
			for combo := range combin.CrossProduct(perHole) {
				m := make(map[string]expr.Expr, n)
				for i, h := range holes {
					m[h.Name] = combo[i]
				}
				if !yield(subst.Subst(root, m)) {
					return false
				}
			}
		}
	}
	return true
}

// unaryLifts produces sum, the, not, .val and tuple-projection nodes over
// cached expressions of size s-1: §4.3 step 3.
func (b *Builder) unaryLifts(c *cache.Cache, s int, yield func(expr.Expr) bool) bool {
	prev := s - 1
	if b.buildSums {
		for e := range c.FindAt(cache.OfType(types.Bag{Elem: types.INT}), prev) {
			if !yield(&expr.UnaryOp{Op: expr.OpSum, Arg: e, Typ: types.INT}) {
				return false
			}
		}
	}
	for e := range c.FindAt(cache.OfTag(types.TagBag), prev) {
		elem := e.Type().(types.Bag).Elem
		if !yield(&expr.UnaryOp{Op: expr.OpThe, Arg: e, Typ: types.Maybe{Elem: elem}}) {
			return false
		}
	}
	for e := range c.FindAt(cache.OfType(types.BOOL), prev) {
		if !yield(&expr.UnaryOp{Op: expr.OpNot, Arg: e, Typ: types.BOOL}) {
			return false
		}
	}
	for e := range c.FindAt(cache.OfTag(types.TagHandle), prev) {
		h := e.Type().(types.Handle)
		if !yield(&expr.HandleGet{Handle: e, Typ: h.Value}) {
			return false
		}
	}
	if b.buildTuples {
		for e := range c.FindAt(cache.OfTag(types.TagTuple), prev) {
			tup := e.Type().(types.Tuple)
			for i, et := range tup.Elems {
				if !yield(&expr.TupleGet{Tuple: e, Index: i, Typ: et}) {
					return false
				}
			}
		}
	}
	return true
}

// binaryLifts produces +, and, or, ==, and MapGet nodes over every size
// split of s-1: §4.3 step 4.
func (b *Builder) binaryLifts(c *cache.Cache, s int, yield func(expr.Expr) bool) bool {
	for s1 := 1; s1 <= s-2; s1++ {
		s2 := s - 1 - s1
		if s2 < 1 {
			continue
		}
		if b.buildSums {
			for l := range c.FindAt(cache.OfType(types.INT), s1) {
				for r := range c.FindAt(cache.OfType(types.INT), s2) {
					if !yield(&expr.BinOp{Op: expr.OpAdd, Left: l, Right: r, Typ: types.INT}) {
						return false
					}
				}
			}
		}
		for l := range c.FindAt(cache.OfType(types.BOOL), s1) {
			for r := range c.FindAt(cache.OfType(types.BOOL), s2) {
				if !yield(&expr.BinOp{Op: expr.OpAnd, Left: l, Right: r, Typ: types.BOOL}) {
					return false
				}
				if !yield(&expr.BinOp{Op: expr.OpOr, Left: l, Right: r, Typ: types.BOOL}) {
					return false
				}
			}
		}
		for l := range c.FindAt(cache.Any(), s1) {
			if _, isMap := l.Type().(types.Map); isMap {
				continue
			}
			for r := range c.FindAt(cache.OfType(l.Type()), s2) {
				if !yield(&expr.BinOp{Op: expr.OpEq, Left: l, Right: r, Typ: types.BOOL}) {
					return false
				}
			}
		}
		for m := range c.FindAt(cache.OfTag(types.TagMap), s1) {
			mt := m.Type().(types.Map)
			for k := range c.FindAt(cache.OfType(mt.Key), s2) {
				if !yield(&expr.MapGet{Map: m, Key: k, Typ: mt.Val}) {
					return false
				}
			}
		}
	}
	return true
}

// alterMaybeLifts implements §4.3 step 5: pick a Maybe from the cache and a
// root with a hole of matching element type, substitute a fresh variable
// for that one hole, and fill any remaining holes from the unchanged cache
// at size s2.
func (b *Builder) alterMaybeLifts(c *cache.Cache, s int, yield func(expr.Expr) bool) bool {
	for s1 := 1; s1 <= s-2; s1++ {
		s2 := s - 1 - s1
		if s2 < 1 {
			continue
		}
		for m := range c.FindAt(cache.OfTag(types.TagMaybe), s1) {
			elem := m.Type().(types.Maybe).Elem
			for _, root := range b.roots {
				for _, h := range subst.FindHoles(root) {
					if !h.Typ.Equal(elem) {
						continue
					}
					v := expr.FreshVar(elem)
					substituted := subst.Subst(root, map[string]expr.Expr{h.Name: v})
					for body := range b.withSingleRoot(substituted).Build(c, s2) {
						if !yield(&expr.AlterMaybe{
							Maybe: m,
							Fn:    &expr.Lambda{Param: v, Body: body},
							Typ:   types.Maybe{Elem: body.Type()},
						}) {
							return false
						}
					}
				}
			}
		}
	}
	return true
}

// mapLifts implements §4.3 step 6: Map(bag, λv.body), where body is drawn
// from a clone of c with v inserted at size 1 so v may appear anywhere the
// recursive Build call reaches.
func (b *Builder) mapLifts(c *cache.Cache, s int, yield func(expr.Expr) bool) bool {
	for s1 := 1; s1 <= s-2; s1++ {
		s2 := s - 1 - s1
		if s2 < 1 {
			continue
		}
		for bag := range c.FindAt(cache.OfTag(types.TagBag), s1) {
			elem := bag.Type().(types.Bag).Elem
			v := expr.FreshVar(elem)
			augmented := c.Clone()
			augmented.Add(v, 1)
			for body := range b.Build(augmented, s2) {
				if !yield(&expr.MapExpr{
					Bag: bag,
					Fn:  &expr.Lambda{Param: v, Body: body},
					Typ: types.Bag{Elem: body.Type()},
				}) {
					return false
				}
			}
		}
	}
	return true
}

// filterLifts implements §4.3 step 7: Filter(bag, λv.body), anchored on a
// boolean-typed root's hole the way AlterMaybe anchors on a Maybe-typed
// one, but — like Map — against a cache augmented with v so the predicate
// can combine v with other cached expressions, not just stand alone.
func (b *Builder) filterLifts(c *cache.Cache, s int, yield func(expr.Expr) bool) bool {
	for s1 := 1; s1 <= s-2; s1++ {
		s2 := s - 1 - s1
		if s2 < 1 {
			continue
		}
		for _, root := range b.roots {
			if !root.Type().Equal(types.BOOL) {
				continue
			}
			for _, h := range subst.FindHoles(root) {
				for bag := range c.FindAt(cache.OfTag(types.TagBag), s1) {
					elem := bag.Type().(types.Bag).Elem
					if !h.Typ.Equal(elem) {
						continue
					}
					v := expr.FreshVar(elem)
					substituted := subst.Subst(root, map[string]expr.Expr{h.Name: v})
					augmented := c.Clone()
					augmented.Add(v, 1)
					for body := range b.withSingleRoot(substituted).Build(augmented, s2) {
						if !body.Type().Equal(types.BOOL) {
							continue
						}
						if !yield(&expr.FilterExpr{
							Bag:  bag,
							Pred: &expr.Lambda{Param: v, Body: body},
							Typ:  bag.Type(),
						}) {
							return false
						}
					}
				}
			}
		}
	}
	return true
}
