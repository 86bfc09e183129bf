// Package cost implements the two reference cost models the builder and
// inner search prune with: a trivial constant model and a bottom-up
// runtime-estimate model driven by an optimistic cardinality heuristic.
package cost

import (
	"github.com/holesynth/synthcore/internal/expr"
	"github.com/holesynth/synthcore/internal/types"
)

// Model assigns a non-negative cost to expressions. Cost is defined over
// closed expressions; BestCaseCost is a lower bound usable on expressions
// that still contain holes (treating each hole as free). Monotonic reports
// whether replacing a sub-expression by a cheaper one of the same type
// never increases the enclosing expression's cost; the inner search only
// prunes on cost when this holds.
type Model interface {
	Cost(e expr.Expr) float64
	BestCaseCost(e expr.Expr) float64
	Monotonic() bool
}

// Constant assigns every expression a cost of 1. Trivially monotonic.
type Constant struct{}

func (Constant) Cost(expr.Expr) float64         { return 1 }
func (Constant) BestCaseCost(expr.Expr) float64 { return 1 }
func (Constant) Monotonic() bool                { return true }

// Runtime estimates actual execution cost: a bottom-up sum of per-node
// contributions plus 0.01 for every node, where sum(e) and the collection
// combinators additionally weight by an optimistic cardinality estimate of
// their operand bag.
type Runtime struct{}

func (Runtime) Cost(e expr.Expr) float64         { return runtimeCost(e, false) }
func (Runtime) BestCaseCost(e expr.Expr) float64 { return runtimeCost(e, true) }
func (Runtime) Monotonic() bool                  { return true }

func runtimeCost(e expr.Expr, optimistic bool) float64 {
	switch n := e.(type) {
	case *expr.Hole:
		if optimistic {
			return 0
		}
		panic("cost: Cost called on an expression that still contains a hole")
	case *expr.UnaryOp:
		c := 0.01 + runtimeCost(n.Arg, optimistic)
		if n.Op == expr.OpSum {
			c += cardinality(n.Arg, optimistic)
		}
		return c
	case *expr.MapExpr:
		return 0.01 + runtimeCost(n.Bag, optimistic) + cardinality(n.Bag, optimistic)*runtimeCost(n.Fn.Body, optimistic)
	case *expr.FilterExpr:
		return 0.01 + runtimeCost(n.Bag, optimistic) + cardinality(n.Bag, optimistic)*runtimeCost(n.Pred.Body, optimistic)
	default:
		total := 0.01
		for _, c := range expr.Children(e) {
			total += runtimeCost(c, optimistic)
		}
		return total
	}
}

// cardinality is the optimistic cardinality heuristic: 1000 for a free
// variable of collection type (Bag or Map), the parent map's cardinality
// divided by 3 for a MapGet, 0 everywhere else. It is a heuristic, not a
// measurement; refining it is safe as long as the runtime model stays
// monotonic.
func cardinality(e expr.Expr, optimistic bool) float64 {
	switch n := e.(type) {
	case *expr.Var:
		if isCollectionType(n.Typ) {
			return 1000
		}
		return 0
	case *expr.MapGet:
		return cardinality(n.Map, optimistic) / 3
	case *expr.Hole:
		if optimistic {
			return 0
		}
		panic("cost: cardinality called on an expression that still contains a hole")
	default:
		return 0
	}
}

func isCollectionType(t types.Type) bool {
	switch t.(type) {
	case types.Bag, types.Map:
		return true
	default:
		return false
	}
}
