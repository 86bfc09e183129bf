package solver

import (
	"github.com/holesynth/synthcore/internal/eval"
	"github.com/holesynth/synthcore/internal/expr"
	"github.com/holesynth/synthcore/internal/subst"
)

// tri is a three-valued truth value used to under-approximate what a
// partial (still-holed) boolean expression can evaluate to once its holes
// are eventually filled.
type tri int

const (
	triFalse tri = iota
	triTrue
	triUnknown
)

// Feasible reports whether partial — a specification with some holes still
// unfilled — can plausibly be made to evaluate true on every example given
// some future filling of its remaining holes (§6). It is a sound
// under-approximation, not a decision procedure: it only ever returns false
// when some example rules the candidate out regardless of how the holes
// are filled; anything it cannot determine is treated as feasible, so the
// inner search never discards a candidate that might still work.
func Feasible(partial expr.Expr, examples []*eval.Env) bool {
	for _, env := range examples {
		if feasibleTri(partial, env) == triFalse {
			return false
		}
	}
	return true
}

// feasibleTri evaluates e under env using Kleene three-valued logic: a
// sub-expression that still contains a hole is triUnknown unless it sits
// under a boolean combinator (and/or/not) that can short-circuit around it,
// e.g. `false and ?hole` is triFalse regardless of what fills the hole.
func feasibleTri(e expr.Expr, env *eval.Env) tri {
	if !subst.ContainsHoles(e) {
		v, err := eval.Eval(e, env)
		if err != nil {
			return triUnknown
		}
		b, ok := v.(bool)
		if !ok {
			// Non-boolean leaf feeding a combinator higher up; its
			// concrete value doesn't matter here.
			return triUnknown
		}
		if b {
			return triTrue
		}
		return triFalse
	}

	switch n := e.(type) {
	case *expr.BinOp:
		switch n.Op {
		case expr.OpAnd:
			return triAnd(feasibleTri(n.Left, env), feasibleTri(n.Right, env))
		case expr.OpOr:
			return triOr(feasibleTri(n.Left, env), feasibleTri(n.Right, env))
		}
		return triUnknown
	case *expr.UnaryOp:
		if n.Op == expr.OpNot {
			return triNot(feasibleTri(n.Arg, env))
		}
		return triUnknown
	default:
		return triUnknown
	}
}

func triAnd(a, b tri) tri {
	if a == triFalse || b == triFalse {
		return triFalse
	}
	if a == triTrue && b == triTrue {
		return triTrue
	}
	return triUnknown
}

func triOr(a, b tri) tri {
	if a == triTrue || b == triTrue {
		return triTrue
	}
	if a == triFalse && b == triFalse {
		return triFalse
	}
	return triUnknown
}

func triNot(a tri) tri {
	switch a {
	case triTrue:
		return triFalse
	case triFalse:
		return triTrue
	default:
		return triUnknown
	}
}
