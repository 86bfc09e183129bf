// Package subst implements capture-avoiding substitution and the hole
// traversal helpers the synthesizer's search loop relies on: replacing named
// holes by expressions, enumerating holes in evaluation order, and testing
// whether an expression is closed.
package subst

import "github.com/holesynth/synthcore/internal/expr"

// Subst replaces every Hole or Var node whose name is a key of m with the
// corresponding expression, rebuilding every ancestor node along the way
// (expressions are immutable, so substitution never mutates in place).
//
// Capture avoidance: Lambda-bound names are always generated by
// expr.FreshVar, so a substituted expression's free variables can never
// collide with a binder already in scope; Subst still stops rewriting a
// name once it shadows a binder, so a caller that substitutes for a name
// which happens to match a Lambda's own parameter does not reach inside
// that lambda.
func Subst(e expr.Expr, m map[string]expr.Expr) expr.Expr {
	if len(m) == 0 {
		return e
	}
	switch n := e.(type) {
	case *expr.Var:
		if r, ok := m[n.Name]; ok {
			return r
		}
		return n
	case *expr.Lit:
		return n
	case *expr.Hole:
		if r, ok := m[n.Name]; ok {
			return r
		}
		return n
	case *expr.UnaryOp:
		return &expr.UnaryOp{Op: n.Op, Arg: Subst(n.Arg, m), Typ: n.Typ}
	case *expr.BinOp:
		return &expr.BinOp{Op: n.Op, Left: Subst(n.Left, m), Right: Subst(n.Right, m), Typ: n.Typ}
	case *expr.TupleExp:
		elems := make([]expr.Expr, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = Subst(el, m)
		}
		return &expr.TupleExp{Elems: elems, Typ: n.Typ}
	case *expr.TupleGet:
		return &expr.TupleGet{Tuple: Subst(n.Tuple, m), Index: n.Index, Typ: n.Typ}
	case *expr.FieldGet:
		return &expr.FieldGet{Record: Subst(n.Record, m), Field: n.Field, Typ: n.Typ}
	case *expr.HandleGet:
		return &expr.HandleGet{Handle: Subst(n.Handle, m), Typ: n.Typ}
	case *expr.MapExpr:
		return &expr.MapExpr{Bag: Subst(n.Bag, m), Fn: substLambda(n.Fn, m), Typ: n.Typ}
	case *expr.FilterExpr:
		return &expr.FilterExpr{Bag: Subst(n.Bag, m), Pred: substLambda(n.Pred, m), Typ: n.Typ}
	case *expr.MakeMap:
		return &expr.MakeMap{Bag: Subst(n.Bag, m), Key: substLambda(n.Key, m), Typ: n.Typ}
	case *expr.MapGet:
		return &expr.MapGet{Map: Subst(n.Map, m), Key: Subst(n.Key, m), Typ: n.Typ}
	case *expr.AlterMaybe:
		return &expr.AlterMaybe{Maybe: Subst(n.Maybe, m), Fn: substLambda(n.Fn, m), Typ: n.Typ}
	case *expr.Lambda:
		return substLambda(n, m)
	case *expr.App:
		return &expr.App{Fn: Subst(n.Fn, m), Arg: Subst(n.Arg, m), Typ: n.Typ}
	default:
		panic("subst: Subst: unhandled node type")
	}
}

// substLambda substitutes inside a lambda body, shadowing the bound
// parameter name so a substitution for that name never crosses the binder.
func substLambda(l *expr.Lambda, m map[string]expr.Expr) *expr.Lambda {
	if _, shadowed := m[l.Param.Name]; shadowed {
		inner := make(map[string]expr.Expr, len(m)-1)
		for k, v := range m {
			if k != l.Param.Name {
				inner[k] = v
			}
		}
		return &expr.Lambda{Param: l.Param, Body: Subst(l.Body, inner)}
	}
	return &expr.Lambda{Param: l.Param, Body: Subst(l.Body, m)}
}

// FindHoles returns e's holes in evaluation order, deduplicated by name
// (the first occurrence wins). App is special-cased by expr.Children to put
// the argument before the function position, matching evaluation order.
func FindHoles(e expr.Expr) []*expr.Hole {
	var holes []*expr.Hole
	seen := make(map[string]bool)
	var walk func(expr.Expr)
	walk = func(e expr.Expr) {
		if h, ok := e.(*expr.Hole); ok {
			if !seen[h.Name] {
				seen[h.Name] = true
				holes = append(holes, h)
			}
			return
		}
		for _, c := range expr.Children(e) {
			walk(c)
		}
	}
	walk(e)
	return holes
}

// ContainsHoles reports whether e has at least one hole.
func ContainsHoles(e expr.Expr) bool {
	return len(FindHoles(e)) > 0
}

// IsClosed reports whether e contains no holes, i.e. it can be evaluated
// given an environment for its free ordinary variables.
func IsClosed(e expr.Expr) bool {
	return !ContainsHoles(e)
}

// FreeVars returns the ordinary (non-hole) variables e references that are
// not bound by an enclosing Lambda within e itself, deduplicated by name in
// first-occurrence order. Used by the solver to decide which names a
// counterexample model needs to bind.
func FreeVars(e expr.Expr) []*expr.Var {
	var vars []*expr.Var
	seen := make(map[string]bool)
	var walk func(expr.Expr, map[string]bool)
	walk = func(e expr.Expr, bound map[string]bool) {
		switch n := e.(type) {
		case *expr.Var:
			if !bound[n.Name] && !seen[n.Name] {
				seen[n.Name] = true
				vars = append(vars, n)
			}
		case *expr.Hole:
			return
		case *expr.Lambda:
			inner := make(map[string]bool, len(bound)+1)
			for k := range bound {
				inner[k] = true
			}
			inner[n.Param.Name] = true
			walk(n.Body, inner)
		default:
			for _, c := range expr.Children(e) {
				walk(c, bound)
			}
		}
	}
	walk(e, map[string]bool{})
	return vars
}
