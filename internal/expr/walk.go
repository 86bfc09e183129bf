package expr

// Children returns e's immediate subexpressions in evaluation order. App is
// special-cased: its argument is evaluated before its function position, so
// the argument comes first. This is the generic fold the original source's
// BottomUpExplorer visitor collapses to in Go: every traversal (size,
// fingerprinting, hole discovery, cost) walks Children instead of a
// per-node-kind visit method, except the few passes (substitution, typed
// evaluation) that must rebuild a differently-typed node per kind.
func Children(e Expr) []Expr {
	switch n := e.(type) {
	case *Var, *Lit:
		return nil
	case *Hole:
		return nil
	case *UnaryOp:
		return []Expr{n.Arg}
	case *BinOp:
		return []Expr{n.Left, n.Right}
	case *TupleExp:
		return n.Elems
	case *TupleGet:
		return []Expr{n.Tuple}
	case *FieldGet:
		return []Expr{n.Record}
	case *HandleGet:
		return []Expr{n.Handle}
	case *MapExpr:
		return []Expr{n.Bag, n.Fn.Body}
	case *FilterExpr:
		return []Expr{n.Bag, n.Pred.Body}
	case *MakeMap:
		return []Expr{n.Bag, n.Key.Body}
	case *MapGet:
		return []Expr{n.Map, n.Key}
	case *AlterMaybe:
		return []Expr{n.Maybe, n.Fn.Body}
	case *Lambda:
		return []Expr{n.Body}
	case *App:
		return []Expr{n.Arg, n.Fn}
	default:
		panic("expr: Children: unhandled node type")
	}
}

// Size returns e's structural node count: 1 for a leaf, plus 1 for every
// internal node, summed over its children.
func Size(e Expr) int {
	size := 1
	for _, c := range Children(e) {
		size += Size(c)
	}
	return size
}
