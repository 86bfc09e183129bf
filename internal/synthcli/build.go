package synthcli

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/holesynth/synthcore/internal/builder"
	"github.com/holesynth/synthcore/internal/cost"
	"github.com/holesynth/synthcore/internal/expr"
	"github.com/holesynth/synthcore/internal/types"
)

// Problem is a fully resolved synthesis problem: a boolean specification
// referencing zero or more holes, and the builder that fills them.
type Problem struct {
	Spec    expr.Expr
	Builder *builder.Builder
}

// Features configures which of the builder's optional lift rules Build
// turns on; it mirrors config.Config's builder knobs so a caller can thread
// one straight through.
type Features struct {
	Sums    bool
	Maps    bool
	Filters bool
	Tuples  bool
}

type scope struct {
	vars map[string]*expr.Var
}

// Build resolves a parsed Program into a Problem: it type-checks every
// identifier against the program's var declarations, turns each RootDecl
// into a builder root, and wires every hole literal's Builder back-reference
// to the resulting *builder.Builder so internal/search can recurse into it.
func Build(prog *Program, cm cost.Model, feat Features) (*Problem, error) {
	sc := &scope{vars: map[string]*expr.Var{}}
	for _, d := range prog.Decls {
		if d.Var == nil {
			continue
		}
		if _, exists := sc.vars[d.Var.Name]; exists {
			return nil, errors.Errorf("synthcli: %s declared twice", d.Var.Name)
		}
		t, err := resolveType(d.Var.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "synthcli: var %s", d.Var.Name)
		}
		sc.vars[d.Var.Name] = &expr.Var{Name: d.Var.Name, Typ: t}
	}

	b := builder.New(cm).WithFeatures(feat.Sums, feat.Maps, feat.Filters, feat.Tuples)
	for _, v := range sc.vars {
		b = b.WithTypeRoots(v.Typ)
	}

	var roots []expr.Expr
	for _, d := range prog.Decls {
		if d.Root == nil {
			continue
		}
		r, err := sc.resolveExpr(d.Root.Expr, b)
		if err != nil {
			return nil, errors.Wrap(err, "synthcli: root")
		}
		roots = append(roots, r)
	}
	b = b.WithRoots(roots...)

	spec, err := sc.resolveExpr(prog.Spec.Expr, b)
	if err != nil {
		return nil, errors.Wrap(err, "synthcli: spec")
	}
	if !spec.Type().Equal(types.BOOL) {
		return nil, errors.Errorf("synthcli: spec must be Bool, got %s", spec.Type())
	}
	return &Problem{Spec: spec, Builder: b}, nil
}

func resolveType(t *TypeExpr) (types.Type, error) {
	switch t.Name {
	case "Int":
		return types.INT, nil
	case "Bool":
		return types.BOOL, nil
	case "String":
		return types.STRING, nil
	case "Bag":
		if len(t.Args) != 1 {
			return nil, errors.New("Bag takes exactly one type argument")
		}
		elem, err := resolveType(t.Args[0])
		if err != nil {
			return nil, err
		}
		return types.Bag{Elem: elem}, nil
	case "Maybe":
		if len(t.Args) != 1 {
			return nil, errors.New("Maybe takes exactly one type argument")
		}
		elem, err := resolveType(t.Args[0])
		if err != nil {
			return nil, err
		}
		return types.Maybe{Elem: elem}, nil
	case "Map":
		if len(t.Args) != 2 {
			return nil, errors.New("Map takes exactly two type arguments")
		}
		key, err := resolveType(t.Args[0])
		if err != nil {
			return nil, err
		}
		val, err := resolveType(t.Args[1])
		if err != nil {
			return nil, err
		}
		if !types.IsValidKey(key) {
			return nil, errors.Errorf("synthcli: %s is not a valid map key type", key)
		}
		return types.Map{Key: key, Val: val}, nil
	default:
		return types.Native{Name: t.Name}, nil
	}
}

func (sc *scope) resolveExpr(e *Expr, b *builder.Builder) (expr.Expr, error) {
	left, err := sc.resolveOr(e.Left, b)
	if err != nil {
		return nil, err
	}
	if e.Right == nil {
		return left, nil
	}
	right, err := sc.resolveOr(e.Right, b)
	if err != nil {
		return nil, err
	}
	if !left.Type().Equal(right.Type()) {
		return nil, errors.Errorf("synthcli: == operands have mismatched types %s and %s", left.Type(), right.Type())
	}
	return &expr.BinOp{Op: expr.OpEq, Left: left, Right: right, Typ: types.BOOL}, nil
}

func (sc *scope) resolveOr(n *OrExpr, b *builder.Builder) (expr.Expr, error) {
	cur, err := sc.resolveAnd(n.Left, b)
	if err != nil {
		return nil, err
	}
	for _, r := range n.Rest {
		rhs, err := sc.resolveAnd(r, b)
		if err != nil {
			return nil, err
		}
		cur = &expr.BinOp{Op: expr.OpOr, Left: cur, Right: rhs, Typ: types.BOOL}
	}
	return cur, nil
}

func (sc *scope) resolveAnd(n *AndExpr, b *builder.Builder) (expr.Expr, error) {
	cur, err := sc.resolveAdd(n.Left, b)
	if err != nil {
		return nil, err
	}
	for _, r := range n.Rest {
		rhs, err := sc.resolveAdd(r, b)
		if err != nil {
			return nil, err
		}
		cur = &expr.BinOp{Op: expr.OpAnd, Left: cur, Right: rhs, Typ: types.BOOL}
	}
	return cur, nil
}

func (sc *scope) resolveAdd(n *AddExpr, b *builder.Builder) (expr.Expr, error) {
	cur, err := sc.resolveUnary(n.Left, b)
	if err != nil {
		return nil, err
	}
	for _, r := range n.Rest {
		rhs, err := sc.resolveUnary(r, b)
		if err != nil {
			return nil, err
		}
		cur = &expr.BinOp{Op: expr.OpAdd, Left: cur, Right: rhs, Typ: types.INT}
	}
	return cur, nil
}

func (sc *scope) resolveUnary(n *Unary, b *builder.Builder) (expr.Expr, error) {
	if n.Op == "" {
		return sc.resolvePostfix(n.Atom, b)
	}
	arg, err := sc.resolveUnary(n.Operand, b)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "not":
		return &expr.UnaryOp{Op: expr.OpNot, Arg: arg, Typ: types.BOOL}, nil
	case "sum":
		return &expr.UnaryOp{Op: expr.OpSum, Arg: arg, Typ: types.INT}, nil
	case "the":
		bag, ok := arg.Type().(types.Bag)
		if !ok {
			return nil, errors.Errorf("synthcli: the() expects a Bag, got %s", arg.Type())
		}
		return &expr.UnaryOp{Op: expr.OpThe, Arg: arg, Typ: types.Maybe{Elem: bag.Elem}}, nil
	default:
		return nil, errors.Errorf("synthcli: unknown prefix operator %q", n.Op)
	}
}

func (sc *scope) resolvePostfix(n *Postfix, b *builder.Builder) (expr.Expr, error) {
	cur, err := sc.resolveAtom(n.Atom, b)
	if err != nil {
		return nil, err
	}
	for _, tr := range n.Trail {
		switch {
		case tr.Val:
			h, ok := cur.Type().(types.Handle)
			if !ok {
				return nil, errors.Errorf("synthcli: .val expects a Handle, got %s", cur.Type())
			}
			cur = &expr.HandleGet{Handle: cur, Typ: h.Value}
		case tr.Index != nil:
			t, ok := cur.Type().(types.Tuple)
			if !ok || *tr.Index < 0 || *tr.Index >= len(t.Elems) {
				return nil, errors.Errorf("synthcli: .%d is not a valid tuple projection on %s", *tr.Index, cur.Type())
			}
			cur = &expr.TupleGet{Tuple: cur, Index: *tr.Index, Typ: t.Elems[*tr.Index]}
		case tr.Key != nil:
			m, ok := cur.Type().(types.Map)
			if !ok {
				return nil, errors.Errorf("synthcli: [key] expects a Map, got %s", cur.Type())
			}
			key, err := sc.resolveExpr(tr.Key, b)
			if err != nil {
				return nil, err
			}
			if !key.Type().Equal(m.Key) {
				return nil, errors.Errorf("synthcli: map key has type %s, expected %s", key.Type(), m.Key)
			}
			cur = &expr.MapGet{Map: cur, Key: key, Typ: m.Val}
		}
	}
	return cur, nil
}

func (sc *scope) resolveAtom(n *Atom, b *builder.Builder) (expr.Expr, error) {
	switch {
	case n.Hole != nil:
		t, err := resolveType(n.Hole.Type)
		if err != nil {
			return nil, err
		}
		return &expr.Hole{Name: expr.FreshName("h"), Typ: t, Builder: b}, nil
	case n.Int != nil:
		return &expr.Lit{Value: int64(*n.Int), Typ: types.INT}, nil
	case n.Bool != nil:
		v, err := strconv.ParseBool(*n.Bool)
		if err != nil {
			return nil, errors.Wrapf(err, "synthcli: %q is not a valid boolean literal", *n.Bool)
		}
		return &expr.Lit{Value: v, Typ: types.BOOL}, nil
	case n.Ident != nil:
		v, ok := sc.vars[*n.Ident]
		if !ok {
			return nil, errors.Errorf("synthcli: undeclared identifier %s", *n.Ident)
		}
		return v, nil
	case n.Paren != nil:
		return sc.resolveExpr(n.Paren, b)
	default:
		return nil, errors.New("synthcli: empty atom")
	}
}
