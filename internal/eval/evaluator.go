package eval

import (
	"fmt"

	"github.com/holesynth/synthcore/internal/expr"
)

// MissingHoleError is raised by Eval when it reaches a Hole. Eval is only
// ever called on expressions the caller believes are closed (see §7), so
// this signals an invariant violation in the caller, not a normal control
// flow outcome; AllEnvsForHole evaluates in a tolerant mode instead and
// never produces this error.
type MissingHoleError struct {
	Hole *expr.Hole
	Env  *Env
}

func (e *MissingHoleError) Error() string {
	return fmt.Sprintf("eval: missing hole %q reached during closed-expression evaluation", e.Hole.Name)
}

// holeRecorder is invoked whenever evaluation reaches a hole in tolerant
// mode; it never halts evaluation, it only gets a chance to record the env.
type holeRecorder func(h *expr.Hole, env *Env)

// Eval reduces a closed expression to a value under env. If e still
// contains a hole, that is an internal error (§7): the caller should have
// ensured e was closed before calling Eval.
func Eval(e expr.Expr, env *Env) (Value, error) {
	return evalNode(e, env, nil)
}

// AllEnvsForHole enumerates every environment at which holeName is reached
// while evaluating spec under example. A hole may be reached more than once
// (e.g. one occurring inside a Map or Filter lambda body sees one
// environment per bag element); holes other than holeName are tolerated
// silently so evaluation can proceed past them.
func AllEnvsForHole(spec expr.Expr, example *Env, holeName string) []*Env {
	var envs []*Env
	rec := func(h *expr.Hole, env *Env) {
		if h.Name == holeName {
			envs = append(envs, env)
		}
	}
	// Errors are impossible in tolerant mode: every node type that can
	// fail only does so via an unbound variable, which indicates a
	// malformed example and is not this function's contract to report.
	_, _ = evalNode(spec, example, rec)
	return envs
}

func evalNode(e expr.Expr, env *Env, rec holeRecorder) (Value, error) {
	switch n := e.(type) {
	case *expr.Var:
		v, ok := env.Get(n.Name)
		if !ok {
			return nil, fmt.Errorf("eval: unbound variable %q", n.Name)
		}
		return v, nil

	case *expr.Lit:
		return n.Value, nil

	case *expr.Hole:
		if rec == nil {
			return nil, &MissingHoleError{Hole: n, Env: env}
		}
		rec(n, env)
		return Zero(n.Typ), nil

	case *expr.UnaryOp:
		return evalUnary(n, env, rec)

	case *expr.BinOp:
		return evalBinary(n, env, rec)

	case *expr.TupleExp:
		vals := make(TupleValue, len(n.Elems))
		for i, el := range n.Elems {
			v, err := evalNode(el, env, rec)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		return vals, nil

	case *expr.TupleGet:
		v, err := evalNode(n.Tuple, env, rec)
		if err != nil {
			return nil, err
		}
		tv, ok := v.(TupleValue)
		if !ok || n.Index >= len(tv) {
			return nil, fmt.Errorf("eval: tuple index %d out of range", n.Index)
		}
		return tv[n.Index], nil

	case *expr.FieldGet:
		v, err := evalNode(n.Record, env, rec)
		if err != nil {
			return nil, err
		}
		rv, ok := v.(RecordValue)
		if !ok {
			return nil, fmt.Errorf("eval: field access on non-record value")
		}
		return rv[n.Field], nil

	case *expr.HandleGet:
		v, err := evalNode(n.Handle, env, rec)
		if err != nil {
			return nil, err
		}
		hv, ok := v.(HandleValue)
		if !ok {
			return nil, fmt.Errorf("eval: .val on non-handle value")
		}
		return hv.Val, nil

	case *expr.MapExpr:
		bv, err := evalNode(n.Bag, env, rec)
		if err != nil {
			return nil, err
		}
		bag, ok := bv.(BagValue)
		if !ok {
			return nil, fmt.Errorf("eval: Map over non-bag value")
		}
		out := make(BagValue, 0, len(bag))
		for _, el := range bag {
			v, err := evalNode(n.Fn.Body, env.With(n.Fn.Param.Name, el), rec)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case *expr.FilterExpr:
		bv, err := evalNode(n.Bag, env, rec)
		if err != nil {
			return nil, err
		}
		bag, ok := bv.(BagValue)
		if !ok {
			return nil, fmt.Errorf("eval: Filter over non-bag value")
		}
		out := make(BagValue, 0, len(bag))
		for _, el := range bag {
			v, err := evalNode(n.Pred.Body, env.With(n.Pred.Param.Name, el), rec)
			if err != nil {
				return nil, err
			}
			keep, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("eval: Filter predicate did not evaluate to Bool")
			}
			if keep {
				out = append(out, el)
			}
		}
		return out, nil

	case *expr.MakeMap:
		bv, err := evalNode(n.Bag, env, rec)
		if err != nil {
			return nil, err
		}
		bag, ok := bv.(BagValue)
		if !ok {
			return nil, fmt.Errorf("eval: MakeMap over non-bag value")
		}
		var pairs MapValue
		for _, el := range bag {
			k, err := evalNode(n.Key.Body, env.With(n.Key.Param.Name, el), rec)
			if err != nil {
				return nil, err
			}
			pairs = upsert(pairs, k, el)
		}
		return pairs, nil

	case *expr.MapGet:
		mv, err := evalNode(n.Map, env, rec)
		if err != nil {
			return nil, err
		}
		m, ok := mv.(MapValue)
		if !ok {
			return nil, fmt.Errorf("eval: indexing a non-map value")
		}
		k, err := evalNode(n.Key, env, rec)
		if err != nil {
			return nil, err
		}
		if v, ok := m.Get(k); ok {
			return v, nil
		}
		return Zero(n.Typ), nil

	case *expr.AlterMaybe:
		mv, err := evalNode(n.Maybe, env, rec)
		if err != nil {
			return nil, err
		}
		maybe, ok := mv.(MaybeValue)
		if !ok {
			return nil, fmt.Errorf("eval: AlterMaybe over non-Maybe value")
		}
		if !maybe.Present {
			return MaybeValue{Present: false}, nil
		}
		v, err := evalNode(n.Fn.Body, env.With(n.Fn.Param.Name, maybe.Val), rec)
		if err != nil {
			return nil, err
		}
		return MaybeValue{Present: true, Val: v}, nil

	case *expr.Lambda:
		return FuncValue{Lambda: n, Env: env}, nil

	case *expr.App:
		argv, err := evalNode(n.Arg, env, rec)
		if err != nil {
			return nil, err
		}
		fv, err := evalNode(n.Fn, env, rec)
		if err != nil {
			return nil, err
		}
		fn, ok := fv.(FuncValue)
		if !ok {
			return nil, fmt.Errorf("eval: applying a non-function value")
		}
		return evalNode(fn.Lambda.Body, fn.Env.With(fn.Lambda.Param.Name, argv), rec)

	default:
		return nil, fmt.Errorf("eval: unhandled expression node %T", e)
	}
}

func upsert(m MapValue, key, val Value) MapValue {
	for i, p := range m {
		if Equal(p.Key, key) {
			m[i] = MapPair{Key: key, Val: val}
			return m
		}
	}
	return append(m, MapPair{Key: key, Val: val})
}

func evalUnary(n *expr.UnaryOp, env *Env, rec holeRecorder) (Value, error) {
	v, err := evalNode(n.Arg, env, rec)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case expr.OpSum:
		bag, ok := v.(BagValue)
		if !ok {
			return nil, fmt.Errorf("eval: sum of non-bag value")
		}
		var total int64
		for _, el := range bag {
			i, ok := el.(int64)
			if !ok {
				return nil, fmt.Errorf("eval: sum over non-Int bag element")
			}
			total += i
		}
		return total, nil
	case expr.OpThe:
		bag, ok := v.(BagValue)
		if !ok {
			return nil, fmt.Errorf("eval: `the` of non-bag value")
		}
		if len(bag) == 0 {
			return MaybeValue{Present: false}, nil
		}
		return MaybeValue{Present: true, Val: bag[0]}, nil
	case expr.OpNot:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("eval: `not` of non-Bool value")
		}
		return !b, nil
	default:
		return nil, fmt.Errorf("eval: unhandled unary operator %q", n.Op)
	}
}

func evalBinary(n *expr.BinOp, env *Env, rec holeRecorder) (Value, error) {
	l, err := evalNode(n.Left, env, rec)
	if err != nil {
		return nil, err
	}
	r, err := evalNode(n.Right, env, rec)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case expr.OpAdd:
		li, lok := l.(int64)
		ri, rok := r.(int64)
		if !lok || !rok {
			return nil, fmt.Errorf("eval: + on non-Int operands")
		}
		return li + ri, nil
	case expr.OpAnd:
		lb, lok := l.(bool)
		rb, rok := r.(bool)
		if !lok || !rok {
			return nil, fmt.Errorf("eval: `and` on non-Bool operands")
		}
		return lb && rb, nil
	case expr.OpOr:
		lb, lok := l.(bool)
		rb, rok := r.(bool)
		if !lok || !rok {
			return nil, fmt.Errorf("eval: `or` on non-Bool operands")
		}
		return lb || rb, nil
	case expr.OpEq:
		return Equal(l, r), nil
	case expr.OpIn:
		bag, ok := r.(BagValue)
		if !ok {
			return nil, fmt.Errorf("eval: `in` with non-bag right operand")
		}
		for _, el := range bag {
			if Equal(l, el) {
				return true, nil
			}
		}
		return false, nil
	default:
		return nil, fmt.Errorf("eval: unhandled binary operator %q", n.Op)
	}
}
