// Package solver implements the core's two solver collaborator contracts
// (§6): Satisfy, a bounded model finder for closed boolean expressions, and
// Feasible, a three-valued under-approximation of whether a partially-filled
// specification can still be made true. A production system would delegate
// both to an SMT solver; that oracle is explicitly out of scope for the core
// (§1), so this package is a self-contained stand-in bounded enough to stay
// deterministic and terminating.
package solver

import (
	"github.com/holesynth/synthcore/internal/eval"
	"github.com/holesynth/synthcore/internal/expr"
	"github.com/holesynth/synthcore/internal/subst"
	"github.com/holesynth/synthcore/internal/types"
)

// maxDomain bounds how many element values a Bag, Maybe or Handle domain is
// built from (a Bag domain then holds every bag of up to maxBagSize of
// them), and maxBagSize bounds how large an enumerated bag value can be;
// both keep the brute-force search in Satisfy finite.
const (
	maxDomain  = 3
	maxBagSize = 2
)

// Satisfy looks for an environment that makes candidate evaluate to false,
// i.e. a model for ¬candidate, by brute-force enumeration over a small
// bounded domain per free variable. It returns nil, nil when no such model
// is found within the bounded search — which is not a proof of validity,
// only an exhaustion of the bound, mirroring the fact that this is a
// stand-in for a genuine solver rather than the oracle itself.
func Satisfy(candidate expr.Expr) (*eval.Env, error) {
	vars := subst.FreeVars(candidate)
	domains := make([][]eval.Value, len(vars))
	for i, v := range vars {
		domains[i] = domainFor(v.Typ, 2)
	}

	for _, d := range domains {
		if len(d) == 0 {
			// A free variable of unenumerable type (e.g. Function) makes
			// the bounded search give up at once and return no model,
			// which is not a claim that the candidate is valid.
			return nil, nil
		}
	}

	idx := make([]int, len(vars))
	for {
		bindings := make(map[string]eval.Value, len(vars))
		for i, v := range vars {
			bindings[v.Name] = domains[i][idx[i]]
		}
		env := eval.EnvFrom(bindings)
		if val, err := eval.Eval(candidate, env); err == nil {
			if b, ok := val.(bool); ok && !b {
				return env, nil
			}
		}
		if !odometer(idx, domains) {
			return nil, nil
		}
	}
}

// odometer advances idx to the next combination across domains, returning
// false once every combination has been visited.
func odometer(idx []int, domains [][]eval.Value) bool {
	for i := len(idx) - 1; i >= 0; i-- {
		idx[i]++
		if idx[i] < len(domains[i]) {
			return true
		}
		idx[i] = 0
	}
	return false
}

// domainFor returns a small set of representative values for t, recursing
// into element types up to depth for collection and structured types.
func domainFor(t types.Type, depth int) []eval.Value {
	switch tt := t.(type) {
	case types.Int:
		return []eval.Value{int64(-1), int64(0), int64(1)}
	case types.Bool:
		return []eval.Value{false, true}
	case types.String:
		return []eval.Value{"", "a"}
	case types.Native:
		return []eval.Value{nil}
	case types.Bag:
		if depth <= 0 {
			return []eval.Value{eval.BagValue{}}
		}
		elems := domainFor(tt.Elem, depth-1)
		return bagDomain(elems)
	case types.Maybe:
		if depth <= 0 {
			return []eval.Value{eval.MaybeValue{Present: false}}
		}
		out := []eval.Value{eval.MaybeValue{Present: false}}
		for _, v := range firstN(domainFor(tt.Elem, depth-1), maxDomain) {
			out = append(out, eval.MaybeValue{Present: true, Val: v})
		}
		return out
	case types.Tuple:
		if depth <= 0 || len(tt.Elems) == 0 {
			return nil
		}
		perElem := make([][]eval.Value, len(tt.Elems))
		for i, et := range tt.Elems {
			perElem[i] = firstN(domainFor(et, depth-1), 2)
		}
		return tupleDomain(perElem)
	case types.Map:
		if depth <= 0 {
			return []eval.Value{eval.MapValue{}}
		}
		keys := firstN(domainFor(tt.Key, depth-1), 2)
		vals := firstN(domainFor(tt.Val, depth-1), 2)
		return mapDomain(keys, vals)
	case types.Handle:
		out := make([]eval.Value, 0)
		for _, v := range firstN(domainFor(tt.Value, depth-1), maxDomain) {
			out = append(out, eval.HandleValue{Tag: tt.HandleTag, Val: v})
		}
		return out
	case types.Function:
		// The bounded search does not enumerate function-valued free
		// variables: a candidate with one is simply never falsified by
		// Satisfy within this stand-in.
		return nil
	default:
		return nil
	}
}

func firstN(vs []eval.Value, n int) []eval.Value {
	if len(vs) <= n {
		return vs
	}
	return vs[:n]
}

func bagDomain(elems []eval.Value) []eval.Value {
	elems = firstN(elems, maxDomain)
	out := []eval.Value{eval.BagValue{}}
	for _, a := range elems {
		out = append(out, eval.BagValue{a})
	}
	if maxBagSize >= 2 {
		for _, a := range elems {
			for _, b := range elems {
				out = append(out, eval.BagValue{a, b})
			}
		}
	}
	return out
}

func mapDomain(keys, vals []eval.Value) []eval.Value {
	out := []eval.Value{eval.MapValue{}}
	for _, k := range keys {
		for _, v := range vals {
			out = append(out, eval.MapValue{{Key: k, Val: v}})
		}
	}
	return out
}

func tupleDomain(perElem [][]eval.Value) []eval.Value {
	combos := [][]eval.Value{{}}
	for _, dom := range perElem {
		var next [][]eval.Value
		for _, prefix := range combos {
			for _, v := range dom {
				row := append(append([]eval.Value{}, prefix...), v)
				next = append(next, row)
			}
		}
		combos = next
	}
	out := make([]eval.Value, len(combos))
	for i, row := range combos {
		tv := make(eval.TupleValue, len(row))
		copy(tv, row)
		out[i] = tv
	}
	return out
}
