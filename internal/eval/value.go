// Package eval implements the evaluator collaborator (§6): reducing a
// closed expression on a concrete environment, and the
// all_envs_for_hole helper the inner search uses to compute the
// environments visible at a chosen hole.
package eval

import (
	"fmt"
	"sort"

	"github.com/holesynth/synthcore/internal/expr"
	"github.com/holesynth/synthcore/internal/types"
)

// Value is a runtime value. Concrete representations:
//
//	Int      -> int64
//	Bool     -> bool
//	String   -> string
//	Native   -> any (opaque, compared by Equal)
//	Bag      -> BagValue
//	Maybe    -> MaybeValue
//	Map      -> MapValue
//	Tuple    -> TupleValue
//	Record   -> RecordValue
//	Handle   -> HandleValue
//	Function -> FuncValue
type Value any

// BagValue is an unordered collection; equality ignores element order but
// respects multiplicity.
type BagValue []Value

// TupleValue is a fixed-arity, order-sensitive product value.
type TupleValue []Value

// MaybeValue represents Some(Val) when Present, None otherwise.
type MaybeValue struct {
	Present bool
	Val     Value
}

// MapPair is one binding of a MapValue.
type MapPair struct {
	Key Value
	Val Value
}

// MapValue is a finite map, represented as an ordered association list so
// that keys of any value type (not just Go-comparable ones, e.g. tuples)
// can be used, per §3's rule that Map keys may be anything but another Map.
type MapValue []MapPair

// Get returns the value bound to key, if any.
func (m MapValue) Get(key Value) (Value, bool) {
	for _, p := range m {
		if Equal(p.Key, key) {
			return p.Val, true
		}
	}
	return nil, false
}

// RecordValue is a named-field product value.
type RecordValue map[string]Value

// HandleValue is a nominally-boxed value.
type HandleValue struct {
	Tag string
	Val Value
}

// FuncValue is a closure: a Lambda paired with the environment it closed
// over.
type FuncValue struct {
	Lambda *expr.Lambda
	Env    *Env
}

// Equal reports whether two values are equal under the synthesizer's
// observational-equivalence notion: order-insensitive for bags, structural
// for everything else.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case BagValue:
		bv, ok := b.(BagValue)
		return ok && bagsEqual(av, bv)
	case TupleValue:
		bv, ok := b.(TupleValue)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case MaybeValue:
		bv, ok := b.(MaybeValue)
		if !ok || av.Present != bv.Present {
			return false
		}
		return !av.Present || Equal(av.Val, bv.Val)
	case MapValue:
		bv, ok := b.(MapValue)
		if !ok || len(av) != len(bv) {
			return false
		}
		for _, p := range av {
			bval, ok := bv.Get(p.Key)
			if !ok || !Equal(p.Val, bval) {
				return false
			}
		}
		return true
	case RecordValue:
		bv, ok := b.(RecordValue)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bval, ok := bv[k]
			if !ok || !Equal(v, bval) {
				return false
			}
		}
		return true
	case HandleValue:
		bv, ok := b.(HandleValue)
		return ok && av.Tag == bv.Tag && Equal(av.Val, bv.Val)
	default:
		return a == b
	}
}

func bagsEqual(a, b BagValue) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, av := range a {
		found := false
		for i, bv := range b {
			if !used[i] && Equal(av, bv) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Zero returns a type-appropriate placeholder value, used by
// AllEnvsForHole to let evaluation continue past a hole it is not
// currently interested in.
func Zero(t types.Type) Value {
	switch tt := t.(type) {
	case types.Int:
		return int64(0)
	case types.Bool:
		return false
	case types.String:
		return ""
	case types.Native:
		return nil
	case types.Bag:
		return BagValue{}
	case types.Maybe:
		return MaybeValue{Present: false}
	case types.Map:
		return MapValue{}
	case types.Tuple:
		elems := make(TupleValue, len(tt.Elems))
		for i, et := range tt.Elems {
			elems[i] = Zero(et)
		}
		return elems
	case types.Record:
		r := make(RecordValue, len(tt.Fields))
		for name, ft := range tt.Fields {
			r[name] = Zero(ft)
		}
		return r
	case types.Handle:
		return HandleValue{Tag: tt.HandleTag, Val: Zero(tt.Value)}
	case types.Function:
		return FuncValue{}
	default:
		panic(fmt.Sprintf("eval: Zero: unhandled type %T", t))
	}
}

// SortedKeys is a small helper used when printing or fingerprinting a
// RecordValue deterministically.
func SortedKeys(r RecordValue) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
