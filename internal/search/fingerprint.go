package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/holesynth/synthcore/internal/eval"
	"github.com/holesynth/synthcore/internal/expr"
)

// fingerprint computes the observational-equivalence key for a candidate
// expression (§4.4, GLOSSARY "Fingerprint"): its type, plus its evaluation
// on every environment at which the chosen hole is visible. Two
// expressions with equal fingerprints are indistinguishable on the
// examples seen so far.
func fingerprint(e expr.Expr, gExamples []*eval.Env) (string, error) {
	var sb strings.Builder
	sb.WriteString(e.Type().String())
	for _, env := range gExamples {
		v, err := eval.Eval(e, env)
		if err != nil {
			return "", err
		}
		sb.WriteByte('|')
		sb.WriteString(valueKey(v))
	}
	return sb.String(), nil
}

// valueKey renders a runtime value into a canonical string: stable across
// equal values regardless of representation (e.g. bag element order).
func valueKey(v eval.Value) string {
	switch vv := v.(type) {
	case nil:
		return "nil"
	case int64:
		return fmt.Sprintf("i%d", vv)
	case bool:
		return fmt.Sprintf("b%v", vv)
	case string:
		return fmt.Sprintf("s%q", vv)
	case eval.BagValue:
		keys := make([]string, len(vv))
		for i, el := range vv {
			keys[i] = valueKey(el)
		}
		sort.Strings(keys)
		return "bag[" + strings.Join(keys, ",") + "]"
	case eval.TupleValue:
		keys := make([]string, len(vv))
		for i, el := range vv {
			keys[i] = valueKey(el)
		}
		return "tuple(" + strings.Join(keys, ",") + ")"
	case eval.MaybeValue:
		if !vv.Present {
			return "none"
		}
		return "some(" + valueKey(vv.Val) + ")"
	case eval.MapValue:
		keys := make([]string, len(vv))
		for i, p := range vv {
			keys[i] = valueKey(p.Key) + "->" + valueKey(p.Val)
		}
		sort.Strings(keys)
		return "map{" + strings.Join(keys, ",") + "}"
	case eval.RecordValue:
		names := eval.SortedKeys(vv)
		parts := make([]string, len(names))
		for i, n := range names {
			parts[i] = n + ":" + valueKey(vv[n])
		}
		return "rec{" + strings.Join(parts, ",") + "}"
	case eval.HandleValue:
		return "handle(" + vv.Tag + "," + valueKey(vv.Val) + ")"
	case eval.FuncValue:
		return fmt.Sprintf("func%p", vv.Lambda)
	default:
		return fmt.Sprintf("%v", vv)
	}
}
