// Package search implements the inner, size-bounded enumerative search
// (§4.4, find_consistent_exps): pick a hole, enumerate candidates from its
// builder in ascending size, prune by cost and observational equivalence,
// check feasibility with the remaining holes, and recurse.
package search

import (
	"iter"
	"math"

	"github.com/pkg/errors"

	"github.com/holesynth/synthcore/internal/builder"
	"github.com/holesynth/synthcore/internal/cache"
	"github.com/holesynth/synthcore/internal/eval"
	"github.com/holesynth/synthcore/internal/expr"
	"github.com/holesynth/synthcore/internal/solver"
	"github.com/holesynth/synthcore/internal/subst"
)

// Mapping is a hole-filling substitution: hole name to the (closed)
// expression chosen to fill it.
type Mapping map[string]expr.Expr

// merge returns a new Mapping containing every entry of m plus name/e.
func (m Mapping) merge(name string, e expr.Expr) Mapping {
	out := make(Mapping, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[name] = e
	return out
}

// Apply substitutes every entry of m into spec.
func (m Mapping) Apply(spec expr.Expr) expr.Expr {
	raw := make(map[string]expr.Expr, len(m))
	for k, v := range m {
		raw[k] = v
	}
	return subst.Subst(spec, raw)
}

// seenEntry records the cheapest candidate witnessing a fingerprint so far,
// and the size it was cached at, per the observational-equivalence
// guarantee (§4.4).
type seenEntry struct {
	e    expr.Expr
	cost float64
	size int
}

// FindConsistentExps yields every hole-filling substitution m such that
// Apply(m, spec) is closed, evaluates true on every example, and has cost
// strictly lower than the previous yield (§4.4, §8 invariant 5). maxSize
// nil means unbounded; bestCost nil means no initial ceiling.
func FindConsistentExps(spec expr.Expr, examples []*eval.Env, maxSize *int, bestCost *float64, tracer Tracer) iter.Seq[Mapping] {
	if tracer == nil {
		tracer = NopTracer{}
	}
	ceiling := math.Inf(1)
	if bestCost != nil {
		ceiling = *bestCost
	}
	return func(yield func(Mapping) bool) {
		findConsistentExps(spec, examples, maxSize, &ceiling, tracer, yield)
	}
}

func findConsistentExps(spec expr.Expr, examples []*eval.Env, maxSize *int, bestCost *float64, tracer Tracer, yield func(Mapping) bool) bool {
	// 1. Base case: no holes left.
	if subst.IsClosed(spec) {
		if !validOnAll(spec, examples) {
			return true
		}
		return yield(Mapping{})
	}

	holes := subst.FindHoles(spec)

	// 2. Early rejection: each remaining hole needs at least size 1.
	if maxSize != nil && len(holes) > *maxSize {
		return true
	}

	// 3. Goal selection: first hole in evaluation order.
	h := holes[0]
	b, ok := h.Builder.(*builder.Builder)
	if !ok {
		panic("search: hole carries no usable builder reference")
	}

	var gExamples []*eval.Env
	for _, env := range examples {
		gExamples = append(gExamples, eval.AllEnvsForHole(spec, env, h.Name)...)
	}

	// This hole gets its own fresh cache and fingerprint-dedup table,
	// shared across every size class considered for it: candidates of
	// every type are cached here, not just ones matching h's type, so a
	// component like a bag variable can be cached and then lifted (e.g.
	// via sum) into a candidate for this hole at a larger size.
	c := cache.New()
	seen := make(map[string]seenEntry)

	// 4. Enumeration, in the deterministic order §5 requires: ascending
	// total size, then ascending split s1, then the builder's own order.
	for size := 1; maxSize == nil || size <= *maxSize; size++ {
		for s1 := 1; s1 <= size; s1++ {
			s2 := size - s1
			for cand := range b.Build(c, s1) {
				if subst.ContainsHoles(cand) {
					panic("search: builder yielded a candidate that still contains holes")
				}
				cm := b.CostModel()
				if cm.Monotonic() && cm.Cost(cand) > *bestCost {
					continue
				}

				fp, err := fingerprint(cand, gExamples)
				if err != nil {
					panic(errors.Wrap(err, "search: fingerprint evaluation failed"))
				}
				tracer.Candidate(s1, h.Name, cand.String(), fp, cm.Cost(cand))

				candCost := cm.Cost(cand)
				if prior, ok := seen[fp]; ok {
					if candCost >= prior.cost {
						continue
					}
					c.Evict(prior.e, prior.size)
					tracer.Evicted(s1, h.Name, prior.e.String(), cand.String())
				}
				c.Add(cand, s1)
				seen[fp] = seenEntry{e: cand, cost: candCost, size: s1}

				if !cand.Type().Equal(h.Typ) {
					continue
				}

				spec2 := subst.Subst(spec, map[string]expr.Expr{h.Name: cand})
				if !solver.Feasible(spec2, examples) {
					tracer.Infeasible(s1, h.Name, cand.String())
					continue
				}

				s2Bound := s2
				cont := findConsistentExps(spec2, examples, &s2Bound, bestCost, tracer, func(d Mapping) bool {
					merged := d.merge(h.Name, cand)
					expanded, err := Expand(spec, merged)
					if err != nil {
						panic(errors.Wrap(err, "search: expand failed to converge"))
					}
					full := cm.Cost(expanded)
					if full >= *bestCost {
						return true
					}
					*bestCost = full
					return yield(merged)
				})
				if !cont {
					return false
				}
			}
		}
	}
	return true
}

func validOnAll(spec expr.Expr, examples []*eval.Env) bool {
	for _, env := range examples {
		v, err := eval.Eval(spec, env)
		if err != nil {
			panic(errors.Wrap(err, "search: closed candidate failed to evaluate"))
		}
		b, ok := v.(bool)
		if !ok || !b {
			return false
		}
	}
	return true
}

// Expand repeatedly substitutes mapping into spec until a fixed point (a
// closed expression) is reached (§4.5). Because every hole name is
// globally unique and substitution only ever removes the holes it targets,
// one pass always suffices in practice; Expand still iterates defensively
// and reports non-convergence as an error rather than looping forever,
// matching §7's "expand fails to converge is fatal" contract at the call
// site.
func Expand(spec expr.Expr, mapping Mapping) (expr.Expr, error) {
	const maxPasses = 64
	cur := spec
	for i := 0; i < maxPasses; i++ {
		next := mapping.Apply(cur)
		if subst.IsClosed(next) {
			return next, nil
		}
		if expr.Size(next) == expr.Size(cur) {
			return nil, errors.New("expand: fixed point not reached, holes remain unresolved by mapping")
		}
		cur = next
	}
	return nil, errors.New("expand: exceeded maximum substitution passes without converging")
}
