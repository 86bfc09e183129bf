package synth

import (
	"iter"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/holesynth/synthcore/internal/eval"
	"github.com/holesynth/synthcore/internal/expr"
	"github.com/holesynth/synthcore/internal/search"
	"github.com/holesynth/synthcore/internal/solver"
)

// Run is the outer CEGIS loop (§4.5): it alternates find_consistent_exps
// with the solver's model finder, appending counterexamples until a
// candidate evaluates true under every example and the solver can find no
// falsifying model. It yields hole-filling mappings of non-decreasing
// quality and never terminates on its own — the caller decides when to
// stop consuming.
func Run(spec expr.Expr, sess Session, log *logrus.Logger, tracer search.Tracer) iter.Seq[search.Mapping] {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return func(yield func(search.Mapping) bool) {
		var examples []*eval.Env
		for {
			restarted := false
			for mapping := range search.FindConsistentExps(spec, examples, nil, nil, tracer) {
				candidate, err := search.Expand(spec, mapping)
				if err != nil {
					panic(errors.Wrap(err, "synth: expand failed to converge"))
				}
				if !validOnAll(candidate, examples) {
					panic(errors.New("synth: candidate inconsistent with an example find_consistent_exps claimed to satisfy"))
				}

				model, err := solver.Satisfy(candidate)
				if err != nil {
					panic(errors.Wrap(err, "synth: solver error"))
				}
				if model == nil {
					log.WithFields(logrus.Fields{
						"session": sess.String(),
						"examples": len(examples),
					}).Debug("synth: candidate is universally valid")
					if !yield(mapping) {
						return
					}
					continue
				}

				if containsEnv(examples, model) {
					panic(errors.New("synth: solver returned a counterexample already in the example set"))
				}
				log.WithFields(logrus.Fields{
					"session": sess.String(),
					"examples": len(examples) + 1,
				}).Debug("synth: new counterexample, restarting inner search")
				examples = append(examples, model)
				restarted = true
				break
			}
			if !restarted {
				return
			}
		}
	}
}

func validOnAll(e expr.Expr, examples []*eval.Env) bool {
	for _, env := range examples {
		v, err := eval.Eval(e, env)
		if err != nil {
			panic(errors.Wrap(err, "synth: closed candidate failed to evaluate"))
		}
		b, ok := v.(bool)
		if !ok || !b {
			return false
		}
	}
	return true
}

func containsEnv(examples []*eval.Env, model *eval.Env) bool {
	mb := model.Bindings()
	for _, env := range examples {
		eb := env.Bindings()
		if len(eb) != len(mb) {
			continue
		}
		same := true
		for k, v := range mb {
			ev, ok := eb[k]
			if !ok || !eval.Equal(v, ev) {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return false
}
