package search

import "github.com/sirupsen/logrus"

// Tracer observes the inner search's progress. It is a cross-cutting
// collaborator (§9: "tracing is a cross-cutting collaborator, not core
// state"), never consulted for correctness.
type Tracer interface {
	// Candidate is called once per enumerated candidate that survives cost
	// pruning, before fingerprint deduplication and type-matching.
	Candidate(size int, hole string, e string, fingerprint string, cost float64)
	// Evicted is called when a cheaper fingerprint-equivalent candidate
	// displaces a previously cached one.
	Evicted(size int, hole string, old, new string)
	// Infeasible is called when the solver rules out a candidate.
	Infeasible(size int, hole string, e string)
}

// NopTracer discards every event; it is the zero-value default so callers
// that don't care about tracing never need to construct anything.
type NopTracer struct{}

func (NopTracer) Candidate(int, string, string, string, float64) {}
func (NopTracer) Evicted(int, string, string, string)             {}
func (NopTracer) Infeasible(int, string, string)                  {}

// LogTracer reports every event as a structured logrus entry at Debug
// level, in the same field-driven style the ambient logging throughout
// this module follows.
type LogTracer struct {
	Log *logrus.Logger
}

func (t LogTracer) log() *logrus.Logger {
	if t.Log != nil {
		return t.Log
	}
	return logrus.StandardLogger()
}

func (t LogTracer) Candidate(size int, hole, e, fp string, cost float64) {
	t.log().WithFields(logrus.Fields{
		"size":        size,
		"hole":        hole,
		"candidate":   e,
		"fingerprint": fp,
		"cost":        cost,
	}).Debug("search: candidate")
}

func (t LogTracer) Evicted(size int, hole, old, new string) {
	t.log().WithFields(logrus.Fields{
		"size": size,
		"hole": hole,
		"old":  old,
		"new":  new,
	}).Debug("search: evicted")
}

func (t LogTracer) Infeasible(size int, hole, e string) {
	t.log().WithFields(logrus.Fields{
		"size": size,
		"hole": hole,
		"candidate": e,
	}).Debug("search: infeasible")
}
