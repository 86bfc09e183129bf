// Package synth implements the outer counterexample-guided loop (§4.5):
// alternate the inner enumerative search with model-finding, harvesting
// counterexamples until a candidate is universally valid.
package synth

import (
	"github.com/google/uuid"
)

// Session identifies one synth invocation for tracing; it carries no
// semantic weight and is never used for hole naming (§9's "reflection-based
// hole names" note — hole names come from expr.FreshName's monotonic
// counter, not from session identity).
type Session struct {
	ID uuid.UUID
}

// NewSession returns a fresh session identity.
func NewSession() Session {
	return Session{ID: uuid.New()}
}

func (s Session) String() string {
	return s.ID.String()
}
