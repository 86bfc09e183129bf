// Package expr implements the expression model: a tagged tree of typed
// nodes, including distinguished hole nodes that the synthesizer fills in.
// Every node's type is either primitive (Var, Lit) or derivable from its
// children's types by the typing rules implied by its constructor.
package expr

import (
	"fmt"
	"sync/atomic"

	"github.com/holesynth/synthcore/internal/types"
)

// Expr is the interface every expression node implements. Expressions are
// immutable once built; structural sharing between subtrees is permitted.
type Expr interface {
	Type() types.Type
	String() string
}

// Var is a reference to a free or lambda-bound variable.
type Var struct {
	Name string
	Typ  types.Type
}

func (v *Var) Type() types.Type { return v.Typ }
func (v *Var) String() string   { return v.Name }

// Lit is a literal value of primitive or native type.
type Lit struct {
	Value any
	Typ   types.Type
}

func (l *Lit) Type() types.Type { return l.Typ }
func (l *Lit) String() string   { return fmt.Sprintf("%v", l.Value) }

// Hole is a typed placeholder the synthesizer must fill. Hole names are
// globally unique within any expression in play; substitution is by name.
//
// Builder is an opaque reference to whatever generates this hole's fillings
// (concretely a *builder.Builder). It is untyped here to avoid a dependency
// cycle between expr, cache and builder: builder depends on expr and cache,
// so expr cannot depend back on builder. Callers that need to invoke it
// (internal/search) type-assert it to *builder.Builder.
type Hole struct {
	Name    string
	Typ     types.Type
	Builder any
}

func (h *Hole) Type() types.Type { return h.Typ }
func (h *Hole) String() string   { return "?" + h.Name }

// Lambda is a one-argument anonymous function used as the body of Map,
// Filter, MakeMap and AlterMaybe.
type Lambda struct {
	Param *Var
	Body  Expr
}

func (l *Lambda) Type() types.Type {
	return types.Function{Params: []types.Type{l.Param.Typ}, Ret: l.Body.Type()}
}
func (l *Lambda) String() string { return fmt.Sprintf("\\%s.%s", l.Param.Name, l.Body.String()) }

// App is a function application. Its argument is evaluated before its
// function position (see Children's ordering note).
type App struct {
	Fn  Expr
	Arg Expr
	Typ types.Type
}

func (a *App) Type() types.Type { return a.Typ }
func (a *App) String() string   { return fmt.Sprintf("%s(%s)", a.Fn.String(), a.Arg.String()) }

var holeCounter int64

// FreshName returns a process-unique, opaque identifier suitable for a hole
// or a lambda-bound variable. Names are not user-facing; they only need to
// be distinct and cheap to generate and compare, which a monotonic counter
// gives us without the bookkeeping a string-interning scheme would need.
func FreshName(prefix string) string {
	n := atomic.AddInt64(&holeCounter, 1)
	return fmt.Sprintf("%s%d", prefix, n)
}

// FreshVar returns a fresh variable of the given type, suitable for binding
// as a Lambda parameter.
func FreshVar(t types.Type) *Var {
	return &Var{Name: FreshName("v"), Typ: t}
}
