package expr

import (
	"fmt"
	"strings"

	"github.com/holesynth/synthcore/internal/types"
)

// TupleExp constructs a tuple value from its elements.
type TupleExp struct {
	Elems []Expr
	Typ   types.Type
}

func (t *TupleExp) Type() types.Type { return t.Typ }
func (t *TupleExp) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ","))
}

// TupleGet projects the n-th element out of a tuple.
type TupleGet struct {
	Tuple Expr
	Index int
	Typ   types.Type
}

func (t *TupleGet) Type() types.Type { return t.Typ }
func (t *TupleGet) String() string   { return fmt.Sprintf("%s.%d", t.Tuple.String(), t.Index) }

// FieldGet projects a named field out of a record. The builder does not
// enumerate this node (the original source's record-projection lift is
// commented out), but it remains part of the data model
// and is fully supported by substitution and evaluation.
type FieldGet struct {
	Record Expr
	Field  string
	Typ    types.Type
}

func (f *FieldGet) Type() types.Type { return f.Typ }
func (f *FieldGet) String() string   { return fmt.Sprintf("%s.%s", f.Record.String(), f.Field) }

// HandleGet projects the boxed value out of a Handle, i.e. `.val`.
type HandleGet struct {
	Handle Expr
	Typ    types.Type
}

func (h *HandleGet) Type() types.Type { return h.Typ }
func (h *HandleGet) String() string   { return fmt.Sprintf("%s.val", h.Handle.String()) }

// MapExpr applies Fn to every element of a bag, producing a new bag.
type MapExpr struct {
	Bag Expr
	Fn  *Lambda
	Typ types.Type
}

func (m *MapExpr) Type() types.Type { return m.Typ }
func (m *MapExpr) String() string {
	return fmt.Sprintf("Map(%s, %s)", m.Bag.String(), m.Fn.String())
}

// FilterExpr keeps only the elements of a bag for which Pred holds.
type FilterExpr struct {
	Bag  Expr
	Pred *Lambda
	Typ  types.Type
}

func (f *FilterExpr) Type() types.Type { return f.Typ }
func (f *FilterExpr) String() string {
	return fmt.Sprintf("Filter(%s, %s)", f.Bag.String(), f.Pred.String())
}

// MakeMap builds a finite map from a bag, applying Key to derive each
// element's key. Part of the data model (§3); the Builder does not
// enumerate it (the original's nested-MakeMap enumeration is commented out,
// §9) but it is fully supported by substitution and evaluation.
type MakeMap struct {
	Bag Expr
	Key *Lambda
	Typ types.Type
}

func (m *MakeMap) Type() types.Type { return m.Typ }
func (m *MakeMap) String() string {
	return fmt.Sprintf("MakeMap(%s, %s)", m.Bag.String(), m.Key.String())
}

// MapGet looks up a key in a finite map.
type MapGet struct {
	Map Expr
	Key Expr
	Typ types.Type
}

func (m *MapGet) Type() types.Type { return m.Typ }
func (m *MapGet) String() string   { return fmt.Sprintf("%s[%s]", m.Map.String(), m.Key.String()) }

// AlterMaybe rewrites the contents of a Maybe, if present, with Fn.
type AlterMaybe struct {
	Maybe Expr
	Fn    *Lambda
	Typ   types.Type
}

func (a *AlterMaybe) Type() types.Type { return a.Typ }
func (a *AlterMaybe) String() string {
	return fmt.Sprintf("AlterMaybe(%s, %s)", a.Maybe.String(), a.Fn.String())
}
