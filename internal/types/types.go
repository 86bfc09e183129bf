// Package types implements the structural type model the synthesizer reasons
// about: primitives, bags, maybes, maps, tuples, records, handles and
// function types. Types compare structurally rather than by identity.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the interface every type node implements.
type Type interface {
	String() string
	// Tag returns the type-tag used as the cache's outer key: the kind of
	// the top type constructor, ignoring its arguments.
	Tag() Tag
	// Equal reports structural equality.
	Equal(Type) bool
}

// Tag identifies a type constructor independent of its arguments. The cache
// uses Tag as its outermost index so that queries like "any Bag regardless
// of element type" don't have to scan unrelated buckets.
type Tag int

const (
	TagInt Tag = iota
	TagBool
	TagString
	TagNative
	TagBag
	TagMaybe
	TagMap
	TagTuple
	TagRecord
	TagHandle
	TagFunction
)

func (t Tag) String() string {
	switch t {
	case TagInt:
		return "Int"
	case TagBool:
		return "Bool"
	case TagString:
		return "String"
	case TagNative:
		return "Native"
	case TagBag:
		return "Bag"
	case TagMaybe:
		return "Maybe"
	case TagMap:
		return "Map"
	case TagTuple:
		return "Tuple"
	case TagRecord:
		return "Record"
	case TagHandle:
		return "Handle"
	case TagFunction:
		return "Function"
	default:
		return "?"
	}
}

// Int is the primitive integer type.
type Int struct{}

func (Int) String() string  { return "Int" }
func (Int) Tag() Tag         { return TagInt }
func (Int) Equal(o Type) bool { _, ok := o.(Int); return ok }

// Bool is the primitive boolean type.
type Bool struct{}

func (Bool) String() string   { return "Bool" }
func (Bool) Tag() Tag          { return TagBool }
func (Bool) Equal(o Type) bool { _, ok := o.(Bool); return ok }

// String is the primitive string type.
type String struct{}

func (String) String() string   { return "String" }
func (String) Tag() Tag          { return TagString }
func (String) Equal(o Type) bool { _, ok := o.(String); return ok }

// Native is an opaque host type identified only by name; the synthesizer
// never looks inside it.
type Native struct {
	Name string
}

func (n Native) String() string { return n.Name }
func (Native) Tag() Tag          { return TagNative }
func (n Native) Equal(o Type) bool {
	on, ok := o.(Native)
	return ok && on.Name == n.Name
}

// Bag is an unordered collection type, Bag(T).
type Bag struct {
	Elem Type
}

func (b Bag) String() string { return fmt.Sprintf("Bag(%s)", b.Elem.String()) }
func (Bag) Tag() Tag          { return TagBag }
func (b Bag) Equal(o Type) bool {
	ob, ok := o.(Bag)
	return ok && b.Elem.Equal(ob.Elem)
}

// Maybe is an optional type, Maybe(T).
type Maybe struct {
	Elem Type
}

func (m Maybe) String() string { return fmt.Sprintf("Maybe(%s)", m.Elem.String()) }
func (Maybe) Tag() Tag          { return TagMaybe }
func (m Maybe) Equal(o Type) bool {
	om, ok := o.(Maybe)
	return ok && m.Elem.Equal(om.Elem)
}

// Map is a finite-map type, Map(K,V). Keys may not themselves be a Map.
type Map struct {
	Key Type
	Val Type
}

func (m Map) String() string { return fmt.Sprintf("Map(%s,%s)", m.Key.String(), m.Val.String()) }
func (Map) Tag() Tag          { return TagMap }
func (m Map) Equal(o Type) bool {
	om, ok := o.(Map)
	return ok && m.Key.Equal(om.Key) && m.Val.Equal(om.Val)
}

// IsValidKey reports whether t may be used as a Map key type: anything but
// another Map (per §3's invariant).
func IsValidKey(t Type) bool {
	_, isMap := t.(Map)
	return !isMap
}

// Tuple is a fixed-arity product type.
type Tuple struct {
	Elems []Type
}

func (t Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ","))
}
func (Tuple) Tag() Tag { return TagTuple }
func (t Tuple) Equal(o Type) bool {
	ot, ok := o.(Tuple)
	if !ok || len(ot.Elems) != len(t.Elems) {
		return false
	}
	for i := range t.Elems {
		if !t.Elems[i].Equal(ot.Elems[i]) {
			return false
		}
	}
	return true
}

// Record is a named-field product type.
type Record struct {
	Fields map[string]Type
}

func (r Record) String() string {
	names := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s:%s", n, r.Fields[n].String())
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ","))
}
func (Record) Tag() Tag { return TagRecord }
func (r Record) Equal(o Type) bool {
	or, ok := o.(Record)
	if !ok || len(or.Fields) != len(r.Fields) {
		return false
	}
	for k, v := range r.Fields {
		ov, ok := or.Fields[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Handle is a nominal boxed type: a distinguishable box around a value type,
// tagged by name so two Handles over the same value type are still distinct.
type Handle struct {
	HandleTag string
	Value     Type
}

func (h Handle) String() string { return fmt.Sprintf("Handle(%s,%s)", h.HandleTag, h.Value.String()) }
func (Handle) Tag() Tag          { return TagHandle }
func (h Handle) Equal(o Type) bool {
	oh, ok := o.(Handle)
	return ok && oh.HandleTag == h.HandleTag && h.Value.Equal(oh.Value)
}

// Function is a function type, (T1,...,Tn) -> T.
type Function struct {
	Params []Type
	Ret    Type
}

func (f Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("(%s)->%s", strings.Join(parts, ","), f.Ret.String())
}
func (Function) Tag() Tag { return TagFunction }
func (f Function) Equal(o Type) bool {
	of, ok := o.(Function)
	if !ok || len(of.Params) != len(f.Params) {
		return false
	}
	for i := range f.Params {
		if !f.Params[i].Equal(of.Params[i]) {
			return false
		}
	}
	return f.Ret.Equal(of.Ret)
}

var (
	INT    Type = Int{}
	BOOL   Type = Bool{}
	STRING Type = String{}
)
