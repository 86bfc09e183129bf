// Package synthcli implements a tiny textual DSL for describing a
// synthesis problem: a few typed variable declarations, a set of builder
// roots, and the boolean specification to solve. It exists so the demo
// command doesn't need its problems hard-coded in Go; it is deliberately
// small — just enough to express the core's scalar scenarios (constants,
// variables, sums, equality, map lookups), not a general-purpose language.
// Lambda-bodied operators (Map, Filter, AlterMaybe) are not written out in
// source text; the builder produces them itself (Map and Filter behind its
// feature flags, AlterMaybe always).
package synthcli

import "github.com/alecthomas/participle/v2/lexer"

var synthLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\n\r]+`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `==|[()\[\]:.,+]`},
})

// Program is a whole .synth source file: declarations followed by exactly
// one spec statement.
type Program struct {
	Decls []*Decl   `parser:"@@*"`
	Spec  *SpecDecl `parser:"@@"`
}

// Decl is one top-level declaration: either a typed variable or a builder
// root.
type Decl struct {
	Var  *VarDecl  `parser:"( @@"`
	Root *RootDecl `parser:"| @@ )"`
}

// VarDecl declares a free variable's type, e.g. `var xs : Bag(Int)`.
type VarDecl struct {
	Name string    `parser:"\"var\" @Ident \":\""`
	Type *TypeExpr `parser:"@@"`
}

// RootDecl seeds the builder with one expression, e.g. `root xs`.
type RootDecl struct {
	Expr *Expr `parser:"\"root\" @@"`
}

// SpecDecl is the boolean specification to solve, e.g.
// `spec hole[Int] == sum(xs)`.
type SpecDecl struct {
	Expr *Expr `parser:"\"spec\" @@"`
}

// TypeExpr is the tiny type grammar: primitives by keyword, Bag/Maybe/Map
// by parenthesized constructor application.
type TypeExpr struct {
	Name string      `parser:"@Ident"`
	Args []*TypeExpr `parser:"( \"(\" @@ ( \",\" @@ )* \")\" )?"`
}

// Expr is the top of the expression grammar: equality binds loosest.
type Expr struct {
	Left  *OrExpr `parser:"@@"`
	Right *OrExpr `parser:"( \"==\" @@ )?"`
}

// OrExpr is a left-to-right chain of `or`.
type OrExpr struct {
	Left *AndExpr   `parser:"@@"`
	Rest []*AndExpr `parser:"( \"or\" @@ )*"`
}

// AndExpr is a left-to-right chain of `and`.
type AndExpr struct {
	Left *AddExpr   `parser:"@@"`
	Rest []*AddExpr `parser:"( \"and\" @@ )*"`
}

// AddExpr is a left-to-right chain of `+`.
type AddExpr struct {
	Left *Unary   `parser:"@@"`
	Rest []*Unary `parser:"( \"+\" @@ )*"`
}

// Unary is a prefix operator (not, sum, the) applied to another Unary, or
// a Postfix.
type Unary struct {
	Op      string   `parser:"( @( \"not\" | \"sum\" | \"the\" )"`
	Operand *Unary   `parser:"  @@ )"`
	Atom    *Postfix `parser:"| @@"`
}

// Postfix is an atom followed by zero or more `.val`/`.N` projections or
// `[key]` map lookups.
type Postfix struct {
	Atom  *Atom `parser:"@@"`
	Trail []*Tr `parser:"@@*"`
}

// Tr is one postfix trailer.
type Tr struct {
	Val   bool  `parser:"( \".\" ( @\"val\""`
	Index *int  `parser:"  | @Int ) )"`
	Key   *Expr `parser:"| \"[\" @@ \"]\""`
}

// Atom is the grammar's leaf level: holes, literals, identifiers, and
// parenthesized sub-expressions.
type Atom struct {
	Hole  *HoleLit `parser:"( @@"`
	Int   *int     `parser:"| @Int"`
	Bool  *string  `parser:"| @( \"true\" | \"false\" )"`
	Ident *string  `parser:"| @Ident"`
	Paren *Expr    `parser:"| \"(\" @@ \")\" )"`
}

// HoleLit is `hole[Type]`, an anonymous typed hole.
type HoleLit struct {
	Keyword string    `parser:"@\"hole\""`
	Type    *TypeExpr `parser:"\"[\" @@ \"]\""`
}
