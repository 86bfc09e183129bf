package expr

import (
	"fmt"

	"github.com/holesynth/synthcore/internal/types"
)

// UnaryOp kinds.
const (
	OpSum = "sum" // Bag(Int) -> Int
	OpThe = "the" // Bag(T) -> Maybe(T)
	OpNot = "not" // Bool -> Bool
)

// UnaryOp is a single-operand operator: sum, the, or not.
type UnaryOp struct {
	Op  string
	Arg Expr
	Typ types.Type
}

func (u *UnaryOp) Type() types.Type { return u.Typ }
func (u *UnaryOp) String() string   { return fmt.Sprintf("%s(%s)", u.Op, u.Arg.String()) }

// BinOp kinds.
const (
	OpAdd = "+"
	OpAnd = "and"
	OpOr  = "or"
	OpEq  = "=="
	OpIn  = "in" // element-of-bag membership; part of the data model, not built by Builder (§4.3)
)

// BinOp is a two-operand operator.
type BinOp struct {
	Op          string
	Left, Right Expr
	Typ         types.Type
}

func (b *BinOp) Type() types.Type { return b.Typ }
func (b *BinOp) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Op, b.Right.String())
}
