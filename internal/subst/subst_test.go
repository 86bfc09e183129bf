package subst_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/holesynth/synthcore/internal/expr"
	"github.com/holesynth/synthcore/internal/subst"
	"github.com/holesynth/synthcore/internal/types"
)

func TestSubst_ReplacesHole(t *testing.T) {
	h := &expr.Hole{Name: "h1", Typ: types.INT}
	spec := &expr.BinOp{Op: expr.OpEq, Left: h, Right: &expr.Lit{Value: int64(1), Typ: types.INT}, Typ: types.BOOL}

	out := subst.Subst(spec, map[string]expr.Expr{"h1": &expr.Lit{Value: int64(1), Typ: types.INT}})
	assert.True(t, subst.IsClosed(out))
	assert.Empty(t, subst.FindHoles(out))
}

func TestSubst_StopsAtShadowingLambda(t *testing.T) {
	v := &expr.Var{Name: "x", Typ: types.INT}
	lambda := &expr.Lambda{Param: v, Body: v}
	out := subst.Subst(lambda, map[string]expr.Expr{"x": &expr.Lit{Value: int64(9), Typ: types.INT}})
	got, ok := out.(*expr.Lambda)
	assert.True(t, ok)
	assert.Same(t, v, got.Body)
}

func TestFindHoles_DedupesByName(t *testing.T) {
	h := &expr.Hole{Name: "h1", Typ: types.INT}
	e := &expr.BinOp{Op: expr.OpAdd, Left: h, Right: h, Typ: types.INT}
	holes := subst.FindHoles(e)
	assert.Len(t, holes, 1)
}

func TestFindHoles_EvaluationOrderPutsAppArgFirst(t *testing.T) {
	h1 := &expr.Hole{Name: "arg", Typ: types.INT}
	h2 := &expr.Hole{Name: "fn", Typ: types.Function{Params: []types.Type{types.INT}, Ret: types.INT}}
	app := &expr.App{Fn: h2, Arg: h1, Typ: types.INT}
	holes := subst.FindHoles(app)
	assert.Equal(t, []string{"arg", "fn"}, []string{holes[0].Name, holes[1].Name})
}

func TestIsClosed(t *testing.T) {
	h := &expr.Hole{Name: "h1", Typ: types.INT}
	assert.False(t, subst.IsClosed(h))
	assert.True(t, subst.IsClosed(&expr.Lit{Value: int64(1), Typ: types.INT}))
}

func TestFreeVars_ExcludesLambdaBoundAndHoles(t *testing.T) {
	x := &expr.Var{Name: "x", Typ: types.INT}
	y := &expr.Var{Name: "y", Typ: types.INT}
	h := &expr.Hole{Name: "h", Typ: types.INT}
	lambda := &expr.Lambda{Param: x, Body: &expr.BinOp{Op: expr.OpAdd, Left: x, Right: h, Typ: types.INT}}
	e := &expr.BinOp{Op: expr.OpAdd, Left: lambda.Body, Right: y, Typ: types.INT}
	_ = lambda

	vars := subst.FreeVars(e)
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	assert.ElementsMatch(t, []string{"x", "y"}, names)
}

func TestFreeVars_LambdaBoundNameNotFree(t *testing.T) {
	x := &expr.Var{Name: "x", Typ: types.INT}
	lambda := &expr.Lambda{Param: x, Body: x}
	e := &expr.MapExpr{
		Bag: &expr.Var{Name: "xs", Typ: types.Bag{Elem: types.INT}},
		Fn:  lambda,
		Typ: types.Bag{Elem: types.INT},
	}
	vars := subst.FreeVars(e)
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	assert.Equal(t, []string{"xs"}, names)
}

func TestFreeVars_DedupesByFirstOccurrence(t *testing.T) {
	x := &expr.Var{Name: "x", Typ: types.INT}
	e := &expr.BinOp{Op: expr.OpAdd, Left: x, Right: x, Typ: types.INT}
	assert.Len(t, subst.FreeVars(e), 1)
}
