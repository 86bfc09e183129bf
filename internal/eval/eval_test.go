package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holesynth/synthcore/internal/eval"
	"github.com/holesynth/synthcore/internal/expr"
	"github.com/holesynth/synthcore/internal/types"
)

func TestEval_Arithmetic(t *testing.T) {
	e := &expr.BinOp{
		Op:    expr.OpAdd,
		Left:  &expr.Lit{Value: int64(2), Typ: types.INT},
		Right: &expr.Lit{Value: int64(3), Typ: types.INT},
		Typ:   types.INT,
	}
	v, err := eval.Eval(e, eval.NewEnv())
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)
}

func TestEval_SumOverBagVar(t *testing.T) {
	xs := &expr.Var{Name: "xs", Typ: types.Bag{Elem: types.INT}}
	e := &expr.UnaryOp{Op: expr.OpSum, Arg: xs, Typ: types.INT}
	env := eval.NewEnv().With("xs", eval.BagValue{int64(1), int64(2), int64(3)})
	v, err := eval.Eval(e, env)
	require.NoError(t, err)
	assert.Equal(t, int64(6), v)
}

func TestEval_MissingHoleErrorsInStrictMode(t *testing.T) {
	h := &expr.Hole{Name: "h1", Typ: types.INT}
	_, err := eval.Eval(h, eval.NewEnv())
	require.Error(t, err)
	var mhe *eval.MissingHoleError
	assert.ErrorAs(t, err, &mhe)
}

func TestEval_MapGetMissReturnsZero(t *testing.T) {
	m := &expr.Var{Name: "m", Typ: types.Map{Key: types.INT, Val: types.BOOL}}
	e := &expr.MapGet{Map: m, Key: &expr.Lit{Value: int64(7), Typ: types.INT}, Typ: types.BOOL}
	env := eval.NewEnv().With("m", eval.MapValue{})
	v, err := eval.Eval(e, env)
	require.NoError(t, err)
	assert.Equal(t, false, v)
}

func TestEval_TheOfEmptyBagIsNone(t *testing.T) {
	xs := &expr.Var{Name: "xs", Typ: types.Bag{Elem: types.INT}}
	e := &expr.UnaryOp{Op: expr.OpThe, Arg: xs, Typ: types.Maybe{Elem: types.INT}}
	env := eval.NewEnv().With("xs", eval.BagValue{})
	v, err := eval.Eval(e, env)
	require.NoError(t, err)
	assert.Equal(t, eval.MaybeValue{Present: false}, v)
}

func TestEval_FilterKeepsMatching(t *testing.T) {
	v := &expr.Var{Name: "v", Typ: types.INT}
	pred := &expr.Lambda{Param: v, Body: &expr.BinOp{
		Op: expr.OpEq, Left: v, Right: &expr.Lit{Value: int64(2), Typ: types.INT}, Typ: types.BOOL,
	}}
	filt := &expr.FilterExpr{
		Bag:  &expr.Var{Name: "xs", Typ: types.Bag{Elem: types.INT}},
		Pred: pred,
		Typ:  types.Bag{Elem: types.INT},
	}
	env := eval.NewEnv().With("xs", eval.BagValue{int64(1), int64(2), int64(2), int64(3)})
	got, err := eval.Eval(filt, env)
	require.NoError(t, err)
	assert.Equal(t, eval.BagValue{int64(2), int64(2)}, got)
}

func TestAllEnvsForHole_OneEnvPerBagElement(t *testing.T) {
	h := &expr.Hole{Name: "body", Typ: types.BOOL}
	lambda := &expr.Lambda{Param: &expr.Var{Name: "v", Typ: types.INT}, Body: h}
	m := &expr.MapExpr{
		Bag: &expr.Var{Name: "xs", Typ: types.Bag{Elem: types.INT}},
		Fn:  lambda,
		Typ: types.Bag{Elem: types.BOOL},
	}
	env := eval.NewEnv().With("xs", eval.BagValue{int64(1), int64(2), int64(3)})
	envs := eval.AllEnvsForHole(m, env, "body")
	assert.Len(t, envs, 3)
	var vs []eval.Value
	for _, e := range envs {
		v, _ := e.Get("v")
		vs = append(vs, v)
	}
	assert.Equal(t, []eval.Value{int64(1), int64(2), int64(3)}, vs)
}

func TestEqual_BagsIgnoreOrder(t *testing.T) {
	a := eval.BagValue{int64(1), int64(2)}
	b := eval.BagValue{int64(2), int64(1)}
	assert.True(t, eval.Equal(a, b))
}

func TestEqual_BagsRespectMultiplicity(t *testing.T) {
	a := eval.BagValue{int64(1), int64(1)}
	b := eval.BagValue{int64(1)}
	assert.False(t, eval.Equal(a, b))
}

func TestEnv_BindingsFlattensOuterChain(t *testing.T) {
	env := eval.NewEnv().With("x", int64(1)).With("y", int64(2))
	assert.Equal(t, map[string]eval.Value{"x": int64(1), "y": int64(2)}, env.Bindings())
}
