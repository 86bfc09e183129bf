package synthcli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holesynth/synthcore/internal/cost"
	"github.com/holesynth/synthcore/internal/subst"
	"github.com/holesynth/synthcore/internal/synthcli"
	"github.com/holesynth/synthcore/internal/types"
)

func TestParseAndBuild_ConstantScenario(t *testing.T) {
	src := `
root 0
spec hole[Int] == 0
`
	prog, err := synthcli.Parse("t.synth", src)
	require.NoError(t, err)

	prob, err := synthcli.Build(prog, cost.Constant{}, synthcli.Features{})
	require.NoError(t, err)
	assert.True(t, types.BOOL.Equal(prob.Spec.Type()))
	assert.True(t, subst.ContainsHoles(prob.Spec))
}

func TestParseAndBuild_SumOfBagScenario(t *testing.T) {
	src := `
var xs : Bag(Int)
root xs
spec hole[Int] == sum(xs)
`
	prog, err := synthcli.Parse("t.synth", src)
	require.NoError(t, err)

	prob, err := synthcli.Build(prog, cost.Runtime{}, synthcli.Features{Sums: true})
	require.NoError(t, err)
	assert.True(t, types.BOOL.Equal(prob.Spec.Type()))
}

func TestParseAndBuild_MapLookupScenario(t *testing.T) {
	src := `
var m : Map(Int, Bool)
var k : Int
root m
root k
spec hole[Bool] == m[k]
`
	prog, err := synthcli.Parse("t.synth", src)
	require.NoError(t, err)

	prob, err := synthcli.Build(prog, cost.Constant{}, synthcli.Features{})
	require.NoError(t, err)
	assert.True(t, types.BOOL.Equal(prob.Spec.Type()))
}

func TestBuild_UndeclaredIdentifierIsAnError(t *testing.T) {
	src := `
spec hole[Int] == y
`
	prog, err := synthcli.Parse("t.synth", src)
	require.NoError(t, err)

	_, err = synthcli.Build(prog, cost.Constant{}, synthcli.Features{})
	assert.Error(t, err)
}

func TestBuild_MismatchedEqualityTypesIsAnError(t *testing.T) {
	src := `
var b : Bool
spec hole[Int] == b
`
	prog, err := synthcli.Parse("t.synth", src)
	require.NoError(t, err)

	_, err = synthcli.Build(prog, cost.Constant{}, synthcli.Features{})
	assert.Error(t, err)
}

func TestBuild_MapWithMapKeyTypeIsRejected(t *testing.T) {
	src := `
var m : Map(Map(Int,Int), Bool)
spec hole[Bool] == true
`
	prog, err := synthcli.Parse("t.synth", src)
	require.NoError(t, err)

	_, err = synthcli.Build(prog, cost.Constant{}, synthcli.Features{})
	assert.Error(t, err)
}

func TestParse_RejectsMissingSpec(t *testing.T) {
	_, err := synthcli.Parse("t.synth", "root 0\n")
	assert.Error(t, err)
}
