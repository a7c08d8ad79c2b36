package xpath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogo-agent/xpathway/document"
)

func mustTree(t *testing.T, xmlSrc string) *document.Tree {
	t.Helper()
	tree, err := document.DecodeBytes([]byte(xmlSrc))
	require.NoError(t, err)
	return tree
}

func evalString(t *testing.T, xmlSrc, expr string) Value {
	t.Helper()
	tree := mustTree(t, xmlSrc)
	v, err := EvaluateSimple(tree, expr)
	require.NoError(t, err)
	return v
}

// --- spec.md §8 concrete scenarios --------------------------------------

func TestScenarioConcat(t *testing.T) {
	v := evalString(t, `<a/>`, `concat('hello', ' ', 'world')`)
	require.Equal(t, StringType, v.Type())
	require.Equal(t, "hello world", v.String())
}

func TestScenarioCountContains(t *testing.T) {
	v := evalString(t, `<a>true</a>`, `count(//*[contains(., true())])`)
	require.Equal(t, NumberType, v.Type())
	require.Equal(t, float64(1), v.Number())
}

func TestScenarioPredicatePerParent(t *testing.T) {
	v := evalString(t, `<a><b><c/></b><b><c/></b></a>`, `//c[1]`)
	require.Equal(t, NodeSetType, v.Type())
	nodes := v.NodeSet().Slice()
	require.Len(t, nodes, 2)
	for _, n := range nodes {
		require.Equal(t, "c", n.Name().Local)
	}
}

func TestScenarioCountPositionTwo(t *testing.T) {
	v := evalString(t, `<a><b/><b/></a>`, `count(//a/*[position() = 2])`)
	require.Equal(t, NumberType, v.Type())
	require.Equal(t, float64(1), v.Number())
}

func TestScenarioUnionDedupsRoot(t *testing.T) {
	v := evalString(t, `<a/>`, `/ | /`)
	require.Equal(t, NodeSetType, v.Type())
	nodes := v.NodeSet().Slice()
	require.Len(t, nodes, 1)
	require.Equal(t, document.RootKind, nodes[0].Kind())
}

func TestScenarioVariableWithNamespace(t *testing.T) {
	tree := mustTree(t, `<a/>`)
	ast, err := Compile(`$prefix:name`)
	require.NoError(t, err)
	bindings := NewContext()
	bindings.BindNamespace("prefix", "uri:namespace")
	bindings.SetVariable(ExpandedName{URI: "uri:namespace", Local: "name"}, Number(42))
	v, err := Evaluate(ast, bindings, tree.Root())
	require.NoError(t, err)
	require.Equal(t, NumberType, v.Type())
	require.Equal(t, float64(42), v.Number())
}

func TestScenarioFunctionWithNamespace(t *testing.T) {
	tree := mustTree(t, `<a/>`)
	ast, err := Compile(`prefix:constant()`)
	require.NoError(t, err)
	bindings := NewContext()
	bindings.BindNamespace("prefix", "uri:namespace")
	bindings.SetFunction(ExpandedName{URI: "uri:namespace", Local: "constant"}, FunctionFunc(
		func(ctx *EvalContext, args []Value) (Value, error) {
			return Number(42), nil
		},
	))
	v, err := Evaluate(ast, bindings, tree.Root())
	require.NoError(t, err)
	require.Equal(t, NumberType, v.Type())
	require.Equal(t, float64(42), v.Number())
}

// --- spec.md §8 invariants ------------------------------------------------

func TestInvariantNodeSetDedupAndDocumentOrder(t *testing.T) {
	v := evalString(t, `<a><b/><c/><d/></a>`, `(//b | //c | //d | //b)`)
	nodes := v.NodeSet().Slice()
	require.Len(t, nodes, 3)
	require.Equal(t, "b", nodes[0].Name().Local)
	require.Equal(t, "c", nodes[1].Name().Local)
	require.Equal(t, "d", nodes[2].Name().Local)
}

func TestInvariantCoercionIdempotence(t *testing.T) {
	v := evalString(t, `<a>42</a>`, `string(string(/a))`)
	require.Equal(t, "42", v.String())

	v = evalString(t, `<a>42</a>`, `number(number(/a))`)
	require.Equal(t, float64(42), v.Number())

	v = evalString(t, `<a>42</a>`, `boolean(boolean(/a))`)
	require.Equal(t, true, v.Boolean())
}

func TestInvariantUnionCommutativeAssociativeDedup(t *testing.T) {
	ab := evalString(t, `<a><b/><c/></a>`, `//b | //c`)
	ba := evalString(t, `<a><b/><c/></a>`, `//c | //b`)
	require.Equal(t, ab.NodeSet().Slice(), ba.NodeSet().Slice())

	grouped := evalString(t, `<a><b/><c/></a>`, `(//b | //c) | //b`)
	require.Equal(t, 2, grouped.NodeSet().Len())
}

func TestInvariantPredicateIndexingOneBased(t *testing.T) {
	a := evalString(t, `<a><b/><b/><b/></a>`, `//a/b[2]`)
	c := evalString(t, `<a><b/><b/><b/></a>`, `//a/b[position() = 2]`)
	require.Equal(t, a.NodeSet().Slice(), c.NodeSet().Slice())
	require.Len(t, a.NodeSet().Slice(), 1)
}

func TestInvariantReverseAxisPredicateNumbering(t *testing.T) {
	tree := mustTree(t, `<a><b/><c/><d/></a>`)
	ast, err := Compile(`preceding-sibling::*[1]`)
	require.NoError(t, err)
	a := tree.Root().Children()[0]
	dNode := a.Children()[2] // <d/>, third child
	v, err := Evaluate(ast, NewContext(), dNode)
	require.NoError(t, err)
	nodes := v.NodeSet().Slice()
	require.Len(t, nodes, 1)
	require.Equal(t, "c", nodes[0].Name().Local) // immediately preceding sibling
}

func TestInvariantCompilationIsPureAndDeterministic(t *testing.T) {
	tree := mustTree(t, `<a><b/><b/></a>`)
	ast1, err := Compile(`count(//b)`)
	require.NoError(t, err)
	ast2, err := Compile(`count(//b)`)
	require.NoError(t, err)
	require.Same(t, ast1, ast2) // cache hit: identical source returns the same *AST

	v1, err := Evaluate(ast1, NewContext(), tree.Root())
	require.NoError(t, err)
	v2, err := Evaluate(ast2, NewContext(), tree.Root())
	require.NoError(t, err)
	require.Equal(t, v1.Number(), v2.Number())
}

// --- additional evaluator behavior ---------------------------------------

func TestEvalArithmeticAndMod(t *testing.T) {
	v := evalString(t, `<a/>`, `7 mod 3`)
	require.Equal(t, float64(1), v.Number())

	v = evalString(t, `<a/>`, `-7 mod 3`)
	require.Equal(t, float64(-1), v.Number())

	v = evalString(t, `<a/>`, `1 div 0`)
	require.True(t, math.IsInf(v.Number(), 1))
}

func TestEvalAndOrShortCircuit(t *testing.T) {
	v := evalString(t, `<a/>`, `true() or unknown-fn-should-not-be-called()`)
	require.True(t, v.Boolean())

	v = evalString(t, `<a/>`, `false() and unknown-fn-should-not-be-called()`)
	require.False(t, v.Boolean())
}

func TestEvalUnionOfNonNodeSetsIsTypeError(t *testing.T) {
	tree := mustTree(t, `<a/>`)
	ast, err := Compile(`1 | 2`)
	require.NoError(t, err)
	_, err = Evaluate(ast, NewContext(), tree.Root())
	require.Error(t, err)
	var typeErr *TypeError
	require.ErrorAs(t, err, &typeErr)
}

func TestEvalPredicateOnNonNodeSetIsTypeError(t *testing.T) {
	tree := mustTree(t, `<a/>`)
	ast, err := Compile(`(1 + 2)[1]`)
	require.NoError(t, err)
	_, err = Evaluate(ast, NewContext(), tree.Root())
	require.Error(t, err)
	var typeErr *TypeError
	require.ErrorAs(t, err, &typeErr)
}

func TestEvalUndeclaredPrefixIsUnknownPrefix(t *testing.T) {
	tree := mustTree(t, `<a/>`)
	ast, err := Compile(`ns:foo`)
	require.NoError(t, err)
	_, err = Evaluate(ast, NewContext(), tree.Root())
	require.Error(t, err)
	var unk *UnknownPrefix
	require.ErrorAs(t, err, &unk)
	require.Equal(t, "ns", unk.Prefix)
}

func TestEvalMissingVariableIsUnknownVariable(t *testing.T) {
	tree := mustTree(t, `<a/>`)
	ast, err := Compile(`$missing`)
	require.NoError(t, err)
	_, err = Evaluate(ast, NewContext(), tree.Root())
	require.Error(t, err)
	var unk *UnknownVariable
	require.ErrorAs(t, err, &unk)
}

func TestEvalMissingFunctionIsUnknownFunction(t *testing.T) {
	tree := mustTree(t, `<a/>`)
	ast, err := Compile(`not-a-real-function()`)
	require.NoError(t, err)
	_, err = Evaluate(ast, NewContext(), tree.Root())
	require.Error(t, err)
	var unk *UnknownFunction
	require.ErrorAs(t, err, &unk)
}

func TestEvalPrefixedNameTestResolvesNamespace(t *testing.T) {
	tree := mustTree(t, `<a xmlns:ns="uri:one"><ns:b/><b/></a>`)
	ast, err := Compile(`//ns:b`)
	require.NoError(t, err)
	bindings := NewContext()
	bindings.BindNamespace("ns", "uri:one")
	v, err := Evaluate(ast, bindings, tree.Root())
	require.NoError(t, err)
	require.Equal(t, 1, v.NodeSet().Len())
}

func TestEvalFilterExprWithTrailingPath(t *testing.T) {
	tree := mustTree(t, `<a><b><c/></b></a>`)
	ast, err := Compile(`$nodes/child::c`)
	require.NoError(t, err)
	bindings := NewContext()
	bindings.SetVariable(ExpandedName{Local: "nodes"}, NewNodeSetValue(NewNodeSet(tree.Root().Children()[0].Children()[0])))
	v, err := Evaluate(ast, bindings, tree.Root())
	require.NoError(t, err)
	nodes := v.NodeSet().Slice()
	require.Len(t, nodes, 1)
	require.Equal(t, "c", nodes[0].Name().Local)
}
