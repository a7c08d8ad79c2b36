package xpath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFunctionsStringOps(t *testing.T) {
	require.Equal(t, "ab", evalString(t, `<a/>`, `concat('a', 'b')`).String())
	require.True(t, evalString(t, `<a/>`, `starts-with('abcdef', 'abc')`).Boolean())
	require.False(t, evalString(t, `<a/>`, `starts-with('abcdef', 'xyz')`).Boolean())
	require.True(t, evalString(t, `<a/>`, `contains('abcdef', 'cde')`).Boolean())
	require.Equal(t, "abc", evalString(t, `<a/>`, `substring-before('abc-def', '-')`).String())
	require.Equal(t, "def", evalString(t, `<a/>`, `substring-after('abc-def', '-')`).String())
	require.Equal(t, "", evalString(t, `<a/>`, `substring-before('abcdef', '-')`).String())
	require.Equal(t, float64(6), evalString(t, `<a/>`, `string-length('abcdef')`).Number())
	require.Equal(t, "a b c", evalString(t, `<a/>`, `normalize-space('  a  b   c ')`).String())
	require.Equal(t, "BC", evalString(t, `<a/>`, `translate('abcd', 'abcd', 'BC')`).String())
}

func TestFunctionsSubstring(t *testing.T) {
	// Examples from the XPath 1.0 recommendation's substring() definition.
	require.Equal(t, "234", evalString(t, `<a/>`, `substring('12345', 2, 3)`).String())
	require.Equal(t, "234", evalString(t, `<a/>`, `substring('12345', 1.5, 2.6)`).String())
	require.Equal(t, "2345", evalString(t, `<a/>`, `substring('12345', 2)`).String())
	require.Equal(t, "12", evalString(t, `<a/>`, `substring('12345', 0, 3)`).String())
	require.Equal(t, "", evalString(t, `<a/>`, `substring('12345', 0, 0)`).String())
	require.Equal(t, "12345", evalString(t, `<a/>`, `substring('12345', -42, 1 div 0)`).String())
	require.Equal(t, "", evalString(t, `<a/>`, `substring('12345', 0 div 0, 3)`).String())
}

func TestFunctionsBooleanAndNot(t *testing.T) {
	require.True(t, evalString(t, `<a/>`, `not(false())`).Boolean())
	require.False(t, evalString(t, `<a/>`, `not(true())`).Boolean())
	require.True(t, evalString(t, `<a/>`, `boolean('x')`).Boolean())
	require.False(t, evalString(t, `<a/>`, `boolean('')`).Boolean())
	require.False(t, evalString(t, `<a/>`, `boolean(0)`).Boolean())
	require.True(t, evalString(t, `<a/>`, `boolean(1)`).Boolean())
}

func TestFunctionsNumberRounding(t *testing.T) {
	require.Equal(t, float64(3), evalString(t, `<a/>`, `round(2.5)`).Number())
	require.Equal(t, float64(-2), evalString(t, `<a/>`, `round(-2.5)`).Number())
	require.Equal(t, float64(2), evalString(t, `<a/>`, `floor(2.9)`).Number())
	require.Equal(t, float64(3), evalString(t, `<a/>`, `ceiling(2.1)`).Number())

	require.True(t, math.IsNaN(evalString(t, `<a/>`, `round(0 div 0)`).Number()))
	require.True(t, math.IsInf(evalString(t, `<a/>`, `round(1 div 0)`).Number(), 1))

	neg0 := evalString(t, `<a/>`, `round(-0.3)`)
	require.Equal(t, "0", neg0.String())
}

func TestFunctionsSum(t *testing.T) {
	v := evalString(t, `<a><b>1</b><b>2</b><b>3</b></a>`, `sum(//b)`)
	require.Equal(t, float64(6), v.Number())
}

func TestFunctionsCountArityError(t *testing.T) {
	tree := mustTree(t, `<a/>`)
	ast, err := Compile(`count(//a, //a)`)
	require.NoError(t, err)
	_, err = Evaluate(ast, NewContext(), tree.Root())
	require.Error(t, err)
	var fnErr *FunctionError
	require.ErrorAs(t, err, &fnErr)
	require.Equal(t, "count", fnErr.Function)
}

func TestFunctionsNameFamily(t *testing.T) {
	tree := mustTree(t, `<root xmlns:ns="uri:one"><ns:child/></root>`)
	ast, err := Compile(`name(//ns:child)`)
	require.NoError(t, err)
	bindings := NewContext()
	bindings.BindNamespace("ns", "uri:one")
	v, err := Evaluate(ast, bindings, tree.Root())
	require.NoError(t, err)
	require.Equal(t, "ns:child", v.String())

	ast, err = Compile(`local-name(//ns:child)`)
	require.NoError(t, err)
	v, err = Evaluate(ast, bindings, tree.Root())
	require.NoError(t, err)
	require.Equal(t, "child", v.String())

	ast, err = Compile(`namespace-uri(//ns:child)`)
	require.NoError(t, err)
	v, err = Evaluate(ast, bindings, tree.Root())
	require.NoError(t, err)
	require.Equal(t, "uri:one", v.String())
}

func TestFunctionsLang(t *testing.T) {
	v := evalString(t, `<a xml:lang="en-US"><b/></a>`, `//b[lang('en')]`)
	require.Equal(t, 1, v.NodeSet().Len())

	v = evalString(t, `<a xml:lang="fr"><b/></a>`, `//b[lang('en')]`)
	require.Equal(t, 0, v.NodeSet().Len())
}

func TestFunctionsPositionAndLast(t *testing.T) {
	v := evalString(t, `<a><b/><b/><b/></a>`, `//a/b[position() = last()]`)
	require.Equal(t, 1, v.NodeSet().Len())
}
