package xpath

import (
	"math"
	"strings"

	"github.com/gogo-agent/xpathway/document"
)

// Core function library (spec.md §4.5). Grounded on original_source's
// register_core_functions / one-struct-per-function pattern
// (function.rs): each XPath function is its own Go func, adapted to
// Function by FunctionFunc and registered into coreFunctions by expanded name
// (unprefixed, no namespace URI — the core library lives in no
// namespace). A user binding with the same expanded name shadows these
// (see Context.SetFunction, consulted first in evalFunctionCall).
var coreFunctions = map[ExpandedName]Function{
	{Local: "last"}:                FunctionFunc(fnLast),
	{Local: "position"}:            FunctionFunc(fnPosition),
	{Local: "count"}:               FunctionFunc(fnCount),
	{Local: "local-name"}:          FunctionFunc(fnLocalName),
	{Local: "namespace-uri"}:       FunctionFunc(fnNamespaceURI),
	{Local: "name"}:                FunctionFunc(fnName),
	{Local: "string"}:              FunctionFunc(fnString),
	{Local: "concat"}:              FunctionFunc(fnConcat),
	{Local: "starts-with"}:         FunctionFunc(fnStartsWith),
	{Local: "contains"}:            FunctionFunc(fnContains),
	{Local: "substring-before"}:    FunctionFunc(fnSubstringBefore),
	{Local: "substring-after"}:     FunctionFunc(fnSubstringAfter),
	{Local: "substring"}:           FunctionFunc(fnSubstring),
	{Local: "string-length"}:       FunctionFunc(fnStringLength),
	{Local: "normalize-space"}:     FunctionFunc(fnNormalizeSpace),
	{Local: "translate"}:           FunctionFunc(fnTranslate),
	{Local: "boolean"}:             FunctionFunc(fnBoolean),
	{Local: "not"}:                 FunctionFunc(fnNot),
	{Local: "true"}:                FunctionFunc(fnTrue),
	{Local: "false"}:               FunctionFunc(fnFalse),
	{Local: "lang"}:                FunctionFunc(fnLang),
	{Local: "number"}:              FunctionFunc(fnNumber),
	{Local: "sum"}:                 FunctionFunc(fnSum),
	{Local: "floor"}:               FunctionFunc(fnFloor),
	{Local: "ceiling"}:             FunctionFunc(fnCeiling),
	{Local: "round"}:               FunctionFunc(fnRound),
}

func arity(name string, args []Value, min, max int) error {
	if len(args) < min || (max >= 0 && len(args) > max) {
		return &FunctionError{Function: name, Message: "wrong number of arguments"}
	}
	return nil
}

func contextNodeValue(ctx *EvalContext) Value {
	return NewNodeSetValue(NewNodeSet(ctx.node))
}

func fnLast(ctx *EvalContext, args []Value) (Value, error) {
	if err := arity("last", args, 0, 0); err != nil {
		return nil, err
	}
	return Number(float64(ctx.size)), nil
}

func fnPosition(ctx *EvalContext, args []Value) (Value, error) {
	if err := arity("position", args, 0, 0); err != nil {
		return nil, err
	}
	return Number(float64(ctx.position)), nil
}

func fnCount(ctx *EvalContext, args []Value) (Value, error) {
	if err := arity("count", args, 1, 1); err != nil {
		return nil, err
	}
	if args[0].Type() != NodeSetType {
		return nil, &FunctionError{Function: "count", Message: "argument is not a node-set"}
	}
	return Number(float64(args[0].NodeSet().Len())), nil
}

func nodeArg(ctx *EvalContext, args []Value, name string) (document.Node, error) {
	if len(args) == 0 {
		return ctx.node, nil
	}
	if args[0].Type() != NodeSetType {
		return nil, &FunctionError{Function: name, Message: "argument is not a node-set"}
	}
	return args[0].NodeSet().First(), nil
}

func fnLocalName(ctx *EvalContext, args []Value) (Value, error) {
	if err := arity("local-name", args, 0, 1); err != nil {
		return nil, err
	}
	n, err := nodeArg(ctx, args, "local-name")
	if err != nil {
		return nil, err
	}
	if n == nil {
		return String(""), nil
	}
	return String(n.Name().Local), nil
}

func fnNamespaceURI(ctx *EvalContext, args []Value) (Value, error) {
	if err := arity("namespace-uri", args, 0, 1); err != nil {
		return nil, err
	}
	n, err := nodeArg(ctx, args, "namespace-uri")
	if err != nil {
		return nil, err
	}
	if n == nil {
		return String(""), nil
	}
	return String(n.Name().URI), nil
}

func fnName(ctx *EvalContext, args []Value) (Value, error) {
	if err := arity("name", args, 0, 1); err != nil {
		return nil, err
	}
	n, err := nodeArg(ctx, args, "name")
	if err != nil {
		return nil, err
	}
	if n == nil {
		return String(""), nil
	}
	if prefix := qualifyingPrefix(n); prefix != "" {
		return String(prefix + ":" + n.Name().Local), nil
	}
	return String(n.Name().Local), nil
}

// qualifyingPrefix finds a prefix bound, in n's in-scope namespaces, to n's
// own namespace URI. The decoder does not retain the literal prefix text an
// element or attribute was written with (encoding/xml resolves qualified
// names to URIs and discards it), so name() reconstructs one from whatever
// prefix is currently bound to that URI instead — the same fallback real
// XPath processors use when a document's in-memory form does not keep the
// original spelling.
func qualifyingPrefix(n document.Node) string {
	if n.Name().URI == "" {
		return ""
	}
	owner := n
	if n.Kind() != document.ElementKind {
		owner = n.Parent()
	}
	if owner == nil {
		return ""
	}
	for _, ns := range owner.Namespaces() {
		if ns.StringValue() == n.Name().URI && ns.Name().Local != "" {
			return ns.Name().Local
		}
	}
	return ""
}

func fnString(ctx *EvalContext, args []Value) (Value, error) {
	if err := arity("string", args, 0, 1); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return String(contextNodeValue(ctx).String()), nil
	}
	return String(args[0].String()), nil
}

func fnConcat(ctx *EvalContext, args []Value) (Value, error) {
	if err := arity("concat", args, 2, -1); err != nil {
		return nil, err
	}
	var b strings.Builder
	for _, a := range args {
		b.WriteString(a.String())
	}
	return String(b.String()), nil
}

func fnStartsWith(ctx *EvalContext, args []Value) (Value, error) {
	if err := arity("starts-with", args, 2, 2); err != nil {
		return nil, err
	}
	return Boolean(strings.HasPrefix(args[0].String(), args[1].String())), nil
}

func fnContains(ctx *EvalContext, args []Value) (Value, error) {
	if err := arity("contains", args, 2, 2); err != nil {
		return nil, err
	}
	return Boolean(strings.Contains(args[0].String(), args[1].String())), nil
}

func fnSubstringBefore(ctx *EvalContext, args []Value) (Value, error) {
	if err := arity("substring-before", args, 2, 2); err != nil {
		return nil, err
	}
	s, sep := args[0].String(), args[1].String()
	i := strings.Index(s, sep)
	if i < 0 {
		return String(""), nil
	}
	return String(s[:i]), nil
}

func fnSubstringAfter(ctx *EvalContext, args []Value) (Value, error) {
	if err := arity("substring-after", args, 2, 2); err != nil {
		return nil, err
	}
	s, sep := args[0].String(), args[1].String()
	i := strings.Index(s, sep)
	if i < 0 {
		return String(""), nil
	}
	return String(s[i+len(sep):]), nil
}

// fnSubstring implements the XPath 1.0 substring rounding rule: start and
// length are rounded to the nearest integer (round-half-to-+Inf) before
// the 1-based, possibly out-of-range window is clamped against the
// string.
func fnSubstring(ctx *EvalContext, args []Value) (Value, error) {
	if err := arity("substring", args, 2, 3); err != nil {
		return nil, err
	}
	s := []rune(args[0].String())
	start := xpathRound(args[1].Number())

	var end float64
	if len(args) == 3 {
		end = start + xpathRound(args[2].Number())
	} else {
		end = float64(len(s)) + 1
	}

	if math.IsNaN(start) || math.IsNaN(end) {
		return String(""), nil
	}

	from := int(math.Max(start, 1))
	to := int(math.Min(end, float64(len(s)+1)))
	if to <= from || from > len(s) {
		return String(""), nil
	}
	return String(string(s[from-1 : to-1])), nil
}

func fnStringLength(ctx *EvalContext, args []Value) (Value, error) {
	if err := arity("string-length", args, 0, 1); err != nil {
		return nil, err
	}
	s := contextNodeValue(ctx).String()
	if len(args) == 1 {
		s = args[0].String()
	}
	return Number(float64(len([]rune(s)))), nil
}

func fnNormalizeSpace(ctx *EvalContext, args []Value) (Value, error) {
	if err := arity("normalize-space", args, 0, 1); err != nil {
		return nil, err
	}
	s := contextNodeValue(ctx).String()
	if len(args) == 1 {
		s = args[0].String()
	}
	return String(strings.Join(strings.Fields(s), " ")), nil
}

func fnTranslate(ctx *EvalContext, args []Value) (Value, error) {
	if err := arity("translate", args, 3, 3); err != nil {
		return nil, err
	}
	src := []rune(args[0].String())
	from := []rune(args[1].String())
	to := []rune(args[2].String())

	var b strings.Builder
	for _, r := range src {
		idx := -1
		for i, f := range from {
			if f == r {
				idx = i
				break
			}
		}
		switch {
		case idx < 0:
			b.WriteRune(r)
		case idx < len(to):
			b.WriteRune(to[idx])
		default:
			// dropped: a "from" character with no corresponding "to"
		}
	}
	return String(b.String()), nil
}

func fnBoolean(ctx *EvalContext, args []Value) (Value, error) {
	if err := arity("boolean", args, 1, 1); err != nil {
		return nil, err
	}
	return Boolean(args[0].Boolean()), nil
}

func fnNot(ctx *EvalContext, args []Value) (Value, error) {
	if err := arity("not", args, 1, 1); err != nil {
		return nil, err
	}
	return Boolean(!args[0].Boolean()), nil
}

func fnTrue(ctx *EvalContext, args []Value) (Value, error) {
	if err := arity("true", args, 0, 0); err != nil {
		return nil, err
	}
	return Boolean(true), nil
}

func fnFalse(ctx *EvalContext, args []Value) (Value, error) {
	if err := arity("false", args, 0, 0); err != nil {
		return nil, err
	}
	return Boolean(false), nil
}

func fnLang(ctx *EvalContext, args []Value) (Value, error) {
	if err := arity("lang", args, 1, 1); err != nil {
		return nil, err
	}
	return Boolean(langMatches(ctx.node, args[0].String())), nil
}

// langMatches walks up from n looking for the nearest xml:lang
// declaration and reports whether it equals want or is a sub-language of
// it (e.g. want "en" matches declared "en-US"), per XPath 1.0 lang().
func langMatches(n document.Node, want string) bool {
	want = strings.ToLower(want)
	for cur := n; cur != nil; cur = cur.Parent() {
		if cur.Kind() != document.ElementKind {
			continue
		}
		for _, a := range cur.Attributes() {
			if a.Name().Local == "lang" && a.Name().URI == document.XMLNamespaceURI {
				got := strings.ToLower(a.StringValue())
				return got == want || strings.HasPrefix(got, want+"-")
			}
		}
	}
	return false
}

func fnNumber(ctx *EvalContext, args []Value) (Value, error) {
	if err := arity("number", args, 0, 1); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return Number(contextNodeValue(ctx).Number()), nil
	}
	return Number(args[0].Number()), nil
}

func fnSum(ctx *EvalContext, args []Value) (Value, error) {
	if err := arity("sum", args, 1, 1); err != nil {
		return nil, err
	}
	if args[0].Type() != NodeSetType {
		return nil, &FunctionError{Function: "sum", Message: "argument is not a node-set"}
	}
	total := 0.0
	for _, n := range args[0].NodeSet().Slice() {
		total += stringToNumber(n.StringValue())
	}
	return Number(total), nil
}

func fnFloor(ctx *EvalContext, args []Value) (Value, error) {
	if err := arity("floor", args, 1, 1); err != nil {
		return nil, err
	}
	return Number(math.Floor(args[0].Number())), nil
}

func fnCeiling(ctx *EvalContext, args []Value) (Value, error) {
	if err := arity("ceiling", args, 1, 1); err != nil {
		return nil, err
	}
	return Number(math.Ceil(args[0].Number())), nil
}

func fnRound(ctx *EvalContext, args []Value) (Value, error) {
	if err := arity("round", args, 1, 1); err != nil {
		return nil, err
	}
	return Number(xpathRound(args[0].Number())), nil
}

// xpathRound rounds half to positive infinity, preserving NaN and
// infinities, per spec.md §4.5.
func xpathRound(n float64) float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return n
	}
	return math.Floor(n + 0.5)
}
