package xpath

import (
	"math"

	"github.com/gogo-agent/xpathway/document"
)

// Eval walks ast against ctx, implementing spec.md §4.5. It is the single
// entry point every other evaluation (predicates, function arguments,
// sub-expressions) recurses through.
func Eval(ast Node, ctx *EvalContext) (Value, error) {
	switch n := ast.(type) {
	case *PathExpr:
		set, err := evalPath(n, ctx)
		if err != nil {
			return nil, err
		}
		return NewNodeSetValue(set), nil
	case *FilterExpr:
		return evalFilter(n, ctx)
	case *LiteralExpr:
		return n.Value, nil
	case *VariableRef:
		return evalVariableRef(n, ctx)
	case *FunctionCall:
		return evalFunctionCall(n, ctx)
	case *BinaryOp:
		return evalBinaryOp(n, ctx)
	case *UnaryMinus:
		operand, err := Eval(n.Operand, ctx)
		if err != nil {
			return nil, err
		}
		return Number(-operand.Number()), nil
	default:
		// Node is sealed to this package's own concrete types; every case
		// above is exhaustive. Reaching here means a new astNode() type
		// was added without a matching case, a programming error, not a
		// reportable runtime condition.
		panic("xpath: unevaluable AST node")
	}
}

// evalPath evaluates a location path to a node-set, starting from ctx's
// context node (or the document root, for an absolute path).
func evalPath(p *PathExpr, ctx *EvalContext) (*NodeSet, error) {
	start := ctx.node
	if p.Abs {
		start = documentRoot(start)
	}
	set := NewNodeSet(start)
	return runSteps(p.Steps, set, ctx)
}

// runSteps applies each step in sequence to the node-set produced by the
// previous one, per the step-execution algorithm of spec.md §4.5.
func runSteps(steps []Step, input *NodeSet, ctx *EvalContext) (*NodeSet, error) {
	set := input
	for _, step := range steps {
		next, err := runStep(step, set, ctx)
		if err != nil {
			return nil, err
		}
		set = next
	}
	return set, nil
}

// runStep executes one step against every node in s (visited in document
// order). The axis+node-test sequence and the predicate rewrites (spec.md
// §4.5 step execution) run per source node, not over one sequence flattened
// across every node in s: context-position and context-size inside a
// predicate are relative to the nodes the step produced from that one
// source node, matching spec.md §8 scenario 3 (`//c[1]` selects both `c`
// elements, one per `<b>` parent, because each child::c step has its own
// single-node input and its own position-1 result). The per-source results
// are then concatenated; NewNodeSet dedups them and Slice yields them in
// document order.
func runStep(step Step, s *NodeSet, ctx *EvalContext) (*NodeSet, error) {
	var result []document.Node
	for _, n := range s.Slice() {
		var sequence []document.Node
		for _, cand := range axisNodes(step.Axis, n) {
			ok, err := matchesTest(step.Axis, step.Test, cand, ctx)
			if err != nil {
				return nil, err
			}
			if ok {
				sequence = append(sequence, cand)
			}
		}

		for _, pred := range step.Predicates {
			filtered, err := applyPredicate(pred, sequence, ctx)
			if err != nil {
				return nil, err
			}
			sequence = filtered
		}

		result = append(result, sequence...)
	}

	return NewNodeSet(result...), nil
}

// applyPredicate evaluates pred once per item of sequence with
// context-position/size set per spec.md §4.5 step 2: truthy per the
// number-as-position rule if pred yields a number, else by boolean
// coercion.
func applyPredicate(pred Node, sequence []document.Node, ctx *EvalContext) ([]document.Node, error) {
	size := len(sequence)
	var out []document.Node
	for i, n := range sequence {
		pctx := ctx.withNode(n, i+1, size)
		v, err := Eval(pred, pctx)
		if err != nil {
			return nil, err
		}
		keep := false
		if v.Type() == NumberType {
			keep = v.Number() == float64(i+1)
		} else {
			keep = v.Boolean()
		}
		if keep {
			out = append(out, n)
		}
	}
	return out, nil
}

// principalKind reports the kind of node an axis's wildcard/name tests
// match: attribute for the attribute axis, namespace for the namespace
// axis, element otherwise.
func principalKind(axis Axis) document.Kind {
	switch axis {
	case AxisAttribute:
		return document.AttributeKind
	case AxisNamespace:
		return document.NamespaceKind
	default:
		return document.ElementKind
	}
}

// matchesTest reports whether n passes test, given the principal node
// kind of axis. NameTest and PrefixWildcardTest carry only a textual
// prefix (spec.md §4.4: resolution is deferred to evaluation time), so
// both resolve it against ctx's namespace binding here, once per
// candidate node.
func matchesTest(axis Axis, test NodeTest, n document.Node, ctx *EvalContext) (bool, error) {
	switch t := test.(type) {
	case WildcardTest:
		return n.Kind() == principalKind(axis), nil
	case PrefixWildcardTest:
		if n.Kind() != principalKind(axis) {
			return false, nil
		}
		uri, err := ctx.resolvePrefix(t.Prefix)
		if err != nil {
			return false, err
		}
		return n.Name().URI == uri, nil
	case NameTest:
		if n.Kind() != principalKind(axis) {
			return false, nil
		}
		uri, err := ctx.resolvePrefix(t.Prefix)
		if err != nil {
			return false, err
		}
		return n.Name().Local == t.Local && n.Name().URI == uri, nil
	case KindTest:
		return matchesKindTest(t, n), nil
	default:
		return false, nil
	}
}

func matchesKindTest(t KindTest, n document.Node) bool {
	switch t.Kind {
	case CommentKindTest:
		return n.Kind() == document.CommentKind
	case TextKindTest:
		return n.Kind() == document.TextKind
	case ProcessingInstructionKindTest:
		if n.Kind() != document.ProcessingInstructionKind {
			return false
		}
		return t.PIName == "" || n.Name().Local == t.PIName
	case AnyKindTest:
		switch n.Kind() {
		case document.RootKind, document.ElementKind, document.AttributeKind,
			document.TextKind, document.CommentKind, document.ProcessingInstructionKind,
			document.NamespaceKind:
			return true
		}
		return false
	default:
		return false
	}
}

// evalFilter evaluates a PrimaryExpr, filters it by predicates (only
// meaningful for a node-set base), then continues with an optional
// trailing relative path.
func evalFilter(f *FilterExpr, ctx *EvalContext) (Value, error) {
	base, err := Eval(f.Base, ctx)
	if err != nil {
		return nil, err
	}

	if len(f.Predicates) == 0 && f.Path == nil {
		return base, nil
	}

	if base.Type() != NodeSetType {
		return nil, &TypeError{Message: "predicate or path applied to a non-node-set expression"}
	}

	sequence := base.NodeSet().Slice()
	for _, pred := range f.Predicates {
		filtered, err := applyPredicate(pred, sequence, ctx)
		if err != nil {
			return nil, err
		}
		sequence = filtered
	}

	if f.Path == nil {
		return NewNodeSetValue(NewNodeSet(sequence...)), nil
	}

	set, err := runSteps(f.Path.Steps, NewNodeSet(sequence...), ctx)
	if err != nil {
		return nil, err
	}
	return NewNodeSetValue(set), nil
}

func evalVariableRef(v *VariableRef, ctx *EvalContext) (Value, error) {
	uri, err := ctx.resolvePrefix(v.Prefix)
	if err != nil {
		return nil, err
	}
	name := ExpandedName{URI: uri, Local: v.Local}
	val, ok := ctx.bindings.Variable(name)
	if !ok {
		return nil, &UnknownVariable{Name: name}
	}
	return val, nil
}

func evalFunctionCall(f *FunctionCall, ctx *EvalContext) (Value, error) {
	uri, err := ctx.resolvePrefix(f.Prefix)
	if err != nil {
		return nil, err
	}
	name := ExpandedName{URI: uri, Local: f.Local}

	args := make([]Value, len(f.Args))
	for i, a := range f.Args {
		v, err := Eval(a, ctx)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	fn, ok := ctx.bindings.Function(name)
	if !ok {
		fn, ok = coreFunctions[name]
	}
	if !ok {
		return nil, &UnknownFunction{Name: name}
	}
	return fn.Evaluate(ctx, args)
}

func evalBinaryOp(b *BinaryOp, ctx *EvalContext) (Value, error) {
	if b.Op == OpOr || b.Op == OpAnd {
		left, err := Eval(b.Left, ctx)
		if err != nil {
			return nil, err
		}
		if b.Op == OpOr && left.Boolean() {
			return Boolean(true), nil
		}
		if b.Op == OpAnd && !left.Boolean() {
			return Boolean(false), nil
		}
		right, err := Eval(b.Right, ctx)
		if err != nil {
			return nil, err
		}
		return Boolean(right.Boolean()), nil
	}

	left, err := Eval(b.Left, ctx)
	if err != nil {
		return nil, err
	}
	right, err := Eval(b.Right, ctx)
	if err != nil {
		return nil, err
	}

	switch b.Op {
	case OpEq:
		return Boolean(compareEquality(left, right, true)), nil
	case OpNeq:
		return Boolean(compareEquality(left, right, false)), nil
	case OpLt:
		return Boolean(compareRelational(left, right, func(a, b float64) bool { return a < b })), nil
	case OpLte:
		return Boolean(compareRelational(left, right, func(a, b float64) bool { return a <= b })), nil
	case OpGt:
		return Boolean(compareRelational(left, right, func(a, b float64) bool { return a > b })), nil
	case OpGte:
		return Boolean(compareRelational(left, right, func(a, b float64) bool { return a >= b })), nil
	case OpAdd:
		return Number(left.Number() + right.Number()), nil
	case OpSub:
		return Number(left.Number() - right.Number()), nil
	case OpMul:
		return Number(left.Number() * right.Number()), nil
	case OpDiv:
		return Number(left.Number() / right.Number()), nil
	case OpMod:
		return Number(xpathMod(left.Number(), right.Number())), nil
	case OpUnion:
		if left.Type() != NodeSetType || right.Type() != NodeSetType {
			return nil, &TypeError{Message: "union operand is not a node-set"}
		}
		return NewNodeSetValue(left.NodeSet().Union(right.NodeSet())), nil
	default:
		// BinaryOperator is a private enum only ever constructed by the
		// parser from its own fixed set of values; every case above (plus
		// OpOr/OpAnd, handled earlier) is exhaustive. Reaching here means
		// a new operator constant was added without a matching case.
		panic("xpath: unknown binary operator")
	}
}

// xpathMod truncates toward zero and takes the sign of the dividend, per
// spec.md §4.5 (math.Mod's truncated remainder, not the IEEE 754
// round-to-nearest remainder and not Euclidean).
func xpathMod(a, b float64) float64 {
	return math.Mod(a, b)
}

// compareEquality implements the existential comparison rule: when
// either side is a node-set, true iff some pairing of coercions is
// equal; otherwise coerce per the boolean > number > string precedence
// and compare directly.
func compareEquality(left, right Value, wantEqual bool) bool {
	eq := equalValues(left, right)
	if wantEqual {
		return eq
	}
	return !eq
}

func equalValues(left, right Value) bool {
	if left.Type() == NodeSetType && right.Type() == NodeSetType {
		for _, a := range left.NodeSet().Slice() {
			for _, b := range right.NodeSet().Slice() {
				if a.StringValue() == b.StringValue() {
					return true
				}
			}
		}
		return false
	}
	if left.Type() == NodeSetType {
		return nodeSetEqualsScalar(left, right)
	}
	if right.Type() == NodeSetType {
		return nodeSetEqualsScalar(right, left)
	}
	switch {
	case left.Type() == BooleanType || right.Type() == BooleanType:
		return left.Boolean() == right.Boolean()
	case left.Type() == NumberType || right.Type() == NumberType:
		return left.Number() == right.Number()
	default:
		return left.String() == right.String()
	}
}

// nodeSetEqualsScalar compares a node-set against a non-node-set operand.
// A number or string operand is compared with each node's string-value in
// turn, coerced to the operand's type (existentially: true if any node
// matches); a boolean operand is compared with the node-set's own boolean
// value.
func nodeSetEqualsScalar(set, scalar Value) bool {
	nodes := set.NodeSet().Slice()
	switch scalar.Type() {
	case NumberType:
		for _, n := range nodes {
			if stringToNumber(n.StringValue()) == scalar.Number() {
				return true
			}
		}
	case BooleanType:
		return set.Boolean() == scalar.Boolean()
	default:
		for _, n := range nodes {
			if n.StringValue() == scalar.String() {
				return true
			}
		}
	}
	return false
}

// compareRelational coerces both operands to numbers, expanding a
// node-set operand existentially over its members' string-values.
func compareRelational(left, right Value, cmp func(a, b float64) bool) bool {
	leftNums := operandNumbers(left)
	rightNums := operandNumbers(right)
	for _, a := range leftNums {
		for _, b := range rightNums {
			if cmp(a, b) {
				return true
			}
		}
	}
	return false
}

func operandNumbers(v Value) []float64 {
	if v.Type() != NodeSetType {
		return []float64{v.Number()}
	}
	nodes := v.NodeSet().Slice()
	out := make([]float64, len(nodes))
	for i, n := range nodes {
		out[i] = stringToNumber(n.StringValue())
	}
	return out
}
