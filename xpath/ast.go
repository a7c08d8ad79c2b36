package xpath

// AST node types, grounded on the teacher's xpath.go node hierarchy
// (xpathPathNode/xpathAxisNode/xpathBinaryOpNode/xpathFunctionNode and
// friends) but reshaped around spec.md §4.4: name tests, function names,
// and variable references keep both their source Prefix and their Local
// part so that prefix-to-URI resolution can happen at evaluation time
// against whatever namespace binding the caller supplies, rather than at
// parse time the way the teacher resolves DOM Living Standard names.
type Node interface {
	astNode()
}

// PathExpr is a location path: an optional absolute anchor followed by a
// sequence of Steps. Abs with no Steps is just "/". A leading "//" sets
// Abs and is expanded to "/descendant-or-self::node()/" by prepending the
// corresponding Step rather than literally splicing text (see parser.go).
type PathExpr struct {
	Abs   bool
	Steps []Step
}

func (*PathExpr) astNode() {}

// Step is one axis/node-test/predicate-list triple.
type Step struct {
	Axis       Axis
	Test       NodeTest
	Predicates []Node
}

// NodeTest is the kind-or-name filter applied to every node an axis
// yields.
type NodeTest interface {
	nodeTest()
}

// WildcardTest matches any node test's principal kind for chosen axis
// (element for most axes, attribute for the attribute axis, namespace for
// the namespace axis).
type WildcardTest struct{}

func (WildcardTest) nodeTest() {}

// PrefixWildcardTest matches "Prefix:*": any name in Prefix's namespace,
// resolved at evaluation time.
type PrefixWildcardTest struct{ Prefix string }

func (PrefixWildcardTest) nodeTest() {}

// NameTest matches "NCName" or "Prefix:NCName". Prefix is "" for an
// unprefixed name (which still means "no namespace", not "any
// namespace"); resolution against the evaluation context's namespace
// binding happens in eval.go.
type NameTest struct {
	Prefix string
	Local  string
}

func (NameTest) nodeTest() {}

// KindTest matches one of the four XPath 1.0 kind tests. PIName is only
// meaningful when Kind == ProcessingInstructionKindTest and is "" when
// processing-instruction() was called with no literal argument.
type KindTest struct {
	Kind   KindTestKind
	PIName string
}

func (KindTest) nodeTest() {}

// KindTestKind enumerates the four kind-test forms.
type KindTestKind uint8

const (
	CommentKindTest KindTestKind = iota
	TextKindTest
	ProcessingInstructionKindTest
	AnyKindTest // node()
)

// LiteralExpr is a string or number constant.
type LiteralExpr struct {
	Value Value
}

func (*LiteralExpr) astNode() {}

// VariableRef is "$name" or "$prefix:name".
type VariableRef struct {
	Prefix string
	Local  string
}

func (*VariableRef) astNode() {}

// FunctionCall is "name(args...)" or "prefix:name(args...)". The parser
// never validates arity or argument types; see spec.md §4.4.
type FunctionCall struct {
	Prefix string
	Local  string
	Args   []Node
}

func (*FunctionCall) astNode() {}

// BinaryOp is one of the equality, relational, additive, multiplicative,
// and logical infix operators, plus union.
type BinaryOp struct {
	Op          BinaryOperator
	Left, Right Node
}

func (*BinaryOp) astNode() {}

type BinaryOperator uint8

const (
	OpOr BinaryOperator = iota
	OpAnd
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpUnion
)

// UnaryMinus is the sole unary operator in XPath 1.0.
type UnaryMinus struct {
	Operand Node
}

func (*UnaryMinus) astNode() {}

// FilterExpr is a PrimaryExpr (anything but a location path) followed by
// zero or more predicates, optionally continued by a relative location
// path — e.g. "$nodes[1]/child::foo" or "current()//bar". When Path is
// non-nil, evaluation filters Base by Predicates and then applies Path as
// a relative path from each surviving node, identical in structure to how
// a location path continues from a step's output.
type FilterExpr struct {
	Base       Node
	Predicates []Node
	Path       *PathExpr // nil if no trailing relative path
}

func (*FilterExpr) astNode() {}
