package xpath

import "fmt"

// LexError reports malformed source text: an unterminated string, a
// malformed number, an unexpected character, or a trailing colon with no
// local part.
type LexError struct {
	Message  string
	Position int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("xpath: lex error at %d: %s", e.Position, e.Message)
}

// ParseError reports well-formed tokens in an ungrammatical arrangement.
// The parser aborts on the first one; no partial AST is ever produced.
type ParseError struct {
	Message string
	Token   Token
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("xpath: parse error: %s (at %q, position %d)", e.Message, e.Token.Value, e.Token.Position)
}

// UnknownVariable is returned when a variable reference resolves to no
// binding in the evaluation context.
type UnknownVariable struct {
	Name ExpandedName
}

func (e *UnknownVariable) Error() string {
	return fmt.Sprintf("xpath: unknown variable %s", formatExpandedName(e.Name))
}

// UnknownFunction is returned when a function call resolves to no binding
// in the evaluation context's function library (core or user-registered).
type UnknownFunction struct {
	Name ExpandedName
}

func (e *UnknownFunction) Error() string {
	return fmt.Sprintf("xpath: unknown function %s", formatExpandedName(e.Name))
}

// UnknownPrefix is returned when a QName's prefix has no namespace
// binding in the evaluation context. It is a name-resolution failure at
// evaluation time, the same family as UnknownVariable/UnknownFunction,
// not a coercion failure — mirrors the teacher's XPathErrorTypeNamespace
// (_examples/gogo-agent-xmldom/xpath.go:1291), which treats an
// undeclared prefix as its own kind rather than folding it into a
// generic type error.
type UnknownPrefix struct {
	Prefix string
}

func (e *UnknownPrefix) Error() string {
	return fmt.Sprintf("xpath: unbound namespace prefix %q", e.Prefix)
}

// TypeError is returned when a node-set coercion fails: the union
// operator's operands (only `|` qualifies among the binary operators;
// every other operator coerces its operands per XPath 1.0 rules), or
// applying a predicate or a trailing step to a FilterExpr whose base
// did not evaluate to a node-set. Both are the same failure mode under
// different grammar productions: something needed to behave as a
// node-set and didn't.
type TypeError struct {
	Message string
}

func (e *TypeError) Error() string { return fmt.Sprintf("xpath: type error: %s", e.Message) }

// FunctionError is returned when a function rejects its arguments (wrong
// arity or a domain error); it carries the function's own message.
type FunctionError struct {
	Function string
	Message  string
}

func (e *FunctionError) Error() string {
	return fmt.Sprintf("xpath: %s(): %s", e.Function, e.Message)
}

func formatExpandedName(n ExpandedName) string {
	if n.URI == "" {
		return n.Local
	}
	return fmt.Sprintf("{%s}%s", n.URI, n.Local)
}
