package xpath

import "github.com/gogo-agent/xpathway/document"

// Function is a host function binding: any object that can evaluate
// itself against an argument list (already evaluated, left to right) and
// the evaluation context that was active at the call site. Registration
// is by expanded name (spec.md §6), so a Go function value needs no
// adapter beyond FunctionFunc below.
type Function interface {
	Evaluate(ctx *EvalContext, args []Value) (Value, error)
}

// FunctionFunc adapts a plain func to Function.
type FunctionFunc func(ctx *EvalContext, args []Value) (Value, error)

func (f FunctionFunc) Evaluate(ctx *EvalContext, args []Value) (Value, error) {
	return f(ctx, args)
}

// Context is the embedding API's builder for namespace, variable, and
// function bindings (spec.md §6). It is evaluated against a context node
// to produce an *EvalContext for one evaluation; the same Context may be
// reused across many evaluations (of the same or different ASTs) since
// it holds no per-evaluation state.
type Context struct {
	namespaces map[string]string
	variables  map[ExpandedName]Value
	functions  map[ExpandedName]Function
}

// NewContext returns an empty Context. The "xml" prefix is always bound
// (matching the document package's implicit namespace node), so callers
// never need to declare it themselves.
func NewContext() *Context {
	return &Context{
		namespaces: map[string]string{"xml": "http://www.w3.org/XML/1998/namespace"},
		variables:  make(map[ExpandedName]Value),
		functions:  make(map[ExpandedName]Function),
	}
}

// BindNamespace registers prefix → uri for resolving qualified names in
// expressions evaluated against this Context.
func (c *Context) BindNamespace(prefix, uri string) {
	c.namespaces[prefix] = uri
}

// Namespace looks up a bound prefix, returning ok=false if unbound.
func (c *Context) Namespace(prefix string) (string, bool) {
	uri, ok := c.namespaces[prefix]
	return uri, ok
}

// SetVariable binds name to v. A plain local name (no URI) binds in no
// namespace.
func (c *Context) SetVariable(name ExpandedName, v Value) {
	c.variables[name] = v
}

// Variable looks up a bound variable.
func (c *Context) Variable(name ExpandedName) (Value, bool) {
	v, ok := c.variables[name]
	return v, ok
}

// SetFunction registers a host function under name, shadowing any core
// function of the same expanded name (spec.md §9 Open Questions: the
// user-supplied binding wins).
func (c *Context) SetFunction(name ExpandedName, fn Function) {
	c.functions[name] = fn
}

// Function looks up a user-registered function, not consulting the core
// library. Callers needing the core-library fallback use resolveFunction
// in eval.go.
func (c *Context) Function(name ExpandedName) (Function, bool) {
	fn, ok := c.functions[name]
	return fn, ok
}

// EvalContext is the live evaluation state for one evaluate() call: the
// context node/position/size triple (spec.md §4.5) plus the namespace,
// variable, and function bindings borrowed from a Context. Constructed
// fresh per call (or per predicate rewrite); never shared or mutated
// concurrently.
type EvalContext struct {
	bindings *Context
	node     document.Node
	position int
	size     int
}

// NewEvalContext builds the root evaluation context: position 1, size 1,
// context node as given.
func NewEvalContext(bindings *Context, node document.Node) *EvalContext {
	if bindings == nil {
		bindings = NewContext()
	}
	return &EvalContext{bindings: bindings, node: node, position: 1, size: 1}
}

// withNode returns a context for a predicate iteration step: same
// bindings, a new context node/position/size.
func (c *EvalContext) withNode(node document.Node, position, size int) *EvalContext {
	return &EvalContext{bindings: c.bindings, node: node, position: position, size: size}
}

// resolvePrefix resolves a source-level prefix to a namespace URI. An
// undeclared prefix is a name-resolution failure, the same family as an
// unbound variable or function (UnknownPrefix), not a coercion failure.
func (c *EvalContext) resolvePrefix(prefix string) (string, error) {
	if prefix == "" {
		return "", nil
	}
	uri, ok := c.bindings.Namespace(prefix)
	if !ok {
		return "", &UnknownPrefix{Prefix: prefix}
	}
	return uri, nil
}
