package xpath

import (
	"sync"

	"github.com/golang/groupcache/lru"

	"github.com/gogo-agent/xpathway/document"
)

// AST is a compiled expression: immutable after Compile returns, safe to
// evaluate concurrently from multiple goroutines (spec.md §5) since
// Evaluate never mutates it.
type AST struct {
	root Node
}

// astCache memoizes Compile by source text, grounded on the teacher's
// expression cache (xpath.go's exprCache/exprCacheMu) — same
// lru.Cache-plus-RWMutex shape, sized for a long-lived process that
// evaluates a bounded set of expressions against many documents.
// lru.Cache.Get reorders the cache's recency list, so lookups take the
// write lock too.
var (
	astCache   = lru.New(1000)
	astCacheMu sync.RWMutex
)

// Compile parses source into an AST, consulting and populating the
// process-wide cache by exact source text. A cache hit returns the same
// *AST value previously compiled, which is safe since ASTs are immutable.
func Compile(source string) (*AST, error) {
	astCacheMu.Lock()
	if cached, ok := astCache.Get(source); ok {
		astCacheMu.Unlock()
		return cached.(*AST), nil
	}
	astCacheMu.Unlock()

	root, err := Parse(source)
	if err != nil {
		return nil, err
	}
	ast := &AST{root: root}

	astCacheMu.Lock()
	astCache.Add(source, ast)
	astCacheMu.Unlock()

	return ast, nil
}

// Evaluate runs a compiled AST against bindings, with startNode as the
// initial context node (position 1, size 1).
func Evaluate(ast *AST, bindings *Context, startNode document.Node) (Value, error) {
	ctx := NewEvalContext(bindings, startNode)
	return Eval(ast.root, ctx)
}

// EvaluateSimple is the convenience form of spec.md §6: compile source
// and evaluate it with an empty context rooted at tree's root node.
func EvaluateSimple(tree *document.Tree, source string) (Value, error) {
	ast, err := Compile(source)
	if err != nil {
		return nil, err
	}
	return Evaluate(ast, NewContext(), tree.Root())
}
