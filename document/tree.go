package document

import (
	"sort"
	"strings"
)

// Tree owns every node produced by a single parse (or by the builder API)
// and assigns each one a stable document-order index. A Value produced by
// package xpath borrows Node handles from a Tree and must not outlive it.
type Tree struct {
	root  *elem
	order int // next order index to hand out
}

// elem backs root, element, text, comment and processing-instruction
// nodes; which fields are meaningful depends on kind, mirroring the
// teacher's single tagged node struct (core.go's node).
type elem struct {
	tr       *Tree
	kind     Kind
	name     ExpandedName // element / PI (Local = target)
	prefix   string
	data     string // text/comment value, or PI instruction
	parent   *elem
	children []Node
	attrs    []*attrNode
	nsNodes  []Node // precomputed in-scope namespace nodes
	ownNS    map[string]string // xmlns declarations made directly on this element
	ord      int
	idx      int // index within parent.children
}

func (n *elem) Kind() Kind { return n.kind }

func (n *elem) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *elem) Children() []Node { return n.children }

func (n *elem) PreviousSibling() Node {
	if n.parent == nil || n.idx == 0 {
		return nil
	}
	return n.parent.children[n.idx-1]
}

func (n *elem) NextSibling() Node {
	if n.parent == nil || n.idx+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[n.idx+1]
}

func (n *elem) Attributes() []Node {
	if n.kind != ElementKind || len(n.attrs) == 0 {
		return nil
	}
	out := make([]Node, len(n.attrs))
	for i, a := range n.attrs {
		out[i] = a
	}
	return out
}

func (n *elem) Namespaces() []Node {
	if n.kind != ElementKind {
		return nil
	}
	return n.nsNodes
}

func (n *elem) Name() ExpandedName {
	if n.kind == ElementKind || n.kind == ProcessingInstructionKind {
		return n.name
	}
	return ExpandedName{}
}

func (n *elem) Prefix() string { return n.prefix }

func (n *elem) StringValue() string {
	switch n.kind {
	case TextKind, CommentKind, ProcessingInstructionKind:
		return n.data
	default: // RootKind, ElementKind: concatenation of descendant text, in document order
		var b strings.Builder
		collectText(n, &b)
		return b.String()
	}
}

func collectText(n *elem, b *strings.Builder) {
	for _, c := range n.children {
		ce := c.(*elem)
		switch ce.kind {
		case TextKind:
			b.WriteString(ce.data)
		case ElementKind:
			collectText(ce, b)
		}
	}
}

func (n *elem) order() int { return n.ord }
func (n *elem) tree() *Tree { return n.tr }

// attrNode is an element attribute.
type attrNode struct {
	tr     *Tree
	name   ExpandedName
	prefix string
	value  string
	owner  *elem
	ord    int
}

func (a *attrNode) Kind() Kind             { return AttributeKind }
func (a *attrNode) Parent() Node           { return a.owner }
func (a *attrNode) Children() []Node       { return nil }
func (a *attrNode) PreviousSibling() Node  { return nil }
func (a *attrNode) NextSibling() Node      { return nil }
func (a *attrNode) Attributes() []Node     { return nil }
func (a *attrNode) Namespaces() []Node     { return nil }
func (a *attrNode) Name() ExpandedName     { return a.name }
func (a *attrNode) Prefix() string         { return a.prefix }
func (a *attrNode) StringValue() string    { return a.value }
func (a *attrNode) order() int             { return a.ord }
func (a *attrNode) tree() *Tree            { return a.tr }

// nsNode is a synthesized namespace node, exposed only via Node.Namespaces.
type nsNode struct {
	tr     *Tree
	prefix string
	uri    string
	owner  *elem
	ord    int
}

func (n *nsNode) Kind() Kind            { return NamespaceKind }
func (n *nsNode) Parent() Node          { return n.owner }
func (n *nsNode) Children() []Node      { return nil }
func (n *nsNode) PreviousSibling() Node { return nil }
func (n *nsNode) NextSibling() Node     { return nil }
func (n *nsNode) Attributes() []Node    { return nil }
func (n *nsNode) Namespaces() []Node    { return nil }
func (n *nsNode) Name() ExpandedName    { return ExpandedName{Local: n.prefix} }
func (n *nsNode) Prefix() string        { return "" }
func (n *nsNode) StringValue() string   { return n.uri }
func (n *nsNode) order() int            { return n.ord }
func (n *nsNode) tree() *Tree           { return n.tr }

// ---- Builder API ----
//
// NewTree and the Add* methods construct a document programmatically; the
// decoder (decoder.go) is one caller, tests that don't want to round-trip
// through XML text are another.

// NewTree creates an empty tree with a root node.
func NewTree() *Tree {
	t := &Tree{}
	t.root = &elem{tr: t, kind: RootKind}
	t.root.ord = t.next()
	return t
}

func (t *Tree) next() int {
	o := t.order
	t.order++
	return o
}

// Root returns the document root node.
func (t *Tree) Root() Node { return t.root }

// AddElement appends a new element child to parent (which must be the root
// or an element previously returned by this Tree) and returns it.
func (t *Tree) AddElement(parent Node, name ExpandedName, prefix string) Node {
	p := parent.(*elem)
	child := &elem{tr: t, kind: ElementKind, name: name, prefix: prefix, parent: p, idx: len(p.children)}
	child.ord = t.next()
	p.children = append(p.children, child)
	t.inheritNamespaces(child)
	return child
}

// AddText appends a text child.
func (t *Tree) AddText(parent Node, data string) Node {
	p := parent.(*elem)
	child := &elem{tr: t, kind: TextKind, data: data, parent: p, idx: len(p.children)}
	child.ord = t.next()
	p.children = append(p.children, child)
	return child
}

// AddComment appends a comment child.
func (t *Tree) AddComment(parent Node, data string) Node {
	p := parent.(*elem)
	child := &elem{tr: t, kind: CommentKind, data: data, parent: p, idx: len(p.children)}
	child.ord = t.next()
	p.children = append(p.children, child)
	return child
}

// AddPI appends a processing-instruction child.
func (t *Tree) AddPI(parent Node, target, data string) Node {
	p := parent.(*elem)
	child := &elem{tr: t, kind: ProcessingInstructionKind, name: ExpandedName{Local: target}, data: data, parent: p, idx: len(p.children)}
	child.ord = t.next()
	p.children = append(p.children, child)
	return child
}

// SetAttribute attaches an attribute to an element. Must be called before
// any namespace declaration lookups on descendants rely on it (it does not
// itself declare a namespace; use DeclareNamespace for xmlns:*).
func (t *Tree) SetAttribute(elemNode Node, name ExpandedName, prefix, value string) {
	e := elemNode.(*elem)
	a := &attrNode{tr: t, name: name, prefix: prefix, value: value, owner: e}
	a.ord = t.next()
	e.attrs = append(e.attrs, a)
}

// DeclareNamespace records an xmlns[:prefix]="uri" declaration made
// directly on elemNode. prefix == "" declares the default namespace.
// Must be called immediately after AddElement and before adding children,
// since in-scope namespace nodes for this element and its descendants are
// computed at AddElement / DeclareNamespace time.
func (t *Tree) DeclareNamespace(elemNode Node, prefix, uri string) {
	e := elemNode.(*elem)
	if e.ownNS == nil {
		e.ownNS = make(map[string]string)
	}
	e.ownNS[prefix] = uri
	t.inheritNamespaces(e)
}

// inheritNamespaces (re)computes e's in-scope namespace node list from its
// own declarations plus its parent's in-scope set, nearest wins, "xml"
// always present. Namespace nodes are reassigned document-order positions
// each time this runs so the exported ordering stays internally
// consistent even if DeclareNamespace is called after children exist.
func (t *Tree) inheritNamespaces(e *elem) {
	scope := map[string]string{"xml": XMLNamespaceURI}
	if e.parent != nil {
		for _, n := range e.parent.nsNodes {
			ns := n.(*nsNode)
			scope[ns.prefix] = ns.uri
		}
	}
	for p, u := range e.ownNS {
		scope[p] = u
	}
	prefixes := make([]string, 0, len(scope))
	for p := range scope {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	nodes := make([]Node, 0, len(prefixes))
	for _, p := range prefixes {
		if scope[p] == "" && p != "" {
			continue // xmlns:foo="" undeclares foo
		}
		ns := &nsNode{tr: t, prefix: p, uri: scope[p], owner: e}
		ns.ord = t.next()
		nodes = append(nodes, ns)
	}
	e.nsNodes = nodes
}
