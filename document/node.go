// Package document is the external XML document model consumed by package
// xpath. It provides nodes, parent/child/sibling navigation, attribute
// enumeration, expanded-name access, and string-value extraction — the
// vocabulary an XPath 1.0 evaluator needs and nothing more.
package document

// Kind classifies a Node. Namespace nodes are not parsed from attributes;
// the Tree builder synthesizes each element's in-scope namespace nodes
// when the element is added or a namespace is declared on it (see
// Node.Namespaces).
type Kind uint8

const (
	RootKind Kind = iota
	ElementKind
	AttributeKind
	TextKind
	CommentKind
	ProcessingInstructionKind
	NamespaceKind
)

func (k Kind) String() string {
	switch k {
	case RootKind:
		return "root"
	case ElementKind:
		return "element"
	case AttributeKind:
		return "attribute"
	case TextKind:
		return "text"
	case CommentKind:
		return "comment"
	case ProcessingInstructionKind:
		return "processing-instruction"
	case NamespaceKind:
		return "namespace"
	default:
		return "unknown"
	}
}

// XMLNamespaceURI is the fixed URI bound to the "xml" prefix in every
// element's in-scope namespaces, per the XML Namespaces recommendation.
const XMLNamespaceURI = "http://www.w3.org/XML/1998/namespace"

// ExpandedName is the (namespace-URI, local-part) pair that identifies a
// qualified name. Equality compares both parts. An empty URI means no
// namespace; the type does not distinguish "no namespace" from "explicit
// empty namespace" (XPath 1.0 itself never distinguishes the two for name
// tests).
type ExpandedName struct {
	URI   string
	Local string
}

func (e ExpandedName) Equal(o ExpandedName) bool {
	return e.URI == o.URI && e.Local == o.Local
}

// Node is an opaque handle into a Tree. Implementations are value-identity
// comparable (==) so that node-set deduplication can use the handle itself
// as the identity key.
type Node interface {
	Kind() Kind

	// Parent returns the parent node, or nil for the root. Attribute and
	// namespace nodes report their owning element, though neither is
	// among that element's Children.
	Parent() Node

	// Children returns the node's children in document order. Only
	// element and root nodes have children.
	Children() []Node

	// PreviousSibling and NextSibling navigate the child list of Parent().
	PreviousSibling() Node
	NextSibling() Node

	// Attributes returns the element's attributes in document order.
	// Non-element nodes return nil.
	Attributes() []Node

	// Namespaces returns the namespace declarations in scope at this
	// node (accumulated from this element up through its ancestors,
	// nearest declaration wins, "xml" always present). Non-element nodes
	// return nil.
	Namespaces() []Node

	// Name is the expanded name of an element, attribute or
	// processing-instruction node (PI: Local is the target, URI is
	// always empty), or of a namespace node (Local is the prefix, URI is
	// empty). Other kinds return the zero ExpandedName.
	Name() ExpandedName

	// Prefix is the prefix given to the builder when the node was added
	// (AddElement, SetAttribute), or "". Decode does not record prefixes,
	// so nodes built from XML text always report "". Informational only;
	// XPath 1.0 name tests match against Name(), not Prefix().
	Prefix() string

	// StringValue computes the XPath 1.0 string-value of this node.
	StringValue() string

	// order is the node's position in document order, assigned once
	// when the owning Tree is built. Exported via DocumentOrder.
	order() int

	// tree identifies the owning Tree, used to guard cross-tree
	// comparisons (document order and identity are only meaningful
	// within one tree).
	tree() *Tree
}

// DocumentOrder reports a's position relative to b within their common
// Tree. It returns a negative number if a precedes b, zero if they are the
// same node, and a positive number if a follows b. Attributes and
// namespace nodes sort immediately after their owning element and before
// its children, matching the Glossary's "Document order" definition.
// Between an element's attribute and namespace nodes, the order is the
// order in which the builder numbered them: namespace nodes are numbered
// by AddElement and renumbered by each DeclareNamespace call.
func DocumentOrder(a, b Node) int {
	oa, ob := a.order(), b.order()
	switch {
	case oa < ob:
		return -1
	case oa > ob:
		return 1
	default:
		return 0
	}
}

// Order returns n's document-order index. Exposed for callers (such as
// package xpath's following/preceding axis implementation) that need to
// bucket nodes by order directly rather than compare pairs.
func Order(n Node) int { return n.order() }

// Same reports whether a and b are handles to the identical node. Node
// implementations are always pointers, so interface equality is identity
// equality.
func Same(a, b Node) bool {
	return a == b
}
