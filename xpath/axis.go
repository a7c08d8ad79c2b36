package xpath

import "github.com/gogo-agent/xpathway/document"

// Axis names a direction of traversal from a context node. This file is
// the node abstraction adapter (spec.md §4.1): the sole place package
// xpath reaches into package document's navigation vocabulary.
type Axis uint8

const (
	AxisChild Axis = iota
	AxisDescendant
	AxisParent
	AxisAncestor
	AxisFollowingSibling
	AxisPrecedingSibling
	AxisFollowing
	AxisPreceding
	AxisAttribute
	AxisNamespace
	AxisSelf
	AxisDescendantOrSelf
	AxisAncestorOrSelf
)

func (a Axis) String() string {
	switch a {
	case AxisChild:
		return "child"
	case AxisDescendant:
		return "descendant"
	case AxisParent:
		return "parent"
	case AxisAncestor:
		return "ancestor"
	case AxisFollowingSibling:
		return "following-sibling"
	case AxisPrecedingSibling:
		return "preceding-sibling"
	case AxisFollowing:
		return "following"
	case AxisPreceding:
		return "preceding"
	case AxisAttribute:
		return "attribute"
	case AxisNamespace:
		return "namespace"
	case AxisSelf:
		return "self"
	case AxisDescendantOrSelf:
		return "descendant-or-self"
	case AxisAncestorOrSelf:
		return "ancestor-or-self"
	default:
		return "unknown"
	}
}

// IsReverse reports whether the axis visits nodes in reverse document
// order (spec.md §4.1): parent, ancestor, ancestor-or-self,
// preceding-sibling, preceding.
func (a Axis) IsReverse() bool {
	switch a {
	case AxisParent, AxisAncestor, AxisAncestorOrSelf, AxisPrecedingSibling, AxisPreceding:
		return true
	default:
		return false
	}
}

// axisNodes returns the nodes reachable from ctx along axis, in the
// axis's natural order (forward axes: document order; reverse axes:
// reverse document order).
func axisNodes(axis Axis, ctx document.Node) []document.Node {
	switch axis {
	case AxisSelf:
		return []document.Node{ctx}
	case AxisChild:
		return append([]document.Node(nil), ctx.Children()...)
	case AxisAttribute:
		return append([]document.Node(nil), ctx.Attributes()...)
	case AxisNamespace:
		return append([]document.Node(nil), ctx.Namespaces()...)
	case AxisParent:
		if p := ctx.Parent(); p != nil {
			return []document.Node{p}
		}
		return nil
	case AxisDescendant:
		var out []document.Node
		collectDescendants(ctx, false, &out)
		return out
	case AxisDescendantOrSelf:
		var out []document.Node
		collectDescendants(ctx, true, &out)
		return out
	case AxisAncestor:
		var out []document.Node
		for p := ctx.Parent(); p != nil; p = p.Parent() {
			out = append(out, p)
		}
		return out
	case AxisAncestorOrSelf:
		out := []document.Node{ctx}
		for p := ctx.Parent(); p != nil; p = p.Parent() {
			out = append(out, p)
		}
		return out
	case AxisFollowingSibling:
		var out []document.Node
		for s := ctx.NextSibling(); s != nil; s = s.NextSibling() {
			out = append(out, s)
		}
		return out
	case AxisPrecedingSibling:
		var out []document.Node
		for s := ctx.PreviousSibling(); s != nil; s = s.PreviousSibling() {
			out = append(out, s)
		}
		return out
	case AxisFollowing:
		return followingNodes(ctx)
	case AxisPreceding:
		return precedingNodes(ctx)
	default:
		return nil
	}
}

func collectDescendants(n document.Node, includeSelf bool, out *[]document.Node) {
	if includeSelf {
		*out = append(*out, n)
	}
	for _, c := range n.Children() {
		*out = append(*out, c)
		collectDescendants(c, false, out)
	}
}

// contentNodes returns every root/element/text/comment/PI node reachable
// from root, in document order. Attribute and namespace nodes are never
// part of this walk, which is why neither following nor preceding (built
// on it below) ever yields one, matching XPath 1.0.
func contentNodes(root document.Node) []document.Node {
	out := []document.Node{root}
	collectDescendants(root, false, &out)
	return out
}

// subtreeMaxOrder returns the largest document-order index among ctx and
// its descendants; every content node that follows ctx (including its
// subtree) has an order strictly greater than this value, and every node
// that precedes ctx or is one of its ancestors has an order strictly
// smaller than ctx's own order.
func subtreeMaxOrder(ctx document.Node) int {
	max := document.Order(ctx)
	for _, c := range ctx.Children() {
		if m := subtreeMaxOrder(c); m > max {
			max = m
		}
	}
	return max
}

// followingNodes collects every node that follows ctx in document order,
// excluding ctx's own descendants and ancestors, per the XPath 1.0
// definition of the following axis.
func followingNodes(ctx document.Node) []document.Node {
	threshold := subtreeMaxOrder(ctx)
	var out []document.Node
	for _, n := range contentNodes(documentRoot(ctx)) {
		if document.Order(n) > threshold {
			out = append(out, n)
		}
	}
	return out
}

// precedingNodes collects every node that precedes ctx in document order
// (returned in reverse document order), excluding ctx's ancestors.
func precedingNodes(ctx document.Node) []document.Node {
	ancestor := map[document.Node]bool{}
	for p := ctx.Parent(); p != nil; p = p.Parent() {
		ancestor[p] = true
	}
	self := document.Order(ctx)
	all := contentNodes(documentRoot(ctx))
	var out []document.Node
	for i := len(all) - 1; i >= 0; i-- {
		n := all[i]
		if document.Order(n) < self && !ancestor[n] {
			out = append(out, n)
		}
	}
	return out
}

func documentRoot(n document.Node) document.Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		n = p
	}
	return n
}
