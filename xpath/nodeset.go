package xpath

import (
	"sort"

	"github.com/gogo-agent/xpathway/document"
)

// NodeSet is an unordered collection of unique nodes (identity by node
// handle) that materializes in document order on demand. Per spec.md §9,
// this implementation keeps nodes in an unordered map and sorts lazily
// rather than maintaining order incrementally through every mutation.
type NodeSet struct {
	byIdentity map[document.Node]struct{}
	ordered    []document.Node // cached sort, invalidated by Add
	dirty      bool
}

// NewNodeSet builds a NodeSet from zero or more nodes, deduplicating by
// identity.
func NewNodeSet(nodes ...document.Node) *NodeSet {
	s := &NodeSet{byIdentity: make(map[document.Node]struct{}, len(nodes))}
	for _, n := range nodes {
		s.Add(n)
	}
	return s
}

// Add inserts n if it is not already present. Returns true if n was new.
func (s *NodeSet) Add(n document.Node) bool {
	if _, ok := s.byIdentity[n]; ok {
		return false
	}
	s.byIdentity[n] = struct{}{}
	s.dirty = true
	return true
}

// Len reports the number of unique nodes.
func (s *NodeSet) Len() int { return len(s.byIdentity) }

// Contains reports identity membership.
func (s *NodeSet) Contains(n document.Node) bool {
	_, ok := s.byIdentity[n]
	return ok
}

// Slice returns the set's nodes in document order. The slice is owned by
// the NodeSet; callers must not mutate it.
func (s *NodeSet) Slice() []document.Node {
	if s.dirty || s.ordered == nil {
		s.ordered = make([]document.Node, 0, len(s.byIdentity))
		for n := range s.byIdentity {
			s.ordered = append(s.ordered, n)
		}
		sort.Slice(s.ordered, func(i, j int) bool {
			return document.DocumentOrder(s.ordered[i], s.ordered[j]) < 0
		})
		s.dirty = false
	}
	return s.ordered
}

// First returns the first node in document order, or nil if empty.
func (s *NodeSet) First() document.Node {
	sl := s.Slice()
	if len(sl) == 0 {
		return nil
	}
	return sl[0]
}

// Union returns the set union of s and o, preserving the uniqueness
// invariant. Commutative and associative since it is ordinary set union
// over identity.
func (s *NodeSet) Union(o *NodeSet) *NodeSet {
	out := NewNodeSet()
	for n := range s.byIdentity {
		out.Add(n)
	}
	for n := range o.byIdentity {
		out.Add(n)
	}
	return out
}

type nodeSetValue struct{ set *NodeSet }

func (v nodeSetValue) Type() ValueType { return NodeSetType }
func (v nodeSetValue) NodeSet() *NodeSet { return v.set }

func (v nodeSetValue) Boolean() bool { return v.set.Len() > 0 }

// Number coerces via the node-set's string value: number(string(first
// node in document order)).
func (v nodeSetValue) Number() float64 { return stringToNumber(v.String()) }

// String is the string-value of the first node in document order, or ""
// if the set is empty.
func (v nodeSetValue) String() string {
	n := v.set.First()
	if n == nil {
		return ""
	}
	return n.StringValue()
}

// NewNodeSetValue wraps a NodeSet as a Value.
func NewNodeSetValue(s *NodeSet) Value { return nodeSetValue{set: s} }
