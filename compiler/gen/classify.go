package gen

import (
	"fmt"

	"github.com/syssam/erddl"
	"github.com/syssam/erddl/graph"
)

// Classes partitions the nodes of a diagram by kind. Each slice keeps diagram
// order.
type Classes struct {
	Strong            []*graph.Node
	Weak              []*graph.Node
	Associative       []*graph.Node
	Attributes        []*graph.Node
	Keys              []*graph.Node
	PartialKeys       []*graph.Node
	Derived           []*graph.Node
	Multivalued       []*graph.Node
	Relationships     []*graph.Node
	WeakRelationships []*graph.Node
	Disjoint          []*graph.Node
	Overlap           []*graph.Node
}

// Classify partitions the diagram nodes. It fails on the first node with an
// unknown kind and on the first connection with an end missing from the
// diagram.
func Classify(d *graph.Diagram) (*Classes, error) {
	c := &Classes{}
	for _, n := range d.Nodes {
		switch n.Kind {
		case graph.StrongEntity:
			c.Strong = append(c.Strong, n)
		case graph.WeakEntity:
			c.Weak = append(c.Weak, n)
		case graph.AssociativeEntity:
			c.Associative = append(c.Associative, n)
		case graph.Attribute:
			c.Attributes = append(c.Attributes, n)
		case graph.KeyAttribute:
			c.Keys = append(c.Keys, n)
		case graph.PartialKeyAttribute:
			c.PartialKeys = append(c.PartialKeys, n)
		case graph.DerivedAttribute:
			c.Derived = append(c.Derived, n)
		case graph.MultivaluedAttribute:
			c.Multivalued = append(c.Multivalued, n)
		case graph.Relationship:
			c.Relationships = append(c.Relationships, n)
		case graph.WeakRelationship:
			c.WeakRelationships = append(c.WeakRelationships, n)
		case graph.GeneralizationDisjoint:
			c.Disjoint = append(c.Disjoint, n)
		case graph.GeneralizationOverlap:
			c.Overlap = append(c.Overlap, n)
		default:
			return nil, erddl.NewUnknownNodeKindError(n.ID, n.Kind.String())
		}
	}
	for _, conn := range d.Connections {
		for _, end := range [...]string{conn.A, conn.B} {
			if _, ok := d.Node(end); !ok {
				return nil, erddl.NewDanglingConnectionError(conn.ID, end)
			}
		}
		if !conn.Kind.Valid() {
			return nil, fmt.Errorf("gen: connection %q has invalid kind %s", conn.ID, conn.Kind)
		}
	}
	return c, nil
}

// Entities returns the nodes that become tables: strong, then weak, then
// associative entities.
func (c *Classes) Entities() []*graph.Node {
	ns := make([]*graph.Node, 0, len(c.Strong)+len(c.Weak)+len(c.Associative))
	ns = append(ns, c.Strong...)
	ns = append(ns, c.Weak...)
	return append(ns, c.Associative...)
}

// Generalizations returns the disjoint constructs followed by the overlapping
// ones.
func (c *Classes) Generalizations() []*graph.Node {
	ns := make([]*graph.Node, 0, len(c.Disjoint)+len(c.Overlap))
	ns = append(ns, c.Disjoint...)
	return append(ns, c.Overlap...)
}
