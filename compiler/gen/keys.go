package gen

import (
	"fmt"

	"github.com/syssam/erddl"
	"github.com/syssam/erddl/graph"
)

// ResolvedKey is a key column located on the table that holds it.
type ResolvedKey struct {
	Table  string
	Column string
	Type   string
}

// ForeignName returns the name of the column that carries the key into
// another table, "<column>-<table lower-cased>".
func (k ResolvedKey) ForeignName() string {
	return graph.ForeignColumn(k.Column, k.Table)
}

// Participant is an entity taking part in a relationship, generalization or
// associative entity through Conn.
type Participant struct {
	Node *graph.Node
	Conn *graph.Connection
	// Key is the inherited key of Node. It is the zero value when HasKey is
	// false.
	Key    ResolvedKey
	HasKey bool
}

// Table returns the table of the participating entity.
func (p Participant) Table() string {
	return graph.TableName(p.Node.Label)
}

// Resolver locates keys by walking the connections of a diagram. It never
// modifies the diagram.
type Resolver struct {
	d *graph.Diagram
}

// NewResolver returns a resolver over d.
func NewResolver(d *graph.Diagram) *Resolver {
	return &Resolver{d: d}
}

// OwnerKey returns the key attribute declared on the entity.
func (r *Resolver) OwnerKey(entity *graph.Node) (ResolvedKey, bool) {
	return r.attribute(entity, graph.KeyAttribute)
}

// PartialKey returns the partial key attribute declared on a weak entity.
func (r *Resolver) PartialKey(weak *graph.Node) (ResolvedKey, bool) {
	return r.attribute(weak, graph.PartialKeyAttribute)
}

func (r *Resolver) attribute(entity *graph.Node, kind graph.Kind) (ResolvedKey, bool) {
	for _, p := range r.d.Peers(entity.ID) {
		if p.Node.Kind == kind {
			return ResolvedKey{
				Table:  graph.TableName(entity.Label),
				Column: p.Node.Label,
				Type:   p.Node.Type,
			}, true
		}
	}
	return ResolvedKey{}, false
}

// Superclass returns the superclass of a generalization and the connector
// that reaches it. Of the two ends of the connector, the one that is a
// strong entity is the superclass.
func (r *Resolver) Superclass(gen *graph.Node) (*graph.Node, *graph.Connection, bool) {
	for _, p := range r.d.Peers(gen.ID) {
		if p.Conn.Kind.IsSuperclass() && p.Node.Kind == graph.StrongEntity {
			return p.Node, p.Conn, true
		}
	}
	return nil, nil, false
}

// Subtypes returns the entities a generalization specializes into.
func (r *Resolver) Subtypes(gen *graph.Node) []*graph.Node {
	var subs []*graph.Node
	for _, p := range r.d.Peers(gen.ID) {
		if p.Conn.Kind == graph.GeneralizationToSubtype && p.Node.Kind.IsEntity() && p.Node != gen {
			subs = append(subs, p.Node)
		}
	}
	return subs
}

// Parent returns the generalization the entity is a subtype of.
func (r *Resolver) Parent(entity *graph.Node) (*graph.Node, bool) {
	for _, p := range r.d.Peers(entity.ID) {
		if p.Conn.Kind == graph.GeneralizationToSubtype && p.Node.Kind.IsGeneralization() {
			return p.Node, true
		}
	}
	return nil, false
}

// SuperclassKey returns the key of the superclass of a generalization, as
// held by the superclass table.
func (r *Resolver) SuperclassKey(gen *graph.Node) (ResolvedKey, bool) {
	s, _, ok := r.Superclass(gen)
	if !ok {
		return ResolvedKey{}, false
	}
	return r.InheritedKey(s)
}

// InheritedKey returns the key identifying rows of the entity's table: its
// own key, or for a subtype without one the superclass key re-homed onto the
// subtype as "<key>-<superclass>". Hierarchies are walked up to the root.
func (r *Resolver) InheritedKey(entity *graph.Node) (ResolvedKey, bool) {
	return r.inherited(entity, make(map[string]bool))
}

func (r *Resolver) inherited(entity *graph.Node, seen map[string]bool) (ResolvedKey, bool) {
	if k, ok := r.OwnerKey(entity); ok {
		return k, true
	}
	if seen[entity.ID] {
		return ResolvedKey{}, false
	}
	seen[entity.ID] = true
	s, ok := r.superOf(entity)
	if !ok {
		return ResolvedKey{}, false
	}
	k, ok := r.inherited(s, seen)
	if !ok {
		return ResolvedKey{}, false
	}
	return ResolvedKey{
		Table:  graph.TableName(entity.Label),
		Column: k.ForeignName(),
		Type:   k.Type,
	}, true
}

// RootKey returns the key of the root of the entity's hierarchy, held by the
// root table.
func (r *Resolver) RootKey(entity *graph.Node) (ResolvedKey, bool) {
	seen := make(map[string]bool)
	for !seen[entity.ID] {
		if k, ok := r.OwnerKey(entity); ok {
			return k, true
		}
		seen[entity.ID] = true
		s, ok := r.superOf(entity)
		if !ok {
			break
		}
		entity = s
	}
	return ResolvedKey{}, false
}

// Depth returns the number of generalizations above the entity.
func (r *Resolver) Depth(entity *graph.Node) int {
	seen := make(map[string]bool)
	depth := 0
	for !seen[entity.ID] {
		seen[entity.ID] = true
		s, ok := r.superOf(entity)
		if !ok {
			break
		}
		depth++
		entity = s
	}
	return depth
}

func (r *Resolver) superOf(entity *graph.Node) (*graph.Node, bool) {
	g, ok := r.Parent(entity)
	if !ok {
		return nil, false
	}
	s, _, ok := r.Superclass(g)
	return s, ok
}

// WeakOwner returns the strong entity owning a weak entity through a weak
// relationship.
func (r *Resolver) WeakOwner(weak *graph.Node) (*graph.Node, bool) {
	for _, p := range r.d.Peers(weak.ID) {
		if p.Node.Kind != graph.WeakRelationship {
			continue
		}
		for _, q := range r.d.Peers(p.Node.ID) {
			if q.Node != weak && q.Node.Kind == graph.StrongEntity {
				return q.Node, true
			}
		}
	}
	return nil, false
}

// WeakOwnerKey returns the key a weak entity borrows from its owner. It is the
// root key of the owner's hierarchy, since weak keys are resolved before any
// inherited column exists.
func (r *Resolver) WeakOwnerKey(weak *graph.Node) (ResolvedKey, bool) {
	o, ok := r.WeakOwner(weak)
	if !ok {
		return ResolvedKey{}, false
	}
	return r.RootKey(o)
}

// Participants returns the entities connected to n through a connection
// accepted by pred, one per connection, in diagram order. A recursive
// relationship yields the same entity twice.
func (r *Resolver) Participants(n *graph.Node, pred func(*graph.Connection) bool) []Participant {
	var ps []Participant
	for _, p := range r.d.Peers(n.ID) {
		if !p.Node.Kind.IsEntity() || p.Node == n || (pred != nil && !pred(p.Conn)) {
			continue
		}
		k, ok := r.InheritedKey(p.Node)
		ps = append(ps, Participant{Node: p.Node, Conn: p.Conn, Key: k, HasKey: ok})
	}
	return ps
}

// KeyPair returns the first two participants of n, both with resolved keys.
func KeyPair(n *graph.Node, ps []Participant) (a, b Participant, err error) {
	if len(ps) < 2 {
		return a, b, erddl.NewUnsupportedError("", n.Label, fmt.Sprintf("%d participant(s), want 2", len(ps)))
	}
	for _, p := range ps[:2] {
		if !p.HasKey {
			return a, b, erddl.NewMissingKeyError("", p.Node.Label, "key")
		}
	}
	return ps[0], ps[1], nil
}

// Cardinality reports whether a connection carries a 1 or N label.
func Cardinality(c *graph.Connection) bool {
	return c.Kind.IsCardinality()
}
