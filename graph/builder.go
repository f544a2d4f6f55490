package graph

import "github.com/google/uuid"

// NodeOption configures a node created by a Builder.
type NodeOption func(*Node)

// WithID sets the node id instead of a generated one.
func WithID(id string) NodeOption {
	return func(n *Node) { n.ID = id }
}

// WithType sets the declared SQL type.
func WithType(t string) NodeOption {
	return func(n *Node) { n.Type = t }
}

// WithSQL sets the query of a derived attribute.
func WithSQL(sql string) NodeOption {
	return func(n *Node) { n.SQL = sql }
}

// Nullable marks an attribute as nullable.
func Nullable() NodeOption {
	return func(n *Node) { n.Nullable = true }
}

// Builder assembles diagrams in code.
//
//	b := graph.NewBuilder()
//	emp := b.Node(graph.StrongEntity, "Employee")
//	b.Attr(emp, graph.KeyAttribute, "emp_id", graph.WithType("NUMBER"))
//	d := b.Diagram()
type Builder struct {
	nodes []*Node
	conns []*Connection
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Node adds a node. Its id is a random UUID unless WithID is given.
func (b *Builder) Node(kind Kind, label string, opts ...NodeOption) *Node {
	n := &Node{Kind: kind, Label: label}
	for _, opt := range opts {
		opt(n)
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	b.nodes = append(b.nodes, n)
	return n
}

// Connect links two nodes.
func (b *Builder) Connect(a, z *Node, kind ConnKind) *Connection {
	c := &Connection{ID: uuid.NewString(), A: a.ID, B: z.ID, Kind: kind}
	b.conns = append(b.conns, c)
	return c
}

// Attr adds an attribute node of the given kind and connects it to owner
// with a plain connection.
func (b *Builder) Attr(owner *Node, kind Kind, label string, opts ...NodeOption) *Node {
	n := b.Node(kind, label, opts...)
	b.Connect(owner, n, Plain)
	return n
}

// Diagram returns the diagram built so far.
func (b *Builder) Diagram() *Diagram {
	nodes := make([]*Node, len(b.nodes))
	copy(nodes, b.nodes)
	conns := make([]*Connection, len(b.conns))
	copy(conns, b.conns)
	return New(nodes, conns)
}
