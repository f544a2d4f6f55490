package graph

import "sync"

// Node is a figure of the diagram: an entity, attribute, relationship or
// generalization construct.
type Node struct {
	ID    string
	Label string
	Kind  Kind
	// Type is the declared SQL type. Required for key, partial key and
	// multivalued attributes, optional for plain attributes.
	Type string
	// Nullable drops NOT NULL from the generated column.
	Nullable bool
	// SQL is the literal query of a derived attribute.
	SQL string
}

// String returns the node label.
func (n *Node) String() string { return n.Label }

// Connection links two nodes. Direction carries no meaning: consumers test
// both ends.
type Connection struct {
	ID   string
	A    string
	B    string
	Kind ConnKind
}

// Touches reports whether id is one of the connection ends.
func (c *Connection) Touches(id string) bool { return c.A == id || c.B == id }

// Other returns the far end of the connection seen from id. It returns the
// empty string when id is not an end.
func (c *Connection) Other(id string) string {
	switch id {
	case c.A:
		return c.B
	case c.B:
		return c.A
	}
	return ""
}

// Diagram is an ER diagram. It is read only while it is being compiled.
type Diagram struct {
	Nodes       []*Node
	Connections []*Connection

	once  sync.Once
	nodes map[string]*Node
	edges map[string][]*Connection
}

// New returns a diagram over the given nodes and connections.
func New(nodes []*Node, conns []*Connection) *Diagram {
	d := &Diagram{Nodes: nodes, Connections: conns}
	d.once.Do(d.index)
	return d
}

func (d *Diagram) index() {
	d.nodes = make(map[string]*Node, len(d.Nodes))
	d.edges = make(map[string][]*Connection, len(d.Nodes))
	for _, n := range d.Nodes {
		if _, ok := d.nodes[n.ID]; !ok {
			d.nodes[n.ID] = n
		}
	}
	for _, c := range d.Connections {
		d.edges[c.A] = append(d.edges[c.A], c)
		if c.B != c.A {
			d.edges[c.B] = append(d.edges[c.B], c)
		}
	}
}

// Node returns the node with the given id.
func (d *Diagram) Node(id string) (*Node, bool) {
	d.once.Do(d.index)
	n, ok := d.nodes[id]
	return n, ok
}

// Edges returns the connections touching the node, in diagram order.
func (d *Diagram) Edges(id string) []*Connection {
	d.once.Do(d.index)
	return d.edges[id]
}

// Neighbors returns the nodes across the connections of id, in diagram order.
// Ends that are missing from the diagram are skipped.
func (d *Diagram) Neighbors(id string) []*Node {
	var ns []*Node
	for _, c := range d.Edges(id) {
		if n, ok := d.Node(c.Other(id)); ok {
			ns = append(ns, n)
		}
	}
	return ns
}

// Peer is a neighbor together with the connection that reaches it.
type Peer struct {
	Node *Node
	Conn *Connection
}

// Peers returns the neighbors of id paired with their connections, in
// diagram order.
func (d *Diagram) Peers(id string) []Peer {
	var ps []Peer
	for _, c := range d.Edges(id) {
		if n, ok := d.Node(c.Other(id)); ok {
			ps = append(ps, Peer{Node: n, Conn: c})
		}
	}
	return ps
}
