package gen

import (
	"github.com/syssam/erddl/dialect/sql/schema"
	"github.com/syssam/erddl/graph"
)

// tables creates one table per strong, weak and associative entity.
func (c *compiler) tables() {
	for _, n := range c.classes.Entities() {
		c.emit.createTable(graph.TableName(n.Label), c.columns(n))
	}
}

// columns returns the stored attributes of n in connection order.
func (c *compiler) columns(n *graph.Node) []*schema.Column {
	var cols []*schema.Column
	for _, p := range c.d.Peers(n.ID) {
		if p.Node.Kind.IsColumn() {
			cols = append(cols, column(p.Node))
		}
	}
	return cols
}

// column maps an attribute to its column. Key and partial key columns are
// never nullable.
func column(a *graph.Node) *schema.Column {
	return &schema.Column{
		Name:     a.Label,
		Type:     a.Type,
		Nullable: a.Nullable && a.Kind == graph.Attribute,
	}
}

// keyColumn returns a NOT NULL column of the key's type.
func keyColumn(name string, k ResolvedKey) *schema.Column {
	return &schema.Column{Name: name, Type: k.Type}
}

// primaryKeys declares the primary key of every strong entity with a key of
// its own. Subtypes without one get theirs from the generalization phase.
func (c *compiler) primaryKeys() {
	for _, n := range c.classes.Strong {
		k, ok := c.keys.OwnerKey(n)
		if !ok {
			if _, sub := c.keys.Parent(n); !sub {
				c.emit.missing(n, "key")
			}
			continue
		}
		c.emit.primaryKey(k.Table, k.Column)
	}
}

// partialKeys completes the key of every weak entity with the key of its
// owner: the owner key column, a foreign key to the owner, and the primary
// key (partial key, owner key).
func (c *compiler) partialKeys() {
	for _, w := range c.classes.Weak {
		p, ok := c.keys.PartialKey(w)
		if !ok {
			c.emit.missing(w, "partial key")
			continue
		}
		owner, ok := c.keys.WeakOwner(w)
		if !ok {
			c.emit.unsupported(w, "no owning strong entity through a weak relationship")
			continue
		}
		k, ok := c.keys.RootKey(owner)
		if !ok {
			c.emit.missing(owner, "owner key")
			continue
		}
		table := graph.TableName(w.Label)
		col := k.ForeignName()
		c.emit.addColumn(table, keyColumn(col, k))
		c.emit.foreignKey(table, &schema.ForeignKey{
			Columns:    []string{col},
			RefTable:   k.Table,
			RefColumns: []string{k.Column},
		})
		c.emit.primaryKey(table, p.Column, col)
	}
}
