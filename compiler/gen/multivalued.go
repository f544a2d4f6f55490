package gen

import (
	"strconv"

	"github.com/syssam/erddl/dialect/sql/schema"
	"github.com/syssam/erddl/graph"
)

// multivalued creates a child table <OWNER>_<ATTR> per multivalued attribute.
// The table holds the owner key, a numeric surrogate key pk-<attr> and the
// value column; the surrogate is the primary key and the owner key references
// the owner table.
func (c *compiler) multivalued() {
	for _, m := range c.classes.Multivalued {
		owner, ok := c.owner(m)
		if !ok {
			c.emit.unsupported(m, "no owning entity")
			continue
		}
		keys, ok := c.ownerKeys(owner)
		if !ok {
			continue
		}
		table := graph.TableName(owner.Label) + "_" + graph.TableName(m.Label)
		for i := 2; c.emit.hasTable(table); i++ {
			table = graph.TableName(owner.Label) + "_" + graph.TableName(m.Label) + "_" + strconv.Itoa(i)
		}
		value := graph.ColumnName(m.Label)
		surrogate := "pk-" + value
		cols := make([]*schema.Column, 0, len(keys.cols)+2)
		cols = append(cols, keys.cols...)
		cols = append(cols,
			&schema.Column{Name: surrogate, Type: "NUMBER"},
			&schema.Column{Name: value, Type: m.Type, Nullable: m.Nullable},
		)
		c.emit.createTable(table, cols)
		c.emit.primaryKey(table, surrogate)
		c.emit.foreignKey(table, &schema.ForeignKey{
			Columns:    keys.fk,
			RefTable:   graph.TableName(owner.Label),
			RefColumns: keys.fk,
		})
	}
}

// ownerColumns are the columns a child table copies from its owner, and the
// subset, in owner key order, that references the owner.
type ownerColumns struct {
	cols []*schema.Column
	fk   []string
}

// ownerKeys returns the key columns of a strong, weak or associative owner.
// Missing keys are reported and yield false.
func (c *compiler) ownerKeys(owner *graph.Node) (ownerColumns, bool) {
	switch owner.Kind {
	case graph.WeakEntity:
		p, ok := c.keys.PartialKey(owner)
		if !ok {
			c.emit.missing(owner, "partial key")
			return ownerColumns{}, false
		}
		k, ok := c.keys.WeakOwnerKey(owner)
		if !ok {
			c.emit.missing(owner, "owner key")
			return ownerColumns{}, false
		}
		oc := k.ForeignName()
		return ownerColumns{
			cols: []*schema.Column{keyColumn(oc, k), keyColumn(p.Column, p)},
			fk:   []string{p.Column, oc},
		}, true
	case graph.AssociativeEntity:
		a, b, err := KeyPair(owner, c.keys.Participants(owner, nil))
		if err != nil {
			c.emit.warn(err)
			return ownerColumns{}, false
		}
		ca, cb := pairColumns(a, b, owner)
		return ownerColumns{
			cols: []*schema.Column{keyColumn(ca, a.Key), keyColumn(cb, b.Key)},
			fk:   []string{ca, cb},
		}, true
	default:
		k, ok := c.keys.InheritedKey(owner)
		if !ok {
			c.emit.missing(owner, "key")
			return ownerColumns{}, false
		}
		return ownerColumns{
			cols: []*schema.Column{keyColumn(k.Column, k)},
			fk:   []string{k.Column},
		}, true
	}
}

// owner returns the entity an attribute belongs to.
func (c *compiler) owner(attr *graph.Node) (*graph.Node, bool) {
	for _, n := range c.d.Neighbors(attr.ID) {
		if n.Kind.IsEntity() {
			return n, true
		}
	}
	return nil, false
}
