package gen

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/syssam/erddl/dialect/sql/schema"
	"github.com/syssam/erddl/graph"
)

// generalizations translates the ISA constructs, disjoint before overlapping.
// Constructs closer to the root of a hierarchy run first, so the inherited
// column of an intermediate superclass exists before its own subtypes
// reference it.
func (c *compiler) generalizations() {
	gens := c.classes.Generalizations()
	depth := make(map[*graph.Node]int, len(gens))
	for _, g := range gens {
		if s, _, ok := c.keys.Superclass(g); ok {
			depth[g] = c.keys.Depth(s)
		}
	}
	slices.SortStableFunc(gens, func(a, b *graph.Node) int {
		return cmp.Compare(depth[a], depth[b])
	})
	for _, g := range gens {
		c.generalization(g)
	}
}

// subtype is a subtype table of a generalization and the column holding the
// inherited key.
type subtype struct {
	table string
	col   string
}

func (c *compiler) generalization(g *graph.Node) {
	super, conn, ok := c.keys.Superclass(g)
	if !ok {
		c.emit.unsupported(g, "no superclass connected through a generalization line")
		return
	}
	k, ok := c.keys.InheritedKey(super)
	if !ok {
		c.emit.missing(super, "superclass key")
		return
	}
	nodes := c.keys.Subtypes(g)
	if len(nodes) == 0 {
		c.emit.unsupported(g, "no subtypes")
		return
	}
	inherited := k.ForeignName()
	subs := make([]subtype, 0, len(nodes))
	for _, n := range nodes {
		table := graph.TableName(n.Label)
		subs = append(subs, subtype{table: table, col: inherited})
		if c.emit.hasColumn(table, inherited) {
			continue
		}
		c.emit.addColumn(table, keyColumn(inherited, k))
		fk := reference(inherited, k)
		fk.OnDelete = schema.Cascade
		c.emit.foreignKey(table, fk)
		c.emit.primaryKey(table, inherited)
	}
	if !c.cfg.Triggers {
		return
	}
	total := conn.Kind.Total()
	if total {
		c.superclassTrigger(k, subs)
	}
	for i, s := range subs {
		siblings := slices.Delete(slices.Clone(subs), i, i+1)
		switch {
		case g.Kind == graph.GeneralizationDisjoint:
			c.disjointTrigger(k, s, siblings, total)
		case total:
			c.overlapTrigger(k, s, siblings)
		}
	}
}

// superclassTrigger requires every new superclass row to have at least one
// subtype row.
func (c *compiler) superclassTrigger(k ResolvedKey, subs []subtype) {
	t := &schema.Trigger{Name: "genspecTrigger_" + k.Table, Table: k.Table}
	counts, sum := siblingCounts(t, subs, schema.NewRef(k.Column))
	t.Branches = append(t.Branches, &schema.Branch{
		Event:  schema.Inserting,
		Checks: []*schema.Check{c.emit.check(sum+" < 1", fmt.Sprintf("%s requires at least one subtype row", k.Table), counts...)},
	})
	c.emit.trigger(t)
}

// disjointTrigger forbids a subtype row whose key is already used by a
// sibling subtype. Under total participation it also forbids removing or
// re-keying the subtype row while its superclass row exists.
func (c *compiler) disjointTrigger(k ResolvedKey, s subtype, siblings []subtype, total bool) {
	t := &schema.Trigger{Name: "genspecTrigger_" + s.table, Table: s.table, Autonomous: total}
	exclusive := func(bind string) *schema.Check {
		counts, sum := siblingCounts(t, siblings, bind)
		return c.emit.check(sum+" != 0", fmt.Sprintf("%s row already belongs to another subtype of %s", s.table, k.Table), counts...)
	}
	if len(siblings) > 0 {
		t.Branches = append(t.Branches, &schema.Branch{
			Event:  schema.Inserting,
			Checks: []*schema.Check{exclusive(schema.NewRef(s.col))},
		})
	}
	if total {
		x := t.NewVar()
		parent := func() *schema.Check {
			return c.emit.check(x+" != 0", fmt.Sprintf("%s row requires a subtype row", k.Table),
				&schema.Count{Var: x, Table: k.Table, Column: k.Column, Bind: schema.OldRef(s.col)})
		}
		t.Branches = append(t.Branches, &schema.Branch{
			Event:  schema.Deleting,
			Checks: []*schema.Check{parent()},
		})
		upd := &schema.Branch{
			Event:  schema.Updating,
			Guard:  schema.NewRef(s.col) + " != " + schema.OldRef(s.col),
			Checks: []*schema.Check{parent()},
		}
		if len(siblings) > 0 {
			upd.Checks = append(upd.Checks, exclusive(schema.NewRef(s.col)))
		}
		t.Branches = append(t.Branches, upd)
	}
	c.emit.trigger(t)
}

// overlapTrigger forbids deleting the last subtype row of a superclass row.
func (c *compiler) overlapTrigger(k ResolvedKey, s subtype, siblings []subtype) {
	t := &schema.Trigger{Name: "genspecTrigger_" + s.table, Table: s.table, Autonomous: true}
	x := t.NewVar()
	counts := []*schema.Count{{Var: x, Table: k.Table, Column: k.Column, Bind: schema.OldRef(s.col)}}
	cond := x + " != 0"
	if len(siblings) > 0 {
		more, sum := siblingCounts(t, siblings, schema.OldRef(s.col))
		counts = append(counts, more...)
		cond += " AND " + sum + " < 1"
	}
	t.Branches = append(t.Branches, &schema.Branch{
		Event:  schema.Deleting,
		Checks: []*schema.Check{c.emit.check(cond, fmt.Sprintf("%s row requires a subtype row", k.Table), counts...)},
	})
	c.emit.trigger(t)
}

// siblingCounts declares one counter per subtype table, counting the rows
// whose inherited key equals bind, and returns them with their sum.
func siblingCounts(t *schema.Trigger, subs []subtype, bind string) ([]*schema.Count, string) {
	counts := make([]*schema.Count, 0, len(subs))
	vars := make([]string, 0, len(subs))
	for _, s := range subs {
		v := t.NewVar()
		counts = append(counts, &schema.Count{Var: v, Table: s.table, Column: s.col, Bind: bind})
		vars = append(vars, v)
	}
	return counts, schema.Sum(vars...)
}
