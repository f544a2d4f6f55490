package gen

import (
	"fmt"

	"github.com/syssam/erddl/dialect/sql/schema"
	"github.com/syssam/erddl/graph"
)

// associatives keys every associative entity by the pair of its participants:
// one NOT NULL column per participant key, a foreign key to each participant
// and a composite primary key.
func (c *compiler) associatives() {
	for _, ae := range c.classes.Associative {
		ps := c.keys.Participants(ae, nil)
		if len(ps) > 2 {
			c.emit.unsupported(ae, fmt.Sprintf("%d participants, only the first two are keyed", len(ps)))
		}
		a, b, err := KeyPair(ae, ps)
		if err != nil {
			c.emit.warn(err)
			continue
		}
		table := graph.TableName(ae.Label)
		ca, cb := pairColumns(a, b, ae)
		c.emit.addColumn(table, keyColumn(ca, a.Key))
		c.emit.addColumn(table, keyColumn(cb, b.Key))
		c.emit.foreignKey(table, reference(ca, a.Key))
		c.emit.foreignKey(table, reference(cb, b.Key))
		c.emit.primaryKey(table, ca, cb)
	}
}

// relationships translates every binary relationship by its cardinality:
// 1:1 and 1:N embed a foreign key, N:N gets a junction table.
func (c *compiler) relationships() {
	for _, r := range c.classes.Relationships {
		ps := c.keys.Participants(r, Cardinality)
		if len(ps) != 2 {
			c.emit.unsupported(r, fmt.Sprintf("%d participants, only binary relationships are translated", len(ps)))
			continue
		}
		a, b, err := KeyPair(r, ps)
		if err != nil {
			c.emit.warn(err)
			continue
		}
		switch am, bm := a.Conn.Kind.ToMany(), b.Conn.Kind.ToMany(); {
		case am && bm:
			c.manyToMany(r, a, b)
		case am:
			c.oneToMany(r, b, a)
		case bm:
			c.oneToMany(r, a, b)
		default:
			c.oneToOne(r, a, b)
		}
	}
}

// oneToMany adds to the table of the many side a column referencing the one
// side. The column is NOT NULL when the many side participates totally. When
// both sides are total the constraint is deferred and a trigger pair keeps
// every row of the one side referenced at least once.
func (c *compiler) oneToMany(r *graph.Node, one, many Participant) {
	table := many.Key.Table
	col := c.foreignColumn(table, one.Key, r)
	fk := keyColumn(col, one.Key)
	fk.Nullable = !many.Conn.Kind.Total()
	c.emit.addColumn(table, fk)
	both := one.Conn.Kind.Total() && many.Conn.Kind.Total()
	key := reference(col, one.Key)
	key.Deferred = both
	c.emit.foreignKey(table, key)
	c.attributes(r, table)
	if both && c.cfg.Triggers {
		c.covering(one, many, col)
	}
}

// covering emits relTrigger_<one> and relTrigger_<many> for a 1:N
// relationship total on both sides: a row of the one side cannot exist, be
// re-keyed or lose its last row of the many side without being referenced.
func (c *compiler) covering(one, many Participant, col string) {
	var (
		oneTable  = one.Key.Table
		manyTable = many.Key.Table
		key       = one.Key.Column
		required  = fmt.Sprintf("%s requires at least one %s", oneTable, manyTable)
		inUse     = fmt.Sprintf("%s is still referenced by %s", oneTable, manyTable)
	)
	ot := &schema.Trigger{Name: "relTrigger_" + oneTable, Table: oneTable, Autonomous: oneTable == manyTable}
	x := ot.NewVar()
	ot.Branches = append(ot.Branches,
		&schema.Branch{
			Event: schema.Inserting,
			Checks: []*schema.Check{c.emit.check(x+" = 0", required,
				&schema.Count{Var: x, Table: manyTable, Column: col, Bind: schema.NewRef(key)})},
		},
		&schema.Branch{
			Event: schema.Updating,
			Guard: schema.NewRef(key) + " != " + schema.OldRef(key),
			Checks: []*schema.Check{
				c.emit.check(x+" != 0", inUse,
					&schema.Count{Var: x, Table: manyTable, Column: col, Bind: schema.OldRef(key)}),
				c.emit.check(x+" = 0", required,
					&schema.Count{Var: x, Table: manyTable, Column: col, Bind: schema.NewRef(key)}),
			},
		},
		&schema.Branch{
			Event: schema.Deleting,
			Checks: []*schema.Check{c.emit.check(x+" != 0", inUse,
				&schema.Count{Var: x, Table: manyTable, Column: col, Bind: schema.OldRef(key)})},
		},
	)
	c.emit.trigger(ot)

	// The autonomous transaction still sees the row being removed.
	last := fmt.Sprintf("%s cannot lose its last %s", oneTable, manyTable)
	mt := &schema.Trigger{Name: "relTrigger_" + manyTable, Table: manyTable, Autonomous: true}
	y := mt.NewVar()
	mt.Branches = append(mt.Branches,
		&schema.Branch{
			Event: schema.Deleting,
			Checks: []*schema.Check{c.emit.check(y+" <= 1", last,
				&schema.Count{Var: y, Table: manyTable, Column: col, Bind: schema.OldRef(col)})},
		},
		&schema.Branch{
			Event: schema.Updating,
			Guard: schema.NewRef(col) + " != " + schema.OldRef(col),
			Checks: []*schema.Check{c.emit.check(y+" <= 1", last,
				&schema.Count{Var: y, Table: manyTable, Column: col, Bind: schema.OldRef(col)})},
		},
	)
	c.emit.trigger(mt)
}

// oneToOne embeds a foreign key in one side. The total side holds it, NOT
// NULL; with no total side the second participant holds a nullable one. When
// the column is NOT NULL a trigger pair keeps the pairing one to one, and
// when both sides are total the constraint is deferred so either row can be
// inserted first.
func (c *compiler) oneToOne(r *graph.Node, a, b Participant) {
	at, bt := a.Conn.Kind.Total(), b.Conn.Kind.Total()
	ref, holder := a, b
	if at && !bt {
		ref, holder = b, a
	}
	table := holder.Key.Table
	col := c.foreignColumn(table, ref.Key, r)
	fk := keyColumn(col, ref.Key)
	fk.Nullable = !at && !bt
	c.emit.addColumn(table, fk)
	key := reference(col, ref.Key)
	key.Deferred = at && bt
	c.emit.foreignKey(table, key)
	c.attributes(r, table)
	if !fk.Nullable && c.cfg.Triggers {
		c.bijection(ref, holder, col)
	}
}

// bijection emits relTrigger_<ref> on the referenced table and
// relTrigger_<holder> on the table holding column col.
func (c *compiler) bijection(ref, holder Participant, col string) {
	var (
		refTable  = ref.Key.Table
		holdTable = holder.Key.Table
		key       = ref.Key.Column
		total     = ref.Conn.Kind.Total()
	)
	rt := &schema.Trigger{Name: "relTrigger_" + refTable, Table: refTable, Autonomous: refTable == holdTable}
	if total {
		x := rt.NewVar()
		rt.Branches = append(rt.Branches, &schema.Branch{
			Event: schema.Inserting,
			Checks: []*schema.Check{c.emit.check(x+" != 1",
				fmt.Sprintf("%s requires exactly one %s", refTable, holdTable),
				&schema.Count{Var: x, Table: holdTable, Column: col, Bind: schema.NewRef(key)})},
		})
	}
	x := rt.NewVar()
	rt.Branches = append(rt.Branches,
		&schema.Branch{
			Event: schema.Deleting,
			Checks: []*schema.Check{c.emit.check(x+" != 0",
				fmt.Sprintf("%s is still referenced by %s", refTable, holdTable),
				&schema.Count{Var: x, Table: holdTable, Column: col, Bind: schema.OldRef(key)})},
		},
		&schema.Branch{
			Event: schema.Updating,
			Guard: schema.NewRef(key) + " != " + schema.OldRef(key),
			Checks: []*schema.Check{c.emit.check(x+" != 0",
				fmt.Sprintf("%s is still referenced by %s", refTable, holdTable),
				&schema.Count{Var: x, Table: holdTable, Column: col, Bind: schema.OldRef(key)})},
		},
	)
	c.emit.trigger(rt)

	ht := &schema.Trigger{Name: "relTrigger_" + holdTable, Table: holdTable, Autonomous: true}
	y := ht.NewVar()
	ht.Branches = append(ht.Branches,
		&schema.Branch{
			Event: schema.Inserting,
			Checks: []*schema.Check{c.emit.check(y+" != 0",
				fmt.Sprintf("%s already has a %s", refTable, holdTable),
				&schema.Count{Var: y, Table: holdTable, Column: col, Bind: schema.NewRef(col)})},
		},
		&schema.Branch{
			Event: schema.Updating,
			Guard: schema.NewRef(col) + " != " + schema.OldRef(col),
			Checks: []*schema.Check{c.emit.check(y+" != 0",
				fmt.Sprintf("%s already has a %s", refTable, holdTable),
				&schema.Count{Var: y, Table: holdTable, Column: col, Bind: schema.NewRef(col)})},
		},
	)
	if total {
		z := ht.NewVar()
		ht.Branches = append(ht.Branches, &schema.Branch{
			Event: schema.Deleting,
			Checks: []*schema.Check{c.emit.check(z+" != 0",
				fmt.Sprintf("%s requires exactly one %s", refTable, holdTable),
				&schema.Count{Var: z, Table: refTable, Column: key, Bind: schema.OldRef(col)})},
		})
	}
	c.emit.trigger(ht)
}

// manyToMany creates the junction table <A>_<B>. The relationship name is
// appended when the table already exists.
func (c *compiler) manyToMany(r *graph.Node, a, b Participant) {
	table := a.Table() + "_" + b.Table()
	if c.emit.hasTable(table) {
		table += "_" + graph.TableName(r.Label)
	}
	ca, cb := pairColumns(a, b, r)
	cols := append([]*schema.Column{keyColumn(ca, a.Key), keyColumn(cb, b.Key)}, c.columns(r)...)
	c.emit.createTable(table, cols)
	c.emit.primaryKey(table, ca, cb)
	c.emit.foreignKey(table, reference(ca, a.Key))
	c.emit.foreignKey(table, reference(cb, b.Key))
}

// attributes adds the stored attributes of a relationship to the table that
// embeds it.
func (c *compiler) attributes(r *graph.Node, table string) {
	for _, col := range c.columns(r) {
		c.emit.addColumn(table, col)
	}
}

// foreignColumn names the column carrying k into table. When the table
// already has a column of that name, the relationship name replaces the
// referenced table name.
func (c *compiler) foreignColumn(table string, k ResolvedKey, r *graph.Node) string {
	col := k.ForeignName()
	if c.emit.hasColumn(table, col) {
		col = graph.ForeignColumn(k.Column, graph.TableName(r.Label))
	}
	return col
}

// pairColumns names the key columns of two participants. A recursive pair
// would collide, so the second column is named after the relationship.
func pairColumns(a, b Participant, r *graph.Node) (string, string) {
	ca, cb := a.Key.ForeignName(), b.Key.ForeignName()
	if ca == cb {
		cb = graph.ForeignColumn(b.Key.Column, graph.TableName(r.Label))
	}
	return ca, cb
}

func reference(col string, k ResolvedKey) *schema.ForeignKey {
	return &schema.ForeignKey{
		Columns:    []string{col},
		RefTable:   k.Table,
		RefColumns: []string{k.Column},
	}
}
