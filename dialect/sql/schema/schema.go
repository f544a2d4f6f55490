package schema

import "strings"

// Column is a table column.
type Column struct {
	Name string
	// Type is the declared SQL type. It may be empty for untyped attributes.
	Type     string
	Nullable bool
}

// def renders the column definition: name, type and NOT NULL.
func (c *Column) def() string {
	var b strings.Builder
	b.WriteString(c.Name)
	if c.Type != "" {
		b.WriteByte(' ')
		b.WriteString(c.Type)
	}
	if !c.Nullable {
		b.WriteString(" NOT NULL")
	}
	return b.String()
}

// ReferenceOption is the referential action of a foreign key.
type ReferenceOption string

// Referential actions.
const (
	NoAction ReferenceOption = ""
	Cascade  ReferenceOption = "CASCADE"
)

// ForeignKey is a foreign-key constraint.
type ForeignKey struct {
	Symbol     string
	Columns    []string
	RefTable   string
	RefColumns []string
	OnDelete   ReferenceOption
	// Deferred declares the constraint INITIALLY DEFERRED DEFERRABLE.
	Deferred bool
}

// Table is the relational view of a table after all statements of a script
// that touch it have been applied.
type Table struct {
	Name        string
	Columns     []*Column
	PrimaryKey  []string
	PKSymbol    string
	ForeignKeys []*ForeignKey

	// declared is set when a CREATE TABLE statement for the table exists.
	declared bool
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// HasPrimaryKey reports whether a primary key was declared on the table.
func (t *Table) HasPrimaryKey() bool {
	return len(t.PrimaryKey) > 0
}

// Declared reports whether the table is created by the script, rather than
// only altered by it.
func (t *Table) Declared() bool {
	return t.declared
}
