package schema

import (
	"strings"
)

// Statement is a single DDL statement of a script.
type Statement interface {
	// SQL renders the statement, including its terminating semicolon.
	SQL() string
}

// CreateTable creates a table.
type CreateTable struct {
	Name    string
	Columns []*Column
}

// SQL renders CREATE TABLE. A nullable column is followed by " , " and any
// other column by ", ".
func (s *CreateTable) SQL() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(s.Name)
	if len(s.Columns) == 0 {
		b.WriteString(" ( );")
		return b.String()
	}
	b.WriteString(" ( ")
	for i, c := range s.Columns {
		if i > 0 {
			if s.Columns[i-1].Nullable {
				b.WriteString(" , ")
			} else {
				b.WriteString(", ")
			}
		}
		b.WriteString(c.def())
	}
	b.WriteString(" );")
	return b.String()
}

// AddColumn adds a column to an existing table.
type AddColumn struct {
	Table  string
	Column *Column
}

// SQL renders ALTER TABLE ... ADD.
func (s *AddColumn) SQL() string {
	return "ALTER TABLE " + s.Table + " ADD " + s.Column.def() + ";"
}

// AddPrimaryKey declares the primary key of a table.
type AddPrimaryKey struct {
	Table   string
	Symbol  string
	Columns []string
}

// SQL renders ALTER TABLE ... ADD CONSTRAINT ... PRIMARY KEY.
func (s *AddPrimaryKey) SQL() string {
	return "ALTER TABLE " + s.Table + " ADD CONSTRAINT " + s.Symbol +
		" PRIMARY KEY (" + strings.Join(s.Columns, ", ") + ");"
}

// AddForeignKey declares a foreign key on a table.
type AddForeignKey struct {
	Table      string
	ForeignKey *ForeignKey
}

// SQL renders ALTER TABLE ... ADD CONSTRAINT ... FOREIGN KEY.
func (s *AddForeignKey) SQL() string {
	fk := s.ForeignKey
	var b strings.Builder
	b.WriteString("ALTER TABLE ")
	b.WriteString(s.Table)
	b.WriteString(" ADD CONSTRAINT ")
	b.WriteString(fk.Symbol)
	b.WriteString(" FOREIGN KEY (")
	b.WriteString(strings.Join(fk.Columns, ", "))
	b.WriteString(") REFERENCES ")
	b.WriteString(fk.RefTable)
	b.WriteString(" (")
	b.WriteString(strings.Join(fk.RefColumns, ", "))
	b.WriteString(")")
	if fk.OnDelete != NoAction {
		b.WriteString(" ON DELETE ")
		b.WriteString(string(fk.OnDelete))
	}
	if fk.Deferred {
		b.WriteString(" INITIALLY DEFERRED DEFERRABLE")
	}
	b.WriteString(";")
	return b.String()
}

// CreateView creates or replaces a view over an author supplied query.
type CreateView struct {
	Name  string
	Query string
}

// SQL renders CREATE OR REPLACE VIEW. The query is emitted verbatim.
func (s *CreateView) SQL() string {
	return "CREATE OR REPLACE VIEW " + s.Name + " AS (\n" + strings.TrimSpace(s.Query) + "\n);"
}
