package schema

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	atlas "ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/erddl/dialect"
)

// Plan converts tables to an atlas schema and plans their creation with the
// atlas planner of the given dialect. It returns one command per change.
// Triggers and views are not part of the plan.
func Plan(ctx context.Context, name string, tables []*Table) ([]string, error) {
	var pa migrate.PlanApplier
	switch name {
	case dialect.MySQL:
		pa = mysql.DefaultPlan
	case dialect.Postgres:
		pa = postgres.DefaultPlan
	case dialect.SQLite:
		pa = sqlite.DefaultPlan
	default:
		return nil, fmt.Errorf("dialect/sql/schema: no planner for dialect %q", name)
	}
	s, err := Convert(name, tables)
	if err != nil {
		return nil, err
	}
	changes := make([]atlas.Change, 0, len(s.Tables))
	for _, t := range s.Tables {
		changes = append(changes, &atlas.AddTable{T: t})
	}
	plan, err := pa.PlanChanges(ctx, "erddl", changes)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql/schema: plan %s: %w", name, err)
	}
	cmds := make([]string, 0, len(plan.Changes))
	for _, c := range plan.Changes {
		cmds = append(cmds, c.Cmd)
	}
	return cmds, nil
}

// Convert builds the atlas schema of the tables. Column types are mapped
// from their declared Oracle types to the closest type of the dialect.
func Convert(name string, tables []*Table) (*atlas.Schema, error) {
	s := atlas.New("main")
	byName := make(map[string]*atlas.Table, len(tables))
	for _, t := range tables {
		at := atlas.NewTable(t.Name)
		for _, c := range t.Columns {
			at.AddColumns(atlas.NewColumn(c.Name).SetType(atlasType(name, c.Type)).SetNull(c.Nullable))
		}
		if t.HasPrimaryKey() {
			cols, err := columns(at, t.PrimaryKey)
			if err != nil {
				return nil, err
			}
			at.SetPrimaryKey(atlas.NewPrimaryKey(cols...))
		}
		s.AddTables(at)
		byName[t.Name] = at
	}
	for _, t := range tables {
		at := byName[t.Name]
		for _, fk := range t.ForeignKeys {
			ref, ok := byName[fk.RefTable]
			if !ok {
				return nil, fmt.Errorf("dialect/sql/schema: foreign key %s references unknown table %q", fk.Symbol, fk.RefTable)
			}
			cols, err := columns(at, fk.Columns)
			if err != nil {
				return nil, err
			}
			refs, err := columns(ref, fk.RefColumns)
			if err != nil {
				return nil, err
			}
			afk := atlas.NewForeignKey(fk.Symbol).
				AddColumns(cols...).
				SetRefTable(ref).
				AddRefColumns(refs...)
			if fk.OnDelete == Cascade {
				afk.SetOnDelete(atlas.Cascade)
			}
			at.AddForeignKeys(afk)
		}
	}
	return s, nil
}

func columns(t *atlas.Table, names []string) ([]*atlas.Column, error) {
	cols := make([]*atlas.Column, 0, len(names))
	for _, n := range names {
		c, ok := t.Column(n)
		if !ok {
			return nil, fmt.Errorf("dialect/sql/schema: table %s has no column %q", t.Name, n)
		}
		cols = append(cols, c)
	}
	return cols, nil
}

var typeRe = regexp.MustCompile(`^([A-Z_0-9 ]+?)\s*(?:\(\s*(\d+)\s*(?:,\s*(\d+)\s*)?\))?$`)

// atlasType maps a declared Oracle type to an atlas type for the dialect.
// Untyped and unrecognized columns become text.
func atlasType(name, typ string) atlas.Type {
	m := typeRe.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(typ)))
	if m == nil {
		return text()
	}
	base := m[1]
	size, _ := strconv.Atoi(m[2])
	scale, _ := strconv.Atoi(m[3])
	switch base {
	case "NUMBER", "NUMERIC", "DECIMAL":
		if scale > 0 {
			t := "decimal"
			if name == dialect.Postgres || name == dialect.SQLite {
				t = "numeric"
			}
			return &atlas.DecimalType{T: t, Precision: size, Scale: scale}
		}
		return integer(name, "bigint")
	case "INT", "INTEGER", "SMALLINT":
		return integer(name, "integer")
	case "VARCHAR", "VARCHAR2", "NVARCHAR2", "CHAR", "NCHAR", "CHARACTER VARYING":
		if name == dialect.SQLite {
			return text()
		}
		if size == 0 {
			size = 255
		}
		return &atlas.StringType{T: "varchar", Size: size}
	case "DATE":
		return &atlas.TimeType{T: "date"}
	case "TIMESTAMP":
		if name == dialect.SQLite {
			return &atlas.TimeType{T: "datetime"}
		}
		return &atlas.TimeType{T: "timestamp"}
	case "FLOAT", "BINARY_FLOAT", "BINARY_DOUBLE", "REAL":
		switch name {
		case dialect.Postgres:
			return &atlas.FloatType{T: "double precision"}
		case dialect.SQLite:
			return &atlas.FloatType{T: "real"}
		}
		return &atlas.FloatType{T: "double"}
	case "BLOB", "RAW":
		if name == dialect.Postgres {
			return &atlas.BinaryType{T: "bytea"}
		}
		return &atlas.BinaryType{T: "blob"}
	case "BOOLEAN":
		return &atlas.BoolType{T: "boolean"}
	}
	return text()
}

func integer(name, t string) atlas.Type {
	switch {
	case name == dialect.SQLite:
		t = "integer"
	case name == dialect.MySQL && t == "integer":
		t = "int"
	}
	return &atlas.IntegerType{T: t}
}

func text() atlas.Type {
	return &atlas.StringType{T: "text"}
}
