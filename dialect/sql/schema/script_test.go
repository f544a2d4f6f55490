package schema

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleScript() *Script {
	s := &Script{}
	s.Add(
		&CreateTable{Name: "EMPLOYEE", Columns: []*Column{
			{Name: "name", Type: "VARCHAR", Nullable: true},
			{Name: "emp_id", Type: "NUMBER"},
		}},
		&AddPrimaryKey{Table: "EMPLOYEE", Symbol: "PK_EMPLOYEE", Columns: []string{"emp_id"}},
		&CreateTable{Name: "DEPENDENT", Columns: []*Column{{Name: "dname", Type: "VARCHAR"}}},
		&AddColumn{Table: "DEPENDENT", Column: &Column{Name: "emp_id-employee", Type: "NUMBER"}},
		&AddForeignKey{Table: "DEPENDENT", ForeignKey: &ForeignKey{
			Symbol: "FK_DEPENDENT", Columns: []string{"emp_id-employee"},
			RefTable: "EMPLOYEE", RefColumns: []string{"emp_id"},
		}},
		&AddPrimaryKey{Table: "DEPENDENT", Symbol: "PK_DEPENDENT", Columns: []string{"dname", "emp_id-employee"}},
		&CreateView{Name: "VW_EMPLOYEE", Query: "SELECT 1 FROM DUAL"},
	)
	return s
}

func TestScriptString(t *testing.T) {
	s := sampleScript()
	s.Header = "generated by erddl\ndo not edit"
	out := s.String()

	assert.True(t, strings.HasPrefix(out, "-- generated by erddl\n-- do not edit\n\nCREATE TABLE EMPLOYEE"))
	assert.True(t, strings.HasSuffix(out, "\n);\n"))
	assert.Equal(t, 7, s.Len())
	assert.Len(t, s.Commands(), 7)

	var buf bytes.Buffer
	n, err := s.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(out)), n)
	assert.Equal(t, out, buf.String())
}

func TestScriptTables(t *testing.T) {
	tables := sampleScript().Tables()
	require.Len(t, tables, 2)

	emp := tables[0]
	assert.Equal(t, "EMPLOYEE", emp.Name)
	assert.True(t, emp.Declared())
	assert.Equal(t, []string{"emp_id"}, emp.PrimaryKey)
	assert.Equal(t, "PK_EMPLOYEE", emp.PKSymbol)

	dep := tables[1]
	require.Len(t, dep.Columns, 2)
	assert.Equal(t, "emp_id-employee", dep.Columns[1].Name)
	require.Len(t, dep.ForeignKeys, 1)
	assert.Equal(t, "EMPLOYEE", dep.ForeignKeys[0].RefTable)
	assert.Equal(t, []string{"dname", "emp_id-employee"}, dep.PrimaryKey)

	c, ok := dep.Column("dname")
	require.True(t, ok)
	assert.False(t, c.Nullable)
	_, ok = dep.Column("missing")
	assert.False(t, ok)
}

func TestScriptTablesUndeclared(t *testing.T) {
	s := &Script{}
	s.Add(&AddColumn{Table: "GHOST", Column: &Column{Name: "x"}})
	tables := s.Tables()
	require.Len(t, tables, 1)
	assert.False(t, tables[0].Declared())
}

func TestScriptTriggersAndViews(t *testing.T) {
	s := sampleScript()
	s.Add(&Trigger{Name: "t1", Table: "EMPLOYEE"})
	assert.Len(t, s.Triggers(), 1)
	require.Len(t, s.Views(), 1)
	assert.Equal(t, "VW_EMPLOYEE", s.Views()[0].Name)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{
			name: "trailing separator",
			in:   "CREATE TABLE A(\n\tx NUMBER NOT NULL,\n);",
			want: "CREATE TABLE A(\n\tx NUMBER NOT NULL\n);",
		},
		{
			name: "spaced separator",
			in:   "CREATE TABLE A( x , );",
			want: "CREATE TABLE A( x );",
		},
		{
			name: "dangling plus before less",
			in:   "IF(X0 + X1 + < 1) THEN",
			want: "IF(X0 + X1 < 1) THEN",
		},
		{
			name: "dangling plus before not equal",
			in:   "IF(X0 +  != 0) THEN",
			want: "IF(X0 != 0) THEN",
		},
		{
			name: "clean text untouched",
			in:   "SELECT a + b FROM t WHERE c = 1;",
			want: "SELECT a + b FROM t WHERE c = 1;",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Normalize(got), "normalize must be idempotent")
		})
	}
}

func TestNormalizeScriptOutput(t *testing.T) {
	out := sampleScript().String()
	assert.Equal(t, out, Normalize(out))
}
