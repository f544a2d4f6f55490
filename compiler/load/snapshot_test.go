package load

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/erddl"
	"github.com/syssam/erddl/compiler/gen"
	"github.com/syssam/erddl/graph"
)

func TestLoad(t *testing.T) {
	for _, name := range []string{"employee.json", "employee.yaml"} {
		t.Run(name, func(t *testing.T) {
			d, err := Load(filepath.Join("testdata", name))
			require.NoError(t, err)
			require.Len(t, d.Nodes, 7)
			require.Len(t, d.Connections, 6)

			emp, ok := d.Node("emp")
			require.True(t, ok)
			assert.Equal(t, graph.StrongEntity, emp.Kind)
			phone, ok := d.Node("phone")
			require.True(t, ok)
			assert.Equal(t, graph.MultivaluedAttribute, phone.Kind)
			assert.Equal(t, "VARCHAR(20)", phone.Type)
			assert.True(t, phone.Nullable)
			assert.Equal(t, graph.Plain, d.Connections[0].Kind)
			assert.Equal(t, graph.DoubleLineToMany, d.Connections[5].Kind)
		})
	}
}

func TestLoadCompile(t *testing.T) {
	d, err := Load(filepath.Join("testdata", "employee.yaml"))
	require.NoError(t, err)

	res, err := gen.Compile(context.Background(), d)
	require.NoError(t, err)
	out := res.String()
	assert.Contains(t, out, "CREATE TABLE EMPLOYEE ( name VARCHAR , emp_id NUMBER NOT NULL );")
	assert.Contains(t, out, "ALTER TABLE EMPLOYEE ADD dept_id-department NUMBER NOT NULL;")
	assert.Contains(t, out, "CREATE TABLE EMPLOYEE_PHONE ( emp_id NUMBER NOT NULL, pk-phone NUMBER NOT NULL, phone VARCHAR(20) );")
	assert.Empty(t, res.Warnings)
}

func TestLoadErrors(t *testing.T) {
	t.Run("unknown kind", func(t *testing.T) {
		_, err := Load(filepath.Join("testdata", "unknown.json"))
		require.Error(t, err)
		assert.True(t, erddl.IsUnknownNodeKind(err))
		var uk *erddl.UnknownNodeKindError
		require.ErrorAs(t, err, &uk)
		assert.Equal(t, "x", uk.Node)
		assert.Equal(t, "Blob", uk.Kind)
	})
	t.Run("unknown field", func(t *testing.T) {
		_, err := Load(filepath.Join("testdata", "extra.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "colour")
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join("testdata", "missing.json"))
		assert.True(t, erddl.IsIO(err))
	})
	t.Run("extension", func(t *testing.T) {
		_, err := Load(filepath.Join("testdata", "employee.txt"))
		require.Error(t, err)
		assert.False(t, erddl.IsIO(err))
	})
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.json", JSON},
		{"a.YAML", YAML},
		{"dir/a.yml", YAML},
		{"a.msgpack", MsgPack},
		{"a.mp", MsgPack},
	}
	for _, tt := range tests {
		f, err := FormatOf(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, f, tt.path)
	}
	_, err := FormatOf("a.xml")
	assert.Error(t, err)
}

func TestSnapshotDiagram(t *testing.T) {
	t.Run("connection ids", func(t *testing.T) {
		s := &Snapshot{
			Nodes:       []*NodeSpec{{ID: "a", Kind: "StrongEntity"}, {ID: "b", Kind: "Attribute"}},
			Connections: []*ConnSpec{{A: "a", B: "b"}},
		}
		d, err := s.Diagram()
		require.NoError(t, err)
		assert.Equal(t, "c1", d.Connections[0].ID)
	})
	t.Run("duplicate id", func(t *testing.T) {
		s := &Snapshot{Nodes: []*NodeSpec{{ID: "a", Kind: "StrongEntity"}, {ID: "a", Kind: "Attribute"}}}
		_, err := s.Diagram()
		assert.ErrorContains(t, err, "duplicate node id")
	})
	t.Run("missing id", func(t *testing.T) {
		s := &Snapshot{Nodes: []*NodeSpec{{Label: "A", Kind: "StrongEntity"}}}
		_, err := s.Diagram()
		assert.ErrorContains(t, err, "has no id")
	})
	t.Run("connection kind", func(t *testing.T) {
		s := &Snapshot{
			Nodes:       []*NodeSpec{{ID: "a", Kind: "StrongEntity"}},
			Connections: []*ConnSpec{{A: "a", B: "a", Kind: "zigzag"}},
		}
		_, err := s.Diagram()
		assert.ErrorContains(t, err, "zigzag")
	})
}

func TestSaveFormats(t *testing.T) {
	b := graph.NewBuilder()
	emp := b.Node(graph.StrongEntity, "Employee", graph.WithID("emp"))
	b.Attr(emp, graph.KeyAttribute, "emp_id", graph.WithID("k"), graph.WithType("NUMBER"))
	b.Attr(emp, graph.DerivedAttribute, "Age", graph.WithID("age"), graph.WithSQL("SELECT 1 FROM dual"))
	want := FromDiagram(b.Diagram())

	dir := t.TempDir()
	for _, name := range []string{"d.json", "d.yaml", "d.msgpack"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Save(path, b.Diagram()))
			d, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, want, FromDiagram(d))
		})
	}
}
