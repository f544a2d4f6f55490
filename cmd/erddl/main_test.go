package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/erddl/compiler/load"
	"github.com/syssam/erddl/graph"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// workspace changes to an empty directory holding employee.json and
// department.yaml.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("ERDDL_DSN", "")

	b := graph.NewBuilder()
	emp := b.Node(graph.StrongEntity, "Employee")
	b.Attr(emp, graph.Attribute, "name", graph.WithType("VARCHAR"), graph.Nullable())
	b.Attr(emp, graph.KeyAttribute, "emp_id", graph.WithType("NUMBER"))
	require.NoError(t, load.Save("employee.json", b.Diagram()))

	b = graph.NewBuilder()
	dept := b.Node(graph.StrongEntity, "Department")
	b.Attr(dept, graph.KeyAttribute, "dept_id", graph.WithType("NUMBER"))
	keyless := b.Node(graph.StrongEntity, "Keyless")
	b.Attr(keyless, graph.Attribute, "note", graph.WithType("VARCHAR"), graph.Nullable())
	require.NoError(t, load.Save("department.yaml", b.Diagram()))
	return dir
}

func TestGen(t *testing.T) {
	workspace(t)

	out, err := run(t, "", "gen", "employee.json")
	require.NoError(t, err)
	assert.Equal(t,
		"CREATE TABLE EMPLOYEE ( name VARCHAR , emp_id NUMBER NOT NULL );\n"+
			"ALTER TABLE EMPLOYEE ADD CONSTRAINT PK_EMPLOYEE PRIMARY KEY (emp_id);\n",
		out,
	)
}

func TestGenSeveralFiles(t *testing.T) {
	workspace(t)

	out, err := run(t, "", "gen", "employee.json", "department.yaml", "--header", "hr")
	require.NoError(t, err)
	emp := strings.Index(out, "CREATE TABLE EMPLOYEE")
	dept := strings.Index(out, "CREATE TABLE DEPARTMENT")
	require.NotEqual(t, -1, emp)
	require.NotEqual(t, -1, dept)
	assert.Less(t, emp, dept)
	assert.Equal(t, 2, strings.Count(out, "-- hr\n"))
}

func TestGenSeveralFilesErrorCodes(t *testing.T) {
	workspace(t)
	for _, name := range []string{"a.json", "b.json"} {
		b := graph.NewBuilder()
		person := b.Node(graph.StrongEntity, "Person")
		b.Attr(person, graph.KeyAttribute, "pid", graph.WithType("NUMBER"))
		passport := b.Node(graph.StrongEntity, "Passport")
		b.Attr(passport, graph.KeyAttribute, "no", graph.WithType("NUMBER"))
		holds := b.Node(graph.Relationship, "Holds")
		b.Connect(person, holds, graph.DoubleLineToOne)
		b.Connect(holds, passport, graph.SingleLineToOne)
		require.NoError(t, load.Save(name, b.Diagram()))
	}

	out, err := run(t, "", "gen", "a.json", "b.json")
	require.NoError(t, err)
	for code := 20000; code <= 20007; code++ {
		assert.Equal(t, 1, strings.Count(out, fmt.Sprintf("RAISE_APPLICATION_ERROR(-%d,", code)), code)
	}
	assert.NotContains(t, out, "-20008")
}

func TestGenArtifacts(t *testing.T) {
	dir := workspace(t)

	out, err := run(t, "", "gen", "employee.json", "-o", "out/hr.sql", "--go-out", "out/model/hr.go", "--go-package", "model")
	require.NoError(t, err)
	assert.Empty(t, out)

	script, err := os.ReadFile(filepath.Join(dir, "out", "hr.sql"))
	require.NoError(t, err)
	assert.Contains(t, string(script), "PK_EMPLOYEE")
	src, err := os.ReadFile(filepath.Join(dir, "out", "model", "hr.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "package model")
	assert.Regexp(t, `EmployeeTable\s+=\s+"EMPLOYEE"`, string(src))
}

func TestGenFlagsOverrideConfig(t *testing.T) {
	workspace(t)
	require.NoError(t, os.WriteFile("erddl.yaml", []byte("dialect: db2\n"), 0o644))

	_, err := run(t, "", "gen", "employee.json")
	assert.ErrorContains(t, err, "dialect")

	require.NoError(t, os.WriteFile("erddl.yaml", []byte("header: from config\n"), 0o644))
	out, err := run(t, "", "gen", "employee.json", "--header", "from flag")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "-- from flag\n"))
}

func TestGenErrors(t *testing.T) {
	workspace(t)

	_, err := run(t, "", "gen", "missing.json")
	assert.Error(t, err)
	_, err = run(t, "", "gen", "employee.json", "--dialect", "db2")
	assert.Error(t, err)
	_, err = run(t, "", "gen")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	workspace(t)

	out, err := run(t, "", "validate", "employee.json", "department.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "employee.json: 2 statements, 0 skipped constructs")
	assert.Contains(t, out, "department.yaml: 3 statements, 1 skipped constructs")
	assert.Contains(t, out, "skipped: erddl: missing key for Keyless during primary keys")

	_, err = run(t, "", "validate", "--strict", "employee.json", "department.yaml")
	assert.ErrorContains(t, err, "1 of 2 snapshot(s) failed validation")
}

func TestApply(t *testing.T) {
	workspace(t)

	_, err := run(t, "", "apply", "employee.json", "--driver", "sqlite")
	assert.ErrorContains(t, err, "no DSN")

	_, err = run(t, "", "apply", "employee.json", "--driver", "oracle", "--dry-run")
	assert.Error(t, err)

	out, err := run(t, "", "apply", "employee.json", "--driver", "sqlite", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "CREATE TABLE")
	assert.Contains(t, out, "EMPLOYEE")
}

func TestNormalize(t *testing.T) {
	workspace(t)

	out, err := run(t, "IF (X0 + X1 + < 1) THEN\n", "normalize")
	require.NoError(t, err)
	assert.Equal(t, "IF (X0 + X1 < 1) THEN\n", out)

	require.NoError(t, os.WriteFile("in.sql", []byte("CREATE TABLE A (\n\tx NUMBER NOT NULL,\n);\n"), 0o644))
	_, err = run(t, "", "normalize", "in.sql", "-o", "clean.sql")
	require.NoError(t, err)
	data, err := os.ReadFile("clean.sql")
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE A (\n\tx NUMBER NOT NULL\n);\n", string(data))
}
