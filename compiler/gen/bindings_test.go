package gen

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/erddl/dialect/sql/schema"
	"github.com/syssam/erddl/graph"
)

func TestGoBindings(t *testing.T) {
	b, emp := employee()
	b.Attr(emp, graph.MultivaluedAttribute, "Phone", graph.WithType("VARCHAR(20)"))
	res := compile(t, b.Diagram())

	out, err := GoBindings("hr", res.Script)
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, "// Code generated by erddl. DO NOT EDIT.")
	assert.Contains(t, src, "package hr")
	for _, re := range []string{
		`EmployeeTable\s+=\s+"EMPLOYEE"`,
		`EmployeeNameColumn\s+=\s+"name"`,
		`EmployeeEmpIdColumn\s+=\s+"emp_id"`,
		`EmployeePhoneTable\s+=\s+"EMPLOYEE_PHONE"`,
		`EmployeePhonePkPhoneColumn\s+=\s+"pk-phone"`,
		`var EmployeeColumns = \[\]string\{EmployeeNameColumn, EmployeeEmpIdColumn\}`,
	} {
		assert.Regexp(t, regexp.MustCompile(re), src)
	}
}

func TestGoBindingsAlteredColumns(t *testing.T) {
	b, _ := weakDependent()
	res := compile(t, b.Diagram())

	out, err := GoBindings("hr", res.Script)
	require.NoError(t, err)
	assert.Regexp(t, `DependentEmpIdEmployeeColumn\s+=\s+"emp_id-employee"`, string(out))
}

func TestGoBindingsInvalidPackage(t *testing.T) {
	for _, pkg := range []string{"", "1hr", "hr-model", "a.b"} {
		_, err := GoBindings(pkg, &schema.Script{})
		assert.True(t, IsConfigError(err), pkg)
	}
}

func TestGoName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"EMPLOYEE", "Employee"},
		{"EMPLOYEE_PHONE", "EmployeePhone"},
		{"emp_id", "EmpId"},
		{"pk-phone", "PkPhone"},
		{"emp_id-employee", "EmpIdEmployee"},
		{"1st", "T1st"},
		{"", "T"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, goName(tt.in))
		})
	}
}
