package gen

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"
	"golang.org/x/tools/imports"

	"github.com/syssam/erddl/dialect/sql/schema"
)

// GoBindings renders a Go file of package pkg naming every table of the
// script and its columns:
//
//	const (
//		EmployeeTable       = "EMPLOYEE"
//		EmployeeEmpIdColumn = "emp_id"
//	)
//
//	var EmployeeColumns = []string{EmployeeEmpIdColumn}
func GoBindings(pkg string, s *schema.Script) ([]byte, error) {
	if !isIdent(pkg) {
		return nil, NewConfigError("GoPackage", pkg, "not a valid package name")
	}
	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by erddl. DO NOT EDIT.")
	for _, t := range s.Tables() {
		name := goName(t.Name)
		defs := []jen.Code{jen.Id(name + "Table").Op("=").Lit(t.Name)}
		cols := make([]jen.Code, 0, len(t.Columns))
		seen := make(map[string]bool, len(t.Columns))
		for _, c := range t.Columns {
			id := name + goName(c.Name) + "Column"
			if seen[id] {
				continue
			}
			seen[id] = true
			defs = append(defs, jen.Id(id).Op("=").Lit(c.Name))
			cols = append(cols, jen.Id(id))
		}
		f.Commentf("Table %s.", t.Name)
		f.Const().Defs(defs...)
		f.Commentf("%sColumns holds the columns of %s, in table order.", name, t.Name)
		f.Var().Id(name + "Columns").Op("=").Index().String().Values(cols...)
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("gen: render bindings: %w", err)
	}
	out, err := imports.Process(pkg+".go", buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("gen: format bindings: %w", err)
	}
	return out, nil
}

// goName returns the exported Go name of a table or column identifier:
// EMPLOYEE_PHONE becomes EmployeePhone and pk-phone becomes PkPhone.
func goName(ident string) string {
	name := inflect.Camelize(strings.ToLower(ident))
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	name = b.String()
	if name == "" || !unicode.IsUpper([]rune(name)[0]) {
		name = "T" + name
	}
	return name
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if !unicode.IsLetter(r) && r != '_' && (i == 0 || !unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}
