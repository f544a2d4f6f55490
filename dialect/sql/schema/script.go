package schema

import (
	"io"
	"regexp"
	"strings"
)

// Script is an ordered list of DDL statements.
type Script struct {
	// Header is emitted as "-- " comment lines before the first statement.
	Header     string
	Statements []Statement
}

// Add appends statements to the script.
func (s *Script) Add(stmts ...Statement) {
	s.Statements = append(s.Statements, stmts...)
}

// Len returns the number of statements.
func (s *Script) Len() int {
	return len(s.Statements)
}

// Commands returns the rendered statements, in order.
func (s *Script) Commands() []string {
	cmds := make([]string, 0, len(s.Statements))
	for _, st := range s.Statements {
		cmds = append(cmds, st.SQL())
	}
	return cmds
}

// String renders the script, one statement per line. Triggers and views
// span several lines.
func (s *Script) String() string {
	var b strings.Builder
	if s.Header != "" {
		for _, line := range strings.Split(strings.TrimRight(s.Header, "\n"), "\n") {
			b.WriteString("-- ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	for _, st := range s.Statements {
		b.WriteString(st.SQL())
		b.WriteString("\n")
	}
	return b.String()
}

// WriteTo implements io.WriterTo.
func (s *Script) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

// Tables replays the table statements of the script and returns the
// resulting tables in order of first appearance. A table that is altered
// but never created is returned with Declared() false.
func (s *Script) Tables() []*Table {
	var (
		tables []*Table
		byName = make(map[string]*Table)
	)
	get := func(name string) *Table {
		t, ok := byName[name]
		if !ok {
			t = &Table{Name: name}
			byName[name] = t
			tables = append(tables, t)
		}
		return t
	}
	for _, st := range s.Statements {
		switch st := st.(type) {
		case *CreateTable:
			t := get(st.Name)
			t.declared = true
			for _, c := range st.Columns {
				cc := *c
				t.Columns = append(t.Columns, &cc)
			}
		case *AddColumn:
			t := get(st.Table)
			cc := *st.Column
			t.Columns = append(t.Columns, &cc)
		case *AddPrimaryKey:
			t := get(st.Table)
			t.PrimaryKey = append([]string(nil), st.Columns...)
			t.PKSymbol = st.Symbol
		case *AddForeignKey:
			t := get(st.Table)
			fk := *st.ForeignKey
			t.ForeignKeys = append(t.ForeignKeys, &fk)
		}
	}
	return tables
}

// Triggers returns the triggers of the script, in order.
func (s *Script) Triggers() []*Trigger {
	var ts []*Trigger
	for _, st := range s.Statements {
		if t, ok := st.(*Trigger); ok {
			ts = append(ts, t)
		}
	}
	return ts
}

// Views returns the views of the script, in order.
func (s *Script) Views() []*CreateView {
	var vs []*CreateView
	for _, st := range s.Statements {
		if v, ok := st.(*CreateView); ok {
			vs = append(vs, v)
		}
	}
	return vs
}

var (
	// A separator run left before the closing parenthesis of a statement.
	danglingSep = regexp.MustCompile(`(?:\s*,)+(\s*\);)`)
	// "+" operators left before a comparison operator.
	danglingPlus = regexp.MustCompile(`(?:\+\s*)+(<=|>=|!=|<|>|=)`)
)

// Normalize cleans up script text assembled by concatenation: it drops
// separators left before a closing ");" and "+" operators left before a
// comparison, so "X0 + X1 + < 1" reads "X0 + X1 < 1". Normalize is
// idempotent, and the output of Script.String never needs it.
func Normalize(text string) string {
	text = danglingSep.ReplaceAllString(text, "$1")
	return danglingPlus.ReplaceAllString(text, "$1")
}
