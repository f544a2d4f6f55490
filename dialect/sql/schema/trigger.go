package schema

import (
	"strconv"
	"strings"
)

// Trigger events, as tested inside a PL/SQL trigger body.
const (
	Inserting = "INSERTING"
	Deleting  = "DELETING"
	Updating  = "UPDATING"
)

// Trigger is a row-level AFTER INSERT OR DELETE OR UPDATE trigger whose body
// is a sequence of guarded checks, each raising an application error when
// its condition holds.
type Trigger struct {
	Name  string
	Table string
	// Autonomous runs the trigger body in an autonomous transaction, so it
	// can read the table it is attached to.
	Autonomous bool
	// Vars are the NUMBER variables declared by the trigger.
	Vars     []string
	Branches []*Branch
}

// Branch runs its checks when the trigger fires for Event and, if set, when
// Guard also holds.
type Branch struct {
	Event  string
	Guard  string
	Checks []*Check
}

// Check counts rows into variables and raises an application error with
// Code when Cond holds.
type Check struct {
	Counts  []*Count
	Cond    string
	Code    int
	Message string
}

// Count is SELECT COUNT(*) INTO Var FROM Table c WHERE c.Column = Bind.
type Count struct {
	Var    string
	Table  string
	Column string
	Bind   string
}

// NewVar declares the next counter variable of the trigger and returns its
// name.
func (t *Trigger) NewVar() string {
	v := "X" + strconv.Itoa(len(t.Vars))
	t.Vars = append(t.Vars, v)
	return v
}

// Codes returns the error codes raised by the trigger, in body order.
func (t *Trigger) Codes() []int {
	var codes []int
	for _, br := range t.Branches {
		for _, c := range br.Checks {
			codes = append(codes, c.Code)
		}
	}
	return codes
}

// SQL renders CREATE OR REPLACE TRIGGER.
func (t *Trigger) SQL() string {
	var b strings.Builder
	b.WriteString("CREATE OR REPLACE TRIGGER ")
	b.WriteString(t.Name)
	b.WriteString(" AFTER INSERT OR DELETE OR UPDATE ON ")
	b.WriteString(t.Table)
	b.WriteString("\nREFERENCING NEW AS n OLD AS o FOR EACH ROW\nDECLARE\n")
	if t.Autonomous {
		b.WriteString("\tPRAGMA AUTONOMOUS_TRANSACTION;\n")
	}
	for _, v := range t.Vars {
		b.WriteString("\t")
		b.WriteString(v)
		b.WriteString(" NUMBER;\n")
	}
	b.WriteString("BEGIN\n")
	if len(t.Branches) == 0 {
		b.WriteString("\tNULL;\n")
	}
	for _, br := range t.Branches {
		br.render(&b)
	}
	b.WriteString("END;")
	return b.String()
}

func (br *Branch) render(b *strings.Builder) {
	b.WriteString("\tIF ")
	b.WriteString(br.Event)
	if br.Guard != "" {
		b.WriteString(" AND (")
		b.WriteString(br.Guard)
		b.WriteString(")")
	}
	b.WriteString(" THEN\n")
	for _, c := range br.Checks {
		for _, n := range c.Counts {
			b.WriteString("\t\tSELECT COUNT(*) INTO ")
			b.WriteString(n.Var)
			b.WriteString(" FROM ")
			b.WriteString(n.Table)
			b.WriteString(" c WHERE c.")
			b.WriteString(n.Column)
			b.WriteString(" = ")
			b.WriteString(n.Bind)
			b.WriteString(";\n")
		}
		b.WriteString("\t\tIF (")
		b.WriteString(c.Cond)
		b.WriteString(") THEN\n\t\t\tRAISE_APPLICATION_ERROR(-")
		b.WriteString(strconv.Itoa(c.Code))
		b.WriteString(", '")
		b.WriteString(strings.ReplaceAll(c.Message, "'", "''"))
		b.WriteString("');\n\t\tEND IF;\n")
	}
	b.WriteString("\tEND IF;\n")
}

// Sum joins variables into an addition, "X0 + X1".
func Sum(vars ...string) string {
	return strings.Join(vars, " + ")
}

// NewRef returns the bind reference to a column of the new row, ":n.col".
func NewRef(col string) string { return ":n." + col }

// OldRef returns the bind reference to a column of the old row, ":o.col".
func OldRef(col string) string { return ":o." + col }
