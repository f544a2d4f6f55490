package gen

import (
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/syssam/erddl"
	"github.com/syssam/erddl/dialect/sql/schema"
	"github.com/syssam/erddl/graph"
)

// Allocator hands out application error codes. Codes increase by one per
// call, so every RAISE_APPLICATION_ERROR of a script has its own code.
type Allocator struct {
	base int
	next int
}

// NewAllocator returns an allocator whose first code is base.
func NewAllocator(base int) *Allocator {
	return &Allocator{base: base, next: base}
}

// Next returns the next code.
func (a *Allocator) Next() int {
	c := a.next
	a.next++
	return c
}

// Base returns the first code of the allocator.
func (a *Allocator) Base() int {
	return a.base
}

// Issued returns the number of codes handed out.
func (a *Allocator) Issued() int {
	return a.next - a.base
}

type tableInfo struct {
	declared bool
	columns  map[string]bool
	pk       bool
	fks      int
}

// emitter collects the statements of a compilation and keeps the generated
// names unique.
type emitter struct {
	script *schema.Script
	alloc  *Allocator
	log    *zap.Logger
	tables map[string]*tableInfo
	names  map[string]bool

	phase    Phase
	stmts    int
	warnings []error
	overflow bool
}

func newEmitter(cfg *Config) *emitter {
	return &emitter{
		script: &schema.Script{Header: cfg.Header},
		alloc:  NewAllocator(cfg.ErrorBase),
		log:    cfg.Logger,
		tables: make(map[string]*tableInfo),
		names:  make(map[string]bool),
	}
}

// begin starts counting statements and warnings for p.
func (e *emitter) begin(p Phase) {
	e.phase, e.stmts, e.warnings = p, 0, nil
}

func (e *emitter) report() PhaseReport {
	return PhaseReport{
		Phase:      e.phase,
		Message:    e.phase.Message(),
		Statements: e.stmts,
		Warnings:   e.warnings,
	}
}

func (e *emitter) add(st schema.Statement) {
	e.script.Add(st)
	e.stmts++
}

func (e *emitter) table(name string) *tableInfo {
	t, ok := e.tables[name]
	if !ok {
		t = &tableInfo{columns: make(map[string]bool)}
		e.tables[name] = t
	}
	return t
}

func (e *emitter) hasTable(name string) bool {
	t, ok := e.tables[name]
	return ok && t.declared
}

func (e *emitter) hasColumn(table, column string) bool {
	t, ok := e.tables[table]
	return ok && t.columns[column]
}

func (e *emitter) createTable(name string, cols []*schema.Column) {
	t := e.table(name)
	t.declared = true
	for _, c := range cols {
		t.columns[c.Name] = true
	}
	e.add(&schema.CreateTable{Name: name, Columns: cols})
}

func (e *emitter) addColumn(table string, col *schema.Column) {
	e.table(table).columns[col.Name] = true
	e.add(&schema.AddColumn{Table: table, Column: col})
}

// primaryKey declares PK_<table>. A table gets at most one primary key; later
// calls report false and emit nothing.
func (e *emitter) primaryKey(table string, cols ...string) bool {
	t := e.table(table)
	if t.pk {
		return false
	}
	t.pk = true
	e.add(&schema.AddPrimaryKey{Table: table, Symbol: "PK_" + table, Columns: cols})
	return true
}

// foreignKey declares the next foreign key of the table: FK_<table>, then
// FK2_<table>, FK3_<table> and so on.
func (e *emitter) foreignKey(table string, fk *schema.ForeignKey) {
	t := e.table(table)
	t.fks++
	if t.fks == 1 {
		fk.Symbol = "FK_" + table
	} else {
		fk.Symbol = "FK" + strconv.Itoa(t.fks) + "_" + table
	}
	e.add(&schema.AddForeignKey{Table: table, ForeignKey: fk})
}

// unique reserves a trigger or view name, suffixing "_2", "_3", ... when the
// name is taken.
func (e *emitter) unique(name string) string {
	n := name
	for i := 2; e.names[n]; i++ {
		n = name + "_" + strconv.Itoa(i)
	}
	e.names[n] = true
	return n
}

func (e *emitter) trigger(t *schema.Trigger) {
	if len(t.Branches) == 0 {
		return
	}
	t.Name = e.unique(t.Name)
	e.add(t)
}

// view emits VW_<OWNER>, or VW_<OWNER>_<ATTR> when the owner already has a
// view.
func (e *emitter) view(owner, attr, query string) {
	name := "VW_" + owner
	if e.names[name] {
		name += "_" + attr
	}
	e.add(&schema.CreateView{Name: e.unique(name), Query: query})
}

// check returns a check raising the next error code when cond holds.
func (e *emitter) check(cond, msg string, counts ...*schema.Count) *schema.Check {
	code := e.alloc.Next()
	if code > MaxErrorCode && !e.overflow {
		e.overflow = true
		e.warn(codeOverflow(code, e.alloc.Base()))
	}
	return &schema.Check{Counts: counts, Cond: cond, Code: code, Message: msg}
}

func codeOverflow(code, base int) error {
	return fmt.Errorf("gen: error code %d exceeds %d, the last application error code (codes start at %d)", code, MaxErrorCode, base)
}

// warn records a recoverable problem of the current phase.
func (e *emitter) warn(err error) {
	var (
		mk *erddl.MissingKeyError
		us *erddl.UnsupportedError
	)
	switch {
	case errors.As(err, &mk) && mk.Phase == "":
		mk.Phase = string(e.phase)
	case errors.As(err, &us) && us.Phase == "":
		us.Phase = string(e.phase)
	}
	e.warnings = append(e.warnings, err)
	e.log.Warn("construct skipped", zap.String("phase", string(e.phase)), zap.Error(err))
}

func (e *emitter) missing(entity *graph.Node, role string) {
	e.warn(erddl.NewMissingKeyError(string(e.phase), entity.Label, role))
}

func (e *emitter) unsupported(n *graph.Node, reason string) {
	e.warn(erddl.NewUnsupportedError(string(e.phase), n.Label, reason))
}
