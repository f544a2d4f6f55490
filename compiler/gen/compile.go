package gen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/syssam/erddl"
	"github.com/syssam/erddl/dialect"
	"github.com/syssam/erddl/dialect/sql/schema"
	"github.com/syssam/erddl/graph"
)

// Phase is a pass of the compiler.
type Phase string

// Compiler phases, in execution order.
const (
	PhaseTables         Phase = "tables"
	PhasePrimaryKeys    Phase = "primary keys"
	PhasePartialKeys    Phase = "partial keys"
	PhaseAssociative    Phase = "associative entities"
	PhaseGeneralization Phase = "generalization"
	PhaseRelationships  Phase = "relationships"
	PhaseMultivalued    Phase = "multivalued attributes"
	PhaseDerived        Phase = "derived attributes"
)

// PhaseClassify is reported on errors raised before any statement is built.
const PhaseClassify Phase = "classify"

var phaseMessages = map[Phase]string{
	PhaseTables:         "Tables Created",
	PhasePrimaryKeys:    "Primary Key Created",
	PhasePartialKeys:    "Partial Key Created",
	PhaseAssociative:    "Entity Relationship Created",
	PhaseGeneralization: "GenSpec Created",
	PhaseRelationships:  "Relationship Created",
	PhaseMultivalued:    "Multivalued Attribute Created",
	PhaseDerived:        "Derived Attribute Created",
}

// Message returns the checkpoint message of a completed phase.
func (p Phase) Message() string {
	if m, ok := phaseMessages[p]; ok {
		return m
	}
	return string(p)
}

// PhaseReport describes a completed phase.
type PhaseReport struct {
	Phase      Phase
	Message    string
	Statements int
	// Warnings are the constructs the phase skipped.
	Warnings []error
}

// Result is the outcome of a successful compilation.
type Result struct {
	Script   *schema.Script
	Phases   []PhaseReport
	Warnings []error
	// Dialect is the target of Render and Commands.
	Dialect string
	// ErrorBase is the first application error code of the triggers.
	ErrorBase int

	log *zap.Logger
}

// compiler holds the state of one compilation.
type compiler struct {
	cfg     *Config
	d       *graph.Diagram
	classes *Classes
	keys    *Resolver
	emit    *emitter
}

// Compile translates the diagram into a DDL script. The diagram is not
// modified. Compile checks ctx between phases and returns its error, and no
// result, once it is done.
func Compile(ctx context.Context, d *graph.Diagram, opts ...Option) (*Result, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, erddl.NewPhaseError(string(PhaseClassify), errors.New("nil diagram"))
	}
	classes, err := Classify(d)
	if err != nil {
		return nil, erddl.NewPhaseError(string(PhaseClassify), err)
	}
	c := &compiler{
		cfg:     cfg,
		d:       d,
		classes: classes,
		keys:    NewResolver(d),
		emit:    newEmitter(cfg),
	}
	res := &Result{Script: c.emit.script, Dialect: cfg.Dialect, ErrorBase: cfg.ErrorBase, log: cfg.Logger}
	for _, p := range []struct {
		phase Phase
		run   func()
	}{
		{PhaseTables, c.tables},
		{PhasePrimaryKeys, c.primaryKeys},
		{PhasePartialKeys, c.partialKeys},
		{PhaseAssociative, c.associatives},
		{PhaseGeneralization, c.generalizations},
		{PhaseRelationships, c.relationships},
		{PhaseMultivalued, c.multivalued},
		{PhaseDerived, c.derived},
	} {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.emit.begin(p.phase)
		p.run()
		r := c.emit.report()
		res.Phases = append(res.Phases, r)
		res.Warnings = append(res.Warnings, r.Warnings...)
		cfg.Logger.Info(r.Message,
			zap.String("phase", string(r.Phase)),
			zap.Int("statements", r.Statements),
			zap.Int("warnings", len(r.Warnings)),
		)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// String returns the script text.
func (r *Result) String() string {
	return r.Script.String()
}

// WriteTo implements io.WriterTo.
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	return r.Script.WriteTo(w)
}

// WriteFile writes the script to path. The file is replaced atomically, so a
// failed write leaves any previous artifact in place.
func (r *Result) WriteFile(path string) error {
	return WriteFile(path, []byte(r.String()))
}

// ErrorCodes returns the number of application error codes raised by the
// triggers of the script.
func (r *Result) ErrorCodes() int {
	var n int
	for _, t := range r.Script.Triggers() {
		n += len(t.Codes())
	}
	return n
}

// ShiftErrorCodes adds delta to every application error code of the script.
// Results compiled separately and concatenated into one script are shifted
// by the codes of the results before them, so no two triggers share a code.
func (r *Result) ShiftErrorCodes(delta int) {
	if delta == 0 {
		return
	}
	r.ErrorBase += delta
	var warned bool
	for _, t := range r.Script.Triggers() {
		for _, br := range t.Branches {
			for _, c := range br.Checks {
				c.Code += delta
				if !warned && c.Code > MaxErrorCode && c.Code-delta <= MaxErrorCode {
					warned = true
					err := codeOverflow(c.Code, r.ErrorBase)
					r.Warnings = append(r.Warnings, err)
					r.logger().Warn("error codes shifted out of range", zap.Error(err))
				}
			}
		}
	}
}

// Validate checks the structure of the relational schema built by the
// script.
func (r *Result) Validate() *schema.ValidationResult {
	return r.Script.Validate()
}

// Commands returns the statements of the script for the result dialect. For
// portable dialects the tables and keys are planned with atlas; triggers and
// views exist only in the Oracle dialect and are left out.
func (r *Result) Commands(ctx context.Context) ([]string, error) {
	if !dialect.Portable(r.Dialect) {
		return r.Script.Commands(), nil
	}
	if n := len(r.Script.Triggers()) + len(r.Script.Views()); n > 0 {
		r.logger().Warn("triggers and views omitted", zap.String("dialect", r.Dialect), zap.Int("statements", n))
	}
	return schema.Plan(ctx, r.Dialect, r.Script.Tables())
}

// Render returns the script text for the result dialect.
func (r *Result) Render(ctx context.Context) (string, error) {
	if !dialect.Portable(r.Dialect) {
		return r.String(), nil
	}
	cmds, err := r.Commands(ctx)
	if err != nil {
		return "", fmt.Errorf("gen: render %s: %w", r.Dialect, err)
	}
	var b strings.Builder
	for _, c := range cmds {
		b.WriteString(c)
		b.WriteString(";\n")
	}
	return b.String(), nil
}

func (r *Result) logger() *zap.Logger {
	if r.log == nil {
		return zap.NewNop()
	}
	return r.log
}
