package schema

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Table   string
	Column  string
	Message string
	// Breaking indicates if this is a breaking change.
	Breaking bool
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of schema validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasBreakingChanges returns true if there are any breaking changes.
func (r *ValidationResult) HasBreakingChanges() bool {
	for _, e := range r.Errors {
		if e.Breaking {
			return true
		}
	}
	for _, w := range r.Warnings {
		if w.Breaking {
			return true
		}
	}
	return false
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	if len(r.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range r.Errors {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			if e.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString("  - ")
			sb.WriteString(w.Error())
			if w.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

func (r *ValidationResult) merge(o *ValidationResult) {
	r.Errors = append(r.Errors, o.Errors...)
	r.Warnings = append(r.Warnings, o.Warnings...)
}

// ValidateOption configures schema validation.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	allowDropColumn    bool
	allowDropTable     bool
	allowNullToNotNull bool
}

// AllowDropColumn allows dropping columns without error.
func AllowDropColumn() ValidateOption {
	return func(c *validateConfig) {
		c.allowDropColumn = true
	}
}

// AllowDropTable allows dropping tables without error.
func AllowDropTable() ValidateOption {
	return func(c *validateConfig) {
		c.allowDropTable = true
	}
}

// AllowNullToNotNull allows changing nullable columns to not null.
func AllowNullToNotNull() ValidateOption {
	return func(c *validateConfig) {
		c.allowNullToNotNull = true
	}
}

// ValidateDiff validates the difference between the tables of two
// compilations of the same diagram. It returns errors for breaking changes
// and warnings for potentially dangerous ones.
//
// Example:
//
//	result := schema.ValidateDiff(previous.Tables(), current.Tables())
//	if result.HasBreakingChanges() {
//	    log.Println("Breaking changes detected:", result)
//	}
func ValidateDiff(current, desired []*Table, opts ...ValidateOption) *ValidationResult {
	cfg := &validateConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	result := &ValidationResult{}
	desiredMap := make(map[string]*Table, len(desired))
	for _, t := range desired {
		desiredMap[t.Name] = t
	}

	for _, cur := range current {
		want, ok := desiredMap[cur.Name]
		if !ok {
			err := &ValidationError{
				Table:    cur.Name,
				Message:  "table will be dropped",
				Breaking: true,
			}
			if cfg.allowDropTable {
				result.Warnings = append(result.Warnings, err)
			} else {
				result.Errors = append(result.Errors, err)
			}
			continue
		}
		validateTableDiff(cur, want, cfg, result)
	}
	return result
}

func validateTableDiff(current, desired *Table, cfg *validateConfig, result *ValidationResult) {
	for _, c := range current.Columns {
		if _, ok := desired.Column(c.Name); ok {
			continue
		}
		err := &ValidationError{
			Table:    current.Name,
			Column:   c.Name,
			Message:  "column will be dropped",
			Breaking: true,
		}
		if cfg.allowDropColumn {
			result.Warnings = append(result.Warnings, err)
		} else {
			result.Errors = append(result.Errors, err)
		}
	}

	for _, desiredCol := range desired.Columns {
		currentCol, exists := current.Column(desiredCol.Name)
		if !exists {
			if !desiredCol.Nullable {
				result.Warnings = append(result.Warnings, &ValidationError{
					Table:   current.Name,
					Column:  desiredCol.Name,
					Message: "new NOT NULL column may fail if table has data",
				})
			}
			continue
		}

		if !strings.EqualFold(currentCol.Type, desiredCol.Type) {
			result.Warnings = append(result.Warnings, &ValidationError{
				Table:   current.Name,
				Column:  desiredCol.Name,
				Message: fmt.Sprintf("column type changing from %q to %q", currentCol.Type, desiredCol.Type),
			})
		}

		if currentCol.Nullable && !desiredCol.Nullable {
			err := &ValidationError{
				Table:    current.Name,
				Column:   desiredCol.Name,
				Message:  "column changing from NULL to NOT NULL may fail if column has NULL values",
				Breaking: true,
			}
			if cfg.allowNullToNotNull {
				result.Warnings = append(result.Warnings, err)
			} else {
				result.Errors = append(result.Errors, err)
			}
		}
	}

	if !slices.Equal(current.PrimaryKey, desired.PrimaryKey) && current.HasPrimaryKey() {
		result.Warnings = append(result.Warnings, &ValidationError{
			Table:   current.Name,
			Message: fmt.Sprintf("primary key changing from (%s) to (%s)", strings.Join(current.PrimaryKey, ", "), strings.Join(desired.PrimaryKey, ", ")),
		})
	}
}

// ValidateTable validates a single table definition.
func ValidateTable(t *Table) *ValidationResult {
	result := &ValidationResult{}

	if !t.declared {
		result.Errors = append(result.Errors, &ValidationError{
			Table:   t.Name,
			Message: "table is altered but never created",
		})
	}
	if len(t.Columns) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Table:   t.Name,
			Message: "table has no columns",
		})
	}
	if !t.HasPrimaryKey() {
		result.Warnings = append(result.Warnings, &ValidationError{
			Table:   t.Name,
			Message: "table has no primary key",
		})
	}

	colNames := make(map[string]bool)
	for _, c := range t.Columns {
		if colNames[c.Name] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Column:  c.Name,
				Message: "duplicate column name",
			})
		}
		colNames[c.Name] = true
	}

	for _, col := range t.PrimaryKey {
		if !colNames[col] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Message: fmt.Sprintf("primary key references non-existent column %q", col),
			})
		}
	}

	for _, fk := range t.ForeignKeys {
		for _, col := range fk.Columns {
			if !colNames[col] {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   t.Name,
					Message: fmt.Sprintf("foreign key %s references non-existent column %q", fk.Symbol, col),
				})
			}
		}
		if len(fk.Columns) != len(fk.RefColumns) {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Message: fmt.Sprintf("foreign key %s has %d columns but references %d", fk.Symbol, len(fk.Columns), len(fk.RefColumns)),
			})
		}
	}

	return result
}

// ValidateSchema validates all tables in a schema.
func ValidateSchema(tables []*Table) *ValidationResult {
	result := &ValidationResult{}

	byName := make(map[string]*Table)
	symbols := make(map[string]string)
	for _, t := range tables {
		if _, dup := byName[t.Name]; dup {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Message: "duplicate table name",
			})
		}
		byName[t.Name] = t
		result.merge(ValidateTable(t))

		names := make([]string, 0, len(t.ForeignKeys)+1)
		if t.PKSymbol != "" {
			names = append(names, t.PKSymbol)
		}
		for _, fk := range t.ForeignKeys {
			names = append(names, fk.Symbol)
		}
		for _, sym := range names {
			if owner, dup := symbols[sym]; dup {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   t.Name,
					Message: fmt.Sprintf("constraint name %s already used on %s", sym, owner),
				})
				continue
			}
			symbols[sym] = t.Name
		}
	}

	for _, t := range tables {
		for _, fk := range t.ForeignKeys {
			ref, ok := byName[fk.RefTable]
			if !ok {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   t.Name,
					Message: fmt.Sprintf("foreign key %s references non-existent table %q", fk.Symbol, fk.RefTable),
				})
				continue
			}
			for _, col := range fk.RefColumns {
				if _, ok := ref.Column(col); !ok {
					result.Errors = append(result.Errors, &ValidationError{
						Table:   t.Name,
						Message: fmt.Sprintf("foreign key %s references non-existent column %s.%s", fk.Symbol, ref.Name, col),
					})
				}
			}
			if ref.HasPrimaryKey() && !slices.Equal(ref.PrimaryKey, fk.RefColumns) {
				result.Warnings = append(result.Warnings, &ValidationError{
					Table:   t.Name,
					Message: fmt.Sprintf("foreign key %s does not reference the primary key of %s", fk.Symbol, ref.Name),
				})
			}
		}
	}

	return result
}

// Validate replays the script and validates the resulting tables.
func (s *Script) Validate() *ValidationResult {
	return ValidateSchema(s.Tables())
}
