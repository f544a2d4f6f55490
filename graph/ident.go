package graph

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TableName returns the table identifier of an entity label: upper-cased,
// with runs of whitespace replaced by a single underscore.
func TableName(label string) string {
	return cases.Upper(language.Und).String(joinFields(label))
}

// Lower lower-cases s.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// ColumnName returns the column identifier derived from an attribute label
// that is not used verbatim, such as a multivalued attribute.
func ColumnName(label string) string {
	return Lower(joinFields(label))
}

// ForeignColumn names the column that carries key into another table:
// "<key>-<table lower-cased>".
func ForeignColumn(key, table string) string {
	return key + "-" + Lower(table)
}

func joinFields(s string) string {
	return strings.Join(strings.Fields(s), "_")
}
