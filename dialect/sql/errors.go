package sql

import (
	"errors"
	"strings"
)

// errorCoder is implemented by database errors carrying a string code,
// such as pq.Error.
type errorCoder interface {
	Code() string
}

// errorNumberer is implemented by database errors carrying a numeric code.
type errorNumberer interface {
	Number() uint16
}

// sqlStateError is implemented by errors that expose a SQLSTATE code.
type sqlStateError interface {
	SQLState() string
}

// PostgreSQL SQLSTATE codes.
const (
	pgDuplicateTable      = "42P07"
	pgDuplicateObject     = "42710"
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
)

// MySQL error numbers.
const (
	mysqlTableExists     = 1050
	mysqlDuplicateKey    = 1061
	mysqlDuplicateFK     = 1826
	mysqlDuplicateEntry  = 1062
	mysqlForeignKeyChild = 1452
	mysqlInvalidNull     = 1138
)

// IsAlreadyExists reports whether err resulted from creating a table,
// constraint or other object that already exists, usually because the script
// was applied before.
func IsAlreadyExists(err error) bool {
	if err == nil {
		return false
	}
	if hasState(err, pgDuplicateTable, pgDuplicateObject) || hasNumber(err, mysqlTableExists, mysqlDuplicateKey, mysqlDuplicateFK) {
		return true
	}
	return containsAny(err.Error(),
		"Error 1050",
		"already exists",
		"ORA-00955",
	)
}

// IsConstraintViolation reports whether err resulted from adding a key or
// NOT NULL constraint to a table whose rows violate it.
func IsConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	if hasState(err, pgUniqueViolation, pgForeignKeyViolation, pgNotNullViolation) ||
		hasNumber(err, mysqlDuplicateEntry, mysqlForeignKeyChild, mysqlInvalidNull) {
		return true
	}
	return containsAny(err.Error(),
		"Error 1062",
		"Error 1452",
		"violates unique constraint",
		"violates foreign key constraint",
		"violates not-null constraint",
		"UNIQUE constraint failed",
		"FOREIGN KEY constraint failed",
		"NOT NULL constraint failed",
	)
}

func hasState(err error, codes ...string) bool {
	var state string
	if e, ok := asError[sqlStateError](err); ok {
		state = e.SQLState()
	} else if e, ok := asError[errorCoder](err); ok {
		state = e.Code()
	}
	for _, c := range codes {
		if state == c {
			return true
		}
	}
	return false
}

func hasNumber(err error, numbers ...uint16) bool {
	e, ok := asError[errorNumberer](err)
	if !ok {
		return false
	}
	for _, n := range numbers {
		if e.Number() == n {
			return true
		}
	}
	return false
}

// asError extracts an error implementing T from the chain of err.
func asError[T any](err error) (T, bool) {
	var target T
	if errors.As(err, &target) {
		return target, true
	}
	return target, false
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
