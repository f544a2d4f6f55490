package dialect

import (
	"fmt"
	"slices"
	"strings"
)

// Dialect names.
const (
	Oracle   = "oracle"
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

// Names lists every supported dialect, Oracle first.
var Names = []string{Oracle, Postgres, MySQL, SQLite}

// Parse returns the canonical dialect name for s. Driver names such as
// "sqlite3" and "postgresql" map to their dialect.
func Parse(s string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch {
	case name == "":
		return Oracle, nil
	case slices.Contains(Names, name):
		return name, nil
	case strings.HasPrefix(name, SQLite):
		return SQLite, nil
	case strings.HasPrefix(name, Postgres), name == "pgx":
		return Postgres, nil
	}
	return "", fmt.Errorf("dialect: unsupported dialect %q", s)
}

// Portable reports whether the dialect is planned through atlas rather than
// rendered by the Oracle emitter.
func Portable(name string) bool {
	return name == Postgres || name == MySQL || name == SQLite
}
