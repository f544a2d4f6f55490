package sql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/syssam/erddl/dialect"
)

// TxBeginner starts transactions. It is implemented by *sql.DB.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Driver is a database connection of a known dialect.
type Driver struct {
	db      *sql.DB
	dialect string
}

// Open wraps the database/sql.Open method and returns a Driver. The dialect
// names the registered database/sql driver; "sqlite3" and "postgresql" are
// accepted aliases.
func Open(name, source string) (*Driver, error) {
	d, err := dialect.Parse(name)
	if err != nil {
		return nil, err
	}
	if d == dialect.Oracle {
		return nil, fmt.Errorf("dialect/sql: no registered driver for dialect %q", name)
	}
	db, err := sql.Open(d, source)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: open %s: %w", d, err)
	}
	return &Driver{db: db, dialect: d}, nil
}

// OpenDB wraps the given database/sql.DB with a Driver.
func OpenDB(name string, db *sql.DB) *Driver {
	return &Driver{db: db, dialect: name}
}

// DB returns the underlying *sql.DB instance.
func (d *Driver) DB() *sql.DB {
	return d.db
}

// Dialect returns the dialect of the connection.
func (d *Driver) Dialect() string {
	for _, name := range []string{dialect.MySQL, dialect.SQLite, dialect.Postgres} {
		if strings.HasPrefix(d.dialect, name) {
			return name
		}
	}
	return d.dialect
}

// Close closes the underlying connection.
func (d *Driver) Close() error { return d.db.Close() }
