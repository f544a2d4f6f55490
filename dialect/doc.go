// Package dialect names the SQL dialects erddl can target.
//
// # Supported Dialects
//
// The compiler emits Oracle DDL with PL/SQL triggers. The table, key and
// foreign key subset of a compiled script can also be planned for:
//
//   - Postgres: PostgreSQL database
//   - MySQL: MySQL/MariaDB database
//   - SQLite: SQLite database
//
// # Dialect Constants
//
//	dialect.Oracle   = "oracle"
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// # Sub-packages
//
//   - dialect/sql: executes compiled scripts on a database/sql connection
//   - dialect/sql/schema: statement model, rendering, validation and planning
package dialect
